// Command detailgen generates the detail of a single chunk from a tile grid and
// prints the density maps and appearance state.
//
// The grid is read from the file passed with -grid, or from stdin, as rows of
// tile codes separated by spaces or commas.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/df-mc/groundcover/server"
	"github.com/df-mc/groundcover/server/world/detail"
	"github.com/df-mc/groundcover/server/world/detail/appearance"
	"github.com/df-mc/groundcover/server/world/detail/climate"
	"github.com/df-mc/groundcover/server/world/detail/tile"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func main() {
	var (
		confPath, gridPath, climateName, seasonName string
		x, z, day                                   int
		verbose                                     bool
	)
	flag.StringVar(&confPath, "config", "detail.toml", "path to the detail configuration (.toml, .yaml or .yml)")
	flag.StringVar(&gridPath, "grid", "", "path to the tile grid, stdin if empty")
	flag.StringVar(&climateName, "climate", "temperate", "climate of the chunk: temperate, mountain, swamp or desert")
	flag.StringVar(&seasonName, "season", "summer", "season of the chunk: summer or winter")
	flag.IntVar(&x, "x", 0, "chunk X coordinate")
	flag.IntVar(&z, "z", 0, "chunk Z coordinate")
	flag.IntVar(&day, "day", 150, "day of the year in [0, 360)")
	flag.BoolVar(&verbose, "v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(log, confPath, gridPath, climateName, seasonName, detail.ChunkPos{int32(x), int32(z)}, day); err != nil {
		log.Error("Generating detail failed.", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, confPath, gridPath, climateName, seasonName string, pos detail.ChunkPos, day int) error {
	conf, err := detail.LoadConfig(confPath, log)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c, err := climate.Parse(climateName)
	if err != nil {
		return err
	}
	s, err := climate.ParseSeason(seasonName)
	if err != nil {
		return err
	}
	grid, err := readGrid(gridPath)
	if err != nil {
		return fmt.Errorf("read grid: %w", err)
	}
	if grid.Dim != conf.ChunkTiles {
		log.Info("Grid size differs from the configured chunk size, using grid size.", "grid", grid.Dim, "configured", conf.ChunkTiles)
		conf.ChunkTiles = grid.Dim
	}

	out := &printer{w: bufio.NewWriter(os.Stdout)}
	srv, err := server.Config{
		Log:      log,
		Detail:   conf,
		Workers:  1,
		Source:   staticSource{grid: grid, env: detail.Environment{Climate: c, Season: s, Day: day}},
		Renderer: out,
	}.New()
	if err != nil {
		return err
	}
	if err := srv.Decorate(context.Background(), pos); err != nil {
		return err
	}
	return out.w.Flush()
}

// staticSource serves the same grid and environment for every chunk.
type staticSource struct {
	grid tile.Grid
	env  detail.Environment
}

func (s staticSource) Tiles(detail.ChunkPos) (tile.Grid, error) {
	return s.grid, nil
}

func (s staticSource) Environment(detail.ChunkPos) (detail.Environment, error) {
	return s.env, nil
}

// printer writes committed results as text.
type printer struct {
	w *bufio.Writer
}

func (p *printer) Commit(pos detail.ChunkPos, res server.Result) {
	title := cases.Title(language.English)
	_, _ = fmt.Fprintf(p.w, "chunk %v: %v %v, day %v\n", pos, title.String(res.Appearance.Climate.String()), res.Appearance.Season, res.Appearance.Day)
	_, _ = fmt.Fprintf(p.w, "assets %v (%v)\n", res.Appearance.Key, res.Appearance.Branch)
	for i, l := range res.Appearance.Layers {
		_, _ = fmt.Fprintf(p.w, "  %-7v healthy %v dry %v height %v width %v\n",
			title.String(appearance.Layer(i).String()), l.Colour.Healthy.Hex(), l.Colour.Dry.Hex(), l.Height, l.Width)
	}
	res.Maps.Each(func(c detail.Category, dm *detail.DensityMap) {
		_, _ = fmt.Fprintf(p.w, "\n%v (layer %v, %v cells)\n", title.String(c.String()), c.Layer(), dm.NonZero())
		// Row 0 is the southern edge, so print from the top down.
		rows := dm.Rows()
		for y := len(rows) - 1; y >= 0; y-- {
			cells := make([]string, len(rows[y]))
			for x, v := range rows[y] {
				cells[x] = strconv.Itoa(v)
			}
			_, _ = fmt.Fprintln(p.w, strings.Join(cells, " "))
		}
	})
}

func (p *printer) Clear(pos detail.ChunkPos) {
	_, _ = fmt.Fprintf(p.w, "chunk %v: no detail\n", pos)
}

func readGrid(path string) (tile.Grid, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return tile.Grid{}, err
		}
		defer f.Close()
		r = f
	}
	return parseGrid(r)
}

func parseGrid(r io.Reader) (tile.Grid, error) {
	var rows [][]tile.Code
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.FieldsFunc(sc.Text(), func(r rune) bool {
			return r == ' ' || r == ',' || r == '\t'
		})
		if len(fields) == 0 {
			continue
		}
		row := make([]tile.Code, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseUint(f, 10, 8)
			if err != nil {
				return tile.Grid{}, fmt.Errorf("row %v: %w", len(rows), err)
			}
			row[i] = tile.Code(v)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return tile.Grid{}, err
	}
	return tile.GridOf(rows...)
}
