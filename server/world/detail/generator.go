// Package detail generates the per-chunk density maps of grass, water plants,
// rocks and flowers from a grid of terrain tile codes.
package detail

import (
	"errors"
	"fmt"

	"github.com/df-mc/groundcover/server/world/detail/appearance"
	"github.com/df-mc/groundcover/server/world/detail/bounds"
	"github.com/df-mc/groundcover/server/world/detail/climate"
	"github.com/df-mc/groundcover/server/world/detail/rand"
	"github.com/df-mc/groundcover/server/world/detail/season"
	"github.com/df-mc/groundcover/server/world/detail/tile"
)

var (
	// ErrInvalidInput is returned for tile grids that do not match the chunk
	// resolution and for malformed configuration.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownClimate is returned for climates outside the defined set.
	ErrUnknownClimate = climate.ErrUnknown
	// ErrUnseededRandomness is returned if a Context without a random source
	// is passed to Generate.
	ErrUnseededRandomness = rand.ErrUnseeded
)

// ChunkPos is the position of a chunk in chunk coordinates.
type ChunkPos [2]int32

// X returns the X coordinate of the chunk.
func (p ChunkPos) X() int32 { return p[0] }

// Z returns the Z coordinate of the chunk.
func (p ChunkPos) Z() int32 { return p[1] }

func (p ChunkPos) String() string {
	return fmt.Sprintf("(%v, %v)", p[0], p[1])
}

// Environment is the climate and calendar state of a chunk.
type Environment struct {
	Climate climate.Climate
	Season  climate.Season
	// Day is the day of the year. Values outside of [0, 360) wrap around.
	Day int
}

// Validate returns an error wrapping ErrUnknownClimate for undefined climates
// and ErrInvalidInput for undefined seasons.
func (e Environment) Validate() error {
	if !e.Climate.Valid() {
		return fmt.Errorf("%w: %v", ErrUnknownClimate, e.Climate)
	}
	if !e.Season.Valid() {
		return fmt.Errorf("%w: unknown season %v", ErrInvalidInput, e.Season)
	}
	return nil
}

// Context is the generation state owned by a single chunk. It holds the random
// source that is reseeded on every call to Generate and the appearance memo of
// the chunk. Contexts of different chunks share nothing, so chunks may be
// generated in parallel as long as every Context is used by one goroutine at a
// time.
type Context struct {
	pos ChunkPos
	key uint64
	rng *rand.Random
	res *appearance.Resolver
}

// Pos returns the position of the chunk of the Context.
func (ctx *Context) Pos() ChunkPos {
	return ctx.pos
}

// Key returns the seed key of the chunk.
func (ctx *Context) Key() uint64 {
	return ctx.key
}

// Changed reports if the last call to Generator.Appearance selected a
// different asset key than the call before it.
func (ctx *Context) Changed() bool {
	return ctx.res.Changed()
}

// Generator produces density maps and appearance states from a Config. A
// Generator holds no mutable state and is safe for concurrent use.
type Generator struct {
	conf Config
}

// Config returns the configuration of the Generator.
func (g *Generator) Config() Config {
	return g.conf
}

// NewContext returns a fresh generation context for the chunk at pos.
func (g *Generator) NewContext(pos ChunkPos) *Context {
	return &Context{
		pos: pos,
		key: rand.ChunkSeed(g.conf.Seed, pos.X(), pos.Z()),
		rng: rand.NewRandom(),
		res: appearance.NewResolver(g.conf.Appearance),
	}
}

// Appearance resolves the appearance state of the chunk of ctx.
func (g *Generator) Appearance(ctx *Context, env Environment) (appearance.State, error) {
	if ctx == nil || ctx.res == nil {
		return appearance.State{}, fmt.Errorf("%w: nil context", ErrInvalidInput)
	}
	if err := env.Validate(); err != nil {
		return appearance.State{}, err
	}
	return ctx.res.Resolve(env.Climate, env.Season, env.Day)
}

// Generate builds the density maps of the chunk of ctx from grid. The maps
// have twice the resolution of grid. Generate is deterministic: the same
// context position, grid, environment and configuration always produce the
// same maps. If an error is returned, no maps are produced.
func (g *Generator) Generate(ctx *Context, grid tile.Grid, env Environment) (*Maps, error) {
	if err := env.Validate(); err != nil {
		return nil, err
	}
	if ctx == nil || ctx.rng == nil {
		return nil, fmt.Errorf("%w: context has no random source", ErrUnseededRandomness)
	}
	if err := grid.Validate(g.conf.ChunkTiles); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	ctx.rng.Seed(ctx.key)

	active := g.conf.Features & allowed(env.Climate, env.Season)
	chance := g.conf.Appearance.Curve.ChanceAt(env.Day)
	if env.Season == climate.Winter {
		chance = season.WinterCap(chance, g.conf.Chances.WinterCap)
	}
	s := &scan{
		conf:   g.conf,
		env:    env,
		rng:    ctx.rng,
		maps:   newMaps(grid.Dim*2, active),
		chance: chance,
	}
	for y := 0; y < grid.Dim; y++ {
		for x := 0; x < grid.Dim; x++ {
			s.tile(y, x, tile.Lookup(grid.At(y, x)))
		}
	}
	g.conf.Log.Debug("Generated chunk detail.", "chunkX", ctx.pos.X(), "chunkZ", ctx.pos.Z(), "climate", env.Climate, "season", env.Season, "day", env.Day, "active", active, "cells", s.maps.NonZero())
	return s.maps, nil
}

// scan holds the state of a single call to Generate.
type scan struct {
	conf   Config
	env    Environment
	rng    *rand.Random
	maps   *Maps
	chance float64
}

// tile fills the 2x2 block of the macro-tile at (y, x).
func (s *scan) tile(y, x int, c tile.Class) {
	switch c.Kind {
	case tile.OpenSea:
	case tile.OpenWater:
		s.openWater(y, x)
	case tile.Farmland:
		if s.maps.active.Has(Rock) && s.rng.Bernoulli(s.conf.Chances.FarmlandRock) {
			s.scatter(y, x, Rock)
		}
	default:
		if s.env.Climate == climate.Desert {
			s.desertShore(y, x, c)
			return
		}
		fill := c.Pattern.Quadrants()
		if s.maps.active.Has(Grass) {
			fill.Each(func(q tile.Quadrants) {
				s.siphon(y, x, q)
			})
		}
		if c.Kind == tile.Shore && s.maps.active.Has(WaterPlant) {
			fill.Complement().Each(func(q tile.Quadrants) {
				s.roll(y, x, q, WaterPlant, s.conf.Ranges.WaterPlant)
			})
		}
		if c.Pattern != tile.All {
			return
		}
		if s.maps.active.Has(Rock) && s.rng.Bernoulli(s.conf.Chances.StrayRock) {
			s.scatter(y, x, Rock)
		}
		if s.maps.active.Has(Flower) && s.rng.Bernoulli(s.conf.Chances.Flower*s.chance) {
			s.scatter(y, x, Flower)
		}
	}
}

// openWater places water plants on inland water. Open water is frozen over in
// winter.
func (s *scan) openWater(y, x int) {
	if s.env.Season == climate.Winter {
		return
	}
	switch s.env.Climate {
	case climate.Mountain:
		if !s.maps.active.Has(Grass) {
			return
		}
		tile.LeftToRight.Quadrants().Each(func(q tile.Quadrants) {
			s.roll(y, x, q, Grass, s.conf.Ranges.WaterGrass)
		})
	case climate.Temperate, climate.Swamp:
		if !s.maps.active.Has(Waterlily) {
			return
		}
		tile.AllQuadrants.Each(func(q tile.Quadrants) {
			s.roll(y, x, q, Waterlily, s.conf.Ranges.Waterlily)
		})
	}
}

// desertShore places desert plants along oasis shores. Inland desert tiles
// stay bare.
func (s *scan) desertShore(y, x int, c tile.Class) {
	if c.Kind != tile.Shore {
		return
	}
	fill := c.Pattern.Quadrants()
	if s.maps.active.Has(Grass) {
		fill.Each(func(q tile.Quadrants) {
			s.roll(y, x, q, Grass, s.conf.Ranges.Desert)
		})
	}
	if s.maps.active.Has(WaterPlant) {
		fill.Complement().Each(func(q tile.Quadrants) {
			s.roll(y, x, q, WaterPlant, s.conf.Ranges.WaterPlant)
		})
	}
}

// siphon rolls the grass density of quadrant q and moves part of it into the
// detail and accent layers. The three layers always sum up to the roll.
func (s *scan) siphon(y, x int, q tile.Quadrants) {
	v := s.rng.Next(s.conf.Ranges.Grass)
	d, a := 0, 0
	if s.maps.active.Has(GrassDetail) && s.rng.Bernoulli(s.conf.Chances.Detail*s.chance) {
		d = min(s.rng.Next(s.conf.Ranges.GrassDetail), v)
	}
	if s.maps.active.Has(GrassAccent) && s.rng.Bernoulli(s.conf.Chances.Accent*s.chance) {
		a = min(s.rng.Next(s.conf.Ranges.GrassAccent), v-d)
	}
	cy, cx := cell(y, x, q)
	s.maps.set(Grass, cy, cx, v-d-a)
	s.maps.set(GrassDetail, cy, cx, d)
	s.maps.set(GrassAccent, cy, cx, a)
}

// scatter places a roll of category c on one random quadrant of the tile.
func (s *scan) scatter(y, x int, c Category) {
	q := tile.AllQuadrants.Nth(s.rng.IntN(4))
	s.roll(y, x, q, c, s.conf.Ranges.Of(c))
}

func (s *scan) roll(y, x int, q tile.Quadrants, c Category, r bounds.Range[int]) {
	cy, cx := cell(y, x, q)
	s.maps.set(c, cy, cx, s.rng.Next(r))
}

// cell returns the density map cell of quadrant q of the macro-tile at (y, x).
func cell(y, x int, q tile.Quadrants) (int, int) {
	dy, dx := q.Offset()
	return y*2 + dy, x*2 + dx
}
