package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/df-mc/groundcover/server/world/detail"
	"github.com/df-mc/groundcover/server/world/detail/climate"
	"github.com/df-mc/groundcover/server/world/detail/tile"
)

var errNoTerrain = errors.New("no terrain")

type testSource struct {
	mu      sync.Mutex
	dim     int
	code    tile.Code
	climate map[detail.ChunkPos]climate.Climate
	season  climate.Season
	missing map[detail.ChunkPos]bool
	// onEnvironment is called every time an environment is read.
	onEnvironment func()
}

func (s *testSource) set(f func(s *testSource)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(s)
}

func (s *testSource) Tiles(pos detail.ChunkPos) (tile.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.missing[pos] {
		return tile.Grid{}, errNoTerrain
	}
	g := tile.NewGrid(s.dim)
	for i := range g.Codes {
		g.Codes[i] = s.code
	}
	return g, nil
}

func (s *testSource) Environment(pos detail.ChunkPos) (detail.Environment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.onEnvironment != nil {
		s.onEnvironment()
	}
	c, ok := s.climate[pos]
	if !ok {
		c = climate.Temperate
	}
	return detail.Environment{Climate: c, Season: s.season, Day: 150}, nil
}

type testRenderer struct {
	mu        sync.Mutex
	committed map[detail.ChunkPos]Result
	commits   int
	cleared   map[detail.ChunkPos]bool
}

func newTestRenderer() *testRenderer {
	return &testRenderer{committed: make(map[detail.ChunkPos]Result), cleared: make(map[detail.ChunkPos]bool)}
}

func (r *testRenderer) Commit(pos detail.ChunkPos, res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.committed[pos] = res
	r.commits++
}

func (r *testRenderer) Clear(pos detail.ChunkPos) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.committed, pos)
	r.cleared[pos] = true
}

func newTestServer(t *testing.T, src *testSource, r *testRenderer) *Server {
	t.Helper()
	conf := detail.DefaultConfig()
	conf.ChunkTiles = src.dim
	srv, err := Config{Log: slog.Default(), Detail: conf, Workers: 4, Source: src, Renderer: r}.New()
	if err != nil {
		t.Fatalf("create server: %v", err)
	}
	return srv
}

func TestConfigNew(t *testing.T) {
	if _, err := (Config{Renderer: newTestRenderer()}).New(); err == nil {
		t.Fatalf("expected an error without a terrain source")
	}
	if _, err := (Config{Source: &testSource{}}).New(); err == nil {
		t.Fatalf("expected an error without a renderer")
	}
	conf := detail.DefaultConfig()
	conf.Chances.Flower = 2
	_, err := Config{Source: &testSource{}, Renderer: newTestRenderer(), Detail: conf}.New()
	if !errors.Is(err, detail.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDecorate(t *testing.T) {
	src := &testSource{dim: 8, code: 8}
	r := newTestRenderer()
	srv := newTestServer(t, src, r)

	positions := []detail.ChunkPos{{0, 0}, {0, 1}, {1, 0}, {-4, 7}, {0, 0}}
	if err := srv.Decorate(context.Background(), positions...); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.committed) != 4 || r.commits != 4 {
		t.Fatalf("expected 4 chunks committed once, got %v chunks and %v commits", len(r.committed), r.commits)
	}
	for pos, res := range r.committed {
		if res.Maps == nil || res.Maps.Dim() != 16 {
			t.Fatalf("chunk %v: expected 16x16 maps", pos)
		}
		if res.Appearance.Key != "grass_temperate_summer" || !res.AssetsChanged {
			t.Fatalf("chunk %v: expected new temperate summer assets, got %q", pos, res.Appearance.Key)
		}
	}
	if n := srv.Metrics().Chunks(); n != 4 {
		t.Fatalf("expected metrics for 4 chunks, got %v", n)
	}
	if tot := srv.Metrics().Totals(); tot.Generated != 4 || tot.Failed != 0 || tot.Cells == 0 {
		t.Fatalf("expected 4 generated and 0 failed with cells written, got %+v", tot)
	}
}

func TestDecorateReproducesLayout(t *testing.T) {
	src := &testSource{dim: 8, code: 8}
	r := newTestRenderer()
	srv := newTestServer(t, src, r)
	pos := detail.ChunkPos{3, 3}

	if err := srv.Decorate(context.Background(), pos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := r.committed[pos]
	if err := srv.Decorate(context.Background(), pos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again := r.committed[pos]
	if !first.Maps.Equal(again.Maps) {
		t.Fatalf("expected regeneration to reproduce the layout")
	}
	if again.AssetsChanged {
		t.Fatalf("expected unchanged assets on regeneration")
	}

	if err := srv.Reload(srv.Generator().Config()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := srv.Decorate(context.Background(), pos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Maps.Equal(r.committed[pos].Maps) {
		t.Fatalf("expected reload with the same settings to reproduce the layout")
	}
	if !r.committed[pos].AssetsChanged {
		t.Fatalf("expected reload to report new assets")
	}
}

func TestDecorateFailures(t *testing.T) {
	bad, missing, good := detail.ChunkPos{1, 1}, detail.ChunkPos{2, 2}, detail.ChunkPos{3, 3}
	src := &testSource{
		dim:     4,
		code:    8,
		climate: map[detail.ChunkPos]climate.Climate{bad: climate.Climate(42)},
		missing: map[detail.ChunkPos]bool{missing: true},
	}
	r := newTestRenderer()
	srv := newTestServer(t, src, r)

	// Detail committed before must be cleared for the unknown climate and kept
	// for the chunk without terrain.
	r.committed[bad] = Result{}
	r.committed[missing] = Result{}

	err := srv.Decorate(context.Background(), bad, missing, good)
	if !errors.Is(err, detail.ErrUnknownClimate) || !errors.Is(err, errNoTerrain) {
		t.Fatalf("expected unknown climate and missing terrain errors, got %v", err)
	}
	if _, ok := r.committed[bad]; ok || !r.cleared[bad] {
		t.Fatalf("expected chunk with unknown climate to be cleared")
	}
	if _, ok := r.committed[missing]; !ok || r.cleared[missing] {
		t.Fatalf("expected chunk without terrain to keep its detail")
	}
	if r.committed[good].Maps == nil {
		t.Fatalf("expected the valid chunk to be committed")
	}
	if s := srv.Metrics().Chunk(bad); s.Failed != 1 || s.Generated != 0 {
		t.Fatalf("expected 1 failure for the unknown climate, got %+v", s)
	}
	if s := srv.Metrics().Totals(); s.Failed != 2 || s.Generated != 1 {
		t.Fatalf("expected 2 failures and 1 success, got %+v", s)
	}
}

func TestDecorateInvalidGrid(t *testing.T) {
	src := &testSource{dim: 4, code: 8}
	r := newTestRenderer()
	srv := newTestServer(t, src, r)

	conf := srv.Generator().Config()
	conf.ChunkTiles = 8
	if err := srv.Reload(conf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := srv.Decorate(context.Background(), detail.ChunkPos{})
	if !errors.Is(err, detail.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if r.commits != 0 {
		t.Fatalf("expected nothing to be committed, got %v commits", r.commits)
	}
}

func TestDecorateCancelled(t *testing.T) {
	src := &testSource{dim: 4, code: 8}
	r := newTestRenderer()
	srv := newTestServer(t, src, r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := srv.Decorate(ctx, detail.ChunkPos{}, detail.ChunkPos{1, 0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if r.commits != 0 {
		t.Fatalf("expected nothing to be committed after cancellation, got %v commits", r.commits)
	}
}

func TestAbandonedRunKeepsAssetsPending(t *testing.T) {
	src := &testSource{dim: 4, code: 8}
	r := newTestRenderer()
	srv := newTestServer(t, src, r)
	pos := detail.ChunkPos{}

	if err := srv.Decorate(context.Background(), pos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res := r.committed[pos]; res.Appearance.Key != "grass_temperate_summer" || !res.AssetsChanged {
		t.Fatalf("expected new summer assets, got %q", res.Appearance.Key)
	}

	// The run is cancelled after it has started, so its winter result is
	// discarded.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src.set(func(s *testSource) {
		s.season = climate.Winter
		s.onEnvironment = cancel
	})
	if err := srv.Decorate(ctx, pos); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if r.commits != 1 {
		t.Fatalf("expected the cancelled run not to commit, got %v commits", r.commits)
	}

	src.set(func(s *testSource) { s.onEnvironment = nil })
	if err := srv.Decorate(context.Background(), pos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res := r.committed[pos]; res.Appearance.Key != "grass_temperate_winter" || !res.AssetsChanged {
		t.Fatalf("expected winter assets to be reported as changed, got %q changed=%v", res.Appearance.Key, res.AssetsChanged)
	}
}

func TestClearedChunkReportsAssets(t *testing.T) {
	src := &testSource{dim: 4, code: 8}
	r := newTestRenderer()
	srv := newTestServer(t, src, r)
	pos := detail.ChunkPos{2, 0}

	if err := srv.Decorate(context.Background(), pos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src.set(func(s *testSource) {
		s.climate = map[detail.ChunkPos]climate.Climate{pos: climate.Climate(42)}
	})
	if err := srv.Decorate(context.Background(), pos); !errors.Is(err, detail.ErrUnknownClimate) {
		t.Fatalf("expected ErrUnknownClimate, got %v", err)
	}
	if !r.cleared[pos] {
		t.Fatalf("expected the chunk to be cleared")
	}

	src.set(func(s *testSource) { s.climate = nil })
	if err := srv.Decorate(context.Background(), pos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res := r.committed[pos]; res.Appearance.Key != "grass_temperate_summer" || !res.AssetsChanged {
		t.Fatalf("expected assets of a cleared chunk to be reported as changed, got %q changed=%v", res.Appearance.Key, res.AssetsChanged)
	}
}

func TestForget(t *testing.T) {
	src := &testSource{dim: 4, code: 8}
	r := newTestRenderer()
	srv := newTestServer(t, src, r)
	pos := detail.ChunkPos{5, -5}

	if err := srv.Decorate(context.Background(), pos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	srv.Forget(pos)
	if s := srv.Metrics().Chunk(pos); s != (ChunkStats{}) {
		t.Fatalf("expected metrics to be dropped, got %+v", s)
	}
	if err := srv.Decorate(context.Background(), pos); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.committed[pos].AssetsChanged {
		t.Fatalf("expected a forgotten chunk to report new assets")
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.success(detail.ChunkPos{}, 3)
	m.failure(detail.ChunkPos{})
	if m.Chunks() != 0 || m.Totals() != (ChunkStats{}) {
		t.Fatalf("expected nil metrics to stay empty")
	}
}
