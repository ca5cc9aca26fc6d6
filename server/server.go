// Package server decorates terrain chunks with detail. It reads tile grids and
// environments from a TerrainSource, generates density maps and appearance
// states in parallel and commits complete results to a Renderer.
package server

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/df-mc/groundcover/server/world/detail"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Server decorates chunks with detail. A Server is safe for concurrent use.
type Server struct {
	conf Config

	gen atomic.Pointer[detail.Generator]

	mu       sync.Mutex
	contexts map[detail.ChunkPos]*chunkState

	metrics *Metrics
}

// chunkState is the generation context kept for a chunk between runs.
type chunkState struct {
	mu  sync.Mutex
	gen *detail.Generator
	ctx *detail.Context
	// committed is the asset key held by the Renderer for the chunk, empty if
	// nothing is committed.
	committed string
}

// Decorate generates detail for the chunks at the positions passed and commits
// the results to the Renderer. Chunks are processed in parallel by up to
// Config.Workers goroutines.
//
// A chunk with an unknown climate has its detail cleared. Any other failure
// leaves the detail previously committed for the chunk untouched. The errors
// of all failed chunks are joined and returned. If ctx is cancelled, chunks
// not yet committed are skipped and ctx.Err() is part of the error returned.
func (srv *Server) Decorate(ctx context.Context, positions ...detail.ChunkPos) error {
	run := uuid.New()
	log := srv.conf.Log.With("run", run.String())
	log.Debug("Decorating chunks.", "chunks", len(positions), "workers", srv.conf.Workers)

	var (
		eg   errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	eg.SetLimit(srv.conf.Workers)
	seen := make(map[detail.ChunkPos]struct{}, len(positions))
	for _, pos := range positions {
		if _, ok := seen[pos]; ok {
			continue
		}
		seen[pos] = struct{}{}
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := srv.decorate(ctx, pos); err != nil {
				srv.metrics.failure(pos)
				log.Debug("Chunk decoration failed.", "chunkX", pos.X(), "chunkZ", pos.Z(), "err", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("chunk %v: %w", pos, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		log.Warn("Some chunks could not be decorated.", "failed", len(errs), "chunks", len(seen))
	}
	return errors.Join(errs...)
}

// decorate generates and commits the detail of a single chunk. Panics during
// generation are recovered and returned as errors so that a single broken
// chunk does not take down the worker pool.
func (srv *Server) decorate(ctx context.Context, pos detail.ChunkPos) (err error) {
	st := srv.state(pos)
	st.mu.Lock()
	defer st.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			srv.conf.Log.Error("decorate chunk: panic", "error", fmt.Sprint(r), "chunkX", pos.X(), "chunkZ", pos.Z())
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	grid, err := srv.conf.Source.Tiles(pos)
	if err != nil {
		return fmt.Errorf("read tiles: %w", err)
	}
	env, err := srv.conf.Source.Environment(pos)
	if err != nil {
		return fmt.Errorf("read environment: %w", err)
	}
	maps, err := st.gen.Generate(st.ctx, grid, env)
	if errors.Is(err, detail.ErrUnknownClimate) {
		// Degrade to no detail rather than showing stale detail of another
		// climate.
		srv.conf.Renderer.Clear(pos)
		st.committed = ""
		return err
	} else if err != nil {
		return err
	}
	app, err := st.gen.Appearance(st.ctx, env)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		// Abandoned: the result is discarded without being committed.
		return nil
	}
	srv.conf.Renderer.Commit(pos, Result{Maps: maps, Appearance: app, AssetsChanged: app.Key != st.committed})
	st.committed = app.Key
	srv.metrics.success(pos, maps.NonZero())
	return nil
}

// state returns the chunk state of pos, creating it with the current
// generator if none exists yet.
func (srv *Server) state(pos detail.ChunkPos) *chunkState {
	gen := srv.gen.Load()

	srv.mu.Lock()
	defer srv.mu.Unlock()
	st, ok := srv.contexts[pos]
	if !ok || st.gen != gen {
		st = &chunkState{gen: gen, ctx: gen.NewContext(pos)}
		srv.contexts[pos] = st
	}
	return st
}

// Reload validates conf and replaces the detail configuration of the Server.
// All chunk contexts are dropped, so the next call to Decorate regenerates
// every chunk from scratch. Chunks with the same seed and tiles keep their
// layout if the configuration only changed in appearance.
func (srv *Server) Reload(conf detail.Config) error {
	if conf.Log == nil {
		conf.Log = srv.conf.Log
	}
	gen, err := conf.New()
	if err != nil {
		return fmt.Errorf("reload: %w", err)
	}
	srv.gen.Store(gen)

	srv.mu.Lock()
	clear(srv.contexts)
	srv.mu.Unlock()

	srv.conf.Log.Info("Detail configuration reloaded.", "features", gen.Config().Features, "seed", gen.Config().Seed)
	return nil
}

// Forget drops the generation context and metrics of the chunk at pos. It is
// typically called when the chunk is unloaded.
func (srv *Server) Forget(pos detail.ChunkPos) {
	srv.mu.Lock()
	delete(srv.contexts, pos)
	srv.mu.Unlock()
	srv.metrics.forget(pos)
}

// Generator returns the generator currently used by the Server.
func (srv *Server) Generator() *detail.Generator {
	return srv.gen.Load()
}

// Metrics returns the generation counters of the Server.
func (srv *Server) Metrics() *Metrics {
	return srv.metrics
}
