package server

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/df-mc/groundcover/server/world/detail"
)

// Config contains options for creating a Server that decorates chunks with
// detail.
type Config struct {
	// Log is the Logger to use for logging information. If nil, Log is set to
	// slog.Default(). Per-chunk generation is only logged if Log has at least
	// debug level.
	Log *slog.Logger
	// Detail holds the density ranges, chances and seasonal appearance used
	// to generate detail. If Detail.Log is nil, it is set to Log.
	Detail detail.Config
	// Workers controls the number of chunks decorated in parallel. If set to 0
	// or lower, the worker count is derived from the host's available CPUs.
	Workers int
	// Source supplies the tile grids and environment of chunks. It must be
	// safe for concurrent use.
	Source TerrainSource
	// Renderer receives the results of decorated chunks. It must be safe for
	// concurrent use.
	Renderer Renderer
}

// New creates a Server using fields of conf. An error is returned if Source or
// Renderer is nil or if the detail configuration is invalid.
func (conf Config) New() (*Server, error) {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Source == nil {
		return nil, errors.New("config: terrain source must not be nil")
	}
	if conf.Renderer == nil {
		return nil, errors.New("config: renderer must not be nil")
	}
	if conf.Workers <= 0 {
		conf.Workers = max(1, runtime.GOMAXPROCS(0))
	}
	if conf.Detail.Log == nil {
		conf.Detail.Log = conf.Log
	}
	gen, err := conf.Detail.New()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	srv := &Server{
		conf:     conf,
		contexts: make(map[detail.ChunkPos]*chunkState),
		metrics:  NewMetrics(),
	}
	srv.gen.Store(gen)
	return srv, nil
}
