package server

import (
	"github.com/df-mc/groundcover/server/world/detail"
	"github.com/df-mc/groundcover/server/world/detail/appearance"
	"github.com/df-mc/groundcover/server/world/detail/tile"
)

// TerrainSource supplies the input of detail generation. Implementations are
// typically backed by the terrain system and the world simulation.
type TerrainSource interface {
	// Tiles returns the tile grid of the chunk at pos.
	Tiles(pos detail.ChunkPos) (tile.Grid, error)
	// Environment returns the climate and calendar state of the chunk at pos.
	Environment(pos detail.ChunkPos) (detail.Environment, error)
}

// Renderer receives the detail of chunks. Each call to Commit hands over a
// complete Result that the Server no longer touches.
type Renderer interface {
	// Commit replaces the detail layers and appearance of the chunk at pos.
	Commit(pos detail.ChunkPos, res Result)
	// Clear removes all detail from the chunk at pos.
	Clear(pos detail.ChunkPos)
}

// Result is the generated detail of a single chunk.
type Result struct {
	// Maps holds one density map per active category. Each map is written to
	// the detail layer returned by Category.Layer.
	Maps *detail.Maps
	// Appearance selects the asset set of the chunk and holds the colours and
	// sizes of the grass layers.
	Appearance appearance.State
	// AssetsChanged is true if Appearance.Key differs from the key committed
	// for the chunk before, so that the renderer must swap assets.
	AssetsChanged bool
}
