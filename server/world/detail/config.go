package detail

import (
	"fmt"
	"log/slog"

	"github.com/df-mc/groundcover/server/world/detail/appearance"
	"github.com/df-mc/groundcover/server/world/detail/bounds"
)

// Ranges holds the density ranges that detail is rolled from. All ranges are
// half-open: a range of [3, 6) yields 3, 4 or 5.
type Ranges struct {
	Grass       bounds.Range[int]
	GrassDetail bounds.Range[int]
	GrassAccent bounds.Range[int]
	WaterPlant  bounds.Range[int]
	Waterlily   bounds.Range[int]
	Rock        bounds.Range[int]
	Flower      bounds.Range[int]
	// WaterGrass is the density of the sparse grass tufts growing in open
	// water in mountain climates. It is written to the Grass map.
	WaterGrass bounds.Range[int]
	// Desert is the density of desert plants, which take the place of grass in
	// desert climates.
	Desert bounds.Range[int]
}

// Of returns the range of category c.
func (r Ranges) Of(c Category) bounds.Range[int] {
	switch c {
	case GrassDetail:
		return r.GrassDetail
	case GrassAccent:
		return r.GrassAccent
	case WaterPlant:
		return r.WaterPlant
	case Waterlily:
		return r.Waterlily
	case Rock:
		return r.Rock
	case Flower:
		return r.Flower
	}
	return r.Grass
}

// Chances holds the probabilities of gated placement.
type Chances struct {
	// FarmlandRock is the chance that a farmland tile gets a rock.
	FarmlandRock float64
	// StrayRock is the chance that a fully grassed tile gets a rock.
	StrayRock float64
	// Flower is multiplied with the seasonal chance to get the chance that a
	// fully grassed tile gets flowers.
	Flower float64
	// Detail and Accent are multiplied with the seasonal chance to get the
	// chance that a grass roll is siphoned into the respective sub-layer.
	Detail, Accent float64
	// WinterCap is the maximum seasonal chance while it is winter.
	WinterCap float64
}

// Config holds the settings of a Generator. A Config is passed by value into
// every generator and is never changed by it.
type Config struct {
	// Log is the Logger to use for logging information. If nil, Log is set to
	// slog.Default().
	Log *slog.Logger
	// Seed is the world seed. Chunk seeds are derived from it.
	Seed int64
	// ChunkTiles is the expected width and depth of the tile grid of a chunk.
	// Grids of other sizes are rejected.
	ChunkTiles int
	// Features is the set of categories the host has assets for. Categories
	// outside of Features never get a density map.
	Features Categories
	Ranges   Ranges
	Chances  Chances
	// Appearance configures the seasonal curve, layer colours and sizes and
	// asset keys.
	Appearance appearance.Config
}

// DefaultConfig returns the default generator settings.
func DefaultConfig() Config {
	return Config{
		Log:        slog.Default(),
		ChunkTiles: 128,
		Features:   FeaturesFull,
		Ranges: Ranges{
			Grass:       bounds.Of(4, 12),
			GrassDetail: bounds.Of(1, 4),
			GrassAccent: bounds.Of(1, 3),
			WaterPlant:  bounds.Of(1, 3),
			Waterlily:   bounds.Of(1, 3),
			Rock:        bounds.Of(1, 2),
			Flower:      bounds.Of(1, 3),
			WaterGrass:  bounds.Of(1, 3),
			Desert:      bounds.Of(1, 3),
		},
		Chances: Chances{
			FarmlandRock: 0.3,
			StrayRock:    0.001,
			Flower:       0.8,
			Detail:       1,
			Accent:       1,
			WinterCap:    0.5,
		},
		Appearance: appearance.DefaultConfig(),
	}
}

func (c Config) withDefaults() Config {
	if c.Log == nil {
		c.Log = slog.Default()
	}
	if c.ChunkTiles == 0 {
		c.ChunkTiles = 128
	}
	return c
}

// Validate checks all ranges, chances and the appearance settings. The error
// returned wraps ErrInvalidInput.
func (c Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func (c Config) validate() error {
	if c.ChunkTiles <= 0 {
		return fmt.Errorf("chunk tiles must be positive, got %v", c.ChunkTiles)
	}
	if c.Features&^FeaturesFull != 0 {
		return fmt.Errorf("features %08b hold unknown categories", uint8(c.Features))
	}
	ranges := map[string]bounds.Range[int]{
		"grass": c.Ranges.Grass, "grass detail": c.Ranges.GrassDetail, "grass accent": c.Ranges.GrassAccent,
		"water plant": c.Ranges.WaterPlant, "waterlily": c.Ranges.Waterlily, "rock": c.Ranges.Rock,
		"flower": c.Ranges.Flower, "water grass": c.Ranges.WaterGrass, "desert": c.Ranges.Desert,
	}
	for name, r := range ranges {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%v range: %w", name, err)
		}
		if r.Min < 0 {
			return fmt.Errorf("%v range: densities cannot be negative", name)
		}
	}
	// Water grass and desert plants are written to the grass map.
	if c.Ranges.WaterGrass.Max > c.Ranges.Grass.Max {
		return fmt.Errorf("water grass range %v exceeds grass range %v", c.Ranges.WaterGrass, c.Ranges.Grass)
	}
	if c.Ranges.Desert.Max > c.Ranges.Grass.Max {
		return fmt.Errorf("desert range %v exceeds grass range %v", c.Ranges.Desert, c.Ranges.Grass)
	}
	chances := map[string]float64{
		"farmland rock": c.Chances.FarmlandRock, "stray rock": c.Chances.StrayRock, "flower": c.Chances.Flower,
		"detail": c.Chances.Detail, "accent": c.Chances.Accent, "winter cap": c.Chances.WinterCap,
	}
	for name, p := range chances {
		if p < 0 || p > 1 {
			return fmt.Errorf("%v chance %v must be in [0, 1]", name, p)
		}
	}
	if err := c.Appearance.Validate(); err != nil {
		return fmt.Errorf("appearance: %w", err)
	}
	return nil
}

// New validates the Config and creates a Generator from it.
func (c Config) New() (*Generator, error) {
	c = c.withDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &Generator{conf: c}, nil
}
