package appearance

import (
	"fmt"

	"github.com/df-mc/groundcover/server/world/detail/bounds"
	"github.com/df-mc/groundcover/server/world/detail/climate"
	"github.com/df-mc/groundcover/server/world/detail/season"
)

// Layer is one of the grass layers with its own appearance.
type Layer uint8

const (
	// Grass is the primary grass layer.
	Grass Layer = iota
	// Detail is the denser sub-layer that grass density is siphoned into.
	Detail
	// Accent is the taller sub-layer that grass density is siphoned into.
	Accent

	LayerCount = 3
)

func (l Layer) String() string {
	switch l {
	case Grass:
		return "grass"
	case Detail:
		return "detail"
	case Accent:
		return "accent"
	}
	return fmt.Sprintf("layer(%d)", uint8(l))
}

// suffix is appended to the grass asset key to obtain the key of a sub-layer.
func (l Layer) suffix() string {
	if l == Grass {
		return ""
	}
	return "_" + l.String()
}

// Channel holds the seasonal keyframes and base sizes of a layer.
type Channel struct {
	Keyframes season.Keyframes
	// Height and Width are the size ranges at full growth.
	Height, Width bounds.Range[float64]
}

// Assets are the asset keys of a climate.
type Assets struct {
	// Summer is used outside of winter. It is the only key of climates
	// without seasons.
	Summer string
	// Winter is used while it is winter. It is ignored for climates without
	// seasons.
	Winter string
}

// AssetTable maps every climate to its asset keys.
type AssetTable map[climate.Climate]Assets

// DefaultAssets returns the asset keys used if none are configured.
func DefaultAssets() AssetTable {
	return AssetTable{
		climate.Temperate: {Summer: "grass_temperate_summer", Winter: "grass_temperate_winter"},
		climate.Mountain:  {Summer: "grass_mountain_summer", Winter: "grass_mountain_winter"},
		climate.Swamp:     {Summer: "grass_swamp_summer", Winter: "grass_swamp_winter"},
		climate.Desert:    {Summer: "grass_desert"},
	}
}

// Key returns the asset key of the branch of climate c.
func (t AssetTable) Key(c climate.Climate, b climate.Branch) (string, error) {
	a, ok := t[c]
	if !ok {
		return "", fmt.Errorf("%w: no assets for %v", climate.ErrUnknown, c)
	}
	if b == climate.BranchWinter {
		return a.Winter, nil
	}
	return a.Summer, nil
}

// Config configures a Resolver.
type Config struct {
	Curve    season.Curve
	Channels [LayerCount]Channel
	Assets   AssetTable
}

// DefaultConfig returns the default appearance of all layers.
func DefaultConfig() Config {
	return Config{
		Curve: season.DefaultCurve(),
		Channels: [LayerCount]Channel{
			Grass: {
				Keyframes: season.Keyframes{
					Spring: season.Pair{Healthy: season.RGB(104, 164, 64), Dry: season.RGB(142, 160, 78)},
					Summer: season.Pair{Healthy: season.RGB(70, 136, 44), Dry: season.RGB(128, 140, 60)},
					Fall:   season.Pair{Healthy: season.RGB(150, 128, 52), Dry: season.RGB(132, 104, 58)},
				},
				Height: bounds.Of(0.8, 1.4),
				Width:  bounds.Of(0.6, 1.0),
			},
			Detail: {
				Keyframes: season.Keyframes{
					Spring: season.Pair{Healthy: season.RGB(118, 178, 72), Dry: season.RGB(150, 168, 84)},
					Summer: season.Pair{Healthy: season.RGB(82, 150, 50), Dry: season.RGB(136, 146, 66)},
					Fall:   season.Pair{Healthy: season.RGB(160, 132, 56), Dry: season.RGB(140, 110, 60)},
				},
				Height: bounds.Of(0.6, 1.0),
				Width:  bounds.Of(0.5, 0.8),
			},
			Accent: {
				Keyframes: season.Keyframes{
					Spring: season.Pair{Healthy: season.RGB(96, 150, 60), Dry: season.RGB(134, 150, 72)},
					Summer: season.Pair{Healthy: season.RGB(64, 124, 40), Dry: season.RGB(120, 130, 56)},
					Fall:   season.Pair{Healthy: season.RGB(142, 118, 48), Dry: season.RGB(124, 98, 54)},
				},
				Height: bounds.Of(1.2, 2.0),
				Width:  bounds.Of(0.8, 1.2),
			},
		},
		Assets: DefaultAssets(),
	}
}

// Validate checks the curve, the size ranges of every layer and that every
// climate has asset keys.
func (c Config) Validate() error {
	if err := c.Curve.Validate(); err != nil {
		return fmt.Errorf("curve: %w", err)
	}
	for i, ch := range c.Channels {
		if err := ch.Height.Validate(); err != nil {
			return fmt.Errorf("%v height: %w", Layer(i), err)
		}
		if err := ch.Width.Validate(); err != nil {
			return fmt.Errorf("%v width: %w", Layer(i), err)
		}
	}
	for _, cl := range climate.Climates() {
		a, ok := c.Assets[cl]
		if !ok || a.Summer == "" || (cl.HasWinter() && a.Winter == "") {
			return fmt.Errorf("assets: missing asset keys for %v", cl)
		}
	}
	return nil
}
