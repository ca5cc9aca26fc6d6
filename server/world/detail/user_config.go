package detail

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/df-mc/groundcover/server/world/detail/appearance"
	"github.com/df-mc/groundcover/server/world/detail/bounds"
	"github.com/df-mc/groundcover/server/world/detail/climate"
	"github.com/df-mc/groundcover/server/world/detail/season"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// UserConfig is the serialisable form of Config. Ranges are written as
// [min, max] pairs and colours as hex strings. A UserConfig may be converted
// to a Config by calling UserConfig.Config().
type UserConfig struct {
	World struct {
		// Seed is the world seed that chunk seeds are derived from.
		Seed int64 `toml:"seed" yaml:"seed"`
		// ChunkTiles is the width of the tile grid of a chunk.
		ChunkTiles int `toml:"chunk_tiles" yaml:"chunk_tiles"`
		// Features lists the detail categories or presets (basic, plants,
		// full) that assets exist for.
		Features []string `toml:"features" yaml:"features"`
	} `toml:"world" yaml:"world"`
	Densities struct {
		Grass       []int `toml:"grass" yaml:"grass"`
		GrassDetail []int `toml:"grass_detail" yaml:"grass_detail"`
		GrassAccent []int `toml:"grass_accent" yaml:"grass_accent"`
		WaterPlant  []int `toml:"water_plant" yaml:"water_plant"`
		Waterlily   []int `toml:"waterlily" yaml:"waterlily"`
		Rock        []int `toml:"rock" yaml:"rock"`
		Flower      []int `toml:"flower" yaml:"flower"`
		WaterGrass  []int `toml:"water_grass" yaml:"water_grass"`
		Desert      []int `toml:"desert" yaml:"desert"`
	} `toml:"densities" yaml:"densities"`
	Chances struct {
		FarmlandRock float64 `toml:"farmland_rock" yaml:"farmland_rock"`
		StrayRock    float64 `toml:"stray_rock" yaml:"stray_rock"`
		Flower       float64 `toml:"flower" yaml:"flower"`
		Detail       float64 `toml:"detail" yaml:"detail"`
		Accent       float64 `toml:"accent" yaml:"accent"`
		WinterCap    float64 `toml:"winter_cap" yaml:"winter_cap"`
	} `toml:"chances" yaml:"chances"`
	Season struct {
		// Mode is either "continuous" or "discrete".
		Mode          string  `toml:"mode" yaml:"mode"`
		Grow          int     `toml:"grow" yaml:"grow"`
		Spring        int     `toml:"spring" yaml:"spring"`
		Summer        int     `toml:"summer" yaml:"summer"`
		MidYear       int     `toml:"mid_year" yaml:"mid_year"`
		Fall          int     `toml:"fall" yaml:"fall"`
		Winter        int     `toml:"winter" yaml:"winter"`
		Die           int     `toml:"die" yaml:"die"`
		DormantScale  float64 `toml:"dormant_scale" yaml:"dormant_scale"`
		ChancePlateau float64 `toml:"chance_plateau" yaml:"chance_plateau"`
		ChanceMargin  int     `toml:"chance_margin" yaml:"chance_margin"`
	} `toml:"season" yaml:"season"`
	Layers struct {
		Grass  LayerUserConfig `toml:"grass" yaml:"grass"`
		Detail LayerUserConfig `toml:"detail" yaml:"detail"`
		Accent LayerUserConfig `toml:"accent" yaml:"accent"`
	} `toml:"layers" yaml:"layers"`
	Assets struct {
		Temperate AssetUserConfig `toml:"temperate" yaml:"temperate"`
		Mountain  AssetUserConfig `toml:"mountain" yaml:"mountain"`
		Swamp     AssetUserConfig `toml:"swamp" yaml:"swamp"`
		Desert    AssetUserConfig `toml:"desert" yaml:"desert"`
	} `toml:"assets" yaml:"assets"`
}

// LayerUserConfig is the serialisable form of appearance.Channel.
type LayerUserConfig struct {
	SpringHealthy string    `toml:"spring_healthy" yaml:"spring_healthy"`
	SpringDry     string    `toml:"spring_dry" yaml:"spring_dry"`
	SummerHealthy string    `toml:"summer_healthy" yaml:"summer_healthy"`
	SummerDry     string    `toml:"summer_dry" yaml:"summer_dry"`
	FallHealthy   string    `toml:"fall_healthy" yaml:"fall_healthy"`
	FallDry       string    `toml:"fall_dry" yaml:"fall_dry"`
	Height        []float64 `toml:"height" yaml:"height"`
	Width         []float64 `toml:"width" yaml:"width"`
}

// AssetUserConfig is the serialisable form of appearance.Assets.
type AssetUserConfig struct {
	Summer string `toml:"summer" yaml:"summer"`
	Winter string `toml:"winter,omitempty" yaml:"winter,omitempty"`
}

// DefaultUserConfig returns the UserConfig of DefaultConfig.
func DefaultUserConfig() UserConfig {
	return UserConfigOf(DefaultConfig())
}

// UserConfigOf converts a Config to its serialisable form.
func UserConfigOf(c Config) UserConfig {
	uc := UserConfig{}
	uc.World.Seed = c.Seed
	uc.World.ChunkTiles = c.ChunkTiles
	uc.World.Features = featureNames(c.Features)

	uc.Densities.Grass = pair(c.Ranges.Grass)
	uc.Densities.GrassDetail = pair(c.Ranges.GrassDetail)
	uc.Densities.GrassAccent = pair(c.Ranges.GrassAccent)
	uc.Densities.WaterPlant = pair(c.Ranges.WaterPlant)
	uc.Densities.Waterlily = pair(c.Ranges.Waterlily)
	uc.Densities.Rock = pair(c.Ranges.Rock)
	uc.Densities.Flower = pair(c.Ranges.Flower)
	uc.Densities.WaterGrass = pair(c.Ranges.WaterGrass)
	uc.Densities.Desert = pair(c.Ranges.Desert)

	uc.Chances.FarmlandRock = c.Chances.FarmlandRock
	uc.Chances.StrayRock = c.Chances.StrayRock
	uc.Chances.Flower = c.Chances.Flower
	uc.Chances.Detail = c.Chances.Detail
	uc.Chances.Accent = c.Chances.Accent
	uc.Chances.WinterCap = c.Chances.WinterCap

	curve := c.Appearance.Curve
	uc.Season.Mode = curve.Mode.String()
	uc.Season.Grow, uc.Season.Spring, uc.Season.Summer = curve.Bounds.Grow, curve.Bounds.Spring, curve.Bounds.Summer
	uc.Season.MidYear, uc.Season.Fall = curve.Bounds.MidYear, curve.Bounds.Fall
	uc.Season.Winter, uc.Season.Die = curve.Bounds.Winter, curve.Bounds.Die
	uc.Season.DormantScale = curve.DormantScale
	uc.Season.ChancePlateau = curve.ChancePlateau
	uc.Season.ChanceMargin = curve.ChanceMargin

	uc.Layers.Grass = layerOf(c.Appearance.Channels[appearance.Grass])
	uc.Layers.Detail = layerOf(c.Appearance.Channels[appearance.Detail])
	uc.Layers.Accent = layerOf(c.Appearance.Channels[appearance.Accent])

	a := c.Appearance.Assets
	uc.Assets.Temperate = AssetUserConfig(a[climate.Temperate])
	uc.Assets.Mountain = AssetUserConfig(a[climate.Mountain])
	uc.Assets.Swamp = AssetUserConfig(a[climate.Swamp])
	uc.Assets.Desert = AssetUserConfig(a[climate.Desert])
	return uc
}

// Config converts a UserConfig to a Config. An error wrapping ErrInvalidInput
// is returned if a value could not be parsed. The Config returned is not
// validated.
func (uc UserConfig) Config(log *slog.Logger) (Config, error) {
	conf := Config{Log: log, Seed: uc.World.Seed, ChunkTiles: uc.World.ChunkTiles}
	var err error
	if conf.Features, err = ParseFeatures(uc.World.Features); err != nil {
		return conf, err
	}

	d := uc.Densities
	ranges := []struct {
		name string
		src  []int
		dst  *bounds.Range[int]
	}{
		{"grass", d.Grass, &conf.Ranges.Grass},
		{"grass_detail", d.GrassDetail, &conf.Ranges.GrassDetail},
		{"grass_accent", d.GrassAccent, &conf.Ranges.GrassAccent},
		{"water_plant", d.WaterPlant, &conf.Ranges.WaterPlant},
		{"waterlily", d.Waterlily, &conf.Ranges.Waterlily},
		{"rock", d.Rock, &conf.Ranges.Rock},
		{"flower", d.Flower, &conf.Ranges.Flower},
		{"water_grass", d.WaterGrass, &conf.Ranges.WaterGrass},
		{"desert", d.Desert, &conf.Ranges.Desert},
	}
	for _, r := range ranges {
		if *r.dst, err = rangeOf("densities."+r.name, r.src); err != nil {
			return conf, err
		}
	}

	conf.Chances = Chances{
		FarmlandRock: uc.Chances.FarmlandRock,
		StrayRock:    uc.Chances.StrayRock,
		Flower:       uc.Chances.Flower,
		Detail:       uc.Chances.Detail,
		Accent:       uc.Chances.Accent,
		WinterCap:    uc.Chances.WinterCap,
	}

	mode, err := season.ParseMode(uc.Season.Mode)
	if err != nil {
		return conf, fmt.Errorf("%w: season.mode: %w", ErrInvalidInput, err)
	}
	conf.Appearance.Curve = season.Curve{
		Mode: mode,
		Bounds: season.Boundaries{
			Grow: uc.Season.Grow, Spring: uc.Season.Spring, Summer: uc.Season.Summer, MidYear: uc.Season.MidYear,
			Fall: uc.Season.Fall, Winter: uc.Season.Winter, Die: uc.Season.Die,
		},
		DormantScale:  uc.Season.DormantScale,
		ChancePlateau: uc.Season.ChancePlateau,
		ChanceMargin:  uc.Season.ChanceMargin,
	}

	layers := [appearance.LayerCount]LayerUserConfig{
		appearance.Grass:  uc.Layers.Grass,
		appearance.Detail: uc.Layers.Detail,
		appearance.Accent: uc.Layers.Accent,
	}
	for i, l := range layers {
		if conf.Appearance.Channels[i], err = l.channel(); err != nil {
			return conf, fmt.Errorf("layers.%v: %w", appearance.Layer(i), err)
		}
	}

	conf.Appearance.Assets = appearance.AssetTable{
		climate.Temperate: appearance.Assets(uc.Assets.Temperate),
		climate.Mountain:  appearance.Assets(uc.Assets.Mountain),
		climate.Swamp:     appearance.Assets(uc.Assets.Swamp),
		climate.Desert:    appearance.Assets(uc.Assets.Desert),
	}
	return conf, nil
}

// LoadConfig reads the Config stored in the file at path. Files ending in .yaml
// or .yml are decoded as YAML, all others as TOML. Values missing from the
// file keep their default. If the file does not exist yet, it is created with
// the default configuration.
func LoadConfig(path string, log *slog.Logger) (Config, error) {
	if strings.TrimSpace(path) == "" {
		return Config{}, errors.New("config path must not be empty")
	}
	uc := DefaultUserConfig()
	contents, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read detail config: %w", err)
		}
		if err := writeUserConfig(path, uc); err != nil {
			return Config{}, err
		}
	} else if len(contents) != 0 {
		if err := decode(path, contents, &uc); err != nil {
			return Config{}, fmt.Errorf("decode detail config: %w", err)
		}
	}
	conf, err := uc.Config(log)
	if err != nil {
		return Config{}, err
	}
	conf = conf.withDefaults()
	if err := conf.Validate(); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// SaveConfig writes conf to the file at path, creating parent directories if
// needed. The format is selected by the extension as in LoadConfig.
func SaveConfig(path string, conf Config) error {
	return writeUserConfig(path, UserConfigOf(conf))
}

func writeUserConfig(path string, uc UserConfig) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0777); err != nil {
			return fmt.Errorf("create detail config directory: %w", err)
		}
	}
	encoded, err := encode(path, uc)
	if err != nil {
		return fmt.Errorf("encode detail config: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0644); err != nil {
		return fmt.Errorf("write detail config: %w", err)
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func decode(path string, data []byte, uc *UserConfig) error {
	if isYAML(path) {
		return yaml.Unmarshal(data, uc)
	}
	return toml.Unmarshal(data, uc)
}

func encode(path string, uc UserConfig) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(uc)
	}
	return toml.Marshal(uc)
}

func (l LayerUserConfig) channel() (appearance.Channel, error) {
	var ch appearance.Channel
	colours := []struct {
		name string
		src  string
		dst  *season.Colour
	}{
		{"spring_healthy", l.SpringHealthy, &ch.Keyframes.Spring.Healthy},
		{"spring_dry", l.SpringDry, &ch.Keyframes.Spring.Dry},
		{"summer_healthy", l.SummerHealthy, &ch.Keyframes.Summer.Healthy},
		{"summer_dry", l.SummerDry, &ch.Keyframes.Summer.Dry},
		{"fall_healthy", l.FallHealthy, &ch.Keyframes.Fall.Healthy},
		{"fall_dry", l.FallDry, &ch.Keyframes.Fall.Dry},
	}
	for _, c := range colours {
		col, err := season.ParseColour(c.src)
		if err != nil {
			return ch, fmt.Errorf("%w: %v: %w", ErrInvalidInput, c.name, err)
		}
		*c.dst = col
	}
	var err error
	if ch.Height, err = rangeOf("height", l.Height); err != nil {
		return ch, err
	}
	if ch.Width, err = rangeOf("width", l.Width); err != nil {
		return ch, err
	}
	return ch, nil
}

func layerOf(ch appearance.Channel) LayerUserConfig {
	k := ch.Keyframes
	return LayerUserConfig{
		SpringHealthy: k.Spring.Healthy.Hex(),
		SpringDry:     k.Spring.Dry.Hex(),
		SummerHealthy: k.Summer.Healthy.Hex(),
		SummerDry:     k.Summer.Dry.Hex(),
		FallHealthy:   k.Fall.Healthy.Hex(),
		FallDry:       k.Fall.Dry.Hex(),
		Height:        pair(ch.Height),
		Width:         pair(ch.Width),
	}
}

func rangeOf[T bounds.Number](name string, s []T) (bounds.Range[T], error) {
	if len(s) != 2 {
		return bounds.Range[T]{}, fmt.Errorf("%w: %v must be a [min, max] pair, got %v values", ErrInvalidInput, name, len(s))
	}
	return bounds.Of(s[0], s[1]), nil
}

func pair[T bounds.Number](r bounds.Range[T]) []T {
	return []T{r.Min, r.Max}
}

func featureNames(s Categories) []string {
	for _, name := range []string{"full", "plants", "basic"} {
		if presets[name] == s {
			return []string{name}
		}
	}
	names := make([]string, 0, categoryCount)
	for _, c := range s.Slice() {
		names = append(names, c.String())
	}
	return names
}
