package detail

import (
	"fmt"
	"strings"

	"github.com/df-mc/groundcover/server/world/detail/climate"
)

// Category is a kind of detail object with its own density map.
type Category uint8

const (
	Grass Category = iota
	GrassDetail
	GrassAccent
	WaterPlant
	Waterlily
	Rock
	Flower

	categoryCount = 7
)

// AllCategories returns every category in layer order.
func AllCategories() []Category {
	return []Category{Grass, GrassDetail, GrassAccent, WaterPlant, Waterlily, Rock, Flower}
}

// Layer returns the index of the renderer detail layer that the density map
// of the category is written to.
func (c Category) Layer() int {
	return int(c)
}

var categoryNames = [categoryCount]string{
	Grass:       "grass",
	GrassDetail: "grass-detail",
	GrassAccent: "grass-accent",
	WaterPlant:  "water-plant",
	Waterlily:   "waterlily",
	Rock:        "rock",
	Flower:      "flower",
}

func (c Category) String() string {
	if int(c) >= categoryCount {
		return fmt.Sprintf("category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// ParseCategory parses a category from its name.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown detail category %q", ErrInvalidInput, s)
}

// Categories is a set of categories.
type Categories uint8

// CategoriesOf returns a set holding the categories passed.
func CategoriesOf(cats ...Category) Categories {
	var s Categories
	for _, c := range cats {
		s |= 1 << c
	}
	return s
}

// Has reports if c is in the set.
func (s Categories) Has(c Category) bool {
	return s&(1<<c) != 0
}

// Slice returns the categories in the set in layer order.
func (s Categories) Slice() []Category {
	cats := make([]Category, 0, categoryCount)
	for _, c := range AllCategories() {
		if s.Has(c) {
			cats = append(cats, c)
		}
	}
	return cats
}

func (s Categories) String() string {
	names := make([]string, 0, categoryCount)
	for _, c := range s.Slice() {
		names = append(names, c.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// Feature presets. Hosts that only ship grass assets use FeaturesBasic, hosts
// with water plant assets FeaturesPlants.
var (
	FeaturesBasic  = CategoriesOf(Grass)
	FeaturesPlants = CategoriesOf(Grass, WaterPlant, Waterlily)
	FeaturesFull   = CategoriesOf(AllCategories()...)
)

var presets = map[string]Categories{
	"basic":  FeaturesBasic,
	"plants": FeaturesPlants,
	"full":   FeaturesFull,
}

// ParseFeatures parses a list of preset or category names into a set.
func ParseFeatures(names []string) (Categories, error) {
	var s Categories
	for _, n := range names {
		if p, ok := presets[strings.ToLower(strings.TrimSpace(n))]; ok {
			s |= p
			continue
		}
		c, err := ParseCategory(n)
		if err != nil {
			return 0, err
		}
		s |= CategoriesOf(c)
	}
	return s, nil
}

// allowed returns the categories that may grow in climate c during season s.
func allowed(c climate.Climate, s climate.Season) Categories {
	switch {
	case c == climate.Desert:
		// Desert plants use the grass layer and only grow along oasis shores.
		return CategoriesOf(Grass, WaterPlant)
	case s == climate.Winter:
		return CategoriesOf(Grass, GrassDetail, GrassAccent, WaterPlant, Rock)
	}
	return FeaturesFull
}
