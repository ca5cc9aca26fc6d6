package climate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknown is returned for climate or season values outside of the defined
// enumerations.
var ErrUnknown = errors.New("unknown climate")

// Climate is the coarse biome grouping of a chunk. It decides which assets
// and which seasonal branches are available.
type Climate uint8

const (
	Temperate Climate = iota
	Mountain
	Swamp
	Desert
)

// Climates returns all defined climates.
func Climates() []Climate {
	return []Climate{Temperate, Mountain, Swamp, Desert}
}

// Valid reports if c is one of the defined climates.
func (c Climate) Valid() bool {
	return c <= Desert
}

// HasWinter reports if the climate has a winter branch. Deserts have no
// seasons.
func (c Climate) HasWinter() bool {
	return c != Desert
}

func (c Climate) String() string {
	switch c {
	case Temperate:
		return "temperate"
	case Mountain:
		return "mountain"
	case Swamp:
		return "swamp"
	case Desert:
		return "desert"
	}
	return fmt.Sprintf("climate(%d)", uint8(c))
}

// Parse parses the name of a climate, as returned by Climate.String.
func Parse(s string) (Climate, error) {
	for _, c := range Climates() {
		if strings.EqualFold(strings.TrimSpace(s), c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknown, s)
}

// Season is the seasonal state of the world at a chunk, as reported by the
// world simulation.
type Season uint8

const (
	Summer Season = iota
	Winter
)

// Valid reports if s is one of the defined seasons.
func (s Season) Valid() bool {
	return s <= Winter
}

func (s Season) String() string {
	switch s {
	case Summer:
		return "summer"
	case Winter:
		return "winter"
	}
	return fmt.Sprintf("season(%d)", uint8(s))
}

// ParseSeason parses the name of a season.
func ParseSeason(s string) (Season, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "summer":
		return Summer, nil
	case "winter":
		return Winter, nil
	}
	return 0, fmt.Errorf("unknown season %q", s)
}

// Branch is the asset branch that is active for a climate and season.
type Branch uint8

const (
	BranchSummer Branch = iota
	BranchWinter
	BranchDesert
)

// BranchOf returns the asset branch for the climate and season passed. Desert
// climates always use the desert branch, regardless of season.
func BranchOf(c Climate, s Season) (Branch, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("%w: %v", ErrUnknown, c)
	}
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %v", ErrUnknown, s)
	}
	if !c.HasWinter() {
		return BranchDesert, nil
	}
	if s == Winter {
		return BranchWinter, nil
	}
	return BranchSummer, nil
}

func (b Branch) String() string {
	switch b {
	case BranchSummer:
		return "summer"
	case BranchWinter:
		return "winter"
	case BranchDesert:
		return "desert"
	}
	return fmt.Sprintf("branch(%d)", uint8(b))
}
