// Package season implements the yearly curves that drive the colour, size and
// placement chance of detail objects. Days are counted on a calendar of 12
// months of 30 days each.
package season

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df-mc/groundcover/server/world/detail/bounds"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MonthDays is the number of days in a month.
	MonthDays = 30
	// DaysPerYear is the number of days in a year.
	DaysPerYear = 12 * MonthDays
)

// Normalise wraps day into [0, DaysPerYear).
func Normalise(day int) int {
	d := day % DaysPerYear
	if d < 0 {
		d += DaysPerYear
	}
	return d
}

// Boundaries are the days of year at which the seasonal curves change
// segment. They must be strictly increasing. The dormant period runs from
// Winter over the new year up to Grow.
type Boundaries struct {
	Grow    int
	Spring  int
	Summer  int
	MidYear int
	Fall    int
	Winter  int
	Die     int
}

// DefaultBoundaries returns the boundaries used if none are configured.
func DefaultBoundaries() Boundaries {
	return Boundaries{Grow: 60, Spring: 90, Summer: 150, MidYear: 180, Fall: 240, Winter: 300, Die: 330}
}

func (b Boundaries) days() [7]int {
	return [7]int{b.Grow, b.Spring, b.Summer, b.MidYear, b.Fall, b.Winter, b.Die}
}

// Validate checks that all boundaries lie within the year and are strictly
// ordered.
func (b Boundaries) Validate() error {
	d := b.days()
	if d[0] < 0 || d[6] >= DaysPerYear {
		return fmt.Errorf("season boundaries must lie in [0, %v)", DaysPerYear)
	}
	for i := 1; i < len(d); i++ {
		if d[i] <= d[i-1] {
			return errors.New("season boundaries must be strictly increasing: grow < spring < summer < midyear < fall < winter < die")
		}
	}
	return nil
}

// Mode selects how the curves behave between seasons.
type Mode uint8

const (
	// Continuous blends colours and sizes smoothly over the year.
	Continuous Mode = iota
	// Discrete snaps to the keyframe of the current season.
	Discrete
)

func (m Mode) String() string {
	if m == Discrete {
		return "discrete"
	}
	return "continuous"
}

// ParseMode parses a Mode from its name.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "continuous", "interpolated":
		return Continuous, nil
	case "discrete":
		return Discrete, nil
	}
	return 0, fmt.Errorf("unknown season mode %q", s)
}

// Period is one of the four calendar seasons.
type Period uint8

const (
	PeriodSpring Period = iota
	PeriodSummer
	PeriodFall
	PeriodWinter
)

// Curve computes seasonal values for a day of year. The zero value is not
// usable, use DefaultCurve.
type Curve struct {
	Mode   Mode
	Bounds Boundaries
	// DormantScale is the fraction of the base size that detail has outside
	// of the growing season.
	DormantScale float64
	// ChancePlateau is the maximum value returned by ChanceAt.
	ChancePlateau float64
	// ChanceMargin widens the window in which ChanceAt is non-zero in
	// Discrete mode, in days on both sides.
	ChanceMargin int
}

// DefaultCurve returns a continuous curve with the default boundaries.
func DefaultCurve() Curve {
	return Curve{
		Mode:          Continuous,
		Bounds:        DefaultBoundaries(),
		DormantScale:  0.35,
		ChancePlateau: 1,
		ChanceMargin:  10,
	}
}

// Validate checks the curve parameters.
func (c Curve) Validate() error {
	if err := c.Bounds.Validate(); err != nil {
		return err
	}
	if c.DormantScale <= 0 || c.DormantScale > 1 {
		return fmt.Errorf("dormant scale %v must be in (0, 1]", c.DormantScale)
	}
	if c.ChancePlateau < 0 || c.ChancePlateau > 1 {
		return fmt.Errorf("chance plateau %v must be in [0, 1]", c.ChancePlateau)
	}
	if c.ChanceMargin < 0 {
		return errors.New("chance margin cannot be negative")
	}
	return nil
}

// PeriodOf returns the calendar season that day falls in.
func (c Curve) PeriodOf(day int) Period {
	d, b := Normalise(day), c.Bounds
	switch {
	case d >= b.Spring && d < b.Summer:
		return PeriodSpring
	case d >= b.Summer && d < b.Fall:
		return PeriodSummer
	case d >= b.Fall && d < b.Winter:
		return PeriodFall
	}
	return PeriodWinter
}

type anchor struct {
	day  int
	pair func(Keyframes) Pair
}

func spring(k Keyframes) Pair { return k.Spring }
func summer(k Keyframes) Pair { return k.Summer }
func fall(k Keyframes) Pair   { return k.Fall }

func (c Curve) anchors() [8]anchor {
	b := c.Bounds
	return [8]anchor{
		{b.Grow, spring},
		{b.Spring, spring},
		{b.Summer, summer},
		{b.MidYear, summer},
		{b.Fall, fall},
		{b.Winter, fall},
		{b.Die, fall},
		{b.Grow + DaysPerYear, spring},
	}
}

// ColourAt returns the healthy and dry colour of day.
func (c Curve) ColourAt(day int, k Keyframes) Pair {
	if c.Mode == Discrete {
		switch c.PeriodOf(day) {
		case PeriodSpring:
			return k.Spring
		case PeriodSummer:
			return k.Summer
		}
		return k.Fall
	}
	d := Normalise(day)
	if d < c.Bounds.Grow {
		d += DaysPerYear
	}
	a := c.anchors()
	for i := 0; i < len(a)-1; i++ {
		lo, hi := a[i], a[i+1]
		if d >= lo.day && d < hi.day {
			return lo.pair(k).Lerp(hi.pair(k), normalise(d, lo.day, hi.day))
		}
	}
	// Unreachable with valid boundaries.
	return k.Fall
}

// ScaleAt returns base scaled by the growth factor of day. In Discrete mode
// base is returned unchanged.
func (c Curve) ScaleAt(day int, base bounds.Range[float64]) bounds.Range[float64] {
	if c.Mode == Discrete {
		return base
	}
	return base.Scale(c.growth(day))
}

// growth returns the size factor of day: 1 during the full growth window,
// DormantScale during the dormant period, with smoothstep transitions.
func (c Curve) growth(day int) float64 {
	d, b := Normalise(day), c.Bounds
	dormant := c.DormantScale
	switch {
	case d >= b.Spring && d <= b.Fall:
		return 1
	case d >= b.Grow && d < b.Spring:
		return dormant + (1-dormant)*smoothstep(normalise(d, b.Grow, b.Spring))
	case d > b.Fall && d < b.Winter:
		return 1 - (1-dormant)*smoothstep(normalise(d, b.Fall, b.Winter))
	}
	return dormant
}

// ChanceAt returns the probability, in [0, ChancePlateau], that optional
// seasonal detail such as flowers and accent tufts is placed on day.
func (c Curve) ChanceAt(day int) float64 {
	d, b := Normalise(day), c.Bounds
	if c.Mode == Discrete {
		if within(d, b.Spring-c.ChanceMargin, b.Winter+c.ChanceMargin) {
			return c.ChancePlateau
		}
		return 0
	}
	switch {
	case d >= b.Spring && d < b.Summer:
		return c.ChancePlateau * smoothstep(normalise(d, b.Spring, b.Summer))
	case d >= b.Summer && d <= b.Fall:
		return c.ChancePlateau
	case d > b.Fall && d < b.Winter:
		return c.ChancePlateau * (1 - smoothstep(normalise(d, b.Fall, b.Winter)))
	}
	return 0
}

// WinterCap limits a chance to the maximum allowed for partial regrowth in
// winter.
func WinterCap(chance, limit float64) float64 {
	return min(chance, limit)
}

// within reports if d lies in the inclusive window [lo, hi], which may wrap
// around the year.
func within(d, lo, hi int) bool {
	if hi-lo >= DaysPerYear-1 {
		return true
	}
	lo, hi = Normalise(lo), Normalise(hi)
	if lo <= hi {
		return d >= lo && d <= hi
	}
	return d >= lo || d <= hi
}

// normalise returns the position of d between lo and hi as a value in 0-1.
func normalise(d, lo, hi int) float64 {
	return mgl64.Clamp(float64(d-lo)/float64(hi-lo), 0, 1)
}

func smoothstep(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
