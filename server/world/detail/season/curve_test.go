package season

import (
	"math"
	"testing"

	"github.com/df-mc/groundcover/server/world/detail/bounds"
)

func testKeyframes() Keyframes {
	return Keyframes{
		Spring: Pair{Healthy: RGB(120, 200, 80), Dry: RGB(150, 180, 90)},
		Summer: Pair{Healthy: RGB(60, 140, 40), Dry: RGB(110, 130, 50)},
		Fall:   Pair{Healthy: RGB(170, 120, 40), Dry: RGB(140, 100, 60)},
	}
}

func TestScaleAtSummerIsBase(t *testing.T) {
	c := DefaultCurve()
	base := bounds.Of(0.8, 1.4)
	if got := c.ScaleAt(c.Bounds.Summer, base); got != base {
		t.Fatalf("expected %v at the summer boundary, got %v", base, got)
	}
	if got := c.ChanceAt(c.Bounds.Summer); got != c.ChancePlateau {
		t.Fatalf("expected chance plateau %v at the summer boundary, got %v", c.ChancePlateau, got)
	}
}

func TestScaleAtDormant(t *testing.T) {
	c := DefaultCurve()
	base := bounds.Of(0.8, 1.4)
	want := base.Scale(c.DormantScale)
	for _, day := range []int{0, 15, c.Bounds.Winter, c.Bounds.Die, DaysPerYear - 1, c.Bounds.Grow - 1} {
		if got := c.ScaleAt(day, base); got != want {
			t.Fatalf("day %v: expected dormant range %v, got %v", day, want, got)
		}
	}
}

func TestScaleTransitionsAreMonotonic(t *testing.T) {
	c := DefaultCurve()
	prev := c.growth(c.Bounds.Grow)
	for d := c.Bounds.Grow + 1; d <= c.Bounds.Spring; d++ {
		g := c.growth(d)
		if g < prev {
			t.Fatalf("day %v: growth decreased from %v to %v", d, prev, g)
		}
		prev = g
	}
	if prev != 1 {
		t.Fatalf("expected full growth at spring, got %v", prev)
	}
	for d := c.Bounds.Fall + 1; d <= c.Bounds.Winter; d++ {
		g := c.growth(d)
		if g > prev {
			t.Fatalf("day %v: growth increased from %v to %v", d, prev, g)
		}
		prev = g
	}
	if prev != c.DormantScale {
		t.Fatalf("expected dormant growth at winter, got %v", prev)
	}
}

func TestDiscreteScaleIsBase(t *testing.T) {
	c := DefaultCurve()
	c.Mode = Discrete
	base := bounds.Of(0.5, 1.0)
	for day := 0; day < DaysPerYear; day += 7 {
		if got := c.ScaleAt(day, base); got != base {
			t.Fatalf("day %v: expected %v in discrete mode, got %v", day, base, got)
		}
	}
}

func TestChanceRampsUpInSpring(t *testing.T) {
	c := DefaultCurve()
	if got := c.ChanceAt(c.Bounds.Spring); got != 0 {
		t.Fatalf("expected chance 0 at spring start, got %v", got)
	}
	prev := 0.0
	for d := c.Bounds.Spring; d <= c.Bounds.Summer; d++ {
		got := c.ChanceAt(d)
		if got < prev {
			t.Fatalf("day %v: chance decreased from %v to %v", d, prev, got)
		}
		if got < 0 || got > 1 {
			t.Fatalf("day %v: chance %v outside [0, 1]", d, got)
		}
		prev = got
	}
	for d := c.Bounds.Winter; d < c.Bounds.Spring+DaysPerYear; d++ {
		if got := c.ChanceAt(d); got != 0 {
			t.Fatalf("day %v: expected chance 0 while dormant, got %v", Normalise(d), got)
		}
	}
}

func TestDiscreteChanceWindow(t *testing.T) {
	c := DefaultCurve()
	c.Mode = Discrete
	lo, hi := c.Bounds.Spring-c.ChanceMargin, c.Bounds.Winter+c.ChanceMargin
	for d := 0; d < DaysPerYear; d++ {
		got := c.ChanceAt(d)
		inside := d >= lo && d <= hi
		if inside && got != c.ChancePlateau {
			t.Fatalf("day %v: expected plateau inside window, got %v", d, got)
		}
		if !inside && got != 0 {
			t.Fatalf("day %v: expected 0 outside window, got %v", d, got)
		}
	}
}

func TestColourAtWinterBoundaryIsFall(t *testing.T) {
	c := DefaultCurve()
	k := testKeyframes()
	got := c.ColourAt(c.Bounds.Winter, k)
	if !got.Healthy.ApproxEqual(k.Fall.Healthy) || !got.Dry.ApproxEqual(k.Fall.Dry) {
		t.Fatalf("expected fall colours at winter boundary, got %v / %v", got.Healthy.Hex(), got.Dry.Hex())
	}
}

func TestColourAtInterpolates(t *testing.T) {
	c := DefaultCurve()
	k := testKeyframes()
	mid := (c.Bounds.Spring + c.Bounds.Summer) / 2
	got := c.ColourAt(mid, k)
	want := k.Spring.Lerp(k.Summer, 0.5)
	if !got.Healthy.ApproxEqual(want.Healthy) {
		t.Fatalf("expected halfway colour %v, got %v", want.Healthy.Hex(), got.Healthy.Hex())
	}
	if got := c.ColourAt(c.Bounds.Summer, k); !got.Healthy.ApproxEqual(k.Summer.Healthy) {
		t.Fatalf("expected summer colour at summer boundary, got %v", got.Healthy.Hex())
	}
	// The year wraps without a jump: the last day of the year is close to day 0.
	a, b := c.ColourAt(DaysPerYear-1, k), c.ColourAt(0, k)
	for i := 0; i < 4; i++ {
		if math.Abs(a.Healthy[i]-b.Healthy[i]) > 0.05 {
			t.Fatalf("expected continuous colour over new year, got %v and %v", a.Healthy.Hex(), b.Healthy.Hex())
		}
	}
}

func TestDiscreteColourSnaps(t *testing.T) {
	c := DefaultCurve()
	c.Mode = Discrete
	k := testKeyframes()
	cases := map[int]Pair{
		c.Bounds.Spring + 1: k.Spring,
		c.Bounds.Summer + 1: k.Summer,
		c.Bounds.Fall + 1:   k.Fall,
		5:                   k.Fall,
	}
	for day, want := range cases {
		if got := c.ColourAt(day, k); got != want {
			t.Fatalf("day %v: expected %v, got %v", day, want.Healthy.Hex(), got.Healthy.Hex())
		}
	}
}

func TestBoundariesValidate(t *testing.T) {
	if err := DefaultBoundaries().Validate(); err != nil {
		t.Fatalf("expected default boundaries to be valid, got %v", err)
	}
	b := DefaultBoundaries()
	b.Fall = b.MidYear
	if err := b.Validate(); err == nil {
		t.Fatalf("expected unordered boundaries to be rejected")
	}
	b = DefaultBoundaries()
	b.Die = DaysPerYear
	if err := b.Validate(); err == nil {
		t.Fatalf("expected out of year boundary to be rejected")
	}
}

func TestParseColour(t *testing.T) {
	c, err := ParseColour("#3c8c28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Hex(); got != "#3c8c28ff" {
		t.Fatalf("expected #3c8c28ff, got %v", got)
	}
	if _, err := ParseColour("green"); err == nil {
		t.Fatalf("expected invalid colour to be rejected")
	}
}

func TestWinterCap(t *testing.T) {
	if got := WinterCap(0.9, 0.5); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := WinterCap(0.2, 0.5); got != 0.2 {
		t.Fatalf("expected 0.2, got %v", got)
	}
}
