package tile

import (
	"errors"
	"testing"
)

func TestClassifyIsTotal(t *testing.T) {
	listed := make(map[Code]Class)
	for _, g := range groups {
		for _, c := range g.codes {
			listed[c] = g.class
		}
	}
	for i := 0; i < 256; i++ {
		c := Code(i)
		got := Lookup(c)
		want, ok := listed[c]
		if !ok {
			want = Class{Pattern: None, Kind: Land}
		}
		if got != want {
			t.Fatalf("code %v: expected %+v, got %+v", c, want, got)
		}
		if Classify(c) != got.Pattern {
			t.Fatalf("code %v: Classify and Lookup disagree", c)
		}
	}
}

func TestClassifyGroups(t *testing.T) {
	cases := []struct {
		pattern FillPattern
		codes   []Code
	}{
		{All, []Code{8, 9, 10, 11}},
		{OnlyUpperLeft, []Code{40, 224, 164, 176, 181}},
		{OnlyLowerLeft, []Code{41, 221, 165, 177, 182}},
		{OnlyLowerRight, []Code{42, 222, 166, 178, 183}},
		{OnlyUpperRight, []Code{43, 223, 167, 179, 180}},
		{LeftSide, []Code{44, 66, 84, 160, 168}},
		{LowerSide, []Code{45, 67, 85, 161, 169}},
		{RightSide, []Code{46, 64, 86, 162, 170}},
		{UpperSide, []Code{47, 65, 87, 163, 171}},
		{NotLowerRight, []Code{48, 62, 88, 156}},
		{NotUpperRight, []Code{49, 63, 89, 157}},
		{NotUpperLeft, []Code{50, 60, 90, 158}},
		{NotLowerLeft, []Code{51, 61, 91, 159}},
		{LeftToRight, []Code{204, 206, 214}},
		{RightToLeft, []Code{205, 207, 213}},
		{None, []Code{0, 1, 2, 3, 4, 5, 6, 7, 12, 100, 255}},
	}
	for _, tc := range cases {
		for _, c := range tc.codes {
			if got := Classify(c); got != tc.pattern {
				t.Fatalf("code %v: expected %v, got %v", c, tc.pattern, got)
			}
		}
	}
}

func TestShorelineCodes(t *testing.T) {
	for i := 0; i < 256; i++ {
		c := Code(i)
		shore := (c >= 84 && c <= 91) || (c >= 176 && c <= 183)
		if got := Lookup(c).Kind == Shore; got != shore {
			t.Fatalf("code %v: expected shore=%v, got %v", c, shore, got)
		}
	}
	if Lookup(0).Kind != OpenSea {
		t.Fatalf("expected code 0 to be open sea, got %v", Lookup(0).Kind)
	}
	for _, c := range []Code{1, 2, 3} {
		if Lookup(c).Kind != OpenWater {
			t.Fatalf("expected code %v to be open water, got %v", c, Lookup(c).Kind)
		}
	}
}

func TestPatternQuadrants(t *testing.T) {
	cases := map[FillPattern]Quadrants{
		All:            AllQuadrants,
		None:           0,
		LeftSide:       LowerLeft | UpperLeft,
		UpperSide:      UpperLeft | UpperRight,
		RightToLeft:    UpperLeft | LowerRight,
		LeftToRight:    LowerLeft | UpperRight,
		NotUpperLeft:   LowerLeft | LowerRight | UpperRight,
		OnlyLowerRight: LowerRight,
	}
	for p, want := range cases {
		if got := p.Quadrants(); got != want {
			t.Fatalf("%v: expected quadrants %04b, got %04b", p, want, got)
		}
	}
	if got := LeftSide.Quadrants().Complement(); got != RightSide.Quadrants() {
		t.Fatalf("expected complement of LeftSide to be RightSide, got %04b", got)
	}
}

func TestQuadrantsEachOrder(t *testing.T) {
	var offsets [][2]int
	AllQuadrants.Each(func(q Quadrants) {
		dy, dx := q.Offset()
		offsets = append(offsets, [2]int{dy, dx})
	})
	want := [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	if len(offsets) != len(want) {
		t.Fatalf("expected %v quadrants, got %v", len(want), len(offsets))
	}
	for i := range want {
		if offsets[i] != want[i] {
			t.Fatalf("expected offset %v at %v, got %v", want[i], i, offsets[i])
		}
	}
	if got := (UpperLeft | LowerRight).Nth(1); got != UpperLeft {
		t.Fatalf("expected second quadrant to be UpperLeft, got %04b", got)
	}
}

func TestGridValidate(t *testing.T) {
	g, err := GridOf([]Code{8, 8}, []Code{0, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.At(1, 1) != 1 {
		t.Fatalf("expected code 1 at (1, 1), got %v", g.At(1, 1))
	}
	if err := g.Validate(2); err != nil {
		t.Fatalf("expected 2x2 grid to validate, got %v", err)
	}
	if err := g.Validate(128); !errors.Is(err, ErrDimension) {
		t.Fatalf("expected ErrDimension, got %v", err)
	}
	if _, err := GridOf([]Code{8, 8}, []Code{0}); !errors.Is(err, ErrDimension) {
		t.Fatalf("expected ErrDimension for ragged rows, got %v", err)
	}
	bad := Grid{Dim: 2, Codes: make([]Code, 3)}
	if err := bad.Validate(2); !errors.Is(err, ErrDimension) {
		t.Fatalf("expected ErrDimension for short code slice, got %v", err)
	}
}
