package tile

// FillPattern describes which quadrants of the 2x2 sub-grid of a macro-tile
// receive detail.
type FillPattern uint8

const (
	None FillPattern = iota
	All
	UpperSide
	LowerSide
	RightSide
	LeftSide
	OnlyUpperRight
	OnlyUpperLeft
	OnlyLowerRight
	OnlyLowerLeft
	RightToLeft
	LeftToRight
	NotUpperRight
	NotLowerRight
	NotLowerLeft
	NotUpperLeft
)

// Quadrants is a bit set of the four sub-cells of a macro-tile.
type Quadrants uint8

const (
	LowerLeft Quadrants = 1 << iota
	LowerRight
	UpperLeft
	UpperRight

	AllQuadrants = LowerLeft | LowerRight | UpperLeft | UpperRight
)

// Offset returns the (row, column) offset of a single quadrant inside the
// 2x2 block. Lower quadrants live on row 2y, upper quadrants on row 2y+1.
func (q Quadrants) Offset() (dy, dx int) {
	switch q {
	case LowerLeft:
		return 0, 0
	case LowerRight:
		return 0, 1
	case UpperLeft:
		return 1, 0
	case UpperRight:
		return 1, 1
	}
	panic("tile: Offset called on a quadrant set")
}

// Has reports if all quadrants of o are present in q.
func (q Quadrants) Has(o Quadrants) bool {
	return q&o == o
}

// Complement returns the quadrants not present in q.
func (q Quadrants) Complement() Quadrants {
	return AllQuadrants &^ q
}

// Count returns the number of quadrants in the set.
func (q Quadrants) Count() int {
	n := 0
	for _, single := range order {
		if q.Has(single) {
			n++
		}
	}
	return n
}

// Each calls f for every quadrant in q, in the fixed scan order used by the
// density generator. The order is part of the reproducibility contract.
func (q Quadrants) Each(f func(single Quadrants)) {
	for _, single := range order {
		if q.Has(single) {
			f(single)
		}
	}
}

// Nth returns the n-th quadrant of q in scan order. It panics if n is out of
// range.
func (q Quadrants) Nth(n int) Quadrants {
	for _, single := range order {
		if !q.Has(single) {
			continue
		}
		if n == 0 {
			return single
		}
		n--
	}
	panic("tile: quadrant index out of range")
}

var order = [...]Quadrants{LowerLeft, LowerRight, UpperLeft, UpperRight}

var quadrants = [...]Quadrants{
	None:           0,
	All:            AllQuadrants,
	UpperSide:      UpperLeft | UpperRight,
	LowerSide:      LowerLeft | LowerRight,
	RightSide:      LowerRight | UpperRight,
	LeftSide:       LowerLeft | UpperLeft,
	OnlyUpperRight: UpperRight,
	OnlyUpperLeft:  UpperLeft,
	OnlyLowerRight: LowerRight,
	OnlyLowerLeft:  LowerLeft,
	RightToLeft:    UpperLeft | LowerRight,
	LeftToRight:    LowerLeft | UpperRight,
	NotUpperRight:  AllQuadrants &^ UpperRight,
	NotLowerRight:  AllQuadrants &^ LowerRight,
	NotLowerLeft:   AllQuadrants &^ LowerLeft,
	NotUpperLeft:   AllQuadrants &^ UpperLeft,
}

// Quadrants returns the sub-cells filled by the pattern.
func (p FillPattern) Quadrants() Quadrants {
	if int(p) >= len(quadrants) {
		return 0
	}
	return quadrants[p]
}

var patternNames = [...]string{
	None:           "None",
	All:            "All",
	UpperSide:      "UpperSide",
	LowerSide:      "LowerSide",
	RightSide:      "RightSide",
	LeftSide:       "LeftSide",
	OnlyUpperRight: "OnlyUpperRight",
	OnlyUpperLeft:  "OnlyUpperLeft",
	OnlyLowerRight: "OnlyLowerRight",
	OnlyLowerLeft:  "OnlyLowerLeft",
	RightToLeft:    "RightToLeft",
	LeftToRight:    "LeftToRight",
	NotUpperRight:  "NotUpperRight",
	NotLowerRight:  "NotLowerRight",
	NotLowerLeft:   "NotLowerLeft",
	NotUpperLeft:   "NotUpperLeft",
}

func (p FillPattern) String() string {
	if int(p) >= len(patternNames) {
		return "FillPattern(?)"
	}
	return patternNames[p]
}
