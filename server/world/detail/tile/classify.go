package tile

// Code is the raw classification byte of a macro-tile. It encodes the
// dominant ground texture and how it blends with its neighbours.
type Code uint8

// Kind groups codes by what, besides grass, may grow on them.
type Kind uint8

const (
	// Land tiles only receive grass, as described by their FillPattern.
	Land Kind = iota
	// Shore tiles receive grass on their pattern and water plants on the
	// remaining quadrants, which face the water.
	Shore
	// OpenWater tiles are inland water such as lakes and pools.
	OpenWater
	// OpenSea tiles never receive any detail.
	OpenSea
	// Farmland tiles are bare dirt next to fields. Rocks may be scattered on
	// them.
	Farmland
)

func (k Kind) String() string {
	switch k {
	case Land:
		return "land"
	case Shore:
		return "shore"
	case OpenWater:
		return "open water"
	case OpenSea:
		return "open sea"
	case Farmland:
		return "farmland"
	}
	return "unknown"
}

// Class is the full classification of a Code.
type Class struct {
	Pattern FillPattern
	Kind    Kind
}

// group is a set of codes sharing one classification.
type group struct {
	class Class
	codes []Code
}

// groups is the hand-tuned content table. Codes that share a group must
// always resolve to the same Class.
var groups = []group{
	{Class{None, OpenSea}, []Code{0}},
	{Class{None, OpenWater}, []Code{1, 2, 3}},
	{Class{None, Farmland}, []Code{4, 5, 6, 7}},

	{Class{All, Land}, []Code{8, 9, 10, 11}},

	// Corners.
	{Class{OnlyUpperLeft, Land}, []Code{40, 224, 164}},
	{Class{OnlyUpperLeft, Shore}, []Code{176, 181}},
	{Class{OnlyLowerLeft, Land}, []Code{41, 221, 165}},
	{Class{OnlyLowerLeft, Shore}, []Code{177, 182}},
	{Class{OnlyLowerRight, Land}, []Code{42, 222, 166}},
	{Class{OnlyLowerRight, Shore}, []Code{178, 183}},
	{Class{OnlyUpperRight, Land}, []Code{43, 223, 167}},
	{Class{OnlyUpperRight, Shore}, []Code{179, 180}},

	// Sides.
	{Class{LeftSide, Land}, []Code{44, 66, 160, 168}},
	{Class{LeftSide, Shore}, []Code{84}},
	{Class{LowerSide, Land}, []Code{45, 67, 161, 169}},
	{Class{LowerSide, Shore}, []Code{85}},
	{Class{RightSide, Land}, []Code{46, 64, 162, 170}},
	{Class{RightSide, Shore}, []Code{86}},
	{Class{UpperSide, Land}, []Code{47, 65, 163, 171}},
	{Class{UpperSide, Shore}, []Code{87}},

	// All but one corner.
	{Class{NotLowerRight, Land}, []Code{48, 62, 156}},
	{Class{NotLowerRight, Shore}, []Code{88}},
	{Class{NotUpperRight, Land}, []Code{49, 63, 157}},
	{Class{NotUpperRight, Shore}, []Code{89}},
	{Class{NotUpperLeft, Land}, []Code{50, 60, 158}},
	{Class{NotUpperLeft, Shore}, []Code{90}},
	{Class{NotLowerLeft, Land}, []Code{51, 61, 159}},
	{Class{NotLowerLeft, Shore}, []Code{91}},

	// Diagonals.
	{Class{LeftToRight, Land}, []Code{204, 206, 214}},
	{Class{RightToLeft, Land}, []Code{205, 207, 213}},
}

// table holds the Class of every possible Code. It is filled once from groups.
var table [256]Class

func init() {
	seen := make(map[Code]struct{}, 128)
	for _, g := range groups {
		for _, c := range g.codes {
			if _, ok := seen[c]; ok {
				panic("tile: code listed in more than one group")
			}
			seen[c] = struct{}{}
			table[c] = g.class
		}
	}
}

// Lookup returns the Class of c. Codes that are not part of the content table
// resolve to a Land class with the None pattern.
func Lookup(c Code) Class {
	return table[c]
}

// Classify returns the FillPattern of c.
func Classify(c Code) FillPattern {
	return table[c].Pattern
}
