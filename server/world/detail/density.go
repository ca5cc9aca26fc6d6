package detail

import "slices"

// DensityMap is a square grid of detail densities. It has twice the linear
// resolution of the tile grid it was generated from.
type DensityMap struct {
	Dim   int
	Cells []int
}

// NewDensityMap returns an empty dim x dim map.
func NewDensityMap(dim int) *DensityMap {
	return &DensityMap{Dim: dim, Cells: make([]int, dim*dim)}
}

// At returns the density at row y, column x.
func (m *DensityMap) At(y, x int) int {
	return m.Cells[y*m.Dim+x]
}

// Set changes the density at row y, column x.
func (m *DensityMap) Set(y, x, v int) {
	m.Cells[y*m.Dim+x] = v
}

// NonZero returns the number of cells with a density above 0.
func (m *DensityMap) NonZero() int {
	n := 0
	for _, v := range m.Cells {
		if v != 0 {
			n++
		}
	}
	return n
}

// Rows returns the map as a slice of rows, sharing memory with m.
func (m *DensityMap) Rows() [][]int {
	rows := make([][]int, m.Dim)
	for y := range rows {
		rows[y] = m.Cells[y*m.Dim : (y+1)*m.Dim]
	}
	return rows
}

// Equal reports if m and o hold the same densities.
func (m *DensityMap) Equal(o *DensityMap) bool {
	if m == nil || o == nil {
		return m == o
	}
	return m.Dim == o.Dim && slices.Equal(m.Cells, o.Cells)
}

// Clone returns a deep copy of m.
func (m *DensityMap) Clone() *DensityMap {
	return &DensityMap{Dim: m.Dim, Cells: slices.Clone(m.Cells)}
}

// Maps holds one DensityMap per active category of a chunk.
type Maps struct {
	dim    int
	active Categories
	layers [categoryCount]*DensityMap
}

func newMaps(dim int, active Categories) *Maps {
	m := &Maps{dim: dim, active: active}
	for _, c := range active.Slice() {
		m.layers[c] = NewDensityMap(dim)
	}
	return m
}

// Dim returns the dimension of every map.
func (m *Maps) Dim() int {
	return m.dim
}

// Active returns the categories that have a map.
func (m *Maps) Active() Categories {
	return m.active
}

// Get returns the map of c, or nil if c is not active.
func (m *Maps) Get(c Category) *DensityMap {
	if int(c) >= categoryCount {
		return nil
	}
	return m.layers[c]
}

// Each calls f for every active category in layer order.
func (m *Maps) Each(f func(c Category, dm *DensityMap)) {
	for _, c := range m.active.Slice() {
		f(c, m.layers[c])
	}
}

// NonZero returns the number of non-empty cells over all maps.
func (m *Maps) NonZero() int {
	n := 0
	m.Each(func(_ Category, dm *DensityMap) {
		n += dm.NonZero()
	})
	return n
}

// Equal reports if m and o have the same active categories and densities.
func (m *Maps) Equal(o *Maps) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.dim != o.dim || m.active != o.active {
		return false
	}
	for i := range m.layers {
		if !m.layers[i].Equal(o.layers[i]) {
			return false
		}
	}
	return true
}

// set writes v to the map of c if c is active.
func (m *Maps) set(c Category, y, x, v int) {
	if dm := m.layers[c]; dm != nil {
		dm.Set(y, x, v)
	}
}
