package biome

import "github.com/vktec/seedfinder/util"

// Area is a W*H rectangle of cells whose north-west corner is (X, Z), in the
// units of whichever layer is being asked.
type Area struct {
	X, Z int64
	W, H int
}

func (a Area) contains(x, z int64) bool {
	return x >= a.X && z >= a.Z && x < a.X+int64(a.W) && z < a.Z+int64(a.H)
}

// Map holds one value per cell of its Area, row by row from north to south.
type Map struct {
	Area
	Cells []int32
}

func NewMap(a Area) *Map {
	util.Assert(a.W >= 0 && a.H >= 0, "negative area size")
	return &Map{Area: a, Cells: make([]int32, a.W*a.H)}
}

func (m *Map) idx(i, j int) int {
	util.Assert(0 <= i && i < m.W, "x out of range")
	util.Assert(0 <= j && j < m.H, "z out of range")
	return j*m.W + i
}

// get and set take offsets from the map's corner.
func (m *Map) get(i, j int) int32 {
	return m.Cells[m.idx(i, j)]
}

func (m *Map) set(i, j int, v int32) {
	m.Cells[m.idx(i, j)] = v
}

// At returns the value of cell (x, z), which must lie inside the map.
func (m *Map) At(x, z int64) int32 {
	return m.get(int(x-m.X), int(z-m.Z))
}

// crop copies the part of m covering a.
func (m *Map) crop(a Area) *Map {
	if m.Area == a {
		return m
	}
	util.Assert(m.contains(a.X, a.Z) && m.contains(a.X+int64(a.W)-1, a.Z+int64(a.H)-1), "crop outside map")
	out := NewMap(a)
	di, dj := int(a.X-m.X), int(a.Z-m.Z)
	for j := 0; j < a.H; j++ {
		copy(out.Cells[j*a.W:(j+1)*a.W], m.Cells[(j+dj)*m.W+di:])
	}
	return out
}
