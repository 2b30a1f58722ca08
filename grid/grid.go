// Package grid reads and writes slime chunk maps: rectangles of chunks where
// each cell is a slime chunk, a plain chunk, or unexplored.
//
// The text form has one row per line, north to south, one character per
// chunk. 'x' marks a slime chunk, '.' a plain chunk and '?' an unexplored
// one. Whitespace between cells is ignored, so maps printed with spaced cells
// read back unchanged.
package grid

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/oracle"
	"github.com/vktec/seedfinder/util"
)

type Cell uint8

const (
	Unknown Cell = iota
	Plain
	Slime
)

func (c Cell) rune() rune {
	switch c {
	case Plain:
		return '.'
	case Slime:
		return 'x'
	}
	return '?'
}

// Map is a W*H block of chunks whose top-left (north-west) corner is chunk
// (X, Z).
type Map struct {
	X, Z  int32
	W, H  int32
	cells []Cell
}

func New(x, z, w, h int32) *Map {
	util.Assert(w >= 0 && h >= 0, "negative map size")
	return &Map{X: x, Z: z, W: w, H: h, cells: make([]Cell, int(w)*int(h))}
}

func (m *Map) idx(x, z int32) int {
	util.Assert(0 <= x && x < m.W, "x out of range")
	util.Assert(0 <= z && z < m.H, "z out of range")
	return int(m.W*z + x)
}

// Get and Set take offsets from the map's corner, not chunk coordinates.
func (m *Map) Get(x, z int32) Cell {
	return m.cells[m.idx(x, z)]
}

func (m *Map) Set(x, z int32, c Cell) {
	m.cells[m.idx(x, z)] = c
}

// Count returns the number of cells holding c.
func (m *Map) Count(c Cell) (n int) {
	for _, v := range m.cells {
		if v == c {
			n++
		}
	}
	return n
}

// Parse reads a text map whose top-left cell is chunk (x, z). Blank lines and
// lines starting with '#' are skipped. Short rows are padded with unknown
// cells.
func Parse(r io.Reader, x, z int32) (*Map, error) {
	var rows [][]Cell
	width := 0
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := sc.Text()
		if trimmed := strings.TrimSpace(text); trimmed == "" || trimmed[0] == '#' {
			continue
		}
		var row []Cell
		for col, ch := range text {
			switch ch {
			case ' ', '\t', '\r':
			case 'x', 'X', 's', 'S':
				row = append(row, Slime)
			case '.', 'o', 'O', '-':
				row = append(row, Plain)
			case '?':
				row = append(row, Unknown)
			default:
				return nil, fmt.Errorf("line %d, column %d: unexpected %q", line, col+1, ch)
			}
		}
		rows = append(rows, row)
		width = max(width, len(row))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	m := New(x, z, int32(width), int32(len(rows)))
	for dz, row := range rows {
		for dx, c := range row {
			m.Set(int32(dx), int32(dz), c)
		}
	}
	return m, nil
}

// WriteTo prints the map in its text form with spaced cells.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for z := int32(0); z < m.H; z++ {
		for x := int32(0); x < m.W; x++ {
			if x > 0 {
				bw.WriteByte(' ')
				n++
			}
			k, _ := bw.WriteRune(m.Get(x, z).rune())
			n += int64(k)
		}
		bw.WriteByte('\n')
		n++
	}
	return n, bw.Flush()
}

func (m *Map) String() string {
	var sb strings.Builder
	m.WriteTo(&sb)
	return sb.String()
}

// Observations lists one slime chunk observation per explored cell.
func (m *Map) Observations() []seedfinder.Observation {
	var obs []seedfinder.Observation
	for z := int32(0); z < m.H; z++ {
		for x := int32(0); x < m.W; x++ {
			c := m.Get(x, z)
			if c == Unknown {
				continue
			}
			obs = append(obs, seedfinder.Observation{
				Kind:    seedfinder.SlimeChunk,
				Locator: seedfinder.Chunk(m.X+x, m.Z+z),
				Value:   seedfinder.Bool(c == Slime),
			})
		}
	}
	return obs
}

// Mismatches counts explored cells that disagree with seed.
func (m *Map) Mismatches(seed seedfinder.Seed) (n int) {
	for _, o := range m.Observations() {
		if !oracle.Matches(o, seed) {
			n++
		}
	}
	return n
}
