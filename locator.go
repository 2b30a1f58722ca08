package seedfinder

import (
	"fmt"
	"math"
	"strings"
)

type LocatorKind uint8

const (
	ChunkCoordinate LocatorKind = iota
	RegionCoordinate
	BiomeSample
)

var locatorKindNames = [...]string{
	ChunkCoordinate:  "chunk",
	RegionCoordinate: "region",
	BiomeSample:      "biome",
}

func (k LocatorKind) String() string {
	if int(k) < len(locatorKindNames) {
		return locatorKindNames[k]
	}
	return fmt.Sprintf("LocatorKind(%d)", k)
}

func ParseLocatorKind(name string) (LocatorKind, error) {
	for k, n := range locatorKindNames {
		if strings.EqualFold(name, n) {
			return LocatorKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown locator kind %q", name)
}

// Dimension left unspecified on a locator takes the dimension of the feature it
// is attached to.
type Dimension uint8

const (
	DimensionUnspecified Dimension = iota
	Overworld
	Nether
	End
)

var dimensionNames = [...]string{
	DimensionUnspecified: "",
	Overworld:            "overworld",
	Nether:               "nether",
	End:                  "end",
}

func (d Dimension) String() string {
	if int(d) < len(dimensionNames) {
		return dimensionNames[d]
	}
	return fmt.Sprintf("Dimension(%d)", d)
}

func ParseDimension(name string) (Dimension, error) {
	for d, n := range dimensionNames {
		if strings.EqualFold(name, n) {
			return Dimension(d), nil
		}
	}
	return 0, fmt.Errorf("unknown dimension %q", name)
}

// Locator places an observation in the world. X and Z are in chunk units for
// ChunkCoordinate, region-grid units for RegionCoordinate and block units for
// BiomeSample.
type Locator struct {
	Kind      LocatorKind
	X, Z      int32
	Dimension Dimension
}

func Chunk(x, z int32) Locator {
	return Locator{Kind: ChunkCoordinate, X: x, Z: z}
}

func Region(x, z int32) Locator {
	return Locator{Kind: RegionCoordinate, X: x, Z: z}
}

func Biome(x, z int32) Locator {
	return Locator{Kind: BiomeSample, X: x, Z: z}
}

func (l Locator) In(d Dimension) Locator {
	l.Dimension = d
	return l
}

func (l Locator) String() string {
	if l.Dimension == DimensionUnspecified {
		return fmt.Sprintf("%s(%d, %d)", l.Kind, l.X, l.Z)
	}
	return fmt.Sprintf("%s(%d, %d)@%s", l.Kind, l.X, l.Z, l.Dimension)
}

// maxSpiralRing is the outermost ring whose indices fit in a uint64.
const maxSpiralRing = 1<<31 - 1

// SpiralIndex numbers the grid in a square spiral around the origin: the
// origin is 0, the 8 cells of ring 1 follow, and so on. Cells in nearer rings
// always come first. Cells beyond maxSpiralRing all share the largest index.
func SpiralIndex(dx, dz int64) uint64 {
	r := max(abs(dx), abs(dz))
	if r == 0 {
		return 0
	}
	if r < 0 || r > maxSpiralRing {
		return math.MaxUint64
	}
	var off int64
	switch {
	case dx == r && dz > -r:
		off = dz + r - 1
	case dz == r:
		off = 2*r + (r - 1 - dx)
	case dx == -r:
		off = 4*r + (r - 1 - dz)
	default:
		off = 6*r + (dx + r - 1)
	}
	side := uint64(2*r - 1)
	return side*side + uint64(off)
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
