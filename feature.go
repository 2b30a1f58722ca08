package seedfinder

import (
	"fmt"
	"strings"
)

type FeatureKind uint8

const (
	FeatureUnknown FeatureKind = iota
	SlimeChunk
	BuriedTreasure
	DesertPyramid
	JunglePyramid
	Igloo
	WitchHut
	Village
	OceanMonument
	WoodlandMansion
	EndCity
	NetherFortress
	Stronghold
	BiomeAt

	numFeatureKinds
)

type locatorSet uint8

func locators(kinds ...LocatorKind) (s locatorSet) {
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

func (s locatorSet) has(k LocatorKind) bool {
	return s&(1<<k) != 0
}

type featureInfo struct {
	name      string
	width     BitWidth
	dimension Dimension
	locators  locatorSet
	// relative cost of one oracle evaluation, in rough units of PRNG steps
	cost uint8
	// regionSize is the structure region edge in chunks, 0 for per-chunk features
	regionSize int32
	// absentDecidable is false for biome-gated features, where a missing
	// structure says nothing about the seed
	absentDecidable bool
}

var features = [numFeatureKinds]featureInfo{
	FeatureUnknown:  {name: "unknown"},
	SlimeChunk:      {"slime_chunk", Width48, Overworld, locators(ChunkCoordinate), 1, 0, true},
	BuriedTreasure:  {"buried_treasure", Width48, Overworld, locators(ChunkCoordinate), 1, 0, false},
	DesertPyramid:   {"desert_pyramid", Width48, Overworld, locators(ChunkCoordinate, RegionCoordinate), 2, 32, false},
	JunglePyramid:   {"jungle_pyramid", Width48, Overworld, locators(ChunkCoordinate, RegionCoordinate), 2, 32, false},
	Igloo:           {"igloo", Width48, Overworld, locators(ChunkCoordinate, RegionCoordinate), 2, 32, false},
	WitchHut:        {"witch_hut", Width48, Overworld, locators(ChunkCoordinate, RegionCoordinate), 2, 32, false},
	Village:         {"village", Width48, Overworld, locators(ChunkCoordinate, RegionCoordinate), 2, 32, false},
	OceanMonument:   {"ocean_monument", Width48, Overworld, locators(ChunkCoordinate, RegionCoordinate), 3, 32, false},
	WoodlandMansion: {"woodland_mansion", Width48, Overworld, locators(ChunkCoordinate, RegionCoordinate), 3, 80, false},
	EndCity:         {"end_city", Width48, End, locators(ChunkCoordinate, RegionCoordinate), 3, 20, false},
	NetherFortress:  {"nether_fortress", Width48, Nether, locators(ChunkCoordinate, RegionCoordinate), 3, 16, true},
	Stronghold:      {"stronghold", Width48, Overworld, locators(ChunkCoordinate), 6, 0, false},
	BiomeAt:         {"biome_at", Width64, Overworld, locators(BiomeSample), 250, 0, true},
}

func (k FeatureKind) info() featureInfo {
	if k < numFeatureKinds {
		return features[k]
	}
	return features[FeatureUnknown]
}

func (k FeatureKind) Valid() bool {
	return k > FeatureUnknown && k < numFeatureKinds
}

func (k FeatureKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("FeatureKind(%d)", k)
	}
	return k.info().name
}

// BitWidth is the number of low seed bits the feature's oracle depends on.
func (k FeatureKind) BitWidth() BitWidth {
	return k.info().width
}

func (k FeatureKind) Dimension() Dimension {
	return k.info().dimension
}

func (k FeatureKind) Cost() int {
	return int(k.info().cost)
}

// RegionSize is the edge length in chunks of the grid cell holding at most one
// attempt of the structure, or 0 for per-chunk features.
func (k FeatureKind) RegionSize() int32 {
	return k.info().regionSize
}

func (k FeatureKind) Accepts(l LocatorKind) bool {
	return k.info().locators.has(l)
}

// AbsenceDecidable reports whether observing that the feature is absent
// constrains the seed.
func (k FeatureKind) AbsenceDecidable() bool {
	return k.info().absentDecidable
}

func FeatureKinds() []FeatureKind {
	kinds := make([]FeatureKind, 0, numFeatureKinds-1)
	for k := FeatureUnknown + 1; k < numFeatureKinds; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

func ParseFeatureKind(name string) (FeatureKind, error) {
	norm := strings.ReplaceAll(strings.ToLower(name), "-", "_")
	for k := FeatureUnknown + 1; k < numFeatureKinds; k++ {
		if features[k].name == norm {
			return k, nil
		}
	}
	return FeatureUnknown, fmt.Errorf("unknown feature %q", name)
}
