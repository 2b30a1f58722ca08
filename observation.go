package seedfinder

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/vktec/seedfinder/biome"
)

// Value is the expected outcome of an oracle: 0/1 for presence, a packed
// in-region offset for region locators, or a biome id for biome samples.
type Value int64

const (
	Absent  Value = 0
	Present Value = 1

	// NoStructure is the region-locator value for a region without an attempt.
	NoStructure Value = -1
)

func Bool(b bool) Value {
	if b {
		return Present
	}
	return Absent
}

// RegionOffset packs the chunk offset of a structure inside its region.
func RegionOffset(dx, dz int32) Value {
	return Value(dx)<<8 | Value(dz)
}

func (v Value) Offset() (dx, dz int32, ok bool) {
	if v < 0 || v > 0xFFFF {
		return 0, 0, false
	}
	return int32(v >> 8), int32(v & 0xFF), true
}

type Observation struct {
	Kind    FeatureKind
	Locator Locator
	Value   Value
}

func (o Observation) String() string {
	return fmt.Sprintf("%s@%s=%d", o.Kind, o.Locator, o.Value)
}

// ChunkPos is the observation's position on the chunk grid, used to order
// observations by distance.
func (o Observation) ChunkPos() (x, z int64) {
	switch o.Locator.Kind {
	case RegionCoordinate:
		size := int64(o.Kind.RegionSize())
		return int64(o.Locator.X) * size, int64(o.Locator.Z) * size
	case BiomeSample:
		return int64(o.Locator.X >> 4), int64(o.Locator.Z >> 4)
	default:
		return int64(o.Locator.X), int64(o.Locator.Z)
	}
}

// normalize checks o against its feature's metadata and fills in the
// locator's dimension.
func (o Observation) normalize() (Observation, error) {
	k := o.Kind
	if !k.Valid() {
		return o, ConfigErrorf("feature", "unknown feature kind %d", k)
	}
	if !k.Accepts(o.Locator.Kind) {
		return o, ConfigErrorf("locator", "%s does not accept %s locators", k, o.Locator.Kind)
	}
	switch d := o.Locator.Dimension; d {
	case DimensionUnspecified:
		o.Locator.Dimension = k.Dimension()
	case k.Dimension():
	default:
		return o, ConfigErrorf("locator", "%s generates in the %s, not the %s", k, k.Dimension(), d)
	}

	switch {
	case k == BiomeAt:
		if o.Value < 0 || o.Value > 0xFF || !biome.Overworld(biome.ID(o.Value)) {
			return o, ConfigErrorf("value", "%s expects an overworld biome id, got %d", k, o.Value)
		}
		// ocean variants are not modelled
		o.Value = Value(biome.Fold(biome.ID(o.Value)))
	case o.Locator.Kind == RegionCoordinate:
		if o.Value == NoStructure {
			if !k.AbsenceDecidable() {
				return o, ConfigErrorf("value", "absence of %s is biome-gated and cannot be tested", k)
			}
			break
		}
		dx, dz, ok := o.Value.Offset()
		size := k.RegionSize()
		if !ok || dx >= size || dz >= size {
			return o, ConfigErrorf("value", "%s region offset %d out of range for region size %d", k, o.Value, size)
		}
	default:
		if o.Value != Absent && o.Value != Present {
			return o, ConfigErrorf("value", "%s expects a boolean, got %d", k, o.Value)
		}
		if o.Value == Absent && !k.AbsenceDecidable() {
			return o, ConfigErrorf("value", "absence of %s is biome-gated and cannot be tested", k)
		}
	}
	return o, nil
}

type observationKey struct {
	kind    FeatureKind
	locator Locator
}

// ObservationSet holds validated, deduplicated observations. The zero value is
// an empty set with its origin at (0, 0). It is not safe for concurrent Add;
// once a search starts it is only read.
type ObservationSet struct {
	values           map[observationKey]Value
	entries          []Observation
	originX, originZ int32
}

func NewObservationSet(obs ...Observation) (*ObservationSet, error) {
	s := new(ObservationSet)
	for _, o := range obs {
		if err := s.Add(o); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add inserts o. Re-adding an identical observation is a no-op; adding one
// that disagrees with an existing entry fails with a *ConflictError and
// leaves the set unchanged.
func (s *ObservationSet) Add(o Observation) error {
	o, err := o.normalize()
	if err != nil {
		return err
	}
	key := observationKey{o.Kind, o.Locator}
	if v, ok := s.values[key]; ok {
		if v != o.Value {
			return &ConflictError{Kind: o.Kind, Locator: o.Locator, Existing: v, Rejected: o.Value}
		}
		return nil
	}
	if s.values == nil {
		s.values = make(map[observationKey]Value)
	}
	s.values[key] = o.Value
	s.entries = append(s.entries, o)
	return nil
}

func (s *ObservationSet) Len() int {
	return len(s.entries)
}

// lookup returns the value recorded for a feature at a locator.
func (s *ObservationSet) lookup(kind FeatureKind, loc Locator) (Value, bool) {
	if loc.Dimension == DimensionUnspecified {
		loc.Dimension = kind.Dimension()
	}
	v, ok := s.values[observationKey{kind, loc}]
	return v, ok
}

// RequiredBitWidth is Width64 if any observation needs a full-width oracle.
func (s *ObservationSet) RequiredBitWidth() BitWidth {
	for _, o := range s.entries {
		if o.Kind.BitWidth() == Width64 {
			return Width64
		}
	}
	return Width48
}

// SetOrigin moves the reference point observations are ordered around.
func (s *ObservationSet) SetOrigin(x, z int32) {
	s.originX, s.originZ = x, z
}

func (s *ObservationSet) Origin() (x, z int32) {
	return s.originX, s.originZ
}

// Observations returns a copy of the set, cheapest oracle first, then in
// spiral order around the origin.
func (s *ObservationSet) Observations() []Observation {
	sorted := slices.Clone(s.entries)
	slices.SortFunc(sorted, s.compare)
	return sorted
}

func (s *ObservationSet) Iter() iter.Seq[Observation] {
	return slices.Values(s.Observations())
}

// Split partitions the ordered observations by the seed width their oracles need.
func (s *ObservationSet) Split() (legacy, full []Observation) {
	for _, o := range s.Observations() {
		if o.Kind.BitWidth() == Width64 {
			full = append(full, o)
		} else {
			legacy = append(legacy, o)
		}
	}
	return legacy, full
}

func (s *ObservationSet) spiral(o Observation) uint64 {
	x, z := o.ChunkPos()
	return SpiralIndex(x-int64(s.originX), z-int64(s.originZ))
}

func (s *ObservationSet) compare(a, b Observation) int {
	if c := cmp.Compare(a.Kind.Cost(), b.Kind.Cost()); c != 0 {
		return c
	}
	if c := cmp.Compare(s.spiral(a), s.spiral(b)); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Locator.Kind, b.Locator.Kind); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Locator.X, b.Locator.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Locator.Z, b.Locator.Z); c != 0 {
		return c
	}
	return cmp.Compare(a.Value, b.Value)
}

// Validate rejects sets no seed can satisfy for structural reasons: an empty
// set, two observations placing one region's structure attempt at different
// chunks, or a chunk observed empty where its region's attempt was placed.
func (s *ObservationSet) Validate() error {
	if s.Len() == 0 {
		return ConfigErrorf("observations", "set is empty")
	}

	type regionKey struct {
		kind   FeatureKind
		rx, rz int32
	}
	placed := make(map[regionKey]Observation)
	for _, o := range s.entries {
		size := o.Kind.RegionSize()
		if size == 0 {
			continue
		}
		var key regionKey
		var at Value
		switch o.Locator.Kind {
		case ChunkCoordinate:
			rx, rz := FloorDiv(o.Locator.X, size), FloorDiv(o.Locator.Z, size)
			key = regionKey{o.Kind, rx, rz}
			at = RegionOffset(o.Locator.X-rx*size, o.Locator.Z-rz*size)
			if o.Value != Present {
				continue
			}
		case RegionCoordinate:
			key = regionKey{o.Kind, o.Locator.X, o.Locator.Z}
			at = o.Value
		default:
			continue
		}
		prev, ok := placed[key]
		if !ok {
			o.Value = at
			placed[key] = o
			continue
		}
		if prev.Value != at {
			return ConfigErrorf("observations", "contradictory %s observations in region (%d, %d)", o.Kind, key.rx, key.rz)
		}
	}
	for key, o := range placed {
		dx, dz, ok := o.Value.Offset()
		if !ok {
			continue
		}
		size := key.kind.RegionSize()
		if v, ok := s.lookup(key.kind, Chunk(key.rx*size+dx, key.rz*size+dz)); ok && v != Present {
			return ConfigErrorf("observations", "%s region (%d, %d) places its attempt in a chunk observed without one", key.kind, key.rx, key.rz)
		}
	}
	return nil
}

// FloorDiv divides rounding towards negative infinity.
func FloorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
