package oracle

import (
	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/javarand"
)

type regionConfig struct {
	salt                int64
	spacing, separation int32
	// triangular placement averages two draws per axis, biasing towards the
	// region centre
	triangular bool
}

var regionConfigs = map[seedfinder.FeatureKind]regionConfig{
	seedfinder.DesertPyramid:   {14357617, 32, 8, false},
	seedfinder.Igloo:           {14357618, 32, 8, false},
	seedfinder.JunglePyramid:   {14357619, 32, 8, false},
	seedfinder.WitchHut:        {14357620, 32, 8, false},
	seedfinder.Village:         {10387312, 32, 8, false},
	seedfinder.OceanMonument:   {10387313, 32, 5, true},
	seedfinder.WoodlandMansion: {10387319, 80, 20, true},
	seedfinder.EndCity:         {10387313, 20, 11, true},
}

func (c regionConfig) draw(mixed int64) (dx, dz int32) {
	r := javarand.New(mixed + c.salt)
	n := c.spacing - c.separation
	if c.triangular {
		dx = (r.NextInt(n) + r.NextInt(n)) / 2
		dz = (r.NextInt(n) + r.NextInt(n)) / 2
		return dx, dz
	}
	dx = r.NextInt(n)
	dz = r.NextInt(n)
	return dx, dz
}

// StructureAttempt returns the chunk offset inside region (rx, rz) where the
// structure is attempted. ok is false for features without a placement in
// every region, or for regions that skip their attempt.
func StructureAttempt(kind seedfinder.FeatureKind, seed seedfinder.Seed, rx, rz int32) (dx, dz int32, ok bool) {
	if kind == seedfinder.NetherFortress {
		return fortressAttempt(int64(seed), rx, rz)
	}
	c, ok := regionConfigs[kind]
	if !ok {
		return 0, 0, false
	}
	dx, dz = c.draw(int64(seed) + chunkMix(rx, rz))
	return dx, dz, true
}

// StructureChunk returns the chunk coordinates of the attempt in region (rx, rz).
func StructureChunk(kind seedfinder.FeatureKind, seed seedfinder.Seed, rx, rz int32) (x, z int32, ok bool) {
	dx, dz, ok := StructureAttempt(kind, seed, rx, rz)
	if !ok {
		return 0, 0, false
	}
	size := kind.RegionSize()
	return rx*size + dx, rz*size + dz, true
}

// fortressAttempt follows the nether fortress placement used before 1.16,
// which only uses a region-local seed and skips two out of three regions.
func fortressAttempt(seed int64, rx, rz int32) (dx, dz int32, ok bool) {
	r := javarand.New(int64(rx^rz<<4) ^ seed)
	r.NextInt32()
	if r.NextInt(3) != 0 {
		return 0, 0, false
	}
	dx = 4 + r.NextInt(8)
	dz = 4 + r.NextInt(8)
	return dx, dz, true
}

func regionValue(dx, dz int32, ok bool) seedfinder.Value {
	if !ok {
		return seedfinder.NoStructure
	}
	return seedfinder.RegionOffset(dx, dz)
}

func compileRegion(o seedfinder.Observation) Check {
	kind, loc := o.Kind, o.Locator
	size := kind.RegionSize()

	// Both locator forms reduce to "region (rx, rz) has value want"
	rx, rz := loc.X, loc.Z
	want := o.Value
	if loc.Kind == seedfinder.ChunkCoordinate {
		rx, rz = seedfinder.FloorDiv(loc.X, size), seedfinder.FloorDiv(loc.Z, size)
		if o.Value == seedfinder.Present {
			want = seedfinder.RegionOffset(loc.X-rx*size, loc.Z-rz*size)
		} else {
			// absent: anything but an attempt at this chunk
			at := seedfinder.RegionOffset(loc.X-rx*size, loc.Z-rz*size)
			return func(seed seedfinder.Seed) bool {
				return regionValue(StructureAttempt(kind, seed, rx, rz)) != at
			}
		}
	}

	if kind == seedfinder.NetherFortress {
		return func(seed seedfinder.Seed) bool {
			return regionValue(fortressAttempt(int64(seed), rx, rz)) == want
		}
	}
	c := regionConfigs[kind]
	mix := chunkMix(rx, rz)
	wdx, wdz, _ := want.Offset()
	return func(seed seedfinder.Seed) bool {
		dx, dz := c.draw(int64(seed) + mix)
		return dx == wdx && dz == wdz
	}
}
