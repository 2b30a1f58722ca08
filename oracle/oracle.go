// Package oracle implements the world generation decision procedures a seed
// is tested against. Every oracle is a pure, total function of the seed and a
// locator.
package oracle

import (
	"fmt"

	"github.com/vktec/seedfinder"
)

// Check reports whether a seed agrees with one observation.
type Check func(seed seedfinder.Seed) bool

// Test evaluates the oracle for kind at loc.
func Test(kind seedfinder.FeatureKind, seed seedfinder.Seed, loc seedfinder.Locator) seedfinder.Value {
	switch kind {
	case seedfinder.SlimeChunk:
		return seedfinder.Bool(IsSlimeChunk(seed, loc.X, loc.Z))
	case seedfinder.BuriedTreasure:
		return seedfinder.Bool(IsTreasureCandidate(seed, loc.X, loc.Z))
	case seedfinder.Stronghold:
		return seedfinder.Bool(IsStrongholdNear(seed, loc.X, loc.Z))
	case seedfinder.BiomeAt:
		return seedfinder.Value(BiomeAt(seed, loc.X, loc.Z))
	}

	size := kind.RegionSize()
	if size == 0 {
		panic(fmt.Sprintf("oracle: no oracle for %s", kind))
	}
	if loc.Kind == seedfinder.RegionCoordinate {
		return regionValue(StructureAttempt(kind, seed, loc.X, loc.Z))
	}
	rx, rz := seedfinder.FloorDiv(loc.X, size), seedfinder.FloorDiv(loc.Z, size)
	x, z, ok := StructureChunk(kind, seed, rx, rz)
	return seedfinder.Bool(ok && x == loc.X && z == loc.Z)
}

// Matches reports whether seed agrees with o.
func Matches(o seedfinder.Observation, seed seedfinder.Seed) bool {
	return Test(o.Kind, seed, o.Locator) == o.Value
}

// Compile returns a Check for o with the locator-dependent work done up
// front. It agrees with Matches for every seed.
func Compile(o seedfinder.Observation) Check {
	switch o.Kind {
	case seedfinder.SlimeChunk:
		return compileSlime(o.Locator.X, o.Locator.Z, o.Value == seedfinder.Present)
	case seedfinder.BuriedTreasure:
		mix := chunkMix(o.Locator.X, o.Locator.Z) + treasureSalt
		want := o.Value == seedfinder.Present
		return func(seed seedfinder.Seed) bool {
			return treasureDraw(int64(seed)+mix) == want
		}
	case seedfinder.BiomeAt:
		return compileBiome(o)
	}
	if o.Kind.RegionSize() != 0 {
		return compileRegion(o)
	}
	return func(seed seedfinder.Seed) bool {
		return Matches(o, seed)
	}
}

// CompileAll compiles observations in order.
func CompileAll(obs []seedfinder.Observation) []Check {
	checks := make([]Check, len(obs))
	for i, o := range obs {
		checks[i] = Compile(o)
	}
	return checks
}

// MatchAll runs checks in order and stops at the first mismatch.
func MatchAll(checks []Check, seed seedfinder.Seed) bool {
	for _, c := range checks {
		if !c(seed) {
			return false
		}
	}
	return true
}
