package oracle

import (
	"math"

	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/javarand"
)

const (
	strongholdDistance = 32
	strongholdSpread   = 3
	// the biome search moves the start up to 112 blocks along each axis
	strongholdDrift = 7
)

// FirstStronghold is the chunk the first ring-0 stronghold is placed around
// before the biome search nudges it, along with the ring's base angle.
func FirstStronghold(seed seedfinder.Seed) (x, z int32, angle float64) {
	r := javarand.New(int64(seed))
	angle = r.NextDouble() * math.Pi * 2
	dist := 4*strongholdDistance + (r.NextDouble()-0.5)*strongholdDistance*2.5
	return int32(javaRound(math.Cos(angle) * dist)), int32(javaRound(math.Sin(angle) * dist)), angle
}

// IsStrongholdNear reports whether a stronghold start at chunk (x, z) is
// consistent with the seed's first ring. Only the first stronghold's distance
// is independent of biomes; the other two are checked against their whole
// possible distance band, so the test never rejects a real ring-0 stronghold.
func IsStrongholdNear(seed seedfinder.Seed, x, z int32) bool {
	cx, cz, angle := FirstStronghold(seed)
	if abs32(x-cx) <= strongholdDrift && abs32(z-cz) <= strongholdDrift {
		return true
	}

	lo := 4*strongholdDistance - 0.5*strongholdDistance*2.5
	hi := 4*strongholdDistance + 0.5*strongholdDistance*2.5
	// the start is rounded before drifting
	tol := strongholdDrift + 0.5
	for k := 1; k < strongholdSpread; k++ {
		a := angle + float64(k)*2*math.Pi/strongholdSpread
		dlo, dhi := lo, hi
		dlo, dhi = clampAlong(float64(x), math.Cos(a), tol, dlo, dhi)
		dlo, dhi = clampAlong(float64(z), math.Sin(a), tol, dlo, dhi)
		if dlo <= dhi {
			return true
		}
	}
	return false
}

// clampAlong narrows [dlo, dhi] to the distances d with |p - d*dir| <= tol.
func clampAlong(p, dir, tol, dlo, dhi float64) (float64, float64) {
	if math.Abs(dir) < 1e-12 {
		if math.Abs(p) > tol {
			return 1, 0
		}
		return dlo, dhi
	}
	a, b := (p-tol)/dir, (p+tol)/dir
	if a > b {
		a, b = b, a
	}
	return math.Max(dlo, a), math.Min(dhi, b)
}

// javaRound matches Math.round(double).
func javaRound(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}
