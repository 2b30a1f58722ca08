package oracle

import (
	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/javarand"
)

const slimeSalt = 987234911

// slimeMix is the coordinate part of the slime chunk seed. The int32
// wraparound in the products matches the game.
func slimeMix(x, z int32) int64 {
	return int64(x*x*4987142) +
		int64(x*5947611) +
		int64(z*z)*4392871 + // sic
		int64(z*389711)
}

func IsSlimeChunk(seed seedfinder.Seed, x, z int32) bool {
	return slimeDraw(int64(seed) + slimeMix(x, z))
}

func slimeDraw(mixed int64) bool {
	r := javarand.New(mixed ^ slimeSalt)
	return r.NextInt(10) == 0
}

func compileSlime(x, z int32, want bool) Check {
	mix := slimeMix(x, z)
	return func(seed seedfinder.Seed) bool {
		return slimeDraw(int64(seed)+mix) == want
	}
}
