package oracle

import (
	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/javarand"
)

const treasureSalt = 10387320

// IsTreasureCandidate reports whether the chunk rolls a buried treasure. The
// game additionally requires a beach biome at the chunk.
func IsTreasureCandidate(seed seedfinder.Seed, x, z int32) bool {
	return treasureDraw(int64(seed) + chunkMix(x, z) + treasureSalt)
}

func treasureDraw(mixed int64) bool {
	r := javarand.New(mixed)
	return r.NextFloat() < 0.01
}

func chunkMix(x, z int32) int64 {
	return int64(x)*341873128712 + int64(z)*132897987541
}
