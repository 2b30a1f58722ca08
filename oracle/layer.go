package oracle

import (
	"github.com/vktec/seedfinder"
	"github.com/vktec/seedfinder/biome"
)

// BiomeAt returns the biome at block (x, z), with every ocean folded into
// plain ocean.
func BiomeAt(seed seedfinder.Seed, x, z int32) biome.ID {
	return biome.NewGenerator(int64(seed)).At(int64(x), int64(z))
}

func compileBiome(o seedfinder.Observation) Check {
	x, z := int64(o.Locator.X), int64(o.Locator.Z)
	want := biome.ID(o.Value)
	return func(seed seedfinder.Seed) bool {
		return biome.NewGenerator(int64(seed)).At(x, z) == want
	}
}
