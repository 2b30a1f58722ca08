package biome

import "fmt"

// Layers is the number of layers a Generator exposes through Layer. Layer
// Layers-1 is the river mix at 1:4 scale.
const Layers = 43

const (
	riverLayer = 41
	mixLayer   = 42
)

// Generator is the layer chain of one world seed. It is safe for concurrent
// use.
type Generator struct {
	Seed   int64
	layers [Layers]layer
	zoom   voronoi
}

// NewGenerator builds the 1.13 overworld chain for seed. The ocean
// temperature layers are left out: they only repaint oceans, which Biomes
// and At fold into Ocean anyway.
func NewGenerator(seed int64) *Generator {
	g := &Generator{Seed: seed, zoom: voronoi{start: layerStart(seed, voronoiSalt)}}
	st := func(salt int64) int64 { return layerStart(seed, salt) }
	zm := func(p layer, salt int64) layer { return &zoom{parent: p, start: st(salt)} }
	mg := func(p layer, salt int64, f windowFunc) layer { return &margin{parent: p, start: st(salt), f: f} }
	pw := func(p layer, salt int64, f cellFunc) layer { return &pointwise{parent: p, start: st(salt), f: f} }

	l := &g.layers
	l[0] = &island{start: st(1)}
	l[1] = &zoom{parent: l[0], start: st(2000), fuzzy: true}
	l[2] = mg(l[1], 1, addIsland)
	l[3] = zm(l[2], 2001)
	l[4] = mg(l[3], 2, addIsland)
	l[5] = mg(l[4], 50, addIsland)
	l[6] = mg(l[5], 70, addIsland)
	l[7] = mg(l[6], 2, removeTooMuchOcean)
	l[8] = mg(l[7], 2, addSnow)
	l[9] = mg(l[8], 3, addIsland)
	l[10] = mg(l[9], 2, coolWarm)
	l[11] = mg(l[10], 2, heatIce)
	l[12] = pw(l[11], 3, special)
	l[13] = zm(l[12], 2002)
	l[14] = zm(l[13], 2003)
	l[15] = mg(l[14], 4, addIsland)
	l[16] = mg(l[15], 5, addMushroom)
	l[17] = mg(l[16], 4, deepOcean)

	// biomes
	l[18] = pw(l[17], 200, pickBiome)
	l[19] = zm(l[18], 1000)
	l[20] = zm(l[19], 1001)
	l[21] = mg(l[20], 1000, biomeEdge)

	// river noise, shared by hills and rivers
	l[22] = pw(l[17], 100, riverInit)
	l[23] = zm(l[22], 1000)
	l[24] = zm(l[23], 1001)

	l[25] = &hills{biomes: l[21], noise: l[24], start: st(1000)}
	l[26] = mg(l[25], 1001, rareBiome)
	l[27] = zm(l[26], 1000)
	l[28] = mg(l[27], 3, addIsland)
	l[29] = zm(l[28], 1001)
	l[30] = mg(l[29], 1000, shore)
	l[31] = zm(l[30], 1002)
	l[32] = zm(l[31], 1003)
	l[33] = mg(l[32], 1000, smooth)

	// rivers
	l[34] = zm(l[22], 1000)
	l[35] = zm(l[34], 1001)
	l[36] = zm(l[35], 1000)
	l[37] = zm(l[36], 1001)
	l[38] = zm(l[37], 1002)
	l[39] = zm(l[38], 1003)
	l[40] = mg(l[39], 1, river)
	l[41] = mg(l[40], 1000, smooth)

	l[42] = &riverMix{biomes: l[33], rivers: l[41]}
	return g
}

// Layer generates layer n over a in that layer's own scale.
func (g *Generator) Layer(n int, a Area) (*Map, error) {
	if n < 0 || n >= Layers {
		return nil, fmt.Errorf("layer %d out of range [0, %d)", n, Layers)
	}
	return g.layers[n].generate(a), nil
}

// Rivers returns the river layer over a at 1:4 scale: River where a river
// runs and -1 elsewhere.
func (g *Generator) Rivers(a Area) *Map {
	return g.layers[riverLayer].generate(a)
}

// Biomes returns the biome of every block in a, with oceans folded into
// Ocean.
func (g *Generator) Biomes(a Area) *Map {
	m := NewMap(a)
	if a.W == 0 || a.H == 0 {
		return m
	}
	pm := g.layers[mixLayer].generate(g.zoom.parentArea(a))
	for j := 0; j < a.H; j++ {
		for i := 0; i < a.W; i++ {
			px, pz := g.zoom.cell(a.X+int64(i), a.Z+int64(j))
			m.set(i, j, Fold(pm.At(px, pz)))
		}
	}
	return m
}

// At returns the biome of block (x, z), with oceans folded into Ocean.
func (g *Generator) At(x, z int64) ID {
	px, pz := g.zoom.cell(x, z)
	return Fold(g.layers[mixLayer].generate(Area{X: px, Z: pz, W: 1, H: 1}).Cells[0])
}
