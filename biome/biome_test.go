package biome

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSeed = -5025562857975149833 // 0xBA41_9D35_0DFE_8AF7

func TestIslandLayer(t *testing.T) {
	g := NewGenerator(12345)
	m, err := g.Layer(0, Area{X: -3, Z: -3, W: 7, H: 7})
	require.NoError(t, err)
	land := map[[2]int64]bool{{-2, 0}: true, {0, 0}: true, {1, 3}: true}
	for z := int64(-3); z <= 3; z++ {
		for x := int64(-3); x <= 3; x++ {
			want := int32(0)
			if land[[2]int64{x, z}] {
				want = 1
			}
			assert.Equal(t, want, m.At(x, z), "cell (%d, %d)", x, z)
		}
	}
}

func TestIslandLayerUsesFullSeed(t *testing.T) {
	a := Area{X: -6, Z: -4, W: 1, H: 1}
	m, err := NewGenerator(testSeed).Layer(0, a)
	require.NoError(t, err)
	other, err := NewGenerator(testSeed^1<<50).Layer(0, a)
	require.NoError(t, err)
	assert.Equal(t, int32(1), m.Cells[0])
	assert.NotEqual(t, m.Cells[0], other.Cells[0])
}

func TestLayerOutOfRange(t *testing.T) {
	g := NewGenerator(1)
	_, err := g.Layer(Layers, Area{W: 1, H: 1})
	assert.Error(t, err)
	_, err = g.Layer(-1, Area{W: 1, H: 1})
	assert.Error(t, err)
}

// A layer over a large area must agree with the same layer over any of its
// cells alone, since cropping happens at every zoom.
func TestLayerAreaIndependent(t *testing.T) {
	g := NewGenerator(testSeed)
	for _, n := range []int{1, 7, 18, 25, 33, 41, 42} {
		a := Area{X: -9, Z: 5, W: 13, H: 11}
		m, err := g.Layer(n, a)
		require.NoError(t, err)
		for _, c := range [][2]int64{{-9, 5}, {0, 10}, {3, 15}, {-4, 7}} {
			one, err := g.Layer(n, Area{X: c[0], Z: c[1], W: 1, H: 1})
			require.NoError(t, err)
			assert.Equal(t, m.At(c[0], c[1]), one.Cells[0], "layer %d cell %v", n, c)
		}
	}
}

func TestBiomesAgreeWithAt(t *testing.T) {
	g := NewGenerator(testSeed)
	a := Area{X: -517, Z: 250, W: 40, H: 33}
	m := g.Biomes(a)
	for z := a.Z; z < a.Z+int64(a.H); z += 3 {
		for x := a.X; x < a.X+int64(a.W); x += 5 {
			assert.Equal(t, m.At(x, z), g.At(x, z), "block (%d, %d)", x, z)
		}
	}
}

func TestBiomesAreOverworldAndFolded(t *testing.T) {
	kinds := map[ID]bool{}
	for _, seed := range []int64{0, 12345, testSeed} {
		g := NewGenerator(seed)
		m := g.Biomes(Area{X: -128, Z: -128, W: 256, H: 256})
		for _, id := range m.Cells {
			require.True(t, Overworld(id), "seed %d produced %s", seed, Name(id))
			require.False(t, Oceanic(id) && id != Ocean, "seed %d produced unfolded %s", seed, Name(id))
		}

		mix, err := g.Layer(mixLayer, Area{X: -256, Z: -256, W: 512, H: 512})
		require.NoError(t, err)
		for _, id := range mix.Cells {
			require.True(t, Overworld(id), "seed %d produced %s", seed, Name(id))
			kinds[Fold(id)] = true
		}
	}
	assert.Greater(t, len(kinds), 3)
}

func TestRiversLayer(t *testing.T) {
	m := NewGenerator(testSeed).Rivers(Area{X: -256, Z: -256, W: 512, H: 512})
	rivers := 0
	for _, v := range m.Cells {
		require.Contains(t, []int32{River, noRiver}, v)
		if v == River {
			rivers++
		}
	}
	assert.Greater(t, rivers, 0)
	assert.Less(t, rivers, len(m.Cells))
}

func TestGeneratorDeterministic(t *testing.T) {
	a := Area{X: 300, Z: -200, W: 24, H: 24}
	want := NewGenerator(testSeed).Biomes(a)

	var wg sync.WaitGroup
	g := NewGenerator(testSeed)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want.Cells, g.Biomes(a).Cells)
		}()
	}
	wg.Wait()
}

func TestVoronoiStaysNearBlock(t *testing.T) {
	var v voronoi
	v.start = layerStart(testSeed, voronoiSalt)
	for x := int64(-20); x < 20; x++ {
		for z := int64(-20); z < 20; z++ {
			px, pz := v.cell(x, z)
			assert.Contains(t, []int64{(x - 2) >> 2, (x-2)>>2 + 1}, px)
			assert.Contains(t, []int64{(z - 2) >> 2, (z-2)>>2 + 1}, pz)
		}
	}
}

func TestModeOrRandom(t *testing.T) {
	r := newCellRand(layerStart(1, 1))
	r.at(0, 0)
	assert.Equal(t, int32(5), r.modeOrRandom(1, 5, 5, 5))
	assert.Equal(t, int32(1), r.modeOrRandom(1, 1, 2, 3))
	assert.Equal(t, int32(2), r.modeOrRandom(1, 2, 2, 3))
	assert.Contains(t, []int32{1, 2, 3, 4}, r.modeOrRandom(1, 2, 3, 4))
}

func TestEqualOrPlateau(t *testing.T) {
	assert.True(t, equalOrPlateau(WoodedBadlandsPlateau, BadlandsPlateau))
	assert.False(t, equalOrPlateau(WoodedBadlandsPlateau, Badlands))
	assert.True(t, equalOrPlateau(Badlands, WoodedBadlandsPlateau))
	assert.True(t, equalOrPlateau(Forest, BirchForest))
	assert.False(t, equalOrPlateau(Forest, Taiga))
	assert.True(t, equalOrPlateau(TallBirchForest, Forest))
	assert.False(t, equalOrPlateau(Forest, TallBirchForest))
	assert.False(t, equalOrPlateau(-1, Forest))
}

func TestShore(t *testing.T) {
	land := func(c, n int32) window {
		return window{v10: n, v21: Plains, v01: Plains, v12: Plains, v11: c}
	}
	w := land(Plains, Ocean)
	assert.Equal(t, Beach, shore(nil, 0, 0, &w))
	w = land(SnowyTundra, Ocean)
	assert.Equal(t, SnowyBeach, shore(nil, 0, 0, &w))
	w = land(Mountains, Ocean)
	assert.Equal(t, StoneShore, shore(nil, 0, 0, &w))
	w = land(Swamp, Ocean)
	assert.Equal(t, Swamp, shore(nil, 0, 0, &w))
	w = land(Jungle, Forest)
	assert.Equal(t, JungleEdge, shore(nil, 0, 0, &w))
	w = land(Badlands, Plains)
	assert.Equal(t, Desert, shore(nil, 0, 0, &w))
	w = land(MushroomFields, Ocean)
	assert.Equal(t, MushroomFieldShore, shore(nil, 0, 0, &w))
}

func TestMixRiver(t *testing.T) {
	assert.Equal(t, River, mixRiver(Plains, River))
	assert.Equal(t, FrozenRiver, mixRiver(SnowyTundra, River))
	assert.Equal(t, DeepOcean, mixRiver(DeepOcean, River))
	assert.Equal(t, Plains, mixRiver(Plains, noRiver))
}

func TestParse(t *testing.T) {
	id, err := Parse("Snowy Tundra")
	require.NoError(t, err)
	assert.Equal(t, SnowyTundra, id)
	id, err = Parse("129")
	require.NoError(t, err)
	assert.Equal(t, SunflowerPlains, id)
	_, err = Parse("lava_lake")
	assert.Error(t, err)
	_, err = Parse("128")
	assert.Error(t, err)
	assert.Equal(t, "desert", Name(Desert))
	assert.Equal(t, "biome(200)", Name(200))
}

func TestOverworld(t *testing.T) {
	assert.True(t, Overworld(River))
	assert.True(t, Overworld(WarmOcean))
	assert.False(t, Overworld(Nether))
	assert.False(t, Overworld(EndHighlands))
	assert.False(t, Overworld(TheVoid))
	assert.False(t, Overworld(128))
	assert.False(t, Overworld(-1))
	assert.Equal(t, Ocean, Fold(DeepFrozenOcean))
	assert.Equal(t, Beach, Fold(Beach))
}

func TestImage(t *testing.T) {
	m := NewMap(Area{W: 3, H: 2})
	m.Cells = []int32{Ocean, Plains, SunflowerPlains, River, 200, DeepOcean}
	img := m.Image(2)
	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
	assert.Equal(t, palette[Plains], img.RGBAAt(2, 0))
	assert.Equal(t, Color(SunflowerPlains), img.RGBAAt(5, 1))
	assert.NotEqual(t, palette[Plains], Color(SunflowerPlains))
	assert.Equal(t, unknownBiomeColor, img.RGBAAt(2, 3))
}
