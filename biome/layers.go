package biome

// layer produces one stage of the generator over an area in its own scale.
// Layers hold no mutable state, so one chain can serve many goroutines.
type layer interface {
	generate(a Area) *Map
}

// The first few layers use these values instead of biome ids.
const (
	climateWarm     = 1
	climateLush     = 2
	climateCold     = 3
	climateFreezing = 4

	specialMask = 0xf00
)

// island is the root layer: one cell in ten is land, and the origin always is.
type island struct {
	start int64
}

func (l *island) generate(a Area) *Map {
	m := NewMap(a)
	r := newCellRand(l.start)
	for j := 0; j < a.H; j++ {
		for i := 0; i < a.W; i++ {
			x, z := a.X+int64(i), a.Z+int64(j)
			if x == 0 && z == 0 {
				m.set(i, j, 1)
				continue
			}
			r.at(x, z)
			if r.nextInt(10) == 0 {
				m.set(i, j, 1)
			}
		}
	}
	return m
}

// zoom doubles the resolution of its parent, picking each new cell from the
// parent cells around it.
type zoom struct {
	parent layer
	start  int64
	fuzzy  bool
}

func (l *zoom) generate(a Area) *Map {
	pa := Area{X: a.X >> 1, Z: a.Z >> 1, W: a.W>>1 + 2, H: a.H>>1 + 2}
	pm := l.parent.generate(pa)

	full := NewMap(Area{X: pa.X << 1, Z: pa.Z << 1, W: (pa.W - 1) << 1, H: (pa.H - 1) << 1})
	r := newCellRand(l.start)
	for j := 0; j < pa.H-1; j++ {
		for i := 0; i < pa.W-1; i++ {
			v00 := pm.get(i, j)
			v10 := pm.get(i+1, j)
			v01 := pm.get(i, j+1)
			v11 := pm.get(i+1, j+1)
			oi, oj := i<<1, j<<1

			if v00 == v10 && v00 == v01 && v00 == v11 {
				full.set(oi, oj, v00)
				full.set(oi, oj+1, v00)
				full.set(oi+1, oj, v00)
				full.set(oi+1, oj+1, v00)
				continue
			}

			r.at((pa.X+int64(i))<<1, (pa.Z+int64(j))<<1)
			full.set(oi, oj, v00)
			full.set(oi, oj+1, r.choose2(v00, v01))
			full.set(oi+1, oj, r.choose2(v00, v10))
			if l.fuzzy {
				full.set(oi+1, oj+1, r.choose4(v00, v10, v01, v11))
			} else {
				full.set(oi+1, oj+1, r.modeOrRandom(v00, v10, v01, v11))
			}
		}
	}
	return full.crop(a)
}

// window is a cell and its eight neighbours. The first digit is the x offset
// and the second the z offset, so v10 is north and v21 east.
type window struct {
	v00, v10, v20 int32
	v01, v11, v21 int32
	v02, v12, v22 int32
}

func (w *window) cross() [4]int32 {
	return [4]int32{w.v10, w.v21, w.v01, w.v12}
}

func (w *window) diagonals() [4]int32 {
	return [4]int32{w.v00, w.v20, w.v02, w.v22}
}

func readWindow(m *Map, i, j int) window {
	return window{
		m.get(i, j), m.get(i+1, j), m.get(i+2, j),
		m.get(i, j+1), m.get(i+1, j+1), m.get(i+2, j+1),
		m.get(i, j+2), m.get(i+1, j+2), m.get(i+2, j+2),
	}
}

type windowFunc func(r *cellRand, x, z int64, w *window) int32

// margin is a layer whose cells depend on the parent cell at the same
// position and on its neighbours.
type margin struct {
	parent layer
	start  int64
	f      windowFunc
}

func (l *margin) generate(a Area) *Map {
	pm := l.parent.generate(Area{X: a.X - 1, Z: a.Z - 1, W: a.W + 2, H: a.H + 2})
	m := NewMap(a)
	r := newCellRand(l.start)
	for j := 0; j < a.H; j++ {
		for i := 0; i < a.W; i++ {
			w := readWindow(pm, i, j)
			m.set(i, j, l.f(&r, a.X+int64(i), a.Z+int64(j), &w))
		}
	}
	return m
}

type cellFunc func(r *cellRand, x, z int64, v int32) int32

// pointwise is a layer whose cells depend only on the parent cell at the same
// position.
type pointwise struct {
	parent layer
	start  int64
	f      cellFunc
}

func (l *pointwise) generate(a Area) *Map {
	m := l.parent.generate(a)
	out := NewMap(a)
	r := newCellRand(l.start)
	for j := 0; j < a.H; j++ {
		for i := 0; i < a.W; i++ {
			out.set(i, j, l.f(&r, a.X+int64(i), a.Z+int64(j), m.get(i, j)))
		}
	}
	return out
}

func addIsland(r *cellRand, x, z int64, w *window) int32 {
	diag := w.diagonals()
	switch {
	case w.v11 == 0 && anyOf(diag, func(v int32) bool { return v != 0 }):
		r.at(x, z)
		v, inc := int32(1), int64(1)
		for _, d := range diag {
			if d == 0 {
				continue
			}
			if r.nextInt(inc) == 0 {
				v = d
			}
			inc++
		}
		if r.nextInt(3) == 0 {
			return v
		}
		if v == climateFreezing {
			return climateFreezing
		}
		return 0
	case w.v11 > 0 && anyOf(diag, func(v int32) bool { return v == 0 }):
		r.at(x, z)
		if r.nextInt(5) == 0 {
			if w.v11 == climateFreezing {
				return climateFreezing
			}
			return 0
		}
	}
	return w.v11
}

func removeTooMuchOcean(r *cellRand, x, z int64, w *window) int32 {
	if w.v11 == 0 && allOf(w.cross(), func(v int32) bool { return v == 0 }) {
		r.at(x, z)
		if r.nextInt(2) == 0 {
			return 1
		}
	}
	return w.v11
}

func addSnow(r *cellRand, x, z int64, w *window) int32 {
	if w.v11 == 0 {
		return 0
	}
	r.at(x, z)
	switch r.nextInt(6) {
	case 0:
		return climateFreezing
	case 1:
		return climateCold
	}
	return climateWarm
}

func coolWarm(_ *cellRand, _, _ int64, w *window) int32 {
	if w.v11 == climateWarm && anyOf(w.cross(), func(v int32) bool { return v == climateCold || v == climateFreezing }) {
		return climateLush
	}
	return w.v11
}

func heatIce(_ *cellRand, _, _ int64, w *window) int32 {
	if w.v11 == climateFreezing && anyOf(w.cross(), func(v int32) bool { return v == climateWarm || v == climateLush }) {
		return climateCold
	}
	return w.v11
}

// special marks one land cell in thirteen with a random tag in bits 8-11,
// which later turns into a rare biome.
func special(r *cellRand, x, z int64, v int32) int32 {
	if v != 0 {
		r.at(x, z)
		if r.nextInt(13) == 0 {
			v |= (1 + r.nextInt(15)) << 8 & specialMask
		}
	}
	return v
}

func addMushroom(r *cellRand, x, z int64, w *window) int32 {
	if w.v11 == 0 && allOf(w.diagonals(), func(v int32) bool { return v == 0 }) {
		r.at(x, z)
		if r.nextInt(100) == 0 {
			return MushroomFields
		}
	}
	return w.v11
}

func deepOcean(_ *cellRand, _, _ int64, w *window) int32 {
	if w.v11 == 0 && allOf(w.cross(), func(v int32) bool { return v == 0 }) {
		return DeepOcean
	}
	return w.v11
}

var (
	warmBiomes = [...]ID{Desert, Desert, Desert, Savanna, Savanna, Plains}
	lushBiomes = [...]ID{Forest, DarkForest, Mountains, Plains, BirchForest, Swamp}
	coldBiomes = [...]ID{Forest, Mountains, Taiga, Plains}
	snowBiomes = [...]ID{SnowyTundra, SnowyTundra, SnowyTundra, SnowyTaiga}
)

// pickBiome turns climate values into biomes.
func pickBiome(r *cellRand, x, z int64, v int32) int32 {
	rare := v&specialMask != 0
	id := v &^ specialMask
	if categoryOf(id) == catOcean || id == MushroomFields {
		return id
	}
	r.at(x, z)
	switch id {
	case climateWarm:
		if rare {
			if r.nextInt(3) == 0 {
				return BadlandsPlateau
			}
			return WoodedBadlandsPlateau
		}
		return warmBiomes[r.nextInt(6)]
	case climateLush:
		if rare {
			return Jungle
		}
		return lushBiomes[r.nextInt(6)]
	case climateCold:
		if rare {
			return GiantTreeTaiga
		}
		return coldBiomes[r.nextInt(4)]
	case climateFreezing:
		return snowBiomes[r.nextInt(4)]
	}
	return MushroomFields
}

// equalOrPlateau reports whether the generator treats a and b as the same
// kind of biome. It is not symmetric for some mutated biomes.
func equalOrPlateau(a, b ID) bool {
	if a == b {
		return true
	}
	if a == WoodedBadlandsPlateau || a == BadlandsPlateau {
		return b == WoodedBadlandsPlateau || b == BadlandsPlateau
	}
	if !Exists(a) || !Exists(b) {
		return false
	}
	if a >= mutation || b >= mutation {
		switch b {
		case DesertLakes, TaigaMountains, SwampHills, ModifiedJungle, ModifiedJungleEdge,
			TallBirchForest, TallBirchHills, DarkForestHills, SnowyTaigaMountains,
			ShatteredSavanna, ShatteredSavannaPlateau:
			return false
		}
	}
	return categoryOf(a) == categoryOf(b)
}

// replaceEdge handles a biome that must be surrounded by its own kind,
// returning edge otherwise. ok is false when v is not base.
func replaceEdge(w *window, base, edge ID) (v int32, ok bool) {
	if w.v11 != base {
		return 0, false
	}
	if allOf(w.cross(), func(n int32) bool { return equalOrPlateau(n, base) }) {
		return w.v11, true
	}
	return edge, true
}

func biomeEdge(_ *cellRand, _, _ int64, w *window) int32 {
	if v, ok := replaceEdge(w, WoodedBadlandsPlateau, Badlands); ok {
		return v
	}
	if v, ok := replaceEdge(w, BadlandsPlateau, Badlands); ok {
		return v
	}
	if v, ok := replaceEdge(w, GiantTreeTaiga, Taiga); ok {
		return v
	}
	cross := w.cross()
	switch w.v11 {
	case Desert:
		if anyOf(cross, func(n int32) bool { return n == SnowyTundra }) {
			return WoodedMountains
		}
	case Swamp:
		if anyOf(cross, func(n int32) bool { return n == Desert || n == SnowyTaiga || n == SnowyTundra }) {
			return Plains
		}
		if anyOf(cross, func(n int32) bool { return n == Jungle }) {
			return JungleEdge
		}
	}
	return w.v11
}

// riverInit gives every land cell a large random number. Rivers later form
// where neighbouring numbers differ in parity.
func riverInit(r *cellRand, x, z int64, v int32) int32 {
	if v <= 0 {
		return 0
	}
	r.at(x, z)
	return r.nextInt(299999) + 2
}

// hills raises a biome to its hilly variant where the river noise says so and
// enough neighbours agree.
type hills struct {
	biomes, noise layer
	start         int64
}

func (l *hills) generate(a Area) *Map {
	pa := Area{X: a.X - 1, Z: a.Z - 1, W: a.W + 2, H: a.H + 2}
	bm := l.biomes.generate(pa)
	nm := l.noise.generate(pa)
	m := NewMap(a)
	r := newCellRand(l.start)
	for j := 0; j < a.H; j++ {
		for i := 0; i < a.W; i++ {
			r.at(a.X+int64(i), a.Z+int64(j))
			w := readWindow(bm, i, j)
			m.set(i, j, hillAt(&r, &w, nm.get(i+1, j+1)))
		}
	}
	return m
}

func hillAt(r *cellRand, w *window, noise int32) int32 {
	a11 := w.v11
	tagged := (noise-2)%29 == 0

	if a11 != 0 && noise >= 2 && (noise-2)%29 == 1 && a11 < mutation {
		if Exists(a11 + mutation) {
			return a11 + mutation
		}
		return a11
	}
	if r.nextInt(3) != 0 && !tagged {
		return a11
	}

	hill := a11
	switch a11 {
	case Desert:
		hill = DesertHills
	case Forest:
		hill = WoodedHills
	case BirchForest:
		hill = BirchForestHills
	case DarkForest:
		hill = Plains
	case Taiga:
		hill = TaigaHills
	case GiantTreeTaiga:
		hill = GiantTreeTaigaHills
	case SnowyTaiga:
		hill = SnowyTaigaHills
	case Plains:
		if r.nextInt(3) == 0 {
			hill = WoodedHills
		} else {
			hill = Forest
		}
	case SnowyTundra:
		hill = SnowyMountains
	case Jungle:
		hill = JungleHills
	case Ocean:
		hill = DeepOcean
	case Mountains:
		hill = WoodedMountains
	case Savanna:
		hill = SavannaPlateau
	default:
		switch {
		case equalOrPlateau(a11, WoodedBadlandsPlateau):
			hill = Badlands
		case deepOceanic(a11) && r.nextInt(3) == 0:
			if r.nextInt(2) == 0 {
				hill = Plains
			} else {
				hill = Forest
			}
		}
	}

	if tagged && hill != a11 {
		if Exists(hill + mutation) {
			hill += mutation
		} else {
			hill = a11
		}
	}
	if hill == a11 {
		return a11
	}

	equal := 0
	for _, n := range w.cross() {
		if equalOrPlateau(n, a11) {
			equal++
		}
	}
	if equal >= 3 {
		return hill
	}
	return a11
}

func deepOceanic(id ID) bool {
	switch id {
	case DeepOcean, DeepWarmOcean, DeepLukewarmOcean, DeepColdOcean, DeepFrozenOcean:
		return true
	}
	return false
}

func rareBiome(r *cellRand, x, z int64, w *window) int32 {
	r.at(x, z)
	if r.nextInt(57) == 0 && w.v11 == Plains {
		return SunflowerPlains
	}
	return w.v11
}

// jfto reports whether id is a jungle, forest, taiga or ocean biome, the
// neighbours a jungle tolerates without an edge.
func jfto(id ID) bool {
	return Exists(id) && (categoryOf(id) == catJungle || id == Forest || id == Taiga || Oceanic(id))
}

func shore(_ *cellRand, _, _ int64, w *window) int32 {
	v := w.v11
	cross := w.cross()
	nearOcean := anyOf(cross, Oceanic)
	b := v
	if !Exists(b) {
		b = Ocean
	}

	switch {
	case v == MushroomFields:
		if anyOf(cross, func(n int32) bool { return n == Ocean }) {
			return MushroomFieldShore
		}
		return v
	case categoryOf(b) == catJungle:
		if !allOf(cross, jfto) {
			return JungleEdge
		}
		if nearOcean {
			return Beach
		}
		return v
	case v == Mountains || v == WoodedMountains || v == MountainEdge:
		if nearOcean {
			return StoneShore
		}
		return v
	case snowy(b):
		if !Oceanic(v) && nearOcean {
			return SnowyBeach
		}
		return v
	case v == Badlands || v == WoodedBadlandsPlateau:
		if nearOcean {
			return v
		}
		if allOf(cross, func(n int32) bool { return categoryOf(n) == catMesa }) {
			return v
		}
		return Desert
	case v == Ocean || v == DeepOcean || v == River || v == Swamp:
		return v
	}
	if nearOcean {
		return Beach
	}
	return v
}

func smooth(r *cellRand, x, z int64, w *window) int32 {
	horizontal := w.v01 == w.v21
	vertical := w.v10 == w.v12
	switch {
	case horizontal && vertical:
		r.at(x, z)
		if r.nextInt(2) == 0 {
			return w.v01
		}
		return w.v10
	case horizontal:
		return w.v01
	case vertical:
		return w.v10
	}
	return w.v11
}

// reduceRiver folds river noise down to its parity, keeping 0 for ocean.
func reduceRiver(v int32) int32 {
	if v >= 2 {
		return 2 + v&1
	}
	return v
}

// noRiver marks cells of the river layer without a river.
const noRiver = -1

func river(_ *cellRand, _, _ int64, w *window) int32 {
	c := reduceRiver(w.v11)
	if allOf(w.cross(), func(n int32) bool { return reduceRiver(n) == c }) {
		return noRiver
	}
	return River
}

// riverMix carves the river layer into the biome layer.
type riverMix struct {
	biomes, rivers layer
}

func (l *riverMix) generate(a Area) *Map {
	bm := l.biomes.generate(a)
	rm := l.rivers.generate(a)
	m := NewMap(a)
	for k, b := range bm.Cells {
		m.Cells[k] = mixRiver(b, rm.Cells[k])
	}
	return m
}

func mixRiver(b, r int32) int32 {
	if Oceanic(b) || r != River {
		return b
	}
	switch b {
	case SnowyTundra:
		return FrozenRiver
	case MushroomFields, MushroomFieldShore:
		return MushroomFieldShore
	}
	return River
}

func anyOf(vs [4]int32, f func(int32) bool) bool {
	for _, v := range vs {
		if f(v) {
			return true
		}
	}
	return false
}

func allOf(vs [4]int32, f func(int32) bool) bool {
	for _, v := range vs {
		if !f(v) {
			return false
		}
	}
	return true
}
