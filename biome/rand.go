package biome

// The layered generator uses its own 64-bit LCG, seeded from the full world
// seed rather than java.util.Random's 48 bits.
const (
	layerMultiplier = 6364136223846793005
	layerIncrement  = 1442695040888963407
)

func stepSeed(s, salt int64) int64 {
	return s*(s*layerMultiplier+layerIncrement) + salt
}

// layerSalt scrambles a layer's base salt.
func layerSalt(salt int64) int64 {
	ls := stepSeed(salt, salt)
	ls = stepSeed(ls, salt)
	return stepSeed(ls, salt)
}

// layerStart mixes the world seed with a layer's salt, as done once per layer
// when the generator is initialised.
func layerStart(world, salt int64) int64 {
	ls := layerSalt(salt)
	st := stepSeed(world, ls)
	st = stepSeed(st, ls)
	return stepSeed(st, ls)
}

func cellSeed(start int64, x, z int64) int64 {
	cs := stepSeed(start, x)
	cs = stepSeed(cs, z)
	cs = stepSeed(cs, x)
	return stepSeed(cs, z)
}

// cellRand is the per-cell random source of one layer.
type cellRand struct {
	start, cs int64
}

func newCellRand(start int64) cellRand {
	return cellRand{start: start}
}

func (r *cellRand) at(x, z int64) {
	r.cs = cellSeed(r.start, x, z)
}

func (r *cellRand) nextInt(n int64) int32 {
	v := (r.cs >> 24) % n
	if v < 0 {
		v += n
	}
	r.cs = stepSeed(r.cs, r.start)
	return int32(v)
}

func (r *cellRand) choose2(a, b int32) int32 {
	if r.nextInt(2) == 0 {
		return a
	}
	return b
}

func (r *cellRand) choose4(a, b, c, d int32) int32 {
	switch r.nextInt(4) {
	case 0:
		return a
	case 1:
		return b
	case 2:
		return c
	}
	return d
}

// modeOrRandom returns the value shared by most of the four cells, or a
// random one when there is no majority.
func (r *cellRand) modeOrRandom(a, b, c, d int32) int32 {
	switch {
	case b == c && c == d:
		return b
	case a == b && a == c:
		return a
	case a == b && a == d:
		return a
	case a == c && a == d:
		return a
	case a == b && c != d:
		return a
	case a == c && b != d:
		return a
	case a == d && b != c:
		return a
	case b == c && a != d:
		return b
	case b == d && a != c:
		return b
	case c == d && a != b:
		return c
	}
	return r.choose4(a, b, c, d)
}
