// Go implementation of Java random
// Not safe for concurrent use
package javarand

const (
	Multiplier = 0x5DEECE66D
	Increment  = 0xB

	// inverse of Multiplier mod 2^48
	inverseMultiplier = 0xDFE05BCB1365

	Mask48 = (1 << 48) - 1
)

type Random struct {
	seed int64
}

func New(seed int64) Random {
	return Random{Scramble(seed)}
}

// NewRaw returns a generator whose internal state is exactly state, skipping the
// initial scramble done by New.
func NewRaw(state int64) Random {
	return Random{state & Mask48}
}

// Scramble is the transformation setSeed applies to a seed. Bits above 48 are
// discarded here, which is why every generator seeded this way only depends on
// the low 48 bits of its seed.
func Scramble(seed int64) int64 {
	return (seed ^ Multiplier) & Mask48
}

func (r *Random) SetSeed(seed int64) {
	r.seed = Scramble(seed)
}

// State returns the raw 48-bit internal state.
func (r *Random) State() int64 {
	return r.seed
}

func (r *Random) Next(bits int) int32 {
	r.seed = (r.seed*Multiplier + Increment) & Mask48
	return int32(r.seed >> (48 - bits))
}

// Previous rewinds the generator by one call to Next.
func (r *Random) Previous() {
	r.seed = PreviousState(r.seed)
}

func PreviousState(state int64) int64 {
	return ((state - Increment) * inverseMultiplier) & Mask48
}

// NextInt returns a value in [0, n), consuming exactly the draws Java does.
func (r *Random) NextInt(n int32) int32 {
	if n <= 0 {
		panic("javarand: bound must be positive")
	}
	if n&-n == n {
		return int32((int64(n) * int64(r.Next(31))) >> 31)
	}

	var bits, val int32
	for {
		bits = r.Next(31)
		val = bits % n
		// int32 overflow here marks a draw from the biased tail
		if bits-val+(n-1) >= 0 {
			return val
		}
	}
}

func (r *Random) NextInt32() int32 {
	return r.Next(32)
}

func (r *Random) NextLong() int64 {
	hi := int64(r.Next(32))
	lo := int64(r.Next(32))
	return (hi << 32) + lo
}

func (r *Random) NextBool() bool {
	return r.Next(1) != 0
}

func (r *Random) NextFloat() float32 {
	return float32(r.Next(24)) / float32(1<<24)
}

func (r *Random) NextDouble() float64 {
	hi := int64(r.Next(26)) << 27
	lo := int64(r.Next(27))
	return float64(hi+lo) / float64(uint64(1)<<53)
}
