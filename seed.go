package seedfinder

import "strconv"

// Seed is a world seed. Ordering and ranges use the unsigned value; String
// prints the signed form the game shows.
type Seed uint64

const Mask48 = (1 << 48) - 1

type BitWidth uint8

const (
	Width48 BitWidth = 48
	Width64 BitWidth = 64
)

func (w BitWidth) Valid() bool {
	return w == Width48 || w == Width64
}

// Size returns the number of seeds addressable with w bits. It saturates at
// 2^64-1 for Width64, so SearchRange{0, Width64.Size()} stops one short of
// the last seed: -1 as the game prints it.
func (w BitWidth) Size() uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return 1 << w
}

func (s Seed) Low48() Seed {
	return s & Mask48
}

func (s Seed) Int64() int64 {
	return int64(s)
}

func (s Seed) String() string {
	return strconv.FormatInt(int64(s), 10)
}

// WithHigh16 returns s with its top 16 bits replaced by hi.
func (s Seed) WithHigh16(hi uint16) Seed {
	return Seed(uint64(hi)<<48) | s.Low48()
}

// ParseSeed accepts signed or unsigned decimal, or 0x-prefixed hex.
func ParseSeed(text string) (Seed, error) {
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return Seed(i), nil
	}
	u, err := strconv.ParseUint(text, 0, 64)
	if err != nil {
		return 0, err
	}
	return Seed(u), nil
}
