package javarand

// ExtendLong48 lists every value nextLong() can return whose low 48 bits equal
// low48. A world created without an explicit seed takes its seed from
// nextLong(), so this narrows the 2^16 possible upper halves down to at most a
// couple of candidates.
//
// nextLong() is (i0 << 32) + i1 for two consecutive 32-bit draws. The low 32
// bits of the result pin i1, which is the top 32 bits of the second state, so
// only its low 16 bits are unknown. For each guess the previous state is
// recovered and checked against the low 16 bits of i0.
func ExtendLong48(low48 int64) []int64 {
	low48 &= Mask48
	i0 := uint16((low48 >> 32) + ((low48 >> 31) & 1))
	i1 := uint32(low48)
	hi := (int64(i1) << 16) & Mask48

	var seeds []int64
	for k := int64(0); k < 1<<16; k++ {
		state := hi | k
		if !verifyPrevious16(state, i0) {
			continue
		}
		r := NewRaw(state)
		r.Previous()
		r.Previous()
		seeds = append(seeds, r.NextLong())
	}
	return seeds
}

// verifyPrevious16 reports whether the state before state can have target as
// bits 16..31, given the low 16 bits it must have had.
func verifyPrevious16(state int64, target uint16) bool {
	p1 := uint32(uint16(PreviousState(state)))
	p := uint32(target)<<16 | p1
	p2 := p*uint32(Multiplier&0xFFFFFFFF) + uint32(Increment)
	return p2 == uint32(state)
}
