package seedfinder

// CandidateResult is a seed that satisfied every observation it was tested
// against. A Width48 result was only tested by oracles that ignore the upper
// 16 bits, so it stands for all 2^16 seeds sharing its low 48 bits.
type CandidateResult struct {
	Seed    Seed
	Matched int
	Width   BitWidth
}

func (a CandidateResult) OrderBefore(b CandidateResult) bool {
	if a.Seed != b.Seed {
		return a.Seed < b.Seed
	}
	// Then the narrower, more general result first
	return a.Width < b.Width
}

// Covers reports whether s is one of the seeds this result stands for.
func (a CandidateResult) Covers(s Seed) bool {
	if a.Width == Width48 {
		return a.Seed.Low48() == s.Low48()
	}
	return a.Seed == s
}
