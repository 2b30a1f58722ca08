package seedfinder

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Searcher interface {
	Search(ctx context.Context, set *ObservationSet, cfg Config) (*Report, error)
}

// SearchRange is the half-open interval [Lo, Hi), over seeds or over indices
// into a previous stage's survivors. Hi cannot exceed 2^64-1, so seed 2^64-1
// (-1 signed) lies outside every range and full-width searches never test it.
type SearchRange struct {
	Lo, Hi uint64
}

func (r SearchRange) Len() uint64 {
	if r.Hi <= r.Lo {
		return 0
	}
	return r.Hi - r.Lo
}

func (r SearchRange) String() string {
	return fmt.Sprintf("[%#x, %#x)", r.Lo, r.Hi)
}

// Partition splits r into at most n contiguous ranges of near-equal length
// that cover r exactly.
func (r SearchRange) Partition(n int) []SearchRange {
	size := r.Len()
	if n <= 0 || size == 0 {
		return nil
	}
	if uint64(n) > size {
		n = int(size)
	}
	parts := make([]SearchRange, 0, n)
	step, rem := size/uint64(n), size%uint64(n)
	lo := r.Lo
	for i := 0; i < n; i++ {
		hi := lo + step
		if uint64(i) < rem {
			hi++
		}
		parts = append(parts, SearchRange{lo, hi})
		lo = hi
	}
	return parts
}

// ExtensionMode selects how 48-bit survivors become 64-bit candidates.
type ExtensionMode uint8

const (
	// ExtendHighBits tries all 2^16 upper halves.
	ExtendHighBits ExtensionMode = iota
	// ExtendNextLong only tries seeds java.util.Random.nextLong can return,
	// which covers every world created without a typed-in seed.
	ExtendNextLong
)

func (m ExtensionMode) String() string {
	switch m {
	case ExtendHighBits:
		return "high-bits"
	case ExtendNextLong:
		return "next-long"
	}
	return fmt.Sprintf("ExtensionMode(%d)", m)
}

func ParseExtensionMode(name string) (ExtensionMode, error) {
	switch strings.ToLower(name) {
	case "high-bits", "highbits", "all", "":
		return ExtendHighBits, nil
	case "next-long", "nextlong", "random":
		return ExtendNextLong, nil
	}
	return 0, fmt.Errorf("unknown extension mode %q", name)
}

// Config controls one search.
type Config struct {
	// BitWidth of the answer; 0 uses the set's RequiredBitWidth.
	BitWidth BitWidth
	// Workers is the number of parallel scanners, at least 1.
	Workers int
	// Range bounds the scanned seeds. Nil scans [0, 2^48) for the legacy
	// stage; a search with only full-width observations requires it.
	Range *SearchRange
	// Extension is used by the second stage of a 64-bit search.
	Extension ExtensionMode
	// ProgressInterval bounds the progress event rate; 0 means one per second.
	ProgressInterval time.Duration
	OnProgress       func(Progress)
}

type Stage uint8

const (
	StageLegacy Stage = iota + 1
	StageExtend
	StageFull
)

func (s Stage) String() string {
	switch s {
	case StageLegacy:
		return "legacy48"
	case StageExtend:
		return "extend64"
	case StageFull:
		return "full64"
	}
	return fmt.Sprintf("Stage(%d)", s)
}

type Progress struct {
	Stage    Stage
	Fraction float64
	Scanned  uint64
	Total    uint64
	Elapsed  time.Duration
}

type StageReport struct {
	Stage     Stage
	Range     SearchRange
	Scanned   uint64
	Survivors int
	Elapsed   time.Duration
}

type Report struct {
	RunID   string
	Results []CandidateResult
	// Legacy holds the 48-bit survivors a two-stage search extended.
	Legacy    []CandidateResult
	Cancelled bool
	Stages    []StageReport
	Elapsed   time.Duration
}

// Seeds lists the result seeds in order.
func (r *Report) Seeds() []Seed {
	seeds := make([]Seed, len(r.Results))
	for i, res := range r.Results {
		seeds[i] = res.Seed
	}
	return seeds
}
