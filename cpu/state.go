package cpu

import (
	"fmt"
	"sync/atomic"
)

// State is the lifecycle of a Run. A run moves forward only:
// Idle, Partitioning, Running, then Completed or Cancelled. A two-stage
// search partitions and runs twice.
type State uint32

const (
	Idle State = iota
	Partitioning
	Running
	Completed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Partitioning:
		return "partitioning"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("State(%d)", uint32(s))
}

// Finished reports whether s is terminal.
func (s State) Finished() bool {
	return s == Completed || s == Cancelled
}

type stateBox struct {
	v atomic.Uint32
}

func (b *stateBox) load() State {
	return State(b.v.Load())
}

func (b *stateBox) store(s State) {
	b.v.Store(uint32(s))
}
