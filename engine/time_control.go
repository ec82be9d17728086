// time_control.go implements the manager's thinking-time budget: a
// wall-clock deadline derived from the UCI clock fields, or a fixed
// move time, polled cooperatively by every search worker.
//
// Grounded on the teacher's engine/time_control.go (branch-factor-scaled
// thinking time, an atomic stopped flag, NextDepth gating at least one
// iteration so a move is always available). The expanded spec's time
// formula (my_time/28 + my_inc/2, floored at 20ms, movetime wins
// outright) replaces the teacher's branch-factor/movesToGo heuristic,
// which is tuned for a different move-count assumption than spec.md §6
// specifies.
package engine

import (
	"sync/atomic"
	"time"
)

const (
	minThinkTime  = 20 * time.Millisecond
	timeDivisor   = 28
	maxSearchDepthLimit = 64
)

// Limits describes a `go` command's search bounds. Zero Depth/MoveTime
// with zero clocks means search until externally stopped (infinite).
type Limits struct {
	WTime, WInc time.Duration
	BTime, BInc time.Duration
	MoveTime    time.Duration
	Depth       int
	Infinite    bool
	Ponder      bool
}

// TimeControl turns a Limits into a wall-clock deadline and tracks
// whether the search has been asked to stop.
type TimeControl struct {
	deadline time.Time
	hasClock bool
	depth    int
	stopped  atomic.Bool
}

// NewTimeControl computes the thinking-time deadline per spec.md §6:
// `movetime` wins outright if present; otherwise, when clocks are
// supplied, `time_to_think = my_time/28 + my_inc/2`, floored at 20ms.
// With neither, the search is depth- or externally-bounded only.
func NewTimeControl(limits Limits, us Color) *TimeControl {
	tc := &TimeControl{depth: limits.Depth}
	if tc.depth <= 0 || tc.depth > maxSearchDepthLimit {
		tc.depth = maxSearchDepthLimit
	}

	switch {
	case limits.MoveTime > 0:
		tc.deadline = time.Now().Add(limits.MoveTime)
		tc.hasClock = true
	case limits.WTime > 0 || limits.BTime > 0:
		myTime, myInc := limits.WTime, limits.WInc
		if us == Black {
			myTime, myInc = limits.BTime, limits.BInc
		}
		think := myTime/timeDivisor + myInc/2
		if think < minThinkTime {
			think = minThinkTime
		}
		if think > myTime && myTime > 0 {
			think = myTime
		}
		tc.deadline = time.Now().Add(think)
		tc.hasClock = true
	}
	return tc
}

// Depth returns the maximum depth this search may reach.
func (tc *TimeControl) Depth() int { return tc.depth }

// Expired reports whether the deadline (if any) has passed.
func (tc *TimeControl) Expired() bool {
	if !tc.hasClock {
		return false
	}
	return time.Now().After(tc.deadline)
}

// Stop marks the search as externally stopped (UCI `stop`).
func (tc *TimeControl) Stop() { tc.stopped.Store(true) }

// Stopped reports whether the search has been stopped, either
// externally or because the deadline passed.
func (tc *TimeControl) Stopped() bool {
	return tc.stopped.Load() || tc.Expired()
}
