package search

import (
	"time"

	"github.com/Robotino04/Thera-Engine/internal/board"
)

// Limits mirrors the UCI "go" command's time-control parameters (spec
// §6), reusing the teacher's UCILimits field names and layout.
type Limits struct {
	Time      [2]time.Duration // wtime, btime
	Inc       [2]time.Duration // winc, binc
	MoveTime  time.Duration    // movetime: fixed time for this move
	Depth     int              // depth: maximum search depth, 0 = unlimited
	Nodes     uint64           // nodes: maximum node count, 0 = unlimited
	Infinite  bool             // search until "stop"
}

// Budget is the single time allocation spec §4.10 computes: the mover's
// clock divided by 40 plus their increment, capped by movetime if given.
// There is no stability/instability adjustment, no moves-to-go estimate,
// and no optimum/maximum split — the teacher's timeman.go layers all
// three on top of this same formula, but spec §4.10 stops here.
type Budget struct {
	deadline time.Time
	infinite bool
}

// NewBudget computes the time budget for us to move, starting the clock
// at startTime (passed in rather than taken from time.Now so callers
// control the exact search-start instant used for elapsed-time checks).
func NewBudget(limits Limits, us board.Color, startTime time.Time) *Budget {
	if limits.Infinite {
		return &Budget{infinite: true}
	}

	myTime := limits.Time[us]
	myInc := limits.Inc[us]

	var allotted time.Duration
	haveClock := myTime > 0
	if haveClock {
		allotted = myTime/40 + myInc
	}

	if limits.MoveTime > 0 {
		if haveClock && allotted < limits.MoveTime {
			// keep allotted
		} else {
			allotted = limits.MoveTime
		}
	} else if !haveClock {
		return &Budget{infinite: true}
	}

	return &Budget{deadline: startTime.Add(allotted)}
}

// Expired reports whether the budget has run out as of now.
func (b *Budget) Expired(now time.Time) bool {
	if b.infinite {
		return false
	}
	return !now.Before(b.deadline)
}
