package search

import "github.com/Robotino04/Thera-Engine/internal/eval"

// EvalKind records how a transposition-table entry's evaluation relates to
// the true value of the node it was stored from.
type EvalKind uint8

const (
	// Exact means the stored evaluation is the node's true value.
	Exact EvalKind = iota
	// LowerBound means the true value is at least the stored evaluation
	// (search failed high / was pruned by a beta cutoff).
	LowerBound
	// UpperBound means the true value is at most the stored evaluation
	// (no move raised alpha).
	UpperBound
)

// WindowUpdate reports what happened to the window's best-so-far value
// after a candidate evaluation was folded in via Update.
type WindowUpdate uint8

const (
	// NoImprovement means eval did not beat the window's current best.
	NoImprovement WindowUpdate = iota
	// NewBest means eval became the new best, without causing a cutoff.
	NewBest
	// Prune means eval both became the new best and is high enough to
	// cause a beta cutoff — the caller must stop searching siblings.
	Prune
)

// NodeEvalSummary is what a finished node reports to its caller: the
// value to propagate up, its bound kind for the transposition table, and
// the ply depth it was computed at (for mate-distance normalization).
type NodeEvalSummary struct {
	Eval  eval.Evaluation
	Kind  EvalKind
	Plies uint32
}

// AlphaBetaWindow tracks one search node's alpha/beta bounds and its best
// evaluation seen so far. It intentionally has no Copy/Clone method:
// accidentally copying a window mid-search silently detaches updates from
// the node that owns it, which is exactly the class of bug this type
// exists to prevent.
type AlphaBetaWindow struct {
	startingAlpha eval.Evaluation
	alpha         eval.Evaluation
	beta          eval.Evaluation
	best          eval.Evaluation
	plies         uint32
}

// NewWindow builds a window for a node at the given ply depth (0 at the
// search root, incrementing by one per NextDepth call).
func NewWindow(alpha, beta eval.Evaluation, plies uint32) *AlphaBetaWindow {
	if beta.Less(alpha) {
		panic("search: alpha must not exceed beta")
	}
	return &AlphaBetaWindow{
		alpha:         alpha,
		startingAlpha: alpha,
		beta:          beta,
		best:          eval.Min,
		plies:         plies,
	}
}

// RootWindow returns the full [Min, Max] window for the search root.
func RootWindow() *AlphaBetaWindow {
	return NewWindow(eval.Min, eval.Max, 0)
}

// Update folds a freshly computed child evaluation into the window. The
// caller must act on the returned WindowUpdate: Prune means stop
// generating and searching further siblings at this node.
func (w *AlphaBetaWindow) Update(e eval.Evaluation) WindowUpdate {
	if w.alpha.Less(e) {
		w.alpha = e
	}
	if w.best.Less(e) {
		w.best = e
		if w.hasCutoff() {
			return Prune
		}
		return NewBest
	}
	return NoImprovement
}

// NextDepth returns the negated, ply-incremented window a recursive call
// one ply deeper should search with.
func (w *AlphaBetaWindow) NextDepth() *AlphaBetaWindow {
	return NewWindow(w.beta.Negate(), w.alpha.Negate(), w.plies+1)
}

// SetExact finalizes a terminal node (checkmate, stalemate, draw) whose
// value is known exactly rather than bounded by a search.
func (w *AlphaBetaWindow) SetExact(e eval.Evaluation) NodeEvalSummary {
	return NodeEvalSummary{Eval: e, Kind: Exact, Plies: w.plies}
}

// CausesCutoff reports whether e is high enough to cause a beta cutoff.
func (w *AlphaBetaWindow) CausesCutoff(e eval.Evaluation) bool {
	return !e.Less(w.beta)
}

func (w *AlphaBetaWindow) hasCutoff() bool {
	return w.CausesCutoff(w.best)
}

// FailsLow reports whether e is at or below alpha (the move did not help).
func (w *AlphaBetaWindow) FailsLow(e eval.Evaluation) bool {
	return !w.alpha.Less(e)
}

// Plies returns the window's distance from the search root.
func (w *AlphaBetaWindow) Plies() uint32 { return w.plies }

// Alpha returns the current alpha bound (after any Update calls so far).
func (w *AlphaBetaWindow) Alpha() eval.Evaluation { return w.alpha }

// Finalize closes out a searched node after its move loop, whether the
// loop examined every move or stopped on a cutoff, and classifies its
// bound kind from how best compares to the original alpha/beta.
func (w *AlphaBetaWindow) Finalize() NodeEvalSummary {
	kind := Exact
	if !w.startingAlpha.Less(w.best) {
		kind = UpperBound
	} else if !w.best.Less(w.beta) {
		kind = LowerBound
	}
	return NodeEvalSummary{Eval: w.best, Kind: kind, Plies: w.plies}
}
