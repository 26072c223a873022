// Package eval scores positions and represents search results as a tiered
// Evaluation value rather than a single clamped integer.
package eval

import "fmt"

// CentiPawns is a material/positional score in hundredths of a pawn,
// positive favoring the side it is computed for.
type CentiPawns int32

// PieceValue mirrors board.PieceValue in centipawns; duplicated here
// rather than imported so eval has no reason to reach into board for a
// handful of constants it can state directly.
const (
	PawnValue   CentiPawns = 100
	KnightValue CentiPawns = 320
	BishopValue CentiPawns = 330
	RookValue   CentiPawns = 500
	QueenValue  CentiPawns = 900
)

// Evaluation is a tagged union of the three possible search results: a
// forced win in some number of plies, a forced loss in some number of
// plies, or an ordinary material/positional score. Plies count down as a
// mating sequence gets closer during search and are restored on the way
// back up, matching the mate-distance bookkeeping every engine needs so a
// mate score found deep in the tree still compares correctly against one
// found near the root.
type Evaluation struct {
	kind       evalKind
	plies      uint32
	centiPawns CentiPawns
}

type evalKind uint8

const (
	kindCentiPawns evalKind = iota
	kindWin
	kindLoss
)

// Win constructs a forced-mate-for-us evaluation, winning in the given
// number of plies.
func Win(plies uint32) Evaluation { return Evaluation{kind: kindWin, plies: plies} }

// Loss constructs a forced-mate-against-us evaluation.
func Loss(plies uint32) Evaluation { return Evaluation{kind: kindLoss, plies: plies} }

// Score constructs a plain centipawn evaluation.
func Score(cp CentiPawns) Evaluation { return Evaluation{kind: kindCentiPawns, centiPawns: cp} }

// Max is the best possible evaluation: winning immediately.
var Max = Win(0)

// Min is the worst possible evaluation: losing immediately.
var Min = Loss(0)

// Draw is a neutral, drawn evaluation.
var Draw = Score(0)

// IsWin, IsLoss and IsCentiPawns report which variant an Evaluation holds.
func (e Evaluation) IsWin() bool        { return e.kind == kindWin }
func (e Evaluation) IsLoss() bool       { return e.kind == kindLoss }
func (e Evaluation) IsCentiPawns() bool { return e.kind == kindCentiPawns }

// Plies returns the mate distance for a Win or Loss evaluation. Calling it
// on a CentiPawns evaluation is a programming error.
func (e Evaluation) Plies() uint32 {
	if e.kind == kindCentiPawns {
		panic("eval: Plies called on a CentiPawns evaluation")
	}
	return e.plies
}

// CentiPawnsValue returns the score of a CentiPawns evaluation. Calling it
// on a Win or Loss evaluation is a programming error.
func (e Evaluation) CentiPawnsValue() CentiPawns {
	if e.kind != kindCentiPawns {
		panic("eval: CentiPawnsValue called on a mate evaluation")
	}
	return e.centiPawns
}

// NextBest returns the evaluation one ply closer to the root, from the
// perspective of the side that just received it: a win moves one ply
// sooner, a loss one ply later, a centipawn score gains one point. Used
// when propagating a child's evaluation up through a node that delivered
// mate.
func (e Evaluation) NextBest() Evaluation {
	switch e.kind {
	case kindWin:
		if e.plies == 0 {
			return e
		}
		return Win(e.plies - 1)
	case kindLoss:
		return Loss(e.plies + 1)
	default:
		return Score(e.centiPawns + 1)
	}
}

// NextWorst is the dual of NextBest, used when propagating the
// evaluation one ply further from the root instead.
func (e Evaluation) NextWorst() Evaluation {
	switch e.kind {
	case kindWin:
		return Win(e.plies + 1)
	case kindLoss:
		if e.plies == 0 {
			return e
		}
		return Loss(e.plies - 1)
	default:
		return Score(e.centiPawns - 1)
	}
}

// Negate flips an evaluation to the opponent's perspective: a win for us
// becomes a loss for them at the same distance, and a centipawn score
// flips sign. This is the per-ply negation negamax performs on every
// recursive call.
func (e Evaluation) Negate() Evaluation {
	switch e.kind {
	case kindWin:
		return Loss(e.plies)
	case kindLoss:
		return Win(e.plies)
	default:
		return Score(-e.centiPawns)
	}
}

// Less reports whether e is a strictly worse evaluation than other, using
// the total order: any Win beats any CentiPawns beats any Loss; within a
// tier, an earlier win is better and a later loss is better.
func (e Evaluation) Less(other Evaluation) bool {
	return e.tier() < other.tier() ||
		(e.tier() == other.tier() && e.withinTierLess(other))
}

func (e Evaluation) tier() int {
	switch e.kind {
	case kindLoss:
		return 0
	case kindCentiPawns:
		return 1
	default: // kindWin
		return 2
	}
}

func (e Evaluation) withinTierLess(other Evaluation) bool {
	switch e.kind {
	case kindWin:
		return e.plies > other.plies // winning later is worse
	case kindLoss:
		return e.plies < other.plies // losing sooner is worse
	default:
		return e.centiPawns < other.centiPawns
	}
}

// UCI renders the evaluation the way a "score" field of a UCI "info" line
// expects: "cp <n>" or "mate <n>" (negative for a loss), counting mate
// distance in full moves rather than plies.
func (e Evaluation) UCI() string {
	switch e.kind {
	case kindWin:
		return fmt.Sprintf("mate %d", (e.plies+1)/2)
	case kindLoss:
		return fmt.Sprintf("mate -%d", (e.plies+1)/2)
	default:
		return fmt.Sprintf("cp %d", e.centiPawns)
	}
}

func (e Evaluation) String() string {
	switch e.kind {
	case kindWin:
		return fmt.Sprintf("Win(%d)", e.plies)
	case kindLoss:
		return fmt.Sprintf("Loss(%d)", e.plies)
	default:
		return fmt.Sprintf("CentiPawns(%d)", e.centiPawns)
	}
}
