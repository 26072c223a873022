package search

import "github.com/Robotino04/Thera-Engine/internal/board"

// Move ordering score bands, high to low (spec §4.9's five ordering tiers:
// PV/TT move, promotions, MVV-LVA captures, castles, quiet moves). Each
// tier occupies its own range so within-tier scores never cross into the
// next tier.
const (
	ttMoveScore   = 1_000_000
	promotionBase = 100_000
	captureBase   = 10_000
	castleScore   = 1_000
)

// ScoreMoves assigns an ordering score to every move in moves, per spec
// §4.9's five-tier key: the previous best move (if it's in this list)
// first, then promotions, then MVV-LVA captures, then castles, then quiet
// moves penalized if they walk into an attacked square. ttMove is the best
// move recorded for this position in the transposition table, or nil.
// attackedByThem is the node's MoveGenerator.AttackedSquares(), reused here
// rather than recomputed.
func ScoreMoves(pos *board.Position, moves *board.MoveList, ttMove board.Move, attackedByThem board.Bitboard) []int {
	scores := make([]int, moves.Len())
	for i := 0; i < moves.Len(); i++ {
		scores[i] = scoreMove(pos, moves.Get(i), ttMove, attackedByThem)
	}
	return scores
}

func scoreMove(pos *board.Position, m board.Move, ttMove board.Move, attackedByThem board.Bitboard) int {
	if ttMove != nil && m == ttMove {
		return ttMoveScore
	}

	if pm, ok := m.(board.PromotionMove); ok {
		score := board.PieceValue[pm.PromotionPiece] - board.PieceValue[board.Pawn] + pm.CapturedPiece.Value()
		if attackedByThem.IsSet(pm.ToSq) {
			score -= board.PieceValue[board.Pawn]
		}
		return promotionBase + score
	}

	if _, ok := m.(board.CastleMove); ok {
		return castleScore
	}

	if board.IsCapture(m) {
		victim := capturedType(m)
		score := board.PieceValue[victim]
		if attackedByThem.IsSet(m.To()) {
			mover := pos.PieceAt(m.From()).Type()
			score -= board.PieceValue[mover]
		}
		return captureBase + score
	}

	if attackedByThem.IsSet(m.To()) {
		mover := pos.PieceAt(m.From()).Type()
		return -board.PieceValue[mover]
	}
	return 0
}

func capturedType(m board.Move) board.PieceType {
	switch mv := m.(type) {
	case board.EnPassantMove:
		return board.Pawn
	case board.NormalMove:
		return mv.CapturedPiece.Type()
	case board.PromotionMove:
		return mv.CapturedPiece.Type()
	default:
		return board.Pawn
	}
}

// SortMoves orders moves by descending score (selection sort: move counts
// are small enough — at most board.MaxLegalMoves — that this beats the
// overhead of sort.Interface). For callers that need the full order up
// front; search itself uses the lazy PickMove below.
func SortMoves(moves *board.MoveList, scores []int) {
	n := moves.Len()
	for i := 0; i < n-1; i++ {
		best := i
		for j := i + 1; j < n; j++ {
			if scores[j] > scores[best] {
				best = j
			}
		}
		if best != i {
			moves.Swap(i, best)
			scores[i], scores[best] = scores[best], scores[i]
		}
	}
}

// PickMove moves the highest-scoring remaining move (from index onward)
// into position index, enabling lazy selection-sort: search can stop
// picking once it prunes, without having sorted the whole list up front.
func PickMove(moves *board.MoveList, scores []int, index int) {
	best := index
	for j := index + 1; j < moves.Len(); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	if best != index {
		moves.Swap(index, best)
		scores[index], scores[best] = scores[best], scores[index]
	}
}
