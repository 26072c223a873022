package search

import (
	"time"

	"github.com/Robotino04/Thera-Engine/internal/board"
	"github.com/Robotino04/Thera-Engine/internal/eval"
)

// DefaultDepthCeiling is the iterative-deepening loop's default maximum
// depth (spec §4.7) when neither a "go depth" limit nor a time budget caps
// it first.
const DefaultDepthCeiling = 256

// DepthSummary is emitted once per completed iterative-deepening depth
// (spec §4.7/§5's strict depth ordering): the depth just finished, its
// evaluation, the current principal variation, wall-clock elapsed since
// the search began, and the cumulative node count across every depth
// searched so far this session.
type DepthSummary struct {
	Depth   int
	Eval    eval.Evaluation
	PV      []board.Move
	Elapsed time.Duration
	Nodes   uint64
}

// IterativeDeepen runs negamax at increasing depths from 1 up to the
// configured ceiling (limits.Depth if set and smaller, else
// DefaultDepthCeiling), stopping on cancellation or time-budget expiry.
// onDepth, if non-nil, is called once per completed depth in strictly
// increasing order. The best move returned is the one from the deepest
// depth that completed without cancellation — a depth interrupted
// mid-search is discarded entirely and its partial result never surfaces
// (spec §4.7/§5).
func IterativeDeepen(pos *board.Position, tt *Table, limits Limits, budget *Budget, externalStop func() bool, onDepth func(DepthSummary)) board.Move {
	ceiling := DefaultDepthCeiling
	if limits.Depth > 0 && limits.Depth < ceiling {
		ceiling = limits.Depth
	}

	start := time.Now()
	var bestMove board.Move
	var totalNodes uint64

	shouldExit := func() bool {
		return externalStop() || budget.Expired(time.Now())
	}

	for depth := 1; depth <= ceiling; depth++ {
		s := NewSearcher(pos, tt, shouldExit)
		e, err := s.Search(depth, RootWindow())
		totalNodes += s.Stats.NodesSearched + s.Stats.NodesSearchedQuiescence

		if err != nil {
			// Cancelled mid-depth: the previous completed depth's move
			// (already in bestMove) is the result.
			break
		}

		pv := ExtractPV(pos, tt, depth)
		if len(pv) > 0 {
			bestMove = pv[0]
		}

		if onDepth != nil {
			onDepth(DepthSummary{
				Depth:   depth,
				Eval:    e,
				PV:      pv,
				Elapsed: time.Since(start),
				Nodes:   totalNodes,
			})
		}

		if limits.Nodes > 0 && totalNodes >= limits.Nodes {
			break
		}
	}

	return bestMove
}

// ExtractPV reconstructs the principal variation from pos by repeatedly
// looking up the transposition table's best_move for the current
// position, playing it, and recursing, bounded by maxDepth plies (spec
// §4.5). pos is restored to its original state before returning via a
// matching run of unmakes.
func ExtractPV(pos *board.Position, tt *Table, maxDepth int) []board.Move {
	var pv []board.Move
	for i := 0; i < maxDepth; i++ {
		tte, ok := tt.Get(pos.Hash, 0, uint32(i))
		if !ok || tte.BestMove == nil {
			break
		}
		legal := board.NewMoveGenerator(pos).GenerateLegalMoves()
		if !legal.Contains(tte.BestMove) {
			break
		}
		pv = append(pv, tte.BestMove)
		board.Make(pos, tte.BestMove)
	}
	for range pv {
		board.Unmake(pos)
	}
	return pv
}
