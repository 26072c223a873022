package search

import (
	"github.com/Robotino04/Thera-Engine/internal/board"
	"github.com/Robotino04/Thera-Engine/internal/eval"
)

// Stats tracks node counts for one search (the UCI "info" line's nodes/nps
// fields and the "hashfull" stat draw from the shared table instead).
type Stats struct {
	NodesSearched           uint64
	NodesSearchedQuiescence uint64
}

// Cancelled is returned by Search/Quiescence when should-exit fired
// mid-search; the caller must discard whatever partial result it has and
// fall back to the previous completed depth's move.
type Cancelled struct{}

func (Cancelled) Error() string { return "search cancelled" }

// Searcher holds everything one search invocation shares across its
// recursive calls: the position being searched (mutated in place via
// board.Make/Unmake as the tree is walked), the shared transposition
// table, and the cancellation flag checked at every node entry (spec
// §5's atomic cancellation signal, checked at both search and quiescence
// nodes).
type Searcher struct {
	pos        *board.Position
	tt         *Table
	shouldExit func() bool
	Stats      Stats
}

// NewSearcher builds a Searcher over pos, sharing tt across the whole
// iterative-deepening session and polling shouldExit at every node.
func NewSearcher(pos *board.Position, tt *Table, shouldExit func() bool) *Searcher {
	return &Searcher{pos: pos, tt: tt, shouldExit: shouldExit}
}

// Search returns the evaluation of s.pos from the side-to-move's
// perspective, searching depthLeft plies deeper within window. Grounded
// directly on the original engine's search(): cancellation check, draw
// check, transposition probe, move generation, terminal-node shortcuts,
// then a window.Update loop over ordered moves. Every path that computes a
// new result (terminal node, quiescence handoff, move loop) stores it in
// the transposition table before returning; draws and table hits return
// without storing.
func (s *Searcher) Search(depthLeft int, window *AlphaBetaWindow) (eval.Evaluation, error) {
	if s.shouldExit() {
		return eval.Evaluation{}, Cancelled{}
	}

	if s.pos.IsDraw() || s.pos.IsThreefoldRepetition() {
		return eval.Draw, nil
	}

	if tte, ok := s.tt.Get(s.pos.Hash, depthLeft, window.Plies()); ok {
		switch tte.Kind {
		case Exact:
			return tte.Eval, nil
		case LowerBound:
			if window.CausesCutoff(tte.Eval) {
				return tte.Eval, nil
			}
		case UpperBound:
			if window.FailsLow(tte.Eval) {
				return tte.Eval, nil
			}
		}
	}

	mg := board.NewMoveGenerator(s.pos)
	moves := mg.GenerateLegalMoves()

	if moves.Len() == 0 {
		var summary NodeEvalSummary
		if mg.IsCheck() {
			summary = window.SetExact(eval.Loss(window.Plies()))
		} else {
			summary = window.SetExact(eval.Draw)
		}
		s.tt.Insert(s.pos.Hash, depthLeft, summary.Eval, summary.Kind, nil, s.Stats.NodesSearched, window.Plies())
		return summary.Eval, nil
	}

	if depthLeft <= 0 {
		summary, err := s.Quiescence(window)
		if err != nil {
			return eval.Evaluation{}, err
		}
		s.tt.Insert(s.pos.Hash, depthLeft, summary.Eval, summary.Kind, nil, s.Stats.NodesSearched, window.Plies())
		return summary.Eval, nil
	}

	var ttMove board.Move
	if tte, ok := s.tt.Get(s.pos.Hash, 0, window.Plies()); ok {
		ttMove = tte.BestMove
	}
	scores := ScoreMoves(s.pos, moves, ttMove, mg.AttackedSquares())

	s.Stats.NodesSearched++

	var best board.Move
	for i := 0; i < moves.Len(); i++ {
		PickMove(moves, scores, i)
		m := moves.Get(i)

		board.Make(s.pos, m)
		childEval, err := s.Search(depthLeft-1, window.NextDepth())
		board.Unmake(s.pos)

		if err != nil {
			return eval.Evaluation{}, err
		}
		childEval = childEval.Negate()

		switch window.Update(childEval) {
		case NewBest:
			best = m
		case Prune:
			best = m
			summary := window.Finalize()
			s.tt.Insert(s.pos.Hash, depthLeft, summary.Eval, summary.Kind, best, s.Stats.NodesSearched, window.Plies())
			return summary.Eval, nil
		}
	}

	summary := window.Finalize()
	s.tt.Insert(s.pos.Hash, depthLeft, summary.Eval, summary.Kind, best, s.Stats.NodesSearched, window.Plies())
	return summary.Eval, nil
}

// Quiescence extends the search along capture sequences until the
// position is quiet, avoiding the horizon effect where a static
// evaluation is taken mid-exchange. Grounded on the original engine's
// quiescence_search: stand-pat via window.Update(staticEval), then only
// captures; if there are no captures, check whether there are any moves
// at all to tell checkmate/stalemate apart from a merely quiet position.
// There is no explicit depth bound — recursion ends naturally once
// captures run out.
func (s *Searcher) Quiescence(window *AlphaBetaWindow) (NodeEvalSummary, error) {
	if s.shouldExit() {
		return NodeEvalSummary{}, Cancelled{}
	}

	if s.pos.IsDraw() || s.pos.IsThreefoldRepetition() {
		return window.SetExact(eval.Draw), nil
	}

	s.Stats.NodesSearchedQuiescence++

	staticEval := eval.StaticEval(s.pos)
	if window.Update(staticEval) == Prune {
		return window.SetExact(staticEval), nil
	}

	mg := board.NewMoveGenerator(s.pos)
	captures := mg.GenerateCaptures()

	if captures.Len() == 0 {
		if mg.GenerateLegalMoves().Len() == 0 {
			if mg.IsCheck() {
				return window.SetExact(eval.Loss(window.Plies())), nil
			}
			return window.SetExact(eval.Draw), nil
		}
		return window.SetExact(staticEval), nil
	}

	scores := ScoreMoves(s.pos, captures, nil, mg.AttackedSquares())

	for i := 0; i < captures.Len(); i++ {
		PickMove(captures, scores, i)

		board.Make(s.pos, captures.Get(i))
		childSummary, err := s.Quiescence(window.NextDepth())
		board.Unmake(s.pos)

		if err != nil {
			return NodeEvalSummary{}, err
		}

		if window.Update(childSummary.Eval.Negate()) == Prune {
			break
		}
	}

	return window.Finalize(), nil
}
