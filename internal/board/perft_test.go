package board

import "testing"

// perft counts the number of leaf nodes at the given depth. This is the
// standard way to verify move generation correctness.
func perft(p *Position, depth int) int64 {
	if depth == 0 {
		return 1
	}

	moves := NewMoveGenerator(p).GenerateLegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}

	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		Make(p, moves.Get(i))
		nodes += perft(p, depth-1)
		Unmake(p)
	}
	return nodes
}

// perftCase is one depth/expected-count assertion. slow marks a case
// expensive enough (multi-second) that `go test -short` skips it rather
// than running it on every invocation — spec §8 still requires the
// position be verified to that depth, just not on every short run.
type perftCase struct {
	depth    int
	expected int64
	slow     bool
}

func runPerftCases(t *testing.T, pos *Position, tests []perftCase) {
	t.Helper()
	for _, tc := range tests {
		tc := tc
		t.Run("", func(t *testing.T) {
			if tc.slow && testing.Short() {
				t.Skipf("skipping perft depth %d in -short mode", tc.depth)
			}
			got := perft(pos, tc.depth)
			if got != tc.expected {
				t.Errorf("perft(%d) = %d, want %d", tc.depth, got, tc.expected)
			}
		})
	}
}

// TestPerftStartingPosition tests move generation from the starting position.
func TestPerftStartingPosition(t *testing.T) {
	pos := NewPosition()

	runPerftCases(t, pos, []perftCase{
		{depth: 1, expected: 20},
		{depth: 2, expected: 400},
		{depth: 3, expected: 8902},
		{depth: 4, expected: 197281},
		{depth: 5, expected: 4865609, slow: true},
	})
}

// TestPerftKiwipete tests the famous Kiwipete position with many edge cases.
// FEN: r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -
func TestPerftKiwipete(t *testing.T) {
	pos, err := ParseFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	runPerftCases(t, pos, []perftCase{
		{depth: 1, expected: 48},
		{depth: 2, expected: 2039},
		{depth: 3, expected: 97862},
		{depth: 4, expected: 4085603, slow: true},
	})
}

// TestPerftPosition3 tests en passant edge cases.
// FEN: 8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -
func TestPerftPosition3(t *testing.T) {
	pos, err := ParseFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	runPerftCases(t, pos, []perftCase{
		{depth: 1, expected: 14},
		{depth: 2, expected: 191},
		{depth: 3, expected: 2812},
		{depth: 4, expected: 43238},
		{depth: 5, expected: 674624, slow: true},
	})
}

// TestPerftPosition4, TestPerftPosition5 and TestPerftPosition6 round out
// the canonical six-position perft suite (spec §8) beyond the starting
// position, Kiwipete, and the en-passant position above.
func TestPerftPosition4(t *testing.T) {
	pos, err := ParseFEN("r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	runPerftCases(t, pos, []perftCase{
		{depth: 1, expected: 6},
		{depth: 2, expected: 264},
		{depth: 3, expected: 9467},
		{depth: 4, expected: 422333, slow: true},
	})
}

func TestPerftPosition5(t *testing.T) {
	pos, err := ParseFEN("rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	runPerftCases(t, pos, []perftCase{
		{depth: 1, expected: 44},
		{depth: 2, expected: 1486},
		{depth: 3, expected: 62379},
		{depth: 4, expected: 2103487, slow: true},
	})
}

// TestPerftPosition6 is the sixth canonical position (spec §8), a
// symmetric middlegame used to catch move-generation bugs the more
// tactical positions above don't exercise.
// FEN: r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - -
func TestPerftPosition6(t *testing.T) {
	pos, err := ParseFEN("r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	runPerftCases(t, pos, []perftCase{
		{depth: 1, expected: 46},
		{depth: 2, expected: 2079},
		{depth: 3, expected: 89890},
		{depth: 4, expected: 3894594, slow: true},
	})
}

// TestPerftEnPassantPin tests the specific en passant horizontal pin edge case.
// FEN: 8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1
// Black pawn on e4 can capture en passant d3, but this would expose the black king
// on a4 to the white rook on h4.
func TestPerftEnPassantPin(t *testing.T) {
	pos, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("Failed to parse FEN: %v", err)
	}

	// The en passant capture should be illegal.
	moves := NewMoveGenerator(pos).GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		if _, ok := moves.Get(i).(EnPassantMove); ok {
			t.Errorf("En passant move %v should be illegal (horizontal pin)", moves.Get(i))
		}
	}

	// Depth 1: Ka3, Ka5, Kb3, Kb4, Kb5, e3 = 6 moves
	// Depth 2: After e4e3 (14), after king moves (16 each x5) = 14 + 80 = 94
	runPerftCases(t, pos, []perftCase{
		{depth: 1, expected: 6},
		{depth: 2, expected: 94},
	})
}

// TestMakeUnmakeReversible checks that Make followed by Unmake restores the
// position exactly, including the Zobrist hash, across every legal move at
// several plies from the starting position.
func TestMakeUnmakeReversible(t *testing.T) {
	var walk func(p *Position, depth int)
	walk = func(p *Position, depth int) {
		if depth == 0 {
			return
		}
		moves := NewMoveGenerator(p).GenerateLegalMoves()
		for i := 0; i < moves.Len(); i++ {
			before := *p
			beforeHash := p.ComputeHash()
			Make(p, moves.Get(i))
			walk(p, depth-1)
			Unmake(p)
			if p.Hash != beforeHash {
				t.Fatalf("hash mismatch after unmake of %v: got %x want %x", moves.Get(i), p.Hash, beforeHash)
			}
			if p.SideToMove != before.SideToMove || p.AllOccupied != before.AllOccupied {
				t.Fatalf("position mismatch after unmake of %v", moves.Get(i))
			}
		}
	}

	pos := NewPosition()
	walk(pos, 3)
}
