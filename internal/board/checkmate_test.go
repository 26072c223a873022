package board

import "testing"

func TestCheckmate(t *testing.T) {
	// Back rank mate: White Ka1, Ra8; Black Kh8, pawns g7/h7 blocking escape.
	// Black is already in checkmate (Black to move).
	pos, err := ParseFEN("R6k/6pp/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	pos.UpdateCheckers()

	if !pos.InCheck() {
		t.Fatal("expected position to be in check")
	}

	moves := NewMoveGenerator(pos).GenerateLegalMoves()
	if moves.Len() != 0 {
		t.Errorf("expected no legal moves, got %d", moves.Len())
	}

	if !pos.IsCheckmate() {
		t.Error("Expected checkmate but got false")
	}
}

func TestNotCheckmate(t *testing.T) {
	// Black king on h8, rook on g8, but the king can capture it.
	pos, err := ParseFEN("6Rk/8/8/8/8/8/8/K7 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	pos.UpdateCheckers()

	if !pos.InCheck() {
		t.Fatal("expected position to be in check")
	}

	moves := NewMoveGenerator(pos).GenerateLegalMoves()
	if moves.Len() == 0 {
		t.Fatal("expected at least one legal move (king takes rook)")
	}

	if pos.IsCheckmate() {
		t.Error("Expected NOT checkmate but got true")
	}
}

func TestStalemate(t *testing.T) {
	// Classic stalemate: Black king a8, no legal moves, not in check.
	pos, err := ParseFEN("k7/2Q5/1K6/8/8/8/8/8 b - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	pos.UpdateCheckers()

	if pos.InCheck() {
		t.Fatal("expected position not to be in check")
	}

	if !pos.IsStalemate() {
		t.Error("expected stalemate")
	}
	if pos.IsCheckmate() {
		t.Error("stalemate must not report as checkmate")
	}
}

func TestDoubleCheckOnlyKingMoves(t *testing.T) {
	// White king e1 double-checked by a rook on the e-file and a bishop
	// on the h4-e1 diagonal simultaneously: only king moves may be legal.
	pos, err := ParseFEN("4k3/8/8/8/7b/8/4r3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal("Error parsing FEN:", err)
	}

	mg := NewMoveGenerator(pos)
	if !mg.IsDoubleCheck() {
		t.Fatal("expected double check")
	}

	moves := mg.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		if moves.Get(i).From() != pos.KingSquare[White] {
			t.Errorf("non-king move %v generated during double check", moves.Get(i))
		}
	}
}
