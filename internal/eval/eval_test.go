package eval

import (
	"testing"

	"github.com/Robotino04/Thera-Engine/internal/board"
)

func TestEvaluationOrdering(t *testing.T) {
	if !Win(10).Less(Win(0)) {
		t.Error("earlier wins should be better than later ones")
	}
	if !Loss(0).Less(Win(10000)) {
		t.Error("wins should always be better than a loss")
	}
	if !Loss(10000).Less(Win(0)) {
		t.Error("wins should always be better than a loss, even late ones")
	}
	if !Score(4).Less(Win(34)) {
		t.Error("wins should always be better than a normal evaluation")
	}
	if !Loss(34).Less(Score(4)) {
		t.Error("losses should always be worse than a normal evaluation")
	}
}

func TestEvaluationNegateSymmetry(t *testing.T) {
	cases := []Evaluation{Win(3), Loss(7), Score(150), Score(-42), Draw}
	for _, e := range cases {
		if e.Negate().Negate() != e {
			t.Errorf("negating %v twice should be a no-op, got %v", e, e.Negate().Negate())
		}
	}

	if got := Win(5).Negate(); !got.IsLoss() || got.Plies() != 5 {
		t.Errorf("Win(5).Negate() = %v, want Loss(5)", got)
	}
	if got := Score(100).Negate(); got.CentiPawnsValue() != -100 {
		t.Errorf("Score(100).Negate() = %v, want Score(-100)", got)
	}
}

func TestStaticEvalSymmetricStartingPosition(t *testing.T) {
	pos := board.NewPosition()
	e := StaticEval(pos)
	if !e.IsCentiPawns() || e.CentiPawnsValue() != 0 {
		t.Errorf("starting position should evaluate to 0, got %v", e)
	}
}

func TestStaticEvalFavorsMaterial(t *testing.T) {
	// White has an extra queen.
	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}
	e := StaticEval(pos)
	if !e.IsCentiPawns() || e.CentiPawnsValue() <= QueenValue/2 {
		t.Errorf("expected a large material-favoring score, got %v", e)
	}
}
