package board

// RepetitionCount returns how many times the current position's hash has
// occurred previously in the game, including the current occurrence.
// It only walks back as far as HalfMoveClock plies, since a capture or
// pawn move changes the material or pawn structure and can never repeat
// (spec §4.3): that's also exactly where HalfMoveClock itself resets to 0,
// so it doubles as the irreversible-move boundary.
func (p *Position) RepetitionCount() int {
	count := 1
	target := p.Hash
	n := len(p.UndoStack)
	limit := p.HalfMoveClock
	if limit > n {
		limit = n
	}

	for i := 2; i <= limit; i += 2 {
		idx := n - i
		if p.UndoStack[idx].Hash == target {
			count++
		}
	}
	return count
}

// IsThreefoldRepetition reports whether the current position has occurred
// three or more times.
func (p *Position) IsThreefoldRepetition() bool {
	return p.RepetitionCount() >= 3
}
