package board

import "fmt"

// Square is one of the 64 board squares, spec.md §3's Square type. This
// repo keeps the little-endian rank-file mapping the Indexing note in
// SPEC_FULL.md calls out explicitly (A1=0 .. H8=63, file varying fastest)
// rather than spec.md's own h1=0 illustrative numbering — spec.md leaves
// the exact indexing to the implementer as long as it stays consistent
// across every table and shift, and this is the mapping the rest of
// board/ (attacks.go's magic tables, zobrist.go's keyed-by-square arrays)
// is built against.
type Square uint8

// The 64 squares, A1 through H8, in little-endian rank-file order: file
// a..h within a rank before moving to the next rank up.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// File reports sq's file, 0 (a-file) through 7 (h-file).
func (sq Square) File() int {
	return int(sq) & 7
}

// Rank reports sq's rank, 0 (rank 1) through 7 (rank 8).
func (sq Square) Rank() int {
	return int(sq) >> 3
}

// String renders sq in algebraic notation ("e4"), or "-" for NoSquare —
// the same placeholder FEN uses for an absent en passant square.
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.File(), '1'+sq.Rank())
}

// NewSquare builds the Square at (file, rank), both 0-indexed.
func NewSquare(file, rank int) Square {
	return Square(rank*8 + file)
}

// ParseSquare parses algebraic notation ("e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	file := int(s[0] - 'a')
	rank := int(s[1] - '1')

	if file < 0 || file > 7 || rank < 0 || rank > 7 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(file, rank), nil
}

// IsValid reports whether sq names a real board square rather than
// NoSquare or an out-of-range value.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// Mirror flips sq across the board's horizontal midline (rank 1 <-> rank
// 8), used to view a square from the opposite color's perspective — e.g.
// evaluation tables defined for White are looked up at Mirror() for
// Black rather than duplicated.
func (sq Square) Mirror() Square {
	return sq ^ 56
}

// RelativeRank reports sq's rank as seen by c: for White, rank 0 is the
// 1st rank (home); for Black, rank 0 is the 8th rank. Pawn-advancement
// and passed-pawn logic key off this rather than the absolute Rank so
// the same code works for both colors.
func (sq Square) RelativeRank(c Color) int {
	if c == White {
		return sq.Rank()
	}
	return 7 - sq.Rank()
}
