package board

import "fmt"

// Move is a tagged variant, not a flattened struct of nullable fields:
// legality and make/unmake correctness rely on which concrete type a Move
// value holds. Every constructor below implements Move and is comparable,
// so MoveList.Contains and transposition-table best-move storage can use
// plain equality.
type Move interface {
	From() Square
	To() Square
	UCI() string
	isMove()
}

// NormalMove is any move that is not a double pawn push, en passant
// capture, castle, or promotion.
type NormalMove struct {
	FromSq, ToSq  Square
	MovedPiece    Piece
	CapturedPiece Piece // NoPiece if the move is quiet
}

// DoublePawnMove is a two-square pawn push; it sets the en-passant square.
type DoublePawnMove struct {
	FromSq, ToSq Square
}

// EnPassantMove captures a pawn that does not sit on the destination square.
type EnPassantMove struct {
	FromSq, ToSq Square
}

// CastleMove moves the king and its rook together.
type CastleMove struct {
	FromSq, ToSq       Square
	RookFromSq, RookToSq Square
}

// PromotionMove replaces a pawn reaching the last rank with another piece.
type PromotionMove struct {
	FromSq, ToSq   Square
	PromotionPiece PieceType
	CapturedPiece  Piece // NoPiece if the promotion is quiet
}

func (m NormalMove) From() Square  { return m.FromSq }
func (m NormalMove) To() Square    { return m.ToSq }
func (NormalMove) isMove()         {}
func (m NormalMove) UCI() string   { return m.FromSq.String() + m.ToSq.String() }

func (m DoublePawnMove) From() Square { return m.FromSq }
func (m DoublePawnMove) To() Square   { return m.ToSq }
func (DoublePawnMove) isMove()        {}
func (m DoublePawnMove) UCI() string  { return m.FromSq.String() + m.ToSq.String() }

func (m EnPassantMove) From() Square { return m.FromSq }
func (m EnPassantMove) To() Square   { return m.ToSq }
func (EnPassantMove) isMove()        {}
func (m EnPassantMove) UCI() string  { return m.FromSq.String() + m.ToSq.String() }

func (m CastleMove) From() Square { return m.FromSq }
func (m CastleMove) To() Square   { return m.ToSq }
func (CastleMove) isMove()        {}
func (m CastleMove) UCI() string  { return m.FromSq.String() + m.ToSq.String() }

func (m PromotionMove) From() Square { return m.FromSq }
func (m PromotionMove) To() Square   { return m.ToSq }
func (PromotionMove) isMove()        {}
func (m PromotionMove) UCI() string {
	promoChars := map[PieceType]byte{Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q'}
	return m.FromSq.String() + m.ToSq.String() + string(promoChars[m.PromotionPiece])
}

// IsCapture reports whether the move removes an opponent piece.
func IsCapture(m Move) bool {
	switch mv := m.(type) {
	case NormalMove:
		return mv.CapturedPiece != NoPiece
	case EnPassantMove:
		return true
	case PromotionMove:
		return mv.CapturedPiece != NoPiece
	default:
		return false
	}
}

// MaxLegalMoves is the maximum number of legal moves in any chess position
// (spec §4.1's move budget); callers may pre-reserve this capacity.
const MaxLegalMoves = 218

// MoveList is a fixed-capacity list of moves to avoid allocation during
// search.
type MoveList struct {
	moves [MaxLegalMoves]Move
	count int
}

// Add appends a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int { return ml.count }

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move { return ml.moves[i] }

// Set overwrites the move at index i (used by move-ordering sorts).
func (ml *MoveList) Set(i int, m Move) { ml.moves[i] = m }

// Swap exchanges the moves at i and j.
func (ml *MoveList) Swap(i, j int) { ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i] }

// Clear empties the list without reallocating.
func (ml *MoveList) Clear() { ml.count = 0 }

// Contains reports whether m is present in the list.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves currently in the list.
func (ml *MoveList) Slice() []Move { return ml.moves[:ml.count] }

// UndoInfo carries exactly what make/unmake needs to reverse a move:
// the prior castling rights, ep square, halfmove clock, and Zobrist hash,
// per spec §3's undo-stack invariant.
type UndoInfo struct {
	Move           Move
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int
	Hash           uint64
	Checkers       Bitboard
}

// ParseMove parses a UCI long-algebraic move string against pos, producing
// the concrete tagged-union value (spec §6's "<from><to>[<promo>]").
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) < 4 {
		return nil, fmt.Errorf("invalid move string: %q", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return nil, err
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return nil, err
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return nil, fmt.Errorf("no piece at %s", from)
	}
	pt := piece.Type()

	if len(s) >= 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return nil, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		return PromotionMove{FromSq: from, ToSq: to, PromotionPiece: promo, CapturedPiece: pos.PieceAt(to)}, nil
	}

	if pt == King && abs(int(to)-int(from)) == 2 {
		rookFrom, rookTo := castleRookSquares(from, to)
		return CastleMove{FromSq: from, ToSq: to, RookFromSq: rookFrom, RookToSq: rookTo}, nil
	}

	if pt == Pawn && to == pos.EnPassant && pos.EnPassant != NoSquare {
		return EnPassantMove{FromSq: from, ToSq: to}, nil
	}

	if pt == Pawn && abs(int(to)-int(from)) == 16 {
		return DoublePawnMove{FromSq: from, ToSq: to}, nil
	}

	return NormalMove{FromSq: from, ToSq: to, MovedPiece: piece, CapturedPiece: pos.PieceAt(to)}, nil
}

// castleRookSquares returns the rook's from/to squares for a king move
// between from and to that is two files wide.
func castleRookSquares(from, to Square) (Square, Square) {
	rank := from.Rank()
	if to.File() > from.File() {
		// king-side
		return NewSquare(7, rank), NewSquare(5, rank)
	}
	return NewSquare(0, rank), NewSquare(3, rank)
}
