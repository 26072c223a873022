package board

// Make applies m to pos, updates the Zobrist hash incrementally, and pushes
// an UndoInfo onto pos.UndoStack so Unmake can reverse it later.
func Make(pos *Position, m Move) {
	undo := UndoInfo{
		Move:           m,
		CapturedPiece:  NoPiece,
		CastlingRights: pos.CastlingRights,
		EnPassant:      pos.EnPassant,
		HalfMoveClock:  pos.HalfMoveClock,
		FullMoveNumber: pos.FullMoveNumber,
		Hash:           pos.Hash,
		Checkers:       pos.Checkers,
	}

	us := pos.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	piece := pos.PieceAt(from)
	pt := piece.Type()

	pos.Hash ^= zobristSideToMove
	pos.Hash ^= ZobristCastling(pos.CastlingRights)
	if pos.EnPassant != NoSquare {
		pos.Hash ^= zobristEnPassant[pos.EnPassant.File()]
	}
	pos.EnPassant = NoSquare

	switch mv := m.(type) {
	case EnPassantMove:
		capturedSq := enPassantCapturedSquare(to, us)
		undo.CapturedPiece = pos.removePiece(capturedSq)
		pos.Hash ^= zobristPiece[them][Pawn][capturedSq]
		pos.movePiece(from, to)
		pos.Hash ^= zobristPiece[us][Pawn][from]
		pos.Hash ^= zobristPiece[us][Pawn][to]

	case DoublePawnMove:
		pos.movePiece(from, to)
		pos.Hash ^= zobristPiece[us][Pawn][from]
		pos.Hash ^= zobristPiece[us][Pawn][to]
		epSquare := Square((int(from) + int(to)) / 2)
		pos.EnPassant = epSquare
		pos.Hash ^= zobristEnPassant[epSquare.File()]

	case CastleMove:
		pos.movePiece(from, to)
		pos.Hash ^= zobristPiece[us][King][from]
		pos.Hash ^= zobristPiece[us][King][to]
		pos.movePiece(mv.RookFromSq, mv.RookToSq)
		pos.Hash ^= zobristPiece[us][Rook][mv.RookFromSq]
		pos.Hash ^= zobristPiece[us][Rook][mv.RookToSq]

	case PromotionMove:
		if mv.CapturedPiece != NoPiece {
			pos.removePiece(to)
			pos.Hash ^= zobristPiece[them][mv.CapturedPiece.Type()][to]
			undo.CapturedPiece = mv.CapturedPiece
		}
		pos.Pieces[us][Pawn] &^= SquareBB(from)
		pos.Occupied[us] &^= SquareBB(from)
		pos.AllOccupied &^= SquareBB(from)
		pos.Pieces[us][mv.PromotionPiece] |= SquareBB(to)
		pos.Occupied[us] |= SquareBB(to)
		pos.AllOccupied |= SquareBB(to)
		pos.Hash ^= zobristPiece[us][Pawn][from]
		pos.Hash ^= zobristPiece[us][mv.PromotionPiece][to]

	default: // NormalMove
		nm := mv.(NormalMove)
		if nm.CapturedPiece != NoPiece {
			pos.removePiece(to)
			pos.Hash ^= zobristPiece[them][nm.CapturedPiece.Type()][to]
			undo.CapturedPiece = nm.CapturedPiece
		}
		pos.movePiece(from, to)
		pos.Hash ^= zobristPiece[us][pt][from]
		pos.Hash ^= zobristPiece[us][pt][to]
	}

	if pt == King {
		if us == White {
			pos.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			pos.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}
	if from == A1 || to == A1 {
		pos.CastlingRights &^= WhiteQueenSideCastle
	}
	if from == H1 || to == H1 {
		pos.CastlingRights &^= WhiteKingSideCastle
	}
	if from == A8 || to == A8 {
		pos.CastlingRights &^= BlackQueenSideCastle
	}
	if from == H8 || to == H8 {
		pos.CastlingRights &^= BlackKingSideCastle
	}
	pos.Hash ^= ZobristCastling(pos.CastlingRights)

	if pt == Pawn || undo.CapturedPiece != NoPiece {
		pos.HalfMoveClock = 0
	} else {
		pos.HalfMoveClock++
	}
	if us == Black {
		pos.FullMoveNumber++
	}

	pos.SideToMove = them
	pos.UpdateCheckers()

	pos.UndoStack = append(pos.UndoStack, undo)
}

// Unmake reverses the most recently made move.
func Unmake(pos *Position) {
	n := len(pos.UndoStack)
	undo := pos.UndoStack[n-1]
	pos.UndoStack = pos.UndoStack[:n-1]

	m := undo.Move
	them := pos.SideToMove
	us := them.Other()
	from := m.From()
	to := m.To()

	pos.CastlingRights = undo.CastlingRights
	pos.EnPassant = undo.EnPassant
	pos.HalfMoveClock = undo.HalfMoveClock
	pos.FullMoveNumber = undo.FullMoveNumber
	pos.Hash = undo.Hash
	pos.Checkers = undo.Checkers
	pos.SideToMove = us

	switch mv := m.(type) {
	case EnPassantMove:
		pos.movePiece(to, from)
		capturedSq := enPassantCapturedSquare(to, us)
		pos.setPiece(undo.CapturedPiece, capturedSq)

	case DoublePawnMove:
		pos.movePiece(to, from)

	case CastleMove:
		pos.movePiece(to, from)
		pos.movePiece(mv.RookToSq, mv.RookFromSq)

	case PromotionMove:
		pos.Pieces[us][mv.PromotionPiece] &^= SquareBB(to)
		pos.Occupied[us] &^= SquareBB(to)
		pos.AllOccupied &^= SquareBB(to)
		pos.Pieces[us][Pawn] |= SquareBB(from)
		pos.Occupied[us] |= SquareBB(from)
		pos.AllOccupied |= SquareBB(from)
		if undo.CapturedPiece != NoPiece {
			pos.setPiece(undo.CapturedPiece, to)
		}

	default: // NormalMove
		pos.movePiece(to, from)
		if undo.CapturedPiece != NoPiece {
			pos.setPiece(undo.CapturedPiece, to)
		}
	}
}

// MakeNull flips the side to move without touching the en-passant square or
// the Zobrist hash, so it must never be used for search nodes, which use
// Make/Unmake instead. MoveGenerator does not call it: its attack map is
// computed directly from the opponent's pieces.
func MakeNull(pos *Position) {
	pos.SideToMove = pos.SideToMove.Other()
	pos.UpdateCheckers()
}

// UnmakeNull reverses MakeNull.
func UnmakeNull(pos *Position) {
	pos.SideToMove = pos.SideToMove.Other()
	pos.UpdateCheckers()
}

// HasLegalMoves reports whether the side to move has any legal move at all.
func (p *Position) HasLegalMoves() bool {
	return NewMoveGenerator(p).GenerateLegalMoves().Len() > 0
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw reports whether the position is drawn by stalemate, the 50-move
// rule, or insufficient material. Threefold repetition is handled
// separately in repetition.go, since it needs the history stack rather
// than just the current position.
func (p *Position) IsDraw() bool {
	if p.IsStalemate() {
		return true
	}
	if p.HalfMoveClock >= 100 {
		return true
	}
	return p.IsInsufficientMaterial()
}

// IsInsufficientMaterial returns true if neither side can possibly checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}

	wMinor := p.Pieces[White][Knight].PopCount() + p.Pieces[White][Bishop].PopCount()
	bMinor := p.Pieces[Black][Knight].PopCount() + p.Pieces[Black][Bishop].PopCount()

	if wMinor == 0 && bMinor == 0 {
		return true
	}
	if wMinor <= 1 && bMinor == 0 {
		return true
	}
	if bMinor <= 1 && wMinor == 0 {
		return true
	}
	return false
}
