package board

// MoveGenerator is built from a position and exposes strictly legal move
// generation per spec §4.1: attack maps are precomputed once, then check
// and pin restrictions narrow a per-origin-square allowed-destinations mask
// before any piece is walked.
type MoveGenerator struct {
	pos *Position

	// attackedByThem is every square the opponent attacks, computed with
	// our king removed from occupancy so sliders see "through" it — this
	// is what stops the king stepping along a check ray.
	attackedByThem Bitboard

	checkers    Bitboard
	numCheckers int

	// allowedTargets[sq] is the set of destination squares a piece
	// standing on sq may legally move to, once check and pin restrictions
	// are applied. Only meaningful for non-king pieces; king moves are
	// generated directly against attackedByThem instead.
	allowedTargets [64]Bitboard
}

// NewMoveGenerator precomputes the attack map and allowed-targets array for
// pos's side to move.
func NewMoveGenerator(pos *Position) *MoveGenerator {
	mg := &MoveGenerator{pos: pos}
	mg.computeAttackMap()
	mg.computeAllowedTargets()
	return mg
}

func (mg *MoveGenerator) computeAttackMap() {
	pos := mg.pos
	us := pos.SideToMove
	them := us.Other()
	ksq := pos.KingSquare[us]

	occWithoutOurKing := pos.AllOccupied &^ SquareBB(ksq)
	mg.attackedByThem = pos.AttackedSquaresKingTransparent(them, occWithoutOurKing)

	mg.checkers = pos.Checkers
	mg.numCheckers = mg.checkers.PopCount()
}

func (mg *MoveGenerator) computeAllowedTargets() {
	pos := mg.pos
	us := pos.SideToMove
	ksq := pos.KingSquare[us]

	var checkMask Bitboard
	switch mg.numCheckers {
	case 0:
		checkMask = Universe
	case 1:
		attackerSq := mg.checkers.LSB()
		checkMask = SquareBB(attackerSq)
		if isSlider(pos.PieceAt(attackerSq).Type()) {
			checkMask |= Between(ksq, attackerSq)
		}
	default:
		checkMask = Empty // double check: only king moves are legal
	}

	for sq := A1; sq <= H8; sq++ {
		mg.allowedTargets[sq] = checkMask
	}

	if mg.numCheckers < 2 {
		mg.restrictPinnedTargets()
	}
}

func isSlider(pt PieceType) bool {
	return pt == Bishop || pt == Rook || pt == Queen
}

// restrictPinnedTargets walks each of the king's x-ray rays (rook/queen
// orthogonally, bishop/queen diagonally): the first blocker found is
// pinned to that ray if, beyond it, an enemy slider of a compatible type
// sits on the same line (spec §4.1's sniper/x-ray pin algorithm,
// generalizing Position.ComputePinned into a per-square allowed-target
// array instead of a flat pinned bitboard).
func (mg *MoveGenerator) restrictPinnedTargets() {
	pos := mg.pos
	us := pos.SideToMove
	them := us.Other()
	ksq := pos.KingSquare[us]

	rookSnipers := RookAttacks(ksq, Empty) & (pos.Pieces[them][Rook] | pos.Pieces[them][Queen])
	for rookSnipers != 0 {
		sniperSq := rookSnipers.PopLSB()
		blockers := Between(sniperSq, ksq) & pos.AllOccupied
		if blockers.PopCount() == 1 && blockers&pos.Occupied[us] != 0 {
			pinnedSq := blockers.LSB()
			mg.allowedTargets[pinnedSq] &= Line(ksq, sniperSq)
		}
	}

	bishopSnipers := BishopAttacks(ksq, Empty) & (pos.Pieces[them][Bishop] | pos.Pieces[them][Queen])
	for bishopSnipers != 0 {
		sniperSq := bishopSnipers.PopLSB()
		blockers := Between(sniperSq, ksq) & pos.AllOccupied
		if blockers.PopCount() == 1 && blockers&pos.Occupied[us] != 0 {
			pinnedSq := blockers.LSB()
			mg.allowedTargets[pinnedSq] &= Line(ksq, sniperSq)
		}
	}
}

// IsCheck reports whether the side to move is in check.
func (mg *MoveGenerator) IsCheck() bool { return mg.numCheckers > 0 }

// IsDoubleCheck reports whether the side to move is attacked by two pieces
// at once, in which case only king moves are legal.
func (mg *MoveGenerator) IsDoubleCheck() bool { return mg.numCheckers >= 2 }

// AttackedSquares returns every square the opponent attacks (king
// transparent). Move ordering (§4.9) uses this to cheaply tell whether a
// destination square is defended.
func (mg *MoveGenerator) AttackedSquares() Bitboard { return mg.attackedByThem }

// LeastValuableAttacker returns the lowest-value piece of byColor attacking
// sq, or NoPiece if none attacks it.
func (mg *MoveGenerator) LeastValuableAttacker(sq Square, byColor Color) Piece {
	pos := mg.pos
	attackers := pos.AttackersByColor(sq, byColor, pos.AllOccupied)
	best := NoPiece
	for attackers != 0 {
		asq := attackers.PopLSB()
		p := pos.PieceAt(asq)
		if best == NoPiece || PieceValue[p.Type()] < PieceValue[best.Type()] {
			best = p
		}
	}
	return best
}

// GenerateLegalMoves returns all strictly legal moves for the position the
// generator was built from.
func (mg *MoveGenerator) GenerateLegalMoves() *MoveList {
	ml := &MoveList{}
	mg.generateKingMoves(ml)
	if mg.numCheckers >= 2 {
		return ml
	}
	if mg.numCheckers == 0 {
		mg.generateCastling(ml)
	}
	mg.generatePawnMoves(ml, false)
	mg.generatePieceMoves(ml, Knight, false)
	mg.generatePieceMoves(ml, Bishop, false)
	mg.generatePieceMoves(ml, Rook, false)
	mg.generatePieceMoves(ml, Queen, false)
	return ml
}

// GenerateCaptures returns the subset of legal moves that change material
// or promote (used by quiescence search, §4.8).
func (mg *MoveGenerator) GenerateCaptures() *MoveList {
	ml := &MoveList{}
	mg.generateKingCaptures(ml)
	if mg.numCheckers >= 2 {
		return ml
	}
	mg.generatePawnMoves(ml, true)
	mg.generatePieceMoves(ml, Knight, true)
	mg.generatePieceMoves(ml, Bishop, true)
	mg.generatePieceMoves(ml, Rook, true)
	mg.generatePieceMoves(ml, Queen, true)
	return ml
}

func (mg *MoveGenerator) generateKingMoves(ml *MoveList) {
	pos := mg.pos
	us := pos.SideToMove
	ksq := pos.KingSquare[us]
	targets := KingAttacks(ksq) &^ pos.Occupied[us] &^ mg.attackedByThem
	for targets != 0 {
		to := targets.PopLSB()
		captured := pos.PieceAt(to)
		ml.Add(NormalMove{FromSq: ksq, ToSq: to, MovedPiece: NewPiece(King, us), CapturedPiece: captured})
	}
}

func (mg *MoveGenerator) generateKingCaptures(ml *MoveList) {
	pos := mg.pos
	us := pos.SideToMove
	ksq := pos.KingSquare[us]
	targets := KingAttacks(ksq) & pos.Occupied[us.Other()] &^ mg.attackedByThem
	for targets != 0 {
		to := targets.PopLSB()
		ml.Add(NormalMove{FromSq: ksq, ToSq: to, MovedPiece: NewPiece(King, us), CapturedPiece: pos.PieceAt(to)})
	}
}

// generateCastling requires: the right is live, the king is not currently
// in check (checked by the caller via numCheckers==0), the squares the king
// passes over and lands on are not attacked, and the intervening squares
// are empty.
func (mg *MoveGenerator) generateCastling(ml *MoveList) {
	pos := mg.pos
	us := pos.SideToMove
	ksq := pos.KingSquare[us]
	rank := ksq.Rank()

	tryCastle := func(kingSide bool) {
		if !pos.CastlingRights.CanCastle(us, kingSide) {
			return
		}
		var kingTo, rookFrom, rookTo Square
		var emptySquares Bitboard
		if kingSide {
			kingTo = NewSquare(6, rank)
			rookFrom = NewSquare(7, rank)
			rookTo = NewSquare(5, rank)
			emptySquares = SquareBB(NewSquare(5, rank)) | SquareBB(NewSquare(6, rank))
		} else {
			kingTo = NewSquare(2, rank)
			rookFrom = NewSquare(0, rank)
			rookTo = NewSquare(3, rank)
			emptySquares = SquareBB(NewSquare(1, rank)) | SquareBB(NewSquare(2, rank)) | SquareBB(NewSquare(3, rank))
		}
		if pos.AllOccupied&emptySquares != 0 {
			return
		}
		passedThrough := Between(ksq, kingTo) | SquareBB(kingTo)
		if passedThrough&mg.attackedByThem != 0 {
			return
		}
		ml.Add(CastleMove{FromSq: ksq, ToSq: kingTo, RookFromSq: rookFrom, RookToSq: rookTo})
	}

	tryCastle(true)
	tryCastle(false)
}

func (mg *MoveGenerator) generatePieceMoves(ml *MoveList, pt PieceType, capturesOnly bool) {
	pos := mg.pos
	us := pos.SideToMove
	pieces := pos.Pieces[us][pt]
	for pieces != 0 {
		from := pieces.PopLSB()
		var attacks Bitboard
		switch pt {
		case Knight:
			attacks = KnightAttacks(from)
		case Bishop:
			attacks = BishopAttacks(from, pos.AllOccupied)
		case Rook:
			attacks = RookAttacks(from, pos.AllOccupied)
		case Queen:
			attacks = QueenAttacks(from, pos.AllOccupied)
		}
		targets := attacks &^ pos.Occupied[us] & mg.allowedTargets[from]
		if capturesOnly {
			targets &= pos.Occupied[us.Other()]
		}
		for targets != 0 {
			to := targets.PopLSB()
			ml.Add(NormalMove{FromSq: from, ToSq: to, MovedPiece: NewPiece(pt, us), CapturedPiece: pos.PieceAt(to)})
		}
	}
}

func (mg *MoveGenerator) generatePawnMoves(ml *MoveList, capturesOnly bool) {
	pos := mg.pos
	us := pos.SideToMove
	them := us.Other()
	pawns := pos.Pieces[us][Pawn]

	lastRank := Rank8
	startRank := Rank2
	if us == Black {
		lastRank = Rank1
		startRank = Rank7
	}

	for p := pawns; p != 0; {
		from := p.PopLSB()
		allowed := mg.allowedTargets[from]

		if capturesOnly {
			// A push onto the last rank promotes, so it belongs in the
			// captures-only list even though it takes nothing.
			promo := pawnPushes[us][from] &^ pos.AllOccupied & lastRank
			if promo&allowed != 0 {
				mg.addPawnAdvance(ml, us, from, promo.LSB(), lastRank, NoPiece)
			}
		} else {
			single := pawnPushes[us][from] &^ pos.AllOccupied
			if single != 0 {
				to := single.LSB()
				if single&allowed != 0 {
					mg.addPawnAdvance(ml, us, from, to, lastRank, NoPiece)
				}
				if SquareBB(from)&startRank != 0 {
					double := pawnPushes[us][to] &^ pos.AllOccupied
					if double != 0 {
						to2 := double.LSB()
						if double&allowed != 0 {
							ml.Add(DoublePawnMove{FromSq: from, ToSq: to2})
						}
					}
				}
			}
		}

		captures := pawnAttacks[us][from] & pos.Occupied[them] & allowed
		for captures != 0 {
			to := captures.PopLSB()
			mg.addPawnAdvance(ml, us, from, to, lastRank, pos.PieceAt(to))
		}

		if pos.EnPassant != NoSquare && pawnAttacks[us][from]&SquareBB(pos.EnPassant) != 0 {
			if allowed&SquareBB(pos.EnPassant) != 0 || mg.enPassantCapturesChecker() {
				capturedSq := enPassantCapturedSquare(pos.EnPassant, us)
				if mg.isEnPassantLegal(from, capturedSq) {
					ml.Add(EnPassantMove{FromSq: from, ToSq: pos.EnPassant})
				}
			}
		}
	}
}

// enPassantCapturesChecker reports whether the single checking piece is the
// pawn an en-passant capture would remove — the ep destination square
// itself is never the attacker square, so allowedTargets[from] alone
// doesn't authorize it even though capturing away the checker is legal.
func (mg *MoveGenerator) enPassantCapturesChecker() bool {
	if mg.numCheckers != 1 {
		return false
	}
	capturedSq := enPassantCapturedSquare(mg.pos.EnPassant, mg.pos.SideToMove)
	return mg.checkers&SquareBB(capturedSq) != 0
}

func enPassantCapturedSquare(epSquare Square, us Color) Square {
	if us == White {
		return NewSquare(epSquare.File(), epSquare.Rank()-1)
	}
	return NewSquare(epSquare.File(), epSquare.Rank()+1)
}

// isEnPassantLegal implements spec §4.1's horizontal discovered-check
// special case: if the king and the capturing pawn share a rank, remove
// both pawns and scan toward the king along the rank; an enemy rook/queen
// first hit makes the capture illegal.
func (mg *MoveGenerator) isEnPassantLegal(from, capturedSq Square) bool {
	pos := mg.pos
	us := pos.SideToMove
	them := us.Other()
	ksq := pos.KingSquare[us]

	if ksq.Rank() != from.Rank() {
		return true
	}

	occ := pos.AllOccupied &^ SquareBB(from) &^ SquareBB(capturedSq)
	attackers := RookAttacks(ksq, occ) & (pos.Pieces[them][Rook] | pos.Pieces[them][Queen])
	for attackers != 0 {
		sq := attackers.PopLSB()
		if sq.Rank() == ksq.Rank() {
			return false
		}
	}
	return true
}

func (mg *MoveGenerator) addPawnAdvance(ml *MoveList, us Color, from, to Square, lastRank Bitboard, captured Piece) {
	if SquareBB(to)&lastRank != 0 {
		for _, promo := range [...]PieceType{Queen, Rook, Bishop, Knight} {
			ml.Add(PromotionMove{FromSq: from, ToSq: to, PromotionPiece: promo, CapturedPiece: captured})
		}
		return
	}
	ml.Add(NormalMove{FromSq: from, ToSq: to, MovedPiece: NewPiece(Pawn, us), CapturedPiece: captured})
}
