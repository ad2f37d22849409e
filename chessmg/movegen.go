package chessmg

// MaxMoves bounds the number of legal moves in any reachable position; a
// caller-supplied buffer of this size never reallocates.
const MaxMoves = 218

// allOnesPins is the shared default pin-mask array for positions without a
// single pinned piece, so the common case skips initializing 64 entries.
var allOnesPins = func() [64]uint64 {
	var t [64]uint64
	for i := range t {
		t[i] = maskAll
	}
	return t
}()

// LegalMoves returns every legal move in the position.
func (g Game) LegalMoves() []Move {
	return g.generate(make([]Move, 0, 64), false)
}

// LegalMovesInto appends every legal move into dst (truncated to length
// zero first) and returns it. The hot path for bulk replay: with a buffer
// of MaxMoves capacity no allocation happens.
func (g Game) LegalMovesInto(dst []Move) []Move {
	return g.generate(dst[:0], false)
}

// LegalMoveInfos returns the legal moves in unpacked struct form, for
// callers that prefer fields over the packed scalar.
func (g Game) LegalMoveInfos() []MoveInfo {
	var buf [MaxMoves]Move
	moves := g.generate(buf[:0], false)
	infos := make([]MoveInfo, len(moves))
	for i, m := range moves {
		infos[i] = m.Unpack()
	}
	return infos
}

// HasAnyLegalMove reports whether the side to move has a legal move,
// stopping at the first one found.
func (g Game) HasAnyLegalMove() bool {
	var buf [1]Move
	return len(g.generate(buf[:0], true)) > 0
}

// generate is the legal-only move generator. Legality is enforced by
// construction: king moves avoid the danger set, everything else is
// filtered through the check mask and per-square pin masks, and en passant
// carries its own discovered-check guard. No emitted move is ever taken
// back.
func (g *Game) generate(moves []Move, stopFirst bool) []Move {
	us := g.side
	them := us.Other()
	b := &g.board
	ownOcc := b.occ[us]
	oppOcc := b.occ[them]
	allOcc := b.all
	ksq := g.kingSq[us]

	// Danger: squares attacked by the opponent with our king removed from
	// the occupancy, so sliders see through it.
	danger := b.attackSet(them, allOcc&^squareBit(ksq))

	// King moves are legal regardless of how many pieces give check.
	for t := kingAttacks[ksq] &^ ownOcc &^ danger; t != 0; {
		moves = append(moves, NewMove(ksq, popLsb(&t), PromoNone, SpecialNone))
		if stopFirst {
			return moves
		}
	}

	checkers := b.checkersOn(ksq, them, allOcc)
	if checkers&(checkers-1) != 0 {
		// Double check: only the king may move.
		return moves
	}

	checkMask := maskAll
	inCheck := checkers != 0
	if inCheck {
		csq := Lsb(checkers)
		checkMask = maskBetween[ksq][csq] | checkers
	}

	// Pin masks. Candidate pinners x-ray the king through our pieces:
	// slider attacks computed against the opponent occupancy alone leave
	// our pieces transparent. A candidate with exactly one of our pieces
	// on the between-ray pins it to that ray.
	oppRQ := b.pieces[them][Rook] | b.pieces[them][Queen]
	oppBQ := b.pieces[them][Bishop] | b.pieces[them][Queen]
	pins := &allOnesPins
	var pinned [64]uint64
	snipers := (RookAttacks(ksq, oppOcc) & oppRQ) | (BishopAttacks(ksq, oppOcc) & oppBQ)
	for s := snipers; s != 0; {
		sniper := popLsb(&s)
		ray := maskBetween[ksq][sniper] & ownOcc
		if ray != 0 && ray&(ray-1) == 0 {
			if pins == &allOnesPins {
				pinned = allOnesPins
				pins = &pinned
			}
			pins[Lsb(ray)] = maskBetween[ksq][sniper] | squareBit(sniper)
		}
	}

	// Knights. A pinned knight can never stay on its pin ray, so the AND
	// with the pin mask removes all of its moves.
	for n := b.pieces[us][Knight]; n != 0; {
		from := popLsb(&n)
		for t := knightAttacks[from] &^ ownOcc & checkMask & pins[from]; t != 0; {
			moves = append(moves, NewMove(from, popLsb(&t), PromoNone, SpecialNone))
			if stopFirst {
				return moves
			}
		}
	}

	// Sliders.
	for s := b.pieces[us][Bishop]; s != 0; {
		from := popLsb(&s)
		for t := BishopAttacks(from, allOcc) &^ ownOcc & checkMask & pins[from]; t != 0; {
			moves = append(moves, NewMove(from, popLsb(&t), PromoNone, SpecialNone))
			if stopFirst {
				return moves
			}
		}
	}
	for s := b.pieces[us][Rook]; s != 0; {
		from := popLsb(&s)
		for t := RookAttacks(from, allOcc) &^ ownOcc & checkMask & pins[from]; t != 0; {
			moves = append(moves, NewMove(from, popLsb(&t), PromoNone, SpecialNone))
			if stopFirst {
				return moves
			}
		}
	}
	for s := b.pieces[us][Queen]; s != 0; {
		from := popLsb(&s)
		for t := QueenAttacks(from, allOcc) &^ ownOcc & checkMask & pins[from]; t != 0; {
			moves = append(moves, NewMove(from, popLsb(&t), PromoNone, SpecialNone))
			if stopFirst {
				return moves
			}
		}
	}

	// Pawns, generated in bulk per direction.
	pawns := b.pieces[us][Pawn]
	empty := ^allOcc
	if us == White {
		single := shiftNorth(pawns) & empty
		for t := single; t != 0; {
			to := popLsb(&t)
			from := to + 8
			if squareBit(to)&checkMask&pins[from] == 0 {
				continue
			}
			if to <= H8 {
				moves = appendPromotions(moves, from, to)
			} else {
				moves = append(moves, NewMove(from, to, PromoNone, SpecialNone))
			}
			if stopFirst {
				return moves
			}
		}
		for t := shiftNorth(single&maskRank3) & empty; t != 0; {
			to := popLsb(&t)
			from := to + 16
			if squareBit(to)&checkMask&pins[from] == 0 {
				continue
			}
			moves = append(moves, NewMove(from, to, PromoNone, SpecialNone))
			if stopFirst {
				return moves
			}
		}
		for p := pawns; p != 0; {
			from := popLsb(&p)
			for t := pawnAttacks[White][from] & oppOcc & checkMask & pins[from]; t != 0; {
				to := popLsb(&t)
				if to <= H8 {
					moves = appendPromotions(moves, from, to)
				} else {
					moves = append(moves, NewMove(from, to, PromoNone, SpecialNone))
				}
				if stopFirst {
					return moves
				}
			}
		}
		if g.epSquare != NoSquare {
			moves = g.generateEnPassant(moves, White, ksq, checkMask, pins, oppRQ)
			if stopFirst && len(moves) > 0 {
				return moves
			}
		}
	} else {
		single := shiftSouth(pawns) & empty
		for t := single; t != 0; {
			to := popLsb(&t)
			from := to - 8
			if squareBit(to)&checkMask&pins[from] == 0 {
				continue
			}
			if to >= A1 {
				moves = appendPromotions(moves, from, to)
			} else {
				moves = append(moves, NewMove(from, to, PromoNone, SpecialNone))
			}
			if stopFirst {
				return moves
			}
		}
		for t := shiftSouth(single&maskRank6) & empty; t != 0; {
			to := popLsb(&t)
			from := to - 16
			if squareBit(to)&checkMask&pins[from] == 0 {
				continue
			}
			moves = append(moves, NewMove(from, to, PromoNone, SpecialNone))
			if stopFirst {
				return moves
			}
		}
		for p := pawns; p != 0; {
			from := popLsb(&p)
			for t := pawnAttacks[Black][from] & oppOcc & checkMask & pins[from]; t != 0; {
				to := popLsb(&t)
				if to >= A1 {
					moves = appendPromotions(moves, from, to)
				} else {
					moves = append(moves, NewMove(from, to, PromoNone, SpecialNone))
				}
				if stopFirst {
					return moves
				}
			}
		}
		if g.epSquare != NoSquare {
			moves = g.generateEnPassant(moves, Black, ksq, checkMask, pins, oppRQ)
			if stopFirst && len(moves) > 0 {
				return moves
			}
		}
	}

	// Castling is never available while in check. The rook-presence probes
	// guard against FENs whose rights disagree with the placement.
	if !inCheck {
		ownRooks := b.pieces[us][Rook]
		if us == White {
			if g.castling&CastleWhiteKS != 0 && ownRooks&squareBit(H1) != 0 &&
				allOcc&maskCastleWhiteKSEmpty == 0 && danger&maskCastleWhiteKSPath == 0 {
				moves = append(moves, NewMove(E1, G1, PromoNone, SpecialKingsideCastle))
				if stopFirst {
					return moves
				}
			}
			if g.castling&CastleWhiteQS != 0 && ownRooks&squareBit(A1) != 0 &&
				allOcc&maskCastleWhiteQSEmpty == 0 && danger&maskCastleWhiteQSPath == 0 {
				moves = append(moves, NewMove(E1, C1, PromoNone, SpecialQueensideCastle))
			}
		} else {
			if g.castling&CastleBlackKS != 0 && ownRooks&squareBit(H8) != 0 &&
				allOcc&maskCastleBlackKSEmpty == 0 && danger&maskCastleBlackKSPath == 0 {
				moves = append(moves, NewMove(E8, G8, PromoNone, SpecialKingsideCastle))
				if stopFirst {
					return moves
				}
			}
			if g.castling&CastleBlackQS != 0 && ownRooks&squareBit(A8) != 0 &&
				allOcc&maskCastleBlackQSEmpty == 0 && danger&maskCastleBlackQSPath == 0 {
				moves = append(moves, NewMove(E8, C8, PromoNone, SpecialQueensideCastle))
			}
		}
	}

	return moves
}

// generateEnPassant emits the legal en-passant captures onto g.epSquare.
// The capture either removes the checker (the just-pushed pawn) or blocks
// with the arriving pawn; the capturing pawn must stay on its pin ray; and
// the two-squares-vacated rank is re-probed for a discovered rook or queen
// attack on the king.
func (g *Game) generateEnPassant(moves []Move, us Color, ksq Square, checkMask uint64, pins *[64]uint64, oppRQ uint64) []Move {
	ep := g.epSquare
	capSq := ep + 8
	if us == Black {
		capSq = ep - 8
	}
	if (squareBit(ep)|squareBit(capSq))&checkMask == 0 {
		return moves
	}
	for a := pawnAttacks[us.Other()][ep] & g.board.pieces[us][Pawn]; a != 0; {
		from := popLsb(&a)
		if squareBit(ep)&pins[from] == 0 {
			continue
		}
		occAfter := (g.board.all ^ squareBit(from) ^ squareBit(capSq)) | squareBit(ep)
		if RookAttacks(ksq, occAfter)&oppRQ != 0 {
			continue
		}
		moves = append(moves, NewMove(from, ep, PromoNone, SpecialEnPassant))
	}
	return moves
}

func appendPromotions(moves []Move, from, to Square) []Move {
	return append(moves,
		NewMove(from, to, PromoQueen, SpecialNone),
		NewMove(from, to, PromoRook, SpecialNone),
		NewMove(from, to, PromoBishop, SpecialNone),
		NewMove(from, to, PromoKnight, SpecialNone),
	)
}
