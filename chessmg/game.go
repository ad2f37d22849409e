package chessmg

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFEN reports a malformed or inconsistent FEN string.
	ErrInvalidFEN = errors.New("invalid fen")
	// ErrIllegalMove reports a move that matches no legal move.
	ErrIllegalMove = errors.New("illegal move")
	// ErrInvalidSquare reports a square index outside 0..63.
	ErrInvalidSquare = errors.New("invalid square")
)

// CastlingRights is the 4-bit availability mask.
type CastlingRights uint8

const (
	CastleWhiteKS CastlingRights = 1 << iota
	CastleWhiteQS
	CastleBlackKS
	CastleBlackQS
)

// Status classifies a position.
type Status uint8

const (
	StatusActive Status = iota
	StatusCheckmate
	StatusStalemate
	StatusDraw
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCheckmate:
		return "checkmate"
	case StatusStalemate:
		return "stalemate"
	case StatusDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Game is an immutable position. MakeMove returns a new Game; a Game that
// has been handed out never changes afterwards, so positions can be kept,
// compared and replayed freely.
type Game struct {
	board    Board
	side     Color
	castling CastlingRights
	epSquare Square
	halfmove int
	fullmove int
	kingSq   [2]Square
	hash     uint64

	// history holds the Zobrist hashes of the positions before each move
	// played, oldest first. The current position's hash is not included.
	history []uint64
}

// NewGame returns the standard starting position.
func NewGame() Game {
	g, err := NewGameFromFEN(FENStartPos)
	if err != nil {
		panic("chessmg: starting position failed to parse: " + err.Error())
	}
	return g
}

// Board returns the position's board.
func (g Game) Board() Board { return g.board }

// SideToMove returns the color to play.
func (g Game) SideToMove() Color { return g.side }

// Castling returns the castling availability mask.
func (g Game) Castling() CastlingRights { return g.castling }

// EnPassantSquare returns the en-passant target square or NoSquare.
func (g Game) EnPassantSquare() Square { return g.epSquare }

// HalfmoveClock returns the half-moves since the last pawn move or capture.
func (g Game) HalfmoveClock() int { return g.halfmove }

// FullmoveNumber returns the full-move counter.
func (g Game) FullmoveNumber() int { return g.fullmove }

// KingSquare returns the cached king square for the given color.
func (g Game) KingSquare(c Color) Square { return g.kingSq[c] }

// Hash returns the position's Zobrist hash.
func (g Game) Hash() uint64 { return g.hash }

// MakeMove plays a move and returns the resulting position. The move must
// come from LegalMoves for this position; callers that cannot guarantee
// that use Move instead.
func (g Game) MakeMove(m Move) Game {
	from, to := m.From(), m.To()
	us := g.side
	them := us.Other()

	moverKind := g.board.kindAt(us, from)
	capturedKind := NoPieceKind
	capSq := to
	if m.Special() == SpecialEnPassant {
		capSq = to + 8
		if us == Black {
			capSq = to - 8
		}
		capturedKind = Pawn
	} else if g.board.occ[them]&squareBit(to) != 0 {
		capturedKind = g.board.kindAt(them, to)
	}

	next := g
	next.board = g.board.apply(m, us)
	next.side = them
	next.castling = g.castling & castlingKeep[from] & castlingKeep[to]

	next.epSquare = NoSquare
	if moverKind == Pawn && (to-from == 16 || from-to == 16) {
		next.epSquare = (from + to) / 2
	}

	if moverKind == Pawn || capturedKind != NoPieceKind {
		next.halfmove = 0
	} else {
		next.halfmove = g.halfmove + 1
	}
	if us == Black {
		next.fullmove = g.fullmove + 1
	}
	if moverKind == King {
		next.kingSq[us] = to
	}

	next.hash = updateHash(g.hash, m, us, moverKind, capturedKind, capSq,
		g.castling, next.castling, g.epSquare, next.epSquare)

	// The full-capacity reslice forces append to copy, so the new Game
	// never aliases a history backing array shared with its parent.
	next.history = append(g.history[:len(g.history):len(g.history)], g.hash)
	return next
}

// Move validates and plays a move given by coordinates and an optional
// promotion kind (NoPieceKind for none). It returns ErrInvalidSquare for
// out-of-range squares and ErrIllegalMove when no legal move matches.
func (g Game) Move(from, to Square, promotion PieceKind) (Game, error) {
	if !from.Valid() {
		return Game{}, fmt.Errorf("%w: from %d", ErrInvalidSquare, from)
	}
	if !to.Valid() {
		return Game{}, fmt.Errorf("%w: to %d", ErrInvalidSquare, to)
	}
	promo := promoFromKind(promotion)
	var buf [MaxMoves]Move
	for _, m := range g.generate(buf[:0], false) {
		if m.From() == from && m.To() == to && m.Promo() == promo {
			return g.MakeMove(m), nil
		}
	}
	return Game{}, fmt.Errorf("%w: %s%s", ErrIllegalMove, from, to)
}

// InCheck reports whether the side to move is in check.
func (g Game) InCheck() bool {
	return g.board.attackedBy(g.kingSq[g.side], g.side.Other(), g.board.all)
}

// Checkmate reports whether the side to move is checkmated.
func (g Game) Checkmate() bool {
	return g.InCheck() && !g.HasAnyLegalMove()
}

// Stalemate reports whether the side to move is stalemated.
func (g Game) Stalemate() bool {
	return !g.InCheck() && !g.HasAnyLegalMove()
}

// Draw reports whether the position is drawn by the 50-move rule,
// repetition, or insufficient material.
func (g Game) Draw() bool {
	return g.drawByFiftyMoves() || g.drawByRepetition() || g.insufficientMaterial()
}

// Status classifies the position. Mate and stalemate take precedence over
// the draw rules.
func (g Game) Status() Status {
	if !g.HasAnyLegalMove() {
		if g.InCheck() {
			return StatusCheckmate
		}
		return StatusStalemate
	}
	if g.Draw() {
		return StatusDraw
	}
	return StatusActive
}

func (g Game) drawByFiftyMoves() bool { return g.halfmove >= 100 }

// drawByRepetition scans back through the hash history, but no further
// than the halfmove clock: positions before the last irreversible move
// cannot recur. Two prior occurrences of the current hash mean the
// position has been seen three times, the claimable threefold threshold.
func (g Game) drawByRepetition() bool {
	n := len(g.history)
	limit := g.halfmove
	if limit > n {
		limit = n
	}
	matches := 0
	for i := 1; i <= limit; i++ {
		if g.history[n-i] == g.hash {
			matches++
			if matches >= 2 {
				return true
			}
		}
	}
	return false
}

// insufficientMaterial classifies the dead positions by total piece count:
// bare kings, a lone minor, or one bishop each on same-colored squares.
func (g Game) insufficientMaterial() bool {
	b := &g.board
	switch PopCount(b.all) {
	case 2:
		return true
	case 3:
		heavy := b.pieces[White][Rook] | b.pieces[White][Queen] | b.pieces[White][Pawn] |
			b.pieces[Black][Rook] | b.pieces[Black][Queen] | b.pieces[Black][Pawn]
		return heavy == 0
	case 4:
		wb := b.pieces[White][Bishop]
		bb := b.pieces[Black][Bishop]
		kings := b.pieces[White][King] | b.pieces[Black][King]
		if PopCount(wb) != 1 || PopCount(bb) != 1 || kings|wb|bb != b.all {
			return false
		}
		ws, bs := Lsb(wb), Lsb(bb)
		return (ws.Rank()+ws.File())%2 == (bs.Rank()+bs.File())%2
	}
	return false
}
