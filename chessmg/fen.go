package chessmg

import (
	"fmt"
	"strconv"
	"strings"
)

// FENStartPos is the FEN of the standard initial position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func pieceFromChar(ch rune) (Color, PieceKind, bool) {
	switch ch {
	case 'P':
		return White, Pawn, true
	case 'N':
		return White, Knight, true
	case 'B':
		return White, Bishop, true
	case 'R':
		return White, Rook, true
	case 'Q':
		return White, Queen, true
	case 'K':
		return White, King, true
	case 'p':
		return Black, Pawn, true
	case 'n':
		return Black, Knight, true
	case 'b':
		return Black, Bishop, true
	case 'r':
		return Black, Rook, true
	case 'q':
		return Black, Queen, true
	case 'k':
		return Black, King, true
	default:
		return White, NoPieceKind, false
	}
}

func charFromPiece(c Color, k PieceKind) byte {
	chars := [6]byte{'p', 'n', 'b', 'r', 'q', 'k'}
	ch := chars[k]
	if c == White {
		ch -= 'a' - 'A'
	}
	return ch
}

// NewGameFromFEN parses a FEN string into a Game. All six fields are
// required; no partial Game is ever returned on error.
func NewGameFromFEN(fen string) (Game, error) {
	fields := strings.Fields(fen)
	if len(fields) != 6 {
		return Game{}, fmt.Errorf("%w: expected 6 fields, got %d", ErrInvalidFEN, len(fields))
	}

	g := Game{epSquare: NoSquare, kingSq: [2]Square{NoSquare, NoSquare}}

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Game{}, fmt.Errorf("%w: expected 8 ranks, got %d", ErrInvalidFEN, len(ranks))
	}
	for r, rankStr := range ranks {
		file := 0
		for _, ch := range rankStr {
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			c, k, ok := pieceFromChar(ch)
			if !ok {
				return Game{}, fmt.Errorf("%w: unrecognized piece %q", ErrInvalidFEN, ch)
			}
			if file >= 8 {
				return Game{}, fmt.Errorf("%w: rank %d overflows", ErrInvalidFEN, 8-r)
			}
			sq := Square(r*8 + file)
			g.board.put(c, k, sq)
			if k == King {
				g.kingSq[c] = sq
			}
			file++
		}
		if file != 8 {
			return Game{}, fmt.Errorf("%w: rank %d has %d files", ErrInvalidFEN, 8-r, file)
		}
	}
	if PopCount(g.board.pieces[White][King]) != 1 || PopCount(g.board.pieces[Black][King]) != 1 {
		return Game{}, fmt.Errorf("%w: each side needs exactly one king", ErrInvalidFEN)
	}

	switch fields[1] {
	case "w":
		g.side = White
	case "b":
		g.side = Black
	default:
		return Game{}, fmt.Errorf("%w: side to move %q", ErrInvalidFEN, fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				g.castling |= CastleWhiteKS
			case 'Q':
				g.castling |= CastleWhiteQS
			case 'k':
				g.castling |= CastleBlackKS
			case 'q':
				g.castling |= CastleBlackQS
			default:
				return Game{}, fmt.Errorf("%w: castling rights %q", ErrInvalidFEN, fields[2])
			}
		}
	}

	if fields[3] != "-" {
		ep, ok := SquareFromString(fields[3])
		if !ok {
			return Game{}, fmt.Errorf("%w: en passant square %q", ErrInvalidFEN, fields[3])
		}
		g.epSquare = ep
	}

	halfmove, err := strconv.Atoi(fields[4])
	if err != nil || halfmove < 0 {
		return Game{}, fmt.Errorf("%w: halfmove clock %q", ErrInvalidFEN, fields[4])
	}
	g.halfmove = halfmove

	fullmove, err := strconv.Atoi(fields[5])
	if err != nil || fullmove < 1 {
		return Game{}, fmt.Errorf("%w: fullmove number %q", ErrInvalidFEN, fields[5])
	}
	g.fullmove = fullmove

	g.hash = g.computeHash()
	return g, nil
}

// FEN renders the position; a Game built from a valid FEN round-trips to
// the identical string.
func (g Game) FEN() string {
	var sb strings.Builder
	for r := 0; r < 8; r++ {
		empty := 0
		for f := 0; f < 8; f++ {
			c, k, occupied := g.board.At(Square(r*8 + f))
			if !occupied {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte('0' + byte(empty))
				empty = 0
			}
			sb.WriteByte(charFromPiece(c, k))
		}
		if empty > 0 {
			sb.WriteByte('0' + byte(empty))
		}
		if r < 7 {
			sb.WriteByte('/')
		}
	}

	if g.side == White {
		sb.WriteString(" w ")
	} else {
		sb.WriteString(" b ")
	}

	if g.castling == 0 {
		sb.WriteByte('-')
	} else {
		if g.castling&CastleWhiteKS != 0 {
			sb.WriteByte('K')
		}
		if g.castling&CastleWhiteQS != 0 {
			sb.WriteByte('Q')
		}
		if g.castling&CastleBlackKS != 0 {
			sb.WriteByte('k')
		}
		if g.castling&CastleBlackQS != 0 {
			sb.WriteByte('q')
		}
	}
	sb.WriteByte(' ')

	sb.WriteString(g.epSquare.String())

	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(g.halfmove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(g.fullmove))
	return sb.String()
}
