package chessmg

// Square identifies a board cell, a8=0 through h1=63.
type Square int

// NoSquare marks the absence of a square (empty bitboard, no en passant).
const NoSquare Square = -1

const (
	A8 Square = iota
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A1
	B1
	C1
	D1
	E1
	F1
	G1
	H1
)

const (
	maskAll uint64 = 0xFFFFFFFFFFFFFFFF

	maskFileA uint64 = 0x0101010101010101
	maskFileH uint64 = 0x8080808080808080

	// Ranks by chess name; rank 8 occupies the low byte.
	maskRank8 uint64 = 0xFF
	maskRank7 uint64 = 0xFF << 8
	maskRank6 uint64 = 0xFF << 16
	maskRank5 uint64 = 0xFF << 24
	maskRank4 uint64 = 0xFF << 32
	maskRank3 uint64 = 0xFF << 40
	maskRank2 uint64 = 0xFF << 48
	maskRank1 uint64 = 0xFF << 56
)

// Castling geometry. "Empty" masks are the squares between rook and king
// that must be unoccupied; "path" masks are the squares the king traverses
// (destination included) that must not be attacked.
const (
	maskCastleWhiteKSEmpty = uint64(1)<<uint(F1) | uint64(1)<<uint(G1)
	maskCastleWhiteQSEmpty = uint64(1)<<uint(B1) | uint64(1)<<uint(C1) | uint64(1)<<uint(D1)
	maskCastleBlackKSEmpty = uint64(1)<<uint(F8) | uint64(1)<<uint(G8)
	maskCastleBlackQSEmpty = uint64(1)<<uint(B8) | uint64(1)<<uint(C8) | uint64(1)<<uint(D8)

	maskCastleWhiteKSPath = uint64(1)<<uint(F1) | uint64(1)<<uint(G1)
	maskCastleWhiteQSPath = uint64(1)<<uint(C1) | uint64(1)<<uint(D1)
	maskCastleBlackKSPath = uint64(1)<<uint(F8) | uint64(1)<<uint(G8)
	maskCastleBlackQSPath = uint64(1)<<uint(C8) | uint64(1)<<uint(D8)
)

// castlingKeep[sq] is ANDed into the rights on every move: moving the king
// or a rook off its home square, or capturing onto a rook home square,
// clears the matching rights.
var castlingKeep = func() [64]CastlingRights {
	var t [64]CastlingRights
	for sq := range t {
		t[sq] = CastleWhiteKS | CastleWhiteQS | CastleBlackKS | CastleBlackQS
	}
	t[E1] &^= CastleWhiteKS | CastleWhiteQS
	t[H1] &^= CastleWhiteKS
	t[A1] &^= CastleWhiteQS
	t[E8] &^= CastleBlackKS | CastleBlackQS
	t[H8] &^= CastleBlackKS
	t[A8] &^= CastleBlackQS
	return t
}()

// File returns the 0-based file index (0 = file a).
func (sq Square) File() int { return int(sq) & 7 }

// Rank returns the 0-based rank index counted from the top (0 = rank 8).
func (sq Square) Rank() int { return int(sq) >> 3 }

// Valid reports whether sq lies on the board.
func (sq Square) Valid() bool { return sq >= 0 && sq <= 63 }

// String renders the square in algebraic notation ("a8" for square 0).
func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File()), byte('8' - sq.Rank())})
}

// SquareFromString parses an algebraic square such as "e4".
func SquareFromString(s string) (Square, bool) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return NoSquare, false
	}
	return Square(int('8'-s[1])*8 + int(s[0]-'a')), true
}
