package chessmg

// Move packs a move into 20 bits of a uint32 so a move list is a flat
// sequence of scalars:
//
//	bits 0..5   from square
//	bits 6..11  to square
//	bits 12..14 promotion kind
//	bits 15..17 special flag
type Move uint32

const (
	moveToShift      = 6
	movePromoShift   = 12
	moveSpecialShift = 15
)

// Promo is the promotion field of a packed move.
type Promo uint8

const (
	PromoNone Promo = iota
	PromoKnight
	PromoBishop
	PromoRook
	PromoQueen
)

// Special is the special-move field of a packed move.
type Special uint8

const (
	SpecialNone Special = iota
	SpecialEnPassant
	SpecialKingsideCastle
	SpecialQueensideCastle
)

// MoveInfo is the unpacked struct form of a move.
type MoveInfo struct {
	From    Square
	To      Square
	Promo   Promo
	Special Special
}

// NewMove packs the move components.
func NewMove(from, to Square, promo Promo, special Special) Move {
	return Move(uint32(from)&0x3F |
		(uint32(to)&0x3F)<<moveToShift |
		(uint32(promo)&0x7)<<movePromoShift |
		(uint32(special)&0x7)<<moveSpecialShift)
}

// From returns the source square.
func (m Move) From() Square { return Square(uint32(m) & 0x3F) }

// To returns the destination square.
func (m Move) To() Square { return Square((uint32(m) >> moveToShift) & 0x3F) }

// Promo returns the promotion kind, PromoNone for non-promotions.
func (m Move) Promo() Promo { return Promo((uint32(m) >> movePromoShift) & 0x7) }

// Special returns the special-move flag.
func (m Move) Special() Special { return Special((uint32(m) >> moveSpecialShift) & 0x7) }

// Unpack returns the struct form of the move.
func (m Move) Unpack() MoveInfo {
	return MoveInfo{From: m.From(), To: m.To(), Promo: m.Promo(), Special: m.Special()}
}

// Kind maps a promotion field to its piece kind; PromoNone maps to NoPieceKind.
func (p Promo) Kind() PieceKind {
	switch p {
	case PromoKnight:
		return Knight
	case PromoBishop:
		return Bishop
	case PromoRook:
		return Rook
	case PromoQueen:
		return Queen
	default:
		return NoPieceKind
	}
}

// promoFromKind is the inverse of Promo.Kind for the public move surface.
func promoFromKind(k PieceKind) Promo {
	switch k {
	case Knight:
		return PromoKnight
	case Bishop:
		return PromoBishop
	case Rook:
		return PromoRook
	case Queen:
		return PromoQueen
	default:
		return PromoNone
	}
}

// String renders the move in coordinate notation ("e2e4", "e7e8q").
func (m Move) String() string {
	s := m.From().String() + m.To().String()
	switch m.Promo() {
	case PromoKnight:
		s += "n"
	case PromoBishop:
		s += "b"
	case PromoRook:
		s += "r"
	case PromoQueen:
		s += "q"
	}
	return s
}
