package chessmg_test

import (
	"errors"
	"testing"

	"chess-rules/chessmg"
)

// play finds the legal move with the given coordinates and plays it.
func play(t *testing.T, g chessmg.Game, from, to chessmg.Square) chessmg.Game {
	t.Helper()
	next, err := g.Move(from, to, chessmg.NoPieceKind)
	if err != nil {
		t.Fatalf("move %s%s: %v", from, to, err)
	}
	return next
}

func TestFoolsMateReachesCheckmate(t *testing.T) {
	g := chessmg.NewGame()
	g = play(t, g, chessmg.F2, chessmg.F3)
	g = play(t, g, chessmg.E7, chessmg.E5)
	g = play(t, g, chessmg.G2, chessmg.G4)
	g = play(t, g, chessmg.D8, chessmg.H4)

	if !g.InCheck() {
		t.Fatalf("expected White in check")
	}
	if !g.Checkmate() {
		t.Fatalf("expected checkmate")
	}
	if g.Stalemate() {
		t.Fatalf("mate is not stalemate")
	}
	if got := g.Status(); got != chessmg.StatusCheckmate {
		t.Fatalf("status: got %s want %s", got, chessmg.StatusCheckmate)
	}
}

func TestStalemate(t *testing.T) {
	g := mustParse(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if g.InCheck() {
		t.Fatalf("stalemated side is not in check")
	}
	if !g.Stalemate() {
		t.Fatalf("expected stalemate")
	}
	if got := g.Status(); got != chessmg.StatusStalemate {
		t.Fatalf("status: got %s want %s", got, chessmg.StatusStalemate)
	}
}

func TestKingVersusKingAndBishopIsDraw(t *testing.T) {
	g := mustParse(t, "8/8/8/4k3/8/4K1b1/8/8 w - - 0 1")
	if !g.Draw() {
		t.Fatalf("expected insufficient-material draw")
	}
	if got := g.Status(); got != chessmg.StatusDraw {
		t.Fatalf("status: got %s want %s", got, chessmg.StatusDraw)
	}
}

func TestThreefoldByKnightShuffle(t *testing.T) {
	g := chessmg.NewGame()
	shuffle := [][2]chessmg.Square{
		{chessmg.G1, chessmg.F3}, {chessmg.G8, chessmg.F6},
		{chessmg.F3, chessmg.G1}, {chessmg.F6, chessmg.G8},
	}

	for _, mv := range shuffle {
		g = play(t, g, mv[0], mv[1])
	}
	if g.Draw() {
		t.Fatalf("one cycle is only the second occurrence, not yet a draw")
	}

	for i, mv := range shuffle {
		g = play(t, g, mv[0], mv[1])
		if i < len(shuffle)-1 && g.Draw() {
			t.Fatalf("draw claimed before the position repeated a third time")
		}
	}
	if !g.Draw() {
		t.Fatalf("expected threefold repetition draw after the second cycle")
	}
	if got := g.Status(); got != chessmg.StatusDraw {
		t.Fatalf("status: got %s want %s", got, chessmg.StatusDraw)
	}
}

func TestFiftyMoveRule(t *testing.T) {
	g := mustParse(t, "4k3/8/8/8/8/8/8/4K2R w - - 99 80")
	if g.Draw() {
		t.Fatalf("halfmove 99 is not yet a draw")
	}
	g = play(t, g, chessmg.H1, chessmg.H2)
	if g.HalfmoveClock() != 100 {
		t.Fatalf("halfmove clock: got %d want 100", g.HalfmoveClock())
	}
	if !g.Draw() {
		t.Fatalf("expected fifty-move draw")
	}

	// A capture resets the clock.
	g = mustParse(t, "4k3/8/8/8/8/7r/8/4K2R w - - 99 80")
	g = play(t, g, chessmg.H1, chessmg.H3)
	if g.HalfmoveClock() != 0 {
		t.Fatalf("capture should reset the halfmove clock, got %d", g.HalfmoveClock())
	}
	if g.Draw() {
		t.Fatalf("clock reset, no draw")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	cases := []struct {
		fen  string
		draw bool
	}{
		{"8/8/8/4k3/8/4K3/8/8 w - - 0 1", true},            // bare kings
		{"8/8/8/4k3/8/4K1b1/8/8 w - - 0 1", true},          // lone bishop
		{"8/8/8/4k3/8/4K3/6N1/8 w - - 0 1", true},          // lone knight
		{"8/8/8/4k3/8/4K3/6R1/8 w - - 0 1", false},         // rook mates
		{"8/8/8/4k3/8/4K3/6P1/8 w - - 0 1", false},         // pawn promotes
		{"8/8/8/3bk3/8/3BK3/8/8 w - - 0 1", true},          // bishops, same color
		{"8/8/8/2b1k3/8/3B4/4K3/8 w - - 0 1", false},       // bishops, opposite colors
		{"8/8/8/1n2k3/8/3NK3/8/8 w - - 0 1", false},        // two knights are not dead
		{"8/8/8/3bk3/8/2N1K3/8/8 w - - 0 1", false},        // bishop versus knight
	}
	for _, tc := range cases {
		g := mustParse(t, tc.fen)
		if got := g.Draw(); got != tc.draw {
			t.Fatalf("fen %q: draw = %v, want %v", tc.fen, got, tc.draw)
		}
	}
}

func TestCastlingRightsLostOnRookCapture(t *testing.T) {
	g := mustParse(t, "r3k3/1B6/8/8/8/8/8/4K3 w q - 0 1")
	g = play(t, g, chessmg.B7, chessmg.A8)
	if g.Castling() != 0 {
		t.Fatalf("capturing the a8 rook must clear the q right, got %04b", g.Castling())
	}
	for _, m := range g.LegalMoves() {
		if m.Special() == chessmg.SpecialQueensideCastle {
			t.Fatalf("queenside castle generated after the rook was captured")
		}
	}
}

func TestCastlingRightsLostOnRookMove(t *testing.T) {
	g := mustParse(t, "4k3/8/8/8/8/8/8/R3K2R w KQ - 0 1")
	g2 := play(t, g, chessmg.H1, chessmg.H2)
	if g2.Castling() != chessmg.CastleWhiteQS {
		t.Fatalf("h1 rook move must clear only the K right, got %04b", g2.Castling())
	}
	g3 := play(t, g, chessmg.E1, chessmg.E2)
	if g3.Castling() != 0 {
		t.Fatalf("king move must clear both rights, got %04b", g3.Castling())
	}
}

func TestCastlingUpdatesBoardAndRights(t *testing.T) {
	g := mustParse(t, "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
	var castle chessmg.Move
	for _, m := range g.LegalMoves() {
		if m.Special() == chessmg.SpecialKingsideCastle {
			castle = m
		}
	}
	if castle == 0 {
		t.Fatalf("expected kingside castle to be available")
	}
	g = g.MakeMove(castle)

	board := g.Board()
	if _, k, ok := board.At(chessmg.G1); !ok || k != chessmg.King {
		t.Fatalf("king not on g1 after castling")
	}
	if _, k, ok := board.At(chessmg.F1); !ok || k != chessmg.Rook {
		t.Fatalf("rook not on f1 after castling")
	}
	if _, _, ok := board.At(chessmg.E1); ok {
		t.Fatalf("e1 should be empty after castling")
	}
	if _, _, ok := board.At(chessmg.H1); ok {
		t.Fatalf("h1 should be empty after castling")
	}
	if g.Castling()&(chessmg.CastleWhiteKS|chessmg.CastleWhiteQS) != 0 {
		t.Fatalf("white rights must be gone after castling, got %04b", g.Castling())
	}
	if g.KingSquare(chessmg.White) != chessmg.G1 {
		t.Fatalf("cached king square: got %s want g1", g.KingSquare(chessmg.White))
	}
}

func TestPromotionProducesChosenPiece(t *testing.T) {
	kinds := []chessmg.PieceKind{chessmg.Queen, chessmg.Rook, chessmg.Bishop, chessmg.Knight}
	for _, kind := range kinds {
		g := mustParse(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
		next, err := g.Move(chessmg.A7, chessmg.A8, kind)
		if err != nil {
			t.Fatalf("promotion to %s: %v", kind, err)
		}
		board := next.Board()
		c, k, ok := board.At(chessmg.A8)
		if !ok || c != chessmg.White || k != kind {
			t.Fatalf("promotion to %s: a8 holds %s", kind, k)
		}
		if board.Pieces(chessmg.White, chessmg.Pawn) != 0 {
			t.Fatalf("promotion to %s: pawn still on the board", kind)
		}
	}

	// A promotion without a promotion kind is not a legal move.
	g := mustParse(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
	if _, err := g.Move(chessmg.A7, chessmg.A8, chessmg.NoPieceKind); !errors.Is(err, chessmg.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
}

func TestEnPassantStateMachine(t *testing.T) {
	g := chessmg.NewGame()
	g = play(t, g, chessmg.E2, chessmg.E4)
	if g.EnPassantSquare() != chessmg.E3 {
		t.Fatalf("ep square after e4: got %s want e3", g.EnPassantSquare())
	}
	g = play(t, g, chessmg.D7, chessmg.D5)
	if g.EnPassantSquare() != chessmg.D6 {
		t.Fatalf("ep square after d5: got %s want d6", g.EnPassantSquare())
	}
	g = play(t, g, chessmg.E4, chessmg.E5)
	g = play(t, g, chessmg.F7, chessmg.F5)

	// e5xf6 en passant removes the f5 pawn.
	g = play(t, g, chessmg.E5, chessmg.F6)
	board := g.Board()
	if _, _, ok := board.At(chessmg.F5); ok {
		t.Fatalf("f5 pawn should be captured en passant")
	}
	if _, k, ok := board.At(chessmg.F6); !ok || k != chessmg.Pawn {
		t.Fatalf("capturing pawn should stand on f6")
	}
	if g.EnPassantSquare() != chessmg.NoSquare {
		t.Fatalf("ep square should clear after the capture")
	}
}

func TestMoveErrors(t *testing.T) {
	g := chessmg.NewGame()
	if _, err := g.Move(chessmg.Square(64), chessmg.E4, chessmg.NoPieceKind); !errors.Is(err, chessmg.ErrInvalidSquare) {
		t.Fatalf("expected ErrInvalidSquare, got %v", err)
	}
	if _, err := g.Move(chessmg.E2, chessmg.Square(-2), chessmg.NoPieceKind); !errors.Is(err, chessmg.ErrInvalidSquare) {
		t.Fatalf("expected ErrInvalidSquare, got %v", err)
	}
	if _, err := g.Move(chessmg.E2, chessmg.E5, chessmg.NoPieceKind); !errors.Is(err, chessmg.ErrIllegalMove) {
		t.Fatalf("expected ErrIllegalMove, got %v", err)
	}
	if _, err := g.Move(chessmg.E7, chessmg.E5, chessmg.NoPieceKind); !errors.Is(err, chessmg.ErrIllegalMove) {
		t.Fatalf("moving the opponent's piece must be illegal, got %v", err)
	}
}

// A Game handed out must never change when successors are derived from it.
func TestGamesAreImmutable(t *testing.T) {
	g := chessmg.NewGame()
	fen := g.FEN()
	hash := g.Hash()

	g2 := play(t, g, chessmg.E2, chessmg.E4)
	g3a := play(t, g2, chessmg.E7, chessmg.E5)
	g3b := play(t, g2, chessmg.C7, chessmg.C5)

	if g.FEN() != fen || g.Hash() != hash {
		t.Fatalf("root position mutated")
	}
	if g3a.FEN() == g3b.FEN() {
		t.Fatalf("sibling positions should differ")
	}

	// Replaying the same move twice yields equal positions and hashes.
	r1 := play(t, g2, chessmg.E7, chessmg.E5)
	if r1.FEN() != g3a.FEN() || r1.Hash() != g3a.Hash() {
		t.Fatalf("MakeMove is not referentially transparent")
	}

	// Extending both siblings must not corrupt each other's history.
	g4a := play(t, g3a, chessmg.G1, chessmg.F3)
	g4b := play(t, g3b, chessmg.G1, chessmg.F3)
	if g4a.FEN() == g4b.FEN() {
		t.Fatalf("diverged lines collapsed")
	}
	if g3a.FEN() == g3b.FEN() {
		t.Fatalf("sibling positions mutated after extension")
	}
}

func TestStatusActive(t *testing.T) {
	if got := chessmg.NewGame().Status(); got != chessmg.StatusActive {
		t.Fatalf("status: got %s want %s", got, chessmg.StatusActive)
	}
}
