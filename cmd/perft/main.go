package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dylhunn/dragontoothmg"
	"github.com/fatih/color"
	"github.com/pkg/profile"
	"golang.org/x/exp/slices"

	"chess-rules/chessmg"
)

func main() {
	fen := flag.String("fen", chessmg.FENStartPos, "FEN string (defaults to the initial position)")
	depth := flag.Int("depth", 0, "perft depth (required)")
	divide := flag.Bool("divide", false, "print per-move node counts at root")
	repeat := flag.Int("repeat", 1, "repeat perft N times for steadier timings")
	check := flag.Bool("check", false, "cross-check node counts against dragontoothmg")
	show := flag.Bool("print", false, "render the position before running")
	prof := flag.Bool("profile", false, "write a CPU profile to the working directory")
	flag.Parse()

	if *depth <= 0 {
		fmt.Fprintln(os.Stderr, "-depth must be > 0")
		os.Exit(2)
	}

	game, err := chessmg.NewGameFromFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse fen: %v\n", err)
		os.Exit(2)
	}

	if *show {
		printBoard(game)
	}

	if *divide {
		div := chessmg.PerftDivide(game, *depth)
		lines := make([]string, 0, len(div))
		var sum uint64
		for m, n := range div {
			lines = append(lines, fmt.Sprintf("%s: %d", m, n))
			sum += n
		}
		slices.Sort(lines)
		for _, l := range lines {
			fmt.Println(l)
		}
		color.New(color.Bold).Printf("Total: %d\n", sum)
		return
	}

	if *prof {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	var nodes uint64
	start := time.Now()
	for i := 0; i < *repeat; i++ {
		nodes = chessmg.Perft(game, *depth)
	}
	elapsed := time.Since(start)
	nps := float64(nodes) * float64(*repeat) / elapsed.Seconds()
	color.New(color.FgGreen).Printf("depth %d\tnodes %d\ttime %s\tnps %.0f\n", *depth, nodes, elapsed, nps)

	if *check {
		ref := dragontoothmg.ParseFen(*fen)
		refNodes := referencePerft(&ref, *depth)
		if refNodes != nodes {
			color.New(color.FgRed).Printf("MISMATCH: dragontoothmg reports %d nodes\n", refNodes)
			os.Exit(1)
		}
		fmt.Printf("dragontoothmg agrees: %d nodes\n", refNodes)
	}
}

// referencePerft walks the same tree with dragontoothmg. The two libraries
// number squares differently, so only node counts are comparable.
func referencePerft(b *dragontoothmg.Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	moves := b.GenerateLegalMoves()
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, m := range moves {
		undo := b.Apply(m)
		nodes += referencePerft(b, depth-1)
		undo()
	}
	return nodes
}

var pieceSymbols = [6]byte{'p', 'n', 'b', 'r', 'q', 'k'}

func printBoard(g chessmg.Game) {
	whitePiece := color.New(color.FgHiWhite, color.Bold)
	blackPiece := color.New(color.FgHiCyan)
	frame := color.New(color.Faint)
	board := g.Board()
	for r := 0; r < 8; r++ {
		frame.Printf(" %d ", 8-r)
		for f := 0; f < 8; f++ {
			c, k, occupied := board.At(chessmg.Square(r*8 + f))
			switch {
			case !occupied:
				frame.Print(" . ")
			case c == chessmg.White:
				whitePiece.Printf(" %c ", pieceSymbols[k]-'a'+'A')
			default:
				blackPiece.Printf(" %c ", pieceSymbols[k])
			}
		}
		fmt.Println()
	}
	frame.Println("    a  b  c  d  e  f  g  h")
	fmt.Printf("%s to move, castling %04b, ep %s, halfmove %d, fullmove %d\n",
		g.SideToMove(), g.Castling(), g.EnPassantSquare(), g.HalfmoveClock(), g.FullmoveNumber())
}
