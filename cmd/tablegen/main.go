package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/inhies/go-bytesize"

	"chess-rules/chessmg"
)

// tablegen writes the serialized magic-table bundle that hosts can load at
// startup over the tables the package enumerates at init.
func main() {
	out := flag.String("out", "magic.bundle", "output path for the bundle")
	verify := flag.Bool("verify", true, "re-load the bundle after writing")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create: %v\n", err)
		os.Exit(1)
	}
	if err := chessmg.WriteMagicBundle(f); err != nil {
		fmt.Fprintf(os.Stderr, "write bundle: %v\n", err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "close: %v\n", err)
		os.Exit(1)
	}

	stat, err := os.Stat(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stat: %v\n", err)
		os.Exit(1)
	}
	const inMemory = (102400 + 5248) * 8
	fmt.Printf("wrote %s: %v on disk, %v in memory\n",
		*out, bytesize.New(float64(stat.Size())), bytesize.New(float64(inMemory)))

	if *verify {
		r, err := os.Open(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open: %v\n", err)
			os.Exit(1)
		}
		defer r.Close()
		if err := chessmg.LoadMagicBundle(r); err != nil {
			fmt.Fprintf(os.Stderr, "verify: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("bundle verified")
	}
}
