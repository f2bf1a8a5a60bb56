package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BDiopXV/genmeta/internal/binary"
	"github.com/BDiopXV/genmeta/internal/mp4"
)

// Diagnostic tool: prints the atom tree of an ISO-BMFF file so new
// comment locations can be confirmed against real generator output.
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: atomdump <file.mp4>")
		os.Exit(1)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	sr := binary.NewSafeReader(f, stat.Size(), os.Args[1])
	dumpAtoms(sr, 0, stat.Size(), 0)
}

func dumpAtoms(sr *binary.SafeReader, offset, end int64, depth int) {
	indent := strings.Repeat("  ", depth)

	for offset < end {
		atom, ok := mp4.ReadAtomHeader(sr, offset, end)
		if !ok {
			return
		}

		fmt.Printf("%s%s (size: %d, offset: %d)\n", indent, printable(atom.Type), atom.Size, atom.Offset)

		if atom.IsContainer() {
			dumpAtoms(sr, atom.DataOffset(), atom.End(), depth+1)
		}

		offset = atom.End()
	}
}

// printable replaces the © prefix of iTunes-style atom names so output
// stays readable in ASCII terminals.
func printable(atomType string) string {
	return strings.ReplaceAll(atomType, "\xA9", "(c)")
}
