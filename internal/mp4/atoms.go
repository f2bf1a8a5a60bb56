// Package mp4 walks ISO-BMFF atom trees to recover embedded comment
// payloads from the moov/udta/meta/ilst/©cmt/data chain.
package mp4

import (
	"github.com/BDiopXV/genmeta/internal/binary"
)

// Atom represents an ISO-BMFF atom (box) header.
type Atom struct {
	Size     uint64 // Total size including header
	Type     string // 4-character type code
	Offset   int64  // Position in file
	Extended bool   // Whether this uses 64-bit extended size
}

// HeaderSize returns the size of the atom header (8, or 16 with an
// extended 64-bit size field).
func (a *Atom) HeaderSize() uint64 {
	if a.Extended {
		return 16
	}
	return 8
}

// DataSize returns the size of the atom's data (excluding header).
func (a *Atom) DataSize() uint64 {
	hs := a.HeaderSize()
	if a.Size < hs {
		return 0
	}
	return a.Size - hs
}

// DataOffset returns the file offset where the atom's data starts.
func (a *Atom) DataOffset() int64 {
	return a.Offset + int64(a.HeaderSize())
}

// End returns the offset just past the atom.
func (a *Atom) End() int64 {
	return a.Offset + int64(a.Size)
}

// IsContainer returns true if this atom type can contain other atoms.
// The meta atom is a container too, but carries 4 bytes of version+flags
// before its children; see ExtractComment.
func (a *Atom) IsContainer() bool {
	containerTypes := map[string]bool{
		"moov": true, // Movie container
		"udta": true, // User data
		"ilst": true, // Metadata item list
		"trak": true, // Track container
		"mdia": true, // Media container
		"minf": true, // Media information
		"stbl": true, // Sample table
	}
	return containerTypes[a.Type]
}

// ReadAtomHeader reads an atom header at the given offset.
//
// end is the exclusive bound of the enclosing container: a 32-bit size
// field of exactly 0 means "atom extends to end of parent container" and
// must be resolved against that bound, never taken literally. A size field
// of exactly 1 signals a 64-bit extended size following the type tag.
//
// ok is false when the header itself cannot be read or the declared size
// is smaller than the header (a corrupt-atom condition) — the caller must
// stop walking rather than loop or read negative lengths.
func ReadAtomHeader(sr *binary.SafeReader, offset, end int64) (atom *Atom, ok bool) {
	size32, err := binary.Read[uint32](sr, offset, "atom size")
	if err != nil {
		return nil, false
	}

	typeBytes := make([]byte, 4)
	if err := sr.ReadAt(typeBytes, offset+4, "atom type"); err != nil {
		return nil, false
	}

	atom = &Atom{
		Type:   string(typeBytes),
		Offset: offset,
	}

	switch size32 {
	case 1:
		// Extended 64-bit size follows the type tag.
		size64, err := binary.Read[uint64](sr, offset+8, "extended atom size")
		if err != nil {
			return nil, false
		}
		atom.Size = size64
		atom.Extended = true
	case 0:
		// Atom extends to the end of the parent container.
		if end <= offset {
			return nil, false
		}
		atom.Size = uint64(end - offset)
	default:
		atom.Size = uint64(size32)
	}

	if atom.Size < atom.HeaderSize() {
		return nil, false
	}
	if atom.End() > end {
		// Declared size overruns the parent; treat as truncated.
		return nil, false
	}

	return atom, true
}
