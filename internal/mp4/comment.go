package mp4

import (
	"github.com/BDiopXV/genmeta/internal/binary"
)

// commentType is the Apple-style comment atom: 0xA9 (the copyright symbol
// byte) followed by "cmt".
const commentType = "\xA9cmt"

// ExtractComment walks the atom tree in [start, end) and returns the raw
// payload of the first ©cmt/data atom found in depth-first order. Multiple
// comments are not aggregated; the first match wins.
//
// Corrupt or truncated atoms stop the walk and report not-found rather
// than surfacing partial results.
func ExtractComment(sr *binary.SafeReader, start, end int64) ([]byte, bool) {
	offset := start
	for offset+8 <= end {
		atom, ok := ReadAtomHeader(sr, offset, end)
		if !ok {
			return nil, false
		}

		switch {
		case atom.Type == commentType:
			if payload, ok := readCommentData(sr, atom); ok {
				return payload, true
			}
		case atom.Type == "meta":
			// A meta atom's payload begins with 4 bytes of version+flags
			// before its children, unlike the plain container types.
			if payload, ok := ExtractComment(sr, atom.DataOffset()+4, atom.End()); ok {
				return payload, true
			}
		case atom.IsContainer():
			if payload, ok := ExtractComment(sr, atom.DataOffset(), atom.End()); ok {
				return payload, true
			}
		}

		offset = atom.End()
	}
	return nil, false
}

// readCommentData finds the data sub-atom inside a ©cmt atom and returns
// its payload after the 8-byte prefix (4-byte type indicator + 4-byte
// locale indicator).
func readCommentData(sr *binary.SafeReader, cmt *Atom) ([]byte, bool) {
	offset := cmt.DataOffset()
	end := cmt.End()

	for offset+8 <= end {
		atom, ok := ReadAtomHeader(sr, offset, end)
		if !ok {
			return nil, false
		}
		if atom.Type == "data" {
			valueOffset := atom.DataOffset() + 8
			valueSize := int64(atom.DataSize()) - 8
			if valueSize < 0 {
				return nil, false
			}
			payload := make([]byte, valueSize)
			if valueSize > 0 {
				if err := sr.ReadAt(payload, valueOffset, "comment payload"); err != nil {
					return nil, false
				}
			}
			return payload, true
		}
		offset = atom.End()
	}
	return nil, false
}
