// Package webp walks RIFF/WebP containers to read and rewrite the EXIF
// chunk.
//
// RIFF layout: "RIFF"(4) + size(4, little-endian) + "WEBP"(4), followed by
// chunks of type(4, ASCII) + size(4, little-endian) + payload. Chunk sizes
// are little-endian, unlike PNG's big-endian; that asymmetry is part of
// the format and preserved exactly.
package webp

import (
	"github.com/BDiopXV/genmeta/internal/binary"
	"github.com/BDiopXV/genmeta/internal/types"
)

// headerLen is the RIFF preamble: "RIFF" + file size + "WEBP".
const headerLen = 12

// Chunk is a transient view of one RIFF chunk.
type Chunk struct {
	Offset     int64 // start of the 8-byte chunk header
	FourCC     string
	Length     uint32
	DataOffset int64
}

// End returns the offset just past the chunk payload.
func (c Chunk) End() int64 {
	return c.DataOffset + int64(c.Length)
}

// CheckHeader reports whether the source begins with a RIFF/WEBP header.
func CheckHeader(sr *binary.SafeReader) bool {
	if sr.Size() < headerLen {
		return false
	}
	buf := make([]byte, headerLen)
	if err := sr.ReadAt(buf, 0, "RIFF header"); err != nil {
		return false
	}
	return string(buf[:4]) == "RIFF" && string(buf[8:12]) == "WEBP"
}

// FindChunk scans the chunk stream for the first chunk with the given
// four-character code, skipping non-matching chunks by advancing the
// cursor past their declared payload length. Returns found=false when the
// source is exhausted without a match; the error is non-nil only when the
// container header itself is invalid.
func FindChunk(sr *binary.SafeReader, fourCC string) (Chunk, bool, error) {
	if !CheckHeader(sr) {
		return Chunk{}, false, &types.UnsupportedFormatError{
			Path:   sr.Path(),
			Reason: "not a RIFF/WebP container",
		}
	}

	offset := int64(headerLen)
	for offset+8 <= sr.Size() {
		typBuf := make([]byte, 4)
		if err := sr.ReadAt(typBuf, offset, "chunk type"); err != nil {
			break
		}
		length, err := binary.ReadLE[uint32](sr, offset+4, "chunk length")
		if err != nil {
			break
		}

		c := Chunk{
			Offset:     offset,
			FourCC:     string(typBuf),
			Length:     length,
			DataOffset: offset + 8,
		}
		if c.End() > sr.Size() {
			// Truncated trailing chunk; stop walking.
			break
		}
		if c.FourCC == fourCC {
			return c, true, nil
		}
		offset = c.End()
	}

	return Chunk{}, false, nil
}
