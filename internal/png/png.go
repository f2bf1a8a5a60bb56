// Package png walks PNG chunk streams to extract and rewrite embedded
// textual metadata.
//
// Chunk layout: length(4, big-endian) + type(4, ASCII) + payload(length) +
// CRC(4). CRCs are read but never verified; validating pixel data is not a
// goal of this package.
package png

import (
	"bytes"
	"fmt"

	"github.com/BDiopXV/genmeta/internal/binary"
	"github.com/BDiopXV/genmeta/internal/types"
)

// Signature is the fixed 8-byte PNG file signature.
var Signature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// iendChunk is the fixed trailer appended by BuildStripped: a zero-length
// IEND payload with its precomputed CRC.
var iendChunk = []byte{0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82}

// ihdrTotal is the byte length of the mandatory IHDR chunk:
// 4 length + 4 type + 13 payload + 4 CRC.
const ihdrTotal = 25

// chunk is a transient view of one chunk while walking the stream.
type chunk struct {
	offset      int64 // start of the 8-byte chunk header
	typ         string
	length      uint32
	dataOffset  int64
	trailerSize int64 // CRC, always 4
}

// end returns the offset just past the chunk's CRC trailer.
func (c chunk) end() int64 {
	return c.dataOffset + int64(c.length) + c.trailerSize
}

// CheckSignature reports whether the source begins with the PNG signature.
func CheckSignature(sr *binary.SafeReader) bool {
	buf := make([]byte, len(Signature))
	if err := sr.ReadAt(buf, 0, "PNG signature"); err != nil {
		return false
	}
	return bytes.Equal(buf, Signature)
}

// readChunkHeader parses the 8-byte chunk header at the given offset.
func readChunkHeader(sr *binary.SafeReader, offset int64) (chunk, error) {
	length, err := binary.Read[uint32](sr, offset, "chunk length")
	if err != nil {
		return chunk{}, err
	}

	typBuf := make([]byte, 4)
	if err := sr.ReadAt(typBuf, offset+4, "chunk type"); err != nil {
		return chunk{}, err
	}

	return chunk{
		offset:      offset,
		typ:         string(typBuf),
		length:      length,
		dataOffset:  offset + 8,
		trailerSize: 4,
	}, nil
}

// walkChunks calls visit for each chunk after the signature, stopping when
// fewer than 8 bytes remain before the next prospective chunk header, when
// a chunk (payload + CRC) would extend past the end of the source, or when
// visit returns false. Truncated trailing chunks are discarded, not
// surfaced as partial results.
func walkChunks(sr *binary.SafeReader, visit func(c chunk) bool) error {
	if !CheckSignature(sr) {
		return &types.UnsupportedFormatError{
			Path:   sr.Path(),
			Reason: "missing PNG signature",
		}
	}

	offset := int64(len(Signature))
	for offset+8 <= sr.Size() {
		c, err := readChunkHeader(sr, offset)
		if err != nil {
			return nil
		}
		if c.end() > sr.Size() {
			// Corrupt trailing chunk; stop walking.
			return nil
		}
		if !visit(c) {
			return nil
		}
		offset = c.end()
	}
	return nil
}

// splitText splits a tEXt payload into keyword and value at the first NUL.
// The value is everything after the NUL; a payload with no NUL is malformed
// and reported via ok=false.
func splitText(payload []byte) (key, value string, ok bool) {
	null := bytes.IndexByte(payload, 0)
	if null < 0 {
		return "", "", false
	}
	return string(payload[:null]), string(payload[null+1:]), true
}

// FindText returns the text stored under the given tEXt keyword, or false
// if the keyword is absent.
//
// The walk stops early at the first IDAT chunk: conformant encoders place
// all tEXt chunks before image data, so once pixel data begins there is
// nothing left to find. A tEXt chunk placed after IDAT, though technically
// legal PNG, will never be found. This is a documented behavior of the
// lookup, not an accident.
func FindText(sr *binary.SafeReader, key string) (string, bool, error) {
	var value string
	var found bool

	err := walkChunks(sr, func(c chunk) bool {
		switch c.typ {
		case "IDAT":
			return false
		case "tEXt":
			payload := make([]byte, c.length)
			if err := sr.ReadAt(payload, c.dataOffset, "tEXt payload"); err != nil {
				return false
			}
			if k, v, ok := splitText(payload); ok && k == key {
				value = v
				found = true
				return false
			}
		}
		return true
	})
	if err != nil {
		return "", false, err
	}
	return value, found, nil
}

// TextDirectory returns every tEXt entry that precedes image data, one Tag
// per distinct keyword. Later duplicates of a keyword are ignored.
func TextDirectory(sr *binary.SafeReader) ([]types.Tag, error) {
	var tags []types.Tag
	seen := make(map[string]bool)

	err := walkChunks(sr, func(c chunk) bool {
		switch c.typ {
		case "IDAT":
			return false
		case "tEXt":
			payload := make([]byte, c.length)
			if err := sr.ReadAt(payload, c.dataOffset, "tEXt payload"); err != nil {
				return false
			}
			if k, v, ok := splitText(payload); ok && !seen[k] {
				seen[k] = true
				tags = append(tags, types.Tag{Name: k, Description: v})
			}
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// BuildStripped rebuilds the PNG with all ancillary metadata removed: the
// signature and the mandatory IHDR chunk are copied verbatim, IDAT chunks
// are copied through byte-for-byte (length + type + payload + CRC), and a
// fixed IEND trailer is appended. Everything else, including every tEXt
// chunk, is dropped by omission.
func BuildStripped(sr *binary.SafeReader) ([]byte, error) {
	if !CheckSignature(sr) {
		return nil, &types.UnsupportedFormatError{
			Path:   sr.Path(),
			Reason: "missing PNG signature",
		}
	}

	headerLen := int64(len(Signature)) + ihdrTotal
	if sr.Size() < headerLen {
		return nil, &types.CorruptedFileError{
			Path:   sr.Path(),
			Reason: fmt.Sprintf("file too small for IHDR (%d bytes)", sr.Size()),
		}
	}

	out := &bytes.Buffer{}
	head := make([]byte, headerLen)
	if err := sr.ReadAt(head, 0, "signature and IHDR"); err != nil {
		return nil, err
	}
	out.Write(head)

	offset := headerLen
	for offset+8 <= sr.Size() {
		c, err := readChunkHeader(sr, offset)
		if err != nil || c.end() > sr.Size() {
			break
		}
		if c.typ == "IDAT" {
			raw := make([]byte, c.end()-c.offset)
			if err := sr.ReadAt(raw, c.offset, "IDAT chunk"); err != nil {
				break
			}
			out.Write(raw)
		}
		offset = c.end()
	}

	out.Write(iendChunk)
	return out.Bytes(), nil
}

// ProbeSize reads the image dimensions from the fixed IHDR offsets (width
// at 0x10, height at 0x14) without validating signature or chunk
// structure. Returns (0, 0) for any source shorter than 0x18 bytes or on
// any read failure. This is a deliberately lenient fast path, distinct
// from the chunk-respecting walker above.
func ProbeSize(sr *binary.SafeReader) (width, height uint32) {
	if sr.Size() < 0x18 {
		return 0, 0
	}
	w, err := binary.Read[uint32](sr, 0x10, "probe width")
	if err != nil {
		return 0, 0
	}
	h, err := binary.Read[uint32](sr, 0x14, "probe height")
	if err != nil {
		return 0, 0
	}
	return w, h
}
