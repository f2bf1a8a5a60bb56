package genmeta

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/BDiopXV/genmeta/internal/binary"
	"github.com/BDiopXV/genmeta/internal/png"
)

// ProbeSize reads image dimensions from the fixed IHDR offsets (width at
// 0x10, height at 0x14) without validating signature or chunk structure.
//
// Best-effort by contract: returns (0, 0) on any problem, never an
// error. Use ReadMetadata for structure-respecting parsing.
func ProbeSize(r io.ReaderAt, size int64) (width, height uint32) {
	return png.ProbeSize(binary.NewSafeReader(r, size, "size probe"))
}

// ProbeSizeBytes is ProbeSize over an in-memory buffer.
func ProbeSizeBytes(data []byte) (width, height uint32) {
	return ProbeSize(bytes.NewReader(data), int64(len(data)))
}

// ReadTextChunk returns the text stored under the given tEXt keyword, or
// "" when the keyword is absent or the stream is not a PNG.
//
// The stream is rescanned from its start on every call regardless of its
// current position, and the original position is restored on return —
// success or failure — so repeated calls on a shared stream are
// idempotent.
//
// The scan stops at the first IDAT chunk: conformant encoders place all
// tEXt chunks before image data, so a keyword stored after IDAT (legal
// but nonconformant) will never be found.
func ReadTextChunk(rs io.ReadSeeker, key string) string {
	data, ok := readAllFromStart(rs)
	if !ok {
		return ""
	}

	sr := binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "png stream")
	value, found, err := png.FindText(sr, key)
	if err != nil || !found {
		return ""
	}
	return value
}

// ReadTextDirectory returns every tEXt entry preceding image data, one
// Tag per distinct keyword, or nil when the stream is not a PNG. Position
// discipline matches ReadTextChunk.
func ReadTextDirectory(rs io.ReadSeeker) []Tag {
	data, ok := readAllFromStart(rs)
	if !ok {
		return nil
	}

	sr := binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "png stream")
	tags, err := png.TextDirectory(sr)
	if err != nil {
		return nil
	}
	return tags
}

// readAllFromStart reads the whole stream from its beginning while
// guaranteeing the caller's position is restored on every exit path.
func readAllFromStart(rs io.ReadSeeker) ([]byte, bool) {
	restore, err := binary.PreserveOffset(rs)
	if err != nil {
		return nil, false
	}
	defer restore()

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, false
	}
	data, err := io.ReadAll(rs)
	if err != nil {
		return nil, false
	}
	return data, true
}

// BuildStrippedPNG rebuilds a PNG file with all ancillary metadata
// removed: signature and IHDR copied verbatim, IDAT chunks copied
// byte-for-byte, and the fixed IEND trailer appended. Every other chunk,
// including all tEXt chunks, is dropped.
//
// Returns an UnsupportedFormatError when the input is not a valid PNG.
func BuildStrippedPNG(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	return png.BuildStripped(binary.NewSafeReader(f, stat.Size(), path))
}

// BuildStrippedPNGBytes is BuildStrippedPNG over an in-memory buffer.
func BuildStrippedPNGBytes(data []byte) ([]byte, error) {
	return png.BuildStripped(binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "png buffer"))
}
