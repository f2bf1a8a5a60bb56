package genmeta

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BDiopXV/genmeta/internal/binary"
	"github.com/BDiopXV/genmeta/internal/mp4"
)

// ExtractMP4Comment walks the file's atom tree and returns the raw
// payload of the first ©cmt/data comment atom, in depth-first first-match
// order.
//
// Returns (nil, nil) when no comment atom exists or the atom tree is
// corrupt — absent metadata is the common case, not an error. An error is
// returned only when the file itself cannot be read.
func ExtractMP4Comment(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	sr := binary.NewSafeReader(f, stat.Size(), path)
	payload, found := mp4.ExtractComment(sr, 0, stat.Size())
	if !found {
		return nil, nil
	}
	return payload, nil
}

// ExtractMP4CommentBytes is ExtractMP4Comment over an in-memory buffer.
func ExtractMP4CommentBytes(data []byte) []byte {
	sr := binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "mp4 buffer")
	payload, found := mp4.ExtractComment(sr, 0, int64(len(data)))
	if !found {
		return nil
	}
	return payload
}
