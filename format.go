package genmeta

import (
	"io"

	"github.com/BDiopXV/genmeta/internal/types"
)

// Format is an alias to types.Format.
// Re-exported from internal/types to keep the public API in the root package.
type Format = types.Format

// Re-export all format constants.
const (
	FormatUnknown = types.FormatUnknown
	FormatPNG     = types.FormatPNG
	FormatWebP    = types.FormatWebP
	FormatMP4     = types.FormatMP4
)

// DetectFormat determines the container format by examining magic bytes.
// Maintains the public API while delegating to the internal implementation.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	return types.DetectFormat(r, size, path)
}
