package types

import (
	"fmt"

	"github.com/BDiopXV/genmeta/internal/binary"
)

// OutOfBoundsError is an alias to binary.OutOfBoundsError, which the
// bounds-checked reader constructs directly; aliased here so the whole
// error taxonomy is visible in one place.
type OutOfBoundsError = binary.OutOfBoundsError

// UnsupportedFormatError is returned when a file is not PNG, WebP, or MP4.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when container structure is invalid,
// such as an atom whose declared size is smaller than its own header.
type CorruptedFileError struct {
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
}

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings indicate problems that don't prevent metadata extraction but
// may indicate corrupted or unusual data. Examples include:
//   - A text chunk with no keyword terminator
//   - A comment payload that is not valid JSON
//   - A truncated trailing chunk
//
// Warnings are collected in Metadata.Warnings during parsing.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "detect", "text", "comment", "parameters"

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
