package genmeta

import (
	"github.com/BDiopXV/genmeta/internal/types"
)

// OutOfBoundsError is an alias to types.OutOfBoundsError.
// Re-exported from internal/types to keep the public API in the root package.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exported from internal/types to keep the public API in the root package.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
// Re-exported from internal/types to keep the public API in the root package.
type CorruptedFileError = types.CorruptedFileError

// Warning is an alias to types.Warning.
// Re-exported from internal/types to keep the public API in the root package.
type Warning = types.Warning
