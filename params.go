package genmeta

import (
	"github.com/BDiopXV/genmeta/internal/params"
	"github.com/BDiopXV/genmeta/internal/types"
)

// GenerationParameters is an alias to types.GenerationParameters.
// Re-exported from internal/types to keep the public API in the root package.
type GenerationParameters = types.GenerationParameters

// Tag is an alias to types.Tag.
// Re-exported from internal/types to keep the public API in the root package.
type Tag = types.Tag

// ParseGenerationParameters normalizes a workflow-graph dump into a
// GenerationParameters record.
//
// The text is assumed already decoded; comment payloads read from a
// container go through UTF-8 then Latin-1 decoding before reaching this
// call (ReadMetadata does that automatically).
//
// Returns nil when the text is not valid JSON or when no recognized field
// resolves to a non-empty value. A nil result means "no parameters
// found", which is distinct from an empty record and must be checked by
// callers. Malformed JSON is an expected case, never a hard failure.
func ParseGenerationParameters(text string) *GenerationParameters {
	return params.Parse(text)
}
