package genmeta

import (
	"github.com/BDiopXV/genmeta/internal/params"
)

// Option configures behavior when reading metadata.
//
// Options use the functional options pattern:
//
//	meta, err := genmeta.ReadMetadata("output.png",
//	    genmeta.WithTextKeys("parameters", "prompt"),
//	)
type Option func(*openOptions)

// openOptions holds configuration for reading metadata.
type openOptions struct {
	textKeys       []string          // PNG tEXt keys tried for parameters, in order
	webpTagIDs     []uint16          // WebP EXIF tag IDs tried for parameters, in order
	extraPaths     params.PathSet    // additional normalizer lookup paths per field
	ignoreWarnings bool              // Suppress all warnings
}

// DefaultTextKeys are the PNG tEXt keywords probed for embedded
// generation parameters, in probe order.
var DefaultTextKeys = []string{"parameters", "parameters-json", "smproj", "prompt", "user_comment"}

// defaultOptions returns the default configuration.
func defaultOptions() *openOptions {
	return &openOptions{
		textKeys:   DefaultTextKeys,
		webpTagIDs: []uint16{TagUserComment, TagImageDescription},
	}
}

// WithTextKeys replaces the ordered list of PNG tEXt keywords probed for
// generation parameters.
func WithTextKeys(keys ...string) Option {
	return func(o *openOptions) {
		o.textKeys = keys
	}
}

// WithWebpTagIDs replaces the ordered list of WebP EXIF tag IDs probed
// for generation parameters.
func WithWebpTagIDs(ids ...uint16) Option {
	return func(o *openOptions) {
		o.webpTagIDs = ids
	}
}

// WithParameterPath adds a custom lookup path for a normalizer field,
// tried before the built-in path table. Field names are the normalizer's
// canonical ones: "steps", "cfg", "seed", "positive_prompt",
// "negative_prompt", "sampler", "width", "height", "num_frames",
// "frame_rate", "model", "model_high", "model_low", "vae", "lossless",
// "video_quality", "video_output_method".
//
//	meta, err := genmeta.ReadMetadata("clip.mp4",
//	    genmeta.WithParameterPath("seed", "MySampler", "inputs", "noise_seed"),
//	)
func WithParameterPath(field string, segments ...string) Option {
	return func(o *openOptions) {
		if o.extraPaths == nil {
			o.extraPaths = params.PathSet{}
		}
		o.extraPaths[field] = append(o.extraPaths[field], segments)
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// By default, warnings about non-fatal issues (malformed text chunks,
// unparsable comment payloads) are collected in Metadata.Warnings. This
// option discards them.
func WithIgnoreWarnings() Option {
	return func(o *openOptions) {
		o.ignoreWarnings = true
	}
}
