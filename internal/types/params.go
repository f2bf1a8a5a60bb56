package types

// GenerationParameters is the canonical record recovered from an embedded
// workflow-graph dump. Every field is independently optional: a nil pointer
// or empty string means "not found in source", not "zero". Different
// producers nest the same logical field under different node names, so this
// record is only ever assembled by the parameter normalizer.
type GenerationParameters struct {
	PositivePrompt string
	NegativePrompt string
	Sampler        string

	Steps    *int
	CfgScale *float64
	Seed     *uint64
	Width    *int
	Height   *int

	// Video-specific fields. Fps is the frame rate rounded to the nearest
	// integer; OutputFps retains the unrounded source value. Both are
	// populated from the same frame_rate entry.
	FrameCount        *int
	Fps               *int
	OutputFps         *float64
	Lossless          *bool
	VideoQuality      *int
	VideoOutputMethod string

	// Model names. Two-stage video pipelines use distinct checkpoints for
	// the high-noise and low-noise denoising phases; single-model callers
	// read ModelName, which falls back to the High then Low variant when no
	// generic name was found directly.
	ModelName     string
	ModelNameHigh string
	ModelNameLow  string
	VaeName       string
}

// Tag is a textual metadata entry from the PNG tEXt directory: one entry
// per distinct keyword found.
type Tag struct {
	Name        string
	Description string
}
