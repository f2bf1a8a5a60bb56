package params

import (
	"math"

	"github.com/tidwall/gjson"

	"github.com/BDiopXV/genmeta/internal/types"
)

// Field names accepted in a PathSet and used as keys of the built-in path
// table.
const (
	FieldSteps             = "steps"
	FieldCfg               = "cfg"
	FieldSeed              = "seed"
	FieldPositivePrompt    = "positive_prompt"
	FieldNegativePrompt    = "negative_prompt"
	FieldSampler           = "sampler"
	FieldWidth             = "width"
	FieldHeight            = "height"
	FieldNumFrames         = "num_frames"
	FieldFrameRate         = "frame_rate"
	FieldModel             = "model"
	FieldModelHigh         = "model_high"
	FieldModelLow          = "model_low"
	FieldVae               = "vae"
	FieldLossless          = "lossless"
	FieldVideoQuality      = "video_quality"
	FieldVideoOutputMethod = "video_output_method"
)

// PathSet maps a field name to additional lookup paths, tried before the
// built-in table. Each path is an ordered list of property names compared
// under the normalized key rules.
type PathSet map[string][][]string

// knownPaths is the built-in lookup table: fixed node/input paths observed
// across producer versions, tried in order. Two-stage (High/Low) samplers
// and loaders come after the single-stage names so a single-model graph
// resolves to the plain node first.
var knownPaths = PathSet{
	FieldSteps: {
		{"WanVideoSampler", "inputs", "steps"},
		{"WanVideoSampler_High", "inputs", "steps"},
		{"WanVideoSampler_Low", "inputs", "steps"},
		{"KSampler", "inputs", "steps"},
	},
	FieldCfg: {
		{"WanVideoSampler", "inputs", "cfg"},
		{"WanVideoSampler_High", "inputs", "cfg"},
		{"KSampler", "inputs", "cfg"},
	},
	FieldSeed: {
		{"WanVideoSampler", "inputs", "seed"},
		{"WanVideoSampler_High", "inputs", "seed"},
		{"KSampler", "inputs", "seed"},
	},
	FieldPositivePrompt: {
		{"WanVideoTextEncode", "inputs", "positive_prompt"},
		{"WanVideoTextEncodeCached", "inputs", "positive_prompt"},
		{"CLIPTextEncode", "inputs", "text"},
	},
	FieldNegativePrompt: {
		{"WanVideoTextEncode", "inputs", "negative_prompt"},
		{"WanVideoTextEncodeCached", "inputs", "negative_prompt"},
	},
	FieldSampler: {
		{"WanVideoSampler", "inputs", "scheduler"},
		{"KSampler", "inputs", "sampler_name"},
	},
	FieldWidth: {
		{"WanVideoImageToVideoEncode", "inputs", "width"},
		{"EmptyLatentImage", "inputs", "width"},
	},
	FieldHeight: {
		{"WanVideoImageToVideoEncode", "inputs", "height"},
		{"EmptyLatentImage", "inputs", "height"},
	},
	FieldNumFrames: {
		{"WanVideoImageToVideoEncode", "inputs", "num_frames"},
		{"WanVideoEmptyEmbeds", "inputs", "num_frames"},
	},
	FieldFrameRate: {
		{"VHS_VideoCombine", "inputs", "frame_rate"},
		{"CreateVideo", "inputs", "fps"},
	},
	FieldModel: {
		{"WanVideoModelLoader", "inputs", "model"},
		{"CheckpointLoaderSimple", "inputs", "ckpt_name"},
	},
	FieldModelHigh: {
		{"WanVideoModelLoader_High", "inputs", "model"},
	},
	FieldModelLow: {
		{"WanVideoModelLoader_Low", "inputs", "model"},
	},
	FieldVae: {
		{"WanVideoVAELoader", "inputs", "model_name"},
		{"VAELoader", "inputs", "vae_name"},
	},
	FieldLossless: {
		{"VHS_VideoCombine", "inputs", "lossless"},
	},
	FieldVideoQuality: {
		{"VHS_VideoCombine", "inputs", "crf"},
	},
	FieldVideoOutputMethod: {
		{"VHS_VideoCombine", "inputs", "format"},
	},
}

// Parse normalizes a workflow-graph dump into GenerationParameters.
//
// Returns nil when the text is not valid JSON or when no recognized field
// resolves to a non-empty value — callers must distinguish "no parameters
// found" (nil) from an empty record. Malformed JSON is an expected,
// common case for files without usable metadata, never an error.
func Parse(text string) *types.GenerationParameters {
	return ParseWithPaths(text, nil)
}

// ParseWithPaths is Parse with caller-supplied lookup paths tried before
// the built-in table.
func ParseWithPaths(text string, extra PathSet) *types.GenerationParameters {
	if !gjson.Valid(text) {
		return nil
	}

	b := builder{
		doc:   normalizeRoot(gjson.Parse(text)),
		extra: extra,
	}

	b.setString(&b.out.PositivePrompt, FieldPositivePrompt, FieldPositivePrompt)
	b.setString(&b.out.NegativePrompt, FieldNegativePrompt, FieldNegativePrompt)
	b.setString(&b.out.Sampler, FieldSampler, "")
	b.setInt(&b.out.Steps, FieldSteps, FieldSteps)
	b.setFloat(&b.out.CfgScale, FieldCfg, FieldCfg)
	b.setUint(&b.out.Seed, FieldSeed, FieldSeed)
	b.setInt(&b.out.Width, FieldWidth, "")
	b.setInt(&b.out.Height, FieldHeight, "")
	b.setInt(&b.out.FrameCount, FieldNumFrames, "")
	b.setFrameRate()
	b.setString(&b.out.ModelName, FieldModel, "")
	b.setString(&b.out.ModelNameHigh, FieldModelHigh, "")
	b.setString(&b.out.ModelNameLow, FieldModelLow, "")
	b.setString(&b.out.VaeName, FieldVae, "")
	b.setBool(&b.out.Lossless, FieldLossless, "")
	b.setInt(&b.out.VideoQuality, FieldVideoQuality, "")
	b.setString(&b.out.VideoOutputMethod, FieldVideoOutputMethod, "")

	if !b.hasData {
		return nil
	}

	// Compatibility affordance for single-model callers: surface the High
	// variant (else Low) under the generic name when no generic model was
	// found directly.
	if b.out.ModelName == "" {
		if b.out.ModelNameHigh != "" {
			b.out.ModelName = b.out.ModelNameHigh
		} else if b.out.ModelNameLow != "" {
			b.out.ModelName = b.out.ModelNameLow
		}
	}

	return &b.out
}

// builder assembles the record field by field; the immutable result is
// only handed out once assembly is complete.
type builder struct {
	doc     gjson.Result
	extra   PathSet
	out     types.GenerationParameters
	hasData bool
}

// resolve finds a leaf for the field: extra paths, then built-in paths,
// then (when fallbackKey is non-empty) the whole-tree search.
func (b *builder) resolve(field, fallbackKey string) (gjson.Result, bool) {
	for _, p := range b.extra[field] {
		if v, ok := lookupPath(b.doc, p); ok {
			return v, true
		}
	}
	for _, p := range knownPaths[field] {
		if v, ok := lookupPath(b.doc, p); ok {
			return v, true
		}
	}
	if fallbackKey != "" {
		if v, ok := searchTree(b.doc, fallbackKey); ok {
			return v, true
		}
	}
	return gjson.Result{}, false
}

func (b *builder) setString(dst *string, field, fallbackKey string) {
	if v, ok := b.resolve(field, fallbackKey); ok {
		if s, ok := stringValue(v); ok && s != "" {
			*dst = s
			b.hasData = true
		}
	}
}

func (b *builder) setInt(dst **int, field, fallbackKey string) {
	if v, ok := b.resolve(field, fallbackKey); ok {
		if n, ok := intValue(v); ok {
			*dst = &n
			b.hasData = true
		}
	}
}

func (b *builder) setFloat(dst **float64, field, fallbackKey string) {
	if v, ok := b.resolve(field, fallbackKey); ok {
		if f, ok := floatValue(v); ok {
			*dst = &f
			b.hasData = true
		}
	}
}

func (b *builder) setUint(dst **uint64, field, fallbackKey string) {
	if v, ok := b.resolve(field, fallbackKey); ok {
		if u, ok := uintValue(v); ok {
			*dst = &u
			b.hasData = true
		}
	}
}

func (b *builder) setBool(dst **bool, field, fallbackKey string) {
	if v, ok := b.resolve(field, fallbackKey); ok {
		if bv, ok := boolValue(v); ok {
			*dst = &bv
			b.hasData = true
		}
	}
}

// setFrameRate populates both frame-rate outputs from one source value:
// Fps rounded to the nearest integer, OutputFps verbatim.
func (b *builder) setFrameRate() {
	v, ok := b.resolve(FieldFrameRate, "")
	if !ok {
		return
	}
	f, ok := floatValue(v)
	if !ok {
		return
	}
	fps := int(math.Round(f))
	b.out.Fps = &fps
	b.out.OutputFps = &f
	b.hasData = true
}
