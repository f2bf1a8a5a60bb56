// Package genmeta extracts generation parameters embedded in images and
// videos produced by Stable-Diffusion-style tooling.
//
// Generators hide their settings in container metadata: PNG tEXt chunks,
// WebP EXIF tags, and MP4 comment atoms. genmeta walks those containers,
// recovers the raw payloads, and normalizes the workflow-graph JSON dumps
// different tools embed into one canonical GenerationParameters record.
//
// # Quick Start
//
//	meta, err := genmeta.ReadMetadata("output.png")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if meta.Parameters != nil {
//		fmt.Println(meta.Parameters.PositivePrompt)
//	}
//
// # Supported Containers
//
//   - PNG: tEXt chunk directory ("parameters", "prompt", ...)
//   - WebP: EXIF chunk, IFD0 string tags
//   - MP4/ISO-BMFF: moov/udta/meta/ilst/©cmt comment atoms
//
// # Error Handling
//
// A file with no embedded metadata is the common case, not an error:
// best-effort entry points (ProbeSize, ReadTextChunk, ReadWebpTag,
// RewriteWebpExif) return zero/empty sentinels instead of failing, and
// ReadMetadata reports non-fatal issues through Metadata.Warnings. Hard
// errors are reserved for unreadable files and unsupported containers.
//
// # Concurrency
//
// Every parse call owns its cursor state exclusively and releases its
// file handle before returning; callers may run many parses concurrently
// across files. ReadMetadataMany does exactly that with a bounded worker
// pool.
package genmeta
