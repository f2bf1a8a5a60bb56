package genmeta

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"

	"github.com/BDiopXV/genmeta/internal/binary"
	"github.com/BDiopXV/genmeta/internal/mp4"
	"github.com/BDiopXV/genmeta/internal/params"
	"github.com/BDiopXV/genmeta/internal/png"
	"github.com/BDiopXV/genmeta/internal/webp"
)

// Metadata is the parsed view of one file's embedded metadata.
//
// Everything here is computed fresh per call; Metadata holds no reference
// to the source file, and the file handle is released before ReadMetadata
// returns.
type Metadata struct {
	// Path to the source file
	Path string

	// Detected container format
	Format Format

	// File size in bytes
	Size int64

	// PNG tEXt directory, one entry per distinct keyword (PNG only)
	Tags []Tag

	// Normalized generation parameters, or nil when none were found.
	// nil means "no parameters found in source", not an empty record.
	Parameters *GenerationParameters

	// Warnings encountered during parsing (non-fatal issues)
	Warnings []Warning
}

// ReadMetadata opens a file, detects its container format, and extracts
// embedded generation metadata.
//
// The file handle is opened read-only and closed before returning; the
// parse owns its cursor state exclusively, so callers may run many
// ReadMetadata calls concurrently across files.
//
// A file without usable metadata is not an error: Parameters is nil and
// any non-fatal issues are reported in Warnings. Errors are returned for
// unreadable files and unsupported container formats.
func ReadMetadata(path string, opts ...Option) (*Metadata, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	return readMetadataReader(f, stat.Size(), path, options)
}

// readMetadataReader parses from an io.ReaderAt (internal, for testing).
func readMetadataReader(r io.ReaderAt, size int64, path string, options *openOptions) (*Metadata, error) {
	format, err := DetectFormat(r, size, path)
	if err != nil {
		return nil, err
	}

	meta := &Metadata{
		Path:   path,
		Format: format,
		Size:   size,
	}

	sr := binary.NewSafeReader(r, size, path)
	switch format {
	case FormatPNG:
		extractPNG(sr, meta, options)
	case FormatWebP:
		extractWebP(sr, meta, options)
	case FormatMP4:
		extractMP4(sr, meta, options)
	}

	if options.ignoreWarnings {
		meta.Warnings = nil
	}

	return meta, nil
}

// extractPNG lists the tEXt directory and probes the configured keywords
// for a parsable workflow dump, first parse wins.
func extractPNG(sr *binary.SafeReader, meta *Metadata, options *openOptions) {
	tags, err := png.TextDirectory(sr)
	if err != nil {
		meta.Warnings = append(meta.Warnings, Warning{Stage: "text", Message: err.Error()})
		return
	}
	meta.Tags = tags

	byName := make(map[string]string, len(tags))
	for _, t := range tags {
		byName[t.Name] = t.Description
	}

	for _, key := range options.textKeys {
		value, ok := byName[key]
		if !ok || value == "" {
			continue
		}
		if p := params.ParseWithPaths(value, options.extraPaths); p != nil {
			meta.Parameters = p
			return
		}
		meta.Warnings = append(meta.Warnings, Warning{
			Stage:   "parameters",
			Message: fmt.Sprintf("text chunk %q holds no parsable parameters", key),
		})
	}
}

// extractWebP probes the configured EXIF tag IDs for a parsable workflow
// dump.
func extractWebP(sr *binary.SafeReader, meta *Metadata, options *openOptions) {
	for _, id := range options.webpTagIDs {
		value, found, err := webp.ReadTag(sr, id)
		if err != nil {
			meta.Warnings = append(meta.Warnings, Warning{Stage: "text", Message: err.Error()})
			return
		}
		if !found || value == "" {
			continue
		}
		if p := params.ParseWithPaths(value, options.extraPaths); p != nil {
			meta.Parameters = p
			return
		}
		meta.Warnings = append(meta.Warnings, Warning{
			Stage:   "parameters",
			Message: fmt.Sprintf("EXIF tag 0x%04X holds no parsable parameters", id),
		})
	}
}

// extractMP4 pulls the first ©cmt comment payload and tries to parse it.
func extractMP4(sr *binary.SafeReader, meta *Metadata, options *openOptions) {
	payload, found := mp4.ExtractComment(sr, 0, sr.Size())
	if !found || len(payload) == 0 {
		return
	}
	text := decodeText(payload)
	if p := params.ParseWithPaths(text, options.extraPaths); p != nil {
		meta.Parameters = p
		return
	}
	meta.Warnings = append(meta.Warnings, Warning{
		Stage:   "parameters",
		Message: "comment atom holds no parsable parameters",
	})
}

// decodeText decodes a raw comment payload as UTF-8, falling back to
// Latin-1 for producers that embed legacy-encoded text.
func decodeText(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}

// ReadMetadataMany reads multiple files concurrently.
//
// Files are parsed in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths. If any file
// fails, the first error is returned and the remaining results are
// discarded.
func ReadMetadataMany(ctx context.Context, paths ...string) ([]*Metadata, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*Metadata, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			meta, err := ReadMetadata(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = meta
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
