package types

import (
	"io"

	"github.com/BDiopXV/genmeta/internal/binary"
)

// Format represents the detected container format.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported container.
	FormatUnknown Format = iota
	// FormatPNG represents PNG chunk streams.
	FormatPNG
	// FormatWebP represents RIFF/WebP containers.
	FormatWebP
	// FormatMP4 represents ISO-BMFF (MP4/MOV) atom trees.
	FormatMP4
)

// String returns a human-readable format name.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "PNG"
	case FormatWebP:
		return "WebP"
	case FormatMP4:
		return "MP4"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatPNG:
		return []string{".png"}
	case FormatWebP:
		return []string{".webp"}
	case FormatMP4:
		return []string{".mp4", ".mov", ".m4v"}
	default:
		return nil
	}
}

// pngSignature is the fixed 8-byte PNG file signature.
var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// DetectFormat determines the container format by examining magic bytes.
//
// Supported containers: PNG, RIFF/WebP, ISO-BMFF (MP4).
//
// Detection is based on file signatures at the beginning of the file.
// Format detection does not validate the entire file structure.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	// PNG needs 8 bytes of signature, RIFF and ftyp need 12.
	if size < 8 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	magic := make([]byte, 8)
	if err := sr.ReadAt(magic, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}

	// Check for PNG signature
	isPNG := true
	for i, b := range pngSignature {
		if magic[i] != b {
			isPNG = false
			break
		}
	}
	if isPNG {
		return FormatPNG, nil
	}

	// Check for RIFF/WebP (RIFF....WEBP)
	if string(magic[:4]) == "RIFF" && size >= 12 {
		formType := make([]byte, 4)
		if err := sr.ReadAt(formType, 8, "RIFF form type"); err == nil {
			if string(formType) == "WEBP" {
				return FormatWebP, nil
			}
		}
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "RIFF container is not WebP",
		}
	}

	// Check for ISO-BMFF ftyp atom (size + "ftyp")
	if size >= 12 && string(magic[4:8]) == "ftyp" {
		return FormatMP4, nil
	}

	return FormatUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: "unsupported file format",
	}
}
