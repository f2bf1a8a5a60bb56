package genmeta

import (
	"os"

	"github.com/BDiopXV/genmeta/internal/binary"
	"github.com/BDiopXV/genmeta/internal/webp"
)

// EXIF IFD0 tag IDs commonly used by generators to stash parameters.
const (
	TagImageDescription uint16 = 0x010E
	TagUserComment      uint16 = 0x9286
)

// ReadWebpTag returns the string value of the EXIF tag with the given
// numeric ID from the file's IFD0 directory.
//
// Best-effort by contract: returns "" when the file cannot be opened, is
// not a RIFF/WebP container, has no EXIF chunk, or lacks the tag.
func ReadWebpTag(path string, tagID uint16) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return ""
	}

	sr := binary.NewSafeReader(f, stat.Size(), path)
	value, found, err := webp.ReadTag(sr, tagID)
	if err != nil || !found {
		return ""
	}
	return value
}

// RewriteWebpExif rewrites the EXIF chunk of a WebP buffer in place:
// existing IFD0 string tags are decoded, the caller-supplied replacements
// applied, and the container reassembled with its top-level RIFF size
// field recomputed and the chunk padded to even length.
//
// Returns an empty buffer on any structural failure (not a RIFF/WEBP
// container, or no EXIF chunk present).
func RewriteWebpExif(data []byte, replacements map[uint16]string) []byte {
	return webp.Rewrite(data, replacements)
}
