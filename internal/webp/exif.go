package webp

import (
	"bytes"
	ebinary "encoding/binary"
	"sort"

	"github.com/rwcarlsen/goexif/tiff"

	"github.com/BDiopXV/genmeta/internal/binary"
)

// exifPreamble is the fixed 6-byte header preceding the TIFF structure
// inside the EXIF chunk payload.
const exifPreamble = "Exif\x00\x00"

// ReadTag returns the string value of the EXIF tag with the given numeric
// ID from the primary image file directory (IFD0), or ok=false when the
// container holds no EXIF chunk, the TIFF structure is malformed, or the
// tag is absent.
func ReadTag(sr *binary.SafeReader, tagID uint16) (string, bool, error) {
	c, found, err := FindChunk(sr, "EXIF")
	if err != nil {
		return "", false, err
	}
	if !found || int64(c.Length) <= int64(len(exifPreamble)) {
		return "", false, nil
	}

	payload := make([]byte, c.Length)
	if err := sr.ReadAt(payload, c.DataOffset, "EXIF payload"); err != nil {
		return "", false, nil
	}

	t, err := tiff.Decode(bytes.NewReader(payload[len(exifPreamble):]))
	if err != nil || len(t.Dirs) == 0 {
		return "", false, nil
	}

	for _, tag := range t.Dirs[0].Tags {
		if tag.Id != tagID {
			continue
		}
		s, err := tag.StringVal()
		if err != nil {
			return "", false, nil
		}
		return s, true, nil
	}
	return "", false, nil
}

// Rewrite locates the EXIF chunk, decodes its TIFF payload, applies the
// caller-supplied tag replacements, re-encodes a minimal TIFF block, and
// reassembles the file: bytes before the EXIF chunk, then the new chunk,
// padded to an even total length (RIFF requires even-aligned chunk data).
// The 4-byte RIFF size field is recomputed from the new total length — it
// must never be copied after a content-length change.
//
// Returns an empty buffer on any structural failure: not a RIFF/WEBP
// container, or no EXIF chunk present.
func Rewrite(data []byte, replacements map[uint16]string) []byte {
	sr := binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "webp buffer")

	c, found, err := FindChunk(sr, "EXIF")
	if err != nil || !found {
		return []byte{}
	}

	// Carry over existing string tags from IFD0, then overlay replacements.
	existing := make(map[uint16]string)
	payload := data[c.DataOffset:c.End()]
	if len(payload) > len(exifPreamble) {
		if t, err := tiff.Decode(bytes.NewReader(payload[len(exifPreamble):])); err == nil && len(t.Dirs) > 0 {
			for _, tag := range t.Dirs[0].Tags {
				if tag.Type != tiff.DTAscii && tag.Type != tiff.DTUndefined {
					continue
				}
				if s, err := tag.StringVal(); err == nil {
					existing[tag.Id] = s
				}
			}
		}
	}
	for id, v := range replacements {
		existing[id] = v
	}

	newPayload := append([]byte(exifPreamble), encodeTIFF(existing)...)

	out := &bytes.Buffer{}
	out.Write(data[:c.Offset])
	out.WriteString("EXIF")
	lenBuf := make([]byte, 4)
	ebinary.LittleEndian.PutUint32(lenBuf, uint32(len(newPayload)))
	out.Write(lenBuf)
	out.Write(newPayload)
	if out.Len()%2 != 0 {
		out.WriteByte(0)
	}

	b := out.Bytes()
	ebinary.LittleEndian.PutUint32(b[4:8], uint32(len(b)-8))
	return b
}

// encodeTIFF builds a minimal little-endian TIFF block holding the given
// ASCII tags in a single IFD0. Entries are written in ascending tag order;
// values longer than the 4 inline bytes are placed in a value area after
// the IFD with their offsets patched in.
func encodeTIFF(fields map[uint16]string) []byte {
	ids := make([]uint16, 0, len(fields))
	for id := range fields {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	buf := &bytes.Buffer{}
	le16 := func(v uint16) { _ = ebinary.Write(buf, ebinary.LittleEndian, v) }
	le32 := func(v uint32) { _ = ebinary.Write(buf, ebinary.LittleEndian, v) }

	// TIFF header: byte order, magic, offset to IFD0.
	buf.WriteString("II")
	le16(0x2A)
	le32(8)

	// Each IFD entry: 2 tag + 2 type + 4 count + 4 value/offset.
	const ifdBase = 8
	ifdSize := 2 + len(ids)*12 + 4
	valOffset := ifdBase + ifdSize

	values := &bytes.Buffer{}
	le16(uint16(len(ids)))
	for _, id := range ids {
		val := fields[id] + "\x00"
		le16(id)
		le16(2) // ASCII
		le32(uint32(len(val)))
		if len(val) <= 4 {
			padded := make([]byte, 4)
			copy(padded, val)
			buf.Write(padded)
		} else {
			le32(uint32(valOffset + values.Len()))
			values.WriteString(val)
		}
	}
	le32(0) // next IFD offset

	buf.Write(values.Bytes())
	return buf.Bytes()
}
