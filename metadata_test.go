package genmeta

import (
	"bytes"
	"context"
	ebinary "encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// buildPNGChunk assembles one chunk: length + type + payload + CRC
// placeholder (CRCs are read but never verified).
func buildPNGChunk(typ string, payload []byte) []byte {
	buf := &bytes.Buffer{}
	ebinary.Write(buf, ebinary.BigEndian, uint32(len(payload)))
	buf.WriteString(typ)
	buf.Write(payload)
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00})
	return buf.Bytes()
}

func buildPNGText(key, value string) []byte {
	payload := append([]byte(key), 0)
	payload = append(payload, []byte(value)...)
	return buildPNGChunk("tEXt", payload)
}

// buildPNGFile assembles a minimal file: signature, IHDR, given chunks,
// then image data and trailer.
func buildPNGFile(width, height uint32, chunks ...[]byte) []byte {
	ihdr := make([]byte, 13)
	ebinary.BigEndian.PutUint32(ihdr[0:4], width)
	ebinary.BigEndian.PutUint32(ihdr[4:8], height)
	ihdr[8] = 8
	ihdr[9] = 6

	buf := &bytes.Buffer{}
	buf.Write([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A})
	buf.Write(buildPNGChunk("IHDR", ihdr))
	for _, c := range chunks {
		buf.Write(c)
	}
	buf.Write(buildPNGChunk("IDAT", []byte{0x00}))
	buf.Write([]byte{0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82})
	return buf.Bytes()
}

func buildWebPFile(chunks ...[]byte) []byte {
	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	buf.Write(make([]byte, 4))
	buf.WriteString("WEBP")
	for _, c := range chunks {
		buf.Write(c)
	}
	data := buf.Bytes()
	ebinary.LittleEndian.PutUint32(data[4:8], uint32(len(data)-8))
	return data
}

func buildAtom(atomType string, data []byte) []byte {
	buf := &bytes.Buffer{}
	ebinary.Write(buf, ebinary.BigEndian, uint32(8+len(data)))
	buf.WriteString(atomType)
	buf.Write(data)
	return buf.Bytes()
}

// buildMP4File wraps a comment payload in the full
// moov/udta/meta/ilst/(c)cmt/data chain behind an ftyp atom.
func buildMP4File(comment string) []byte {
	dataPayload := make([]byte, 8+len(comment))
	ebinary.BigEndian.PutUint32(dataPayload[0:4], 1)
	copy(dataPayload[8:], comment)

	cmt := buildAtom("\xA9cmt", buildAtom("data", dataPayload))
	meta := buildAtom("meta", append([]byte{0, 0, 0, 0}, buildAtom("ilst", cmt)...))
	moov := buildAtom("moov", buildAtom("udta", meta))

	buf := &bytes.Buffer{}
	buf.Write(buildAtom("ftyp", []byte("isom")))
	buf.Write(moov)
	return buf.Bytes()
}

// writeTemp drops data into a file under the test's temp dir.
func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		want Format
	}{
		{"png", buildPNGFile(64, 64), FormatPNG},
		{"webp", buildWebPFile(), FormatWebP},
		{"mp4", buildMP4File("x"), FormatMP4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFormat(bytes.NewReader(tc.data), int64(len(tc.data)), "test")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestDetectFormat_Unsupported(t *testing.T) {
	data := []byte("GIF89a not on the menu")
	_, err := DetectFormat(bytes.NewReader(data), int64(len(data)), "test.gif")
	var ufe *UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
}

func TestReadMetadata_PNGParameters(t *testing.T) {
	workflow := `{"prompt":{"KSampler":{"inputs":{"steps":20,"seed":42,"cfg":7.0}}}}`
	path := writeTemp(t, "out.png", buildPNGFile(512, 512,
		buildPNGText("parameters", workflow),
		buildPNGText("workflow", `{"nodes":[]}`),
	))

	meta, err := ReadMetadata(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if meta.Format != FormatPNG {
		t.Errorf("expected PNG format, got %v", meta.Format)
	}
	if len(meta.Tags) != 2 {
		t.Errorf("expected 2 text entries, got %d", len(meta.Tags))
	}
	if meta.Parameters == nil {
		t.Fatal("expected parameters")
	}
	if meta.Parameters.Steps == nil || *meta.Parameters.Steps != 20 {
		t.Errorf("expected steps 20, got %v", meta.Parameters.Steps)
	}
	if meta.Parameters.Seed == nil || *meta.Parameters.Seed != 42 {
		t.Errorf("expected seed 42, got %v", meta.Parameters.Seed)
	}
}

func TestReadMetadata_PNGNoParameters(t *testing.T) {
	path := writeTemp(t, "plain.png", buildPNGFile(64, 64))

	meta, err := ReadMetadata(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Parameters != nil {
		t.Errorf("expected nil parameters, got %+v", meta.Parameters)
	}
}

func TestReadMetadata_UnparsableTextWarns(t *testing.T) {
	path := writeTemp(t, "odd.png", buildPNGFile(64, 64,
		buildPNGText("parameters", "plain prose, not a graph"),
	))

	meta, err := ReadMetadata(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Parameters != nil {
		t.Errorf("expected nil parameters, got %+v", meta.Parameters)
	}
	if len(meta.Warnings) == 0 {
		t.Error("expected a warning about the unparsable chunk")
	}

	meta, err = ReadMetadata(path, WithIgnoreWarnings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(meta.Warnings) != 0 {
		t.Errorf("expected warnings suppressed, got %v", meta.Warnings)
	}
}

func TestReadMetadata_TextKeyOrder(t *testing.T) {
	// Both keys parse; the configured order decides which wins.
	path := writeTemp(t, "two.png", buildPNGFile(64, 64,
		buildPNGText("first", `{"KSampler":{"inputs":{"steps":1}}}`),
		buildPNGText("second", `{"KSampler":{"inputs":{"steps":2}}}`),
	))

	meta, err := ReadMetadata(path, WithTextKeys("second", "first"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Parameters == nil || meta.Parameters.Steps == nil || *meta.Parameters.Steps != 2 {
		t.Fatalf("expected the 'second' key to win, got %+v", meta.Parameters)
	}
}

func TestReadMetadata_MP4Comment(t *testing.T) {
	workflow := `{"WanVideoSampler":{"inputs":{"steps":25,"seed":99}}}`
	path := writeTemp(t, "clip.mp4", buildMP4File(workflow))

	meta, err := ReadMetadata(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Format != FormatMP4 {
		t.Errorf("expected MP4 format, got %v", meta.Format)
	}
	if meta.Parameters == nil || meta.Parameters.Steps == nil || *meta.Parameters.Steps != 25 {
		t.Fatalf("expected steps 25, got %+v", meta.Parameters)
	}
}

func TestReadMetadata_UnsupportedFormat(t *testing.T) {
	path := writeTemp(t, "note.txt", []byte("hello"))

	_, err := ReadMetadata(path)
	var ufe *UnsupportedFormatError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
}

func TestReadTextChunk_RestoresPosition(t *testing.T) {
	data := buildPNGFile(64, 64, buildPNGText("parameters", "seed: 42"))
	rs := bytes.NewReader(data)

	// Start mid-stream; the lookup must rescan from the beginning and
	// put the cursor back where it was.
	if _, err := rs.Seek(10, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}

	if got := ReadTextChunk(rs, "parameters"); got != "seed: 42" {
		t.Errorf("expected 'seed: 42', got %q", got)
	}

	pos, _ := rs.Seek(0, io.SeekCurrent)
	if pos != 10 {
		t.Errorf("expected position restored to 10, got %d", pos)
	}

	// Second call sees the same result.
	if got := ReadTextChunk(rs, "parameters"); got != "seed: 42" {
		t.Errorf("repeated lookup should match, got %q", got)
	}
}

func TestReadTextChunk_NotPNG(t *testing.T) {
	if got := ReadTextChunk(bytes.NewReader([]byte("nope")), "parameters"); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestReadTextDirectory(t *testing.T) {
	data := buildPNGFile(64, 64,
		buildPNGText("parameters", "a"),
		buildPNGText("workflow", "b"),
	)

	tags := ReadTextDirectory(bytes.NewReader(data))
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
	if tags[0].Name != "parameters" || tags[1].Name != "workflow" {
		t.Errorf("unexpected tag order: %v", tags)
	}
}

func TestProbeSizeBytes(t *testing.T) {
	data := buildPNGFile(1024, 768)
	w, h := ProbeSizeBytes(data)
	if w != 1024 || h != 768 {
		t.Errorf("expected 1024x768, got %dx%d", w, h)
	}
}

func TestBuildStrippedPNG_File(t *testing.T) {
	path := writeTemp(t, "tagged.png", buildPNGFile(64, 64,
		buildPNGText("parameters", "seed: 42"),
	))

	stripped, err := BuildStrippedPNG(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ReadTextChunk(bytes.NewReader(stripped), "parameters") != "" {
		t.Error("stripped output still carries parameters")
	}
	if w, h := ProbeSizeBytes(stripped); w != 64 || h != 64 {
		t.Errorf("stripped output lost dimensions: %dx%d", w, h)
	}
}

func TestExtractMP4CommentBytes(t *testing.T) {
	data := buildMP4File("payload")
	got := ExtractMP4CommentBytes(data)
	if string(got) != "payload" {
		t.Errorf("expected 'payload', got %q", got)
	}

	if got := ExtractMP4CommentBytes([]byte("not an mp4")); got != nil {
		t.Errorf("expected nil for garbage input, got %v", got)
	}
}

func TestParseGenerationParameters(t *testing.T) {
	p := ParseGenerationParameters(`{"KSampler":{"inputs":{"steps":12}}}`)
	if p == nil || p.Steps == nil || *p.Steps != 12 {
		t.Fatalf("expected steps 12, got %+v", p)
	}
	if ParseGenerationParameters("") != nil {
		t.Error("expected nil for empty input")
	}
}

func TestReadMetadataMany_PreservesOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, steps := range []string{"1", "2", "3"} {
		workflow := `{"KSampler":{"inputs":{"steps":` + steps + `}}}`
		path := filepath.Join(dir, "out"+steps+".png")
		data := buildPNGFile(64, 64, buildPNGText("parameters", workflow))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write file %d: %v", i, err)
		}
		paths = append(paths, path)
	}

	metas, err := ReadMetadataMany(context.Background(), paths...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(metas) != 3 {
		t.Fatalf("expected 3 results, got %d", len(metas))
	}
	for i, m := range metas {
		if m.Parameters == nil || m.Parameters.Steps == nil || *m.Parameters.Steps != i+1 {
			t.Errorf("result %d out of order: %+v", i, m.Parameters)
		}
	}
}

func TestReadMetadataMany_FirstErrorWins(t *testing.T) {
	good := writeTemp(t, "good.png", buildPNGFile(64, 64))

	_, err := ReadMetadataMany(context.Background(), good, "/does/not/exist.png")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
