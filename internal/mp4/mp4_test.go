package mp4

import (
	"bytes"
	ebinary "encoding/binary"
	"testing"

	"github.com/BDiopXV/genmeta/internal/binary"
)

// createAtom assembles one atom: 32-bit size + type + data.
func createAtom(atomType string, data []byte) []byte {
	buf := &bytes.Buffer{}
	ebinary.Write(buf, ebinary.BigEndian, uint32(8+len(data)))
	buf.WriteString(atomType)
	buf.Write(data)
	return buf.Bytes()
}

// createDataAtom assembles a data atom: 4-byte type indicator + 4-byte
// locale indicator + payload.
func createDataAtom(payload string) []byte {
	data := make([]byte, 8+len(payload))
	ebinary.BigEndian.PutUint32(data[0:4], 1) // UTF-8 text indicator
	copy(data[8:], payload)
	return createAtom("data", data)
}

// createMetaAtom assembles a meta atom: 4 bytes of version+flags before
// its children.
func createMetaAtom(children ...[]byte) []byte {
	data := []byte{0x00, 0x00, 0x00, 0x00}
	for _, c := range children {
		data = append(data, c...)
	}
	return createAtom("meta", data)
}

// createCommentFile assembles the full moov/udta/meta/ilst/©cmt/data
// chain around a comment payload.
func createCommentFile(comment string) []byte {
	cmt := createAtom(commentType, createDataAtom(comment))
	ilst := createAtom("ilst", cmt)
	meta := createMetaAtom(ilst)
	udta := createAtom("udta", meta)
	moov := createAtom("moov", udta)

	buf := &bytes.Buffer{}
	buf.Write(createAtom("ftyp", []byte("isom")))
	buf.Write(moov)
	return buf.Bytes()
}

func reader(data []byte) *binary.SafeReader {
	return binary.NewSafeReader(bytes.NewReader(data), int64(len(data)), "test.mp4")
}

func TestReadAtomHeader_Success(t *testing.T) {
	data := createAtom("moov", []byte{0x01, 0x02, 0x03, 0x04})

	atom, ok := ReadAtomHeader(reader(data), 0, int64(len(data)))
	if !ok {
		t.Fatal("expected header to parse")
	}

	if atom.Size != 12 {
		t.Errorf("expected size 12, got %d", atom.Size)
	}
	if atom.Type != "moov" {
		t.Errorf("expected type 'moov', got %s", atom.Type)
	}
	if atom.DataSize() != 4 {
		t.Errorf("expected data size 4, got %d", atom.DataSize())
	}
	if atom.DataOffset() != 8 {
		t.Errorf("expected data offset 8, got %d", atom.DataOffset())
	}
	if atom.End() != 12 {
		t.Errorf("expected end 12, got %d", atom.End())
	}
}

func TestReadAtomHeader_ExtendedSize(t *testing.T) {
	buf := &bytes.Buffer{}
	ebinary.Write(buf, ebinary.BigEndian, uint32(1))
	buf.WriteString("mdat")
	ebinary.Write(buf, ebinary.BigEndian, uint64(24))
	buf.Write(make([]byte, 8)) // data

	data := buf.Bytes()
	atom, ok := ReadAtomHeader(reader(data), 0, int64(len(data)))
	if !ok {
		t.Fatal("expected header to parse")
	}

	if !atom.Extended {
		t.Error("expected extended size flag")
	}
	if atom.Size != 24 {
		t.Errorf("expected size 24, got %d", atom.Size)
	}
	if atom.HeaderSize() != 16 {
		t.Errorf("expected header size 16, got %d", atom.HeaderSize())
	}
	if atom.DataOffset() != 16 {
		t.Errorf("expected data offset 16, got %d", atom.DataOffset())
	}
}

func TestReadAtomHeader_SizeZeroExtendsToParentEnd(t *testing.T) {
	buf := &bytes.Buffer{}
	ebinary.Write(buf, ebinary.BigEndian, uint32(0))
	buf.WriteString("mdat")
	buf.Write(make([]byte, 100))

	data := buf.Bytes()
	atom, ok := ReadAtomHeader(reader(data), 0, int64(len(data)))
	if !ok {
		t.Fatal("expected header to parse")
	}

	if atom.Size != uint64(len(data)) {
		t.Errorf("expected size %d (to end of parent), got %d", len(data), atom.Size)
	}
}

func TestReadAtomHeader_SizeSmallerThanHeader(t *testing.T) {
	buf := &bytes.Buffer{}
	ebinary.Write(buf, ebinary.BigEndian, uint32(4)) // smaller than the 8-byte header
	buf.WriteString("free")
	buf.Write(make([]byte, 16))

	data := buf.Bytes()
	if _, ok := ReadAtomHeader(reader(data), 0, int64(len(data))); ok {
		t.Error("corrupt size should not parse")
	}
}

func TestReadAtomHeader_OverrunsParent(t *testing.T) {
	data := createAtom("moov", make([]byte, 16))
	// Declared end is past the parent bound we pass in.
	if _, ok := ReadAtomHeader(reader(data), 0, 10); ok {
		t.Error("atom overrunning its parent should not parse")
	}
}

func TestExtractComment_FullChain(t *testing.T) {
	data := createCommentFile(`{"prompt":{}}`)

	payload, found := ExtractComment(reader(data), 0, int64(len(data)))
	if !found {
		t.Fatal("expected comment to be found")
	}
	if string(payload) != `{"prompt":{}}` {
		t.Errorf("expected payload %q, got %q", `{"prompt":{}}`, payload)
	}
}

func TestExtractComment_ExactPayloadBytes(t *testing.T) {
	// The 8-byte type+locale prefix must be skipped, nothing more.
	data := createCommentFile("P")

	payload, found := ExtractComment(reader(data), 0, int64(len(data)))
	if !found {
		t.Fatal("expected comment to be found")
	}
	if len(payload) != 1 || payload[0] != 'P' {
		t.Errorf("expected exactly [P], got %v", payload)
	}
}

func TestExtractComment_NoComment(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.Write(createAtom("ftyp", []byte("isom")))
	buf.Write(createAtom("moov", createAtom("udta", nil)))

	data := buf.Bytes()
	if _, found := ExtractComment(reader(data), 0, int64(len(data))); found {
		t.Error("expected no comment")
	}
}

func TestExtractComment_FirstMatchWins(t *testing.T) {
	first := createAtom(commentType, createDataAtom("first"))
	second := createAtom(commentType, createDataAtom("second"))
	ilst := createAtom("ilst", append(first, second...))
	moov := createAtom("moov", createAtom("udta", createMetaAtom(ilst)))

	payload, found := ExtractComment(reader(moov), 0, int64(len(moov)))
	if !found {
		t.Fatal("expected comment to be found")
	}
	if string(payload) != "first" {
		t.Errorf("expected first comment, got %q", payload)
	}
}

func TestExtractComment_CorruptAtomStopsWalk(t *testing.T) {
	data := createCommentFile("hidden")
	// Corrupt the top-level moov size field so its declared size is
	// smaller than a header. The ftyp atom occupies bytes 0-11, so the
	// moov size field starts at 12.
	ebinary.BigEndian.PutUint32(data[12:16], 3)

	if _, found := ExtractComment(reader(data), 0, int64(len(data))); found {
		t.Error("corrupt tree should report not-found")
	}
}

func TestExtractComment_SizeZeroLastAtom(t *testing.T) {
	// moov as the final atom with size 0: extends to end of file.
	cmt := createAtom(commentType, createDataAtom("tail"))
	ilst := createAtom("ilst", cmt)
	udta := createAtom("udta", createMetaAtom(ilst))

	buf := &bytes.Buffer{}
	buf.Write(createAtom("ftyp", []byte("isom")))
	ebinary.Write(buf, ebinary.BigEndian, uint32(0))
	buf.WriteString("moov")
	buf.Write(udta)

	data := buf.Bytes()
	payload, found := ExtractComment(reader(data), 0, int64(len(data)))
	if !found {
		t.Fatal("expected comment in size-0 trailing atom")
	}
	if string(payload) != "tail" {
		t.Errorf("expected 'tail', got %q", payload)
	}
}
