package buffer

import (
	"errors"
	"strings"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}

	if b.Len() != 0 {
		t.Errorf("expected length 0, got %d", b.Len())
	}

	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}
}

func TestNewBufferFromString(t *testing.T) {
	text := "Hello, World!"
	b := NewBufferFromString(text)

	if b.Text() != text {
		t.Errorf("expected %q, got %q", text, b.Text())
	}

	if b.Len() != ByteOffset(len(text)) {
		t.Errorf("expected length %d, got %d", len(text), b.Len())
	}
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("line1\nline2"))
	if err != nil {
		t.Fatalf("NewBufferFromReader failed: %v", err)
	}

	if b.LineCount() != 2 {
		t.Errorf("expected 2 lines, got %d", b.LineCount())
	}
}

func TestBufferLines(t *testing.T) {
	b := NewBufferFromString("line1\nline2\nline3")

	if b.LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.LineCount())
	}

	for i, want := range []string{"line1", "line2", "line3"} {
		if got := b.LineText(uint32(i)); got != want {
			t.Errorf("line %d: expected %q, got %q", i, want, got)
		}
	}

	if got := b.LineText(99); got != "" {
		t.Errorf("out-of-range line should be empty, got %q", got)
	}
}

func TestBufferInsert(t *testing.T) {
	b := NewBufferFromString("Hello World")

	end, err := b.Insert(5, ",")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if end != 6 {
		t.Errorf("expected end position 6, got %d", end)
	}

	if b.Text() != "Hello, World" {
		t.Errorf("expected 'Hello, World', got %q", b.Text())
	}
}

func TestBufferInsertOutOfRange(t *testing.T) {
	b := NewBufferFromString("Hello")

	_, err := b.Insert(100, "X")
	if !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}

	_, err = b.Insert(-1, "X")
	if !errors.Is(err, ErrOffsetOutOfRange) {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
}

func TestBufferDelete(t *testing.T) {
	b := NewBufferFromString("Hello, World!")

	if err := b.Delete(5, 7); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if b.Text() != "HelloWorld!" {
		t.Errorf("expected 'HelloWorld!', got %q", b.Text())
	}
}

func TestBufferDeleteInvalidRange(t *testing.T) {
	b := NewBufferFromString("Hello")

	if err := b.Delete(3, 1); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}

	if err := b.Delete(0, 100); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestBufferReplace(t *testing.T) {
	b := NewBufferFromString("Hello, World!")

	end, err := b.Replace(7, 12, "Gopher")
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}

	if end != 13 {
		t.Errorf("expected end position 13, got %d", end)
	}

	if b.Text() != "Hello, Gopher!" {
		t.Errorf("expected 'Hello, Gopher!', got %q", b.Text())
	}
}

func TestBufferSetText(t *testing.T) {
	b := NewBufferFromString("old content")

	b.SetText("new\ncontent")

	if b.Text() != "new\ncontent" {
		t.Errorf("expected new content, got %q", b.Text())
	}

	if b.LineCount() != 2 {
		t.Errorf("expected 2 lines, got %d", b.LineCount())
	}
}

func TestBufferRevisionChanges(t *testing.T) {
	b := NewBufferFromString("text")
	rev := b.RevisionID()

	if _, err := b.Insert(0, "x"); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if b.RevisionID() == rev {
		t.Error("revision should change after mutation")
	}
}

func TestBufferNormalizesLineEndings(t *testing.T) {
	b := NewBufferFromString("a\r\nb\rc")

	if b.Text() != "a\nb\nc" {
		t.Errorf("expected normalized LF content, got %q", b.Text())
	}
}

func TestBufferCRLF(t *testing.T) {
	b := NewBufferFromString("a\nb", WithCRLF())

	if b.Text() != "a\r\nb" {
		t.Errorf("expected CRLF content, got %q", b.Text())
	}

	if b.LineCount() != 2 {
		t.Errorf("expected 2 lines, got %d", b.LineCount())
	}
}

func TestOffsetToPoint(t *testing.T) {
	b := NewBufferFromString("ab\ncd\nef")

	tests := []struct {
		offset ByteOffset
		want   Point
	}{
		{0, Point{Line: 0, Column: 0}},
		{1, Point{Line: 0, Column: 1}},
		{3, Point{Line: 1, Column: 0}},
		{4, Point{Line: 1, Column: 1}},
		{6, Point{Line: 2, Column: 0}},
		{8, Point{Line: 2, Column: 2}},
	}

	for _, tt := range tests {
		if got := b.OffsetToPoint(tt.offset); got != tt.want {
			t.Errorf("OffsetToPoint(%d) = %+v, want %+v", tt.offset, got, tt.want)
		}
	}
}

func TestPointToOffset(t *testing.T) {
	b := NewBufferFromString("ab\ncd\nef")

	tests := []struct {
		point Point
		want  ByteOffset
	}{
		{Point{Line: 0, Column: 0}, 0},
		{Point{Line: 1, Column: 1}, 4},
		{Point{Line: 2, Column: 2}, 8},
		{Point{Line: 0, Column: 99}, 2},  // clamped to line length
		{Point{Line: 99, Column: 0}, 8},  // clamped to buffer end
	}

	for _, tt := range tests {
		if got := b.PointToOffset(tt.point); got != tt.want {
			t.Errorf("PointToOffset(%+v) = %d, want %d", tt.point, got, tt.want)
		}
	}
}

func TestUTF16Conversion(t *testing.T) {
	// 𝔘 is outside the BMP: 4 bytes in UTF-8, 2 code units in UTF-16.
	b := NewBufferFromString("a𝔘b")

	p := b.OffsetToPointUTF16(5) // after 'a' (1 byte) + '𝔘' (4 bytes)
	if p.Column != 3 {
		t.Errorf("expected UTF-16 column 3, got %d", p.Column)
	}

	back := b.PointUTF16ToOffset(p)
	if back != 5 {
		t.Errorf("expected round-trip offset 5, got %d", back)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	b := NewBufferFromString("original")
	snap := b.Snapshot()

	b.SetText("changed")

	if snap.Text() != "original" {
		t.Errorf("snapshot should be immutable, got %q", snap.Text())
	}

	if snap.RevisionID() == b.RevisionID() {
		t.Error("snapshot revision should differ after mutation")
	}
}

func TestDetectLineEnding(t *testing.T) {
	tests := []struct {
		text string
		want LineEnding
	}{
		{"a\nb\nc", LineEndingLF},
		{"a\r\nb\r\nc", LineEndingCRLF},
		{"a\rb\rc", LineEndingCR},
		{"no endings", LineEndingLF},
	}

	for _, tt := range tests {
		if got := DetectLineEnding(tt.text); got != tt.want {
			t.Errorf("DetectLineEnding(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestRangeHelpers(t *testing.T) {
	r := Range{Start: 2, End: 5}

	if r.Len() != 3 {
		t.Errorf("expected length 3, got %d", r.Len())
	}

	if r.IsEmpty() {
		t.Error("range should not be empty")
	}

	if !r.Contains(2) || r.Contains(5) {
		t.Error("Contains should be inclusive of start, exclusive of end")
	}
}
