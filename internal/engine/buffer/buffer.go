package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingLF:
		return "\\n"
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingLF:
		return "\n"
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Buffer is a mutable text container with a line-offset index.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	content    string
	lineIndex  []int // byte offsets of line starts; always has at least one entry (0)
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int

	listeners  map[ListenerID]Listener
	nextListen ListenerID
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		lineIndex:  []int{0},
		revisionID: NewRevisionID(),
		lineEnding: LineEndingLF,
		tabWidth:   4,
		listeners:  make(map[ListenerID]Listener),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.content = b.normalizeLineEndings(s)
	b.lineIndex = computeLineIndex(b.content)
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return NewBufferFromString(string(data), opts...), nil
}

// normalizeLineEndings converts all line endings to the buffer's preferred style.
func (b *Buffer) normalizeLineEndings(s string) string {
	switch b.lineEnding {
	case LineEndingLF:
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
	case LineEndingCRLF:
		s = strings.ReplaceAll(s, "\r\n", "\n")
		s = strings.ReplaceAll(s, "\r", "\n")
		s = strings.ReplaceAll(s, "\n", "\r\n")
	case LineEndingCR:
		s = strings.ReplaceAll(s, "\r\n", "\r")
		s = strings.ReplaceAll(s, "\n", "\r")
	}
	return s
}

// computeLineIndex calculates the byte offsets of each line start.
// The first line always starts at offset 0.
func computeLineIndex(s string) []int {
	index := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			index = append(index, i+1)
		}
	}
	return index
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content
}

// TextRange returns text in the given byte range, clamped to the buffer.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	start = b.clampOffset(start)
	end = b.clampOffset(end)
	if start >= end {
		return ""
	}
	return b.content[start:end]
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.content))
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.content) == 0
}

// LineCount returns the number of lines.
// An empty buffer has one (empty) line.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return uint32(len(b.lineIndex))
}

// LineText returns the text of a specific line (without newline).
// Returns an empty string if the line is out of range.
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lineText(b.content, b.lineIndex, line)
}

// LineLen returns the length of a specific line in bytes (without newline).
func (b *Buffer) LineLen(line uint32) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(lineText(b.content, b.lineIndex, line))
}

// lineText extracts a line from content using the line index.
func lineText(content string, index []int, line uint32) string {
	if int(line) >= len(index) {
		return ""
	}

	start := index[line]
	end := len(content)
	if int(line)+1 < len(index) {
		end = index[line+1]
	}

	// Strip the trailing line terminator.
	s := content[start:end]
	s = strings.TrimSuffix(s, "\n")
	s = strings.TrimSuffix(s, "\r")
	return s
}

// Coordinate Conversion

// OffsetToPoint converts a byte offset to line/column.
// Offsets outside the buffer are clamped.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return offsetToPoint(b.content, b.lineIndex, b.clampOffset(offset))
}

// PointToOffset converts line/column to a byte offset.
// Positions outside the buffer are clamped.
func (b *Buffer) PointToOffset(point Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return pointToOffset(b.content, b.lineIndex, point)
}

// OffsetToPointUTF16 converts a byte offset to a UTF-16 line/column.
func (b *Buffer) OffsetToPointUTF16(offset ByteOffset) PointUTF16 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	p := offsetToPoint(b.content, b.lineIndex, b.clampOffset(offset))
	lineStart := b.lineIndex[p.Line]
	prefix := b.content[lineStart : lineStart+int(p.Column)]

	return PointUTF16{Line: p.Line, Column: utf16ColumnFromString(prefix)}
}

// PointUTF16ToOffset converts a UTF-16 line/column to a byte offset.
func (b *Buffer) PointUTF16ToOffset(point PointUTF16) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	line := point.Line
	if int(line) >= len(b.lineIndex) {
		return ByteOffset(len(b.content))
	}

	text := lineText(b.content, b.lineIndex, line)
	byteCol := byteOffsetFromUTF16Column(text, point.Column)
	return ByteOffset(b.lineIndex[line] + byteCol)
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(line) >= len(b.lineIndex) {
		return ByteOffset(len(b.content))
	}
	return ByteOffset(b.lineIndex[line])
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if int(line) >= len(b.lineIndex) {
		return ByteOffset(len(b.content))
	}
	return ByteOffset(b.lineIndex[line] + len(lineText(b.content, b.lineIndex, line)))
}

// offsetToPoint converts a clamped byte offset to a Point.
func offsetToPoint(content string, index []int, offset ByteOffset) Point {
	// Binary search for the containing line.
	lo, hi := 0, len(index)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if ByteOffset(index[mid]) <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Point{Line: uint32(lo), Column: uint32(int(offset) - index[lo])}
}

// pointToOffset converts a Point to a clamped byte offset.
func pointToOffset(content string, index []int, point Point) ByteOffset {
	if int(point.Line) >= len(index) {
		return ByteOffset(len(content))
	}

	start := index[point.Line]
	max := len(lineText(content, index, point.Line))
	col := int(point.Column)
	if col > max {
		col = max
	}
	return ByteOffset(start + col)
}

// clampOffset clamps an offset into [0, len(content)]. Callers must hold a lock.
func (b *Buffer) clampOffset(offset ByteOffset) ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > ByteOffset(len(b.content)) {
		return ByteOffset(len(b.content))
	}
	return offset
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()

	if offset < 0 || offset > ByteOffset(len(b.content)) {
		b.mu.Unlock()
		return 0, ErrOffsetOutOfRange
	}

	text = b.normalizeLineEndings(text)
	b.content = b.content[:offset] + text + b.content[offset:]
	b.lineIndex = computeLineIndex(b.content)
	b.revisionID = NewRevisionID()

	end := offset + ByteOffset(len(text))
	ev := ChangeEvent{
		Kind:     ChangeInsert,
		OldRange: Range{Start: offset, End: offset},
		NewRange: Range{Start: offset, End: end},
		NewText:  text,
		Revision: b.revisionID,
	}
	listeners := b.snapshotListeners()
	b.mu.Unlock()

	notify(listeners, ev)
	return end, nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	b.mu.Lock()

	if start < 0 || start > end || end > ByteOffset(len(b.content)) {
		b.mu.Unlock()
		return ErrRangeInvalid
	}

	oldText := b.content[start:end]
	b.content = b.content[:start] + b.content[end:]
	b.lineIndex = computeLineIndex(b.content)
	b.revisionID = NewRevisionID()

	ev := ChangeEvent{
		Kind:     ChangeDelete,
		OldRange: Range{Start: start, End: end},
		NewRange: Range{Start: start, End: start},
		OldText:  oldText,
		Revision: b.revisionID,
	}
	listeners := b.snapshotListeners()
	b.mu.Unlock()

	notify(listeners, ev)
	return nil
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()

	if start < 0 || start > end || end > ByteOffset(len(b.content)) {
		b.mu.Unlock()
		return 0, ErrRangeInvalid
	}

	oldText := b.content[start:end]
	text = b.normalizeLineEndings(text)
	b.content = b.content[:start] + text + b.content[end:]
	b.lineIndex = computeLineIndex(b.content)
	b.revisionID = NewRevisionID()

	newEnd := start + ByteOffset(len(text))
	ev := ChangeEvent{
		Kind:     ChangeReplace,
		OldRange: Range{Start: start, End: end},
		NewRange: Range{Start: start, End: newEnd},
		OldText:  oldText,
		NewText:  text,
		Revision: b.revisionID,
	}
	listeners := b.snapshotListeners()
	b.mu.Unlock()

	notify(listeners, ev)
	return newEnd, nil
}

// SetText replaces the entire buffer content.
func (b *Buffer) SetText(text string) {
	b.mu.Lock()

	oldText := b.content
	text = b.normalizeLineEndings(text)
	b.content = text
	b.lineIndex = computeLineIndex(b.content)
	b.revisionID = NewRevisionID()

	ev := ChangeEvent{
		Kind:     ChangeReplace,
		OldRange: Range{Start: 0, End: ByteOffset(len(oldText))},
		NewRange: Range{Start: 0, End: ByteOffset(len(text))},
		OldText:  oldText,
		NewText:  text,
		Revision: b.revisionID,
	}
	listeners := b.snapshotListeners()
	b.mu.Unlock()

	notify(listeners, ev)
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// TabWidth returns the buffer's tab width.
func (b *Buffer) TabWidth() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.tabWidth
}

// Snapshot returns a read-only snapshot of the current buffer state.
// Safe for concurrent access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		content:    b.content,
		lineIndex:  b.lineIndex, // never mutated in place, safe to share
		revisionID: b.revisionID,
		lineEnding: b.lineEnding,
		tabWidth:   b.tabWidth,
	}
}

// Helper functions for UTF-16 conversion

// utf16ColumnFromString counts UTF-16 code units in a string.
func utf16ColumnFromString(s string) uint32 {
	var col uint32
	for _, r := range s {
		if r >= 0x10000 {
			col += 2 // Surrogate pair (characters outside BMP)
		} else {
			col++
		}
	}
	return col
}

// byteOffsetFromUTF16Column converts a UTF-16 column to a byte offset within a line.
func byteOffsetFromUTF16Column(line string, utf16Col uint32) int {
	var col uint32
	var byteOffset int

	for _, r := range line {
		if col >= utf16Col {
			break
		}

		if r >= 0x10000 {
			col += 2 // Surrogate pair
		} else {
			col++
		}
		byteOffset += utf8.RuneLen(r)
	}

	return byteOffset
}
