package buffer

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It is safe for concurrent access and will not change even if the original
// buffer is modified.
type Snapshot struct {
	content    string
	lineIndex  []int
	revisionID RevisionID
	lineEnding LineEnding
	tabWidth   int
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.content
}

// TextRange returns text in the given byte range, clamped to the snapshot.
func (s *Snapshot) TextRange(start, end ByteOffset) string {
	start = clampTo(start, len(s.content))
	end = clampTo(end, len(s.content))
	if start >= end {
		return ""
	}
	return s.content[start:end]
}

// Len returns the total byte length of the snapshot.
func (s *Snapshot) Len() ByteOffset {
	return ByteOffset(len(s.content))
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() uint32 {
	return uint32(len(s.lineIndex))
}

// LineText returns the text of a specific line (without newline).
func (s *Snapshot) LineText(line uint32) string {
	return lineText(s.content, s.lineIndex, line)
}

// OffsetToPoint converts a byte offset to line/column.
func (s *Snapshot) OffsetToPoint(offset ByteOffset) Point {
	return offsetToPoint(s.content, s.lineIndex, clampTo(offset, len(s.content)))
}

// PointToOffset converts line/column to a byte offset.
func (s *Snapshot) PointToOffset(point Point) ByteOffset {
	return pointToOffset(s.content, s.lineIndex, point)
}

// RevisionID returns the revision the snapshot was taken at.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revisionID
}

// LineEnding returns the snapshot's line ending style.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}

// TabWidth returns the snapshot's tab width.
func (s *Snapshot) TabWidth() int {
	return s.tabWidth
}

// clampTo clamps an offset into [0, max].
func clampTo(offset ByteOffset, max int) ByteOffset {
	if offset < 0 {
		return 0
	}
	if offset > ByteOffset(max) {
		return ByteOffset(max)
	}
	return offset
}
