package buffer

import "sync/atomic"

// ByteOffset is a byte position within a buffer.
type ByteOffset int64

// Point is a line/column position. Both values are zero-based and the
// column is measured in bytes.
type Point struct {
	Line   uint32
	Column uint32
}

// PointUTF16 is a line/column position with the column measured in UTF-16
// code units, as used by most editor protocols.
type PointUTF16 struct {
	Line   uint32
	Column uint32
}

// Range is a half-open byte range [Start, End) within a buffer.
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

// Len returns the length of the range in bytes.
func (r Range) Len() ByteOffset {
	return r.End - r.Start
}

// IsEmpty returns true if the range covers no bytes.
func (r Range) IsEmpty() bool {
	return r.Start >= r.End
}

// Contains returns true if the offset falls inside the range.
func (r Range) Contains(offset ByteOffset) bool {
	return offset >= r.Start && offset < r.End
}

// RevisionID uniquely identifies a buffer revision.
// Each modification to the buffer creates a new revision.
type RevisionID uint64

// revisionCounter is used to generate unique revision IDs.
var revisionCounter uint64

// NewRevisionID generates a new unique revision ID.
// This is thread-safe using atomic operations.
func NewRevisionID() RevisionID {
	return RevisionID(atomic.AddUint64(&revisionCounter, 1))
}
