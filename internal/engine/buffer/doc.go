// Package buffer provides a thread-safe text buffer with change notification.
// It is the primary text container for both host documents and the embedded
// subject documents projected out of them.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - A line-offset index for fast line/column lookups
//   - Coordinate conversion between byte offsets and line/column positions
//   - UTF-16 coordinate support for editor interoperability
//   - Read-only snapshots for concurrent access
//   - Line ending normalization
//   - Revision tracking for change management
//   - Synchronous change listeners invoked after every mutation
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	id := buf.AddListener(func(ev buffer.ChangeEvent) {
//	    // React to the mutation. The callback runs synchronously on the
//	    // goroutine that performed the edit and must not block.
//	})
//	defer buf.RemoveListener(id)
//
//	buf.Insert(7, "Beautiful ") // "Hello, Beautiful World!"
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Change listeners are invoked outside
// the buffer's internal lock, so a listener may call back into the buffer,
// including RemoveListener on itself.
package buffer
