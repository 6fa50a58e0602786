// Package hostwatch watches a host document on disk and feeds its content
// to a reload target when it changes.
//
// The parent directory is watched rather than the file itself: most editors
// save through a rename, which would otherwise drop the watch. Rapid
// successive changes are coalesced by a debounce window.
package hostwatch
