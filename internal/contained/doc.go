// Package contained binds embedded-language subject buffers to the host
// (data) buffer they are projected from.
//
// The Coordinator owns the data buffer for a host document and materializes
// a subject buffer per embedded region. An Adapter glues one subject buffer
// to the data buffer: it registers the subject text with the workspace,
// subscribes to data-buffer change notifications, and requests diagnostic
// re-analysis of the tracked document whenever the host changes. Host edits
// can shift the embedded region's offsets without altering its text, so
// diagnostics must be recomputed even when the subject text is unchanged.
//
// Adapter lifecycle is strictly one-way:
//
//	Uninitialized -> Active (subscribed, registered) -> Disposed
//
// Disconnect is idempotent; the change subscription is released before the
// tracked document is torn down so a reentrant notification cannot observe
// a disposed adapter.
package contained
