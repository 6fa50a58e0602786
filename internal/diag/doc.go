// Package diag provides diagnostic management for tracked documents:
// analyzer dispatch, per-document storage with severity counts, filtering,
// and change notifications.
package diag
