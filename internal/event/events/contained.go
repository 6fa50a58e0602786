// Package events defines the event topics and payload types published on
// the bus by the contained-document pipeline.
package events

import "github.com/dshills/inlay/internal/event/topic"

// Contained-document event topics.
const (
	// TopicHostChanged is published when the host (data) buffer changes.
	TopicHostChanged topic.Topic = "host.changed"

	// TopicContainedRegistered is published when a contained document is
	// registered with the workspace.
	TopicContainedRegistered topic.Topic = "contained.registered"

	// TopicContainedReanalyzed is published after a re-analysis pass for a
	// contained document completes.
	TopicContainedReanalyzed topic.Topic = "contained.reanalyzed"

	// TopicContainedDisconnected is published when an adapter disconnects
	// and the contained document is unregistered.
	TopicContainedDisconnected topic.Topic = "contained.disconnected"
)

// HostChanged is published when the host buffer changes.
type HostChanged struct {
	// Path is the host document path.
	Path string

	// Revision is the host buffer revision after the change.
	Revision uint64
}

// ContainedRegistered is published when a contained document is registered.
type ContainedRegistered struct {
	// Handle is the workspace handle of the tracked document.
	Handle string

	// Key is the stable registration key.
	Key string

	// Language is the embedded language identifier.
	Language string
}

// ContainedReanalyzed is published after a re-analysis pass completes.
type ContainedReanalyzed struct {
	// Handle is the workspace handle of the tracked document.
	Handle string

	// Key is the stable registration key.
	Key string

	// Diagnostics is the number of diagnostics produced.
	Diagnostics int

	// Errors is the number of error-severity diagnostics produced.
	Errors int
}

// ContainedDisconnected is published when an adapter disconnects.
type ContainedDisconnected struct {
	// Handle is the workspace handle the document was tracked under.
	Handle string

	// Key is the stable registration key.
	Key string
}
