package buffer

// ChangeKind identifies the type of a buffer mutation.
type ChangeKind uint8

const (
	// ChangeInsert indicates text was inserted.
	ChangeInsert ChangeKind = iota

	// ChangeDelete indicates text was removed.
	ChangeDelete

	// ChangeReplace indicates text was replaced.
	ChangeReplace
)

// String returns a human-readable change kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// ChangeEvent describes a single buffer mutation.
type ChangeEvent struct {
	// Kind is the type of mutation.
	Kind ChangeKind

	// OldRange is the range the mutation removed (empty for inserts).
	OldRange Range

	// NewRange is the range covered by the new text (empty for deletes).
	NewRange Range

	// OldText is the text that was removed, if any.
	OldText string

	// NewText is the text that was added, if any.
	NewText string

	// Revision is the buffer revision after the mutation.
	Revision RevisionID
}

// Listener is a callback invoked synchronously after a buffer mutation.
// Listeners run on the goroutine that performed the edit and must not block.
type Listener func(ev ChangeEvent)

// ListenerID identifies a registered change listener.
type ListenerID uint64

// AddListener registers a change listener and returns its ID.
func (b *Buffer) AddListener(fn Listener) ListenerID {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextListen++
	id := b.nextListen
	b.listeners[id] = fn
	return id
}

// RemoveListener unregisters a change listener.
// Removing an unknown or already-removed ID is a no-op, so callers can
// release their subscription unconditionally during teardown.
func (b *Buffer) RemoveListener(id ListenerID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.listeners, id)
}

// ListenerCount returns the number of registered listeners.
func (b *Buffer) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.listeners)
}

// snapshotListeners copies the current listener set. Callers must hold b.mu.
// Listeners are invoked from the copy after the lock is released so a
// listener may safely call back into the buffer.
func (b *Buffer) snapshotListeners() []Listener {
	if len(b.listeners) == 0 {
		return nil
	}

	listeners := make([]Listener, 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	return listeners
}

// notify invokes each listener with the event.
func notify(listeners []Listener, ev ChangeEvent) {
	for _, fn := range listeners {
		fn(ev)
	}
}
