package workspace

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Errors returned by workspace operations.
var (
	// ErrDuplicateKey indicates a document is already registered under the key.
	ErrDuplicateKey = errors.New("document already registered under key")

	// ErrUnknownHandle indicates the handle does not refer to a tracked document.
	ErrUnknownHandle = errors.New("unknown document handle")

	// ErrEmptyKey indicates a registration with an empty key.
	ErrEmptyKey = errors.New("empty registration key")
)

// Handle is an opaque identifier for a tracked document.
type Handle string

// Document is a tracked document visible to the analysis pipeline.
type Document struct {
	// Handle is the document's opaque identifier.
	Handle Handle

	// Key is the stable path-like registration key.
	Key string

	// LanguageID identifies the document's language.
	LanguageID string

	// Text is the current document text.
	Text string

	// Version increments on every text update.
	Version int

	// RegisteredAt is when the document was registered.
	RegisteredAt time.Time

	// UpdatedAt is when the text was last updated.
	UpdatedAt time.Time
}

// Workspace is a registry of tracked documents.
// All methods are thread-safe.
type Workspace struct {
	mu        sync.RWMutex
	documents map[Handle]*Document
	byKey     map[string]Handle
}

// New creates an empty workspace.
func New() *Workspace {
	return &Workspace{
		documents: make(map[Handle]*Document),
		byKey:     make(map[string]Handle),
	}
}

// Register adds a document under a stable key and returns its handle.
// Registering a key twice is an error.
func (w *Workspace) Register(text, key, languageID string) (Handle, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.byKey[key]; exists {
		return "", ErrDuplicateKey
	}

	now := time.Now()
	handle := Handle(uuid.NewString())
	w.documents[handle] = &Document{
		Handle:       handle,
		Key:          key,
		LanguageID:   languageID,
		Text:         text,
		Version:      1,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	w.byKey[key] = handle

	return handle, nil
}

// Unregister removes a tracked document.
func (w *Workspace) Unregister(handle Handle) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, exists := w.documents[handle]
	if !exists {
		return ErrUnknownHandle
	}

	delete(w.documents, handle)
	delete(w.byKey, doc.Key)
	return nil
}

// UpdateText replaces a tracked document's text and bumps its version.
func (w *Workspace) UpdateText(handle Handle, text string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, exists := w.documents[handle]
	if !exists {
		return ErrUnknownHandle
	}

	doc.Text = text
	doc.Version++
	doc.UpdatedAt = time.Now()
	return nil
}

// Get returns a copy of the tracked document for a handle.
func (w *Workspace) Get(handle Handle) (*Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	doc, exists := w.documents[handle]
	if !exists {
		return nil, false
	}

	copy := *doc
	return &copy, true
}

// GetByKey returns a copy of the tracked document registered under a key.
func (w *Workspace) GetByKey(key string) (*Document, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	handle, exists := w.byKey[key]
	if !exists {
		return nil, false
	}

	copy := *w.documents[handle]
	return &copy, true
}

// Handles returns the handles of all tracked documents.
func (w *Workspace) Handles() []Handle {
	w.mu.RLock()
	defer w.mu.RUnlock()

	handles := make([]Handle, 0, len(w.documents))
	for handle := range w.documents {
		handles = append(handles, handle)
	}
	return handles
}

// Keys returns the registration keys of all tracked documents.
func (w *Workspace) Keys() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	keys := make([]string, 0, len(w.byKey))
	for key := range w.byKey {
		keys = append(keys, key)
	}
	return keys
}

// Len returns the number of tracked documents.
func (w *Workspace) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.documents)
}
