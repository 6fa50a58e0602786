package contained

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotLocated indicates the locator could not resolve a document key.
var ErrNotLocated = errors.New("document key not located")

// Locator resolves a region's item key to a stable path-like document key.
// Resolution failure is non-fatal: the adapter falls back to a synthetic
// name and records a diagnostic log entry.
type Locator interface {
	Lookup(itemKey string) (string, error)
}

// LocatorFunc adapts a function to the Locator interface.
type LocatorFunc func(itemKey string) (string, error)

// Lookup implements Locator.
func (fn LocatorFunc) Lookup(itemKey string) (string, error) {
	return fn(itemKey)
}

// HostLocator resolves keys relative to a coordinator's host path.
// The resulting key keeps the host document's directory so that sibling
// hosts cannot collide.
type HostLocator struct {
	coordinator *Coordinator
}

// NewHostLocator creates a locator over a coordinator.
func NewHostLocator(c *Coordinator) *HostLocator {
	return &HostLocator{coordinator: c}
}

// Lookup implements Locator.
func (l *HostLocator) Lookup(itemKey string) (string, error) {
	if l.coordinator == nil {
		return "", fmt.Errorf("%w: no coordinator", ErrNotLocated)
	}

	if _, ok := l.coordinator.Region(itemKey); !ok {
		return "", fmt.Errorf("%w: %s", ErrNotLocated, itemKey)
	}

	dir := filepath.Dir(l.coordinator.HostPath())
	return filepath.Join(dir, itemKey), nil
}

// FallbackKey builds the synthetic document key used when the locator
// cannot resolve the item key.
func FallbackKey(itemKey string) string {
	return "untitled:" + itemKey
}
