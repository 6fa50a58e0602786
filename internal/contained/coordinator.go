package contained

import (
	"fmt"
	"sync"

	"github.com/dshills/inlay/internal/engine/buffer"
	"github.com/dshills/inlay/internal/region"
)

// Coordinator owns the data buffer for one host document and materializes
// subject buffers for the embedded regions projected out of it.
// All methods are thread-safe.
type Coordinator struct {
	mu       sync.RWMutex
	hostPath string
	data     *buffer.Buffer
	regions  map[string]region.Region
	order    []string
	subjects map[string]*buffer.Buffer
}

// NewCoordinator creates a coordinator for a host document.
// The host text is scanned for embedded regions immediately.
func NewCoordinator(hostPath, hostText string) *Coordinator {
	c := &Coordinator{
		hostPath: hostPath,
		data:     buffer.NewBufferFromString(hostText),
		regions:  make(map[string]region.Region),
		subjects: make(map[string]*buffer.Buffer),
	}
	c.reindex(hostText)
	return c
}

// reindex rescans the host text for regions. Callers must hold c.mu or have
// exclusive access during construction.
func (c *Coordinator) reindex(hostText string) {
	c.regions = make(map[string]region.Region)
	c.order = c.order[:0]

	for _, r := range region.Scan(c.hostPath, hostText) {
		c.regions[r.Key] = r
		c.order = append(c.order, r.Key)
	}
}

// HostPath returns the host document path.
func (c *Coordinator) HostPath() string {
	return c.hostPath
}

// DataBuffer returns the host document's data buffer.
func (c *Coordinator) DataBuffer() *buffer.Buffer {
	return c.data
}

// Regions returns the current regions in document order.
func (c *Coordinator) Regions() []region.Region {
	c.mu.RLock()
	defer c.mu.RUnlock()

	regions := make([]region.Region, 0, len(c.order))
	for _, key := range c.order {
		regions = append(regions, c.regions[key])
	}
	return regions
}

// Region returns the region for a key.
func (c *Coordinator) Region(key string) (region.Region, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.regions[key]
	return r, ok
}

// Buffers resolves the (subject, data) buffer pair for a region key.
// The subject buffer is created on first use and cached; failing to resolve
// either buffer is an error, never a nil result.
func (c *Coordinator) Buffers(key string) (subject, data *buffer.Buffer, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.regions[key]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownRegion, key)
	}
	if c.data == nil {
		return nil, nil, fmt.Errorf("%w: data buffer for %s", ErrNilBuffer, c.hostPath)
	}

	subject, ok = c.subjects[key]
	if !ok {
		subject = buffer.NewBufferFromString(r.Text)
		c.subjects[key] = subject
	}

	return subject, c.data, nil
}

// SetHostText replaces the host document text, rescans regions, and syncs
// the subject buffers of regions that survived the change. Subject buffers
// whose regions disappeared are dropped from the cache; adapters bound to
// them are expected to be disconnected by the owner.
//
// The data-buffer mutation notifies its change listeners synchronously, so
// by the time SetHostText returns every bound adapter has re-registered its
// current text and requested re-analysis.
func (c *Coordinator) SetHostText(hostText string) {
	c.mu.Lock()
	c.reindex(hostText)

	for key, subject := range c.subjects {
		r, ok := c.regions[key]
		if !ok {
			delete(c.subjects, key)
			continue
		}
		if subject.Text() != r.Text {
			subject.SetText(r.Text)
		}
	}
	c.mu.Unlock()

	// Mutate the data buffer outside the coordinator lock: its listeners
	// (the adapters) call back into the coordinator.
	c.data.SetText(hostText)
}

// SubjectText returns the current region text for a key.
func (c *Coordinator) SubjectText(key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.regions[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRegion, key)
	}
	return r.Text, nil
}
