package contained

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/dshills/inlay/internal/diag"
	"github.com/dshills/inlay/internal/engine/buffer"
	"github.com/dshills/inlay/internal/event"
	"github.com/dshills/inlay/internal/event/events"
	"github.com/dshills/inlay/internal/event/topic"
	"github.com/dshills/inlay/internal/rules"
	"github.com/dshills/inlay/internal/workspace"
)

// Releaser is an auxiliary resource held by an adapter and released exactly
// once on disconnect, such as a tag-aggregation handle.
type Releaser interface {
	Release()
}

// AdapterConfig carries the collaborators an adapter binds together.
type AdapterConfig struct {
	// Coordinator yields the subject and data buffers. Required.
	Coordinator *Coordinator

	// Workspace tracks the registered subject document. Required.
	Workspace *workspace.Workspace

	// Diagnostics re-analyzes the tracked document. Required.
	Diagnostics *diag.Service

	// ItemKey identifies the embedded region within the host document.
	ItemKey string

	// Locator resolves the item key to a stable document key.
	// Defaults to a HostLocator over the coordinator.
	Locator Locator

	// Rules supplies the formatting-rule configuration.
	// Defaults to the built-in rule set.
	Rules *rules.Set

	// Bus, when set, receives contained-document lifecycle events.
	Bus *event.Bus

	// Aggregator is an optional auxiliary resource released on disconnect.
	Aggregator Releaser

	// Logger receives non-fatal diagnostics. Defaults to log.Default().
	Logger *log.Logger
}

// Adapter binds one subject buffer to the host data buffer.
// See the package documentation for the lifecycle contract.
type Adapter struct {
	workspace   *workspace.Workspace
	diagnostics *diag.Service
	bus         *event.Bus
	logger      *log.Logger
	doc         *Document

	listenerID buffer.ListenerID

	mu         sync.Mutex
	disposed   bool
	aggregator Releaser
}

// NewAdapter resolves the buffers for the item key, registers the subject
// text with the workspace, and subscribes to data-buffer changes.
//
// Failure to resolve either buffer is fatal and aborts construction.
// Failure to resolve the document key is non-fatal: a synthetic fallback key
// is used and the failure is logged.
func NewAdapter(cfg AdapterConfig) (*Adapter, error) {
	if cfg.Coordinator == nil {
		return nil, ErrNilCoordinator
	}
	if cfg.Workspace == nil {
		return nil, ErrNilWorkspace
	}
	if cfg.Diagnostics == nil {
		return nil, ErrNilDiagnostics
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	subject, data, err := cfg.Coordinator.Buffers(cfg.ItemKey)
	if err != nil {
		return nil, fmt.Errorf("resolve buffers for %s: %w", cfg.ItemKey, err)
	}

	locator := cfg.Locator
	if locator == nil {
		locator = NewHostLocator(cfg.Coordinator)
	}

	key, err := locator.Lookup(cfg.ItemKey)
	if err != nil {
		key = FallbackKey(cfg.ItemKey)
		logger.Printf("contained: document key lookup failed for %s, using %s: %v",
			cfg.ItemKey, key, err)
	}

	language := ""
	if r, ok := cfg.Coordinator.Region(cfg.ItemKey); ok {
		language = r.Language
	}

	ruleSet := cfg.Rules
	if ruleSet == nil {
		ruleSet = rules.DefaultSet()
	}

	handle, err := cfg.Workspace.Register(subject.Text(), key, language)
	if err != nil {
		return nil, fmt.Errorf("register contained document %s: %w", key, err)
	}

	a := &Adapter{
		workspace:   cfg.Workspace,
		diagnostics: cfg.Diagnostics,
		bus:         cfg.Bus,
		logger:      logger,
		aggregator:  cfg.Aggregator,
		doc: &Document{
			handle:   handle,
			key:      key,
			language: language,
			subject:  subject,
			data:     data,
			rules:    ruleSet.ForLanguage(language),
		},
	}

	a.listenerID = data.AddListener(a.onHostBufferChanged)

	a.publish(events.TopicContainedRegistered, events.ContainedRegistered{
		Handle:   string(handle),
		Key:      key,
		Language: language,
	})

	return a, nil
}

// Document returns the contained-document record.
func (a *Adapter) Document() *Document {
	return a.doc
}

// Handle returns the workspace handle of the tracked document.
func (a *Adapter) Handle() workspace.Handle {
	return a.doc.handle
}

// IsDisposed returns true once Disconnect has run.
func (a *Adapter) IsDisposed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.disposed
}

// onHostBufferChanged handles a data-buffer change notification.
//
// The change payload is ignored entirely: a host edit can move the embedded
// region without altering its text, and diagnostics must be recomputed for
// correct position mapping either way. The callback runs synchronously on
// the editing goroutine and must not block.
func (a *Adapter) onHostBufferChanged(buffer.ChangeEvent) {
	a.mu.Lock()
	if a.disposed {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	if err := a.Reanalyze(context.Background()); err != nil {
		a.logger.Printf("contained: re-analysis of %s failed: %v", a.doc.key, err)
	}
}

// Reanalyze pushes the subject buffer's current text to the workspace and
// requests a diagnostics pass for the tracked document.
func (a *Adapter) Reanalyze(ctx context.Context) error {
	if err := a.workspace.UpdateText(a.doc.handle, a.doc.subject.Text()); err != nil {
		return fmt.Errorf("update tracked text: %w", err)
	}

	if err := a.diagnostics.Reanalyze(ctx, a.doc.handle); err != nil {
		return fmt.Errorf("reanalyze: %w", err)
	}

	if dd, ok := a.diagnostics.GetDocument(a.doc.handle); ok {
		a.publish(events.TopicContainedReanalyzed, events.ContainedReanalyzed{
			Handle:      string(a.doc.handle),
			Key:         a.doc.key,
			Diagnostics: len(dd.Diagnostics),
			Errors:      dd.ErrorCount,
		})
	}

	return nil
}

// Disconnect unsubscribes from the data buffer, unregisters the tracked
// document, and releases the aggregator resource. It is idempotent: calling
// it more than once is a no-op. The subscription is removed before any
// teardown so a reentrant change notification cannot observe a disposed
// adapter.
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	if a.disposed {
		a.mu.Unlock()
		return
	}
	a.disposed = true
	aggregator := a.aggregator
	a.aggregator = nil
	a.mu.Unlock()

	a.doc.data.RemoveListener(a.listenerID)

	if err := a.workspace.Unregister(a.doc.handle); err != nil {
		a.logger.Printf("contained: unregister %s: %v", a.doc.key, err)
	}
	a.diagnostics.Clear(a.doc.handle)

	if aggregator != nil {
		aggregator.Release()
	}

	a.publish(events.TopicContainedDisconnected, events.ContainedDisconnected{
		Handle: string(a.doc.handle),
		Key:    a.doc.key,
	})
}

// publish sends a lifecycle event if a bus is configured.
func (a *Adapter) publish(t topic.Topic, payload any) {
	if a.bus == nil {
		return
	}
	if err := a.bus.Publish(context.Background(), t, payload); err != nil {
		a.logger.Printf("contained: publish %s: %v", t, err)
	}
}
