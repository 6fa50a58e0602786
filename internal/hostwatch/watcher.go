package hostwatch

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Errors returned by the watcher.
var (
	// ErrNilTarget indicates the watcher was created without a target.
	ErrNilTarget = errors.New("nil reload target")

	// ErrWatcherClosed indicates an operation on a closed watcher.
	ErrWatcherClosed = errors.New("watcher closed")
)

// Target receives the host document text after each on-disk change.
type Target interface {
	ApplyHost(text string) error
}

// TargetFunc adapts a function to the Target interface.
type TargetFunc func(text string) error

// ApplyHost implements Target.
func (fn TargetFunc) ApplyHost(text string) error {
	return fn(text)
}

// Watcher reloads one host document when it changes on disk.
type Watcher struct {
	path     string
	target   Target
	debounce time.Duration
	logger   *log.Logger

	fs *fsnotify.Watcher

	mu      sync.Mutex
	pending *time.Timer
	closed  bool
	reloads int64

	closeCh  chan struct{}
	closedWg sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the coalescing window for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for non-fatal reload failures.
func WithLogger(logger *log.Logger) Option {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// New creates a watcher for a host document path and starts its event loop.
func New(path string, target Target, opts ...Option) (*Watcher, error) {
	if target == nil {
		return nil, ErrNilTarget
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		path:     absPath,
		target:   target,
		debounce: 200 * time.Millisecond,
		logger:   log.Default(),
		fs:       fs,
		closeCh:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := fs.Add(filepath.Dir(absPath)); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	w.closedWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Path returns the absolute path of the watched document.
func (w *Watcher) Path() string {
	return w.path
}

// Reload reads the document from disk and applies it to the target
// immediately, bypassing the debounce window. Returns ErrWatcherClosed
// after Close.
func (w *Watcher) Reload() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.mu.Unlock()

	data, err := os.ReadFile(w.path)
	if err != nil {
		return fmt.Errorf("read %s: %w", w.path, err)
	}

	if err := w.target.ApplyHost(string(data)); err != nil {
		return fmt.Errorf("apply %s: %w", w.path, err)
	}

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()
	return nil
}

// Reloads returns the number of successful reloads.
func (w *Watcher) Reloads() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fs.Close()
	w.closedWg.Wait()
	return err
}

// processLoop handles incoming fsnotify events.
func (w *Watcher) processLoop() {
	defer w.closedWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Printf("hostwatch: %v", err)
		}
	}
}

// handleEvent schedules a debounced reload for events touching the document.
func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Name != w.path {
		return
	}
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	if w.pending != nil {
		w.pending.Reset(w.debounce)
		return
	}

	w.pending = time.AfterFunc(w.debounce, w.fireReload)
}

// fireReload runs the deferred reload after the debounce window elapses.
func (w *Watcher) fireReload() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending = nil
	w.mu.Unlock()

	if err := w.Reload(); err != nil {
		// The file can be briefly absent mid-rename. The next event
		// reschedules the reload.
		w.logger.Printf("hostwatch: reload: %v", err)
	}
}
