package event

import (
	"context"
	"errors"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/inlay/internal/event/topic"
)

// Errors returned by the bus.
var (
	// ErrInvalidTopic indicates a malformed topic or pattern.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrNilHandler indicates a nil handler was supplied.
	ErrNilHandler = errors.New("nil handler")
)

// PanicHandler is called when a handler panics during dispatch.
type PanicHandler func(ev Event, panicValue any, stack []byte)

// Bus is a synchronous topic-based event bus.
// Handlers run on the publishing goroutine; it is safe to publish from a
// handler, and to cancel a subscription from within its own handler.
type Bus struct {
	mu      sync.RWMutex
	subs    map[string]*subscription
	onPanic PanicHandler

	published atomic64
	delivered atomic64
	panics    atomic64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler sets a callback invoked when a handler panics.
func WithPanicHandler(fn PanicHandler) BusOption {
	return func(b *Bus) {
		b.onPanic = fn
	}
}

// NewBus creates a new event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		subs: make(map[string]*subscription),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Subscribe registers a handler for a topic pattern.
func (b *Bus) Subscribe(pattern topic.Topic, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	sub := &subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: handler,
		bus:     b,
	}

	for _, opt := range opts {
		opt(sub)
	}

	b.mu.Lock()
	b.subs[sub.id] = sub
	b.mu.Unlock()

	return sub, nil
}

// SubscribeFunc registers a handler function for a topic pattern.
func (b *Bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe cancels a subscription.
func (b *Bus) Unsubscribe(sub Subscription) {
	if sub != nil {
		sub.Cancel()
	}
}

// remove deletes a subscription by ID. Called from subscription.Cancel.
func (b *Bus) remove(id string) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}

// Publish delivers an event synchronously to all matching subscriptions in
// priority order. Handler errors are joined and returned; a panicking
// handler is recovered and reported to the panic handler, and does not
// prevent delivery to the remaining handlers.
func (b *Bus) Publish(ctx context.Context, t topic.Topic, payload any) error {
	if !t.IsValid() || t.IsWildcard() {
		return ErrInvalidTopic
	}

	ev := Event{Topic: t, Payload: payload}
	b.published.inc()

	// Snapshot matching subscriptions so handlers can subscribe/cancel
	// without deadlocking on the bus lock.
	b.mu.RLock()
	matched := make([]*subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if sub.wants(ev) {
			matched = append(matched, sub)
		}
	}
	b.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].priority < matched[j].priority
	})

	var errs []error
	for _, sub := range matched {
		if !sub.IsActive() {
			continue
		}
		if err := b.dispatch(ctx, sub, ev); err != nil {
			errs = append(errs, err)
		}
		b.delivered.inc()
	}

	return errors.Join(errs...)
}

// dispatch runs a single handler with panic isolation.
func (b *Bus) dispatch(ctx context.Context, sub *subscription, ev Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.inc()
			if b.onPanic != nil {
				b.onPanic(ev, r, debug.Stack())
			}
		}
	}()

	return sub.handler.Handle(ctx, ev)
}

// SubscriptionCount returns the number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stats reports bus counters.
type Stats struct {
	Published     uint64
	Delivered     uint64
	HandlerPanics uint64
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published:     b.published.load(),
		Delivered:     b.delivered.load(),
		HandlerPanics: b.panics.load(),
	}
}
