package event

import (
	"sync/atomic"

	"github.com/dshills/inlay/internal/event/topic"
)

// Subscription represents an active event subscription.
type Subscription interface {
	// ID returns the unique subscription identifier.
	ID() string

	// Topic returns the subscribed topic pattern.
	Topic() topic.Topic

	// IsActive returns true if the subscription can receive events.
	IsActive() bool

	// Cancel permanently cancels the subscription.
	// Cancelling an already-cancelled subscription is a no-op.
	Cancel()
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*subscription)

// WithPriority sets the handler execution priority (lower values run first).
func WithPriority(p Priority) SubscriptionOption {
	return func(s *subscription) {
		s.priority = p
	}
}

// WithFilter delivers events only when the predicate returns true.
func WithFilter(fn func(ev Event) bool) SubscriptionOption {
	return func(s *subscription) {
		s.filter = fn
	}
}

// subscription is the internal Subscription implementation.
type subscription struct {
	id        string
	pattern   topic.Topic
	handler   Handler
	priority  Priority
	filter    func(ev Event) bool
	cancelled atomic.Bool
	bus       *Bus
}

func (s *subscription) ID() string {
	return s.id
}

func (s *subscription) Topic() topic.Topic {
	return s.pattern
}

func (s *subscription) IsActive() bool {
	return !s.cancelled.Load()
}

func (s *subscription) Cancel() {
	if s.cancelled.CompareAndSwap(false, true) {
		s.bus.remove(s.id)
	}
}

// wants reports whether the subscription should receive the event.
func (s *subscription) wants(ev Event) bool {
	if s.cancelled.Load() {
		return false
	}
	if !ev.Topic.Matches(s.pattern) {
		return false
	}
	if s.filter != nil && !s.filter(ev) {
		return false
	}
	return true
}
