package event

import (
	"context"

	"github.com/dshills/inlay/internal/event/topic"
)

// Event is a published payload with its topic.
type Event struct {
	// Topic identifies the event type.
	Topic topic.Topic

	// Payload is the event data. Its concrete type is determined by the topic
	// (see the events subpackage).
	Payload any
}

// Handler processes a published event.
type Handler interface {
	Handle(ctx context.Context, ev Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, ev Event) error

// Handle implements Handler.
func (fn HandlerFunc) Handle(ctx context.Context, ev Event) error {
	return fn(ctx, ev)
}

// Priority determines handler execution order. Lower values execute first.
type Priority int

// Common priority levels.
const (
	PriorityHigh   Priority = -100
	PriorityNormal Priority = 0
	PriorityLow    Priority = 100
)
