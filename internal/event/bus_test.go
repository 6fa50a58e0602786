package event

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/inlay/internal/event/topic"
)

func TestPublishDeliversToMatchingSubscription(t *testing.T) {
	b := NewBus()

	var got Event
	var calls int
	_, err := b.SubscribeFunc("host.changed", func(_ context.Context, ev Event) error {
		got = ev
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := b.Publish(context.Background(), "host.changed", 42); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected 1 delivery, got %d", calls)
	}
	if got.Payload != 42 {
		t.Errorf("unexpected payload: %v", got.Payload)
	}
}

func TestPublishSkipsNonMatching(t *testing.T) {
	b := NewBus()

	var calls int
	if _, err := b.SubscribeFunc("contained.*", func(context.Context, Event) error {
		calls++
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := b.Publish(context.Background(), "host.changed", nil); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if calls != 0 {
		t.Errorf("expected 0 deliveries, got %d", calls)
	}
}

func TestWildcardSubscription(t *testing.T) {
	b := NewBus()

	var topics []topic.Topic
	if _, err := b.SubscribeFunc("contained.**", func(_ context.Context, ev Event) error {
		topics = append(topics, ev.Topic)
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	ctx := context.Background()
	b.Publish(ctx, "contained.registered", nil)
	b.Publish(ctx, "contained.reanalyzed", nil)
	b.Publish(ctx, "host.changed", nil)

	if len(topics) != 2 {
		t.Errorf("expected 2 deliveries, got %d (%v)", len(topics), topics)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	b := NewBus()

	var calls int
	sub, err := b.SubscribeFunc("host.changed", func(context.Context, Event) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	sub.Cancel()
	sub.Cancel()

	if sub.IsActive() {
		t.Error("cancelled subscription should not be active")
	}
	if b.SubscriptionCount() != 0 {
		t.Errorf("expected 0 subscriptions, got %d", b.SubscriptionCount())
	}

	b.Publish(context.Background(), "host.changed", nil)
	if calls != 0 {
		t.Errorf("cancelled subscription should not receive events, got %d", calls)
	}
}

func TestHandlerErrorPropagates(t *testing.T) {
	b := NewBus()

	wantErr := errors.New("handler failure")
	if _, err := b.SubscribeFunc("host.changed", func(context.Context, Event) error {
		return wantErr
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	err := b.Publish(context.Background(), "host.changed", nil)
	if !errors.Is(err, wantErr) {
		t.Errorf("expected handler error, got %v", err)
	}
}

func TestHandlerPanicIsIsolated(t *testing.T) {
	var panicked any
	b := NewBus(WithPanicHandler(func(_ Event, v any, _ []byte) {
		panicked = v
	}))

	if _, err := b.SubscribeFunc("host.changed", func(context.Context, Event) error {
		panic("boom")
	}, WithPriority(PriorityHigh)); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	var calls int
	if _, err := b.SubscribeFunc("host.changed", func(context.Context, Event) error {
		calls++
		return nil
	}); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	if err := b.Publish(context.Background(), "host.changed", nil); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	if panicked != "boom" {
		t.Errorf("expected panic value, got %v", panicked)
	}
	if calls != 1 {
		t.Errorf("later handler should still run, got %d calls", calls)
	}

	if b.Stats().HandlerPanics != 1 {
		t.Errorf("expected 1 recorded panic, got %d", b.Stats().HandlerPanics)
	}
}

func TestPriorityOrdering(t *testing.T) {
	b := NewBus()

	var order []string
	add := func(name string, p Priority) {
		if _, err := b.SubscribeFunc("host.changed", func(context.Context, Event) error {
			order = append(order, name)
			return nil
		}, WithPriority(p)); err != nil {
			t.Fatalf("subscribe failed: %v", err)
		}
	}

	add("low", PriorityLow)
	add("high", PriorityHigh)
	add("normal", PriorityNormal)

	b.Publish(context.Background(), "host.changed", nil)

	want := []string{"high", "normal", "low"}
	if len(order) != len(want) {
		t.Fatalf("expected %d deliveries, got %d", len(want), len(order))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], order[i])
		}
	}
}

func TestFilter(t *testing.T) {
	b := NewBus()

	var calls int
	if _, err := b.SubscribeFunc("host.changed", func(context.Context, Event) error {
		calls++
		return nil
	}, WithFilter(func(ev Event) bool {
		n, ok := ev.Payload.(int)
		return ok && n > 10
	})); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	ctx := context.Background()
	b.Publish(ctx, "host.changed", 5)
	b.Publish(ctx, "host.changed", 15)

	if calls != 1 {
		t.Errorf("expected 1 filtered delivery, got %d", calls)
	}
}

func TestSubscribeValidation(t *testing.T) {
	b := NewBus()

	if _, err := b.SubscribeFunc("", func(context.Context, Event) error { return nil }); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("expected ErrInvalidTopic, got %v", err)
	}

	if _, err := b.Subscribe("host.changed", nil); !errors.Is(err, ErrNilHandler) {
		t.Errorf("expected ErrNilHandler, got %v", err)
	}

	if err := b.Publish(context.Background(), "host.*", nil); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("publishing to a wildcard should fail, got %v", err)
	}
}
