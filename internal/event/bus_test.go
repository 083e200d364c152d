package event

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestPublishRunsHandlersInRegistrationOrder(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var order []string
	bus.Subscribe(OKRCreatedName, func(ctx context.Context, e Event) error {
		order = append(order, "first")
		return nil
	})
	bus.Subscribe(OKRCreatedName, func(ctx context.Context, e Event) error {
		order = append(order, "second")
		return nil
	})

	bus.Publish(context.Background(), OKRCreated{})

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected handlers in registration order, got %v", order)
	}
}

func TestPublishIsolatesSubscriberFailures(t *testing.T) {
	bus := NewBus(zap.NewNop())

	bus.Subscribe(WorkItemCreatedName, func(ctx context.Context, e Event) error {
		return errors.New("boom")
	})

	ran := false
	bus.Subscribe(WorkItemCreatedName, func(ctx context.Context, e Event) error {
		ran = true
		return nil
	})

	bus.Publish(context.Background(), WorkItemCreated{})

	if !ran {
		t.Fatal("expected second subscriber to run after first failed")
	}
}

func TestPublishDropsEventWithoutSubscribers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	// Must not panic or block.
	bus.Publish(context.Background(), UserActivated{})
}

func TestPublishOnlyMatchingName(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var got []string
	bus.Subscribe(OKRDeletedName, func(ctx context.Context, e Event) error {
		got = append(got, e.Name())
		return nil
	})

	bus.Publish(context.Background(), OKRCreated{})
	bus.Publish(context.Background(), OKRDeleted{})

	if len(got) != 1 || got[0] != OKRDeletedName {
		t.Fatalf("expected only %s delivered, got %v", OKRDeletedName, got)
	}
}
