package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stocksync/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New(), uuid.New()),
	}
}

type capturingHandler struct {
	types    []string
	received []shared.DomainEvent
	err      error
	panics   bool
}

func (h *capturingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.received = append(h.received, event)
	return h.err
}

func (h *capturingHandler) EventTypes() []string {
	return h.types
}

func TestInMemoryEventBusPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to handlers of the matching type", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &capturingHandler{types: []string{"test.created"}}
		bus.Subscribe(handler)

		err := bus.Publish(ctx, newTestEvent("test.created"), newTestEvent("test.other"))
		require.NoError(t, err)

		require.Len(t, handler.received, 1)
		assert.Equal(t, "test.created", handler.received[0].EventType())
	})

	t.Run("handler errors never reach the publisher", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := &capturingHandler{types: []string{"test.created"}, err: errors.New("boom")}
		healthy := &capturingHandler{types: []string{"test.created"}}
		bus.Subscribe(failing)
		bus.Subscribe(healthy)

		err := bus.Publish(ctx, newTestEvent("test.created"))
		require.NoError(t, err)
		assert.Len(t, healthy.received, 1)
	})

	t.Run("a panicking handler does not stop delivery", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		panicking := &capturingHandler{types: []string{"test.created"}, panics: true}
		healthy := &capturingHandler{types: []string{"test.created"}}
		bus.Subscribe(panicking)
		bus.Subscribe(healthy)

		err := bus.Publish(ctx, newTestEvent("test.created"))
		require.NoError(t, err)
		assert.Len(t, healthy.received, 1)
	})

	t.Run("explicit subscription types override the handler's own", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &capturingHandler{types: []string{"test.created"}}
		bus.Subscribe(handler, "test.other")

		err := bus.Publish(ctx, newTestEvent("test.other"))
		require.NoError(t, err)
		assert.Len(t, handler.received, 1)
	})

	t.Run("unsubscribed handlers receive nothing", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := &capturingHandler{types: []string{"test.created"}}
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		err := bus.Publish(ctx, newTestEvent("test.created"))
		require.NoError(t, err)
		assert.Empty(t, handler.received)
	})
}

func TestInMemoryEventBusLifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Stop(ctx))
}
