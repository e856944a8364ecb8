package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var calls []string
	for _, name := range []string{"first", "second", "third"} {
		bus.Subscribe("test", func(e Event) error {
			calls = append(calls, name)
			return nil
		})
	}

	err := bus.Publish(NewEvent(context.Background(), "test", nil))

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, calls)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	count := 0
	unsubscribe := bus.Subscribe("test", func(e Event) error {
		count++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), "test", nil)))
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), "test", nil)))

	assert.Equal(t, 1, count)
}

func TestSubscribeTyped(t *testing.T) {
	bus := NewEventBus()
	var received []TransactionsMaterialized
	SubscribeTyped(bus, TransactionsMaterializedType, func(e EventT[TransactionsMaterialized]) error {
		received = append(received, e.Data)
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), TransactionsMaterializedType, "wrong payload")))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), TransactionsMaterializedType, TransactionsMaterialized{UserId: 7, Inserted: 2})))

	assert.Equal(t, []TransactionsMaterialized{{UserId: 7, Inserted: 2}}, received)
}

func TestEventBus_HandlerFailuresAreCollected(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")
	reached := false
	bus.Subscribe("test", func(e Event) error { return boom })
	bus.Subscribe("test", func(e Event) error { panic("kaput") })
	bus.Subscribe("test", func(e Event) error {
		reached = true
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), "test", nil))

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "kaput")
	assert.True(t, reached)
}

func TestEventBus_CancelledContext(t *testing.T) {
	bus := NewEventBus()
	called := false
	bus.Subscribe("test", func(e Event) error {
		called = true
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(NewEvent(ctx, "test", nil))

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
