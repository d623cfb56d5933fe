package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var order []string

	bus.Subscribe(TypeMatchWritten, func(ctx context.Context, evt Event) error {
		order = append(order, "first")
		return nil
	})
	bus.Subscribe(TypeMatchWritten, func(ctx context.Context, evt Event) error {
		order = append(order, "second")
		return nil
	})

	err := bus.Publish(context.Background(), Event{ID: "e1", Type: TypeMatchWritten})

	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestBus_PublishRunsAllHandlersDespiteFailure(t *testing.T) {
	bus := NewBus()
	failure := errors.New("handler broke")
	var ran bool

	bus.Subscribe(TypeUserDeleted, func(ctx context.Context, evt Event) error {
		return failure
	})
	bus.Subscribe(TypeUserDeleted, func(ctx context.Context, evt Event) error {
		ran = true
		return nil
	})

	err := bus.Publish(context.Background(), Event{Type: TypeUserDeleted})

	assert.ErrorIs(t, err, failure)
	assert.True(t, ran, "later handlers still run")
}

func TestBus_PublishJoinsErrors(t *testing.T) {
	bus := NewBus()
	first := errors.New("first")
	second := errors.New("second")

	bus.Subscribe(TypeMatchDeleted, func(ctx context.Context, evt Event) error { return first })
	bus.Subscribe(TypeMatchDeleted, func(ctx context.Context, evt Event) error { return second })

	err := bus.Publish(context.Background(), Event{Type: TypeMatchDeleted})

	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()

	err := bus.Publish(context.Background(), Event{Type: TypeInviteCreated})

	assert.NoError(t, err)
}

func TestBus_HandlersOnlyReceiveTheirType(t *testing.T) {
	bus := NewBus()
	var got []Type

	bus.Subscribe(TypeMatchWritten, func(ctx context.Context, evt Event) error {
		got = append(got, evt.Type)
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), Event{Type: TypeUserDeleted}))
	require.NoError(t, bus.Publish(context.Background(), Event{Type: TypeMatchWritten}))

	assert.Equal(t, []Type{TypeMatchWritten}, got)
}
