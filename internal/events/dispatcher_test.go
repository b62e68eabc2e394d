package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcher_FanOut(t *testing.T) {
	d := NewInMemoryDispatcher()
	var first, second int

	d.Subscribe(EventFileUploaded, func(ctx context.Context, e Event) error {
		first++
		return nil
	})
	d.Subscribe(EventFileUploaded, func(ctx context.Context, e Event) error {
		second++
		return nil
	})
	d.Subscribe(EventFileDeleted, func(ctx context.Context, e Event) error {
		t.Fatal("wrong event type delivered")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventFileUploaded})
	assert.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Equal(t, 1, second)
}

func TestDispatcher_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()
	var delivered bool

	d.Subscribe(EventUserRegistered, func(ctx context.Context, e Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventUserRegistered, func(ctx context.Context, e Event) error {
		delivered = true
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventUserRegistered}))
	assert.True(t, delivered)
}
