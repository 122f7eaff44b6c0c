package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var mu sync.Mutex
	var delivered []string
	record := func(name string) EventHandler {
		return func(_ context.Context, event Event) error {
			mu.Lock()
			defer mu.Unlock()
			delivered = append(delivered, name)
			return nil
		}
	}
	dispatcher.Subscribe(EventTicketCreated, record("first"))
	dispatcher.Subscribe(EventTicketCreated, record("second"))

	err := dispatcher.Publish(context.Background(), Event{
		ID:      "evt-1",
		Type:    EventTicketCreated,
		Payload: TicketCreatedPayload{TicketID: "t-1"},
	})
	require.NoError(t, err)
	dispatcher.Wait()

	assert.ElementsMatch(t, []string{"first", "second"}, delivered)
}

func TestPublishIgnoresUnsubscribedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var calls int
	dispatcher.Subscribe(EventUserSignup, func(context.Context, Event) error {
		calls++
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated}))
	dispatcher.Wait()

	assert.Zero(t, calls)
}

func TestPublishSurvivesHandlerErrors(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received Event
	dispatcher.Subscribe(EventUserSignup, func(context.Context, Event) error {
		return errors.New("handler blew up")
	})
	dispatcher.Subscribe(EventUserSignup, func(_ context.Context, event Event) error {
		received = event
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{
		ID:      "evt-2",
		Type:    EventUserSignup,
		Payload: UserSignupPayload{Email: "new@example.com"},
	})
	require.NoError(t, err)
	dispatcher.Wait()

	assert.Equal(t, "evt-2", received.ID)
}

func TestHandlerContextOutlivesPublisher(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	done := make(chan error, 1)
	dispatcher.Subscribe(EventUserSignup, func(ctx context.Context, _ Event) error {
		select {
		case <-ctx.Done():
			done <- ctx.Err()
		case <-time.After(50 * time.Millisecond):
			done <- nil
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, dispatcher.Publish(ctx, Event{Type: EventUserSignup}))
	cancel()
	dispatcher.Wait()

	assert.NoError(t, <-done)
}
