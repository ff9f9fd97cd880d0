package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/stockpilot-api/internal/domain/repository"
	"github.com/sangkips/stockpilot-api/internal/infrastructure/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_FanOut(t *testing.T) {
	hub := store.NewHub(nil)
	ctx := context.Background()

	a, cancelA := hub.Subscribe(ctx)
	defer cancelA()
	b, cancelB := hub.Subscribe(ctx)
	defer cancelB()
	require.Equal(t, 2, hub.Subscribers())

	hub.Publish(repository.ChangeEvent{Collection: repository.CollectionSales})

	for _, ch := range []<-chan repository.ChangeEvent{a, b} {
		select {
		case ev := <-ch:
			assert.Equal(t, repository.CollectionSales, ev.Collection)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive the event")
		}
	}
}

func TestHub_CancelClosesChannel(t *testing.T) {
	hub := store.NewHub(nil)
	ch, cancel := hub.Subscribe(context.Background())

	cancel()
	cancel()

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers())
}

func TestHub_ContextDoneUnsubscribes(t *testing.T) {
	hub := store.NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	ch, _ := hub.Subscribe(ctx)

	cancel()

	select {
	case _, open := <-ch:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("channel not closed after context cancel")
	}
	assert.Eventually(t, func() bool { return hub.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := store.NewHub(nil)
	ch, cancel := hub.Subscribe(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish(repository.ChangeEvent{Collection: repository.CollectionProducts})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	assert.Equal(t, 64, len(ch))
}
