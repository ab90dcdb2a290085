package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"webpush_demo/internal/model"
)

func TestHubFanOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	first := NewClient(1)
	second := NewClient(1)
	hub.Register(first)
	hub.Register(second)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Publish(model.Event{Type: model.EventTypeStats, Data: model.StatsSnapshot{TotalSubscriptions: 2}})

	for _, client := range []*Client{first, second} {
		select {
		case got := <-client.Ch:
			require.Equal(t, model.EventTypeStats, got.Type)
		case <-time.After(time.Second):
			t.Fatalf("expected event")
		}
	}

	hub.Unregister(first)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
}

func TestHubPublishDoesNotBlockWithoutRun(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			hub.Publish(model.Event{Type: model.EventTypeBroadcast})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked")
	}
}

func TestHubClosesClientsOnStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := NewClient(1)
	hub.Register(client)
	cancel()
	<-stopped

	_, ok := <-client.Ch
	require.False(t, ok)
	require.False(t, hub.Register(NewClient(1)))
	hub.Unregister(client)
}
