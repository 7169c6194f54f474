package events

import (
	"context"
	"testing"
	"time"

	"groundbook/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestBus(t *testing.T) *RedisBus {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisBus(client)
}

func TestRedisBusDeliversMatchingEvents(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	viewer := models.Identity{UserID: "u1", Role: models.RoleUser}
	stream, err := bus.Subscribe(ctx, VisibleTo(viewer))
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	for _, e := range []models.BookingEvent{
		{Type: models.EventBookingCreated, BookingID: "b2", UserID: "u2", NewStatus: models.BookingPending},
		{Type: models.EventBookingCreated, BookingID: "b1", UserID: "u1", NewStatus: models.BookingPending},
	} {
		if err := bus.Publish(ctx, e); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}

	select {
	case got := <-stream:
		if got.BookingID != "b1" || got.UserID != "u1" {
			t.Fatalf("got %s for %s, want b1 for u1", got.BookingID, got.UserID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	select {
	case got, ok := <-stream:
		if ok {
			t.Fatalf("unexpected extra event %+v", got)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRedisBusClosesStreamOnCancel(t *testing.T) {
	bus := newTestBus(t)
	ctx, cancel := context.WithCancel(context.Background())

	stream, err := bus.Subscribe(ctx, nil)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-stream:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream was not closed after cancel")
		}
	}
}
