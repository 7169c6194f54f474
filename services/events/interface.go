package events

import (
	"context"
	"errors"

	"groundbook/models"
)

// Publisher emits booking change events. Callers treat publish failures as non-fatal.
type Publisher interface {
	Publish(ctx context.Context, event models.BookingEvent) error
}

// Subscriber streams booking change events that satisfy match.
// The returned channel is closed once ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, match func(models.BookingEvent) bool) (<-chan models.BookingEvent, error)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.BookingEvent) error { return nil }

// MultiPublisher fans an event out to every publisher and joins their errors.
type MultiPublisher []Publisher

func (m MultiPublisher) Publish(ctx context.Context, event models.BookingEvent) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// VisibleTo returns a predicate selecting the events an identity may watch:
// admins see everything, users only their own bookings.
func VisibleTo(id models.Identity) func(models.BookingEvent) bool {
	if id.IsAdmin() {
		return func(models.BookingEvent) bool { return true }
	}
	if id.Role == models.RoleUnknown || id.UserID == "" {
		return func(models.BookingEvent) bool { return false }
	}
	return func(e models.BookingEvent) bool { return e.UserID == id.UserID }
}
