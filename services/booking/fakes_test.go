package booking

import (
	"context"
	"errors"
	"sync"
	"time"

	"groundbook/database/repository"
	"groundbook/models"
	"groundbook/utils"
)

type memBookings struct {
	mu   sync.Mutex
	data map[string]models.Booking
	// beforeUpdate runs inside UpdateStatus before the status comparison.
	beforeUpdate func(m map[string]models.Booking)
	createErr    error
}

func newMemBookings(seed ...models.Booking) *memBookings {
	m := &memBookings{data: map[string]models.Booking{}}
	for _, b := range seed {
		m.data[b.ID] = b
	}
	return m
}

func (m *memBookings) Create(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.data[b.ID] = *b
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[id]
	if !ok {
		return nil, utils.NotFoundError{Resource: "booking", ID: id}
	}
	return &b, nil
}

func (m *memBookings) List(_ context.Context, f models.BookingFilter) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Booking{}
	for _, b := range m.data {
		if f.UserID != "" && b.UserID != f.UserID {
			continue
		}
		if f.GroundID != "" && b.GroundID != f.GroundID {
			continue
		}
		if f.BookingDate != "" && b.BookingDate != f.BookingDate {
			continue
		}
		if len(f.Statuses) > 0 {
			match := false
			for _, s := range f.Statuses {
				if b.Status == s {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *memBookings) UpdateStatus(_ context.Context, id string, from models.BookingStatus, patch repository.StatusPatch) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beforeUpdate != nil {
		m.beforeUpdate(m.data)
	}
	b, ok := m.data[id]
	if !ok || b.Status != from {
		return nil, repository.ErrStatusMismatch
	}
	b.Status = patch.Status
	if patch.Notes != "" {
		b.Notes = patch.Notes
	}
	b.UpdatedAt = patch.UpdatedAt
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = time.Now().UTC()
	}
	m.data[id] = b
	return &b, nil
}

func (m *memBookings) status(id string) models.BookingStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[id].Status
}

type memPayments struct {
	created []models.Payment
	err     error
}

func (m *memPayments) Create(_ context.Context, p *models.Payment) error {
	if m.err != nil {
		return m.err
	}
	m.created = append(m.created, *p)
	return nil
}

func (m *memPayments) GetByBookingID(_ context.Context, bookingID string) (*models.Payment, error) {
	for _, p := range m.created {
		if p.BookingID == bookingID {
			return &p, nil
		}
	}
	return nil, utils.NotFoundError{Resource: "payment", ID: bookingID}
}

type memGrounds map[string]models.Ground

func (m memGrounds) GetByID(_ context.Context, id string) (*models.Ground, error) {
	g, ok := m[id]
	if !ok {
		return nil, utils.NotFoundError{Resource: "ground", ID: id}
	}
	return &g, nil
}

type memProfiles map[string]models.UserProfile

func (m memProfiles) GetByID(_ context.Context, id string) (*models.UserProfile, error) {
	p, ok := m[id]
	if !ok {
		return nil, utils.NotFoundError{Resource: "user", ID: id}
	}
	return &p, nil
}

// memNotifications is an in-memory NotificationRepository.
type memNotifications struct {
	items []models.Notification
	err   error
}

func (m *memNotifications) Create(_ context.Context, n *models.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.items = append(m.items, *n)
	return nil
}

func (m *memNotifications) ListByUser(_ context.Context, userID string, _ int) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range m.items {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memNotifications) MarkRead(context.Context, string, string) error { return nil }

func (m *memNotifications) MarkAllRead(context.Context, string) (int64, error) { return 0, nil }

func (m *memNotifications) CountUnread(context.Context, string) (int64, error) {
	return int64(len(m.items)), nil
}

type recordingEvents struct {
	events []models.BookingEvent
}

func (r *recordingEvents) Publish(_ context.Context, e models.BookingEvent) error {
	r.events = append(r.events, e)
	return nil
}

type failingEvents struct{}

func (failingEvents) Publish(context.Context, models.BookingEvent) error {
	return errors.New("bus down")
}

type recordingReminders struct {
	scheduled []string
}

func (r *recordingReminders) ScheduleReminder(_ context.Context, b *models.Booking) error {
	r.scheduled = append(r.scheduled, b.ID)
	return nil
}
