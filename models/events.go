package models

import "time"

// Booking change event types, also used as AMQP routing keys.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
)

// BookingEvent is published on every booking insert and status change.
type BookingEvent struct {
	Type       string        `json:"type"`
	BookingID  string        `json:"booking_id"`
	UserID     string        `json:"user_id"`
	GroundID   string        `json:"ground_id"`
	OldStatus  BookingStatus `json:"old_status,omitempty"`
	NewStatus  BookingStatus `json:"new_status"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// ReminderPayload is the asynq payload of a booking reminder.
type ReminderPayload struct {
	BookingID string `json:"booking_id"`
	UserID    string `json:"user_id"`
	FireAt    string `json:"fire_at"`
}
