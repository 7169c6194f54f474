package booking

import (
	"context"

	"groundbook/models"
)

// BookingService is the booking lifecycle: creation, checkout, status changes and queries.
type BookingService interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error)
	Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
	TransitionBooking(ctx context.Context, bookingID string, target models.BookingStatus, actor models.Identity, note string) (TransitionResult, error)
	GetBooking(ctx context.Context, bookingID string, actor models.Identity) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	ListBookings(ctx context.Context, actor models.Identity, statuses []models.BookingStatus) ([]models.Booking, error)
	// HeldSlots returns the pending and confirmed bookings of a ground on a date.
	HeldSlots(ctx context.Context, groundID, date string) ([]models.Booking, error)
}

// GroundReader loads the ground a booking is made for.
type GroundReader interface {
	GetByID(ctx context.Context, id string) (*models.Ground, error)
}

// ProfileReader loads the booking user's profile for denormalised names.
type ProfileReader interface {
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
}

// Notifier turns a committed status change into a user notification.
type Notifier interface {
	DispatchStatusChange(ctx context.Context, b *models.Booking, status models.BookingStatus, comment string) error
}

// ReminderScheduler queues the reminder for a confirmed booking.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, b *models.Booking) error
}

// CreateBookingRequest is what a user submits when picking a slot. HourlyPrice
// is the rate the client was quoted; zero means "use the ground's rate".
type CreateBookingRequest struct {
	UserID      string  `json:"-"`
	GroundID    string  `json:"ground_id"`
	BookingDate string  `json:"booking_date"`
	TimeSlot    string  `json:"time_slot"`
	HourlyPrice float64 `json:"hourly_price,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// CheckoutRequest books a slot and records its payment in one call.
type CheckoutRequest struct {
	CreateBookingRequest
	PaymentMethod string `json:"payment_method"`
}

// CheckoutResult is the booking and payment a successful checkout produced.
type CheckoutResult struct {
	Booking *models.Booking `json:"booking"`
	Payment *models.Payment `json:"payment"`
}

// TransitionResult is the outcome of TransitionBooking. Warnings carry side-effect
// failures that happened after the status change was committed.
type TransitionResult struct {
	Booking  *models.Booking
	Changed  bool
	Warnings []error
}
