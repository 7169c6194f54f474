package bookingRepo

import (
	"context"
	"errors"
	"time"

	"groundbook/models"
)

// ErrStatusMismatch is returned by UpdateStatus when no booking with the given id
// currently has the expected status: either it is gone, or someone changed it first.
var ErrStatusMismatch = errors.New("booking not found in expected status")

// StatusPatch is the single field-set a status transition writes.
type StatusPatch struct {
	Status    models.BookingStatus
	Notes     string    // written only when non-empty
	UpdatedAt time.Time // defaults to the current time when zero
}

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a new booking.
	Create(ctx context.Context, booking *models.Booking) error
	// GetByID retrieves a booking by its ID.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// List returns bookings matching filter, newest first.
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	// UpdateStatus applies patch only if the stored status still equals from.
	UpdateStatus(ctx context.Context, id string, from models.BookingStatus, patch StatusPatch) (*models.Booking, error)
}
