package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
	BookingRejected  BookingStatus = "rejected"
)

// AllBookingStatuses lists every status a stored booking may carry.
var AllBookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingCancelled,
	BookingCompleted,
	BookingRejected,
}

// IsValid reports whether s is a known status.
func (s BookingStatus) IsValid() bool {
	for _, known := range AllBookingStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s BookingStatus) String() string {
	return string(s)
}

// Booking is one reservation of a ground for a time slot on a date.
type Booking struct {
	ID          string        `bson:"id" json:"id"`
	UserID      string        `bson:"user_id" json:"user_id"`
	GroundID    string        `bson:"ground_id" json:"ground_id"`
	BookingDate string        `bson:"booking_date" json:"booking_date"` // YYYY-MM-DD
	StartTime   string        `bson:"start_time" json:"start_time"`     // HH:MM:SS
	EndTime     string        `bson:"end_time" json:"end_time"`         // HH:MM:SS
	TimeSlot    string        `bson:"time_slot" json:"time_slot"`       // label the user picked, e.g. "9:00 AM - 11:00 AM"
	Status      BookingStatus `bson:"status" json:"status"`
	TotalPrice  float64       `bson:"total_price" json:"total_price"`
	Notes       string        `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `bson:"updated_at" json:"updated_at"`

	// Denormalised at creation so lists and notifications need no joins.
	GroundName     string `bson:"ground_name,omitempty" json:"ground_name,omitempty"`
	GroundLocation string `bson:"ground_location,omitempty" json:"ground_location,omitempty"`
	UserName       string `bson:"user_name,omitempty" json:"user_name,omitempty"`
}

// BookingFilter narrows booking listings. Zero fields are ignored.
type BookingFilter struct {
	UserID      string
	GroundID    string
	BookingDate string
	Statuses    []BookingStatus
}
