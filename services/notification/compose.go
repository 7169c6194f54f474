package notification

import (
	"fmt"
	"time"

	"groundbook/models"
)

const unknownGround = "Unknown Ground"

// longDate renders a YYYY-MM-DD booking date as e.g. "Monday, January 5, 2025".
// Unparseable input is returned as is.
func longDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}

func groundName(b *models.Booking) string {
	if b.GroundName == "" {
		return unknownGround
	}
	return b.GroundName
}

// ComposeStatusNotification builds the notice for a confirmed or rejected booking.
// ok is false for every other status.
func ComposeStatusNotification(b *models.Booking, status models.BookingStatus, comment string) (n models.Notification, ok bool) {
	slot := fmt.Sprintf("%s - %s", b.StartTime, b.EndTime)
	prefix := fmt.Sprintf("Your booking for %s on %s, %s", groundName(b), longDate(b.BookingDate), slot)

	switch status {
	case models.BookingConfirmed:
		n.Title = "Booking Approved"
		n.Message = prefix + " has been approved."
		n.Type = models.NotificationSuccess
	case models.BookingRejected:
		n.Title = "Booking Rejected"
		n.Message = prefix + " was rejected."
		n.Type = models.NotificationError
	default:
		return models.Notification{}, false
	}

	if comment != "" {
		n.Message += " Admin note: " + comment
	}
	n.UserID = b.UserID
	n.BookingID = b.ID
	return n, true
}

// ComposeReminder builds the reminder sent ahead of a confirmed booking.
func ComposeReminder(b *models.Booking) models.Notification {
	return models.Notification{
		UserID:    b.UserID,
		BookingID: b.ID,
		Title:     "Booking Reminder",
		Message: fmt.Sprintf("Your booking for %s on %s starts at %s.",
			groundName(b), longDate(b.BookingDate), b.StartTime),
		Type: models.NotificationInfo,
	}
}
