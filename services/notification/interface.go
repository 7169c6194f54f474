package notification

import (
	"context"

	"groundbook/models"
)

// NotificationService persists and delivers user notifications.
type NotificationService interface {
	// DispatchStatusChange writes the approval or rejection notice for a booking.
	// Statuses other than confirmed and rejected are ignored.
	DispatchStatusChange(ctx context.Context, booking *models.Booking, status models.BookingStatus, comment string) error
	// SendReminder writes and pushes the upcoming-booking reminder.
	SendReminder(ctx context.Context, booking *models.Booking) error

	ListUserNotifications(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID string) error
	MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

// Pusher delivers a push message to one device.
type Pusher interface {
	Push(ctx context.Context, token, title, body string, data map[string]string) error
}

// TokenSource resolves the push token of a user.
type TokenSource interface {
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
}
