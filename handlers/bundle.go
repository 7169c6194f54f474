package handlers

import (
	"groundbook/services/booking"
	"groundbook/services/events"
	"groundbook/services/ground"
	"groundbook/services/notification"
	"groundbook/services/review"
	"groundbook/services/user"
)

// HandlerBundle groups every endpoint handler behind the services it calls.
type HandlerBundle struct {
	Users         user.UserService
	Grounds       ground.GroundService
	Bookings      booking.BookingService
	Notifications notification.NotificationService
	Reviews       review.ReviewService
	// Feed is optional; without it the SSE endpoint answers 503.
	Feed events.Subscriber
}
