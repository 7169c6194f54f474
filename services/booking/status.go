package booking

import (
	"groundbook/models"
	"groundbook/utils"
)

// transitions lists the statuses reachable from each status. Terminal statuses have no entry.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingRejected, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCompleted, models.BookingCancelled},
}

// CanTransition reports whether a booking in from may move to to.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing transitions.
func IsTerminal(s models.BookingStatus) bool {
	return len(transitions[s]) == 0
}

// Authorize is the single permission check for status changes.
//
// Admins may request any target. The owning user may only cancel, and only
// while the booking is still pending; a repeated cancel of an already cancelled
// booking is let through so it can resolve as a no-op. RoleUnknown is refused.
func Authorize(actor models.Identity, b *models.Booking, target models.BookingStatus) error {
	deny := utils.AuthorizationError{Action: "set booking status to " + target.String(), Role: actor.Role.String()}

	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleUser:
	default:
		return deny
	}

	if target != models.BookingCancelled || actor.UserID == "" || actor.UserID != b.UserID {
		return deny
	}
	if b.Status != models.BookingPending && b.Status != models.BookingCancelled {
		deny.Action = "cancel a " + b.Status.String() + " booking"
		return deny
	}
	return nil
}

// CanView reports whether actor may read b.
func CanView(actor models.Identity, b *models.Booking) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.Role == models.RoleUser && actor.UserID != "" && actor.UserID == b.UserID
}
