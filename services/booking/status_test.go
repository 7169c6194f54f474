package booking

import (
	"testing"

	"groundbook/models"
	"groundbook/utils"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]models.BookingStatus]bool{
		{models.BookingPending, models.BookingConfirmed}:   true,
		{models.BookingPending, models.BookingRejected}:    true,
		{models.BookingPending, models.BookingCancelled}:   true,
		{models.BookingConfirmed, models.BookingCompleted}: true,
		{models.BookingConfirmed, models.BookingCancelled}: true,
	}
	for _, from := range models.AllBookingStatuses {
		for _, to := range models.AllBookingStatuses {
			want := allowed[[2]models.BookingStatus{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []models.BookingStatus{models.BookingCompleted, models.BookingRejected, models.BookingCancelled} {
		if !IsTerminal(s) {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []models.BookingStatus{models.BookingPending, models.BookingConfirmed} {
		if IsTerminal(s) {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestAuthorize(t *testing.T) {
	admin := models.Identity{UserID: "admin", Role: models.RoleAdmin}
	owner := models.Identity{UserID: "u1", Role: models.RoleUser}
	stranger := models.Identity{UserID: "u2", Role: models.RoleUser}
	unknownOwner := models.Identity{UserID: "u1", Role: models.RoleUnknown}

	pending := &models.Booking{UserID: "u1", Status: models.BookingPending}
	confirmed := &models.Booking{UserID: "u1", Status: models.BookingConfirmed}
	cancelled := &models.Booking{UserID: "u1", Status: models.BookingCancelled}

	tests := []struct {
		name   string
		actor  models.Identity
		b      *models.Booking
		target models.BookingStatus
		ok     bool
	}{
		{"admin confirms", admin, pending, models.BookingConfirmed, true},
		{"admin cancels confirmed", admin, confirmed, models.BookingCancelled, true},
		{"owner cancels pending", owner, pending, models.BookingCancelled, true},
		{"owner repeats cancel", owner, cancelled, models.BookingCancelled, true},
		{"owner cannot cancel confirmed", owner, confirmed, models.BookingCancelled, false},
		{"owner cannot confirm", owner, pending, models.BookingConfirmed, false},
		{"owner cannot complete", owner, confirmed, models.BookingCompleted, false},
		{"stranger cannot cancel", stranger, pending, models.BookingCancelled, false},
		{"unknown role never", unknownOwner, pending, models.BookingCancelled, false},
		{"unknown role cannot confirm", models.Identity{Role: models.RoleUnknown}, pending, models.BookingConfirmed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, tt.b, tt.target)
			if tt.ok && err != nil {
				t.Fatalf("expected allowed, got %v", err)
			}
			if !tt.ok && !utils.IsAuthorization(err) {
				t.Fatalf("expected AuthorizationError, got %v", err)
			}
		})
	}
}
