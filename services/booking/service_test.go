package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"groundbook/models"
	"groundbook/services/notification"
	"groundbook/utils"

	"go.uber.org/zap"
)

var (
	adminID = models.Identity{UserID: "admin-1", Role: models.RoleAdmin}
	ownerID = models.Identity{UserID: "u1", Role: models.RoleUser}
)

type harness struct {
	svc       *DefaultBookingService
	bookings  *memBookings
	payments  *memPayments
	notes     *memNotifications
	events    *recordingEvents
	reminders *recordingReminders
}

func newHarness(t *testing.T, seed ...models.Booking) *harness {
	t.Helper()
	h := &harness{
		bookings:  newMemBookings(seed...),
		payments:  &memPayments{},
		notes:     &memNotifications{},
		events:    &recordingEvents{},
		reminders: &recordingReminders{},
	}
	notifier, err := notification.NewDefaultNotificationService(h.notes, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	h.svc = &DefaultBookingService{
		Bookings: h.bookings,
		Payments: h.payments,
		Grounds: memGrounds{
			"g1": {ID: "g1", Name: "Green Park", Location: "Pune", PricePerHour: 1000},
		},
		Users:     memProfiles{"u1": {ID: "u1", FirstName: "Asha", LastName: "Rao"}},
		Notifier:  notifier,
		Events:    h.events,
		Reminders: h.reminders,
		Now:       func() time.Time { return time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC) },
		Logger:    zap.NewNop(),
	}
	return h
}

func booking(id string, status models.BookingStatus) models.Booking {
	return models.Booking{
		ID:          id,
		UserID:      "u1",
		GroundID:    "g1",
		GroundName:  "Green Park",
		BookingDate: "2025-01-06",
		StartTime:   "09:00:00",
		EndTime:     "11:00:00",
		TimeSlot:    "9:00 AM - 11:00 AM",
		Status:      status,
		TotalPrice:  2000,
	}
}

func TestCreateBooking(t *testing.T) {
	h := newHarness(t)

	b, err := h.svc.CreateBooking(context.Background(), CreateBookingRequest{
		UserID:      "u1",
		GroundID:    "g1",
		BookingDate: "2025-01-06",
		TimeSlot:    "11:00 AM - 1:00 PM",
	})
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.Status != models.BookingPending {
		t.Errorf("status = %s, want pending", b.Status)
	}
	if b.StartTime != "11:00:00" || b.EndTime != "13:00:00" || b.TotalPrice != 2000 {
		t.Errorf("unexpected slot fields: %+v", b)
	}
	if b.GroundName != "Green Park" || b.UserName != "Asha Rao" {
		t.Errorf("denormalised names missing: %+v", b)
	}
	if h.bookings.status(b.ID) != models.BookingPending {
		t.Error("booking not stored")
	}
	if len(h.events.events) != 1 || h.events.events[0].Type != models.EventBookingCreated {
		t.Errorf("expected one created event, got %+v", h.events.events)
	}
}

func TestCreateBookingRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		req   CreateBookingRequest
		check func(error) bool
	}{
		{"garbage slot", CreateBookingRequest{UserID: "u1", GroundID: "g1", BookingDate: "2025-01-06", TimeSlot: "garbage"}, utils.IsValidation},
		{"bad date", CreateBookingRequest{UserID: "u1", GroundID: "g1", BookingDate: "06/01/2025", TimeSlot: "9:00 AM - 11:00 AM"}, utils.IsValidation},
		{"missing ground", CreateBookingRequest{UserID: "u1", GroundID: "nope", BookingDate: "2025-01-06", TimeSlot: "9:00 AM - 11:00 AM"}, utils.IsNotFound},
		{"negative price", CreateBookingRequest{UserID: "u1", GroundID: "g1", BookingDate: "2025-01-06", TimeSlot: "9:00 AM - 11:00 AM", HourlyPrice: -500}, utils.IsValidation},
		{"stale price", CreateBookingRequest{UserID: "u1", GroundID: "g1", BookingDate: "2025-01-06", TimeSlot: "9:00 AM - 11:00 AM", HourlyPrice: 800}, utils.IsConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.svc.CreateBooking(context.Background(), tt.req)
			if !tt.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(h.bookings.data) != 0 {
				t.Error("no booking should be written")
			}
		})
	}
}

func TestCreateBookingRejectsHeldSlot(t *testing.T) {
	h := newHarness(t, booking("b1", models.BookingConfirmed))

	_, err := h.svc.CreateBooking(context.Background(), CreateBookingRequest{
		UserID: "u2", GroundID: "g1", BookingDate: "2025-01-06", TimeSlot: "10:00 AM - 12:00 PM",
	})
	if !utils.IsConflict(err) {
		t.Fatalf("expected ConflictError, got %v", err)
	}

	// A cancelled booking does not hold the slot.
	h = newHarness(t, booking("b1", models.BookingCancelled))
	if _, err := h.svc.CreateBooking(context.Background(), CreateBookingRequest{
		UserID: "u2", GroundID: "g1", BookingDate: "2025-01-06", TimeSlot: "9:00 AM - 11:00 AM",
	}); err != nil {
		t.Fatalf("slot should be free: %v", err)
	}
}

func TestCompletedOnlyFromConfirmed(t *testing.T) {
	for _, from := range models.AllBookingStatuses {
		t.Run(string(from), func(t *testing.T) {
			h := newHarness(t, booking("b1", from))
			_, err := h.svc.TransitionBooking(context.Background(), "b1", models.BookingCompleted, adminID, "")
			switch from {
			case models.BookingConfirmed, models.BookingCompleted:
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
			default:
				if !utils.IsInvalidTransition(err) {
					t.Fatalf("expected InvalidTransitionError, got %v", err)
				}
				if h.bookings.status("b1") != from {
					t.Error("stored status must be unchanged")
				}
			}
		})
	}
}

func TestUserCannotConfirm(t *testing.T) {
	h := newHarness(t, booking("b1", models.BookingPending))

	_, err := h.svc.TransitionBooking(context.Background(), "b1", models.BookingConfirmed, ownerID, "")
	if !utils.IsAuthorization(err) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
	if h.bookings.status("b1") != models.BookingPending {
		t.Error("stored status must be unchanged")
	}
	if len(h.notes.items) != 0 || len(h.events.events) != 0 {
		t.Error("no side effects expected")
	}
}

func TestUnknownRoleNeverAuthorized(t *testing.T) {
	unknown := models.Identity{UserID: "u1", Role: models.RoleUnknown}
	for _, target := range models.AllBookingStatuses {
		h := newHarness(t, booking("b1", models.BookingPending))
		_, err := h.svc.TransitionBooking(context.Background(), "b1", target, unknown, "")
		if !utils.IsAuthorization(err) {
			t.Errorf("%s: expected AuthorizationError, got %v", target, err)
		}
	}
}

func TestNotificationsPerOutcome(t *testing.T) {
	tests := []struct {
		from, to  models.BookingStatus
		wantCount int
		wantType  models.NotificationType
	}{
		{models.BookingPending, models.BookingConfirmed, 1, models.NotificationSuccess},
		{models.BookingPending, models.BookingRejected, 1, models.NotificationError},
		{models.BookingPending, models.BookingCancelled, 0, ""},
		{models.BookingConfirmed, models.BookingCompleted, 0, ""},
		{models.BookingConfirmed, models.BookingCancelled, 0, ""},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			h := newHarness(t, booking("b1", tt.from))
			res, err := h.svc.TransitionBooking(context.Background(), "b1", tt.to, adminID, "")
			if err != nil {
				t.Fatalf("TransitionBooking: %v", err)
			}
			if !res.Changed || res.Booking.Status != tt.to {
				t.Fatalf("unexpected result: %+v", res)
			}
			if len(h.notes.items) != tt.wantCount {
				t.Fatalf("notifications = %d, want %d", len(h.notes.items), tt.wantCount)
			}
			if tt.wantCount == 1 {
				n := h.notes.items[0]
				if n.Type != tt.wantType {
					t.Errorf("type = %s, want %s", n.Type, tt.wantType)
				}
				if !strings.Contains(n.Message, "Green Park") || !strings.Contains(n.Message, "Monday, January 6, 2025") {
					t.Errorf("message = %q", n.Message)
				}
				if n.UserID != "u1" {
					t.Errorf("recipient = %s", n.UserID)
				}
			}
			if len(h.events.events) != 1 {
				t.Fatalf("events = %d, want 1", len(h.events.events))
			}
			ev := h.events.events[0]
			if ev.OldStatus != tt.from || ev.NewStatus != tt.to || ev.BookingID != "b1" {
				t.Errorf("unexpected event %+v", ev)
			}
		})
	}
}

func TestAdminNoteIsStoredAndSent(t *testing.T) {
	h := newHarness(t, booking("b1", models.BookingPending))

	res, err := h.svc.TransitionBooking(context.Background(), "b1", models.BookingRejected, adminID, "Pitch under repair")
	if err != nil {
		t.Fatal(err)
	}
	if res.Booking.Notes != "Pitch under repair" {
		t.Errorf("notes = %q", res.Booking.Notes)
	}
	if !strings.HasSuffix(h.notes.items[0].Message, " Admin note: Pitch under repair") {
		t.Errorf("message = %q", h.notes.items[0].Message)
	}
}

func TestSameStatusIsNoop(t *testing.T) {
	h := newHarness(t, booking("b1", models.BookingPending))
	ctx := context.Background()

	if _, err := h.svc.TransitionBooking(ctx, "b1", models.BookingRejected, adminID, ""); err != nil {
		t.Fatal(err)
	}
	res, err := h.svc.TransitionBooking(ctx, "b1", models.BookingRejected, adminID, "")
	if err != nil {
		t.Fatalf("repeat transition should be a no-op, got %v", err)
	}
	if res.Changed {
		t.Error("Changed should be false")
	}
	if len(h.notes.items) != 1 {
		t.Errorf("notification duplicated: %d", len(h.notes.items))
	}
	if len(h.events.events) != 1 {
		t.Errorf("event duplicated: %d", len(h.events.events))
	}
}

func TestOwnerCancellationPolicy(t *testing.T) {
	h := newHarness(t, booking("pending", models.BookingPending), booking("confirmed", models.BookingConfirmed))
	ctx := context.Background()

	res, err := h.svc.TransitionBooking(ctx, "pending", models.BookingCancelled, ownerID, "")
	if err != nil || !res.Changed {
		t.Fatalf("owner should cancel pending booking: %v", err)
	}
	if _, err := h.svc.TransitionBooking(ctx, "confirmed", models.BookingCancelled, ownerID, ""); !utils.IsAuthorization(err) {
		t.Fatalf("owner must not cancel confirmed booking, got %v", err)
	}
	other := models.Identity{UserID: "u2", Role: models.RoleUser}
	if _, err := h.svc.TransitionBooking(ctx, "confirmed", models.BookingCancelled, other, ""); !utils.IsAuthorization(err) {
		t.Fatalf("stranger must not cancel, got %v", err)
	}
	if _, err := h.svc.TransitionBooking(ctx, "confirmed", models.BookingCancelled, adminID, ""); err != nil {
		t.Fatalf("admin may cancel confirmed booking: %v", err)
	}
}

func TestTransitionMissingBooking(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.TransitionBooking(context.Background(), "ghost", models.BookingConfirmed, adminID, "")
	if !utils.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestTransitionUnknownStatus(t *testing.T) {
	h := newHarness(t, booking("b1", models.BookingPending))
	_, err := h.svc.TransitionBooking(context.Background(), "b1", models.BookingStatus("approved"), adminID, "")
	if !utils.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestConcurrentChangeIsNotOverwritten(t *testing.T) {
	h := newHarness(t, booking("b1", models.BookingPending))
	h.bookings.beforeUpdate = func(m map[string]models.Booking) {
		b := m["b1"]
		b.Status = models.BookingCancelled
		m["b1"] = b
	}

	_, err := h.svc.TransitionBooking(context.Background(), "b1", models.BookingConfirmed, adminID, "")
	if !utils.IsInvalidTransition(err) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if h.bookings.status("b1") != models.BookingCancelled {
		t.Error("concurrent cancel was overwritten")
	}
	if len(h.notes.items) != 0 {
		t.Error("no notification for a lost race")
	}
}

func TestDeletedDuringTransitionIsNotFound(t *testing.T) {
	h := newHarness(t, booking("b1", models.BookingPending))
	h.bookings.beforeUpdate = func(m map[string]models.Booking) { delete(m, "b1") }

	_, err := h.svc.TransitionBooking(context.Background(), "b1", models.BookingConfirmed, adminID, "")
	if !utils.IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestNotificationFailureIsWarning(t *testing.T) {
	h := newHarness(t, booking("b1", models.BookingPending))
	h.notes.err = errors.New("insert failed")

	res, err := h.svc.TransitionBooking(context.Background(), "b1", models.BookingConfirmed, adminID, "")
	if err != nil {
		t.Fatalf("transition must succeed, got %v", err)
	}
	if h.bookings.status("b1") != models.BookingConfirmed {
		t.Error("transition was unwound")
	}
	if len(res.Warnings) != 1 || !utils.IsNotificationDispatch(res.Warnings[0]) {
		t.Fatalf("expected one NotificationDispatchError warning, got %v", res.Warnings)
	}
}

func TestTransitionUsesServiceClock(t *testing.T) {
	h := newHarness(t, booking("b1", models.BookingPending))
	at := time.Date(2025, 1, 2, 9, 30, 0, 0, time.UTC)
	h.svc.Now = func() time.Time { return at }

	res, err := h.svc.TransitionBooking(context.Background(), "b1", models.BookingConfirmed, adminID, "")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Booking.UpdatedAt.Equal(at) {
		t.Errorf("updated_at = %v, want %v", res.Booking.UpdatedAt, at)
	}
	if len(h.events.events) != 1 || !h.events.events[0].OccurredAt.Equal(at) {
		t.Fatalf("expected one event at %v, got %+v", at, h.events.events)
	}
}

func TestPublishFailureIsIgnored(t *testing.T) {
	h := newHarness(t, booking("b1", models.BookingPending))
	h.svc.Events = failingEvents{}

	if _, err := h.svc.TransitionBooking(context.Background(), "b1", models.BookingConfirmed, adminID, ""); err != nil {
		t.Fatalf("publish failure leaked: %v", err)
	}
}

func TestReminderScheduledOnConfirm(t *testing.T) {
	h := newHarness(t, booking("b1", models.BookingPending), booking("b2", models.BookingPending))
	ctx := context.Background()

	_, _ = h.svc.TransitionBooking(ctx, "b1", models.BookingConfirmed, adminID, "")
	_, _ = h.svc.TransitionBooking(ctx, "b2", models.BookingRejected, adminID, "")

	if len(h.reminders.scheduled) != 1 || h.reminders.scheduled[0] != "b1" {
		t.Errorf("scheduled = %v, want [b1]", h.reminders.scheduled)
	}
}

func TestGetBookingVisibility(t *testing.T) {
	h := newHarness(t, booking("b1", models.BookingPending))
	ctx := context.Background()

	if _, err := h.svc.GetBooking(ctx, "b1", ownerID); err != nil {
		t.Errorf("owner: %v", err)
	}
	if _, err := h.svc.GetBooking(ctx, "b1", adminID); err != nil {
		t.Errorf("admin: %v", err)
	}
	other := models.Identity{UserID: "u2", Role: models.RoleUser}
	if _, err := h.svc.GetBooking(ctx, "b1", other); !utils.IsNotFound(err) {
		t.Errorf("stranger should get NotFound, got %v", err)
	}
}

func TestListBookingsAdminOnly(t *testing.T) {
	h := newHarness(t, booking("b1", models.BookingPending), booking("b2", models.BookingConfirmed))
	ctx := context.Background()

	if _, err := h.svc.ListBookings(ctx, ownerID, nil); !utils.IsAuthorization(err) {
		t.Fatalf("expected AuthorizationError, got %v", err)
	}
	list, err := h.svc.ListBookings(ctx, adminID, []models.BookingStatus{models.BookingPending})
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != "b1" {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestCheckout(t *testing.T) {
	h := newHarness(t)

	res, err := h.svc.Checkout(context.Background(), CheckoutRequest{
		CreateBookingRequest: CreateBookingRequest{
			UserID: "u1", GroundID: "g1", BookingDate: "2025-01-06", TimeSlot: "5:00 PM - 7:00 PM",
		},
		PaymentMethod: "UPI",
	})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if res.Payment.Amount != res.Booking.TotalPrice || res.Payment.Status != models.PaymentCompleted {
		t.Errorf("unexpected payment: %+v", res.Payment)
	}
	if res.Payment.PaymentMethod != models.PaymentMethodUPI {
		t.Errorf("method = %s", res.Payment.PaymentMethod)
	}
	if !strings.HasPrefix(res.Payment.TransactionID, "TXN") {
		t.Errorf("transaction id = %s", res.Payment.TransactionID)
	}
}

func TestCheckoutCompensatesFailedPayment(t *testing.T) {
	h := newHarness(t)
	h.payments.err = errors.New("payments collection unavailable")

	_, err := h.svc.Checkout(context.Background(), CheckoutRequest{
		CreateBookingRequest: CreateBookingRequest{
			UserID: "u1", GroundID: "g1", BookingDate: "2025-01-06", TimeSlot: "5:00 PM - 7:00 PM",
		},
		PaymentMethod: "card",
	})
	if err == nil {
		t.Fatal("expected checkout error")
	}
	if len(h.bookings.data) != 1 {
		t.Fatalf("expected the booking to exist, got %d", len(h.bookings.data))
	}
	for _, b := range h.bookings.data {
		if b.Status != models.BookingCancelled || b.Notes != NotePaymentNotRecorded {
			t.Errorf("booking not compensated: %+v", b)
		}
	}
}

func TestCheckoutRejectsUnknownMethod(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.Checkout(context.Background(), CheckoutRequest{
		CreateBookingRequest: CreateBookingRequest{UserID: "u1", GroundID: "g1", BookingDate: "2025-01-06", TimeSlot: "5:00 PM - 7:00 PM"},
		PaymentMethod:        "bitcoin",
	})
	if !utils.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(h.bookings.data) != 0 {
		t.Error("no booking should be written")
	}
}
