package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"groundbook/database/repository"
	"groundbook/models"
	"groundbook/services/events"
	"groundbook/services/slot"
	"groundbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Bookings  repository.BookingRepository
	Payments  repository.PaymentRepository
	Grounds   GroundReader
	Users     ProfileReader     // optional
	Notifier  Notifier          // optional
	Events    events.Publisher  // optional
	Reminders ReminderScheduler // optional
	Now       func() time.Time
	Logger    *zap.Logger
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

// CreateBooking validates the slot, prices it from the ground's rate and stores a pending booking.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if req.UserID == "" {
		return nil, utils.ValidationError{Field: "user_id", Msg: "is required"}
	}
	if strings.TrimSpace(req.GroundID) == "" {
		return nil, utils.ValidationError{Field: "ground_id", Msg: "is required"}
	}
	if _, err := time.Parse("2006-01-02", req.BookingDate); err != nil {
		return nil, utils.ValidationError{Field: "booking_date", Msg: "must be YYYY-MM-DD"}
	}
	if req.HourlyPrice < 0 {
		return nil, utils.ValidationError{Field: "hourly_price", Msg: "must not be negative"}
	}

	ground, err := s.Grounds.GetByID(ctx, req.GroundID)
	if err != nil {
		return nil, err
	}
	if req.HourlyPrice > 0 && math.Abs(req.HourlyPrice-ground.PricePerHour) > 0.005 {
		return nil, utils.ConflictError{Resource: "ground", Msg: "hourly price has changed, please refresh"}
	}

	quote, err := slot.ComputeSlot(req.TimeSlot, ground.PricePerHour)
	if err != nil {
		return nil, err
	}

	if err := s.ensureSlotFree(ctx, ground.ID, req.BookingDate, quote); err != nil {
		return nil, err
	}

	now := s.now()
	b := &models.Booking{
		ID:             uuid.New().String(),
		UserID:         req.UserID,
		GroundID:       ground.ID,
		BookingDate:    req.BookingDate,
		StartTime:      quote.StartTime,
		EndTime:        quote.EndTime,
		TimeSlot:       quote.Label,
		Status:         models.BookingPending,
		TotalPrice:     quote.TotalPrice,
		Notes:          strings.TrimSpace(req.Notes),
		CreatedAt:      now,
		UpdatedAt:      now,
		GroundName:     ground.Name,
		GroundLocation: ground.Location,
	}
	if s.Users != nil {
		if p, err := s.Users.GetByID(ctx, req.UserID); err == nil {
			b.UserName = p.FullName()
		}
	}

	if err := s.Bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, models.BookingEvent{
		Type:       models.EventBookingCreated,
		BookingID:  b.ID,
		UserID:     b.UserID,
		GroundID:   b.GroundID,
		NewStatus:  b.Status,
		OccurredAt: now,
	})
	s.logger().Info("Booking created",
		zap.String("bookingID", b.ID),
		zap.String("groundID", b.GroundID),
		zap.String("date", b.BookingDate),
		zap.String("slot", b.TimeSlot))
	return b, nil
}

// ensureSlotFree rejects a slot that overlaps a pending or confirmed booking.
// It is a read before the insert, so two simultaneous requests can still both pass.
func (s *DefaultBookingService) ensureSlotFree(ctx context.Context, groundID, date string, q slot.Quote) error {
	held, err := s.HeldSlots(ctx, groundID, date)
	if err != nil {
		return err
	}
	for _, b := range held {
		if slot.Overlaps(q.StartTime, q.EndTime, b.StartTime, b.EndTime) {
			return utils.ConflictError{Resource: "slot", Msg: fmt.Sprintf("%s on %s is already booked", q.Label, date)}
		}
	}
	return nil
}

func (s *DefaultBookingService) HeldSlots(ctx context.Context, groundID, date string) ([]models.Booking, error) {
	return s.Bookings.List(ctx, models.BookingFilter{
		GroundID:    groundID,
		BookingDate: date,
		Statuses:    []models.BookingStatus{models.BookingPending, models.BookingConfirmed},
	})
}

// TransitionBooking moves a booking to target on behalf of actor.
//
// A request for the status the booking already has changes nothing and reports
// Changed=false. Side effects run only after the update is committed; their
// failures are logged and, for notifications, returned as warnings.
func (s *DefaultBookingService) TransitionBooking(ctx context.Context, bookingID string, target models.BookingStatus, actor models.Identity, note string) (TransitionResult, error) {
	if !target.IsValid() {
		return TransitionResult{}, invalidStatus(string(target))
	}

	current, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return TransitionResult{}, err
	}
	if err := Authorize(actor, current, target); err != nil {
		return TransitionResult{}, err
	}
	if current.Status == target {
		return TransitionResult{Booking: current}, nil
	}
	if !CanTransition(current.Status, target) {
		return TransitionResult{}, utils.InvalidTransitionError{From: current.Status.String(), To: target.String()}
	}

	updated, err := s.Bookings.UpdateStatus(ctx, bookingID, current.Status, repository.StatusPatch{
		Status:    target,
		Notes:     strings.TrimSpace(note),
		UpdatedAt: s.now(),
	})
	if errors.Is(err, repository.ErrStatusMismatch) {
		return s.resolveLostRace(ctx, bookingID, target)
	}
	if err != nil {
		return TransitionResult{}, err
	}

	logger := s.logger().With(
		zap.String("bookingID", bookingID),
		zap.String("from", current.Status.String()),
		zap.String("to", target.String()),
		zap.String("actor", actor.UserID))
	logger.Info("Booking status changed")

	s.publish(ctx, models.BookingEvent{
		Type:       models.EventBookingStatusChanged,
		BookingID:  updated.ID,
		UserID:     updated.UserID,
		GroundID:   updated.GroundID,
		OldStatus:  current.Status,
		NewStatus:  target,
		OccurredAt: updated.UpdatedAt,
	})

	result := TransitionResult{Booking: updated, Changed: true}

	if s.Notifier != nil && (target == models.BookingConfirmed || target == models.BookingRejected) {
		if err := s.Notifier.DispatchStatusChange(ctx, updated, target, strings.TrimSpace(note)); err != nil {
			if !utils.IsNotificationDispatch(err) {
				err = utils.NotificationDispatchError{BookingID: bookingID, Err: err}
			}
			logger.Error("Notification dispatch failed", zap.Error(err))
			result.Warnings = append(result.Warnings, err)
		}
	}

	if s.Reminders != nil && target == models.BookingConfirmed {
		if err := s.Reminders.ScheduleReminder(ctx, updated); err != nil {
			logger.Warn("Failed to schedule booking reminder", zap.Error(err))
		}
	}

	return result, nil
}

// resolveLostRace explains a conditional update that matched nothing.
func (s *DefaultBookingService) resolveLostRace(ctx context.Context, bookingID string, target models.BookingStatus) (TransitionResult, error) {
	latest, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return TransitionResult{}, err
	}
	if latest.Status == target {
		return TransitionResult{Booking: latest}, nil
	}
	return TransitionResult{}, utils.InvalidTransitionError{From: latest.Status.String(), To: target.String()}
}

func (s *DefaultBookingService) publish(ctx context.Context, event models.BookingEvent) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, event); err != nil {
		s.logger().Warn("Failed to publish booking event",
			zap.String("type", event.Type),
			zap.String("bookingID", event.BookingID),
			zap.Error(err))
	}
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string, actor models.Identity) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !CanView(actor, b) {
		// Hide other users' bookings rather than confirm they exist.
		return nil, utils.NotFoundError{Resource: "booking", ID: bookingID}
	}
	return b, nil
}

func (s *DefaultBookingService) ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if userID == "" {
		return nil, utils.ValidationError{Field: "user_id", Msg: "is required"}
	}
	return s.Bookings.List(ctx, models.BookingFilter{UserID: userID})
}

// ListBookings is the admin view over all bookings, optionally narrowed by status.
func (s *DefaultBookingService) ListBookings(ctx context.Context, actor models.Identity, statuses []models.BookingStatus) ([]models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, utils.AuthorizationError{Action: "list all bookings", Role: actor.Role.String()}
	}
	for _, st := range statuses {
		if !st.IsValid() {
			return nil, invalidStatus(string(st))
		}
	}
	return s.Bookings.List(ctx, models.BookingFilter{Statuses: statuses})
}
