package booking

import (
	"context"
	"fmt"
	"strings"

	"groundbook/database/repository"
	"groundbook/models"
	"groundbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var paymentMethods = map[string]bool{
	models.PaymentMethodCard: true,
	models.PaymentMethodUPI:  true,
	models.PaymentMethodCash: true,
}

// Checkout creates a pending booking and records its payment.
//
// The two inserts are separate writes. If the payment cannot be stored the
// booking is cancelled with NotePaymentNotRecorded and the payment error is returned.
func (s *DefaultBookingService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if !paymentMethods[method] {
		return nil, utils.ValidationError{Field: "payment_method", Msg: "must be one of card, upi, cash"}
	}

	b, err := s.CreateBooking(ctx, req.CreateBookingRequest)
	if err != nil {
		return nil, err
	}

	now := s.now()
	payment := &models.Payment{
		ID:            uuid.New().String(),
		BookingID:     b.ID,
		Amount:        b.TotalPrice,
		Status:        models.PaymentCompleted,
		PaymentMethod: method,
		TransactionID: fmt.Sprintf("TXN%d", now.UnixMilli()),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Payments.Create(ctx, payment); err != nil {
		s.compensate(ctx, b, err)
		return nil, fmt.Errorf("checkout failed, booking %s cancelled: %w", b.ID, err)
	}

	return &CheckoutResult{Booking: b, Payment: payment}, nil
}

// compensate cancels a booking whose payment could not be recorded.
func (s *DefaultBookingService) compensate(ctx context.Context, b *models.Booking, cause error) {
	logger := s.logger().With(zap.String("bookingID", b.ID), zap.NamedError("cause", cause))

	// The request context may already be done; the rollback must still run.
	ctx = context.WithoutCancel(ctx)

	updated, err := s.Bookings.UpdateStatus(ctx, b.ID, models.BookingPending, repository.StatusPatch{
		Status:    models.BookingCancelled,
		Notes:     NotePaymentNotRecorded,
		UpdatedAt: s.now(),
	})
	if err != nil {
		logger.Error("Compensation failed: booking left pending without payment", zap.Error(err))
		return
	}
	logger.Warn("Booking cancelled after payment failure")

	s.publish(ctx, models.BookingEvent{
		Type:       models.EventBookingStatusChanged,
		BookingID:  updated.ID,
		UserID:     updated.UserID,
		GroundID:   updated.GroundID,
		OldStatus:  models.BookingPending,
		NewStatus:  models.BookingCancelled,
		OccurredAt: updated.UpdatedAt,
	})
}
