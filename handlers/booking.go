package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"groundbook/middleware"
	"groundbook/models"
	"groundbook/services/booking"
	"groundbook/services/events"
	"groundbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const feedKeepAlive = 25 * time.Second

// transitionResponse is the JSON form of booking.TransitionResult.
type transitionResponse struct {
	Booking  *models.Booking `json:"booking"`
	Changed  bool            `json:"changed"`
	Warnings []string        `json:"warnings,omitempty"`
}

func newTransitionResponse(res booking.TransitionResult) transitionResponse {
	out := transitionResponse{Booking: res.Booking, Changed: res.Changed}
	for _, w := range res.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}
	return out
}

// CreateBookingHandler handles POST /api/bookings.
func (h *HandlerBundle) CreateBookingHandler(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError{Field: "body", Msg: err.Error()})
		return
	}
	req.UserID = middleware.CurrentIdentity(c).UserID

	b, err := h.Bookings.CreateBooking(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	middleware.Logger(c).Info("Booking created", zap.String("bookingID", b.ID), zap.String("groundID", b.GroundID))
	c.JSON(http.StatusCreated, b)
}

// CheckoutHandler handles POST /api/bookings/checkout.
func (h *HandlerBundle) CheckoutHandler(c *gin.Context) {
	var req booking.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError{Field: "body", Msg: err.Error()})
		return
	}
	req.UserID = middleware.CurrentIdentity(c).UserID

	res, err := h.Bookings.Checkout(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// ListMyBookingsHandler handles GET /api/bookings.
func (h *HandlerBundle) ListMyBookingsHandler(c *gin.Context) {
	list, err := h.Bookings.ListUserBookings(c.Request.Context(), middleware.CurrentIdentity(c).UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetBookingHandler handles GET /api/bookings/:id.
func (h *HandlerBundle) GetBookingHandler(c *gin.Context) {
	b, err := h.Bookings.GetBooking(c.Request.Context(), c.Param("id"), middleware.CurrentIdentity(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBookingHandler handles POST /api/bookings/:id/cancel.
func (h *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	// The body is optional.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondError(c, utils.ValidationError{Field: "body", Msg: err.Error()})
		return
	}

	res, err := h.Bookings.TransitionBooking(c.Request.Context(), c.Param("id"), models.BookingCancelled, middleware.CurrentIdentity(c), req.Reason)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTransitionResponse(res))
}

// BookingFeedHandler handles GET /api/bookings/feed. It streams booking change
// events as server-sent events. Admins see every booking, users only their own.
func (h *HandlerBundle) BookingFeedHandler(c *gin.Context) {
	if h.Feed == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "feed_unavailable", "booking feed is not configured")
		return
	}
	id := middleware.CurrentIdentity(c)
	ctx := c.Request.Context()

	stream, err := h.Feed.Subscribe(ctx, events.VisibleTo(id))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	logger := middleware.Logger(c)
	logger.Info("Booking feed opened", zap.String("userID", id.UserID), zap.String("role", id.Role.String()))

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(feedKeepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case ev, ok := <-stream:
			if !ok {
				return false
			}
			c.SSEvent(ev.Type, ev)
			return true
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			return true
		}
	})
	logger.Info("Booking feed closed", zap.String("userID", id.UserID))
}
