package handlers

import (
	"errors"
	"net/http"
	"strings"

	"groundbook/middleware"
	"groundbook/models"
	"groundbook/services/ground"
	"groundbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxImageBytes = 5 << 20

// parseStatuses reads a comma separated ?status= filter.
func parseStatuses(raw string) ([]models.BookingStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var out []models.BookingStatus
	for _, part := range strings.Split(raw, ",") {
		s := models.BookingStatus(strings.ToLower(strings.TrimSpace(part)))
		if !s.IsValid() {
			return nil, utils.ValidationError{Field: "status", Msg: "unknown status " + part}
		}
		out = append(out, s)
	}
	return out, nil
}

// AdminListBookingsHandler handles GET /api/admin/bookings?status=.
func (h *HandlerBundle) AdminListBookingsHandler(c *gin.Context) {
	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	list, err := h.Bookings.ListBookings(c.Request.Context(), middleware.CurrentIdentity(c), statuses)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// AdminUpdateBookingStatusHandler handles PATCH /api/admin/bookings/:id/status.
func (h *HandlerBundle) AdminUpdateBookingStatusHandler(c *gin.Context) {
	var req struct {
		Status  string `json:"status"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError{Field: "body", Msg: err.Error()})
		return
	}
	target := models.BookingStatus(strings.ToLower(strings.TrimSpace(req.Status)))

	res, err := h.Bookings.TransitionBooking(c.Request.Context(), c.Param("id"), target, middleware.CurrentIdentity(c), req.Comment)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	for _, w := range res.Warnings {
		middleware.Logger(c).Warn("Status change side effect failed", zap.String("bookingID", c.Param("id")), zap.Error(w))
	}
	c.JSON(http.StatusOK, newTransitionResponse(res))
}

// AdminCreateGroundHandler handles POST /api/admin/grounds.
func (h *HandlerBundle) AdminCreateGroundHandler(c *gin.Context) {
	var in models.GroundInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.ValidationError{Field: "body", Msg: err.Error()})
		return
	}
	g, err := h.Grounds.CreateGround(c.Request.Context(), middleware.CurrentIdentity(c).UserID, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

// AdminUpdateGroundHandler handles PUT /api/admin/grounds/:id.
func (h *HandlerBundle) AdminUpdateGroundHandler(c *gin.Context) {
	var in models.GroundInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.ValidationError{Field: "body", Msg: err.Error()})
		return
	}
	g, err := h.Grounds.UpdateGround(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// AdminDeleteGroundHandler handles DELETE /api/admin/grounds/:id.
func (h *HandlerBundle) AdminDeleteGroundHandler(c *gin.Context) {
	if err := h.Grounds.DeleteGround(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ground deleted"})
}

// AdminSetFeaturedHandler handles PATCH /api/admin/grounds/:id/featured.
func (h *HandlerBundle) AdminSetFeaturedHandler(c *gin.Context) {
	var req struct {
		IsFeatured *bool `json:"is_featured"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsFeatured == nil {
		utils.RespondError(c, utils.ValidationError{Field: "is_featured", Msg: "is required"})
		return
	}
	if err := h.Grounds.SetFeatured(c.Request.Context(), c.Param("id"), *req.IsFeatured); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "is_featured": *req.IsFeatured})
}

// AdminUploadGroundImageHandler handles POST /api/admin/grounds/:id/image.
// It expects a multipart form with the file under "image".
func (h *HandlerBundle) AdminUploadGroundImageHandler(c *gin.Context) {
	fh, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, utils.ValidationError{Field: "image", Msg: "file is required"})
		return
	}
	if fh.Size > maxImageBytes {
		utils.RespondError(c, utils.ValidationError{Field: "image", Msg: "must be 5MB or smaller"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	defer f.Close()

	g, err := h.Grounds.UploadGroundImage(c.Request.Context(), c.Param("id"), f, fh.Filename)
	if errors.Is(err, ground.ErrImageStoreDisabled) {
		utils.JSONError(c, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
		return
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// AdminListUsersHandler handles GET /api/admin/users.
func (h *HandlerBundle) AdminListUsersHandler(c *gin.Context) {
	users, err := h.Users.ListUsers(c.Request.Context(), middleware.CurrentIdentity(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// AdminSetUserAdminHandler handles PATCH /api/admin/users/:id/admin.
func (h *HandlerBundle) AdminSetUserAdminHandler(c *gin.Context) {
	var req struct {
		IsAdmin *bool `json:"is_admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAdmin == nil {
		utils.RespondError(c, utils.ValidationError{Field: "is_admin", Msg: "is required"})
		return
	}
	if err := h.Users.SetAdmin(c.Request.Context(), middleware.CurrentIdentity(c), c.Param("id"), *req.IsAdmin); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "is_admin": *req.IsAdmin})
}
