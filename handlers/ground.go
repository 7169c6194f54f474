package handlers

import (
	"net/http"
	"strings"

	"groundbook/middleware"
	"groundbook/models"
	"groundbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// groundDetail is a ground together with its rating summary.
type groundDetail struct {
	*models.Ground
	Rating *models.RatingSummary `json:"rating,omitempty"`
}

// ListGroundsHandler handles GET /api/grounds?search=.
func (h *HandlerBundle) ListGroundsHandler(c *gin.Context) {
	grounds, err := h.Grounds.ListGrounds(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grounds)
}

// ListFeaturedGroundsHandler handles GET /api/grounds/featured.
func (h *HandlerBundle) ListFeaturedGroundsHandler(c *gin.Context) {
	grounds, err := h.Grounds.ListFeatured(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grounds)
}

// GetGroundHandler handles GET /api/grounds/:id.
func (h *HandlerBundle) GetGroundHandler(c *gin.Context) {
	ctx := c.Request.Context()
	g, err := h.Grounds.GetGround(ctx, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	detail := groundDetail{Ground: g}
	if h.Reviews != nil {
		summary, err := h.Reviews.AverageRating(ctx, g.ID)
		if err != nil {
			middleware.Logger(c).Warn("Rating summary unavailable", zap.String("groundID", g.ID), zap.Error(err))
		} else {
			detail.Rating = &summary
		}
	}
	c.JSON(http.StatusOK, detail)
}

// GroundAvailabilityHandler handles GET /api/grounds/:id/availability?date=YYYY-MM-DD.
func (h *HandlerBundle) GroundAvailabilityHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.RespondError(c, utils.ValidationError{Field: "date", Msg: "is required"})
		return
	}
	avail, err := h.Grounds.Availability(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, avail)
}

// ListGroundReviewsHandler handles GET /api/grounds/:id/reviews.
func (h *HandlerBundle) ListGroundReviewsHandler(c *gin.Context) {
	reviews, err := h.Reviews.ListGroundReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// SubmitReviewHandler handles POST /api/grounds/:id/reviews.
func (h *HandlerBundle) SubmitReviewHandler(c *gin.Context) {
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError{Field: "body", Msg: err.Error()})
		return
	}
	id := middleware.CurrentIdentity(c)
	rev, err := h.Reviews.SubmitReview(c.Request.Context(), id.UserID, c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rev)
}
