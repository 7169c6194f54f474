package handlers

import (
	"net/http"

	"groundbook/services/slot"
	"groundbook/utils"

	"github.com/gin-gonic/gin"
)

// QuoteSlotHandler handles POST /api/slots/quote. The hourly rate comes from the
// ground when ground_id is given, otherwise from hourly_price.
func (h *HandlerBundle) QuoteSlotHandler(c *gin.Context) {
	var req struct {
		TimeSlot    string  `json:"time_slot"`
		GroundID    string  `json:"ground_id"`
		HourlyPrice float64 `json:"hourly_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.ValidationError{Field: "body", Msg: err.Error()})
		return
	}

	price := req.HourlyPrice
	if req.GroundID != "" {
		g, err := h.Grounds.GetGround(c.Request.Context(), req.GroundID)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		price = g.PricePerHour
	}

	q, err := slot.ComputeSlot(req.TimeSlot, price)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}
