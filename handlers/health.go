package handlers

import (
	"net/http"

	"groundbook/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles GET /health with the last dependency check.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
