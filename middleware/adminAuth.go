package middleware

import (
	"groundbook/utils"

	"github.com/gin-gonic/gin"
)

// RequireAdmin must run after JWTAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := CurrentIdentity(c)
		if !id.IsAdmin() {
			utils.RespondError(c, utils.AuthorizationError{Action: "access admin routes", Role: id.Role.String()})
			return
		}
		c.Next()
	}
}
