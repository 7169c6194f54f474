package middleware

import (
	"context"
	"strings"

	"groundbook/models"
	"groundbook/utils"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// Authenticator resolves a bearer token into the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (models.Identity, error)
}

// bearerToken reads the Authorization header. Browsers cannot set headers on
// an EventSource, so the change feed may pass the token as ?access_token=.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Query("access_token")
}

// JWTAuthMiddleware authenticates the request and stores the Identity in the context.
func JWTAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.RespondError(c, utils.AuthenticationError{Msg: "missing or invalid Authorization header"})
			return
		}
		id, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// CurrentIdentity returns the identity set by JWTAuthMiddleware. Routes that
// skipped authentication get the zero Identity, whose role is RoleUnknown.
func CurrentIdentity(c *gin.Context) models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(models.Identity); ok {
			return id
		}
	}
	return models.Identity{}
}
