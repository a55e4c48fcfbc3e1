package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"certificados/internal/service"
	appErrors "certificados/pkg/errors"
	"certificados/pkg/response"
)

// ContextSessionKey is the gin context key storing the session claims.
const ContextSessionKey = "adminSession"

// Session protects admin routes by requiring a valid, non-revoked
// session token.
func Session(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, claims)
		c.Next()
	}
}

// BearerToken extracts the raw bearer token from the request.
func BearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
