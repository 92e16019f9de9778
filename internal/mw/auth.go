package mw

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-booking-backend/internal/auth"
)

// RoleKey is the gin context key holding the caller's role.
const RoleKey = "role"

// Authorizer validates an Authorization header value.
type Authorizer interface {
	Authorize(header string) (*auth.Claims, error)
}

// RequireAdmin rejects requests without a valid admin bearer token.
func RequireAdmin(a Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := a.Authorize(c.GetHeader("Authorization"))
		switch {
		case errors.Is(err, auth.ErrForbidden):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden", "code": "forbidden"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "auth required", "code": "unauthorized"})
			return
		}
		c.Set(RoleKey, claims.Role)
		c.Next()
	}
}
