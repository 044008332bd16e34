package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"medivault-server/internal/metrics"
	"medivault-server/internal/policy"
	"medivault-server/internal/utils"
)

const principalKey = "principal"

// AuthMiddleware creates a middleware for JWT authentication. On success the
// verified caller is stored in the context for CurrentPrincipal.
func AuthMiddleware(tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		identity, err := tokens.Verify(parts[1])
		if err != nil {
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(principalKey, policy.Principal{UserID: identity.UserID, Role: identity.Role})
		c.Next()
	}
}

// Require rejects callers whose role is not allowed to run op.
// It should be used *after* AuthMiddleware.
func Require(op policy.Operation, m *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			utils.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if err := policy.Authorize(p, op); err != nil {
			m.AccessDeniedTotal.WithLabelValues(op.Name).Inc()
			utils.Forbidden(c, "Access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the caller stored by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (policy.Principal, bool) {
	v, exists := c.Get(principalKey)
	if !exists {
		return policy.Principal{}, false
	}
	p, ok := v.(policy.Principal)
	return p, ok
}
