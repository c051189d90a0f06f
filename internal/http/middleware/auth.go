// README: Firebase bearer-token auth middleware.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"wayfare/internal/infra"
)

const (
	ctxKeyUID  = "auth.uid"
	ctxKeyRole = "auth.role"
)

// Auth verifies the Authorization bearer token on every request and stores
// the caller's uid and role claim for handlers.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxKeyUID, token.UID)
		if role, ok := token.Claims["role"].(string); ok {
			c.Set(ctxKeyRole, role)
		}
		c.Next()
	}
}

// CallerUID returns the verified uid of the request, or "" when the auth
// middleware did not run.
func CallerUID(c *gin.Context) string {
	return c.GetString(ctxKeyUID)
}

// CallerRole returns the role claim of the request, or "".
func CallerRole(c *gin.Context) string {
	return c.GetString(ctxKeyRole)
}
