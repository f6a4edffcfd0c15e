package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole runs after RequireAuth. Superusers pass every check.
func (m *SessionMiddleware) RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := UserFromContext(c)

		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": "Missing identity context",
				},
			})
			return
		}

		if !u.HasRole(required) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{
					"code":    "forbidden",
					"message": "Insufficient permissions",
				},
			})
			return
		}
		c.Next()
	}
}
