package middleware

import (
	"github.com/gin-gonic/gin"
)

const userIDContextKey = "userID"

// IdentityMiddleware lifts the authenticated user id injected by the
// upstream auth gateway into the request context. Authentication itself
// happens before requests reach this service.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-Id"); userID != "" {
			c.Set(userIDContextKey, userID)
		}
		c.Next()
	}
}

func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get(userIDContextKey); exists {
		if s, ok := userID.(string); ok {
			return s
		}
	}
	return ""
}
