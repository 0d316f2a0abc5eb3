package auth

import (
	"context"

	"github.com/gin-gonic/gin"
)

type contextKey string

const userIDKey contextKey = "user_id"

// Middleware copies the identity a fronting proxy injects into the
// request context. The service only consumes it for attribution fields
// (movement created_by, order user_id), never for authorization.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader("X-User-Id"); id != "" {
			ctx := context.WithValue(c.Request.Context(), userIDKey, id)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey).(string); ok {
		return val
	}
	return ""
}
