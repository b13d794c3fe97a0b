package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rtsyr/rtsyr_backend/internal/core/domain"
)

const (
	userIDKey   = contextKey("userID")
	userRoleKey = contextKey("userRole")
)

// withIdentity stores the resolved user on both the request context and the
// gin key map.
func withIdentity(c *gin.Context, user *domain.User) {
	ctx := context.WithValue(c.Request.Context(), userIDKey, user.UserID)
	ctx = context.WithValue(ctx, userRoleKey, user.Role)
	c.Request = c.Request.WithContext(ctx)
	c.Set(string(userIDKey), user.UserID)
	c.Set(string(userRoleKey), user.Role)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok
	}
	return UserIDFromCtx(c.Request.Context())
}

// UserIDFromCtx retrieves the authenticated user ID from a standard context.
func UserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserRoleFromContext retrieves the authenticated user's role.
func GetUserRoleFromContext(c *gin.Context) (domain.Role, bool) {
	if v, exists := c.Get(string(userRoleKey)); exists {
		role, ok := v.(domain.Role)
		return role, ok
	}
	role, ok := c.Request.Context().Value(userRoleKey).(domain.Role)
	return role, ok
}
