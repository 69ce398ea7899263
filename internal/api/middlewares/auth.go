package middlewares

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"voting-api/internal/api/interfaces"
	"voting-api/internal/api/models"
	"voting-api/internal/auth"
	"voting-api/pkg/logger"
)

// UserIDKey is the gin context key carrying the authenticated caller
const UserIDKey = "user_id"

// AuthRequired middleware validates bearer tokens and attaches the caller id
func AuthRequired(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortWith(c, http.StatusUnauthorized, models.ErrCodeUnauthorized, "Authorization token required")
			return
		}

		claims, err := services.AuthService().Validate(token)
		if err != nil {
			code := models.ErrCodeInvalidToken
			if errors.Is(err, auth.ErrTokenExpired) {
				code = models.ErrCodeTokenExpired
			}
			logger.FromContext(c, services.GetLogger()).
				SecurityLogger("token_rejected", "", err.Error())
			abortWith(c, http.StatusUnauthorized, code, "Invalid or expired token")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// AdminRequired middleware ensures the caller holds the admin role. Role
// resolution is fail-closed.
func AdminRequired(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !services.RoleCheck().IsAdmin(c.Request.Context(), c.GetString(UserIDKey)) {
			abortWith(c, http.StatusForbidden, models.ErrCodeForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

// extractToken extracts JWT token from Authorization header
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func abortWith(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, models.BaseResponse{
		Success: false,
		Error: &models.ErrorInfo{
			Code:    code,
			Message: message,
		},
		Timestamp: time.Now().Unix(),
		RequestID: c.GetString(RequestIDKey),
	})
}
