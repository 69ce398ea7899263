package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"voting-api/internal/api/interfaces"
	"voting-api/internal/api/middlewares"
	"voting-api/internal/api/models"
	"voting-api/internal/auth"
	"voting-api/internal/database"
	"voting-api/internal/database/repositories"
	"voting-api/internal/voting"
	"voting-api/pkg/logger"
)

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, models.BaseResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Unix(),
		RequestID: c.GetString(middlewares.RequestIDKey),
	})
}

func respondAPIError(c *gin.Context, apiErr *models.APIError) {
	c.JSON(apiErr.StatusCode, models.BaseResponse{
		Success:   false,
		Error:     apiErr.Info(),
		Timestamp: time.Now().Unix(),
		RequestID: c.GetString(middlewares.RequestIDKey),
	})
}

// toAPIError maps domain and store errors onto HTTP errors. Unknown errors
// become a generic 500.
func toAPIError(err error) *models.APIError {
	switch {
	case errors.Is(err, voting.ErrNotAdmin):
		return models.NewAPIError(models.ErrCodeForbidden, "User does not have admin role", http.StatusForbidden)
	case errors.Is(err, voting.ErrAdminCannotVote):
		return models.NewAPIError(models.ErrCodeAdminCannotVote, "Admin is not allowed to vote", http.StatusForbidden)
	case errors.Is(err, voting.ErrAlreadyVoted):
		return models.NewAPIError(models.ErrCodeAlreadyVoted, "You have already voted", http.StatusBadRequest)
	case errors.Is(err, voting.ErrCandidateNotFound), errors.Is(err, repositories.ErrCandidateNotFound):
		return models.NewAPIError(models.ErrCodeCandidateNotFound, "Candidate not found", http.StatusNotFound)
	case errors.Is(err, voting.ErrUserNotFound), errors.Is(err, repositories.ErrUserNotFound):
		return models.NewAPIError(models.ErrCodeUserNotFound, "User not found", http.StatusNotFound)
	case errors.Is(err, voting.ErrInvalidCandidate):
		return models.NewAPIError(models.ErrCodeInvalidCandidate, "Invalid candidate", http.StatusBadRequest).
			WithDetails(err.Error())
	case errors.Is(err, auth.ErrPasswordTooLong):
		return models.NewAPIError(models.ErrCodeInvalidRequest, "Password is too long", http.StatusBadRequest)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return models.NewAPIError(models.ErrCodeInvalidCredentials, "Invalid national ID or password", http.StatusUnauthorized)
	case errors.Is(err, repositories.ErrAdminExists):
		return models.NewAPIError(models.ErrCodeConflict, "An admin account already exists", http.StatusConflict)
	case errors.Is(err, repositories.ErrDuplicate):
		return models.NewAPIError(models.ErrCodeConflict, "An account with this national ID already exists", http.StatusConflict)
	default:
		return models.InternalError()
	}
}

// respondError writes the mapped error, logging anything unexpected
func respondError(c *gin.Context, services interfaces.Services, operation string, err error) {
	apiErr := toAPIError(err)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		logger.FromContext(c, services.GetLogger()).StructuredError(err, map[string]interface{}{
			"operation": operation,
			"path":      c.Request.URL.Path,
		})
	}
	respondAPIError(c, apiErr)
}

// audit records an action performed by the caller
func audit(c *gin.Context, services interfaces.Services, action, userID, resource, details string) {
	services.RecordAudit(c.Request.Context(), &database.AuditLog{
		Action:    action,
		UserID:    userID,
		Resource:  resource,
		Details:   details,
		IPAddress: c.ClientIP(),
	})
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middlewares.UserIDKey)
}
