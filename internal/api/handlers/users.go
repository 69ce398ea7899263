package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"voting-api/internal/api/interfaces"
	"voting-api/internal/api/models"
	"voting-api/internal/auth"
	"voting-api/internal/database"
	"voting-api/internal/database/repositories"
	"voting-api/pkg/logger"
)

// checkPasswordLength enforces the configured minimum and the bcrypt maximum
func checkPasswordLength(services interfaces.Services, field, password string) *models.APIError {
	minLength := services.GetConfig().Security.PasswordMinLength
	switch {
	case len(password) < minLength:
		return models.NewAPIError(models.ErrCodeInvalidRequest, "Password is too short", http.StatusBadRequest).
			WithField(field, fmt.Sprintf("must be at least %d characters", minLength))
	case len(password) > auth.MaxPasswordBytes:
		return models.NewAPIError(models.ErrCodeInvalidRequest, "Password is too long", http.StatusBadRequest).
			WithField(field, fmt.Sprintf("must be at most %d bytes", auth.MaxPasswordBytes))
	}
	return nil
}

// maskIdentifier keeps only the last four characters of an identifier
func maskIdentifier(id string) string {
	runes := []rune(id)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}

// Signup registers an account and returns it with a fresh token. The admin
// role can only be claimed while no admin exists.
func Signup(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SignupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondAPIError(c, models.InvalidBody(err.Error()))
			return
		}
		if apiErr := checkPasswordLength(services, "password", req.Password); apiErr != nil {
			respondAPIError(c, apiErr)
			return
		}

		hash, err := auth.HashPassword(req.Password, services.GetConfig().Security.BcryptCost)
		if err != nil {
			respondError(c, services, "hash_password", err)
			return
		}

		user := &database.User{
			ID:           uuid.NewString(),
			Name:         strings.TrimSpace(req.Name),
			Age:          req.Age,
			Email:        strings.TrimSpace(req.Email),
			Mobile:       strings.TrimSpace(req.Mobile),
			Address:      strings.TrimSpace(req.Address),
			NationalID:   strings.TrimSpace(req.NationalID),
			PasswordHash: hash,
			Role:         database.RoleVoter,
		}

		users := services.UserRepository()
		if req.Role == database.RoleAdmin {
			err = users.CreateAdmin(c.Request.Context(), user)
		} else {
			err = users.Create(c.Request.Context(), user)
		}
		if err != nil {
			respondError(c, services, "signup", err)
			return
		}

		token, err := services.AuthService().Generate(user.ID)
		if err != nil {
			respondError(c, services, "generate_token", err)
			return
		}

		logger.FromContext(c, services.GetLogger()).Info("User registered", "user_id", user.ID, "role", user.Role)
		audit(c, services, "user_signup", user.ID, "user", "role="+user.Role)

		respondOK(c, "User registered successfully", models.SignupResponse{User: user, Token: token})
	}
}

// Login exchanges a national ID and password for a token
func Login(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondAPIError(c, models.InvalidBody(err.Error()))
			return
		}

		log := logger.FromContext(c, services.GetLogger())
		user, err := services.UserRepository().GetByNationalID(c.Request.Context(), strings.TrimSpace(req.NationalID))
		if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			respondError(c, services, "login", err)
			return
		}
		// unknown accounts and wrong passwords are indistinguishable
		if err != nil || auth.CheckPassword(user.PasswordHash, req.Password) != nil {
			log.SecurityLogger("login_failed", "", "national_id="+maskIdentifier(strings.TrimSpace(req.NationalID)))
			respondError(c, services, "login", auth.ErrInvalidCredentials)
			return
		}

		token, err := services.AuthService().Generate(user.ID)
		if err != nil {
			respondError(c, services, "generate_token", err)
			return
		}

		audit(c, services, "user_login", user.ID, "user", "")
		respondOK(c, "Login successful", models.AuthResponse{
			Token:     token,
			ExpiresIn: int64(services.GetConfig().Security.JWTExpiration.Seconds()),
		})
	}
}

// GetProfile returns the caller's account
func GetProfile(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := services.UserRepository().GetByID(c.Request.Context(), currentUserID(c))
		if err != nil {
			respondError(c, services, "get_profile", err)
			return
		}
		respondOK(c, "", models.ProfileResponse{User: user})
	}
}

// ChangePassword replaces the caller's password after verifying the
// current one
func ChangePassword(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.PasswordChangeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondAPIError(c, models.InvalidBody(err.Error()))
			return
		}

		ctx := c.Request.Context()
		userID := currentUserID(c)
		user, err := services.UserRepository().GetByID(ctx, userID)
		if err != nil {
			respondError(c, services, "change_password", err)
			return
		}

		if err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword); err != nil {
			logger.FromContext(c, services.GetLogger()).SecurityLogger("password_change_rejected", userID, "wrong current password")
			respondError(c, services, "change_password", err)
			return
		}
		if apiErr := checkPasswordLength(services, "newPassword", req.NewPassword); apiErr != nil {
			respondAPIError(c, apiErr)
			return
		}

		hash, err := auth.HashPassword(req.NewPassword, services.GetConfig().Security.BcryptCost)
		if err != nil {
			respondError(c, services, "hash_password", err)
			return
		}
		if err := services.UserRepository().UpdatePassword(ctx, userID, hash); err != nil {
			respondError(c, services, "change_password", err)
			return
		}

		audit(c, services, "password_changed", userID, "user", "")
		respondOK(c, "Password updated", nil)
	}
}
