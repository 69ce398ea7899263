package interfaces

import "voting-api/internal/auth"

// AuthServiceInterface issues and verifies bearer tokens
type AuthServiceInterface interface {
	Generate(userID string) (string, error)
	Validate(token string) (*auth.Claims, error)
}
