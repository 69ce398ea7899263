package auth

import (
	"context"

	"voting-api/internal/database"
)

// UserLookup resolves a user by id
type UserLookup interface {
	GetByID(ctx context.Context, userID string) (*database.User, error)
}

// AdminPredicate reports whether the actor may perform administrative work
type AdminPredicate func(ctx context.Context, userID string) bool

// RoleCheck answers admin questions against the user store
type RoleCheck struct {
	users UserLookup
}

func NewRoleCheck(users UserLookup) *RoleCheck {
	return &RoleCheck{users: users}
}

// IsAdmin is fail-closed: any lookup failure counts as not admin.
func (r *RoleCheck) IsAdmin(ctx context.Context, userID string) bool {
	if r == nil || r.users == nil || userID == "" {
		return false
	}
	user, err := r.users.GetByID(ctx, userID)
	if err != nil || user == nil {
		return false
	}
	return user.IsAdmin()
}
