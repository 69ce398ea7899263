package repositories

import (
	"context"
	"fmt"
	"time"

	"voting-api/internal/database"
)

const userColumns = `id, name, age, email, mobile, address, national_id, password_hash,
               role, has_voted, created_at, updated_at`

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row scanner) (*database.User, error) {
	var user database.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Age, &user.Email, &user.Mobile, &user.Address,
		&user.NationalID, &user.PasswordHash, &user.Role, &user.HasVoted,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a voter account. National IDs are unique.
func (r *UserRepository) Create(ctx context.Context, user *database.User) error {
	stampNew(user)
	query := `
        INSERT INTO users (` + userColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, r.db.Rebind(query), userArgs(user)...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("national id %s: %w", user.NationalID, ErrDuplicate)
		}
		return err
	}
	return nil
}

// CreateAdmin inserts an admin account only while no admin exists
func (r *UserRepository) CreateAdmin(ctx context.Context, user *database.User) error {
	stampNew(user)
	user.Role = database.RoleAdmin
	query := `
        INSERT INTO users (` + userColumns + `)
        SELECT ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
        WHERE NOT EXISTS (SELECT 1 FROM users WHERE role = ?)
    `
	args := append(userArgs(user), database.RoleAdmin)
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("national id %s: %w", user.NationalID, ErrDuplicate)
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAdminExists
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*database.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, r.db.Rebind(query), userID))
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}
	return user, nil
}

// GetByNationalID retrieves a user by national ID
func (r *UserRepository) GetByNationalID(ctx context.Context, nationalID string) (*database.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE national_id = ?`
	user, err := scanUser(r.db.QueryRowContext(ctx, r.db.Rebind(query), nationalID))
	if err != nil {
		return nil, notFoundOr(err, ErrUserNotFound)
	}
	return user, nil
}

// UpdatePassword updates user password
func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, r.db.Rebind(query), passwordHash, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CountByRole counts users holding a role
func (r *UserRepository) CountByRole(ctx context.Context, role string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT COUNT(*) FROM users WHERE role = ?`), role).Scan(&count)
	return count, err
}

func stampNew(user *database.User) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Role == "" {
		user.Role = database.RoleVoter
	}
	user.HasVoted = false
}

func userArgs(user *database.User) []interface{} {
	return []interface{}{
		user.ID, user.Name, user.Age, user.Email, user.Mobile, user.Address,
		user.NationalID, user.PasswordHash, user.Role, user.HasVoted,
		user.CreatedAt, user.UpdatedAt,
	}
}
