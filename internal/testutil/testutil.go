// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"voting-api/internal/database"
	"voting-api/pkg/config"
)

// TestJWTSecret signs tokens in tests
const TestJWTSecret = "test-jwt-secret-0123456789abcdef"

// SetupTestDB creates a migrated SQLite database in a temporary directory
func SetupTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewConnection(&config.DatabaseConfig{
		Type:         "sqlite",
		Path:         filepath.Join(t.TempDir(), "voting_test.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 4,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// TestConfig returns a configuration suitable for tests
func TestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.Port = "0"
	cfg.Database.Type = "sqlite"
	cfg.Security.JWTSecret = TestJWTSecret
	cfg.Security.JWTIssuer = "voting-api-test"
	cfg.Security.JWTExpiration = time.Hour
	cfg.Security.BcryptCost = 4
	cfg.Security.PasswordMinLength = 6
	cfg.API.RateLimit = 10000
	cfg.API.BurstLimit = 10000
	cfg.Realtime.Enabled = true
	cfg.Realtime.PingInterval = 30 * time.Second
	cfg.Realtime.WriteTimeout = 5 * time.Second
	return cfg
}

// NewUser builds an unsaved user with a fresh id
func NewUser(name, nationalID, role string) *database.User {
	return &database.User{
		ID:           uuid.NewString(),
		Name:         name,
		Age:          30,
		Address:      "1 Main Street",
		NationalID:   nationalID,
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}
}

// NewCandidate builds an unsaved candidate with a fresh id
func NewCandidate(name, party string) *database.Candidate {
	return &database.Candidate{
		ID:    uuid.NewString(),
		Name:  name,
		Party: party,
		Age:   45,
	}
}
