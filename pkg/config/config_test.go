package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789abcdef"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "./voting.db", cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.Security.JWTExpiration)
	assert.Equal(t, 10, cfg.Security.BcryptCost)
	assert.Equal(t, 6, cfg.Security.PasswordMinLength)
	assert.True(t, cfg.Realtime.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	content := `
server:
  port: "9090"
  mode: release
database:
  type: postgres
  host: db.internal
  user: voting
  dbname: ballots
security:
  jwt_secret: file-secret-0123456789
  jwt_expiration: 2h
api:
  rate_limit: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("JWT_SECRET", "")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 2*time.Hour, cfg.Security.JWTExpiration)
	assert.Equal(t, 10, cfg.API.RateLimit)
	assert.Equal(t, "host=db.internal port=5432 user=voting password= dbname=ballots sslmode=disable", cfg.GetDatabaseDSN())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("DB_PATH", "/tmp/override.db")
	t.Setenv("VOTING_SERVER_PORT", "7070")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "/tmp/override.db", cfg.GetDatabaseDSN())
	assert.Equal(t, "7070", cfg.Server.Port)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "missing secret",
			env:  map[string]string{},
			want: "JWT secret is required",
		},
		{
			name: "short secret",
			env:  map[string]string{"JWT_SECRET": "short"},
			want: "at least 16 characters",
		},
		{
			name: "unknown database",
			env:  map[string]string{"JWT_SECRET": testSecret, "DB_TYPE": "mongo"},
			want: "unsupported database type",
		},
		{
			name: "postgres without host",
			env:  map[string]string{"JWT_SECRET": testSecret, "DB_TYPE": "postgres"},
			want: "postgres requires host and user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := LoadConfig("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSanitizeForLogging(t *testing.T) {
	cfg := &Config{}
	cfg.Security.JWTSecret = testSecret
	cfg.Database.Password = "hunter2"

	sanitized := cfg.SanitizeForLogging()

	assert.Equal(t, "[REDACTED]", sanitized.Security.JWTSecret)
	assert.Equal(t, "[REDACTED]", sanitized.Database.Password)
	assert.Equal(t, testSecret, cfg.Security.JWTSecret)
}
