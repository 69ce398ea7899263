package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting-api/internal/database"
	"voting-api/pkg/config"
)

func testSecurity() config.SecurityConfig {
	return config.SecurityConfig{
		JWTSecret:     "unit-test-secret-0123456789",
		JWTIssuer:     "voting-api-test",
		JWTExpiration: time.Hour,
		BcryptCost:    4,
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret!", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", hash)

	assert.NoError(t, CheckPassword(hash, "s3cret!"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestPasswordLengthLimit(t *testing.T) {
	long := strings.Repeat("p", MaxPasswordBytes+8)
	_, err := HashPassword(long, 4)
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	hash, err := HashPassword(strings.Repeat("p", MaxPasswordBytes), 4)
	require.NoError(t, err)
	assert.ErrorIs(t, CheckPassword(hash, long), ErrInvalidCredentials)
}

func TestTokenGenerateAndValidate(t *testing.T) {
	svc := NewTokenService(testSecurity())

	token, err := svc.Generate("user-1")
	require.NoError(t, err)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "voting-api-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenRejectsEmptyUser(t *testing.T) {
	_, err := NewTokenService(testSecurity()).Generate("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	svc := NewTokenService(testSecurity())
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := svc.Generate("user-1")
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenTampering(t *testing.T) {
	svc := NewTokenService(testSecurity())
	token, err := svc.Generate("user-1")
	require.NoError(t, err)

	other := testSecurity()
	other.JWTSecret = "another-secret-0123456789"
	_, err = NewTokenService(other).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsOtherIssuerAndAlgorithm(t *testing.T) {
	svc := NewTokenService(testSecurity())

	foreign := testSecurity()
	foreign.JWTIssuer = "someone-else"
	token, err := NewTokenService(foreign).Generate("user-1")
	require.NoError(t, err)
	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "user-1",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "voting-api-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Validate(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRequiresExpiry(t *testing.T) {
	svc := NewTokenService(testSecurity())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:           "user-1",
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "voting-api-test"},
	})
	signed, err := token.SignedString([]byte(testSecurity().JWTSecret))
	require.NoError(t, err)

	_, err = svc.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

type stubUsers struct {
	users map[string]*database.User
	err   error
}

func (s stubUsers) GetByID(_ context.Context, id string) (*database.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func TestRoleCheckFailsClosed(t *testing.T) {
	ctx := context.Background()
	users := stubUsers{users: map[string]*database.User{
		"admin": {ID: "admin", Role: database.RoleAdmin},
		"voter": {ID: "voter", Role: database.RoleVoter},
	}}
	check := NewRoleCheck(users)

	assert.True(t, check.IsAdmin(ctx, "admin"))
	assert.False(t, check.IsAdmin(ctx, "voter"))
	assert.False(t, check.IsAdmin(ctx, "ghost"))
	assert.False(t, check.IsAdmin(ctx, ""))

	broken := NewRoleCheck(stubUsers{err: errors.New("store unavailable")})
	assert.False(t, broken.IsAdmin(ctx, "admin"))

	var nilCheck *RoleCheck
	assert.False(t, nilCheck.IsAdmin(ctx, "admin"))
}
