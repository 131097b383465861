// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phonebay/phonebay-backend/internal/apperrors"
	"github.com/phonebay/phonebay-backend/internal/config"
	"github.com/phonebay/phonebay-backend/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  1,
			RefreshTokenTTL: 24,
		},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	authService := NewAuthService(db, testConfig(), nil)

	auth, err := authService.Register(&RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3r$ecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.AccessToken)
	assert.NotEmpty(t, auth.RefreshToken)
	assert.Equal(t, models.UserRoleCustomer, auth.User.Role)

	// Duplicate email.
	_, err = authService.Register(&RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "Sup3r$ecret",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))

	// Duplicate username.
	_, err = authService.Register(&RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "Sup3r$ecret",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))

	// Weak password fails validation.
	_, err = authService.Register(&RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "password",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))

	login, err := authService.Login(&LoginRequest{Email: "alice@example.com", Password: "Sup3r$ecret"})
	require.NoError(t, err)
	assert.NotNil(t, login.User.LastLoginAt)
}

func TestLoginFailures(t *testing.T) {
	db := newTestDB(t)
	authService := NewAuthService(db, testConfig(), nil)
	user := createTestUser(t, db, "alice")

	// Wrong password and unknown email both come back as the same
	// credential error.
	_, err := authService.Login(&LoginRequest{Email: user.Email, Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))

	_, err = authService.Login(&LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))

	// Disabled accounts cannot sign in even with the right password.
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("is_disabled", true).Error)
	_, err = authService.Login(&LoginRequest{Email: user.Email, Password: "Sup3r$ecret"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestRefreshToken(t *testing.T) {
	db := newTestDB(t)
	authService := NewAuthService(db, testConfig(), nil)

	auth, err := authService.Register(&RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Sup3r$ecret",
	})
	require.NoError(t, err)

	refreshed, err := authService.RefreshToken(&RefreshRequest{RefreshToken: auth.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, auth.User.ID, refreshed.User.ID)

	_, err = authService.RefreshToken(&RefreshRequest{RefreshToken: "garbage"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
}
