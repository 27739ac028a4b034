package jwt

import (
	"testing"
	"time"

	"github.com/techsplot/smart-health-backend/config"
	"github.com/techsplot/smart-health-backend/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: 24 * time.Hour,
		ResetExpiry:   15 * time.Minute,
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service := newTestService()
	userID := uuid.New()

	token, tokenID, err := service.GenerateAccessToken(userID, "patient@clinic.test", entity.RolePatient)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, tokenID)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "patient@clinic.test", claims.Email)
	assert.Equal(t, entity.RolePatient, claims.Role)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestTokenTypes(t *testing.T) {
	service := newTestService()
	userID := uuid.New()

	refresh, _, err := service.GenerateRefreshToken(userID, "doc@clinic.test", entity.RoleDoctor)
	require.NoError(t, err)
	claims, err := service.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, RefreshToken, claims.TokenType)

	reset, _, err := service.GenerateResetToken(userID, "doc@clinic.test", entity.RoleDoctor)
	require.NoError(t, err)
	claims, err = service.ValidateToken(reset)
	require.NoError(t, err)
	assert.Equal(t, ResetToken, claims.TokenType)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	service := newTestService()
	other := NewJWTService(config.JWTConfig{
		Secret:       "another-secret",
		AccessExpiry: 15 * time.Minute,
	})

	token, _, err := other.GenerateAccessToken(uuid.New(), "a@b.test", entity.RolePatient)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateExpiredToken(t *testing.T) {
	service := NewJWTService(config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: -time.Minute,
	})

	token, _, err := service.GenerateAccessToken(uuid.New(), "a@b.test", entity.RolePatient)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateGarbageToken(t *testing.T) {
	service := newTestService()

	_, err := service.ValidateToken("not-a-token")
	assert.Error(t, err)
}
