package jwt

import (
	"testing"
	"time"

	"cookshare/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseUserToken(t *testing.T) {
	svc := NewJWTService()

	token := svc.GenerateTokenUser("user-123", domain.RoleAdmin)
	require.NotEmpty(t, token)

	userID, role, err := svc.GetUserIDByToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, domain.RoleAdmin, role)
}

func TestGetUserIDByTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService()

	_, _, err := svc.GetUserIDByToken("not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestResetPasswordTokenRoundTrip(t *testing.T) {
	svc := NewJWTService()

	token, err := svc.GenerateTokenResetPassword(map[string]any{"user_id": "user-123"}, 15*time.Minute)
	require.NoError(t, err)

	claims, err := svc.ValidateTokenResetPassword(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
}

func TestResetPasswordTokenRejectsGarbage(t *testing.T) {
	svc := NewJWTService()

	_, err := svc.ValidateTokenResetPassword("not.a.token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestResetPasswordTokenExpires(t *testing.T) {
	svc := NewJWTService()

	token, err := svc.GenerateTokenResetPassword(map[string]any{"user_id": "user-123"}, -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateTokenResetPassword(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}
