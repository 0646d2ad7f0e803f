// internal/utils/jwt_test.go
package utils

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	SetJWTSecret("test-secret")

	userID := uuid.New()
	token, err := GenerateJWT(userID, "warehouse-admin", "admin", 1)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "warehouse-admin", claims.Username)
	assert.Equal(t, "admin", claims.Role)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	SetJWTSecret("test-secret")
	token, err := GenerateJWT(uuid.New(), "staff", "staff", 1)
	require.NoError(t, err)

	SetJWTSecret("another-secret")
	_, err = ValidateJWT(token)
	assert.Error(t, err)
}

func TestValidateJWT_Garbage(t *testing.T) {
	SetJWTSecret("test-secret")
	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	userID := uuid.New()
	token, err := GenerateRefreshToken(userID, 24)
	require.NoError(t, err)

	subject, err := ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), subject)
}
