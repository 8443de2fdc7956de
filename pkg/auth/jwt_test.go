package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenPair(t *testing.T) {
	access, refresh, err := GenerateTokenPair("ops@dukaaon.in", RoleAdmin, testSecret, 60, 7)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(access, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "ops@dukaaon.in", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, err = ValidateRefreshToken(refresh, testSecret)
	assert.NoError(t, err)
}

func TestValidate_WrongType(t *testing.T) {
	_, refresh, err := GenerateTokenPair("ops@dukaaon.in", RoleAdmin, testSecret, 60, 7)
	require.NoError(t, err)

	_, err = ValidateAccessToken(refresh, testSecret)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidate_WrongSecretAndExpired(t *testing.T) {
	access, err := GenerateAccessToken("ops@dukaaon.in", RoleAdmin, testSecret, 60)
	require.NoError(t, err)
	_, err = ValidateAccessToken(access, "other-secret")
	assert.Error(t, err)

	expired, err := GenerateAccessToken("ops@dukaaon.in", RoleAdmin, testSecret, -1)
	require.NoError(t, err)
	_, err = ValidateAccessToken(expired, testSecret)
	assert.Error(t, err)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong", hash))
	assert.False(t, CheckPassword("s3cret-pass", "not-a-hash"))
}
