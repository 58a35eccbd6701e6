package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printipid/printipid/pkg/auth"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := auth.GenerateToken("u-123", "customer")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-123", claims.UserID)
	assert.Equal(t, "customer", claims.Role)
}

func TestValidateGarbageToken(t *testing.T) {
	_, err := auth.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, auth.CheckPassword(hash, "s3cret-pass"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
}
