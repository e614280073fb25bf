package web

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests-32chars"

func TestGenerateAndValidateJWT(t *testing.T) {
	token, expiresAt, err := GenerateJWT("user-1", "alice", "admin", testSecret, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := ValidateJWT(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "cammanager", claims.Issuer)
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token, _, err := GenerateJWT("user-1", "alice", "admin", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "some-other-secret")
	assert.Error(t, err)
}

func TestValidateJWT_Expired(t *testing.T) {
	token, _, err := GenerateJWT("user-1", "alice", "admin", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateJWT(token, testSecret)
	assert.Error(t, err)
}

func TestValidateJWT_Garbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token", testSecret)
	assert.Error(t, err)
}
