package utils_test

import (
	"testing"

	"github.com/ncerda/simulator-server/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateToken("42", utils.SubjectUser, 1)
	require.NoError(t, err)

	claims, err := utils.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.SubjectID)
	assert.Equal(t, utils.SubjectUser, claims.SubjectKind)
	assert.Equal(t, 1, claims.RoleID)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "first")
	token, err := utils.GenerateToken("7", utils.SubjectSimulator, 0)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "second")
	_, err = utils.VerifyToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := utils.GenerateToken("1", utils.SubjectUser, 1)
	assert.Error(t, err)
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.True(t, utils.CheckPassword(hash, "secret"))
	assert.False(t, utils.CheckPassword(hash, "wrong"))
}
