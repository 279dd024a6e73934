package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Setenv("ACCESS_SECRET", "test-access-secret")
	t.Setenv("REFRESH_SECRET", "test-refresh-secret")
}

func TestGenerateAndValidateTokens(t *testing.T) {
	setSecrets(t)

	access, refresh, err := GenerateTokens(42, []string{"customer", "admin"})
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	assert.NotEqual(t, access, refresh)

	claims, err := ValidateToken(access, false)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.True(t, claims.HasRole("admin"))
	assert.True(t, claims.HasRole("customer"))
	assert.False(t, claims.HasRole("root"))

	refreshClaims, err := ValidateToken(refresh, true)
	require.NoError(t, err)
	assert.Equal(t, int64(42), refreshClaims.UserID)
}

func TestValidateToken_WrongKind(t *testing.T) {
	setSecrets(t)

	access, refresh, err := GenerateTokens(42, []string{"customer"})
	require.NoError(t, err)

	// Tokens are signed with different secrets per kind.
	_, err = ValidateToken(access, true)
	require.Error(t, err)

	_, err = ValidateToken(refresh, false)
	require.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	setSecrets(t)

	_, err := ValidateToken("not-a-token", false)
	require.Error(t, err)
}

func TestGenerateTokens_MissingSecrets(t *testing.T) {
	t.Setenv("ACCESS_SECRET", "")
	t.Setenv("REFRESH_SECRET", "")

	_, _, err := GenerateTokens(42, []string{"customer"})
	require.Error(t, err)
}

func TestValidatePassword(t *testing.T) {
	assert.ErrorIs(t, ValidatePassword("short1"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword("onlyletters"), ErrPasswordTooWeak)
	assert.ErrorIs(t, ValidatePassword("12345678"), ErrPasswordTooWeak)
	assert.NoError(t, ValidatePassword("secret123"))
}
