package utils

import (
	"os"
	"testing"

	"github.com/tanvir-hs/CourseDeck/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPasswordAcceptsCorrectPassword(t *testing.T) {
	hash, err := HashPassword("Correct1Password")
	require.NoError(t, err)

	// Same argument order the login handlers use: stored hash first
	assert.True(t, CheckPassword(hash, "Correct1Password"))
}

func TestCheckPasswordRejectsWrongPassword(t *testing.T) {
	hash, err := HashPassword("Correct1Password")
	require.NoError(t, err)

	assert.False(t, CheckPassword(hash, "Wrong1Password"))
}

func TestCheckPasswordRejectsSwappedArguments(t *testing.T) {
	hash, err := HashPassword("Correct1Password")
	require.NoError(t, err)

	assert.False(t, CheckPassword("Correct1Password", hash))
}

func TestCheckPasswordRejectsEmptyHash(t *testing.T) {
	assert.False(t, CheckPassword("", "anything"))
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	user := models.User{ID: 42, Email: "rahim@example.com"}

	token, err := GenerateToken(&user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret")
	defer os.Unsetenv("JWT_SECRET")

	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}
