package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Password123!")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	assert.True(t, CheckPassword("Password123!", hash))
	assert.False(t, CheckPassword("WrongPass", hash))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	a, err := HashPassword("same-password")
	assert.NoError(t, err)
	b, err := HashPassword("same-password")
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)

	assert.True(t, CheckPassword("same-password", a))
	assert.True(t, CheckPassword("same-password", b))
}

func TestHashPassword_TooLong(t *testing.T) {
	// bcrypt rejects inputs over 72 bytes
	_, err := HashPassword(strings.Repeat("x", 80))
	assert.Error(t, err)
}
