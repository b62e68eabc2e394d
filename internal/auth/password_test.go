package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.NoError(t, ComparePassword(hash, "s3cret-pass"))
	assert.Error(t, ComparePassword(hash, "wrong-pass"))
}

func TestHashPassword_SaltUniqueness(t *testing.T) {
	first, err := HashPassword("same-password", bcrypt.MinCost)
	assert.NoError(t, err)
	second, err := HashPassword("same-password", bcrypt.MinCost)
	assert.NoError(t, err)

	// bcrypt salts every digest, so two hashes of one password differ.
	assert.NotEqual(t, first, second)
	assert.NoError(t, ComparePassword(first, "same-password"))
	assert.NoError(t, ComparePassword(second, "same-password"))
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	hash, err := HashPassword("pw", -1)
	assert.NoError(t, err)
	assert.NoError(t, ComparePassword(hash, "pw"))
}
