package security_test

import (
	"testing"

	"shortly/internal/security"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHasher_HashWithIsDeterministic(t *testing.T) {
	hasher := security.NewPasswordHasher()

	first := hasher.HashWith("secret1", "aabbcc")
	second := hasher.HashWith("secret1", "aabbcc")
	assert.Equal(t, first, second)

	// A different salt or password must change the digest.
	assert.NotEqual(t, first, hasher.HashWith("secret1", "ddeeff"))
	assert.NotEqual(t, first, hasher.HashWith("secret2", "aabbcc"))
}

func TestPasswordHasher_HashGeneratesFreshSalts(t *testing.T) {
	hasher := security.NewPasswordHasher()

	salt1, digest1, err := hasher.Hash("password123")
	assert.NoError(t, err)
	salt2, digest2, err := hasher.Hash("password123")
	assert.NoError(t, err)

	assert.NotEmpty(t, salt1)
	assert.Len(t, salt1, 512) // 256 random bytes, hex-encoded
	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, digest1, digest2)
}

func TestPasswordHasher_Verify(t *testing.T) {
	hasher := security.NewPasswordHasher()

	salt, digest, err := hasher.Hash("password123")
	assert.NoError(t, err)

	assert.True(t, hasher.Verify("password123", salt, digest))
	assert.False(t, hasher.Verify("wrongpassword", salt, digest))
	assert.False(t, hasher.Verify("password123", "othersalt", digest))
}
