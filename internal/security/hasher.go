package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// saltBytes is the amount of entropy drawn for a fresh salt. The salt is
// stored hex-encoded, so the persisted value is twice this length.
const saltBytes = 256

// PasswordHasher derives and verifies salted password digests.
// The digest is hex(HMAC-SHA256(key=salt, msg=password)).
type PasswordHasher struct{}

// NewPasswordHasher creates a new PasswordHasher.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{}
}

// Hash generates a fresh random salt and returns it together with the
// digest of password under that salt.
func (h *PasswordHasher) Hash(password string) (salt, digest string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt = hex.EncodeToString(raw)
	return salt, h.HashWith(password, salt), nil
}

// HashWith computes the digest of password under an existing salt.
// Deterministic: the same inputs always produce the same digest.
func (h *PasswordHasher) HashWith(password, salt string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether password matches the stored digest for the stored
// salt. The comparison is constant-time.
func (h *PasswordHasher) Verify(password, salt, digest string) bool {
	computed := h.HashWith(password, salt)
	return hmac.Equal([]byte(computed), []byte(digest))
}
