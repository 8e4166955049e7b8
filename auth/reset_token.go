package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

const resetTokenBytes = 32

// NewResetToken returns a random url-safe token and the hash to persist.
func NewResetToken() (token string, hash string, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", internalError(err, "failed to generate reset token")
	}
	token = base64.RawURLEncoding.EncodeToString(buf)
	return token, HashResetToken(token), nil
}

// HashResetToken is the one-way digest stored for a reset token
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
