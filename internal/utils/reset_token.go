package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateResetToken returns a high-entropy password-reset token in plaintext
// (emailed to the user) together with its sha256 hex digest (the only form
// ever persisted).
func GenerateResetToken() (token string, tokenHash string, err error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	token = hex.EncodeToString(bytes)
	return token, HashResetToken(token), nil
}

// HashResetToken derives the stored digest for a presented reset token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
