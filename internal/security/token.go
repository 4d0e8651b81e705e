package security

// Refresh tokens are opaque bearer credentials. They carry no structure;
// validity comes from the database lookup, not a cryptographic signature.

import (
	"crypto/rand"
	"encoding/hex"
)

// NewRefreshToken creates a cryptographically secure random token
// (256 bits), returned as a 64-character hex string.
func NewRefreshToken() (string, error) {
	// 32 random bytes gives 256 bits of entropy against brute force
	randomBytes := make([]byte, 32)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return "", err
	}

	// Hex keeps the token safe for transport and storage
	return hex.EncodeToString(randomBytes), nil
}
