package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// Number of random bytes per access token. 16 → 128-bit
const TOKEN_SIZE = 16

// GenerateToken returns an unguessable, URL-safe bearer token.
// Tokens are opaque; uniqueness is enforced by the storage layer.
func GenerateToken() (string, error) {
	b := make([]byte, TOKEN_SIZE)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
