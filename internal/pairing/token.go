package pairing

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// tokenEntropy is how many CSPRNG bytes back each pairing token.
// 32 bytes encode to 43 base64url characters with padding stripped.
const tokenEntropy = 32

// GenerateToken returns a fresh pairing token: 43 characters from
// [A-Za-z0-9_-]. Uniqueness rests entirely on entropy; no store lookup.
func GenerateToken() (string, error) {
	var b [tokenEntropy]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate pairing token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

// HashToken returns the 64-character lowercase hex SHA-256 digest of a
// token. The server persists only this hash, never the token itself.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
