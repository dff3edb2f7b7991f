package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashEmail creates a consistent hash for logging without exposing PII.
// Case and surrounding space do not change the hash.
func HashEmail(email string) string {
	hash := sha256.Sum256([]byte(NormalizeEmail(email)))
	return hex.EncodeToString(hash[:])[:12]
}

// NormalizeEmail is the canonical form emails are stored and compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
