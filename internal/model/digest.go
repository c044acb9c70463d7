package model

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Digest returns the SHA3-256 hex digest of a page body.
// The body is the charset-decoded text, so two runs with the same digest
// saw identical decoded bodies.
func Digest(body string) string {
	sum := sha3.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}
