package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
)

var formatRe = regexp.MustCompile(`^[a-f0-9]{64}$`)

// New generates a cryptographically random 64-character hex verification token.
func New() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// WellFormed reports whether s looks like a token this service issued.
// Callers must reject malformed tokens before touching any store.
func WellFormed(s string) bool {
	return formatRe.MatchString(s)
}
