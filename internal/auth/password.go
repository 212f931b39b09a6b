// internal/auth/password.go
package auth

import (
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

var ErrEmptyPassword = errors.New("password must not be empty")

// HashPassword returns the base64-encoded SHA-256 digest of the password.
// The hash is deliberately unsalted: existing stored hashes were produced
// this way and logins compare digests byte for byte, so switching to a
// salted KDF is a data migration, not a drop-in change.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	sum := sha256.Sum256([]byte(password))
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}
