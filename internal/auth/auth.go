package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Authenticator checks login credentials against the configured account.
// The password is stored as a bcrypt hash, never in plaintext.
type Authenticator struct {
	email        string
	passwordHash []byte
}

// NewAuthenticator creates an authenticator for a single account.
func NewAuthenticator(email, passwordHash string) *Authenticator {
	return &Authenticator{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: []byte(passwordHash),
	}
}

// Authenticate reports whether the given credentials match. Both checks
// always run so a wrong email costs the same as a wrong password.
func (a *Authenticator) Authenticate(email, password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(normalized), []byte(a.email)) == 1
	passwordOK := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
	return emailOK && passwordOK
}

// HashPassword generates a bcrypt hash for use in LOGIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
