package auth

import (
	"time"

	"github.com/riverdub/riverdub/internal/auth"
)

// TokenService issues and verifies session tokens.
type TokenService interface {
	Issue(login string) (string, time.Time, error)
	Verify(token string) (*auth.Claims, error)
}

// PasswordVerifier checks a password against a stored hash.
type PasswordVerifier func(password, hash string) (bool, error)
