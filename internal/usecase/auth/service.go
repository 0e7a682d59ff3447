package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/riverdub/riverdub/internal/auth"
	"github.com/riverdub/riverdub/internal/domain"
	"github.com/riverdub/riverdub/internal/logger"
	"github.com/riverdub/riverdub/internal/metrics"
)

// Credentials identify the single admin account.
type Credentials struct {
	Login        string
	PasswordHash string
}

// Session is an issued admin session.
type Session struct {
	Login     string
	Token     string
	ExpiresAt time.Time
}

// Service authenticates the admin and validates sessions.
type Service struct {
	creds  Credentials
	tokens TokenService
	verify PasswordVerifier
}

// New creates an auth service. A nil verifier uses argon2id PHC hashes.
func New(creds Credentials, tokens TokenService, verify PasswordVerifier) *Service {
	if verify == nil {
		verify = auth.VerifyPassword
	}
	return &Service{creds: creds, tokens: tokens, verify: verify}
}

// Login checks the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, login, password string) (Session, error) {
	userOK := subtle.ConstantTimeCompare([]byte(login), []byte(s.creds.Login)) == 1
	passOK, err := s.verify(password, s.creds.PasswordHash)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return Session{}, fmt.Errorf("verify password: %w", err)
	}
	if !userOK || !passOK {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		logger.FromContext(ctx).Warn("Login rejected", zap.String("login", login))
		return Session{}, domain.ErrInvalidCredentials
	}

	token, exp, err := s.tokens.Issue(s.creds.Login)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	metrics.LoginAttemptsTotal.WithLabelValues("ok").Inc()
	return Session{Login: s.creds.Login, Token: token, ExpiresAt: exp}, nil
}

// Verify validates a session token and returns the login it was issued to.
func (s *Service) Verify(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	if claims.Login() != s.creds.Login {
		return "", domain.ErrUnauthorized
	}
	return claims.Login(), nil
}
