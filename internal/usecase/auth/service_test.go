package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/riverdub/riverdub/internal/auth"
	"github.com/riverdub/riverdub/internal/domain"
)

// --- Mocks ---

type mockTokens struct {
	issueErr  error
	claims    *auth.Claims
	verifyErr error
	issuedFor string
}

func (m *mockTokens) Issue(login string) (string, time.Time, error) {
	m.issuedFor = login
	if m.issueErr != nil {
		return "", time.Time{}, m.issueErr
	}
	return "token-" + login, time.Unix(1700000000, 0), nil
}

func (m *mockTokens) Verify(_ string) (*auth.Claims, error) {
	return m.claims, m.verifyErr
}

func plainVerifier(password, hash string) (bool, error) {
	return password == hash, nil
}

var creds = Credentials{Login: "admin", PasswordHash: "secret"}

// --- Tests ---

func TestLogin_Success(t *testing.T) {
	tokens := &mockTokens{}
	svc := New(creds, tokens, plainVerifier)

	sess, err := svc.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Token != "token-admin" || sess.Login != "admin" {
		t.Errorf("unexpected session: %+v", sess)
	}
	if sess.ExpiresAt.IsZero() {
		t.Error("expected expiry")
	}
}

func TestLogin_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		login    string
		password string
	}{
		{"wrong password", "admin", "nope"},
		{"wrong login", "root", "secret"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &mockTokens{}
			svc := New(creds, tokens, plainVerifier)

			_, err := svc.Login(context.Background(), tt.login, tt.password)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got %v", err)
			}
			if tokens.issuedFor != "" {
				t.Error("no token should be issued")
			}
		})
	}
}

func TestLogin_VerifierError(t *testing.T) {
	svc := New(creds, &mockTokens{}, func(string, string) (bool, error) {
		return false, errors.New("malformed hash")
	})

	_, err := svc.Login(context.Background(), "admin", "secret")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestLogin_IssueError(t *testing.T) {
	svc := New(creds, &mockTokens{issueErr: errors.New("sign failed")}, plainVerifier)

	if _, err := svc.Login(context.Background(), "admin", "secret"); err == nil {
		t.Fatal("expected error")
	}
}

func TestLogin_DefaultVerifierUsesArgon2(t *testing.T) {
	hash, err := auth.HashPassword("pw")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	svc := New(Credentials{Login: "admin", PasswordHash: hash}, &mockTokens{}, nil)

	if _, err := svc.Login(context.Background(), "admin", "pw"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Login(context.Background(), "admin", "bad"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerify(t *testing.T) {
	valid := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "admin"}}
	other := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "someone"}}

	tests := []struct {
		name    string
		token   string
		tokens  *mockTokens
		wantErr bool
	}{
		{"valid", "t", &mockTokens{claims: valid}, false},
		{"empty token", "", &mockTokens{claims: valid}, true},
		{"invalid token", "t", &mockTokens{verifyErr: errors.New("expired")}, true},
		{"other subject", "t", &mockTokens{claims: other}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(creds, tt.tokens, plainVerifier)

			login, err := svc.Verify(context.Background(), tt.token)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrUnauthorized) {
					t.Fatalf("expected ErrUnauthorized, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if login != "admin" {
				t.Errorf("expected admin, got %q", login)
			}
		})
	}
}
