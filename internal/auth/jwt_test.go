package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenService_IssueVerify(t *testing.T) {
	ts := NewTokenService([]byte("test-secret"), time.Hour)

	token, expiresAt, err := ts.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(expiresAt) <= 59*time.Minute {
		t.Errorf("expiresAt = %v, want about an hour from now", expiresAt)
	}

	claims, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Login() != "admin" {
		t.Errorf("Login() = %q", claims.Login())
	}
	if claims.Issuer != Issuer {
		t.Errorf("Issuer = %q", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("expected a token ID")
	}
}

func TestTokenService_UniqueIDs(t *testing.T) {
	ts := NewTokenService([]byte("test-secret"), time.Hour)
	a, _, _ := ts.Issue("admin")
	b, _, _ := ts.Issue("admin")
	if a == b {
		t.Error("tokens issued in the same second must differ")
	}
}

func TestTokenService_Expired(t *testing.T) {
	ts := NewTokenService([]byte("test-secret"), -time.Minute)
	token, _, err := ts.Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := ts.Verify(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, _, err := NewTokenService([]byte("secret-a"), time.Hour).Issue("admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := NewTokenService([]byte("secret-b"), time.Hour).Verify(token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestTokenService_RejectsNoneAlg(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Issuer:    Issuer,
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := NewTokenService([]byte("s"), time.Hour).Verify(token); err == nil {
		t.Fatal("expected error for alg=none")
	}
}

func TestTokenService_WrongIssuer(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Issuer:    "someone-else",
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, err = NewTokenService([]byte("s"), time.Hour).Verify(token)
	if err == nil || !strings.Contains(err.Error(), "parse token") {
		t.Fatalf("expected issuer rejection, got %v", err)
	}
}

func TestTokenService_Garbage(t *testing.T) {
	if _, err := NewTokenService([]byte("s"), time.Hour).Verify("not.a.jwt"); err == nil {
		t.Fatal("expected error")
	}
}
