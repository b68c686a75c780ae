package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	s, err := NewSigner("secret", "sensai", time.Hour, "dev")
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	token, err := s.Sign("google:123", "a@b.c", "Ann", "")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	claims, err := s.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Subject != "google:123" || claims.Email != "a@b.c" {
		t.Fatalf("unexpected claims: %#v", claims)
	}
}

func TestVerifyRejects(t *testing.T) {
	s, _ := NewSigner("secret", "sensai", time.Hour, "dev")
	other, _ := NewSigner("other", "sensai", time.Hour, "dev")
	wrongIssuer, _ := NewSigner("secret", "someone-else", time.Hour, "dev")

	foreign, _ := other.Sign("google:1", "", "", "")
	issued, _ := wrongIssuer.Sign("google:1", "", "", "")

	expiredSigner, _ := NewSigner("secret", "sensai", time.Minute, "dev")
	expiredSigner.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _ := expiredSigner.Sign("google:1", "", "", "")

	for name, token := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": foreign,
		"wrong issuer": issued,
		"expired":      expired,
	} {
		if _, err := s.Verify(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestNewSignerRequiresSecretInProduction(t *testing.T) {
	if _, err := NewSigner("", "sensai", time.Hour, "production"); err == nil {
		t.Fatalf("expected error without secret in production")
	}
	if _, err := NewSigner("", "sensai", time.Hour, "dev"); err != nil {
		t.Fatalf("expected dev fallback, got %v", err)
	}
}
