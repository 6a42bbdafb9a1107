package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestVerifier_RoundTrip(t *testing.T) {
	t.Parallel()

	v, err := NewVerifier("test-secret")
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	tok, err := v.Issue("user-1", "u@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	p, err := v.VerifyRequest(r)
	if err != nil {
		t.Fatalf("VerifyRequest: %v", err)
	}
	if p.UserID != "user-1" || p.Email != "u@example.com" {
		t.Fatalf("got %+v", p)
	}
}

func TestVerifier_Rejects(t *testing.T) {
	t.Parallel()

	v, _ := NewVerifier("test-secret")
	other, _ := NewVerifier("other-secret")
	forged, _ := other.Issue("user-1", "", time.Hour)
	expired, _ := v.Issue("user-1", "", -time.Hour)
	noSub, _ := v.Issue("", "", time.Hour)
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"}).SignedString([]byte("test-secret"))

	tests := map[string]string{
		"garbage":       "not-a-token",
		"wrong secret":  forged,
		"expired":       expired,
		"no subject":    noSub,
		"alg none":      unsigned,
		"no expiration": noExp,
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := v.Verify(tok); !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("got %v, want ErrUnauthorized", err)
			}
		})
	}
}

func TestVerifyRequest_MissingHeader(t *testing.T) {
	t.Parallel()

	v, _ := NewVerifier("s")
	for _, h := range []string{"", "Bearer", "Basic abc", "Bearer   "} {
		r := httptest.NewRequest("GET", "/", nil)
		if h != "" {
			r.Header.Set("Authorization", h)
		}
		if _, err := v.VerifyRequest(r); !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("%q: got %v, want ErrUnauthorized", h, err)
		}
	}
}

func TestNewVerifier_EmptySecret(t *testing.T) {
	t.Parallel()

	if _, err := NewVerifier("  "); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPrincipalContext(t *testing.T) {
	t.Parallel()

	ctx := WithPrincipal(context.Background(), Principal{UserID: "u"})
	if p, ok := FromContext(ctx); !ok || p.UserID != "u" {
		t.Fatalf("got %+v, %v", p, ok)
	}
	if _, ok := FromContext(context.Background()); ok {
		t.Fatalf("expected no principal")
	}
}
