package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rechargex/rechargex/internal/apperr"
	"github.com/rechargex/rechargex/internal/config"
	"github.com/rechargex/rechargex/internal/identity"
)

func newTestService() *Service {
	return NewService(config.Config{JWTSecret: "test-secret", SessionTTL: time.Hour})
}

func TestIssueAndParse(t *testing.T) {
	svc := newTestService()
	user := identity.User{ID: "u1", Mobile: "9876543210", Email: "a@b.com", Name: "A"}

	token, err := svc.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Parse(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u1" || claims.Subject != "u1" || claims.Mobile != "9876543210" || claims.Email != "a@b.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected ttl 1h, got %s", got)
	}
}

func TestDefaultTTLIsThirtyDays(t *testing.T) {
	svc := NewService(config.Config{JWTSecret: "s"})
	if svc.ttl != 30*24*time.Hour {
		t.Fatalf("unexpected ttl %s", svc.ttl)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	svc := newTestService()
	token, err := svc.Issue(identity.User{ID: "u1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := svc.Parse(token); !errors.Is(err, apperr.ErrAuth) {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestParseRejectsForeignSecretAndMethod(t *testing.T) {
	svc := newTestService()
	other := NewService(config.Config{JWTSecret: "other", SessionTTL: time.Hour})
	token, _ := other.Issue(identity.User{ID: "u1"})
	if _, err := svc.Parse(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for foreign secret, got %v", err)
	}

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "u1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := svc.Parse(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for alg none, got %v", err)
	}

	if _, err := svc.Parse("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token for garbage, got %v", err)
	}
}
