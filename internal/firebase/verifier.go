// Package firebase verifies Firebase Authentication ID tokens.
package firebase

import (
	"context"
	"fmt"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/rechargex/rechargex/internal/apperr"
)

const (
	issuerPrefix = "https://securetoken.google.com/"

	// DefaultJWKSURL serves the public keys Firebase signs ID tokens with.
	DefaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = fmt.Errorf("%w: invalid or expired Firebase token", apperr.ErrAuth)

// Claims are the identity fields read from a verified ID token.
type Claims struct {
	UID         string
	Email       string
	Name        string
	PhoneNumber string
}

// Verifier checks a raw Firebase ID token and returns its claims.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (Claims, error)
}

// OIDCVerifier validates issuer, audience, expiry and signature of Firebase ID tokens.
type OIDCVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewVerifier builds a verifier for projectID that trusts keys from keySet.
func NewVerifier(projectID string, keySet oidc.KeySet) *OIDCVerifier {
	cfg := &oidc.Config{ClientID: projectID}
	return &OIDCVerifier{verifier: oidc.NewVerifier(issuerPrefix+projectID, keySet, cfg)}
}

// NewRemoteVerifier fetches signing keys from jwksURL on demand.
func NewRemoteVerifier(ctx context.Context, projectID, jwksURL string) *OIDCVerifier {
	if jwksURL == "" {
		jwksURL = DefaultJWKSURL
	}
	return NewVerifier(projectID, oidc.NewRemoteKeySet(ctx, jwksURL))
}

type tokenClaims struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	UserID      string `json:"user_id"`
}

// Verify implements Verifier.
func (v *OIDCVerifier) Verify(ctx context.Context, rawToken string) (Claims, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return Claims{}, fmt.Errorf("%w: Firebase token is required", apperr.ErrValidation)
	}
	idToken, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	var tc tokenClaims
	if err := idToken.Claims(&tc); err != nil {
		return Claims{}, ErrInvalidToken
	}
	uid := idToken.Subject
	if uid == "" {
		uid = tc.UserID
	}
	if uid == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{
		UID:         uid,
		Email:       tc.Email,
		Name:        tc.Name,
		PhoneNumber: tc.PhoneNumber,
	}, nil
}
