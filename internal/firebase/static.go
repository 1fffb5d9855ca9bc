package firebase

import (
	"context"
	"fmt"
	"sync"

	"github.com/rechargex/rechargex/internal/apperr"
)

// StaticVerifier maps fixed token strings to claims. It backs local
// development without Firebase credentials and handler tests.
type StaticVerifier struct {
	mu     sync.RWMutex
	tokens map[string]Claims
}

// NewStaticVerifier returns an empty StaticVerifier.
func NewStaticVerifier() *StaticVerifier {
	return &StaticVerifier{tokens: make(map[string]Claims)}
}

// Register makes token verify to claims.
func (v *StaticVerifier) Register(token string, claims Claims) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.tokens[token] = claims
}

// Verify implements Verifier.
func (v *StaticVerifier) Verify(_ context.Context, rawToken string) (Claims, error) {
	if rawToken == "" {
		return Claims{}, fmt.Errorf("%w: Firebase token is required", apperr.ErrValidation)
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	claims, ok := v.tokens[rawToken]
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
