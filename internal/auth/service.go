package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rechargex/rechargex/internal/apperr"
	"github.com/rechargex/rechargex/internal/config"
	"github.com/rechargex/rechargex/internal/identity"
)

const defaultSessionTTL = 30 * 24 * time.Hour

// ErrInvalidToken is returned when a session token cannot be trusted.
var ErrInvalidToken = fmt.Errorf("%w: invalid token", apperr.ErrAuth)

// Claims carried by session tokens.
type Claims struct {
	UserID string `json:"userId"`
	Mobile string `json:"mobile,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Service issues and validates session tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(cfg config.Config) *Service {
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Service{secret: []byte(cfg.JWTSecret), ttl: ttl, now: time.Now}
}

// Issue signs a session token for user.
func (s *Service) Issue(user identity.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Mobile: user.Mobile,
		Email:  user.Email,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature and expiry and returns the token claims.
func (s *Service) Parse(token string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, fmt.Errorf("%w: token expired", apperr.ErrAuth)
		}
		return Claims{}, ErrInvalidToken
	}
	if !parsed.Valid || claims.UserID == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
