package identity

import (
	"fmt"
	"strings"
	"time"

	"github.com/rechargex/rechargex/internal/apperr"
)

var (
	// ErrUserNotFound is returned by repositories when no user matches the lookup key.
	ErrUserNotFound = fmt.Errorf("user %w", apperr.ErrNotFound)

	// ErrUserExists is returned when a natural key (mobile, email, firebase uid) is already taken.
	ErrUserExists = fmt.Errorf("%w: user already exists", apperr.ErrConflict)

	// ErrMissingIdentifier is returned when a user would be stored with neither mobile nor email.
	ErrMissingIdentifier = fmt.Errorf("%w: user must have either mobile or email", apperr.ErrValidation)
)

// User represents a recharge account holder.
type User struct {
	ID          string
	Mobile      string
	Email       string
	Name        string
	FirebaseUID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate enforces the at-least-one-identifier rule.
func (u User) Validate() error {
	if u.Mobile == "" && u.Email == "" {
		return ErrMissingIdentifier
	}
	return nil
}

// Claim carries the identity fields asserted by a verified sign-in.
type Claim struct {
	Mobile      string
	Email       string
	Name        string
	FirebaseUID string
}

func (c Claim) normalized() Claim {
	return Claim{
		Mobile:      strings.TrimSpace(c.Mobile),
		Email:       NormalizeEmail(c.Email),
		Name:        strings.TrimSpace(c.Name),
		FirebaseUID: strings.TrimSpace(c.FirebaseUID),
	}
}

// NormalizeEmail trims and lower-cases an address the way it is stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// backfill copies claim fields into empty user fields. Populated fields are
// never overwritten. It reports whether anything changed.
func backfill(u *User, c Claim) bool {
	changed := false
	fill := func(dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
			changed = true
		}
	}
	fill(&u.Mobile, c.Mobile)
	fill(&u.Email, c.Email)
	fill(&u.Name, c.Name)
	fill(&u.FirebaseUID, c.FirebaseUID)
	return changed
}
