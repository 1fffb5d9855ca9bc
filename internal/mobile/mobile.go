// Package mobile validates and formats 10-digit Indian mobile numbers.
package mobile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rechargex/rechargex/internal/apperr"
)

const countryCode = "+91"

var (
	anyTenDigits = regexp.MustCompile(`^[0-9]{10}$`)
	subscriber   = regexp.MustCompile(`^[6-9][0-9]{9}$`)
)

// Valid reports whether s is exactly ten ASCII digits. This is the rule the
// server has always applied to stored numbers.
func Valid(s string) bool {
	return anyTenDigits.MatchString(s)
}

// ValidSubscriber reports whether s is a ten digit number starting with 6-9,
// the range actually allocated to mobile subscribers.
func ValidSubscriber(s string) bool {
	return subscriber.MatchString(s)
}

// Validator checks submitted numbers using either the loose or the strict rule.
type Validator struct {
	Strict bool
}

// Check returns an apperr.ErrValidation wrapped error when s is not acceptable.
func (v Validator) Check(s string) error {
	ok := Valid(s)
	if v.Strict {
		ok = ValidSubscriber(s)
	}
	if !ok {
		return fmt.Errorf("%w: invalid mobile number", apperr.ErrValidation)
	}
	return nil
}

// Format prefixes the Indian country code unless it is already present.
func Format(s string) string {
	if s == "" {
		return ""
	}
	if strings.HasPrefix(s, countryCode) {
		return s
	}
	return countryCode + s
}

// MatchesClaim reports whether a verified E.164 phone claim ends with the
// submitted local number.
func MatchesClaim(claim, local string) bool {
	return claim != "" && local != "" && strings.HasSuffix(claim, local)
}
