package mobile

import (
	"errors"
	"testing"

	"github.com/rechargex/rechargex/internal/apperr"
)

func TestValidAcceptsAnyTenDigits(t *testing.T) {
	for _, s := range []string{"9876543210", "0123456789", "5000000000"} {
		if !Valid(s) {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	for _, s := range []string{"", "987654321", "98765432100", "98765x3210", "+919876543210"} {
		if Valid(s) {
			t.Fatalf("expected %s to be rejected", s)
		}
	}
}

func TestValidSubscriberRequiresLeadingSixToNine(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		s := string(d) + "123456789"
		want := d >= '6'
		if got := ValidSubscriber(s); got != want {
			t.Fatalf("ValidSubscriber(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestValidatorCheck(t *testing.T) {
	loose := Validator{}
	strict := Validator{Strict: true}

	if err := loose.Check("1234567890"); err != nil {
		t.Fatalf("loose check: %v", err)
	}
	if err := strict.Check("1234567890"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := strict.Check("9876543210"); err != nil {
		t.Fatalf("strict check: %v", err)
	}
}

func TestFormat(t *testing.T) {
	if got := Format("9876543210"); got != "+919876543210" {
		t.Fatalf("unexpected %s", got)
	}
	if got := Format("+919876543210"); got != "+919876543210" {
		t.Fatalf("unexpected %s", got)
	}
	if got := Format(""); got != "" {
		t.Fatalf("expected empty, got %s", got)
	}
}

func TestMatchesClaim(t *testing.T) {
	if !MatchesClaim("+919876543210", "9876543210") {
		t.Fatal("expected claim to match")
	}
	if MatchesClaim("+919876543211", "9876543210") {
		t.Fatal("expected mismatch")
	}
	if MatchesClaim("", "9876543210") {
		t.Fatal("empty claim must not match")
	}
}
