// Package onboarding reconciles verified Firebase identities with stored
// users and makes sure every user with a mobile number has a primary SIM.
package onboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rechargex/rechargex/internal/apperr"
	"github.com/rechargex/rechargex/internal/firebase"
	"github.com/rechargex/rechargex/internal/identity"
	"github.com/rechargex/rechargex/internal/mobile"
	"github.com/rechargex/rechargex/internal/notification"
	"github.com/rechargex/rechargex/internal/sim"
)

var (
	// ErrPhoneMismatch is returned when the verified phone claim does not end with the submitted number.
	ErrPhoneMismatch = fmt.Errorf("%w: Phone number mismatch", apperr.ErrMismatch)
	// ErrUIDMismatch is returned when the verified token belongs to a different Firebase account.
	ErrUIDMismatch = fmt.Errorf("%w: UID mismatch", apperr.ErrMismatch)
	// ErrEmailMismatch is returned when the verified token carries a different email.
	ErrEmailMismatch = fmt.Errorf("%w: Email mismatch", apperr.ErrMismatch)
	// ErrMobileLinked is returned when onboarding names a number other than the one already linked.
	ErrMobileLinked = fmt.Errorf("%w: a different mobile number is already linked", apperr.ErrConflict)
)

// TokenIssuer signs session tokens for users.
type TokenIssuer interface {
	Issue(user identity.User) (string, error)
}

// Deps groups the collaborators of Service.
type Deps struct {
	Validator mobile.Validator
	Verifier  firebase.Verifier
	Users     *identity.Service
	Sims      *sim.Service
	Tokens    TokenIssuer
	Notifier  notification.Notifier
	Logger    *slog.Logger
}

// Service runs the sign-in and onboarding flows.
type Service struct {
	validator mobile.Validator
	verifier  firebase.Verifier
	users     *identity.Service
	sims      *sim.Service
	tokens    TokenIssuer
	notifier  notification.Notifier
	logger    *slog.Logger
}

func NewService(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		validator: d.Validator,
		verifier:  d.Verifier,
		users:     d.Users,
		sims:      d.Sims,
		tokens:    d.Tokens,
		notifier:  d.Notifier,
		logger:    logger,
	}
}

// Result is the outcome of a flow that ends with a signed-in user.
type Result struct {
	User    identity.User
	Sim     *sim.Sim
	Token   string
	Created bool
}

// CheckResult reports whether a Firebase account is already known.
type CheckResult struct {
	IsNewUser bool
	User      identity.User
	Input     identity.Claim
}

// PhoneLogin signs in with a verified phone OTP token.
func (s *Service) PhoneLogin(ctx context.Context, firebaseToken, mobileNumber string) (Result, error) {
	if strings.TrimSpace(firebaseToken) == "" {
		return Result{}, fmt.Errorf("%w: Firebase token is required", apperr.ErrValidation)
	}
	mobileNumber = strings.TrimSpace(mobileNumber)
	if err := s.validator.Check(mobileNumber); err != nil {
		return Result{}, err
	}
	claims, err := s.verifier.Verify(ctx, firebaseToken)
	if err != nil {
		return Result{}, err
	}
	if !mobile.MatchesClaim(claims.PhoneNumber, mobileNumber) {
		return Result{}, ErrPhoneMismatch
	}

	user, created, err := s.users.Reconcile(ctx, identity.ByMobile, identity.Claim{
		Mobile:      mobileNumber,
		FirebaseUID: claims.UID,
	})
	if err != nil {
		return Result{}, err
	}
	return s.finish(ctx, user, created)
}

// GoogleSignIn signs in with a verified Google token, keyed by email.
func (s *Service) GoogleSignIn(ctx context.Context, firebaseToken, email, name, uid string) (Result, error) {
	if strings.TrimSpace(firebaseToken) == "" {
		return Result{}, fmt.Errorf("%w: Firebase token is required", apperr.ErrValidation)
	}
	if strings.TrimSpace(email) == "" {
		return Result{}, fmt.Errorf("%w: Email is required", apperr.ErrValidation)
	}
	claims, err := s.verifier.Verify(ctx, firebaseToken)
	if err != nil {
		return Result{}, err
	}
	if claims.UID != strings.TrimSpace(uid) {
		return Result{}, ErrUIDMismatch
	}
	if claims.Email != "" && identity.NormalizeEmail(claims.Email) != identity.NormalizeEmail(email) {
		return Result{}, ErrEmailMismatch
	}

	user, created, err := s.users.Reconcile(ctx, identity.ByEmail, identity.Claim{
		Email:       email,
		Name:        name,
		FirebaseUID: claims.UID,
	})
	if err != nil {
		return Result{}, err
	}
	return s.finish(ctx, user, created)
}

// CheckUser looks a Firebase account up without changing anything.
func (s *Service) CheckUser(ctx context.Context, uid, email, name string) (CheckResult, error) {
	uid = strings.TrimSpace(uid)
	user, err := s.users.FindByFirebaseUID(ctx, uid)
	switch {
	case err == nil:
		return CheckResult{User: user}, nil
	case errors.Is(err, apperr.ErrNotFound):
		return CheckResult{IsNewUser: true, Input: identity.Claim{FirebaseUID: uid, Email: email, Name: name}}, nil
	default:
		return CheckResult{}, err
	}
}

// OnboardInput carries the onboarding form.
type OnboardInput struct {
	UID          string
	Email        string
	Name         string
	MobileNumber string
}

// Onboard creates the user for a Firebase account, or completes an existing
// one, and provisions its primary SIM. Repeating the call is harmless.
func (s *Service) Onboard(ctx context.Context, in OnboardInput) (Result, error) {
	in.UID = strings.TrimSpace(in.UID)
	in.MobileNumber = strings.TrimSpace(in.MobileNumber)
	if in.UID == "" || strings.TrimSpace(in.Email) == "" || in.MobileNumber == "" {
		return Result{}, fmt.Errorf("%w: UID, email, and mobile number are required", apperr.ErrValidation)
	}
	if err := s.validator.Check(in.MobileNumber); err != nil {
		return Result{}, err
	}

	// A different linked number is rejected before anything is backfilled.
	existing, err := s.users.FindByFirebaseUID(ctx, in.UID)
	switch {
	case err == nil:
		if existing.Mobile != "" && existing.Mobile != in.MobileNumber {
			return Result{}, ErrMobileLinked
		}
	case !errors.Is(err, apperr.ErrNotFound):
		return Result{}, err
	}

	user, created, err := s.users.Reconcile(ctx, identity.ByFirebaseUID, identity.Claim{
		FirebaseUID: in.UID,
		Email:       in.Email,
		Name:        in.Name,
		Mobile:      in.MobileNumber,
	})
	if err != nil {
		return Result{}, err
	}
	if user.Mobile != in.MobileNumber {
		return Result{}, ErrMobileLinked
	}
	return s.finish(ctx, user, created)
}

// AttachMobile links a mobile number to a signed-in user.
func (s *Service) AttachMobile(ctx context.Context, userID, mobileNumber string) (Result, error) {
	mobileNumber = strings.TrimSpace(mobileNumber)
	if err := s.validator.Check(mobileNumber); err != nil {
		return Result{}, err
	}
	user, err := s.users.AttachMobile(ctx, userID, mobileNumber)
	if err != nil {
		return Result{}, err
	}
	return s.finish(ctx, user, false)
}

// finish provisions the primary SIM when the user has a mobile number and
// signs a fresh session token.
func (s *Service) finish(ctx context.Context, user identity.User, created bool) (Result, error) {
	res := Result{User: user, Created: created}
	if user.Mobile != "" {
		provisioned, _, err := s.sims.Provision(ctx, user.ID, user.Mobile)
		if err != nil {
			return Result{}, err
		}
		res.Sim = &provisioned
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return Result{}, err
	}
	res.Token = token

	if created {
		notification.Deliver(ctx, s.notifier, s.logger, notification.Message{
			Kind:        notification.KindUserOnboarded,
			Destination: user.ID,
			Body:        "welcome to RechargeX",
			Attributes:  map[string]string{"mobile": user.Mobile, "email": user.Email},
		})
	}
	return res, nil
}
