package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rechargex/rechargex/internal/apperr"
)

// Key selects the natural key a sign-in route looks users up by.
type Key int

const (
	ByMobile Key = iota
	ByEmail
	ByFirebaseUID
)

func (k Key) String() string {
	switch k {
	case ByMobile:
		return "mobile"
	case ByEmail:
		return "email"
	case ByFirebaseUID:
		return "firebase_uid"
	default:
		return "unknown"
	}
}

// Service manages the user lifecycle.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new identity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Get loads a user by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.FindByID(ctx, id)
}

// FindByFirebaseUID loads a user by Firebase account id.
func (s *Service) FindByFirebaseUID(ctx context.Context, uid string) (User, error) {
	if uid == "" {
		return User{}, fmt.Errorf("%w: Firebase UID is required", apperr.ErrValidation)
	}
	return s.repo.FindByFirebaseUID(ctx, uid)
}

// Reconcile finds the user owning the claim's value for key, creating one
// when none exists. An existing user only gains fields it is missing.
// The boolean result reports whether a new user was created.
func (s *Service) Reconcile(ctx context.Context, key Key, claim Claim) (User, bool, error) {
	claim = claim.normalized()

	user, err := s.lookup(ctx, key, claim)
	switch {
	case err == nil:
		updated, err := s.backfill(ctx, user, claim)
		return updated, false, err
	case !errors.Is(err, ErrUserNotFound):
		return User{}, false, err
	}

	now := s.now()
	user = User{
		ID:          uuid.NewString(),
		Mobile:      claim.Mobile,
		Email:       claim.Email,
		Name:        claim.Name,
		FirebaseUID: claim.FirebaseUID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := user.Validate(); err != nil {
		return User{}, false, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if !errors.Is(err, ErrUserExists) {
			return User{}, false, err
		}
		// Lost a create race on the natural key; adopt the winner.
		existing, lookupErr := s.lookup(ctx, key, claim)
		if lookupErr != nil {
			return User{}, false, err
		}
		updated, err := s.backfill(ctx, existing, claim)
		return updated, false, err
	}

	s.logger.Info("user created", slog.String("user_id", user.ID), slog.String("key", key.String()))
	return user, true, nil
}

// AttachMobile links mobile to the user. Re-attaching the same number is a
// no-op; replacing a different number or taking another user's number is a conflict.
func (s *Service) AttachMobile(ctx context.Context, userID, mobile string) (User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if user.Mobile == mobile {
		return user, nil
	}
	if user.Mobile != "" {
		return User{}, fmt.Errorf("%w: a different mobile number is already linked", apperr.ErrConflict)
	}
	if other, err := s.repo.FindByMobile(ctx, mobile); err == nil && other.ID != user.ID {
		return User{}, fmt.Errorf("%w: mobile number already registered", apperr.ErrConflict)
	} else if err != nil && !errors.Is(err, ErrUserNotFound) {
		return User{}, err
	}

	user.Mobile = mobile
	user.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	s.logger.Info("user mobile attached", slog.String("user_id", user.ID))
	return user, nil
}

func (s *Service) lookup(ctx context.Context, key Key, claim Claim) (User, error) {
	switch key {
	case ByMobile:
		if claim.Mobile == "" {
			return User{}, fmt.Errorf("%w: mobile number is required", apperr.ErrValidation)
		}
		return s.repo.FindByMobile(ctx, claim.Mobile)
	case ByEmail:
		if claim.Email == "" {
			return User{}, fmt.Errorf("%w: Email is required", apperr.ErrValidation)
		}
		return s.repo.FindByEmail(ctx, claim.Email)
	case ByFirebaseUID:
		if claim.FirebaseUID == "" {
			return User{}, fmt.Errorf("%w: Firebase UID is required", apperr.ErrValidation)
		}
		return s.repo.FindByFirebaseUID(ctx, claim.FirebaseUID)
	default:
		return User{}, fmt.Errorf("unsupported lookup key %d", key)
	}
}

func (s *Service) backfill(ctx context.Context, user User, claim Claim) (User, error) {
	if !backfill(&user, claim) {
		return user, nil
	}
	user.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}
