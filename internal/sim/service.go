package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rechargex/rechargex/internal/operator"
)

// Service provisions and looks up SIMs.
type Service struct {
	repo     Repository
	resolver operator.Resolver
	logger   *slog.Logger
}

// NewService builds a SIM service that tags new SIMs using resolver.
func NewService(repo Repository, resolver operator.Resolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, resolver: resolver, logger: logger}
}

// Provision makes sure userID has a primary SIM, creating one for mobile
// when none exists. Calling it repeatedly never creates a second SIM.
func (s *Service) Provision(ctx context.Context, userID, mobile string) (Sim, bool, error) {
	candidate := Sim{
		ID:           uuid.NewString(),
		UserID:       userID,
		MobileNumber: mobile,
		Operator:     s.resolver.Resolve(mobile),
		IsPrimary:    true,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	sim, created, err := s.repo.EnsurePrimary(ctx, candidate)
	if err != nil {
		return Sim{}, false, err
	}
	if created {
		s.logger.Info("primary sim provisioned",
			slog.String("user_id", userID),
			slog.String("sim_id", sim.ID),
			slog.String("operator", sim.Operator.String()),
		)
	}
	return sim, created, nil
}

// Active lists the user's active SIMs, primary first.
func (s *Service) Active(ctx context.Context, userID string) ([]Sim, error) {
	return s.repo.ListActive(ctx, userID)
}

// Primary returns the SIM flagged primary, or the first active SIM.
func (s *Service) Primary(ctx context.Context, userID string) (Sim, error) {
	sims, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return Sim{}, err
	}
	return PickPrimary(sims)
}

// Owned returns the SIM only if it belongs to userID.
func (s *Service) Owned(ctx context.Context, simID, userID string) (Sim, error) {
	return s.repo.FindOwned(ctx, simID, userID)
}

// PickPrimary selects the primary SIM from sims, falling back to the first.
func PickPrimary(sims []Sim) (Sim, error) {
	for _, s := range sims {
		if s.IsPrimary {
			return s, nil
		}
	}
	if len(sims) > 0 {
		return sims[0], nil
	}
	return Sim{}, ErrSimNotFound
}
