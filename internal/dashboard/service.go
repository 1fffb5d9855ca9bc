// Package dashboard aggregates a user's SIMs, usage and payments.
package dashboard

import (
	"context"
	"errors"

	"github.com/rechargex/rechargex/internal/identity"
	"github.com/rechargex/rechargex/internal/payments"
	"github.com/rechargex/rechargex/internal/sim"
	"github.com/rechargex/rechargex/internal/usage"
)

const recentPayments = 5

// UserSummary is the profile block of the dashboard.
type UserSummary struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Mobile string `json:"mobile"`
}

// SimSummary describes one SIM on the dashboard.
type SimSummary struct {
	ID           string `json:"id"`
	MobileNumber string `json:"mobileNumber"`
	Operator     string `json:"operator"`
	IsPrimary    bool   `json:"isPrimary"`
}

// CurrentPlan is the plan active on the primary SIM.
type CurrentPlan struct {
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Validity string `json:"validity"`
}

// Dashboard is the aggregated view for one user.
type Dashboard struct {
	User           UserSummary            `json:"user"`
	Sims           []SimSummary           `json:"sims"`
	CurrentPlan    *CurrentPlan           `json:"currentPlan"`
	Usage          usage.Stats            `json:"usage"`
	RecentPayments []payments.HistoryItem `json:"recentPayments"`
}

// Service builds dashboards.
type Service struct {
	users    *identity.Service
	sims     *sim.Service
	usage    *usage.Service
	payments *payments.Service
}

func NewService(users *identity.Service, sims *sim.Service, usage *usage.Service, payments *payments.Service) *Service {
	return &Service{users: users, sims: sims, usage: usage, payments: payments}
}

// ForUser builds the dashboard for a user id.
func (s *Service) ForUser(ctx context.Context, userID string) (Dashboard, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}
	return s.build(ctx, user)
}

// ForUID builds the dashboard for a Firebase account id.
func (s *Service) ForUID(ctx context.Context, uid string) (Dashboard, error) {
	user, err := s.users.FindByFirebaseUID(ctx, uid)
	if err != nil {
		return Dashboard{}, err
	}
	return s.build(ctx, user)
}

// PrimarySim returns the user's primary SIM, or the first active one.
func (s *Service) PrimarySim(ctx context.Context, userID string) (sim.Sim, error) {
	return s.sims.Primary(ctx, userID)
}

func (s *Service) build(ctx context.Context, user identity.User) (Dashboard, error) {
	sims, err := s.sims.Active(ctx, user.ID)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		User:  UserSummary{Name: user.Name, Email: user.Email, Mobile: user.Mobile},
		Sims:  make([]SimSummary, 0, len(sims)),
		Usage: usage.Defaults(),
	}
	for _, sm := range sims {
		d.Sims = append(d.Sims, SimSummary{
			ID:           sm.ID,
			MobileNumber: sm.MobileNumber,
			Operator:     sm.Operator.String(),
			IsPrimary:    sm.IsPrimary,
		})
	}

	primary, err := sim.PickPrimary(sims)
	switch {
	case err == nil:
		if d.User.Mobile == "" {
			d.User.Mobile = primary.MobileNumber
		}
		if d.Usage, err = s.usage.ForSim(ctx, user.ID, primary.ID); err != nil {
			return Dashboard{}, err
		}
	case !errors.Is(err, sim.ErrSimNotFound):
		return Dashboard{}, err
	}

	recent, err := s.payments.Recent(ctx, user.ID, recentPayments)
	if err != nil {
		return Dashboard{}, err
	}
	d.RecentPayments = payments.Items(recent)
	return d, nil
}
