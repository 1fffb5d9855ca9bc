package payments

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rechargex/rechargex/internal/apperr"
	"github.com/rechargex/rechargex/internal/mobile"
	"github.com/rechargex/rechargex/internal/notification"
	"github.com/rechargex/rechargex/internal/sim"
)

const defaultRecentLimit = 5

// SimLookup checks SIM ownership.
type SimLookup interface {
	Owned(ctx context.Context, simID, userID string) (sim.Sim, error)
}

// Service records mock recharge payments.
type Service struct {
	repo      Repository
	sims      SimLookup
	gateway   Gateway
	validator mobile.Validator
	notifier  notification.Notifier
	logger    *slog.Logger
	now       func() time.Time
}

// NewService constructs a payment service.
func NewService(repo Repository, sims SimLookup, gateway Gateway, validator mobile.Validator, notifier notification.Notifier, logger *slog.Logger) *Service {
	if gateway == nil {
		gateway = StaticGateway{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		sims:      sims,
		gateway:   gateway,
		validator: validator,
		notifier:  notifier,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// RechargeInput captures a recharge request.
type RechargeInput struct {
	SimID        string
	PlanID       string
	Amount       int64
	RechargeType RechargeType
	FriendMobile string
}

// Recharge authorizes the charge and appends a payment record. A declined
// charge is still recorded, with status failed.
func (s *Service) Recharge(ctx context.Context, userID string, in RechargeInput) (Payment, error) {
	if in.Amount <= 0 {
		return Payment{}, ErrInvalidAmount
	}
	in.SimID = strings.TrimSpace(in.SimID)
	in.FriendMobile = strings.TrimSpace(in.FriendMobile)

	p := Payment{
		ID:           uuid.NewString(),
		UserID:       userID,
		PlanID:       strings.TrimSpace(in.PlanID),
		Amount:       in.Amount,
		RechargeType: in.RechargeType,
	}
	switch in.RechargeType {
	case RechargeSelf:
		if in.SimID != "" {
			owned, err := s.sims.Owned(ctx, in.SimID, userID)
			if err != nil {
				return Payment{}, err
			}
			p.SimID = owned.ID
		}
	case RechargeFriend:
		if err := s.validator.Check(in.FriendMobile); err != nil {
			return Payment{}, fmt.Errorf("%w: invalid friend mobile number", apperr.ErrValidation)
		}
		p.FriendMobile = in.FriendMobile
	default:
		return Payment{}, ErrInvalidRechargeType
	}

	now := s.now()
	p.Date = now
	p.TransactionID = "TXN" + strconv.FormatInt(now.UnixMilli(), 10)

	decision, err := s.gateway.Authorize(ctx, Authorization{UserID: userID, Amount: p.Amount, TransactionID: p.TransactionID})
	if err != nil {
		return Payment{}, fmt.Errorf("authorize recharge: %w", err)
	}
	p.Reference = decision.Reference
	p.Status = StatusSuccess
	if !decision.Approved {
		p.Status = StatusFailed
	}

	if err := s.repo.Append(ctx, p); err != nil {
		return Payment{}, err
	}

	s.logger.Info("payment recorded",
		slog.String("user_id", userID),
		slog.String("transaction_id", p.TransactionID),
		slog.Int64("amount", p.Amount),
		slog.String("status", string(p.Status)),
	)
	notification.Deliver(ctx, s.notifier, s.logger, notification.Message{
		Kind:        notification.KindRechargeRecorded,
		Destination: userID,
		Body:        fmt.Sprintf("Recharge of %d %s", p.Amount, p.Status),
		Attributes: map[string]string{
			"transactionId": p.TransactionID,
			"rechargeType":  string(p.RechargeType),
			"status":        string(p.Status),
		},
	})
	return p, nil
}

// Recent returns the user's newest payments first. A non-positive limit means five.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]Payment, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	payments, err := s.repo.Recent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []Payment{}
	}
	return payments, nil
}
