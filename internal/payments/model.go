package payments

import (
	"fmt"
	"time"

	"github.com/rechargex/rechargex/internal/apperr"
)

// RechargeType says whose number a recharge tops up.
type RechargeType string

const (
	RechargeSelf   RechargeType = "self"
	RechargeFriend RechargeType = "friend"
)

// Status of a recorded payment.
type Status string

const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

var (
	// ErrInvalidAmount is returned for non-positive amounts.
	ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", apperr.ErrValidation)
	// ErrInvalidRechargeType is returned for a type other than self or friend.
	ErrInvalidRechargeType = fmt.Errorf("%w: rechargeType must be self or friend", apperr.ErrValidation)
)

// Payment is an append-only record of a recharge attempt.
type Payment struct {
	ID            string
	UserID        string
	SimID         string
	PlanID        string
	Amount        int64
	RechargeType  RechargeType
	FriendMobile  string
	Status        Status
	TransactionID string
	Reference     string
	Date          time.Time
}
