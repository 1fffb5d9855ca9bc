package payments

import (
	"context"

	"github.com/google/uuid"
)

// Gateway represents a connector to an external payment processor.
type Gateway interface {
	Authorize(ctx context.Context, input Authorization) (Decision, error)
}

// Authorization carries what the processor needs to approve a charge.
type Authorization struct {
	UserID        string
	Amount        int64
	TransactionID string
}

// Decision captures the simulated response from the processor.
type Decision struct {
	Reference string
	Approved  bool
}

// StaticGateway simulates a processor. It approves every charge up to
// DeclineAbove; a zero limit approves everything.
type StaticGateway struct {
	DeclineAbove int64
}

// Authorize approves or declines the charge with a synthetic reference.
func (g StaticGateway) Authorize(_ context.Context, input Authorization) (Decision, error) {
	approved := g.DeclineAbove <= 0 || input.Amount <= g.DeclineAbove
	return Decision{Reference: uuid.NewString(), Approved: approved}, nil
}
