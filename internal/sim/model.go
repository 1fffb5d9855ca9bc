package sim

import (
	"fmt"
	"time"

	"github.com/rechargex/rechargex/internal/apperr"
	"github.com/rechargex/rechargex/internal/operator"
)

// ErrSimNotFound is returned when a user has no matching SIM.
var ErrSimNotFound = fmt.Errorf("SIM %w", apperr.ErrNotFound)

// Sim is a mobile connection owned by exactly one user.
type Sim struct {
	ID           string
	UserID       string
	MobileNumber string
	Operator     operator.Operator
	IsPrimary    bool
	IsActive     bool
	CreatedAt    time.Time
}
