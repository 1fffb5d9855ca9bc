package plans

import (
	"fmt"
	"time"

	"github.com/rechargex/rechargex/internal/apperr"
	"github.com/rechargex/rechargex/internal/operator"
)

// Category groups plans in the catalog UI.
type Category string

const (
	CategoryPopular   Category = "Popular"
	CategoryData      Category = "Data"
	CategoryUnlimited Category = "Unlimited"
	CategoryValidity  Category = "Validity"
)

// ErrInvalidCategory is returned for a category outside the catalog set.
var ErrInvalidCategory = fmt.Errorf("%w: invalid plan category", apperr.ErrValidation)

// Benefits describes what a plan includes.
type Benefits struct {
	Data  string `json:"data"`
	Calls string `json:"calls"`
	SMS   string `json:"sms"`
}

// Plan is a purchasable recharge pack for one operator.
type Plan struct {
	ID        string            `json:"id"`
	Operator  operator.Operator `json:"operator"`
	Name      string            `json:"name"`
	Price     int64             `json:"price"`
	Validity  string            `json:"validity"`
	Benefits  Benefits          `json:"benefits"`
	Category  Category          `json:"category"`
	Popular   bool              `json:"popular"`
	IsActive  bool              `json:"isActive"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Validate checks the fields the store requires.
func (p Plan) Validate() error {
	if _, err := operator.Parse(string(p.Operator)); err != nil {
		return err
	}
	if p.Name == "" || p.Validity == "" {
		return fmt.Errorf("%w: plan name and validity are required", apperr.ErrValidation)
	}
	if p.Price <= 0 {
		return fmt.Errorf("%w: plan price must be positive", apperr.ErrValidation)
	}
	switch p.Category {
	case CategoryPopular, CategoryData, CategoryUnlimited, CategoryValidity:
		return nil
	default:
		return ErrInvalidCategory
	}
}
