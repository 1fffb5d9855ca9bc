package payments

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rechargex/rechargex/internal/middleware"
)

const (
	defaultHistory = 20
	maxHistory     = 100
)

// Handler exposes payment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type rechargeRequest struct {
	SimID        string `json:"simId"`
	PlanID       string `json:"planId"`
	Amount       int64  `json:"amount"`
	RechargeType string `json:"rechargeType"`
	FriendMobile string `json:"friendMobile"`
}

// Recharge records a recharge for the authenticated user.
func (h *Handler) Recharge(c *fiber.Ctx) error {
	var req rechargeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	p, err := h.service.Recharge(c.UserContext(), middleware.UserID(c), RechargeInput{
		SimID:        req.SimID,
		PlanID:       req.PlanID,
		Amount:       req.Amount,
		RechargeType: RechargeType(req.RechargeType),
		FriendMobile: req.FriendMobile,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": p.Status != StatusFailed,
		"payment": fiber.Map{
			"id":            p.ID,
			"transactionId": p.TransactionID,
			"amount":        p.Amount,
			"status":        p.Status,
		},
	})
}

// HistoryItem is the list representation of a payment.
type HistoryItem struct {
	ID            string       `json:"id"`
	TransactionID string       `json:"transactionId"`
	Amount        int64        `json:"amount"`
	Date          time.Time    `json:"date"`
	Status        Status       `json:"status"`
	RechargeType  RechargeType `json:"rechargeType"`
	FriendMobile  string       `json:"friendMobile,omitempty"`
}

// Items converts payments to their list representation.
func Items(payments []Payment) []HistoryItem {
	out := make([]HistoryItem, 0, len(payments))
	for _, p := range payments {
		out = append(out, HistoryItem{
			ID:            p.ID,
			TransactionID: p.TransactionID,
			Amount:        p.Amount,
			Date:          p.Date,
			Status:        p.Status,
			RechargeType:  p.RechargeType,
			FriendMobile:  p.FriendMobile,
		})
	}
	return out
}

// History lists the authenticated user's payments, newest first.
func (h *Handler) History(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultHistory)
	switch {
	case limit < 1:
		limit = defaultHistory
	case limit > maxHistory:
		limit = maxHistory
	}
	payments, err := h.service.Recent(c.UserContext(), middleware.UserID(c), limit)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "transactions": Items(payments)})
}
