package onboarding

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/rechargex/rechargex/internal/identity"
	"github.com/rechargex/rechargex/internal/middleware"
)

// Handler exposes the sign-in and onboarding endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an onboarding handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type userView struct {
	UID    string `json:"uid,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Mobile string `json:"mobile,omitempty"`
}

func viewOf(u identity.User) userView {
	return userView{UID: u.FirebaseUID, Email: u.Email, Name: u.Name, Mobile: u.Mobile}
}

func badBody() error {
	return fiber.NewError(http.StatusBadRequest, "invalid request body")
}

// VerifyFirebaseToken handles phone OTP sign-in.
func (h *Handler) VerifyFirebaseToken(c *fiber.Ctx) error {
	var req struct {
		FirebaseToken string `json:"firebaseToken"`
		Mobile        string `json:"mobile"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}
	res, err := h.service.PhoneLogin(c.UserContext(), req.FirebaseToken, req.Mobile)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"token":   res.Token,
		"user":    fiber.Map{"mobile": res.User.Mobile},
	})
}

// GoogleSignIn handles Google sign-in.
func (h *Handler) GoogleSignIn(c *fiber.Ctx) error {
	var req struct {
		FirebaseToken string `json:"firebaseToken"`
		Email         string `json:"email"`
		Name          string `json:"name"`
		UID           string `json:"uid"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}
	res, err := h.service.GoogleSignIn(c.UserContext(), req.FirebaseToken, req.Email, req.Name, req.UID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"token":   res.Token,
		"user": fiber.Map{
			"email":  res.User.Email,
			"name":   res.User.Name,
			"mobile": res.User.Mobile,
		},
	})
}

// CheckUser reports whether a Firebase account has been onboarded.
func (h *Handler) CheckUser(c *fiber.Ctx) error {
	var req struct {
		UID   string `json:"uid"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}
	res, err := h.service.CheckUser(c.UserContext(), req.UID, req.Email, req.Name)
	if err != nil {
		return err
	}
	if res.IsNewUser {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"success":   true,
			"isNewUser": true,
			"userData": userView{
				UID:   res.Input.FirebaseUID,
				Email: res.Input.Email,
				Name:  res.Input.Name,
			},
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":   true,
		"isNewUser": false,
		"user":      viewOf(res.User),
	})
}

// Onboard attaches a mobile number and primary SIM to a Firebase account.
func (h *Handler) Onboard(c *fiber.Ctx) error {
	var req struct {
		UID          string `json:"uid"`
		Email        string `json:"email"`
		Name         string `json:"name"`
		MobileNumber string `json:"mobileNumber"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}
	res, err := h.service.Onboard(c.UserContext(), OnboardInput{
		UID:          req.UID,
		Email:        req.Email,
		Name:         req.Name,
		MobileNumber: req.MobileNumber,
	})
	if err != nil {
		return err
	}
	status, message := http.StatusOK, "User already onboarded"
	if res.Created {
		status, message = http.StatusCreated, "User onboarded successfully"
	}
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"token":   res.Token,
		"user":    viewOf(res.User),
	})
}

// UpdateMobile links a mobile number to the authenticated user.
func (h *Handler) UpdateMobile(c *fiber.Ctx) error {
	var req struct {
		Mobile string `json:"mobile"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badBody()
	}
	res, err := h.service.AttachMobile(c.UserContext(), middleware.UserID(c), req.Mobile)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"token":   res.Token,
		"user": fiber.Map{
			"email":  res.User.Email,
			"name":   res.User.Name,
			"mobile": res.User.Mobile,
		},
	})
}
