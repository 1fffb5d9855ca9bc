// Package client is a Go client for the RechargeX API that keeps its
// session in a session.Store, the way the web app keeps it in local storage.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rechargex/rechargex/internal/dashboard"
	"github.com/rechargex/rechargex/internal/payments"
	"github.com/rechargex/rechargex/internal/session"
	"github.com/rechargex/rechargex/internal/usage"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to the API under baseURL.
type Client struct {
	baseURL string
	store   session.Store
	timeout time.Duration
}

// New returns a client for baseURL, for example http://localhost:5002.
func New(baseURL string, store session.Store) *Client {
	if store == nil {
		store = session.NewMemoryStore()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/") + "/api", store: store, timeout: defaultTimeout}
}

// Session derives the current session from the store.
func (c *Client) Session() (session.Session, error) {
	return session.Load(c.store)
}

type authResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	User      session.User `json:"user"`
	IsNewUser bool         `json:"isNewUser"`
	Message   string       `json:"message"`
}

// PhoneLogin exchanges a phone OTP Firebase token for a session.
func (c *Client) PhoneLogin(firebaseToken, mobile string) (session.Session, error) {
	var out authResponse
	if err := c.do(fiber.MethodPost, "/auth/verify-firebase-token", fiber.Map{"firebaseToken": firebaseToken, "mobile": mobile}, &out); err != nil {
		return session.Session{}, err
	}
	return session.Save(c.store, out.Token, out.User)
}

// GoogleSignIn exchanges a Google Firebase token for a session.
func (c *Client) GoogleSignIn(firebaseToken, email, name, uid string) (session.Session, error) {
	var out authResponse
	body := fiber.Map{"firebaseToken": firebaseToken, "email": email, "name": name, "uid": uid}
	if err := c.do(fiber.MethodPost, "/auth/google-signin", body, &out); err != nil {
		return session.Session{}, err
	}
	out.User.UID = uid
	return session.Save(c.store, out.Token, out.User)
}

// CheckUser reports whether uid still has to be onboarded.
func (c *Client) CheckUser(uid, email, name string) (bool, error) {
	var out authResponse
	if err := c.do(fiber.MethodPost, "/auth/check-user", fiber.Map{"uid": uid, "email": email, "name": name}, &out); err != nil {
		return false, err
	}
	return out.IsNewUser, nil
}

// Onboard attaches mobile to the Firebase account and stores the resulting session.
func (c *Client) Onboard(uid, email, name, mobile string) (session.Session, error) {
	var out authResponse
	body := fiber.Map{"uid": uid, "email": email, "name": name, "mobileNumber": mobile}
	if err := c.do(fiber.MethodPost, "/onboarding", body, &out); err != nil {
		return session.Session{}, err
	}
	return session.Save(c.store, out.Token, out.User)
}

// UpdateMobile attaches mobile to the signed-in user.
func (c *Client) UpdateMobile(mobile string) (session.Session, error) {
	var out authResponse
	if err := c.do(fiber.MethodPost, "/users/update-mobile", fiber.Map{"mobile": mobile}, &out); err != nil {
		return session.Session{}, err
	}
	if out.Token != "" {
		if err := c.store.Set(session.TokenKey, out.Token); err != nil {
			return session.Session{}, err
		}
	}
	return session.UpdateUser(c.store, map[string]any{"mobile": out.User.Mobile})
}

// DashboardView is a dashboard. Stale marks a view assembled from the
// cached session user because the API could not be reached.
type DashboardView struct {
	dashboard.Dashboard
	Stale bool `json:"stale"`
}

// Dashboard fetches the signed-in user's dashboard, falling back to the
// cached user when the request fails.
func (c *Client) Dashboard() (DashboardView, error) {
	var out struct {
		Data dashboard.Dashboard `json:"data"`
	}
	err := c.do(fiber.MethodGet, "/dashboard", nil, &out)
	if err == nil {
		return DashboardView{Dashboard: out.Data}, nil
	}

	raw, ok := c.store.Get(session.UserKey)
	if !ok {
		return DashboardView{}, err
	}
	var cached session.User
	if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr != nil || (cached.Name == "" && cached.Email == "") {
		return DashboardView{}, err
	}
	name := cached.Name
	if name == "" {
		name = cached.Email
	}
	return DashboardView{
		Dashboard: dashboard.Dashboard{
			User:           dashboard.UserSummary{Name: name, Email: cached.Email, Mobile: cached.Mobile},
			Sims:           []dashboard.SimSummary{},
			Usage:          usage.Defaults(),
			RecentPayments: []payments.HistoryItem{},
		},
		Stale: true,
	}, nil
}

// Plan is a catalog entry as served by the API.
type Plan struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Validity string `json:"validity"`
	Operator string `json:"operator"`
	Category string `json:"category"`
	Popular  bool   `json:"popular"`
}

// Plans lists the active plans of an operator.
func (c *Client) Plans(operator string) ([]Plan, error) {
	var out struct {
		Data []Plan `json:"data"`
	}
	if err := c.do(fiber.MethodGet, "/plans/"+operator, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Receipt is the API's answer to a recharge.
type Receipt struct {
	ID            string `json:"id"`
	TransactionID string `json:"transactionId"`
	Amount        int64  `json:"amount"`
	Status        string `json:"status"`
}

// RechargeRequest is the body of a recharge call.
type RechargeRequest struct {
	SimID        string `json:"simId,omitempty"`
	PlanID       string `json:"planId,omitempty"`
	Amount       int64  `json:"amount"`
	RechargeType string `json:"rechargeType"`
	FriendMobile string `json:"friendMobile,omitempty"`
}

// Recharge records a recharge. idempotencyKey may be empty.
func (c *Client) Recharge(req RechargeRequest, idempotencyKey string) (Receipt, error) {
	var out struct {
		Payment Receipt `json:"payment"`
	}
	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}
	if err := c.doWith(fiber.MethodPost, "/payments/recharge", req, headers, &out); err != nil {
		return Receipt{}, err
	}
	return out.Payment, nil
}

// Logout clears the stored session.
func (c *Client) Logout() error {
	return session.Clear(c.store)
}

func (c *Client) do(method, path string, body, out any) error {
	return c.doWith(method, path, body, nil, out)
}

func (c *Client) doWith(method, path string, body any, headers map[string]string, out any) error {
	url := c.baseURL + path
	var agent *fiber.Agent
	switch method {
	case fiber.MethodGet:
		agent = fiber.Get(url)
	default:
		agent = fiber.Post(url)
	}
	agent.Timeout(c.timeout)
	if token, ok := c.store.Get(session.TokenKey); ok && token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for k, v := range headers {
		agent.Set(k, v)
	}
	if body != nil {
		agent.JSON(body)
	}

	status, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}
	if status == fiber.StatusUnauthorized {
		// A rejected token is dropped; the cached user is kept for offline views.
		_ = c.store.Delete(session.TokenKey)
	}
	if status < 200 || status > 299 {
		var failure struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(raw, &failure)
		return &APIError{Status: status, Message: failure.Message}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
