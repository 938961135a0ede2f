// Package api is the HTTP client the CLI uses to talk to the cardlink
// server. Expected absences (an unknown card, a dangling reference) come
// back as nil results; only transport and server failures are errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"cardlink/internal/models"
)

// Client talks to a cardlink server over HTTP. Token, once set, is sent as
// a bearer token on every request.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Token   string
}

// New returns a Client for the given base URL.
func New(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: &http.Client{}}
}

// Session is the token and account returned by register and login.
type Session struct {
	Token   string         `json:"token"`
	Account models.Account `json:"account"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return 0, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, &buf)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices && out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// statusErr turns an unexpected status into an error.
func statusErr(method, path string, code int) error {
	return fmt.Errorf("%s %s: unexpected status %d", method, path, code)
}

// Register creates an account and stores the session token on the client.
func (c *Client) Register(ctx context.Context, email, password, username string) (*models.Account, error) {
	var sess Session
	code, err := c.do(ctx, http.MethodPost, "/api/register",
		map[string]string{"email": email, "password": password, "username": username}, &sess)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, statusErr("POST", "/api/register", code)
	}
	c.Token = sess.Token
	return &sess.Account, nil
}

// Login signs in and stores the session token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Account, error) {
	var sess Session
	code, err := c.do(ctx, http.MethodPost, "/api/login",
		map[string]string{"email": email, "password": password}, &sess)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, statusErr("POST", "/api/login", code)
	}
	c.Token = sess.Token
	return &sess.Account, nil
}

// Logout ends the session and clears the stored token.
func (c *Client) Logout(ctx context.Context) error {
	code, err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return statusErr("POST", "/api/logout", code)
	}
	c.Token = ""
	return nil
}

// Account fetches the authenticated user's account.
func (c *Client) Account(ctx context.Context) (*models.Account, error) {
	var acc models.Account
	code, err := c.do(ctx, http.MethodGet, "/api/account", nil, &acc)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, statusErr("GET", "/api/account", code)
	}
	return &acc, nil
}

// OwnCards fetches the user's cards in list order.
func (c *Client) OwnCards(ctx context.Context) ([]models.Card, error) {
	var out struct {
		Cards []models.Card `json:"cards"`
	}
	code, err := c.do(ctx, http.MethodGet, "/api/cards", nil, &out)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, statusErr("GET", "/api/cards", code)
	}
	return out.Cards, nil
}

// SaveCard persists a card and returns it with its owner index set.
func (c *Client) SaveCard(ctx context.Context, card models.Card) (models.Card, error) {
	var saved models.Card
	code, err := c.do(ctx, http.MethodPost, "/api/cards", card, &saved)
	if err != nil {
		return models.Card{}, err
	}
	if code != http.StatusOK {
		return models.Card{}, statusErr("POST", "/api/cards", code)
	}
	return saved, nil
}

// RemoveCard deletes the card at index.
func (c *Client) RemoveCard(ctx context.Context, index int) error {
	path := fmt.Sprintf("/api/cards/%d", index)
	code, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return statusErr("DELETE", path, code)
	}
	return nil
}

// ResolveCard dereferences a share-link reference. A dangling reference
// returns (nil, nil).
func (c *Client) ResolveCard(ctx context.Context, ownerID string, index int) (*models.Card, error) {
	path := fmt.Sprintf("/api/users/%s/cards/%d", ownerID, index)
	var card models.Card
	code, err := c.do(ctx, http.MethodGet, path, nil, &card)
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound {
		return nil, nil
	}
	if code != http.StatusOK {
		return nil, statusErr("GET", path, code)
	}
	return &card, nil
}

// SavedRefs fetches the user's bookmarked references.
func (c *Client) SavedRefs(ctx context.Context) ([]models.SavedCardRef, error) {
	var out struct {
		SavedCards []models.SavedCardRef `json:"savedCards"`
	}
	code, err := c.do(ctx, http.MethodGet, "/api/saved", nil, &out)
	if err != nil {
		return nil, err
	}
	if code != http.StatusOK {
		return nil, statusErr("GET", "/api/saved", code)
	}
	return out.SavedCards, nil
}

// AddSavedRef bookmarks a reference.
func (c *Client) AddSavedRef(ctx context.Context, ref models.SavedCardRef) error {
	code, err := c.do(ctx, http.MethodPost, "/api/saved", ref, nil)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return statusErr("POST", "/api/saved", code)
	}
	return nil
}

// RemoveSavedRef deletes the bookmarked reference at index.
func (c *Client) RemoveSavedRef(ctx context.Context, index int) error {
	path := fmt.Sprintf("/api/saved/%d", index)
	code, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return statusErr("DELETE", path, code)
	}
	return nil
}

// Templates fetches the marketplace catalog and the user's owned ids.
func (c *Client) Templates(ctx context.Context) ([]models.Template, []string, error) {
	var out struct {
		Templates []models.Template `json:"templates"`
		Owned     []string          `json:"owned"`
	}
	code, err := c.do(ctx, http.MethodGet, "/api/templates", nil, &out)
	if err != nil {
		return nil, nil, err
	}
	if code != http.StatusOK {
		return nil, nil, statusErr("GET", "/api/templates", code)
	}
	return out.Templates, out.Owned, nil
}

// Purchase buys a template and returns the new balance.
func (c *Client) Purchase(ctx context.Context, templateID string) (float64, error) {
	path := fmt.Sprintf("/api/templates/%s/purchase", templateID)
	var out struct {
		Balance float64 `json:"balance"`
	}
	code, err := c.do(ctx, http.MethodPost, path, nil, &out)
	if err != nil {
		return 0, err
	}
	switch code {
	case http.StatusOK:
		return out.Balance, nil
	case http.StatusConflict:
		return 0, models.ErrAlreadyOwned
	case http.StatusPaymentRequired:
		return 0, models.ErrInsufficientBalance
	case http.StatusBadGateway:
		return 0, models.ErrPaymentDeclined
	default:
		return 0, statusErr("POST", path, code)
	}
}

// ChangePlan switches the account's plan tier.
func (c *Client) ChangePlan(ctx context.Context, plan models.Plan) error {
	code, err := c.do(ctx, http.MethodPost, "/api/plan", map[string]string{"plan": string(plan)}, nil)
	if err != nil {
		return err
	}
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusBadGateway:
		return models.ErrPaymentDeclined
	default:
		return statusErr("POST", "/api/plan", code)
	}
}
