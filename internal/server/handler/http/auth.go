// Package http provides HTTP handlers for accounts, cards and the
// template marketplace.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"cardlink/internal/middleware"
	"cardlink/internal/models"
)

// AuthService defines the interface for account operations required by the
// HTTP handlers.
type AuthService interface {
	// SignUp registers a new account and opens a session.
	SignUp(ctx context.Context, email, password, username string) (*models.Account, string, error)
	// SignIn verifies credentials and opens a session.
	SignIn(ctx context.Context, email, password string) (*models.Account, string, error)
	// SignOut ends the session for the token.
	SignOut(ctx context.Context, token string) error
	// Account fetches the account for a user id, or (nil, nil).
	Account(ctx context.Context, userID string) (*models.Account, error)
}

// AuthHandler handles HTTP requests for registration, login and logout.
type AuthHandler struct {
	// AuthService performs the underlying account operations.
	AuthService AuthService
}

// CredentialsRequest represents the JSON payload for registration and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
}

// sessionResponse is the JSON body returned after a successful sign-up or
// sign-in.
type sessionResponse struct {
	Token   string         `json:"token"`
	Account models.Account `json:"account"`
}

// Register handles POST /api/register.
// It expects a JSON body with non-empty "email" and "password" fields.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	acc, token, err := h.AuthService.SignUp(r.Context(), req.Email, req.Password, req.Username)
	if errors.Is(err, models.ErrEmailTaken) {
		http.Error(w, "email already registered", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sessionResponse{Token: token, Account: *acc})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}

	acc, token, err := h.AuthService.SignIn(r.Context(), req.Email, req.Password)
	if errors.Is(err, models.ErrInvalidCredentials) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sessionResponse{Token: token, Account: *acc})
}

// Logout handles POST /api/logout. It ends the session of the presented
// bearer token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if token == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}
	if err := h.AuthService.SignOut(r.Context(), token); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Me handles GET /api/account, returning the authenticated user's account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	acc, err := h.AuthService.Account(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if acc == nil {
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(acc)
}
