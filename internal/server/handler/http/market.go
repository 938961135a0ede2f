package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"cardlink/internal/middleware"
	"cardlink/internal/models"
)

// MarketService defines the interface for marketplace operations required
// by the MarketHandler.
type MarketService interface {
	// Templates returns the marketplace catalog.
	Templates() []models.Template
	// TemplateByID looks up a catalog template.
	TemplateByID(id string) (models.Template, bool)
	// OwnedTemplateIDs returns the ids the user owns.
	OwnedTemplateIDs(ctx context.Context, userID string) ([]string, error)
	// Purchase buys a template and returns the new balance.
	Purchase(ctx context.Context, userID string, tpl models.Template) (float64, error)
	// ChangePlan switches the user's plan tier.
	ChangePlan(ctx context.Context, userID string, plan models.Plan) error
}

// MarketHandler handles HTTP requests for the template marketplace.
type MarketHandler struct {
	MarketService MarketService
}

// Templates handles GET /api/templates, returning the catalog together
// with the authenticated user's owned ids.
func (h *MarketHandler) Templates(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	owned, err := h.MarketService.OwnedTemplateIDs(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if owned == nil {
		owned = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"templates": h.MarketService.Templates(),
		"owned":     owned,
	})
}

// Purchase handles POST /api/templates/{id}/purchase.
func (h *MarketHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	tpl, ok := h.MarketService.TemplateByID(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "template not found", http.StatusNotFound)
		return
	}

	balance, err := h.MarketService.Purchase(r.Context(), userID, tpl)
	switch {
	case errors.Is(err, models.ErrAlreadyOwned):
		http.Error(w, "template already owned", http.StatusConflict)
		return
	case errors.Is(err, models.ErrInsufficientBalance):
		http.Error(w, "insufficient balance", http.StatusPaymentRequired)
		return
	case errors.Is(err, models.ErrPaymentDeclined):
		http.Error(w, "payment declined", http.StatusBadGateway)
		return
	case err != nil:
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"templateId": tpl.ID,
		"balance":    balance,
	})
}

// ChangePlanRequest is the JSON payload for POST /api/plan.
type ChangePlanRequest struct {
	Plan models.Plan `json:"plan"`
}

// ChangePlan handles POST /api/plan.
func (h *MarketHandler) ChangePlan(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var req ChangePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if !req.Plan.Valid() {
		http.Error(w, "unknown plan", http.StatusBadRequest)
		return
	}

	err := h.MarketService.ChangePlan(r.Context(), userID, req.Plan)
	if errors.Is(err, models.ErrPaymentDeclined) {
		http.Error(w, "payment declined", http.StatusBadGateway)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "plan": string(req.Plan)})
}
