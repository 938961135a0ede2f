package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cardlink/internal/middleware"
	"cardlink/internal/models"
)

// CardGateway defines the interface for card persistence operations
// required by the CardsHandler.
type CardGateway interface {
	// FetchOwnCards returns the user's cards in list order.
	FetchOwnCards(ctx context.Context, userID string) ([]models.Card, error)
	// SaveCard appends or overwrites a card and returns it with its index.
	SaveCard(ctx context.Context, userID string, card models.Card) (models.Card, error)
	// FetchSingleCard resolves (ownerID, index), (nil, nil) when absent.
	FetchSingleCard(ctx context.Context, ownerID string, index int) (*models.Card, error)
	// RemoveOwnCard deletes the card at index.
	RemoveOwnCard(ctx context.Context, userID string, index int) error
	// ListSavedRefs returns the user's bookmarked references.
	ListSavedRefs(ctx context.Context, userID string) ([]models.SavedCardRef, error)
	// AddSavedRef appends a bookmarked reference.
	AddSavedRef(ctx context.Context, userID string, ref models.SavedCardRef) error
	// RemoveSavedRef deletes the bookmarked reference at index.
	RemoveSavedRef(ctx context.Context, userID string, index int) error
}

// CardsHandler handles HTTP requests for card persistence and saved
// references.
type CardsHandler struct {
	Gateway CardGateway
}

// List handles GET /api/cards.
func (h *CardsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	cards, err := h.Gateway.FetchOwnCards(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"cards": cards})
}

// Save handles POST /api/cards. The body is a full card; a card without
// ownerIndex is appended, one with ownerIndex overwrites in place.
func (h *CardsHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var card models.Card
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	saved, err := h.Gateway.SaveCard(r.Context(), userID, card)
	if errors.Is(err, models.ErrNotSavable) {
		http.Error(w, "card name is required", http.StatusBadRequest)
		return
	}
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "card not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(saved)
}

// Remove handles DELETE /api/cards/{index}.
func (h *CardsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	err = h.Gateway.RemoveOwnCard(r.Context(), userID, index)
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "card not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Resolve handles GET /api/users/{userID}/cards/{index}, the public
// share-link resolve surface. A missing card answers 404 with a JSON
// status body: a dangling reference is a displayable state, not a server
// failure.
func (h *CardsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ownerID := chi.URLParam(r, "userID")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	card, err := h.Gateway.FetchSingleCard(r.Context(), ownerID, index)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if card == nil {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_found"})
		return
	}
	_ = json.NewEncoder(w).Encode(card)
}

// ListSaved handles GET /api/saved.
func (h *CardsHandler) ListSaved(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	refs, err := h.Gateway.ListSavedRefs(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if refs == nil {
		refs = []models.SavedCardRef{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"savedCards": refs})
}

// AddSaved handles POST /api/saved with a SavedCardRef body.
func (h *CardsHandler) AddSaved(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	var ref models.SavedCardRef
	if err := json.NewDecoder(r.Body).Decode(&ref); err != nil || ref.OwnerID == "" || ref.CardIndex < 0 {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	if err := h.Gateway.AddSavedRef(r.Context(), userID, ref); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// RemoveSaved handles DELETE /api/saved/{index}.
func (h *CardsHandler) RemoveSaved(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		http.Error(w, "invalid index", http.StatusBadRequest)
		return
	}

	err = h.Gateway.RemoveSavedRef(r.Context(), userID, index)
	if errors.Is(err, models.ErrNotFound) {
		http.Error(w, "saved card not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
