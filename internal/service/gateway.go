// Package service provides business-logic services for cards, accounts and
// the template marketplace, delegating persistence to repository interfaces.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"cardlink/internal/models"
)

// DocumentRepository defines the whole-document persistence operations
// needed by the CardGateway.
type DocumentRepository interface {
	// Get fetches the document body for (collection, docID).
	// A missing document returns found=false and no error.
	Get(ctx context.Context, collection, docID string) (json.RawMessage, bool, error)
	// Set writes the whole document body for (collection, docID).
	Set(ctx context.Context, collection, docID string, body json.RawMessage) error
}

// cardsCollection is the collection holding the per-user cards document.
const cardsCollection = "cards"

// CardGateway is the sole authority translating between card state and the
// remote per-user document. Every write is a read-modify-write of the whole
// document: sequential within one call, but not atomic against another
// writer. Two devices saving at once race with last-writer-wins.
type CardGateway struct {
	// repo is the underlying document repository.
	repo DocumentRepository
}

// NewCardGateway constructs a CardGateway with the provided repository.
func NewCardGateway(repo DocumentRepository) *CardGateway {
	return &CardGateway{repo: repo}
}

// loadDoc reads the user's cards document. A missing document decodes to
// the zero document: a new user without one is an expected state.
func (g *CardGateway) loadDoc(ctx context.Context, userID string) (models.CardsDocument, error) {
	var doc models.CardsDocument
	raw, found, err := g.repo.Get(ctx, cardsCollection, userID)
	if err != nil {
		return doc, err
	}
	if !found {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode cards document: %w", err)
	}
	return doc, nil
}

// storeDoc writes the user's whole cards document back.
func (g *CardGateway) storeDoc(ctx context.Context, userID string, doc models.CardsDocument) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode cards document: %w", err)
	}
	return g.repo.Set(ctx, cardsCollection, userID, raw)
}

// FetchOwnCards returns the user's cards in list order, each projected with
// its current OwnerIndex. A user without a document gets an empty slice.
func (g *CardGateway) FetchOwnCards(ctx context.Context, userID string) ([]models.Card, error) {
	doc, err := g.loadDoc(ctx, userID)
	if err != nil {
		return nil, err
	}
	cards := make([]models.Card, len(doc.Cards))
	for i := range doc.Cards {
		cards[i] = doc.Cards[i]
		idx := i
		cards[i].OwnerIndex = &idx
	}
	return cards, nil
}

// SaveCard persists card into the user's list and returns it with its
// OwnerIndex set.
//
// A card without an OwnerIndex is appended; its new index is the last
// position. A card with an OwnerIndex overwrites that position in place,
// or fails with models.ErrNotFound when the index no longer exists (the
// list shrank since the card was loaded). The stored element never carries
// the index itself; position is the only source of truth.
func (g *CardGateway) SaveCard(ctx context.Context, userID string, card models.Card) (models.Card, error) {
	if !card.Savable() {
		return models.Card{}, models.ErrNotSavable
	}

	doc, err := g.loadDoc(ctx, userID)
	if err != nil {
		return models.Card{}, err
	}

	stored := card
	stored.OwnerIndex = nil

	var index int
	if card.OwnerIndex == nil {
		doc.Cards = append(doc.Cards, stored)
		index = len(doc.Cards) - 1
	} else {
		index = *card.OwnerIndex
		if index < 0 || index >= len(doc.Cards) {
			return models.Card{}, models.ErrNotFound
		}
		doc.Cards[index] = stored
	}

	if err := g.storeDoc(ctx, userID, doc); err != nil {
		return models.Card{}, err
	}

	saved := stored
	saved.OwnerIndex = &index
	return saved, nil
}

// FetchSingleCard resolves (ownerID, index) to a card. A missing document
// or an out-of-range index returns (nil, nil): absence is a normal,
// displayable state, never an error. A stale reference whose card was
// deleted (or shifted) resolves the same way.
func (g *CardGateway) FetchSingleCard(ctx context.Context, ownerID string, index int) (*models.Card, error) {
	doc, err := g.loadDoc(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(doc.Cards) {
		return nil, nil
	}
	card := doc.Cards[index]
	card.OwnerIndex = &index
	return &card, nil
}

// RemoveOwnCard deletes the card at index from the user's list. All later
// cards shift down by one, so outstanding references and share links
// pointing past the removed index silently point at a different card
// afterwards. That is inherent to positional identity and is not corrected
// here. An out-of-range index fails with models.ErrNotFound.
func (g *CardGateway) RemoveOwnCard(ctx context.Context, userID string, index int) error {
	doc, err := g.loadDoc(ctx, userID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(doc.Cards) {
		return models.ErrNotFound
	}
	doc.Cards = append(doc.Cards[:index], doc.Cards[index+1:]...)
	return g.storeDoc(ctx, userID, doc)
}

// ListSavedRefs returns the user's bookmarked references in order.
func (g *CardGateway) ListSavedRefs(ctx context.Context, userID string) ([]models.SavedCardRef, error) {
	doc, err := g.loadDoc(ctx, userID)
	if err != nil {
		return nil, err
	}
	return doc.SavedCards, nil
}

// AddSavedRef appends ref to the user's bookmarked references. A reference
// only ever disappears through RemoveSavedRef; the referenced owner
// deleting their card leaves it dangling, to be resolved as not-found.
func (g *CardGateway) AddSavedRef(ctx context.Context, userID string, ref models.SavedCardRef) error {
	doc, err := g.loadDoc(ctx, userID)
	if err != nil {
		return err
	}
	doc.SavedCards = append(doc.SavedCards, ref)
	return g.storeDoc(ctx, userID, doc)
}

// RemoveSavedRef deletes the bookmarked reference at position index.
// An out-of-range index fails with models.ErrNotFound.
func (g *CardGateway) RemoveSavedRef(ctx context.Context, userID string, index int) error {
	doc, err := g.loadDoc(ctx, userID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(doc.SavedCards) {
		return models.ErrNotFound
	}
	doc.SavedCards = append(doc.SavedCards[:index], doc.SavedCards[index+1:]...)
	return g.storeDoc(ctx, userID, doc)
}

// FetchOwnedTemplateIDs returns the ids of the templates the user owns.
func (g *CardGateway) FetchOwnedTemplateIDs(ctx context.Context, userID string) ([]string, error) {
	doc, err := g.loadDoc(ctx, userID)
	if err != nil {
		return nil, err
	}
	return doc.Owned, nil
}

// AddOwnedTemplate appends templateID to the user's owned set. It does not
// deduplicate; rejecting a duplicate purchase is the caller's job.
func (g *CardGateway) AddOwnedTemplate(ctx context.Context, userID, templateID string) error {
	doc, err := g.loadDoc(ctx, userID)
	if err != nil {
		return err
	}
	doc.Owned = append(doc.Owned, templateID)
	return g.storeDoc(ctx, userID, doc)
}

// IsOwned reports whether the user owns the template.
func (g *CardGateway) IsOwned(ctx context.Context, userID, templateID string) (bool, error) {
	owned, err := g.FetchOwnedTemplateIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range owned {
		if id == templateID {
			return true, nil
		}
	}
	return false, nil
}
