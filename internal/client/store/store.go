// Package store holds the client-side editing session state: the card
// currently being edited, the cached list of saved references, and the
// front/back flip flag. Everything is in memory; no operation can fail.
package store

import (
	"sync"

	"cardlink/internal/models"
)

// CardStore is the in-memory per-session state shared by the client's
// screens. All methods are safe for concurrent use.
type CardStore struct {
	mu        sync.Mutex
	current   models.Card
	savedRefs []models.SavedCardRef
	flipped   bool
}

// New returns a store whose current card is the default blank card.
func New() *CardStore {
	return &CardStore{current: models.DefaultCard()}
}

// Current returns a copy of the card currently being edited.
func (s *CardStore) Current() models.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SetCurrent applies patch to the current card.
//
// The patch is keyed by the card's JSON field names. When the patch holds
// exactly models.CanonicalFieldCount keys it is treated as a full
// replacement: the current card is rebuilt from the patch alone and loses
// its owner index. Any smaller patch is a shallow merge into the current
// card. This arity branching is a compatibility contract: template
// application sends a complete card and must not retain stale style values,
// while per-field edits send a single key. Unknown keys are ignored.
func (s *CardStore) SetCurrent(patch map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(patch) == models.CanonicalFieldCount {
		var fresh models.Card
		for k, v := range patch {
			applyField(&fresh, k, v)
		}
		s.current = fresh
		return
	}

	for k, v := range patch {
		applyField(&s.current, k, v)
	}
}

// SetOwnerIndex records the persisted position of the current card so a
// later save in the same session overwrites instead of appending.
func (s *CardStore) SetOwnerIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.OwnerIndex = &index
}

// ResetCurrent restores the current card to the default blank card.
// Called after a successful save so the editor starts over.
func (s *CardStore) ResetCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = models.DefaultCard()
}

// ToggleFlip flips the card preview between front and back.
func (s *CardStore) ToggleFlip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flipped = !s.flipped
}

// Flipped reports whether the preview shows the back of the card.
func (s *CardStore) Flipped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flipped
}

// SavedRefs returns a copy of the cached saved-reference list.
func (s *CardStore) SavedRefs() []models.SavedCardRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SavedCardRef, len(s.savedRefs))
	copy(out, s.savedRefs)
	return out
}

// SetSavedRefs replaces the cached saved-reference list, typically after
// a fetch from the server.
func (s *CardStore) SetSavedRefs(refs []models.SavedCardRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedRefs = make([]models.SavedCardRef, len(refs))
	copy(s.savedRefs, refs)
}

// AddSavedRef appends ref to the cached list.
func (s *CardStore) AddSavedRef(ref models.SavedCardRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.savedRefs = append(s.savedRefs, ref)
}

// RemoveSavedRef removes the cached reference at position i.
// Out-of-range positions are ignored.
func (s *CardStore) RemoveSavedRef(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.savedRefs) {
		return
	}
	s.savedRefs = append(s.savedRefs[:i], s.savedRefs[i+1:]...)
}

// CanAddCard reports whether an account on plan may own another card when
// it already has `have`. This is a client-side gate only.
func CanAddCard(plan models.Plan, have int) bool {
	return have < plan.MaxCards()
}

// CanAddSavedRef reports whether an account on plan may bookmark another
// reference when it already has `have`. This is a client-side gate only.
func CanAddSavedRef(plan models.Plan, have int) bool {
	return have < plan.MaxSavedRefs()
}

// applyField sets one content field by its JSON name. Values arrive as
// strings (the patch mirrors a JSON object); non-string values and unknown
// keys are ignored. OwnerIndex is not patchable: it is identity, managed
// through SetOwnerIndex and ResetCurrent only.
func applyField(c *models.Card, key string, value any) {
	s, ok := value.(string)
	if !ok {
		return
	}
	switch key {
	case "font":
		c.Font = models.Font(s)
	case "color":
		c.Color = models.Color(s)
	case "bgcolor":
		c.BgColor = models.Color(s)
	case "align":
		c.Align = models.Alignment(s)
	case "name":
		c.Name = s
	case "jobTitle":
		c.JobTitle = s
	case "company":
		c.Company = s
	case "email":
		c.Email = s
	case "phone":
		c.Phone = s
	case "website":
		c.Website = s
	case "logoImageRef":
		c.LogoImageRef = s
	case "profileImageRef":
		c.ProfileImageRef = s
	case "effect":
		c.Effect = models.Effect(s)
	case "styleVariant":
		c.StyleVariant = models.StyleVariant(s)
	}
}

// PatchFromCard converts a full card into a complete patch, as template
// application does. The result always has CanonicalFieldCount keys, so
// SetCurrent treats it as a replacement.
func PatchFromCard(c models.Card) map[string]any {
	return map[string]any{
		"font":            string(c.Font),
		"color":           string(c.Color),
		"bgcolor":         string(c.BgColor),
		"align":           string(c.Align),
		"name":            c.Name,
		"jobTitle":        c.JobTitle,
		"company":         c.Company,
		"email":           c.Email,
		"phone":           c.Phone,
		"website":         c.Website,
		"logoImageRef":    c.LogoImageRef,
		"profileImageRef": c.ProfileImageRef,
		"effect":          string(c.Effect),
		"styleVariant":    string(c.StyleVariant),
	}
}
