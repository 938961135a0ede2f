// Package models defines the core data structures for cards, accounts,
// saved references and marketplace templates.
package models

import (
	"math"
	"strings"
)

// Round2 rounds a balance amount to 2 decimal places. All balance
// arithmetic goes through this so stored amounts stay at cent precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Card represents a single business card as edited and persisted.
//
// A card's identity while persisted is the pair (owner user id, OwnerIndex):
// there is no separate stable id. OwnerIndex is nil for a card that has not
// been saved yet and is never stored inside the remote document; it is
// derived from the card's position in the owner's card list.
type Card struct {
	// Font is a choice from the font palette.
	Font Font `json:"font"`
	// Color is the foreground color choice.
	Color Color `json:"color"`
	// BgColor is the background color choice.
	BgColor Color `json:"bgcolor"`
	// Align is the text alignment: left, center or right.
	Align Alignment `json:"align"`
	// Name is the card holder's display name. A card with an empty
	// (after trimming) name is incomplete and cannot be saved.
	Name string `json:"name"`
	// JobTitle is the holder's role or title.
	JobTitle string `json:"jobTitle"`
	// Company is the holder's company or organization.
	Company string `json:"company"`
	// Email is a contact email address.
	Email string `json:"email"`
	// Phone is a contact phone number.
	Phone string `json:"phone"`
	// Website is a contact URL.
	Website string `json:"website"`
	// LogoImageRef is an opaque URI to an uploaded logo image.
	LogoImageRef string `json:"logoImageRef"`
	// ProfileImageRef is an opaque URI to an uploaded profile image.
	ProfileImageRef string `json:"profileImageRef"`
	// Effect is an optional visual effect tag.
	Effect Effect `json:"effect"`
	// StyleVariant selects the layout template.
	StyleVariant StyleVariant `json:"styleVariant"`
	// OwnerIndex is the card's position in the owner's persisted list.
	// nil means the card has not been saved yet.
	OwnerIndex *int `json:"ownerIndex,omitempty"`
}

// CanonicalFieldCount is the number of content fields of a Card, excluding
// OwnerIndex which is identity rather than content. A store patch with
// exactly this many keys is treated as a full replacement (see client/store).
const CanonicalFieldCount = 14

// DefaultCard returns the blank card the editor starts from.
func DefaultCard() Card {
	return Card{
		Font:         FontInter,
		Color:        ColorBlack,
		BgColor:      ColorWhite,
		Align:        AlignLeft,
		Effect:       EffectNone,
		StyleVariant: StyleDefault,
	}
}

// Savable reports whether the card is complete enough to persist:
// the name must be non-empty after trimming whitespace.
func (c Card) Savable() bool {
	return strings.TrimSpace(c.Name) != ""
}

// SavedCardRef is a lightweight pointer to a card in another user's list.
// Dereferencing requires a remote fetch against the owner's document; the
// referenced card may have moved or disappeared, in which case the ref
// resolves to "not found" rather than an error.
type SavedCardRef struct {
	// OwnerID is the user id of the card's owner.
	OwnerID string `json:"ownerUserId"`
	// CardIndex is the position of the card in the owner's list at the
	// time the reference was taken.
	CardIndex int `json:"cardIndex"`
}

// CardsDocument is the per-user remote document holding everything the
// service persists for one user: their own cards, the references they
// bookmarked, and the template ids they own.
type CardsDocument struct {
	Cards      []Card         `json:"cards"`
	SavedCards []SavedCardRef `json:"savedCards"`
	Owned      []string       `json:"owned"`
}

// Account represents an application user with marketplace state.
type Account struct {
	// ID is the unique identifier for the user.
	ID string `json:"id"`
	// Email is the login email address.
	Email string `json:"email"`
	// Username is the public display name.
	Username string `json:"username"`
	// Balance is the in-app virtual balance, kept at 2 decimal places.
	Balance float64 `json:"balance"`
	// Plan is the account's plan tier.
	Plan Plan `json:"plan"`
}

// Template is a purchasable card preset sold in the marketplace.
type Template struct {
	// ID is the template identifier recorded in the owned set.
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// Category groups templates in the marketplace listing.
	Category Category `json:"category"`
	// Price is the cost in virtual balance units.
	Price float64 `json:"price"`
	// Card is the full card preset applied when the template is used.
	Card Card `json:"card"`
}
