// Package sharelink encodes and decodes the deep links used to share a
// card between users. A link does not carry card content, only a reference
// (owner user id, card index); the receiver resolves it against the owner's
// remote document. The same string doubles as the QR payload.
package sharelink

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"cardlink/internal/models"
)

// Scheme is the custom URL scheme of share links.
const Scheme = "cardlink"

// prefix is what a scanned value must start with to be accepted at all.
const prefix = Scheme + "://"

// ErrInvalidLink marks a malformed share link: wrong scheme, missing
// userid, or a garbage card index. It is deliberately distinct from the
// gateway's "card not found" so the two can surface as different messages.
var ErrInvalidLink = errors.New("invalid share link")

// Encode builds the share link for the card at index in ownerID's list.
func Encode(ownerID string, index int) string {
	return fmt.Sprintf("%s://view?userid=%s&card=%d", Scheme, url.QueryEscape(ownerID), index)
}

// Decode parses a scanned share link into a card reference.
//
// The card parameter defaults to 0 when absent. Anything that does not
// start with the cardlink:// prefix, lacks a userid, or carries a
// non-numeric or negative index fails with ErrInvalidLink.
func Decode(raw string) (models.SavedCardRef, error) {
	if len(raw) < len(prefix) || raw[:len(prefix)] != prefix {
		return models.SavedCardRef{}, ErrInvalidLink
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host != "view" {
		return models.SavedCardRef{}, ErrInvalidLink
	}

	q := u.Query()
	owner := q.Get("userid")
	if owner == "" {
		return models.SavedCardRef{}, ErrInvalidLink
	}

	index := 0
	if v := q.Get("card"); v != "" {
		index, err = strconv.Atoi(v)
		if err != nil || index < 0 {
			return models.SavedCardRef{}, ErrInvalidLink
		}
	}

	return models.SavedCardRef{OwnerID: owner, CardIndex: index}, nil
}
