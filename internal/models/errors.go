package models

import "errors"

// Domain errors shared by the service and repository layers. Expected
// absence (a missing card or document) is returned as a nil result, not as
// an error; these sentinels cover rule violations and user mistakes.
var (
	// ErrNotFound reports a referenced entity that does not exist where
	// the caller required one (e.g. overwriting a card at a stale index).
	ErrNotFound = errors.New("not found")
	// ErrNotSavable reports a save attempt on an incomplete card.
	ErrNotSavable = errors.New("card is not complete enough to save")
	// ErrAlreadyOwned reports a purchase of an already-owned template.
	ErrAlreadyOwned = errors.New("template already owned")
	// ErrInsufficientBalance reports a purchase exceeding the balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrPaymentDeclined reports a payment processor refusal.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrInvalidCredentials reports a failed sign-in.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken reports a sign-up with an email already registered.
	ErrEmailTaken = errors.New("email already registered")
)
