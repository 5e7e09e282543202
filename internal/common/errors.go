// Package common defines sentinel errors shared by the front desk layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrStore marks a failed store operation. It is surfaced to the user and
	// never retried automatically.
	ErrStore = errors.New("store operation failed")

	// Validation errors, returned before any store call.
	ErrValidation      = errors.New("validation error")
	ErrMissingTime     = errors.New("entry time is required for this section")
	ErrInvalidSection  = errors.New("unknown section")
	ErrInvalidOutcome  = errors.New("invalid outcome")
	ErrUnknownProduct  = errors.New("unknown subscription type")
	ErrNotPhoneSection = errors.New("entry is not a phone call")

	// Popup coordination errors.
	ErrNoPendingDecision = errors.New("no pending decision")
	ErrDecisionMismatch  = errors.New("answer does not match the pending decision")
	ErrDecisionPending   = errors.New("another decision is still pending")
)
