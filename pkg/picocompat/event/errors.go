package event

import "errors"

// Sentinel errors for alias tables and dispatch. Errors returned by legacy
// handlers are never wrapped; they reach the caller as they were returned.
var (
	// ErrInvalidAlias indicates a malformed alias table entry.
	ErrInvalidAlias = errors.New("invalid alias")

	// ErrUnknownLegacyEvent indicates a trigger for a name that is not an
	// API v0 event.
	ErrUnknownLegacyEvent = errors.New("unknown legacy event")

	// ErrNilParams indicates dispatch was called without a parameter bundle.
	ErrNilParams = errors.New("params cannot be nil")
)
