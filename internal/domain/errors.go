package domain

import "errors"

var (
	// ErrInvalidAnalysisPayload marks malformed data from the vision backend.
	ErrInvalidAnalysisPayload = errors.New("invalid analysis payload")
	// ErrUnknownRoomOrCheck marks a check/room reference that does not resolve.
	ErrUnknownRoomOrCheck = errors.New("unknown room or check")
	// ErrInvalidCheckPairing marks a check-in/check-out pair that cannot be reconciled.
	ErrInvalidCheckPairing = errors.New("invalid check pairing")
	// ErrAnalysisUnavailable marks a failed or timed-out vision call. Safe to retry.
	ErrAnalysisUnavailable = errors.New("analysis capability unavailable")

	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
