package session

import "errors"

// Sentinel kinds for session validation errors.
var (
	ErrEmptyRoster       = errors.New("empty roster")
	ErrInvalidRoundCount = errors.New("invalid round count")
)
