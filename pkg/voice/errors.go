package voice

import "errors"

var (
	// ErrSessionExists is returned when creating a session for an id that is
	// already live.
	ErrSessionExists = errors.New("session already exists")

	// ErrSessionNotFound is returned for operations on an unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyText is returned when a required text input is empty or
	// whitespace only.
	ErrEmptyText = errors.New("text is required")
)
