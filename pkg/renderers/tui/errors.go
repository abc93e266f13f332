package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoFields is reported when an action needs a field but none match.
	ErrNoFields = errors.New("tui: no matching fields")
)
