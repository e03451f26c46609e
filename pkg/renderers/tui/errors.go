package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnknownOutputFormat is returned by ParseOutputFormat.
	ErrUnknownOutputFormat = errors.New("tui: unknown output format")
	// ErrIncompleteForm is returned by Render when the form model does not
	// declare every registration field, since the session could never be
	// confirmed.
	ErrIncompleteForm = errors.New("tui: form is missing registration fields")
)
