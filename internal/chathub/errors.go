package chathub

import "errors"

// Error taxonomy for live-connection operations. Every failure is sent
// back to the originating connection as an error event and never tears
// down the connection or the process. storage.ErrNotFound covers missing
// records.
var (
	// ErrValidation marks rejected input (empty content, missing field).
	ErrValidation = errors.New("validation failed")
	// ErrPermission marks an ownership or membership violation: editing
	// or deleting someone else's message, or sending into a conversation
	// the user is not part of.
	ErrPermission = errors.New("not allowed")
)
