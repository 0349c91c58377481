package store

import "fmt"

// NotFoundError reports an unknown session id.
type NotFoundError struct {
	SessionID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("session %s not found", e.SessionID)
}

// EmptyContentError means chunking produced nothing to index.
type EmptyContentError struct{}

func (e *EmptyContentError) Error() string {
	return "no content to index: text may be empty or too short"
}
