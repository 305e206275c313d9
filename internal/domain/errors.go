package domain

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials means the API token could not be resolved at startup.
// The session cannot initialize without it.
var ErrMissingCredentials = errors.New("missing backend credentials")

// NotFoundError reports a search service that is not (or no longer) present
// in the backend's configured services.
type NotFoundError struct {
	Service string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("search service %q not found", e.Service)
}

// UpstreamError wraps a search or completion backend failure. It is never
// retried; the current question/answer cycle is aborted and the error is
// surfaced to the user.
type UpstreamError struct {
	Op     string // "search", "complete", "discover"
	Status int    // HTTP status, 0 for transport errors
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: backend returned %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
