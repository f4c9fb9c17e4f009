package models

import (
	"errors"
	"fmt"
)

// ErrMetadataNotReady is returned when a notification is attempted before
// the first Slack metadata sync has completed.
var ErrMetadataNotReady = errors.New("slack metadata not ready: run a directory sync first")

// RemoteFetchError is a non-404 failure while reading remote configuration
// or templates. A 404 is not an error: callers fall back to defaults.
type RemoteFetchError struct {
	Path       string
	StatusCode int
	Err        error
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("remote fetch of %s failed with status %d: %v", e.Path, e.StatusCode, e.Err)
}

func (e *RemoteFetchError) Unwrap() error {
	return e.Err
}

// UnresolvedRecipientError means a notification target could not be mapped
// to a Slack ID. Dispatchers swallow it per unit and keep going.
type UnresolvedRecipientError struct {
	Kind string // "user" or "channel"
	Name string
}

func (e *UnresolvedRecipientError) Error() string {
	return fmt.Sprintf("no slack %s found for %q", e.Kind, e.Name)
}
