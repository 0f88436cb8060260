// Package models defines the request and response shapes of the MedScribe
// REST API. Every response type validates itself after decoding so that a
// malformed payload is reported at the boundary instead of leaking into
// client state.
package models

import (
	"errors"
	"fmt"
)

// Validator is implemented by decoded payloads.
type Validator interface {
	Validate() error
}

// ErrInvalidPayload is wrapped by every Validate failure.
var ErrInvalidPayload = errors.New("invalid payload")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidPayload, fmt.Sprintf(format, args...))
}

// Identifiable records are keyed by a positive numeric ID.
type Identifiable interface {
	Key() int64
}

func validateID(kind string, id int64) error {
	if id <= 0 {
		return invalid("%s id must be positive, got %d", kind, id)
	}
	return nil
}
