package common

import "errors"

var (
	// Storage errors.
	ErrorNotFound = errors.New("not found")

	// Session errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrSessionExpired   = errors.New("session expired")

	// Validation errors raised before any request is dispatched.
	ErrorValidation = errors.New("validation error")
)
