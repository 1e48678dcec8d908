// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import "errors"

var (
	ErrValidation   = errors.New("validation error")
	ErrNotFound     = errors.New("not found")
	ErrAlreadyVoted = errors.New("already voted")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidOption covers an option id that is unknown or belongs to a
	// different poll. No counter is touched and no marker is issued.
	ErrInvalidOption = &ValidationError{Message: "Invalid option for this poll."}
)

// ValidationError carries a message meant for the person who sent the input.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func newValidationError(msg string) error {
	return &ValidationError{Message: msg}
}
