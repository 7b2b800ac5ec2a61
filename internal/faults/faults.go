package faults

import (
	"errors"
	"fmt"
)

// Sentinel fault kinds. Every error crossing a service boundary wraps
// exactly one of these so callers can branch with errors.Is.
var (
	// ErrNotFound: the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrRowMissing: the account exists in the credential store but has no
	// users row yet. Recoverable by synthesizing the row.
	ErrRowMissing = errors.New("account row missing")
	// ErrTimedOut: a bounded wait elapsed before the operation settled.
	ErrTimedOut = errors.New("timed out")
	// ErrValidation: malformed or conflicting input (duplicate username,
	// bad pattern, unknown style).
	ErrValidation = errors.New("validation failed")
	// ErrRemote: generic backend failure.
	ErrRemote = errors.New("remote failure")
	// ErrPrecondition: operation attempted without an active session or
	// against a plan tier that forbids it.
	ErrPrecondition = errors.New("precondition failed")
)

func NotFound(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}

func Validation(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func Precondition(msg string) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, msg)
}

func Remote(err error) error {
	return fmt.Errorf("%w: %v", ErrRemote, err)
}
