package practice

import "errors"

var (
	// ErrOutOfRange means a question index fell outside its category.
	ErrOutOfRange = errors.New("question index out of range")

	// ErrUnknownCategory means the bank has no category with that key.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrInvalidTransition means the operation is not allowed in the current phase,
	// e.g. a second answer for a question that is already answered.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrSessionClosed is returned for operations on a torn-down session.
	ErrSessionClosed = errors.New("session closed")

	// ErrSessionNotFound is returned by the registry for unknown ids.
	ErrSessionNotFound = errors.New("session not found")
)
