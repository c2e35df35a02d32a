package services

import "errors"

// Sentinel errors returned by the session engine. Controllers translate
// these into HTTP statuses; anything not listed here is an unexpected
// storage failure and is wrapped with %w.
var (
	// ErrInvalidInput covers malformed requests such as non-positive
	// pax or missing payment fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCapacityExceeded means seating the party would push the sum of
	// active-session pax past the table's seat count.
	ErrCapacityExceeded = errors.New("table capacity exceeded")

	// ErrNoFreeUnit means every unit on the table already has an active
	// session.
	ErrNoFreeUnit = errors.New("no free unit on table")

	// ErrNotFound covers absent rows and cross-restaurant mismatches.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyClosed is returned when ending or closing a session
	// that has already been terminated.
	ErrAlreadyClosed = errors.New("session already closed")

	// ErrBusy signals lock contention or a transaction deadline; the
	// operation did not happen and may be retried by the caller.
	ErrBusy = errors.New("resource busy, retry")

	// ErrPOSNotify reports a failed POS notification. It is only ever
	// attached to an already-committed closure result, never returned
	// as the operation's error.
	ErrPOSNotify = errors.New("pos notification failed")
)
