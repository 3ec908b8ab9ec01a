package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrSourceUnavailable marks a single exchange fetch failure. It is
	// non-fatal: a scan proceeds with whatever sources succeeded.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrNoSourcesAvailable is returned when every exchange fetch failed
	// and the scan could not be completed at all. Callers must distinguish
	// this from an empty (but successful) opportunity list.
	ErrNoSourcesAvailable = errors.New("no sources available")

	// ErrInvalidAddress is returned for wallet lookups on strings that are
	// not valid hex addresses.
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrInvalidInput marks malformed caller-supplied payloads.
	ErrInvalidInput = errors.New("invalid input")
)
