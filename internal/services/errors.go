package services

import (
	"errors"
)

// Failure conditions surfaced to handlers. NotFound-style conditions are
// normal outcomes and are not logged as errors.
var (
	// ErrSourceUnavailable wraps any Scryfall failure other than 429.
	// Callers may retry later; this layer never retries.
	ErrSourceUnavailable = errors.New("card source unavailable")

	// ErrRateLimited is returned on an upstream 429 so callers can apply
	// their own backoff.
	ErrRateLimited = errors.New("card source rate limited")

	// ErrCardNotFound covers both an upstream 404 and any adapter failure
	// during a catalog lookup-or-fetch fallback.
	ErrCardNotFound = errors.New("card not found")

	// ErrNotFound covers absent collection rows, decks, users and expired
	// or never-populated search cache entries.
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuantity is returned when a caller supplies a quantity
	// <= 0 where a positive count is required.
	ErrInvalidQuantity = errors.New("quantity must be a positive number")
)
