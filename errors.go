package booksearch

import "errors"

var (
	// ErrInvalidArgument is returned for unusable keys, empty value
	// collections, blank query input and malformed rows at load time.
	ErrInvalidArgument = errors.New("booksearch: invalid argument")

	// ErrNotFound is returned when an index descent reaches an absent child
	// without a match, and by exhausted cursors.
	ErrNotFound = errors.New("booksearch: not found")

	// ErrDuplicateValue is returned when a key is inserted with a value
	// collection identical to the one already stored under it.
	ErrDuplicateValue = errors.New("booksearch: duplicate value")
)
