package domain

import "errors"

var (
	// ErrInvalidInput signals malformed import data: a bad CSV header or a
	// rejected row. Search never returns it.
	ErrInvalidInput = errors.New("invalid input")
	// ErrCatalogUnavailable signals a failed catalog read. Retryable by the caller.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
	// ErrCancelled signals that the caller cancelled the request or its deadline passed.
	ErrCancelled = errors.New("request cancelled")
)
