package report

import "errors"

var (
	// ErrInvalidInput is returned when a dataset collection is missing or empty.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrMissingStrategy is returned when a revenue or bonus strategy is absent.
	ErrMissingStrategy = errors.New("missing strategy")
)
