package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrProviderFailure  = errors.New("provider failure")
	ErrOutputNotLocated = errors.New("could not locate generated output")
)
