package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflicting status")
	ErrInvalidTier     = errors.New("invalid tier")
	ErrProviderFailure = errors.New("provider failure")
)
