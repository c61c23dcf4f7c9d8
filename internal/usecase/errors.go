package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrSchemaViolation       = errors.New("schema violation")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
