package types

import (
	"errors"
	"fmt"
)

// Error kinds shared by the stores, controllers and handlers. Wrap them with
// Wrap or fmt.Errorf("%w") and test with errors.Is.
var (
	ErrConnectionFailure = errors.New("connection failure")
	ErrQueryFailure      = errors.New("query failure")
	ErrValidation        = errors.New("validation failure")
	ErrNotFound          = errors.New("not found")
	ErrDataCorruption    = errors.New("data corruption")
	ErrDuplicateID       = errors.New("duplicate id")
)

func Wrap(kind error, msg string) error {
	return fmt.Errorf("%w: %s", kind, msg)
}

func WrapErr(kind error, msg string, err error) error {
	return fmt.Errorf("%w: %s: %w", kind, msg, err)
}
