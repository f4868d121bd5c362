package domain

import (
	"errors"
	"strings"
)

var (
	// ErrOrderNotFound is returned when an order id is absent from the store.
	ErrOrderNotFound = errors.New("order not found")
	// ErrDuplicateOrderID is returned on an insert with an id already present.
	// Correct id generation never produces it.
	ErrDuplicateOrderID = errors.New("duplicate order id")
	// ErrInvalidStatusFilter is returned for a list query with a status value
	// outside the lifecycle enum.
	ErrInvalidStatusFilter = errors.New("invalid status filter")
)

// ValidationError collects every rule a payload violated so the caller sees
// all reasons at once instead of fixing them one request at a time.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Reasons, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
