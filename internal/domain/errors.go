package domain

import (
	"errors"
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// Domain Errors
// These errors represent domain-level failures and are used by services
// and gateways to communicate domain-specific error conditions.
// -----------------------------------------------------------------------------

// Course errors
var (
	ErrCourseNotFound = errors.New("course not found")
	ErrLevelNotFound  = errors.New("level not found")
)

// Shop errors
var (
	ErrItemNotFound     = errors.New("shop item not found")
	ErrItemAlreadyOwned = errors.New("shop item already owned")
	ErrNotEnoughCoins   = errors.New("not enough coins")
)

// ValidationError reports required top-level fields missing from raw
// course input. Structural irregularities below the top level are repaired
// during normalization instead of raised; only these fields hard-fail.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid course input: missing required field(s): %s",
		strings.Join(e.Fields, ", "))
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
