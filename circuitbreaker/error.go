package circuitbreaker

import (
	"errors"
)

// ValidationError reports invalid construction parameters. It indicates a
// programming or deployment defect, never a runtime operating condition.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "circuitbreaker config error: field '" + e.Field + "' - " + e.Message
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
