package report

import (
	"errors"
	"fmt"
)

// ValidationError rejects a request before any network call is made.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// IsValidationError checks if an error is a ValidationError.
func IsValidationError(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr)
}

// ExtractionError is the terminal "no document found" condition. The raw model
// text is attached for diagnosis; it is never silently discarded.
type ExtractionError struct {
	RawResponse string
}

func (e *ExtractionError) Error() string {
	return "no HTML document found in model response"
}

// IsExtractionError checks if an error is an ExtractionError.
func IsExtractionError(err error) bool {
	var xErr *ExtractionError
	return errors.As(err, &xErr)
}
