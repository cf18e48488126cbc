package model

import (
	"errors"
	"fmt"
)

// ValidationError rejects a request before any stage runs.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// SourceExtractionError means a URL produced no usable text. It is raised by
// the extraction collaborators and never reaches the stage retry budget.
type SourceExtractionError struct {
	URL    string
	Reason string
}

func (e *SourceExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.URL, e.Reason)
}

// IsSourceExtraction reports whether err is a SourceExtractionError.
func IsSourceExtraction(err error) bool {
	var se *SourceExtractionError
	return errors.As(err, &se)
}
