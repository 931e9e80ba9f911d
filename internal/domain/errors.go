package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownRegion is returned when a request names a region the
	// service does not support
	ErrUnknownRegion = errors.New("unknown region")

	// ErrEmptyRecord is returned when a request carries no product data
	ErrEmptyRecord = errors.New("empty product record")

	// ErrRenderFailure is returned when the template renderer fails on an
	// already-validated record
	ErrRenderFailure = errors.New("label rendering failed")

	// ErrTemplateNotFound is returned when no template is registered for a
	// region
	ErrTemplateNotFound = errors.New("label template not found")
)

// ValidationError carries the full, ordered list of validation messages for
// one record. It is the caller-fixable error kind: handlers map it to a 400
// response with the message list intact.
type ValidationError struct {
	Region Region
	Errors []string
}

// NewValidationError wraps the messages from a failed ValidationResult.
func NewValidationError(region Region, errs []string) *ValidationError {
	return &ValidationError{Region: region, Errors: errs}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid product data (%s): %s", e.Region, strings.Join(e.Errors, "; "))
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}
