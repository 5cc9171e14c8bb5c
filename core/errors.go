package core

import "github.com/pkg/errors"

// FieldError pins a validation failure to a single input field, keyed by
// its JSON name ("title", "gujcetPercentile", an upload slot, ...).
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries rejected applicant or form input. The HTTP layer
// renders Fields as a field-to-message map when present, otherwise Err's
// message.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
