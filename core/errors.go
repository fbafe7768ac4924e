package core

import "errors"

// FieldError ties a validation failure to the request field that caused it.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is raised by domain services on invalid input; the HTTP
// layer renders Fields as the 400 response body.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// shutdown marks a failure the application cannot recover from, such as a
// dead database connection.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s *shutdown) Error() string {
	return s.message
}

// IsShutdown reports whether err carries a shutdown anywhere in its chain;
// the API server requests a graceful stop when it sees one.
func IsShutdown(err error) bool {
	var s *shutdown
	return errors.As(err, &s)
}
