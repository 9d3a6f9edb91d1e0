package errors

import stderrors "errors"

// ErrorDetails is a domain error: a human readable message tagged with a code
// callers can branch on.
type ErrorDetails struct {
	// Message is the human readable text, e.g. "tick price must be a positive number".
	Message string

	// Code is one of the ErrorCode values, e.g. "invalid_tick".
	Code string

	// Field names the offending input, if any.
	Field string
}

// NewErrorDetails creates an ErrorDetails.
func NewErrorDetails(message, code, field string) *ErrorDetails {
	return &ErrorDetails{Message: message, Code: code, Field: field}
}

func (e *ErrorDetails) Error() string {
	return e.Message
}

// ErrorCodeEquals reports whether err, or anything it wraps, carries code.
// It matches an ErrorDetails code, any detail of a BaseError, or the message of an ErrorTracer.
func ErrorCodeEquals(err error, code string) bool {
	var tracer *ErrorTracer
	if stderrors.As(err, &tracer) && tracer.Message == code {
		return true
	}

	var details *ErrorDetails
	if stderrors.As(err, &details) {
		return details.Code == code
	}

	var baseErr *BaseError
	if stderrors.As(err, &baseErr) {
		return baseErr.IsAnyCodeEqual(code)
	}

	return false
}
