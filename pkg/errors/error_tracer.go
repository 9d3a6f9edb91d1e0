package errors

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// StackTracer is implemented by errors created through github.com/pkg/errors.
type StackTracer interface {
	StackTrace() errors.StackTrace
}

// ErrorTracer tags an infrastructure failure with an error code and keeps the
// stack trace of where it was first seen.
type ErrorTracer struct {
	// Message is usually one of the ErrorCode values.
	Message string
	Err     error
}

// NewTracer creates a tracer carrying message. Chain Wrap to attach the cause.
func NewTracer(message string) *ErrorTracer {
	return &ErrorTracer{Message: message}
}

// TracerFromError uses the message of err itself, so logging it keeps the original text.
func TracerFromError(err error) *ErrorTracer {
	return NewTracer(err.Error()).Wrap(err)
}

// Wrap sets err as the cause, capturing a stack trace unless err already has one.
func (e *ErrorTracer) Wrap(err error) *ErrorTracer {
	if _, ok := err.(StackTracer); ok {
		e.Err = err
	} else {
		e.Err = errors.WithStack(err)
	}
	return e
}

func (e *ErrorTracer) Error() string {
	if e.Err == nil {
		return e.Message
	}
	cause := e.Err.Error()
	if cause == e.Message {
		return cause
	}
	return e.Message + ": " + cause
}

func (e *ErrorTracer) Unwrap() error {
	return e.Err
}

// StackTrace returns the captured trace, or nil when there is no cause.
func (e *ErrorTracer) StackTrace() errors.StackTrace {
	if st, ok := e.Err.(StackTracer); ok {
		return st.StackTrace()
	}
	return nil
}

// Format prints the stack trace after the message for %+v.
func (e *ErrorTracer) Format(s fmt.State, verb rune) {
	switch {
	case verb == 'v' && s.Flag('+'):
		_, _ = io.WriteString(s, e.Error())
		_, _ = fmt.Fprintf(s, "%+v", e.StackTrace())
	case verb == 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		_, _ = io.WriteString(s, e.Error())
	}
}
