package errors

import (
	"errors"
	"fmt"
)

// Common error types used across the countdown library

var (
	// ErrInvalidConfiguration indicates invalid configuration parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidTransition indicates an operation that is not allowed
	// from the current lifecycle state
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrHandler indicates that a registered event handler failed
	ErrHandler = errors.New("event handler failed")

	// ErrClosed indicates that an operation was attempted on a closed resource
	ErrClosed = errors.New("resource is closed")
)

// Kind tags an error with the part of the timer lifecycle that produced it.
type Kind int

const (
	// KindUnknown is returned for errors that carry no countdown kind.
	KindUnknown Kind = iota
	// KindCreation marks a rejected configuration at construction time.
	KindCreation
	// KindHandler marks a failure inside a registered event handler.
	KindHandler
	// KindTransition marks an illegal lifecycle transition.
	KindTransition
)

func (k Kind) String() string {
	switch k {
	case KindCreation:
		return "CreationError"
	case KindHandler:
		return "HandlerError"
	case KindTransition:
		return "InvalidTransitionError"
	default:
		return "UnknownError"
	}
}

// KindOf classifies err. Wrapped errors are unwrapped with errors.As.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	switch {
	case IsHandlerError(err):
		return KindHandler
	case IsTransitionError(err):
		return KindTransition
	case IsValidationError(err):
		return KindCreation
	default:
		return KindUnknown
	}
}

// ValidationError describes a rejected configuration value.
type ValidationError struct {
	Module string
	Field  string
	Value  interface{}
	Reason string
	Hint   string
}

// NewValidationError creates a ValidationError for the given module and field.
func NewValidationError(module, field string, value interface{}, reason string) *ValidationError {
	return &ValidationError{
		Module: module,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// WithHint attaches a remediation hint and returns the same error for chaining.
func (e *ValidationError) WithHint(hint string) *ValidationError {
	e.Hint = hint
	return e
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s: invalid %s=%v (%s)", e.Module, e.Field, e.Value, e.Reason)
	if e.Hint != "" {
		msg += " - " + e.Hint
	}
	return msg
}

// Unwrap returns ErrInvalidConfiguration.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// TransitionError reports an operation attempted from a state that does not
// allow it. From and To are lifecycle state names.
type TransitionError struct {
	Operation string
	From      string
	To        string
}

// NewTransitionError creates a TransitionError.
func NewTransitionError(operation, from, to string) *TransitionError {
	return &TransitionError{Operation: operation, From: from, To: to}
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s: invalid transition from %q to %q", e.Operation, e.From, e.To)
}

// Unwrap returns ErrInvalidTransition.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// OperationError wraps a failure that happened while performing an operation.
type OperationError struct {
	Module    string
	Operation string
	Cause     error
	Context   string
}

// NewOperationError creates an OperationError wrapping cause.
func NewOperationError(module, operation string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: operation,
		Cause:     cause,
	}
}

// NewHandlerError wraps an error returned by an event handler. The result
// matches both ErrHandler and cause with errors.Is.
func NewHandlerError(module, event string, cause error) *OperationError {
	return &OperationError{
		Module:    module,
		Operation: event,
		Cause:     fmt.Errorf("%w: %w", ErrHandler, cause),
	}
}

// WithContext attaches extra context and returns the same error for chaining.
func (e *OperationError) WithContext(context string) *OperationError {
	e.Context = context
	return e
}

func (e *OperationError) Error() string {
	msg := fmt.Sprintf("%s.%s failed: %v", e.Module, e.Operation, e.Cause)
	if e.Context != "" {
		msg += " (" + e.Context + ")"
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *OperationError) Unwrap() error {
	return e.Cause
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

// IsTransitionError reports whether err is or wraps a TransitionError.
func IsTransitionError(err error) bool {
	var terr *TransitionError
	return errors.As(err, &terr)
}

// IsHandlerError reports whether err came from a failing event handler.
func IsHandlerError(err error) bool {
	return errors.Is(err, ErrHandler)
}
