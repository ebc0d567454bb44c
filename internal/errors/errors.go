package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess       = 0   // Indicates successful execution.
	ExitErrorGeneric  = 1   // Indicates a generic error (I/O, worker failure).
	ExitErrorTimeout  = 2   // Indicates the render timed out.
	ExitErrorMismatch = 3   // Indicates that two strategies produced different images.
	ExitErrorConfig   = 4   // Indicates a configuration error.
	ExitErrorCanceled = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the render cannot start due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// RenderError wraps a failed render together with the name of the strategy
// that produced it.
type RenderError struct {
	// Strategy is the name of the scheduling strategy (e.g., "locked").
	Strategy string
	// Cause is the underlying error that aborted the render.
	Cause error
}

// Error returns the strategy name followed by the cause message.
func (e RenderError) Error() string {
	if e.Strategy == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s render failed: %v", e.Strategy, e.Cause)
}

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e RenderError) Unwrap() error { return e.Cause }

// WorkerError reports a worker goroutine that terminated abnormally. A
// recovered panic is carried in Cause as an error.
type WorkerError struct {
	// Band is the index of the work band (or chunk consumer) that failed.
	Band int
	// Cause is the recovered panic value or returned error.
	Cause error
}

// Error returns a formatted message naming the failed band.
func (e WorkerError) Error() string {
	return fmt.Sprintf("worker %d terminated abnormally: %v", e.Band, e.Cause)
}

// Unwrap returns the underlying cause.
func (e WorkerError) Unwrap() error { return e.Cause }

// NewWorkerPanic converts a recovered panic value into a WorkerError.
func NewWorkerPanic(band int, recovered any) error {
	if err, ok := recovered.(error); ok {
		return WorkerError{Band: band, Cause: err}
	}
	return WorkerError{Band: band, Cause: fmt.Errorf("panic: %v", recovered)}
}

// TimeoutError represents a render timeout. It captures the operation
// name and the duration limit that was exceeded.
type TimeoutError struct {
	// Operation is the name of the operation that timed out.
	Operation string
	// Limit is the duration after which the operation was considered timed out.
	Limit time.Duration
}

// Error returns a formatted message describing the timeout.
func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError represents an input validation failure. It identifies which
// field failed validation and provides a human-readable explanation.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// MemoryError represents a memory limit exceeded condition. It captures the
// requested, available, and limit memory values for diagnostic purposes.
type MemoryError struct {
	// Requested is the number of bytes the operation needed.
	Requested uint64
	// Available is the number of bytes currently available.
	Available uint64
	// Limit is the configured memory limit in bytes.
	Limit uint64
}

// Error returns a formatted message describing the memory error.
func (e MemoryError) Error() string {
	return fmt.Sprintf("memory error: requested %d bytes, available %d bytes (limit: %d)", e.Requested, e.Available, e.Limit)
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: true if the error is a context error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
