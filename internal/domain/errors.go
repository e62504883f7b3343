// Package domain defines domain-specific errors.
// These errors represent oscilloscope failures and are independent of infrastructure.
package domain

import (
	"errors"
	"fmt"
)

// Common errors that components can return.
var (
	// ErrNotPrepared is returned when rendering is attempted before a producer
	// has been assigned and the frame buffer prepared.
	ErrNotPrepared = errors.New("scope not prepared")

	// ErrNoProducer is returned when Prepare is called without an assigned producer.
	ErrNoProducer = errors.New("no producer assigned")

	// ErrAlreadyAssigned is returned when a second producer is assigned to a scope.
	ErrAlreadyAssigned = errors.New("producer already assigned")

	// ErrScopeClosed is returned when an operation is attempted on a closed scope.
	ErrScopeClosed = errors.New("scope closed")

	// ErrInvalidAmplitude is returned when the amplitude scale is not a positive number.
	ErrInvalidAmplitude = errors.New("invalid amplitude: must be greater than zero")

	// ErrInvalidWindow is returned when the sample window is empty or inverted.
	ErrInvalidWindow = errors.New("invalid sample window: min must be less than max")

	// ErrInvalidChannel is returned when a channel index is out of range.
	ErrInvalidChannel = errors.New("invalid channel index")

	// ErrInvalidFormat is returned when a producer reports an unusable frame layout.
	ErrInvalidFormat = errors.New("invalid frame format")

	// ErrUnsupportedFormat is returned when an audio file format is not supported.
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	// ErrFileNotFound is returned when a file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidFilePath is returned when a file path is invalid.
	ErrInvalidFilePath = errors.New("invalid file path")

	// ErrAlreadyRunning is returned when a pump is started twice.
	ErrAlreadyRunning = errors.New("already running")

	// ErrBusClosed is returned when the event bus is closed twice.
	ErrBusClosed = errors.New("event bus closed")
)

// ValidationError represents a rejected configuration value.
type ValidationError struct {
	Field   string      // Field that failed validation
	Value   interface{} // Value that failed validation
	Message string      // Error message
	Err     error       // Sentinel the error matches (if any)
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for %s: %s (value: %v)", e.Field, e.Message, e.Value)
}

// Unwrap returns the sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// newValidationErrorFor creates a ValidationError that matches sentinel with errors.Is.
func newValidationErrorFor(sentinel error, field string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: sentinel.Error(),
		Err:     sentinel,
	}
}

// NewAmplitudeError reports a rejected amplitude scale.
func NewAmplitudeError(amplitude float64) *ValidationError {
	return newValidationErrorFor(ErrInvalidAmplitude, "amplitude", amplitude)
}

// NewWindowError reports a rejected sample window.
func NewWindowError(window SampleWindow) *ValidationError {
	return newValidationErrorFor(ErrInvalidWindow, "window", fmt.Sprintf("[%d, %d)", window.Min, window.Max))
}

// SourceError represents an error from an audio source.
// This wraps decoder errors with additional context.
type SourceError struct {
	Op      string // Operation that failed (e.g., "open", "decode", "read")
	Path    string // File path (if applicable)
	Message string // Error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("source %s failed for '%s': %s", e.Op, e.Path, e.Message)
	}
	return fmt.Sprintf("source %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// NewSourceError creates a new SourceError.
func NewSourceError(op, path, message string, err error) *SourceError {
	return &SourceError{
		Op:      op,
		Path:    path,
		Message: message,
		Err:     err,
	}
}

// RepositoryError represents an error from a repository.
// This wraps persistence layer errors with additional context.
type RepositoryError struct {
	Op      string // Operation that failed (e.g., "save", "load")
	Type    string // Repository type (e.g., "settings")
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s.%s failed: %s", e.Type, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new RepositoryError.
func NewRepositoryError(op, repoType, message string, err error) *RepositoryError {
	return &RepositoryError{
		Op:      op,
		Type:    repoType,
		Message: message,
		Err:     err,
	}
}

// ServiceError represents an error from a service layer operation.
type ServiceError struct {
	Service string // Service name (e.g., "ScopeService")
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.Service, e.Op, e.Message)
}

// Unwrap returns the underlying error.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, op, message string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Message: message,
		Err:     err,
	}
}
