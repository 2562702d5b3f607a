// Package errors provides centralized error definitions and error handling
// utilities for taskgraph. It defines sentinel errors, a domain error for the
// project file layer, semantic error types and classification helpers.
//
// # Error Types
//
// Domain-specific errors:
//   - ProjectError: errors from opening, saving or tracking a project file
//
// Semantic errors:
//   - NotFoundError: a task or file could not be found
//   - ValidationError: invalid user input (names, priorities, progress values)
//
// The task graph engine itself never returns NotFoundError: unknown ids are
// silent no-ops there. These types are raised at the edges (CLI, TUI, file
// layer) where the user needs to be told something went wrong.
//
// # Usage
//
//	err := errors.NewNotFoundError("task", "abc123")
//	if errors.Is(err, errors.ErrNotFound) { ... }
//
//	var projErr *errors.ProjectError
//	if errors.As(err, &projErr) { ... }
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo Severity = iota
	// SeverityWarning is for errors caused by user input or recoverable state.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

var (
	// ErrNotFound is matched by every NotFoundError.
	ErrNotFound = New("not found")
	// ErrInvalidInput is matched by every ValidationError.
	ErrInvalidInput = New("invalid input")
	// ErrMalformedProject indicates a project payload that is not a JSON array
	// of task records.
	ErrMalformedProject = New("malformed project: expected a JSON array of tasks")
	// ErrCancelled indicates the user dismissed a dialog or confirmation.
	ErrCancelled = New("cancelled by user")
	// ErrNoFilePath indicates a save was requested for a project that has
	// never been saved and no path was chosen.
	ErrNoFilePath = New("no file path")
	// ErrProjectLocked indicates another process holds the project lock.
	ErrProjectLocked = New("project file is locked")
)

// -----------------------------------------------------------------------------
// Base Error Implementation
// -----------------------------------------------------------------------------

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// classified is implemented by every error type in this package.
type classified interface {
	error
	Severity() Severity
	IsUserFacing() bool
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// ProjectError represents errors related to project file handling.
//
// Example:
//
//	err := errors.NewProjectError("failed to open project", cause).WithPath("/tmp/a.tgproj")
//	fmt.Println(err) // "project error [path=/tmp/a.tgproj]: failed to open project: ..."
type ProjectError struct {
	baseError
	Path string
}

// NewProjectError creates a new ProjectError.
func NewProjectError(message string, cause error) *ProjectError {
	return &ProjectError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the project file path to the error context.
func (e *ProjectError) WithPath(path string) *ProjectError {
	e.Path = path
	return e
}

// Error returns the formatted error message.
func (e *ProjectError) Error() string {
	prefix := "project error"
	if e.Path != "" {
		prefix = fmt.Sprintf("project error [path=%s]", e.Path)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("task", "abc123")
//	fmt.Println(err) // "task 'abc123' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// WithCause adds a cause to the error.
func (e *NotFoundError) WithCause(cause error) *NotFoundError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s '%s' not found: %v", e.ResourceType, e.ResourceID, e.cause)
	}
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	if target == ErrNotFound {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("must be between 1 and 5").WithField("priority").WithValue(9)
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if target == ErrInvalidInput {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var c classified
	if As(err, &c) {
		return c.IsUserFacing()
	}
	return Is(err, ErrCancelled) || Is(err, ErrMalformedProject)
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that are not defined in this package.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityInfo
	}
	var c classified
	if As(err, &c) {
		return c.Severity()
	}
	if Is(err, ErrCancelled) {
		return SeverityInfo
	}
	return SeverityError
}

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
