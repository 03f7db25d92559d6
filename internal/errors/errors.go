// Package errors defines the structured error types used outside the
// matching core. The core itself never raises: a file that cannot be read
// contributes nothing and the scan moves on. These types serve the outer
// layers where failures must be reported, not swallowed.
package errors

import (
	"fmt"
	"time"
)

// ErrorType classifies failures for logging and recovery decisions.
type ErrorType string

const (
	// File and traversal errors
	ErrorTypeFileAccess ErrorType = "file_access"
	ErrorTypeWalk       ErrorType = "walk"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Watch mode errors
	ErrorTypeWatch ErrorType = "watch"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// ScanError represents a failure while discovering or processing files.
type ScanError struct {
	Type        ErrorType
	Path        string
	Operation   string
	Underlying  error
	Timestamp   time.Time
	Recoverable bool
}

// NewScanError creates a scan error for the named operation.
func NewScanError(op string, err error) *ScanError {
	return &ScanError{
		Type:       ErrorTypeWalk,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithPath attaches the offending file path.
func (e *ScanError) WithPath(path string) *ScanError {
	e.Path = path
	e.Type = ErrorTypeFileAccess
	return e
}

// WithRecoverable marks whether the scan can continue past this error.
func (e *ScanError) WithRecoverable(recoverable bool) *ScanError {
	e.Recoverable = recoverable
	return e
}

// Error implements the error interface
func (e *ScanError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s failed for %s: %v", e.Type, e.Operation, e.Path, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Type, e.Operation, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *ScanError) Unwrap() error {
	return e.Underlying
}

// IsRecoverable reports whether the scan continued past this error.
func (e *ScanError) IsRecoverable() bool {
	return e.Recoverable
}

// ConfigError represents a configuration load or validation error.
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// WatchError represents a filesystem watch failure.
type WatchError struct {
	Root       string
	Underlying error
	Timestamp  time.Time
}

// NewWatchError creates a new watch error for the watched root.
func NewWatchError(root string, err error) *WatchError {
	return &WatchError{
		Root:       root,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *WatchError) Error() string {
	return fmt.Sprintf("watch failed for %s: %v", e.Root, e.Underlying)
}

// Unwrap returns the underlying error
func (e *WatchError) Unwrap() error {
	return e.Underlying
}

// MultiError aggregates several errors into one.
type MultiError struct {
	Errors []error
}

// NewMultiError creates a multi-error, dropping nil entries.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
