package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/standardbeagle/cheatcheck/internal/types"
)

// Error types for the cheatcheck system
type ErrorType string

const (
	// Setup errors
	ErrorTypeConfig       ErrorType = "config"
	ErrorTypePattern      ErrorType = "pattern"
	ErrorTypeInsufficient ErrorType = "insufficient_input"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypePermission   ErrorType = "permission"
	ErrorTypeFileRejected ErrorType = "file_rejected"

	// Comparison errors
	ErrorTypeScore ErrorType = "score"

	// Report errors
	ErrorTypeLog ErrorType = "log"
)

// ErrInsufficientInput is matched by errors.Is for every InsufficientInputError
var ErrInsufficientInput = errors.New("insufficient input")

// ErrQueueClosed is returned by work queue operations after Close
var ErrQueueClosed = errors.New("work queue closed")

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if isPermissionError(err) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewRejectedFileError creates an error for a readable file that was refused
// (binary content, too large, formatter failure).
func NewRejectedFileError(op, path string, err error) *FileError {
	return &FileError{
		Type:       ErrorTypeFileRejected,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// isPermissionError checks if the error is a permission error
func isPermissionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, fs.ErrPermission) {
		return true
	}
	errStr := err.Error()
	return strings.HasSuffix(errStr, "permission denied") || strings.HasSuffix(errStr, "access denied")
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// PatternError represents an input pattern that could not be expanded
type PatternError struct {
	Type       ErrorType
	Pattern    string
	Underlying error
	Timestamp  time.Time
}

// NewPatternError creates a new pattern error
func NewPatternError(pattern string, err error) *PatternError {
	return &PatternError{
		Type:       ErrorTypePattern,
		Pattern:    pattern,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %q is not valid and will be ignored: %v", e.Pattern, e.Underlying)
}

// Unwrap returns the underlying error
func (e *PatternError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
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

// InsufficientInputError is returned when fewer files than needed for a
// single comparison survive resolution and loading.
type InsufficientInputError struct {
	Type      ErrorType
	Found     int
	Required  int
	Timestamp time.Time
}

// NewInsufficientInputError creates a new insufficient input error
func NewInsufficientInputError(found int) *InsufficientInputError {
	return &InsufficientInputError{
		Type:      ErrorTypeInsufficient,
		Found:     found,
		Required:  types.MinFilesToCompare,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("got %d files to compare, need at least %d", e.Found, e.Required)
}

// Is matches ErrInsufficientInput
func (e *InsufficientInputError) Is(target error) bool {
	return target == ErrInsufficientInput
}

// ScoreError represents a comparison job that failed inside a worker.
// Scoring is total for in-memory text, so this always indicates a bug;
// the job is dropped and the run continues.
type ScoreError struct {
	Type       ErrorType
	Pair       types.Pair
	WorkerID   int
	Panic      any
	Underlying error
	Timestamp  time.Time
}

// NewScoreError creates a new score error for a pair
func NewScoreError(pair types.Pair, err error) *ScoreError {
	return &ScoreError{
		Type:       ErrorTypeScore,
		Pair:       pair,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewScorePanicError converts a recovered panic value into a score error
func NewScorePanicError(pair types.Pair, recovered any) *ScoreError {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%v", recovered)
	}
	e := NewScoreError(pair, err)
	e.Panic = recovered
	return e
}

// WithWorker records which worker ran the job
func (e *ScoreError) WithWorker(workerID int) *ScoreError {
	e.WorkerID = workerID
	return e
}

// IsPanic reports whether the failure came from a recovered panic
func (e *ScoreError) IsPanic() bool {
	return e.Panic != nil
}

// Error implements the error interface
func (e *ScoreError) Error() string {
	if e.IsPanic() {
		return fmt.Sprintf("score %s panicked in worker %d: %v", e.Pair, e.WorkerID, e.Underlying)
	}
	return fmt.Sprintf("score %s failed in worker %d: %v", e.Pair, e.WorkerID, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ScoreError) Unwrap() error {
	return e.Underlying
}

// LogWriteError represents a failure to create or write the persisted report
type LogWriteError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewLogWriteError creates a new log write error
func NewLogWriteError(op, path string, err error) *LogWriteError {
	return &LogWriteError{
		Type:       ErrorTypeLog,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *LogWriteError) Error() string {
	return fmt.Sprintf("log %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *LogWriteError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrOrNil returns nil when no errors were collected
func (e *MultiError) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
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
