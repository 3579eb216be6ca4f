package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeCompile    ErrorType = "compile"
	ErrorTypeSource     ErrorType = "source"
	ErrorTypeEvaluation ErrorType = "evaluation"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeInternal   ErrorType = "internal"
)

// Error codes used across the tool.
const (
	ErrCodeUnbalancedMarker = "T001"
	ErrCodePatternCompile   = "T002"
	ErrCodeTemplateSource   = "S001"
	ErrCodeMessageSource    = "S002"
	ErrCodeMissingColumn    = "S003"
	ErrCodeEvaluationPanic  = "E001"
	ErrCodeConfigInvalid    = "C001"
)

// CovscanError is a structured error type with context.
type CovscanError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Sender      string
	FilePath    string
	Line        int
	Recoverable bool
}

// Error implements the error interface.
func (e *CovscanError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Sender != "" {
		parts = append(parts, "sender:"+e.Sender)
	}

	if e.FilePath != "" {
		location := e.FilePath
		if e.Line > 0 {
			location += fmt.Sprintf(":%d", e.Line)
		}
		parts = append(parts, location)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *CovscanError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison by type and code.
func (e *CovscanError) Is(target error) bool {
	var t *CovscanError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithSender adds sender context to the error.
func (e *CovscanError) WithSender(sender string) *CovscanError {
	e.Sender = sender

	return e
}

// WithLocation adds file location information.
func (e *CovscanError) WithLocation(filePath string, line int) *CovscanError {
	e.FilePath = filePath
	e.Line = line

	return e
}

// Error creation functions

// NewCompileError creates a template compilation error. Compile errors are
// recoverable: the caller drops the offending template and continues.
func NewCompileError(code, message string, cause error) *CovscanError {
	return &CovscanError{
		Type:        ErrorTypeCompile,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewSourceError creates a source-loading error. Source errors are fatal:
// without a template registry or a message batch there is nothing to run.
func NewSourceError(code, message string, cause error) *CovscanError {
	return &CovscanError{
		Type:        ErrorTypeSource,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewEvaluationError creates a per-record evaluation error. Evaluation
// errors are absorbed at the unit boundary and the record defaults to
// uncovered.
func NewEvaluationError(code, message string, cause error) *CovscanError {
	return &CovscanError{
		Type:        ErrorTypeEvaluation,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration validation error.
func NewConfigError(code, message string) *CovscanError {
	return &CovscanError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// AsCovscan is a convenience wrapper over errors.As for callers that
// shadow the stdlib errors package with this one.
func AsCovscan(err error, target **CovscanError) bool {
	return errors.As(err, target)
}

// IsFatal reports whether err should abort the run rather than be absorbed.
func IsFatal(err error) bool {
	var ce *CovscanError
	if errors.As(err, &ce) {
		return !ce.Recoverable
	}

	return true
}
