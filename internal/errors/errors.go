package errors

import (
	"errors"
	"fmt"

	"github.com/mcncl/typedjson/jsonvalue"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe JSON data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrInvalidPath     = errors.New("invalid path expression")
	ErrNotEqual        = errors.New("documents differ")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput    ErrorType = "input"
	ErrorTypeParsing  ErrorType = "parsing"
	ErrorTypePath     ErrorType = "path"
	ErrorTypeDecode   ErrorType = "decode"
	ErrorTypeAnalysis ErrorType = "analysis"
	ErrorTypeGenerate ErrorType = "generate"
	ErrorTypeFormat   ErrorType = "format"
	ErrorTypeOutput   ErrorType = "output"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same type
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newError(typ ErrorType, message string, err error) *AppError {
	return &AppError{Type: typ, Message: message, Err: err}
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to JSON parsing
func NewParsingError(message string, err error) *AppError {
	return newError(ErrorTypeParsing, message, err)
}

// NewPathError creates a new error related to path parsing or resolution
func NewPathError(message string, err error) *AppError {
	return newError(ErrorTypePath, message, err)
}

// NewDecodeError creates a new error related to typed conversion
func NewDecodeError(message string, err error) *AppError {
	return newError(ErrorTypeDecode, message, err)
}

// NewAnalysisError creates a new error related to type analysis
func NewAnalysisError(message string, err error) *AppError {
	return newError(ErrorTypeAnalysis, message, err)
}

// NewGenerateError creates a new error related to code generation
func NewGenerateError(message string, err error) *AppError {
	return newError(ErrorTypeGenerate, message, err)
}

// NewFormatError creates a new error related to code formatting
func NewFormatError(message string, err error) *AppError {
	return newError(ErrorTypeFormat, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		detail := appErr.Message
		if hint := valueErrorHint(appErr.Err); hint != "" {
			detail += " (" + hint + ")"
		}
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", detail)
		case ErrorTypeParsing:
			return fmt.Sprintf("JSON parsing error: %s", detail)
		case ErrorTypePath:
			return fmt.Sprintf("Path error: %s", detail)
		case ErrorTypeDecode:
			return fmt.Sprintf("Conversion error: %s", detail)
		case ErrorTypeAnalysis:
			return fmt.Sprintf("Type analysis error: %s", detail)
		case ErrorTypeGenerate:
			return fmt.Sprintf("Code generation error: %s", detail)
		case ErrorTypeFormat:
			return fmt.Sprintf("Code formatting error: %s", detail)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", detail)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", detail)
		default:
			return fmt.Sprintf("Error: %s", detail)
		}
	}

	if hint := valueErrorHint(err); hint != "" {
		return "Error: " + hint
	}

	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide valid JSON data."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrMultipleJSON) {
		return "Error: Multiple JSON values found. Please provide a single JSON object or array."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with valid JSON content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe JSON data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrInvalidPath) {
		return "Error: Invalid path expression. Use keys separated by dots and [n] for indexes, e.g. items[0].name."
	}
	if errors.Is(err, ErrNotEqual) {
		return "Error: The documents differ."
	}

	return fmt.Sprintf("Error: %v", err)
}

// valueErrorHint describes a *jsonvalue.Error in plain words
func valueErrorHint(err error) string {
	var verr *jsonvalue.Error
	if !errors.As(err, &verr) {
		return ""
	}
	switch verr.Kind {
	case jsonvalue.MissingKey:
		return fmt.Sprintf("no key %q at this path", verr.Key)
	case jsonvalue.IndexOutOfBounds:
		return fmt.Sprintf("index %d is out of range", verr.Index)
	case jsonvalue.InvalidStepForContainer:
		return fmt.Sprintf("cannot step into this %s", verr.Container)
	case jsonvalue.Inconvertible:
		return fmt.Sprintf("value %s does not convert to %s", verr.Value.Stringify(false), verr.Target)
	case jsonvalue.Missing:
		return "the document is null"
	case jsonvalue.InvalidForEncoding:
		return "the value cannot be written as JSON"
	}
	return verr.Error()
}
