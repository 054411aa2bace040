package errors

import (
	"errors"
	"fmt"

	"github.com/mcncl/gotoon/toon"
)

// Standard application errors
var (
	ErrEmptyInput         = errors.New("input is empty or contains only whitespace")
	ErrInvalidInput       = errors.New("input is not a valid document")
	ErrMultipleDocuments  = errors.New("multiple values found at the root, only one is allowed")
	ErrFileNotFound       = errors.New("file not found")
	ErrFileEmpty          = errors.New("file is empty")
	ErrNoInput            = errors.New("no input provided: please specify a file with -i or pipe data to stdin")
	ErrUnsupportedFormat  = errors.New("unsupported format")
	ErrRoundTripMismatch  = errors.New("decoded document differs from the input")
	ErrInvalidFlatMapping = errors.New("flat mapping must be an object")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeParsing ErrorType = "parsing"
	ErrorTypeEncode  ErrorType = "encode"
	ErrorTypeDecode  ErrorType = "decode"
	ErrorTypeExpand  ErrorType = "expand"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeUnknown ErrorType = "unknown"
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

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

func newAppError(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

// NewInputError creates a new error related to reading input
func NewInputError(message string, err error) *AppError {
	return newAppError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to parsing JSON, YAML or TOML input
func NewParsingError(message string, err error) *AppError {
	return newAppError(ErrorTypeParsing, message, err)
}

// NewEncodeError creates a new error related to TOON encoding
func NewEncodeError(message string, err error) *AppError {
	return newAppError(ErrorTypeEncode, message, err)
}

// NewDecodeError creates a new error related to TOON decoding
func NewDecodeError(message string, err error) *AppError {
	return newAppError(ErrorTypeDecode, message, err)
}

// NewExpandError creates a new error related to path expansion
func NewExpandError(message string, err error) *AppError {
	return newAppError(ErrorTypeExpand, message, err)
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return newAppError(ErrorTypeConfig, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newAppError(ErrorTypeOutput, message, err)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeParsing:
			return fmt.Sprintf("Parsing error: %s", withCause(appErr))
		case ErrorTypeEncode:
			return fmt.Sprintf("Encoding error: %s", withCause(appErr))
		case ErrorTypeDecode:
			return fmt.Sprintf("TOON decoding error: %s", withCause(appErr))
		case ErrorTypeExpand:
			return fmt.Sprintf("Path expansion error: %s", withCause(appErr))
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", withCause(appErr))
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	if de, ok := toon.IsDecodeError(err); ok {
		return "TOON decoding error: " + describeDecodeError(de)
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide a document."
	}
	if errors.Is(err, ErrInvalidInput) {
		return "Error: The input could not be parsed. Please check its syntax."
	}
	if errors.Is(err, ErrMultipleDocuments) {
		return "Error: Multiple values found. Please provide a single object or array."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty. Please provide a file with content."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe data to stdin."
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		return "Error: Unsupported format. Use json, yaml, toml or toon."
	}
	if errors.Is(err, ErrRoundTripMismatch) {
		return "Error: The document did not survive an encode/decode round trip."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}

// withCause appends the decode position when the cause is a TOON error.
func withCause(appErr *AppError) string {
	if de, ok := toon.IsDecodeError(appErr.Err); ok {
		return fmt.Sprintf("%s (%s)", appErr.Message, describeDecodeError(de))
	}
	return appErr.Message
}

func describeDecodeError(de *toon.DecodeError) string {
	msg := string(de.Kind)
	if de.Line > 0 {
		msg += fmt.Sprintf(" on line %d", de.Line)
	}
	if de.Path != "" {
		msg += fmt.Sprintf(" at path %q", de.Path)
	}
	if de.Message != "" {
		msg += ": " + de.Message
	}
	return msg
}
