package toon

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes decode failures.
type ErrorKind string

const (
	MalformedIndent                ErrorKind = "malformed indent"
	UnterminatedQuotedString       ErrorKind = "unterminated quoted string"
	MalformedKeyToken              ErrorKind = "malformed key token"
	MalformedValueToken            ErrorKind = "malformed value token"
	DeclaredLengthMismatch         ErrorKind = "declared length mismatch"
	BlankLineInArrayBody           ErrorKind = "blank line in array body"
	ExtraItemsBeyondDeclaredLength ErrorKind = "extra items beyond declared length"
	DuplicateKey                   ErrorKind = "duplicate key"
	UnexpectedContent              ErrorKind = "unexpected content"
	StructuralPathConflict         ErrorKind = "structural path conflict"
)

// Sentinels for errors.Is. Only the kind is compared.
var (
	ErrMalformedIndent                = &DecodeError{Kind: MalformedIndent}
	ErrUnterminatedQuotedString       = &DecodeError{Kind: UnterminatedQuotedString}
	ErrMalformedKeyToken              = &DecodeError{Kind: MalformedKeyToken}
	ErrMalformedValueToken            = &DecodeError{Kind: MalformedValueToken}
	ErrDeclaredLengthMismatch         = &DecodeError{Kind: DeclaredLengthMismatch}
	ErrBlankLineInArrayBody           = &DecodeError{Kind: BlankLineInArrayBody}
	ErrExtraItemsBeyondDeclaredLength = &DecodeError{Kind: ExtraItemsBeyondDeclaredLength}
	ErrDuplicateKey                   = &DecodeError{Kind: DuplicateKey}
	ErrUnexpectedContent              = &DecodeError{Kind: UnexpectedContent}
	ErrStructuralPathConflict         = &DecodeError{Kind: StructuralPathConflict}
)

// DecodeError reports malformed input. Line is 1-based; 0 means no line applies.
// Path is set for path expansion conflicts.
type DecodeError struct {
	Kind    ErrorKind
	Line    int
	Path    string
	Message string
	Err     error
}

// Error implements error interface
func (e *DecodeError) Error() string {
	msg := "toon: " + string(e.Kind)
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" at path %q", e.Path)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns wrapped error
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches any *DecodeError of the same kind.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

func newDecodeError(kind ErrorKind, line int, message string) *DecodeError {
	return &DecodeError{Kind: kind, Line: line, Message: message}
}

func decodeErrorf(kind ErrorKind, line int, format string, args ...any) *DecodeError {
	return newDecodeError(kind, line, fmt.Sprintf(format, args...))
}

// IsDecodeError reports whether err carries a *DecodeError and returns it.
func IsDecodeError(err error) (*DecodeError, bool) {
	var de *DecodeError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// EncodeError reports a value or option the encoder cannot represent.
// Normalized trees never produce one; invalid options do.
type EncodeError struct {
	Message string
}

// Error implements error interface
func (e *EncodeError) Error() string {
	return "toon: encode: " + e.Message
}
