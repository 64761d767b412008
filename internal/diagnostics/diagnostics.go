// Package diagnostics defines the span-carrying error type shared by
// the front end and the runtime, and renders errors against source text.
package diagnostics

import (
	"fmt"

	"github.com/hydorlang/hydor/internal/token"
)

// Error is a single diagnostic attributed to a source span.
type Error struct {
	Code    string
	Span    token.Span
	File    string
	Message string
}

func (e *Error) Error() string {
	if e.Span.Line > 0 {
		return fmt.Sprintf("[%s] %d:%d: %s", e.Code, e.Span.Line, e.Span.StartColumn, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewError builds a diagnostic blamed on a single token.
func NewError(code string, tok token.Token, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Span:    tok.Span(),
		Message: fmt.Sprintf(format, args...),
	}
}

// NewSpanError builds a diagnostic covering an arbitrary span.
func NewSpanError(code string, span token.Span, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Span:    span,
		Message: fmt.Sprintf(format, args...),
	}
}

// Spanned is implemented by any error that can be attributed to a
// source range. Runtime errors from the VM satisfy it too.
type Spanned interface {
	error
	ErrorSpan() token.Span
}

func (e *Error) ErrorSpan() token.Span { return e.Span }
