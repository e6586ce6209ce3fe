// Package diag defines the diagnostics reported by the lexer and the parser.
package diag

import (
	"fmt"

	"github.com/takoeight0821/loxfront/source"
	"github.com/takoeight0821/loxfront/token"
)

type Kind int

const (
	InvalidCharacter Kind = iota
	UnterminatedString
	// MalformedNumber cannot be produced by the digit-only number grammar.
	MalformedNumber
	UnexpectedToken
	MissingDelimiter
	MissingPunctuation
	ExpectedExpression
	ExpectedStatementStart
	NestingTooDeep
	UndefinedName
	DuplicateName
)

func (k Kind) String() string {
	switch k {
	case InvalidCharacter:
		return "invalid character"
	case UnterminatedString:
		return "unterminated string"
	case MalformedNumber:
		return "malformed number"
	case UnexpectedToken:
		return "unexpected token"
	case MissingDelimiter:
		return "missing delimiter"
	case MissingPunctuation:
		return "missing punctuation"
	case ExpectedExpression:
		return "expected expression"
	case ExpectedStatementStart:
		return "expected statement"
	case NestingTooDeep:
		return "nesting too deep"
	case UndefinedName:
		return "undefined name"
	case DuplicateName:
		return "duplicate name"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a diagnostic pointing at a span of the source.
type Error struct {
	Kind   Kind
	Msg    string
	Source *source.Source
	Span   token.Span
}

func New(kind Kind, src *source.Source, span token.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Source: src, Span: span}
}

// At builds a diagnostic located at tok.
func At(kind Kind, src *source.Source, tok token.Token, format string, args ...any) *Error {
	return New(kind, src, tok.Span, format, args...)
}

func (e *Error) Error() string {
	if e.Source == nil {
		return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
	}
	line, col := e.Source.Position(e.Span.Start)
	return fmt.Sprintf("%s:%d:%d: %v: %s", name(e.Source), line, col, e.Kind, e.Msg)
}

// Is reports whether err contains a diagnostic of the given kind.
func Is(err error, kind Kind) bool {
	for _, d := range All(err) {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// All returns every diagnostic joined into err, in order.
func All(err error) []*Error {
	if err == nil {
		return nil
	}
	if d, ok := err.(*Error); ok {
		return []*Error{d}
	}
	var out []*Error
	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, err := range e.Unwrap() {
			out = append(out, All(err)...)
		}
	case interface{ Unwrap() error }:
		out = All(e.Unwrap())
	}
	return out
}

func name(src *source.Source) string {
	if src.Name == "" {
		return "<input>"
	}
	return src.Name
}
