package token

import (
	"fmt"
	"strconv"
)

type Kind int

const (
	EOF Kind = iota

	// Single-character tokens.
	LEFTPAREN
	RIGHTPAREN
	LEFTBRACE
	RIGHTBRACE
	LEFTBRACKET
	RIGHTBRACKET
	COMMA
	DOT
	MINUS
	PLUS
	SEMICOLON
	SLASH
	STAR

	// One or two character tokens.
	BANG
	BANGEQUAL
	EQUAL
	EQUALEQUAL
	GREATER
	GREATEREQUAL
	LESS
	LESSEQUAL

	// Literals and identifiers.
	IDENT
	STRING
	NUMBER

	// Keywords.
	AND
	CLASS
	ELSE
	FALSE
	FOR
	FUN
	IF
	NIL
	OR
	PRINT
	RETURN
	SUPER
	THIS
	TRUE
	VAR
	WHILE

	// Synthetic kinds. The scanner never produces these; they only appear as ast.NonTerm operators.
	GROUP
	CALL
	INDEX
	BLOCK
)

// kindNames has one entry per Kind constant above, in the same order.
// A Kind added to the const block needs its name here; TestKindNames fails otherwise.
var kindNames = [...]string{
	EOF:          "EOF",
	LEFTPAREN:    "LEFTPAREN",
	RIGHTPAREN:   "RIGHTPAREN",
	LEFTBRACE:    "LEFTBRACE",
	RIGHTBRACE:   "RIGHTBRACE",
	LEFTBRACKET:  "LEFTBRACKET",
	RIGHTBRACKET: "RIGHTBRACKET",
	COMMA:        "COMMA",
	DOT:          "DOT",
	MINUS:        "MINUS",
	PLUS:         "PLUS",
	SEMICOLON:    "SEMICOLON",
	SLASH:        "SLASH",
	STAR:         "STAR",
	BANG:         "BANG",
	BANGEQUAL:    "BANGEQUAL",
	EQUAL:        "EQUAL",
	EQUALEQUAL:   "EQUALEQUAL",
	GREATER:      "GREATER",
	GREATEREQUAL: "GREATEREQUAL",
	LESS:         "LESS",
	LESSEQUAL:    "LESSEQUAL",
	IDENT:        "IDENT",
	STRING:       "STRING",
	NUMBER:       "NUMBER",
	AND:          "AND",
	CLASS:        "CLASS",
	ELSE:         "ELSE",
	FALSE:        "FALSE",
	FOR:          "FOR",
	FUN:          "FUN",
	IF:           "IF",
	NIL:          "NIL",
	OR:           "OR",
	PRINT:        "PRINT",
	RETURN:       "RETURN",
	SUPER:        "SUPER",
	THIS:         "THIS",
	TRUE:         "TRUE",
	VAR:          "VAR",
	WHILE:        "WHILE",
	GROUP:        "GROUP",
	CALL:         "CALL",
	INDEX:        "INDEX",
	BLOCK:        "BLOCK",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

var lexemes = map[Kind]string{
	LEFTPAREN:    "(",
	RIGHTPAREN:   ")",
	LEFTBRACE:    "{",
	RIGHTBRACE:   "}",
	LEFTBRACKET:  "[",
	RIGHTBRACKET: "]",
	COMMA:        ",",
	DOT:          ".",
	MINUS:        "-",
	PLUS:         "+",
	SEMICOLON:    ";",
	SLASH:        "/",
	STAR:         "*",
	BANG:         "!",
	BANGEQUAL:    "!=",
	EQUAL:        "=",
	EQUALEQUAL:   "==",
	GREATER:      ">",
	GREATEREQUAL: ">=",
	LESS:         "<",
	LESSEQUAL:    "<=",
	GROUP:        "group",
	CALL:         "call",
	INDEX:        "index",
	BLOCK:        "block",
}

// Lexeme returns the fixed source text of k, or its lower-case name when k has no fixed text.
// For keywords it is the keyword itself.
func (k Kind) Lexeme() string {
	if s, ok := lexemes[k]; ok {
		return s
	}
	if k.IsKeyword() {
		return keywordText[k]
	}
	switch k {
	case EOF:
		return "end of input"
	case IDENT:
		return "identifier"
	case STRING:
		return "string"
	case NUMBER:
		return "number"
	}
	return k.String()
}

func (k Kind) IsKeyword() bool {
	return k >= AND && k <= WHILE
}

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

type Token struct {
	Kind Kind
	Span Span
	Line int
	// Value is the parsed literal of a NUMBER token.
	Value float64
}

func (t Token) String() string {
	if t.Kind == NUMBER {
		return fmt.Sprintf("{%v, %v, %d, %s}", t.Kind, t.Span, t.Line, strconv.FormatFloat(t.Value, 'f', -1, 64))
	}
	return fmt.Sprintf("{%v, %v, %d}", t.Kind, t.Span, t.Line)
}

func (t Token) Base() Token {
	return t
}
