// Package lexer turns source text into tokens.
package lexer

import (
	"io"
	"iter"
	"strconv"

	"github.com/takoeight0821/loxfront/diag"
	"github.com/takoeight0821/loxfront/source"
	"github.com/takoeight0821/loxfront/token"
)

// Lex scans the whole source.
// The result always ends with exactly one EOF token.
// On the first lexical error it returns that error and no tokens.
func Lex(src *source.Source) ([]token.Token, error) {
	var tokens []token.Token
	for tok, err := range NewScanner(src).All() {
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Scanner produces tokens on demand.
type Scanner struct {
	src *source.Source
	cur *Cursor

	start     int // start of current lexeme
	startLine int // line of current lexeme
	line      int // current line number
	done      bool
}

func NewScanner(src *source.Source) *Scanner {
	s := &Scanner{src: src}
	s.Reset()
	return s
}

// Reset moves the scanner back to the start of the source.
func (s *Scanner) Reset() {
	s.cur = NewCursor(s.src.Text)
	s.start = 0
	s.startLine = 1
	s.line = 1
	s.done = false
}

// All returns the token sequence from the start of the source.
// The sequence ends after the EOF token.
func (s *Scanner) All() iter.Seq2[token.Token, error] {
	return func(yield func(token.Token, error) bool) {
		s.Reset()
		for {
			tok, err := s.Next()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) {
				return
			}
		}
	}
}

// Next scans one token.
// Once EOF has been returned, Next returns io.EOF.
// Lexical errors are *diag.Error values; scanning may continue after them.
func (s *Scanner) Next() (token.Token, error) {
	if s.done {
		return token.Token{}, io.EOF
	}

	s.skipTrivia()
	s.start = s.cur.LengthConsumed()
	s.startLine = s.line

	char, ok := s.cur.Bump()
	if !ok {
		s.done = true
		return s.token(token.EOF), nil
	}

	switch char {
	case '(':
		return s.token(token.LEFTPAREN), nil
	case ')':
		return s.token(token.RIGHTPAREN), nil
	case '{':
		return s.token(token.LEFTBRACE), nil
	case '}':
		return s.token(token.RIGHTBRACE), nil
	case '[':
		return s.token(token.LEFTBRACKET), nil
	case ']':
		return s.token(token.RIGHTBRACKET), nil
	case ',':
		return s.token(token.COMMA), nil
	case '.':
		return s.token(token.DOT), nil
	case '-':
		return s.token(token.MINUS), nil
	case '+':
		return s.token(token.PLUS), nil
	case ';':
		return s.token(token.SEMICOLON), nil
	case '/':
		return s.token(token.SLASH), nil
	case '*':
		return s.token(token.STAR), nil
	case '!':
		return s.orEqual(token.BANGEQUAL, token.BANG), nil
	case '=':
		return s.orEqual(token.EQUALEQUAL, token.EQUAL), nil
	case '<':
		return s.orEqual(token.LESSEQUAL, token.LESS), nil
	case '>':
		return s.orEqual(token.GREATEREQUAL, token.GREATER), nil
	case '"':
		return s.string()
	}

	if isDigit(char) {
		return s.number()
	}
	if isAlpha(char) {
		return s.identifier(), nil
	}

	return token.Token{}, diag.New(diag.InvalidCharacter, s.src, s.span(), "unexpected character %q", char)
}

func (s *Scanner) span() token.Span {
	return token.Span{Start: s.start, End: s.cur.LengthConsumed()}
}

func (s *Scanner) token(kind token.Kind) token.Token {
	return token.Token{Kind: kind, Span: s.span(), Line: s.startLine}
}

func (s *Scanner) skipTrivia() {
	for !s.cur.IsEOF() {
		switch s.cur.First() {
		case ' ', '\t', '\r':
			s.cur.Bump()
		case '\n':
			s.cur.Bump()
			s.line++
		case '/':
			if s.cur.Second() != '/' {
				return
			}
			s.cur.EatWhile(func(r rune) bool { return r != '\n' })
		default:
			return
		}
	}
}

// orEqual looks at exactly one character and consumes it only if it is '='.
func (s *Scanner) orEqual(withEqual, alone token.Kind) token.Token {
	if s.cur.First() == '=' {
		s.cur.Bump()
		return s.token(withEqual)
	}
	return s.token(alone)
}

func (s *Scanner) string() (token.Token, error) {
	for {
		char, ok := s.cur.Bump()
		if !ok {
			return token.Token{}, diag.New(diag.UnterminatedString, s.src, s.span(), "unterminated string")
		}
		if char == '\n' {
			s.line++
		}
		if char == '"' {
			return s.token(token.STRING), nil
		}
	}
}

// number scans digits, then a fraction only when a digit follows the dot.
// "1." is NUMBER followed by DOT.
func (s *Scanner) number() (token.Token, error) {
	s.cur.EatWhile(isDigit)
	if s.cur.First() == '.' && isDigit(s.cur.Second()) {
		s.cur.Bump()
		s.cur.EatWhile(isDigit)
	}

	text := s.src.Text[s.start:s.cur.LengthConsumed()]
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token.Token{}, diag.New(diag.MalformedNumber, s.src, s.span(), "invalid number %s: %v", text, err)
	}
	tok := s.token(token.NUMBER)
	tok.Value = value
	return tok, nil
}

func (s *Scanner) identifier() token.Token {
	s.cur.EatWhile(isAlnum)
	return s.token(token.Lookup(s.src.Text[s.start:s.cur.LengthConsumed()]))
}

func isDigit(c rune) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c rune) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isAlnum(c rune) bool {
	return isAlpha(c) || isDigit(c)
}
