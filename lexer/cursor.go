package lexer

import "unicode/utf8"

// EOFChar is returned by lookahead past the end of input.
const EOFChar = '\x00'

// Cursor walks a string one code point at a time.
// All positions are byte offsets.
type Cursor struct {
	text string
	pos  int
}

func NewCursor(text string) *Cursor {
	return &Cursor{text: text}
}

// Bump consumes one character.
func (c *Cursor) Bump() (rune, bool) {
	if c.IsEOF() {
		return EOFChar, false
	}
	r, width := utf8.DecodeRuneInString(c.text[c.pos:])
	c.pos += width
	return r, true
}

// Current returns the character at the current offset without consuming it.
func (c *Cursor) Current() (rune, bool) {
	if c.IsEOF() {
		return EOFChar, false
	}
	r, _ := utf8.DecodeRuneInString(c.text[c.pos:])
	return r, true
}

func (c *Cursor) First() rune {
	return c.nth(0)
}

func (c *Cursor) Second() rune {
	return c.nth(1)
}

func (c *Cursor) Third() rune {
	return c.nth(2)
}

func (c *Cursor) nth(n int) rune {
	rest := c.text[c.pos:]
	for ; n > 0; n-- {
		if rest == "" {
			return EOFChar
		}
		_, width := utf8.DecodeRuneInString(rest)
		rest = rest[width:]
	}
	if rest == "" {
		return EOFChar
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return r
}

// EatWhile consumes characters while pred holds.
func (c *Cursor) EatWhile(pred func(rune) bool) {
	for !c.IsEOF() && pred(c.First()) {
		c.Bump()
	}
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int {
	return c.pos
}

// LengthConsumed returns the number of bytes consumed so far.
func (c *Cursor) LengthConsumed() int {
	return c.pos
}

func (c *Cursor) IsEOF() bool {
	return c.pos >= len(c.text)
}
