// Package source holds the text being compiled.
// A *Source is created once per input and shared read-only by the parser, AST leaves and diagnostics.
package source

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/takoeight0821/loxfront/token"
)

type Source struct {
	Name string
	Text string

	lineStarts []int
}

func New(name, text string) *Source {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Source{Name: name, Text: text, lineStarts: starts}
}

func (s *Source) Slice(span token.Span) string {
	start := clamp(span.Start, 0, len(s.Text))
	end := clamp(span.End, start, len(s.Text))
	return s.Text[start:end]
}

// Position converts a byte offset to a 1-based line and a 1-based column counted in runes.
func (s *Source) Position(offset int) (line, col int) {
	offset = clamp(offset, 0, len(s.Text))
	i := sort.Search(len(s.lineStarts), func(i int) bool { return s.lineStarts[i] > offset }) - 1
	col = utf8.RuneCountInString(s.Text[s.lineStarts[i]:offset]) + 1
	return i + 1, col
}

// Line returns the 1-based line n without its trailing newline.
func (s *Source) Line(n int) string {
	if n < 1 || n > len(s.lineStarts) {
		return ""
	}
	start := s.lineStarts[n-1]
	end := len(s.Text)
	if n < len(s.lineStarts) {
		end = s.lineStarts[n] - 1
	}
	return strings.TrimSuffix(s.Text[start:end], "\r")
}

func (s *Source) LineCount() int {
	return len(s.lineStarts)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
