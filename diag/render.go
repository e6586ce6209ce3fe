package diag

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	// Color enables ANSI styling.
	Color bool
	// Context is the number of source lines shown before and after the primary line.
	Context int
}

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	gutterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Render writes e as a source excerpt with the span underlined:
//
//	error[missing punctuation]: expected `;` after variable declaration
//	 --> main.lox:1:10
//	  |
//	1 | var x = 1
//	  |          ^
func (e *Error) Render(w io.Writer, opts RenderOptions) error {
	style := func(s lipgloss.Style, text string) string {
		if !opts.Color {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	b.WriteString(style(headerStyle, fmt.Sprintf("error[%v]", e.Kind)))
	b.WriteString(": ")
	b.WriteString(e.Msg)
	b.WriteString("\n")

	if e.Source == nil {
		_, err := io.WriteString(w, b.String())
		return err
	}

	line, col := e.Source.Position(e.Span.Start)
	first := max(1, line-opts.Context)
	last := min(e.Source.LineCount(), line+opts.Context)
	width := len(strconv.Itoa(last))
	pad := strings.Repeat(" ", width)

	fmt.Fprintf(&b, "%s%s %s:%d:%d\n", pad, style(gutterStyle, "-->"), name(e.Source), line, col)
	fmt.Fprintf(&b, "%s %s\n", pad, style(gutterStyle, "|"))
	for n := first; n <= last; n++ {
		text := e.Source.Line(n)
		fmt.Fprintf(&b, "%s %s\n", style(gutterStyle, fmt.Sprintf("%*d |", width, n)), text)
		if n == line {
			fmt.Fprintf(&b, "%s %s %s\n", pad, style(gutterStyle, "|"), style(markStyle, underline(text, col, e.Span.Len())))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// String renders e without color and with one line of context.
func (e *Error) String() string {
	var b strings.Builder
	_ = e.Render(&b, RenderOptions{Context: 1})
	return b.String()
}

// underline returns the marker line for a span starting at the 1-based rune column col of text.
// Tabs in the prefix are kept so the marker lines up with the source.
func underline(text string, col, length int) string {
	var b strings.Builder
	i := 0
	for _, r := range text {
		if i >= col-1 {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
		i++
	}
	b.WriteRune('^')

	// The marker is clipped to the end of the line.
	rest := text
	for j := 0; j < col-1 && rest != ""; j++ {
		_, size := utf8.DecodeRuneInString(rest)
		rest = rest[size:]
	}
	if length > len(rest) {
		length = len(rest)
	}
	if n := utf8.RuneCountInString(rest[:length]); n > 1 {
		b.WriteString(strings.Repeat("~", n-1))
	}
	return b.String()
}
