// Package parser builds the AST from tokens.
//
// Expressions are parsed by precedence climbing over the binding powers defined in package token.
// Statements are parsed by recursive descent, dispatching on the leading keyword.
package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/takoeight0821/loxfront/ast"
	"github.com/takoeight0821/loxfront/diag"
	"github.com/takoeight0821/loxfront/lexer"
	"github.com/takoeight0821/loxfront/source"
	"github.com/takoeight0821/loxfront/token"
)

// DefaultMaxDepth is the default maximum nesting depth of expressions and statements.
const DefaultMaxDepth = 256

type Parser struct {
	src     *source.Source
	tokens  []token.Token
	current int

	depth    int
	maxDepth int
	recovery bool
	logger   *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithMaxDepth sets the maximum nesting depth.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithRecovery makes ParseProgram keep going after a broken statement.
// Each broken statement is replaced by an *ast.Error and all diagnostics are joined.
func WithRecovery() Option {
	return func(p *Parser) {
		p.recovery = true
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// New creates a parser over tokens, which must end with EOF as produced by lexer.Lex.
func New(src *source.Source, tokens []token.Token, opts ...Option) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		panic("parser: token stream does not end with EOF")
	}
	p := &Parser{
		src:      src,
		tokens:   tokens,
		maxDepth: DefaultMaxDepth,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse lexes and parses a whole program.
func Parse(src *source.Source, opts ...Option) ([]ast.Node, error) {
	tokens, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	return New(src, tokens, opts...).ParseProgram()
}

// ParseExpr lexes and parses a single expression that must span the whole input.
func ParseExpr(src *source.Source, opts ...Option) (ast.Node, error) {
	tokens, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	return New(src, tokens, opts...).ParseExpr()
}

// ParseExpr parses one expression followed by EOF.
func (p *Parser) ParseExpr() (ast.Node, error) {
	node, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	if !p.match(token.EOF) {
		return nil, p.errorAt(p.peek(), diag.UnexpectedToken, "unexpected %s after expression", p.describe(p.peek()))
	}
	return node, nil
}

// ParseProgram parses statements until EOF.
// Without WithRecovery it stops at the first error.
func (p *Parser) ParseProgram() ([]ast.Node, error) {
	nodes := []ast.Node{}
	var errs error
	for !p.match(token.EOF) {
		start := p.peek()
		node, err := p.ParseStatement()
		if err != nil {
			if !p.recovery {
				return nil, err
			}
			p.logger.Debug("recovered from parse error", "error", err)
			errs = errors.Join(errs, err)
			nodes = append(nodes, &ast.Error{Token: start})
			p.synchronize()
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes, errs
}

// AtEnd reports whether only EOF is left.
func (p *Parser) AtEnd() bool {
	return p.match(token.EOF)
}

// synchronize skips to the start of the next statement.
func (p *Parser) synchronize() {
	for !p.match(token.EOF) {
		tok := p.advance()
		if tok.Kind == token.SEMICOLON || tok.Kind == token.RIGHTBRACE {
			return
		}
		//exhaustive:ignore
		switch p.peek().Kind {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN, token.ELSE:
			return
		}
	}
}

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		p.depth--
		return p.errorAt(p.peek(), diag.NestingTooDeep, "nesting exceeds the maximum depth of %d", p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() {
	p.depth--
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

// advance consumes the current token. The grammar never consumes EOF.
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind == token.EOF {
		panic(fmt.Sprintf("parser: advance past EOF at offset %d", tok.Span.Start))
	}
	p.current++
	return tok
}

func (p *Parser) match(kind token.Kind) bool {
	return p.peek().Kind == kind
}

// expect consumes a token of the given kind or reports a diagnostic at the token found.
func (p *Parser) expect(kind token.Kind, dk diag.Kind, format string, args ...any) (token.Token, error) {
	if p.match(kind) {
		return p.advance(), nil
	}
	msg := fmt.Sprintf(format, args...)
	return token.Token{}, p.errorAt(p.peek(), dk, "%s, found %s", msg, p.describe(p.peek()))
}

func (p *Parser) errorAt(tok token.Token, kind diag.Kind, format string, args ...any) error {
	return diag.At(kind, p.src, tok, format, args...)
}

func (p *Parser) describe(tok token.Token) string {
	if tok.Kind == token.EOF {
		return "end of input"
	}
	return "`" + p.src.Slice(tok.Span) + "`"
}

func (p *Parser) ident(tok token.Token) *ast.Ident {
	return &ast.Ident{Token: tok, Source: p.src}
}
