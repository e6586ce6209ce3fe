package driver

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/takoeight0821/loxfront/ast"
	"github.com/takoeight0821/loxfront/diag"
	"github.com/takoeight0821/loxfront/lexer"
	"github.com/takoeight0821/loxfront/parser"
	"github.com/takoeight0821/loxfront/source"
)

type Pass interface {
	Init([]ast.Node) error
	Run([]ast.Node) ([]ast.Node, error)
}

type PassRunner struct {
	passes  []Pass
	options []parser.Option
	logger  *slog.Logger
}

func NewPassRunner() *PassRunner {
	return &PassRunner{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// SetLogger sets the logger used by the runner and by the parser it creates.
func (r *PassRunner) SetLogger(logger *slog.Logger) {
	r.logger = logger
}

// AddParserOption adds an option passed to every parser the runner creates.
func (r *PassRunner) AddParserOption(opt parser.Option) {
	r.options = append(r.options, opt)
}

// AddPass adds a pass to the end of the pass list.
func (r *PassRunner) AddPass(pass Pass) {
	r.passes = append(r.passes, pass)
}

// Run executes passes in order.
// If an error occurs, it stops the execution and returns the current program.
func (r *PassRunner) Run(program []ast.Node) ([]ast.Node, error) {
	for _, pass := range r.passes {
		r.logger.Debug("run pass", "pass", fmt.Sprintf("%T", pass), "nodes", len(program))
		err := pass.Init(program)
		if err != nil {
			return program, fmt.Errorf("init: %w", err)
		}
		program, err = pass.Run(program)
		if err != nil {
			return program, fmt.Errorf("run: %w", err)
		}
	}

	return program, nil
}

// RunSource parses the source code and executes passes in order.
// The source is parsed as a program first. If that fails, it is parsed as a single expression,
// so that the REPL accepts both `var x = 1;` and `1 + 2`.
func (r *PassRunner) RunSource(src *source.Source) ([]ast.Node, error) {
	tokens, err := lexer.Lex(src)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}
	r.logger.Debug("lexed", "source", src.Name, "tokens", len(tokens))

	opts := append([]parser.Option{parser.WithLogger(r.logger)}, r.options...)

	program, errProgram := parser.New(src, tokens, opts...).ParseProgram()
	if errProgram == nil {
		r.logger.Debug("parsed program", "source", src.Name, "statements", len(program))
		return r.Run(program)
	}

	expr, errExpr := parser.New(src, tokens, opts...).ParseExpr()
	if errExpr == nil {
		r.logger.Debug("parsed expression", "source", src.Name)
		return r.Run([]ast.Node{expr})
	}

	// Input whose first statement cannot start was most likely meant as an expression.
	if diags := diag.All(errProgram); len(diags) > 0 && diags[0].Kind == diag.ExpectedStatementStart {
		return nil, fmt.Errorf("parse: %w", errExpr)
	}
	return nil, fmt.Errorf("parse: %w", errProgram)
}

// RunProgram parses the source code as a program only and executes passes in order.
func (r *PassRunner) RunProgram(src *source.Source) ([]ast.Node, error) {
	tokens, err := lexer.Lex(src)
	if err != nil {
		return nil, fmt.Errorf("lex: %w", err)
	}
	r.logger.Debug("lexed", "source", src.Name, "tokens", len(tokens))

	opts := append([]parser.Option{parser.WithLogger(r.logger)}, r.options...)
	program, err := parser.New(src, tokens, opts...).ParseProgram()
	if err != nil {
		return program, fmt.Errorf("parse: %w", err)
	}
	r.logger.Debug("parsed program", "source", src.Name, "statements", len(program))
	return r.Run(program)
}
