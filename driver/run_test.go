package driver_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/takoeight0821/loxfront/ast"
	"github.com/takoeight0821/loxfront/diag"
	"github.com/takoeight0821/loxfront/driver"
	"github.com/takoeight0821/loxfront/parser"
	"github.com/takoeight0821/loxfront/source"
	"github.com/takoeight0821/loxfront/token"
)

func TestRunSource(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		input    string
		expected string
	}{
		{"var x = 1; print x;", "(var x 1)\n(print x)\n"},
		{"1 + 2", "(+ 1 2)\n"},
		{"f(x)", "(call f x)\n"},
		{"", ""},
	}
	for _, tc := range testcases {
		r := driver.NewPassRunner()
		r.AddPass(driver.ArityCheck{})
		nodes, err := r.RunSource(source.New("", tc.input))
		if err != nil {
			t.Errorf("RunSource(%q) returned error: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(tc.expected, ast.Dump(nodes)); diff != "" {
			t.Errorf("%q mismatch (-want +got):\n%s", tc.input, diff)
		}
	}
}

func TestRunSourceErrors(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		input string
		kind  diag.Kind
	}{
		// A statement error wins when the input starts like a statement.
		{"var x = 1", diag.MissingPunctuation},
		// Otherwise the expression error is reported.
		{"1 +", diag.ExpectedExpression},
		{"\"open", diag.UnterminatedString},
	}
	for _, tc := range testcases {
		_, err := driver.NewPassRunner().RunSource(source.New("", tc.input))
		diags := diag.All(err)
		if len(diags) != 1 || diags[0].Kind != tc.kind {
			t.Errorf("RunSource(%q) error = %v, want one %v", tc.input, err, tc.kind)
		}
	}
}

func TestRunProgramOptions(t *testing.T) {
	t.Parallel()

	r := driver.NewPassRunner()
	r.AddParserOption(parser.WithMaxDepth(3))
	_, err := r.RunProgram(source.New("", "print ((1));"))
	if !diag.Is(err, diag.NestingTooDeep) {
		t.Errorf("error = %v, want nesting too deep", err)
	}

	r = driver.NewPassRunner()
	r.AddParserOption(parser.WithRecovery())
	nodes, err := r.RunProgram(source.New("", "var;\nprint 1;"))
	if len(diag.All(err)) != 1 {
		t.Errorf("error = %v, want one diagnostic", err)
	}
	if diff := cmp.Diff("<error>\n(print 1)\n", ast.Dump(nodes)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	// A later statement that cannot start does not turn the program into an expression.
	_, err = r.RunSource(source.New("", "var = 1;\nx;"))
	var kinds []diag.Kind
	for _, d := range diag.All(err) {
		kinds = append(kinds, d.Kind)
	}
	if diff := cmp.Diff([]diag.Kind{diag.UnexpectedToken, diag.ExpectedStatementStart}, kinds); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

type rewrite struct{}

func (rewrite) Init([]ast.Node) error {
	return nil
}

// Run breaks the arity of every top-level NonTerm.
func (rewrite) Run(program []ast.Node) ([]ast.Node, error) {
	for _, node := range program {
		if n, ok := node.(*ast.NonTerm); ok {
			n.Children = n.Children[:0]
		}
	}
	return program, nil
}

type failing struct{}

func (failing) Init([]ast.Node) error {
	return errors.New("not ready")
}

func (failing) Run(program []ast.Node) ([]ast.Node, error) {
	return program, nil
}

func TestPasses(t *testing.T) {
	t.Parallel()

	r := driver.NewPassRunner()
	r.AddPass(rewrite{})
	r.AddPass(driver.ArityCheck{})
	_, err := r.RunProgram(source.New("", "print 1;"))
	var ae *ast.ArityError
	if !errors.As(err, &ae) || ae.Op != token.PRINT {
		t.Errorf("error = %v, want a PRINT arity error", err)
	}
	if !strings.HasPrefix(err.Error(), "run: ") {
		t.Errorf("error = %q, want a run: prefix", err)
	}

	r = driver.NewPassRunner()
	r.AddPass(failing{})
	_, err = r.RunProgram(source.New("", "print 1;"))
	if err == nil || err.Error() != "init: not ready" {
		t.Errorf("error = %v, want init: not ready", err)
	}
}

func TestLogging(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	r := driver.NewPassRunner()
	r.SetLogger(slog.New(slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelDebug})))
	r.AddPass(driver.ArityCheck{})
	if _, err := r.RunSource(source.New("test.lox", "print 1;")); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"msg=lexed", "msg=\"parsed program\"", "msg=\"run pass\"", "source=test.lox"} {
		if !strings.Contains(b.String(), want) {
			t.Errorf("log does not contain %q:\n%s", want, b.String())
		}
	}
}
