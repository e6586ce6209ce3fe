package parser_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"github.com/takoeight0821/loxfront/ast"
	"github.com/takoeight0821/loxfront/diag"
	"github.com/takoeight0821/loxfront/driver"
	"github.com/takoeight0821/loxfront/parser"
	"github.com/takoeight0821/loxfront/source"
	"github.com/takoeight0821/loxfront/token"
	"github.com/takoeight0821/loxfront/utils"
)

func TestParseFromTestData(t *testing.T) {
	t.Parallel()
	s, err := os.ReadFile("../testdata/testcase.yaml")
	if err != nil {
		panic(err)
	}
	testcases := utils.ReadTestData(s)
	for _, testcase := range testcases {
		runner := driver.NewPassRunner()
		runner.AddPass(driver.ArityCheck{})
		if expected, ok := testcase.Expected["parser"]; ok {
			utils.RunTest(runner, t, testcase.Label, testcase.Input, expected)
		} else {
			utils.RunTest(runner, t, testcase.Label, testcase.Input, "no expected value")
		}
	}
}

// format prints input in canonical form, as a program if it is one and as an expression otherwise.
func format(input string) (string, error) {
	nodes, err := parser.Parse(source.New("", input))
	if err == nil {
		return ast.Format(nodes), nil
	}
	node, err := parser.ParseExpr(source.New("", input))
	if err != nil {
		return "", err
	}
	return ast.FormatExpr(node) + "\n", nil
}

func dump(input string) (string, error) {
	nodes, err := parser.Parse(source.New("", input))
	if err == nil {
		return ast.Dump(nodes), nil
	}
	node, err := parser.ParseExpr(source.New("", input))
	if err != nil {
		return "", err
	}
	return node.String() + "\n", nil
}

func TestFormatFromTestData(t *testing.T) {
	t.Parallel()
	s, err := os.ReadFile("../testdata/testcase.yaml")
	if err != nil {
		panic(err)
	}
	for _, testcase := range utils.ReadTestData(s) {
		expected, ok := testcase.Expected["format"]
		if !ok {
			continue
		}
		actual, err := format(testcase.Input)
		if err != nil {
			t.Errorf("%s returned error: %v", testcase.Label, err)
			continue
		}
		if diff := cmp.Diff(expected, actual); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", testcase.Label, diff)
		}
	}
}

// Formatting and parsing again gives the same tree.
func TestFormatIdempotent(t *testing.T) {
	t.Parallel()
	s, err := os.ReadFile("../testdata/testcase.yaml")
	if err != nil {
		panic(err)
	}
	inputs := []string{}
	for _, testcase := range utils.ReadTestData(s) {
		inputs = append(inputs, testcase.Input)
	}
	files, err := utils.FindSourceFiles("../testdata")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		text, err := os.ReadFile(file)
		if err != nil {
			t.Fatal(err)
		}
		inputs = append(inputs, string(text))
	}

	for _, input := range inputs {
		before, err := dump(input)
		if err != nil {
			t.Errorf("%q returned error: %v", input, err)
			continue
		}
		formatted, err := format(input)
		if err != nil {
			t.Errorf("%q returned error: %v", input, err)
			continue
		}
		after, err := dump(formatted)
		if err != nil {
			t.Errorf("formatted %q returned error: %v\n%s", input, err, formatted)
			continue
		}
		if diff := cmp.Diff(before, after); diff != "" {
			t.Errorf("%q mismatch (-want +got):\n%s", input, diff)
		}
	}
}

func TestGolden(t *testing.T) {
	t.Parallel()

	testfiles, err := utils.FindSourceFiles("../testdata")
	if err != nil {
		t.Errorf("failed to find test files: %v", err)
		return
	}

	for _, testfile := range testfiles {
		text, err := os.ReadFile(testfile)
		if err != nil {
			t.Errorf("failed to read %s: %v", testfile, err)
			return
		}

		nodes, err := parser.Parse(source.New(testfile, string(text)))
		if err != nil {
			t.Errorf("%s returned error: %v", testfile, err)
			return
		}

		g := goldie.New(t)
		g.Assert(t, filepath.Base(testfile), []byte(ast.Dump(nodes)))
		g.Assert(t, filepath.Base(testfile)+".fmt", []byte(ast.Format(nodes)))
	}
}

func TestParseExpressionNodes(t *testing.T) {
	t.Parallel()

	node, err := parser.ParseExpr(source.New("", "1 + 2 * 3"))
	if err != nil {
		t.Fatal(err)
	}
	plus, ok := node.(*ast.NonTerm)
	if !ok || plus.Op != token.PLUS || len(plus.Children) != 2 {
		t.Fatalf("got %v, want a PLUS node with two children", node)
	}
	if n, ok := plus.Children[0].(*ast.Number); !ok || n.Value != 1 {
		t.Errorf("left = %v, want Number(1)", plus.Children[0])
	}
	star, ok := plus.Children[1].(*ast.NonTerm)
	if !ok || star.Op != token.STAR {
		t.Errorf("right = %v, want a STAR node", plus.Children[1])
	}
	if plus.Where.Span != (token.Span{Start: 2, End: 3}) {
		t.Errorf("PLUS anchored at %v, want 2..3", plus.Where.Span)
	}
}

func TestPrintString(t *testing.T) {
	t.Parallel()

	src := source.New("", "print \"hi\";")
	nodes, err := parser.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 1 {
		t.Fatalf("got %d statements, want 1", len(nodes))
	}
	stmt, ok := nodes[0].(*ast.NonTerm)
	if !ok || stmt.Op != token.PRINT {
		t.Fatalf("got %v, want a PRINT node", nodes[0])
	}
	str, ok := stmt.Children[0].(*ast.Str)
	if !ok {
		t.Fatalf("got %T, want *ast.Str", stmt.Children[0])
	}
	if str.Span != (token.Span{Start: 6, End: 10}) || str.Contents() != "hi" {
		t.Errorf("got %q at %v, want \"hi\" at 6..10", str.Contents(), str.Span)
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	testcases := []struct {
		input string
		kind  diag.Kind
		span  token.Span
		msg   string
	}{
		{"var x = 1", diag.MissingPunctuation, token.Span{Start: 9, End: 9}, "expected `;` after variable declaration, found end of input"},
		{"var 1 = 2;", diag.UnexpectedToken, token.Span{Start: 4, End: 5}, "expected variable name after `var`, found `1`"},
		{"var x 1;", diag.MissingPunctuation, token.Span{Start: 6, End: 7}, "expected `=` after variable name, found `1`"},
		{"fun (a) {}", diag.UnexpectedToken, token.Span{Start: 4, End: 5}, "expected function name after `fun`, found `(`"},
		{"fun f a) {}", diag.MissingDelimiter, token.Span{Start: 6, End: 7}, "expected `(` after function name, found `a`"},
		{"fun f(a {}", diag.MissingDelimiter, token.Span{Start: 8, End: 9}, "expected `)` after parameters, found `{`"},
		{"fun f(a) print a;", diag.MissingDelimiter, token.Span{Start: 9, End: 14}, "expected `{` before function body, found `print`"},
		{"class { }", diag.UnexpectedToken, token.Span{Start: 6, End: 7}, "expected class name after `class`, found `{`"},
		{"if x) {}", diag.MissingDelimiter, token.Span{Start: 3, End: 4}, "expected `(` after `if`, found `x`"},
		{"while (x {}", diag.MissingDelimiter, token.Span{Start: 9, End: 10}, "expected `)` after condition, found `{`"},
		{"for (var i = 0; i < 1 i) {}", diag.MissingPunctuation, token.Span{Start: 22, End: 23}, "expected `;` after loop condition, found `i`"},
		{"for (var i = 0; i; i {}", diag.MissingDelimiter, token.Span{Start: 21, End: 22}, "expected `)` after for clauses, found `{`"},
		{"{ print 1;", diag.MissingDelimiter, token.Span{Start: 10, End: 10}, "expected `}` to close block, found end of input"},
		{"print 1", diag.MissingPunctuation, token.Span{Start: 7, End: 7}, "expected `;` after value, found end of input"},
		{"return 1", diag.MissingPunctuation, token.Span{Start: 8, End: 8}, "expected `;` after return value, found end of input"},
		{"print (1;", diag.MissingDelimiter, token.Span{Start: 8, End: 9}, "expected `)` to close `(`, found `;`"},
		{"print {1);", diag.MissingDelimiter, token.Span{Start: 8, End: 9}, "expected `}` to close `{`, found `)`"},
		{"print a[1;", diag.MissingDelimiter, token.Span{Start: 9, End: 10}, "expected `]` after index, found `;`"},
		{"print f(1;", diag.MissingDelimiter, token.Span{Start: 9, End: 10}, "expected `)` after arguments, found `;`"},
		{"print 1 + ;", diag.ExpectedExpression, token.Span{Start: 10, End: 11}, "expected expression, found `;`"},
		{"print ;", diag.ExpectedExpression, token.Span{Start: 6, End: 7}, "expected expression, found `;`"},
		{"x = 1;", diag.ExpectedStatementStart, token.Span{Start: 0, End: 1}, "`x` looks like an expression; did you mean `var`?"},
		{"(1);", diag.ExpectedStatementStart, token.Span{Start: 0, End: 1}, "`(` looks like an expression; did you mean `var`?"},
		{"; print 1;", diag.ExpectedStatementStart, token.Span{Start: 0, End: 1}, "expected a statement, found `;`"},
		{"}", diag.ExpectedStatementStart, token.Span{Start: 0, End: 1}, "expected a statement, found `}`"},
		{"print \"a", diag.UnterminatedString, token.Span{Start: 6, End: 8}, "unterminated string"},
	}
	for _, tc := range testcases {
		nodes, err := parser.Parse(source.New("", tc.input))
		if nodes != nil {
			t.Errorf("Parse(%q) returned nodes %v with an error", tc.input, nodes)
		}
		var d *diag.Error
		if !errors.As(err, &d) {
			t.Errorf("Parse(%q) error = %v, want *diag.Error", tc.input, err)
			continue
		}
		if d.Kind != tc.kind || d.Span != tc.span || d.Msg != tc.msg {
			t.Errorf("Parse(%q) = %v %v %q, want %v %v %q", tc.input, d.Kind, d.Span, d.Msg, tc.kind, tc.span, tc.msg)
		}
	}
}

func TestParseExprTrailingInput(t *testing.T) {
	t.Parallel()

	_, err := parser.ParseExpr(source.New("", "1 2"))
	if !diag.Is(err, diag.UnexpectedToken) {
		t.Errorf("ParseExpr(\"1 2\") error = %v, want unexpected token", err)
	}
}

func TestMaxDepth(t *testing.T) {
	t.Parallel()

	deep := strings.Repeat("(", 10000) + "1" + strings.Repeat(")", 10000)
	_, err := parser.ParseExpr(source.New("", deep))
	if !diag.Is(err, diag.NestingTooDeep) {
		t.Errorf("error = %v, want nesting too deep", err)
	}

	shallow := strings.Repeat("-", 10) + "1"
	if _, err := parser.ParseExpr(source.New("", shallow), parser.WithMaxDepth(11)); err != nil {
		t.Errorf("ParseExpr(%q) with depth 11 returned error: %v", shallow, err)
	}
	if _, err := parser.ParseExpr(source.New("", shallow), parser.WithMaxDepth(10)); !diag.Is(err, diag.NestingTooDeep) {
		t.Errorf("ParseExpr(%q) with depth 10 error = %v, want nesting too deep", shallow, err)
	}

	blocks := strings.Repeat("{", 300) + strings.Repeat("}", 300)
	if _, err := parser.Parse(source.New("", blocks)); !diag.Is(err, diag.NestingTooDeep) {
		t.Errorf("nested blocks error = %v, want nesting too deep", err)
	}
}

func TestRecovery(t *testing.T) {
	t.Parallel()

	input := "var x = ;\nprint 1;\nvar = 2;\nprint 2;\n"
	nodes, err := parser.Parse(source.New("", input), parser.WithRecovery())

	actual := ast.Dump(nodes)
	expected := "<error>\n(print 1)\n<error>\n(print 2)\n"
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	diags := diag.All(err)
	if len(diags) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(diags), err)
	}
	if diags[0].Kind != diag.ExpectedExpression || diags[1].Kind != diag.UnexpectedToken {
		t.Errorf("got %v and %v", diags[0].Kind, diags[1].Kind)
	}
	if line, _ := diags[1].Source.Position(diags[1].Span.Start); line != 3 {
		t.Errorf("second diagnostic on line %d, want 3", line)
	}
}

func TestRecoveryValid(t *testing.T) {
	t.Parallel()

	nodes, err := parser.Parse(source.New("", "print 1;"), parser.WithRecovery())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("(print 1)\n", ast.Dump(nodes)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRequiresEOF(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("New did not panic on a stream without EOF")
		}
	}()
	parser.New(source.New("", "x"), []token.Token{{Kind: token.IDENT, Span: token.Span{Start: 0, End: 1}, Line: 1}})
}

func TestEmptyProgram(t *testing.T) {
	t.Parallel()

	nodes, err := parser.Parse(source.New("", "  // nothing\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 0 {
		t.Errorf("got %v, want no statements", nodes)
	}
}
