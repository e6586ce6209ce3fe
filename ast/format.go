package ast

import (
	"strconv"
	"strings"

	"github.com/takoeight0821/loxfront/token"
)

// Format prints nodes as source text, one statement per line.
// Parsing the output yields trees with the same S-expressions.
func Format(nodes []Node) string {
	var p printer
	for _, node := range nodes {
		p.stmt(node)
		p.b.WriteString("\n")
	}
	return p.b.String()
}

// FormatExpr prints a single expression.
func FormatExpr(node Node) string {
	var p printer
	return p.expr(node)
}

type printer struct {
	b      strings.Builder
	indent int
}

func (p *printer) write(strs ...string) {
	for _, s := range strs {
		p.b.WriteString(s)
	}
}

func (p *printer) newline() {
	p.b.WriteString("\n")
	p.b.WriteString(strings.Repeat("  ", p.indent))
}

func (p *printer) block(stmts []Node) {
	p.write("{")
	p.indent++
	for _, stmt := range stmts {
		p.newline()
		p.stmt(stmt)
	}
	p.indent--
	p.newline()
	p.write("}")
}

func (p *printer) stmt(node Node) {
	switch n := node.(type) {
	case *Var:
		p.write("var ", n.Name.String(), " = ", p.expr(n.Init), ";")
	case *Fun:
		p.write("fun ", n.Name.String(), "(", p.exprs(n.Params), ") ")
		p.stmt(n.Body)
	case *Error:
		p.write(n.String())
	case *NonTerm:
		p.nonTermStmt(n)
	default:
		p.write(p.expr(node), ";")
	}
}

func (p *printer) nonTermStmt(n *NonTerm) {
	//exhaustive:ignore
	switch n.Op {
	case token.PRINT:
		p.write("print ", p.expr(n.Children[0]), ";")
	case token.RETURN:
		if _, ok := n.Children[0].(*Empty); ok {
			p.write("return;")
		} else {
			p.write("return ", p.expr(n.Children[0]), ";")
		}
	case token.CLASS:
		p.write("class ", p.expr(n.Children[0]), " ")
		p.stmt(n.Children[1])
	case token.IF, token.WHILE:
		p.write(n.Op.Lexeme(), " (", p.expr(n.Children[0]), ") ")
		p.stmt(n.Children[1])
	case token.FOR:
		p.write("for (")
		p.stmt(n.Children[0])
		p.write(" ", p.expr(n.Children[1]), "; ", p.expr(n.Children[2]), ") ")
		p.stmt(n.Children[3])
	case token.ELSE:
		p.write("else ")
		p.stmt(n.Children[0])
	case token.GROUP, token.BLOCK:
		p.block(n.Children)
	default:
		p.write(p.expr(n), ";")
	}
}

func (p *printer) exprs(nodes []Node) string {
	strs := make([]string, len(nodes))
	for i, node := range nodes {
		strs[i] = p.expr(node)
	}
	return strings.Join(strs, ", ")
}

// expr relies on the tree having come from the parser: explicit grouping is kept as GROUP nodes,
// so operators are printed without extra parentheses.
func (p *printer) expr(node Node) string {
	switch n := node.(type) {
	case *Number:
		return strconv.FormatFloat(n.Value, 'f', -1, 64)
	case *Call:
		return p.expr(n.Callee) + "(" + p.exprs(n.Args) + ")"
	case *NonTerm:
		return p.nonTermExpr(n)
	default:
		return node.String()
	}
}

func (p *printer) nonTermExpr(n *NonTerm) string {
	//exhaustive:ignore
	switch n.Op {
	case token.GROUP:
		return "(" + p.expr(n.Children[0]) + ")"
	case token.INDEX:
		return p.expr(n.Children[0]) + "[" + p.expr(n.Children[1]) + "]"
	case token.DOT:
		left, right := p.expr(n.Children[0]), p.expr(n.Children[1])
		// "1" "." "2" would be read back as the number 1.2.
		if endsWithDigit(left) && startsWithDigit(right) {
			return left + " ." + right
		}
		return left + "." + right
	}

	if len(n.Children) == 1 {
		if n.Op == token.PRINT {
			return "print " + p.expr(n.Children[0])
		}
		return n.Op.Lexeme() + p.expr(n.Children[0])
	}
	if len(n.Children) == 2 {
		return p.expr(n.Children[0]) + " " + n.Op.Lexeme() + " " + p.expr(n.Children[1])
	}
	return n.String()
}

func endsWithDigit(s string) bool {
	return s != "" && s[len(s)-1] >= '0' && s[len(s)-1] <= '9'
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
