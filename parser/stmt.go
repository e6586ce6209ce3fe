package parser

import (
	"github.com/takoeight0821/loxfront/ast"
	"github.com/takoeight0821/loxfront/diag"
	"github.com/takoeight0821/loxfront/token"
)

// ParseStatement parses one statement, including its trailing ";".
//
//	stmt = "print" expr ";"
//	     | "var" IDENT "=" expr ";"
//	     | "fun" IDENT "(" (expr ("," expr)*)? ")" block
//	     | "class" IDENT block
//	     | ("if" | "while") "(" expr ")" block
//	     | "for" "(" stmt expr ";" expr ")" block
//	     | "else" stmt
//	     | "return" expr? ";"
//	     | block ;
//	block = "{" stmt* "}" ;
func (p *Parser) ParseStatement() (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.peek()

	//exhaustive:ignore
	switch tok.Kind {
	case token.PRINT:
		return p.printStmt()
	case token.VAR:
		return p.varDecl()
	case token.FUN:
		return p.funDecl()
	case token.CLASS:
		return p.classDecl()
	case token.IF, token.WHILE:
		return p.conditional()
	case token.FOR:
		return p.forStmt()
	case token.ELSE:
		p.advance()
		stmt, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		return ast.NewNonTerm(token.ELSE, tok, stmt), nil
	case token.RETURN:
		return p.returnStmt()
	case token.LEFTBRACE:
		return p.blockBody()
	}

	if looksLikeExpression(tok.Kind) {
		return nil, p.errorAt(tok, diag.ExpectedStatementStart,
			"%s looks like an expression; did you mean `var`?", p.describe(tok))
	}
	return nil, p.errorAt(tok, diag.ExpectedStatementStart, "expected a statement, found %s", p.describe(tok))
}

func looksLikeExpression(kind token.Kind) bool {
	//exhaustive:ignore
	switch kind {
	case token.IDENT, token.NUMBER, token.STRING, token.TRUE, token.FALSE, token.NIL,
		token.THIS, token.SUPER, token.LEFTPAREN, token.MINUS, token.BANG:
		return true
	}
	return false
}

func (p *Parser) printStmt() (ast.Node, error) {
	tok := p.advance()
	expr, err := p.ParseExpression(token.PrintPower)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, diag.MissingPunctuation, "expected `;` after value"); err != nil {
		return nil, err
	}
	return ast.NewNonTerm(token.PRINT, tok, expr), nil
}

func (p *Parser) varDecl() (ast.Node, error) {
	tok := p.advance()
	name, err := p.expect(token.IDENT, diag.UnexpectedToken, "expected variable name after `var`")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQUAL, diag.MissingPunctuation, "expected `=` after variable name"); err != nil {
		return nil, err
	}
	init, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, diag.MissingPunctuation, "expected `;` after variable declaration"); err != nil {
		return nil, err
	}
	return &ast.Var{Name: p.ident(name), Init: init, Where: tok}, nil
}

func (p *Parser) funDecl() (ast.Node, error) {
	tok := p.advance()
	name, err := p.expect(token.IDENT, diag.UnexpectedToken, "expected function name after `fun`")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LEFTPAREN, diag.MissingDelimiter, "expected `(` after function name"); err != nil {
		return nil, err
	}
	params, err := p.list("parameters")
	if err != nil {
		return nil, err
	}
	body, err := p.block("function body")
	if err != nil {
		return nil, err
	}
	return &ast.Fun{Name: p.ident(name), Params: params, Body: body, Where: tok}, nil
}

func (p *Parser) classDecl() (ast.Node, error) {
	tok := p.advance()
	name, err := p.expect(token.IDENT, diag.UnexpectedToken, "expected class name after `class`")
	if err != nil {
		return nil, err
	}
	body, err := p.block("class body")
	if err != nil {
		return nil, err
	}
	return ast.NewNonTerm(token.CLASS, tok, p.ident(name), body), nil
}

// conditional parses `if` and `while`, which share their shape.
func (p *Parser) conditional() (ast.Node, error) {
	tok := p.advance()
	keyword := tok.Kind.Lexeme()
	if _, err := p.expect(token.LEFTPAREN, diag.MissingDelimiter, "expected `(` after `%s`", keyword); err != nil {
		return nil, err
	}
	cond, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RIGHTPAREN, diag.MissingDelimiter, "expected `)` after condition"); err != nil {
		return nil, err
	}
	body, err := p.block("`" + keyword + "` body")
	if err != nil {
		return nil, err
	}
	return ast.NewNonTerm(tok.Kind, tok, cond, body), nil
}

func (p *Parser) forStmt() (ast.Node, error) {
	tok := p.advance()
	if _, err := p.expect(token.LEFTPAREN, diag.MissingDelimiter, "expected `(` after `for`"); err != nil {
		return nil, err
	}
	init, err := p.ParseStatement()
	if err != nil {
		return nil, err
	}
	cond, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON, diag.MissingPunctuation, "expected `;` after loop condition"); err != nil {
		return nil, err
	}
	incr, err := p.ParseExpression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RIGHTPAREN, diag.MissingDelimiter, "expected `)` after for clauses"); err != nil {
		return nil, err
	}
	body, err := p.block("`for` body")
	if err != nil {
		return nil, err
	}
	return ast.NewNonTerm(token.FOR, tok, init, cond, incr, body), nil
}

func (p *Parser) returnStmt() (ast.Node, error) {
	tok := p.advance()
	var value ast.Node = &ast.Empty{Token: p.peek()}
	if !p.match(token.SEMICOLON) {
		var err error
		value, err = p.ParseExpression(0)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.SEMICOLON, diag.MissingPunctuation, "expected `;` after return value"); err != nil {
		return nil, err
	}
	return ast.NewNonTerm(token.RETURN, tok, value), nil
}

// block requires a "{" that opens the body of what.
func (p *Parser) block(what string) (ast.Node, error) {
	if !p.match(token.LEFTBRACE) {
		return nil, p.errorAt(p.peek(), diag.MissingDelimiter, "expected `{` before %s, found %s", what, p.describe(p.peek()))
	}
	return p.blockBody()
}

// blockBody parses "{" stmt* "}".
// A single statement is wrapped in GROUP, anything else in BLOCK.
func (p *Parser) blockBody() (ast.Node, error) {
	open := p.advance()
	stmts := []ast.Node{}
	for !p.match(token.RIGHTBRACE) && !p.match(token.EOF) {
		stmt, err := p.ParseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(token.RIGHTBRACE, diag.MissingDelimiter, "expected `}` to close block"); err != nil {
		return nil, err
	}
	if len(stmts) == 1 {
		return ast.NewNonTerm(token.GROUP, open, stmts[0]), nil
	}
	return ast.NewNonTerm(token.BLOCK, open, stmts...), nil
}
