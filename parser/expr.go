package parser

import (
	"github.com/takoeight0821/loxfront/ast"
	"github.com/takoeight0821/loxfront/diag"
	"github.com/takoeight0821/loxfront/token"
)

// ParseExpression parses an expression whose operators bind at least as tightly as minBP.
//
//	expr    = prefix (postfix | infix expr)* ;
//	prefix  = NUMBER | STRING | "true" | "false" | "nil" | IDENT | "this" | "super"
//	        | ("-" | "!" | "print") expr
//	        | "(" expr ")" | "{" expr "}" ;
//	postfix = "(" (expr ("," expr)*)? ")" | "[" expr "]" ;
func (p *Parser) ParseExpression(minBP int) (ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	lhs, err := p.prefix()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()
		if op.Kind.Terminates() {
			break
		}

		if lbp, ok := op.Kind.PostfixPower(); ok {
			if lbp < minBP {
				break
			}
			lhs, err = p.postfix(lhs)
			if err != nil {
				return nil, err
			}
			continue
		}

		if lbp, rbp, ok := op.Kind.InfixPower(); ok {
			if lbp < minBP {
				break
			}
			p.advance()
			rhs, err := p.ParseExpression(rbp)
			if err != nil {
				return nil, err
			}
			lhs = ast.NewNonTerm(op.Kind, op, lhs, rhs)
			continue
		}

		break
	}

	return lhs, nil
}

func (p *Parser) prefix() (ast.Node, error) {
	tok := p.peek()

	//exhaustive:ignore
	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		return &ast.Number{Token: tok}, nil
	case token.STRING:
		p.advance()
		return &ast.Str{Token: tok, Source: p.src}, nil
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.Bool{Token: tok, Value: tok.Kind == token.TRUE}, nil
	case token.NIL:
		p.advance()
		return &ast.Nil{Token: tok}, nil
	case token.IDENT:
		p.advance()
		return p.ident(tok), nil
	case token.THIS:
		p.advance()
		return &ast.This{Token: tok}, nil
	case token.SUPER:
		p.advance()
		return &ast.Super{Token: tok}, nil
	case token.MINUS, token.BANG, token.PRINT:
		p.advance()
		rbp, _ := tok.Kind.PrefixPower()
		operand, err := p.ParseExpression(rbp)
		if err != nil {
			return nil, err
		}
		return ast.NewNonTerm(tok.Kind, tok, operand), nil
	case token.LEFTPAREN, token.LEFTBRACE:
		p.advance()
		inner, err := p.ParseExpression(0)
		if err != nil {
			return nil, err
		}
		closing := token.RIGHTPAREN
		if tok.Kind == token.LEFTBRACE {
			closing = token.RIGHTBRACE
		}
		if _, err := p.expect(closing, diag.MissingDelimiter, "expected `%s` to close `%s`", closing.Lexeme(), tok.Kind.Lexeme()); err != nil {
			return nil, err
		}
		return ast.NewNonTerm(token.GROUP, tok, inner), nil
	}

	return nil, p.errorAt(tok, diag.ExpectedExpression, "expected expression, found %s", p.describe(tok))
}

func (p *Parser) postfix(lhs ast.Node) (ast.Node, error) {
	tok := p.advance()
	if tok.Kind == token.LEFTBRACKET {
		index, err := p.ParseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RIGHTBRACKET, diag.MissingDelimiter, "expected `]` after index"); err != nil {
			return nil, err
		}
		return ast.NewNonTerm(token.INDEX, tok, lhs, index), nil
	}

	args, err := p.list("arguments")
	if err != nil {
		return nil, err
	}
	return &ast.Call{Callee: lhs, Args: args, Where: tok}, nil
}

// list parses a comma-separated list of expressions and the closing ")".
// The opening "(" has already been consumed.
func (p *Parser) list(what string) ([]ast.Node, error) {
	nodes := []ast.Node{}
	if !p.match(token.RIGHTPAREN) {
		for {
			node, err := p.ParseExpression(0)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			if !p.match(token.COMMA) {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(token.RIGHTPAREN, diag.MissingDelimiter, "expected `)` after %s", what); err != nil {
		return nil, err
	}
	return nodes, nil
}
