package ast

import (
	"errors"
	"fmt"

	"github.com/takoeight0821/loxfront/token"
)

// Unbounded is the maximum arity of an operator that takes any number of children.
const Unbounded = -1

// Arity returns the allowed number of children of a NonTerm with the given operator.
func Arity(op token.Kind) (minimum, maximum int, ok bool) {
	//exhaustive:ignore
	switch op {
	case token.MINUS:
		return 1, 2, true
	case token.BANG, token.PRINT, token.GROUP, token.ELSE, token.RETURN:
		return 1, 1, true
	case token.PLUS, token.STAR, token.SLASH,
		token.EQUALEQUAL, token.BANGEQUAL, token.LESS, token.LESSEQUAL, token.GREATER, token.GREATEREQUAL,
		token.AND, token.OR, token.EQUAL, token.DOT, token.INDEX,
		token.IF, token.WHILE, token.CLASS:
		return 2, 2, true
	case token.FOR:
		return 4, 4, true
	case token.BLOCK:
		return 0, Unbounded, true
	}
	return 0, 0, false
}

type ArityError struct {
	Op    token.Kind
	Where token.Token
	Got   int
}

func (e *ArityError) Error() string {
	minimum, maximum, ok := Arity(e.Op)
	switch {
	case !ok:
		return fmt.Sprintf("%v is not an operator", e.Op)
	case maximum == Unbounded:
		return fmt.Sprintf("%v takes at least %d children, got %d", e.Op, minimum, e.Got)
	case minimum == maximum:
		return fmt.Sprintf("%v takes %d children, got %d", e.Op, minimum, e.Got)
	default:
		return fmt.Sprintf("%v takes %d to %d children, got %d", e.Op, minimum, maximum, e.Got)
	}
}

func checkArity(op token.Kind, got int) error {
	minimum, maximum, ok := Arity(op)
	if !ok || got < minimum || (maximum != Unbounded && got > maximum) {
		return &ArityError{Op: op, Got: got}
	}
	return nil
}

// Validate checks the arity of every NonTerm in n and that no child is nil.
func Validate(n Node) error {
	if n == nil {
		return errors.New("nil node")
	}
	var err error
	if nt, ok := n.(*NonTerm); ok {
		if e := checkArity(nt.Op, len(nt.Children)); e != nil {
			var ae *ArityError
			if errors.As(e, &ae) {
				ae.Where = nt.Where
			}
			err = errors.Join(err, e)
		}
	}
	for _, child := range Children(n) {
		if child == nil {
			err = errors.Join(err, fmt.Errorf("nil child in %T at line %d", n, n.Base().Line))
			continue
		}
		err = errors.Join(err, Validate(child))
	}
	return err
}
