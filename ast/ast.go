package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/takoeight0821/loxfront/source"
	"github.com/takoeight0821/loxfront/token"
)

// AST

type Node interface {
	fmt.Stringer
	Base() token.Token
	// Plate applies the given function to each child node.
	// If f returns an error, f also must return the original argument n.
	// FYI: https://hackage.haskell.org/package/lens-5.2.3/docs/Control-Lens-Plated.html
	Plate(error, func(Node, error) (Node, error)) (Node, error)
}

// Atom is a leaf of the tree.
type Atom interface {
	Node
	atom()
}

type Number struct {
	token.Token
}

func (n Number) String() string {
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func (n *Number) Base() token.Token {
	return n.Token
}

func (n *Number) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return n, err
}

func (*Number) atom() {}

var _ Atom = &Number{}

// Str is a string literal. Its span includes both quotes.
type Str struct {
	token.Token
	Source *source.Source
}

func (s Str) String() string {
	return s.Source.Slice(s.Span)
}

// Contents returns the text between the quotes.
func (s Str) Contents() string {
	text := s.String()
	if len(text) < 2 {
		return ""
	}
	return text[1 : len(text)-1]
}

func (s *Str) Base() token.Token {
	return s.Token
}

func (s *Str) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return s, err
}

func (*Str) atom() {}

var _ Atom = &Str{}

type Ident struct {
	token.Token
	Source *source.Source
}

func (i Ident) String() string {
	return i.Source.Slice(i.Span)
}

func (i *Ident) Base() token.Token {
	return i.Token
}

func (i *Ident) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return i, err
}

func (*Ident) atom() {}

var _ Atom = &Ident{}

type Bool struct {
	token.Token
	Value bool
}

func (b Bool) String() string {
	return strconv.FormatBool(b.Value)
}

func (b *Bool) Base() token.Token {
	return b.Token
}

func (b *Bool) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return b, err
}

func (*Bool) atom() {}

var _ Atom = &Bool{}

type Nil struct {
	token.Token
}

func (Nil) String() string {
	return "nil"
}

func (n *Nil) Base() token.Token {
	return n.Token
}

func (n *Nil) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return n, err
}

func (*Nil) atom() {}

var _ Atom = &Nil{}

type This struct {
	token.Token
}

func (This) String() string {
	return "this"
}

func (t *This) Base() token.Token {
	return t.Token
}

func (t *This) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return t, err
}

func (*This) atom() {}

var _ Atom = &This{}

type Super struct {
	token.Token
}

func (Super) String() string {
	return "super"
}

func (s *Super) Base() token.Token {
	return s.Token
}

func (s *Super) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return s, err
}

func (*Super) atom() {}

var _ Atom = &Super{}

// Error stands in for a statement that failed to parse when the parser keeps going.
type Error struct {
	token.Token
}

func (Error) String() string {
	return "<error>"
}

func (e *Error) Base() token.Token {
	return e.Token
}

func (e *Error) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return e, err
}

func (*Error) atom() {}

var _ Atom = &Error{}

// Empty is an absent subtree, such as the value of `return;`.
type Empty struct {
	token.Token
}

func (Empty) String() string {
	return ""
}

func (e *Empty) Base() token.Token {
	return e.Token
}

func (e *Empty) Plate(err error, _ func(Node, error) (Node, error)) (Node, error) {
	return e, err
}

var _ Node = &Empty{}

// NonTerm is an operator or a statement applied to its children.
// The number of children is fixed by Op; see Arity.
type NonTerm struct {
	Op       token.Kind
	Children []Node
	Where    token.Token
}

// NewNonTerm panics if the number of children does not match the arity of op.
func NewNonTerm(op token.Kind, where token.Token, children ...Node) *NonTerm {
	if err := checkArity(op, len(children)); err != nil {
		panic(err)
	}
	return &NonTerm{Op: op, Children: children, Where: where}
}

func (n NonTerm) String() string {
	return parenthesize(n.Op.Lexeme(), concat(n.Children)).String()
}

func (n *NonTerm) Base() token.Token {
	return n.Where
}

func (n *NonTerm) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	for i, child := range n.Children {
		n.Children[i], err = f(child, err)
	}
	return n, err
}

var _ Node = &NonTerm{}

type Var struct {
	Name  *Ident
	Init  Node
	Where token.Token
}

func (v Var) String() string {
	return parenthesize("var", v.Name, v.Init).String()
}

func (v *Var) Base() token.Token {
	return v.Where
}

func (v *Var) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	v.Init, err = f(v.Init, err)
	return v, err
}

var _ Node = &Var{}

type Fun struct {
	Name   *Ident
	Params []Node
	Body   Node
	Where  token.Token
}

func (f Fun) String() string {
	return parenthesize("fun", f.Name, parenthesize("", concat(f.Params)), f.Body).String()
}

func (f *Fun) Base() token.Token {
	return f.Where
}

func (f *Fun) Plate(err error, g func(Node, error) (Node, error)) (Node, error) {
	for i, param := range f.Params {
		f.Params[i], err = g(param, err)
	}
	f.Body, err = g(f.Body, err)
	return f, err
}

var _ Node = &Fun{}

type Call struct {
	Callee Node
	Args   []Node
	Where  token.Token
}

func (c Call) String() string {
	return parenthesize("call", c.Callee, concat(c.Args)).String()
}

func (c *Call) Base() token.Token {
	return c.Where
}

func (c *Call) Plate(err error, f func(Node, error) (Node, error)) (Node, error) {
	c.Callee, err = f(c.Callee, err)
	for i, arg := range c.Args {
		c.Args[i], err = f(arg, err)
	}
	return c, err
}

var _ Node = &Call{}

// Dump returns the S-expression of each node, one per line.
func Dump(nodes []Node) string {
	var b strings.Builder
	for _, node := range nodes {
		b.WriteString(node.String())
		b.WriteString("\n")
	}
	return b.String()
}

// parenthesize takes a head string and a variadic number of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is parenthesized and separated by a space.
// If the head string is not empty, it is added at the beginning of the string.
func parenthesize(head string, elems ...fmt.Stringer) fmt.Stringer {
	var b strings.Builder
	b.WriteString("(")
	elemsStr := concat(elems).String()
	if head != "" {
		b.WriteString(head)
	}
	if elemsStr != "" {
		if head != "" {
			b.WriteString(" ")
		}
		b.WriteString(elemsStr)
	}
	b.WriteString(")")
	return &b
}

// concat takes a slice of nodes that implement the fmt.Stringer interface.
// It returns a fmt.Stringer that represents a string where each node is separated by a space.
func concat[T fmt.Stringer](elems []T) fmt.Stringer {
	var b strings.Builder
	for _, elem := range elems {
		// ignore empty string
		// e.g. concat({}) == ""
		str := elem.String()
		if str == "" {
			continue
		}
		if b.Len() != 0 {
			b.WriteString(" ")
		}
		b.WriteString(str)
	}
	return &b
}

// Traverse the [Node] in depth-first order.
// f is called for each node.
// If f returns an error, f also must return the original argument n.
// Traverse modifies each child before n.
func Traverse(n Node, f func(Node, error) (Node, error)) (Node, error) {
	n, err := n.Plate(nil, func(n Node, err error) (Node, error) {
		m, e := Traverse(n, f)
		if err != nil {
			return m, err
		}
		return m, e
	})
	return f(n, err)
}

func Children(n Node) []Node {
	var children []Node
	_, err := n.Plate(nil, func(n Node, _ error) (Node, error) {
		children = append(children, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return children
}

// Universe returns n and all of its descendants in post-order.
func Universe(n Node) []Node {
	var nodes []Node
	_, err := Traverse(n, func(n Node, _ error) (Node, error) {
		nodes = append(nodes, n)
		return n, nil
	})
	if err != nil {
		panic(fmt.Errorf("unexpected error: %w", err))
	}
	return nodes
}
