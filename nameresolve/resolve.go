package nameresolve

import (
	"errors"
	"log"

	"github.com/takoeight0821/loxfront/ast"
	"github.com/takoeight0821/loxfront/diag"
	"github.com/takoeight0821/loxfront/token"
)

// Resolver links every variable use to its declaration.
//
// Top-level declarations are visible everywhere, so functions may call functions declared later.
// Blocks, function bodies and for loops open nested scopes, where a name may be declared once.
type Resolver struct {
	env      *env
	bindings map[*ast.Ident]*ast.Ident

	// initializing is the variable whose initializer is being resolved.
	initializing *ast.Ident
}

func NewResolver() *Resolver {
	return &Resolver{
		env:      newEnv(nil),
		bindings: make(map[*ast.Ident]*ast.Ident),
	}
}

type env struct {
	parent *env
	table  map[string]*ast.Ident
}

func newEnv(parent *env) *env {
	return &env{
		parent: parent,
		table:  make(map[string]*ast.Ident),
	}
}

func (e *env) lookup(name *ast.Ident) (*ast.Ident, bool) {
	if decl, ok := e.table[name.String()]; ok {
		return decl, true
	}
	if e.parent != nil {
		return e.parent.lookup(name)
	}
	return nil, false
}

func (r *Resolver) Name() string {
	return "nameresolve.Resolver"
}

// Resolved returns the declaration that use refers to.
func (r *Resolver) Resolved(use *ast.Ident) (*ast.Ident, bool) {
	decl, ok := r.bindings[use]
	return decl, ok
}

func (r *Resolver) Init(program []ast.Node) error {
	// Register top-level declarations.
	for _, node := range program {
		if name := declName(node); name != nil {
			r.env.table[name.String()] = name
		}
	}
	return nil
}

// Run reports every undefined or duplicated name in the program.
func (r *Resolver) Run(program []ast.Node) ([]ast.Node, error) {
	var err error
	for _, node := range program {
		err = errors.Join(err, r.solve(node))
	}
	return program, err
}

func (r *Resolver) global() bool {
	return r.env.parent == nil
}

func (r *Resolver) scoped(f func() error) error {
	r.env = newEnv(r.env)
	defer func() { r.env = r.env.parent }()
	return f()
}

// define declares name in the current scope. Top-level names were registered by Init.
func (r *Resolver) define(name *ast.Ident) error {
	if r.global() {
		return nil
	}
	if prev, ok := r.env.table[name.String()]; ok {
		line, _ := prev.Source.Position(prev.Span.Start)
		return diag.At(diag.DuplicateName, name.Source, name.Token,
			"`%s` is already defined in this scope at line %d", name, line)
	}
	r.env.table[name.String()] = name
	return nil
}

func declName(node ast.Node) *ast.Ident {
	switch n := node.(type) {
	case *ast.Var:
		return n.Name
	case *ast.Fun:
		return n.Name
	case *ast.NonTerm:
		if n.Op == token.CLASS {
			if name, ok := n.Children[0].(*ast.Ident); ok {
				return name
			}
		}
	}
	return nil
}

func (r *Resolver) solveAll(nodes []ast.Node) error {
	var err error
	for _, node := range nodes {
		err = errors.Join(err, r.solve(node))
	}
	return err
}

// solve all variables in the node.
func (r *Resolver) solve(node ast.Node) error {
	switch n := node.(type) {
	case *ast.Ident:
		decl, ok := r.env.lookup(n)
		if !ok || decl == r.initializing {
			return diag.At(diag.UndefinedName, n.Source, n.Token, "`%s` is not defined", n)
		}
		r.bindings[n] = decl
		return nil
	case *ast.Number, *ast.Str, *ast.Bool, *ast.Nil, *ast.This, *ast.Super, *ast.Error, *ast.Empty:
		return nil
	case *ast.Var:
		// The initializer cannot see the variable it initializes,
		// even at top level where Init has already registered the name.
		outer := r.initializing
		r.initializing = n.Name
		err := r.solve(n.Init)
		r.initializing = outer
		return errors.Join(err, r.define(n.Name))
	case *ast.Fun:
		err := r.define(n.Name)
		return errors.Join(err, r.scoped(func() error {
			var err error
			for _, param := range n.Params {
				name, ok := param.(*ast.Ident)
				if !ok {
					err = errors.Join(err, diag.At(diag.UnexpectedToken, n.Name.Source, param.Base(),
						"expected parameter name, found %v", param))
					continue
				}
				err = errors.Join(err, r.define(name))
			}
			return errors.Join(err, r.solve(n.Body))
		}))
	case *ast.Call:
		return errors.Join(r.solve(n.Callee), r.solveAll(n.Args))
	case *ast.NonTerm:
		return r.solveNonTerm(n)
	default:
		log.Panicf("unexpected node: %v", n)
		return nil
	}
}

func (r *Resolver) solveNonTerm(n *ast.NonTerm) error {
	//exhaustive:ignore
	switch n.Op {
	case token.CLASS:
		var err error
		if name, ok := n.Children[0].(*ast.Ident); ok {
			err = r.define(name)
		}
		return errors.Join(err, r.scoped(func() error {
			return r.solve(n.Children[1])
		}))
	case token.GROUP, token.BLOCK, token.FOR:
		return r.scoped(func() error {
			return r.solveAll(n.Children)
		})
	case token.DOT:
		// The right-hand side of a field access is a property name, not a variable.
		if _, ok := n.Children[1].(*ast.Ident); ok {
			return r.solve(n.Children[0])
		}
		return r.solveAll(n.Children)
	default:
		return r.solveAll(n.Children)
	}
}
