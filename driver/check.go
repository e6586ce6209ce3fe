package driver

import (
	"errors"

	"github.com/takoeight0821/loxfront/ast"
)

// ArityCheck rejects programs that contain a NonTerm with the wrong number of children
// or a nil subtree. The parser never builds such trees; the check guards trees built
// or rewritten by other passes.
type ArityCheck struct{}

func (ArityCheck) Init([]ast.Node) error {
	return nil
}

func (ArityCheck) Run(program []ast.Node) ([]ast.Node, error) {
	var err error
	for _, node := range program {
		err = errors.Join(err, ast.Validate(node))
	}
	return program, err
}

var _ Pass = ArityCheck{}
