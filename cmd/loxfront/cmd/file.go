package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/takoeight0821/loxfront/ast"
	"github.com/takoeight0821/loxfront/lexer"
	"github.com/takoeight0821/loxfront/nameresolve"
	"github.com/takoeight0821/loxfront/parser"
	"github.com/takoeight0821/loxfront/source"
)

func readSource(path string) (*source.Source, error) {
	text, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return source.New(path, string(text)), nil
}

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens FILE",
		Short: "Dump the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			tokens, err := lexer.Lex(src)
			if err != nil {
				a.report(cmd.ErrOrStderr(), err)
				return errReported
			}
			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				fmt.Fprintln(out, tok)
			}
			return nil
		},
	}
}

func newParseCmd(a *app) *cobra.Command {
	var expr bool
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the syntax tree of a file as S-expressions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			if expr {
				node, err := parser.ParseExpr(src, parser.WithMaxDepth(a.cfg.MaxDepth), parser.WithLogger(a.logger.Logger))
				if err != nil {
					a.report(cmd.ErrOrStderr(), err)
					return errReported
				}
				fmt.Fprintln(cmd.OutOrStdout(), node)
				return nil
			}
			nodes, err := a.runner().RunProgram(src)
			fmt.Fprint(cmd.OutOrStdout(), ast.Dump(nodes))
			if err != nil {
				a.report(cmd.ErrOrStderr(), err)
				return errReported
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&expr, "expr", false, "parse the file as a single expression")
	return cmd
}

func newFmtCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fmt FILE",
		Short: "Print a file in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			nodes, err := a.runner().RunProgram(src)
			if err != nil {
				a.report(cmd.ErrOrStderr(), err)
				return errReported
			}
			fmt.Fprint(cmd.OutOrStdout(), ast.Format(nodes))
			return nil
		},
	}
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Report syntax errors and undefined or duplicated names",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			r := a.runner()
			r.AddPass(nameresolve.NewResolver())
			if _, err := r.RunProgram(src); err != nil {
				a.report(cmd.ErrOrStderr(), err)
				return errReported
			}
			a.logger.Info("check passed", "file", src.Name)
			return nil
		},
	}
}
