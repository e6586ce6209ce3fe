package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"github.com/takoeight0821/loxfront/ast"
	"github.com/takoeight0821/loxfront/source"
)

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Parse lines interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.repl(cmd)
		},
	}
}

func (a *app) repl(cmd *cobra.Command) error {
	history := a.cfg.HistoryFile
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer func() {
		if history != "" {
			a.saveHistory(line, history)
		}
		line.Close()
	}()

	if history != "" {
		if f, err := os.Open(history); err == nil {
			defer f.Close()
			if _, err := line.ReadHistory(f); err != nil {
				a.logger.Warn("read history", "path", history, "error", err)
			}
		}
	}

	r := a.runner()
	out := cmd.OutOrStdout()
	for {
		input, err := line.Prompt("> ")
		if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		nodes, err := r.RunSource(source.New("<repl>", input))
		if err != nil {
			a.report(cmd.ErrOrStderr(), err)
			continue
		}
		fmt.Fprint(out, ast.Dump(nodes))
	}
}

func (a *app) saveHistory(line *liner.State, history string) {
	if err := os.MkdirAll(filepath.Dir(history), os.ModePerm); err != nil {
		a.logger.Warn("create history directory", "path", history, "error", err)
		return
	}
	f, err := os.Create(history)
	if err != nil {
		a.logger.Warn("create history", "path", history, "error", err)
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		a.logger.Warn("write history", "path", history, "error", err)
	}
}
