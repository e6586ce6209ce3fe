package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/takoeight0821/loxfront/config"
	"github.com/takoeight0821/loxfront/diag"
	"github.com/takoeight0821/loxfront/driver"
	"github.com/takoeight0821/loxfront/logs"
	"github.com/takoeight0821/loxfront/parser"
)

// errReported is returned after diagnostics have been written, so that the exit status is non-zero
// without printing the error again.
var errReported = errors.New("errors reported")

type app struct {
	cfgFile  string
	color    string
	maxDepth int
	logLevel string
	recovery bool

	cfg    config.Config
	logger *logs.Logger
}

func newApp() *app {
	return &app{logger: logs.Discard()}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "loxfront",
		Short: "Lexer and parser for a small Lox dialect",
		Long: `loxfront scans and parses Lox source text.

Commands:
  tokens  - dump the token stream of a file
  parse   - print the syntax tree of a file as S-expressions
  fmt     - print a file in canonical form
  check   - report syntax errors and undefined or duplicated names
  repl    - parse lines interactively (default)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.repl(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/"+config.RelPath+")")
	flags.StringVar(&a.color, "color", config.ColorAuto, "colorize diagnostics: auto, always or never")
	flags.IntVar(&a.maxDepth, "max-depth", parser.DefaultMaxDepth, "maximum nesting depth")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	flags.BoolVar(&a.recovery, "recover", false, "report every broken statement instead of stopping at the first")

	rootCmd.AddCommand(
		newTokensCmd(a),
		newParseCmd(a),
		newFmtCmd(a),
		newCheckCmd(a),
		newReplCmd(a),
	)
	return rootCmd
}

func Execute() error {
	a := newApp()
	err := execute(a, newRootCmd(a))
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// execute runs rootCmd and closes the logger afterwards, including when the command failed.
// cobra skips post-run hooks when a command fails.
func execute(a *app, rootCmd *cobra.Command) error {
	err := rootCmd.Execute()
	return errors.Join(err, a.close())
}

// close releases the log file and leaves a logger that drops every record.
func (a *app) close() error {
	err := a.logger.Close()
	a.logger = logs.Discard()
	return err
}

// setup loads the configuration, applies flag overrides and creates the logger.
func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.cfgFile != "" {
		a.cfg, err = config.Load(a.cfgFile)
	} else {
		a.cfg, err = config.Discover()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("color") {
		a.cfg.Color = a.color
	}
	if flags.Changed("max-depth") {
		a.cfg.MaxDepth = a.maxDepth
	}
	if flags.Changed("log-level") {
		a.cfg.LogLevel = a.logLevel
	}
	if flags.Changed("recover") {
		a.cfg.Recovery = a.recovery
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	level, err := config.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger, err = logs.New(logs.Options{
		Level:   level,
		Writer:  cmd.ErrOrStderr(),
		File:    a.cfg.LogFile,
		Journal: a.cfg.LogJournal,
	})
	if err != nil {
		return err
	}
	a.logger.Debug("loaded config", "config", a.cfgFile, "max_depth", a.cfg.MaxDepth, "color", a.cfg.Color)
	return nil
}

func (a *app) runner() *driver.PassRunner {
	r := driver.NewPassRunner()
	r.SetLogger(a.logger.Logger)
	r.AddParserOption(parser.WithMaxDepth(a.cfg.MaxDepth))
	if a.cfg.Recovery {
		r.AddParserOption(parser.WithRecovery())
	}
	r.AddPass(driver.ArityCheck{})
	return r
}

// report writes err to w, rendering each diagnostic it carries as a source excerpt.
func (a *app) report(w io.Writer, err error) {
	diags := diag.All(err)
	if len(diags) == 0 {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	opts := diag.RenderOptions{
		Color:   a.cfg.UseColor(isTerminal(w)),
		Context: a.cfg.ContextLines,
	}
	for _, d := range diags {
		if err := d.Render(w, opts); err != nil {
			a.logger.Warn("render diagnostic", "error", err)
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
