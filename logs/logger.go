// Package logs builds the structured logger shared by the driver, the parser and the CLI.
package logs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	slogmulti "github.com/samber/slog-multi"
	slogjournal "github.com/systemd/slog-journal"
)

type Options struct {
	// Level applies to every handler.
	Level slog.Leveler
	// Writer receives human-readable text. Nil means no text output.
	Writer io.Writer
	// File receives JSON records when not empty. It is opened for appending.
	File string
	// Journal also sends records to the systemd journal when it is reachable.
	Journal bool
}

// Logger fans records out to every configured handler.
// Close releases the log file, if any.
type Logger struct {
	*slog.Logger
	closers []io.Closer
}

func New(opts Options) (*Logger, error) {
	var handlers []slog.Handler
	var closers []io.Closer
	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	// local
	var terminalHandler slog.Handler
	if opts.Writer != nil {
		terminalHandler = slog.NewTextHandler(opts.Writer, handlerOpts)
		handlers = append(handlers, terminalHandler)
	}

	// file
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		closers = append(closers, f)
		handlers = append(handlers, slog.NewJSONHandler(f, handlerOpts))
	}

	// systemd journal
	if opts.Journal {
		journalHandler, err := slogjournal.NewHandler(&slogjournal.Options{
			Level: opts.Level,
			ReplaceGroup: func(key string) string {
				return toJournalKey(key)
			},
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				a.Key = toJournalKey(a.Key)
				return a
			},
		})
		if err != nil {
			if terminalHandler != nil {
				record := slog.NewRecord(time.Now(), slog.LevelWarn, "new systemd journal handler", 0)
				record.Add("error", err)
				_ = terminalHandler.Handle(context.Background(), record)
			}
		} else {
			handlers = append(handlers, journalHandler)
		}
	}

	return &Logger{
		Logger:  slog.New(slogmulti.Fanout(handlers...)),
		closers: closers,
	}, nil
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func (l *Logger) Close() error {
	var err error
	for _, c := range l.closers {
		err = errors.Join(err, c.Close())
	}
	l.closers = nil
	return err
}

func toJournalKey(str string) string {
	str = strings.ToUpper(str)
	str = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' ||
			r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, str)
	return str
}
