// Package config loads loxfront settings from a TOML or YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Format is the syntax of a configuration file.
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// RelPath is the configuration file location relative to the XDG config directories.
const RelPath = "loxfront/config.toml"

type Config struct {
	MaxDepth     int    `toml:"max_depth" yaml:"max_depth"`
	Color        string `toml:"color" yaml:"color"`
	ContextLines int    `toml:"context_lines" yaml:"context_lines"`
	LogLevel     string `toml:"log_level" yaml:"log_level"`
	LogFile      string `toml:"log_file" yaml:"log_file"`
	LogJournal   bool   `toml:"log_journal" yaml:"log_journal"`
	HistoryFile  string `toml:"history_file" yaml:"history_file"`
	Recovery     bool   `toml:"recovery" yaml:"recovery"`
}

// Default returns the settings used when no file overrides them.
func Default() Config {
	return Config{
		MaxDepth:     256,
		Color:        ColorAuto,
		ContextLines: 1,
		LogLevel:     "warn",
		LogFile:      "",
		HistoryFile:  filepath.Join(xdg.DataHome, "loxfront", "history"),
	}
}

// Load reads the file at path over the defaults.
// The format is chosen by extension; anything other than .yaml or .yml is TOML.
func Load(path string) (Config, error) {
	cfg := Default()
	content, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := parseContent(content, detectFormat(path), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Discover loads the configuration file found in the XDG config directories.
// When there is none, it returns the defaults.
func Discover() (Config, error) {
	path, err := xdg.SearchConfigFile(RelPath)
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

func parseContent(content []byte, format Format, cfg *Config) error {
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(content), cfg)
		if err != nil {
			return fmt.Errorf("toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("toml: unknown key %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	return nil
}

// Validate reports every setting that is out of range.
func (c Config) Validate() error {
	var err error
	if c.MaxDepth <= 0 {
		err = errors.Join(err, fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth))
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		err = errors.Join(err, fmt.Errorf("color must be one of auto, always, never, got %q", c.Color))
	}
	if c.ContextLines < 0 {
		err = errors.Join(err, fmt.Errorf("context_lines must not be negative, got %d", c.ContextLines))
	}
	if _, e := ParseLevel(c.LogLevel); e != nil {
		err = errors.Join(err, e)
	}
	return err
}

// ParseLevel converts a level name such as "debug" or "WARN" to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// UseColor decides whether diagnostics are styled, given whether the output is a terminal.
func (c Config) UseColor(terminal bool) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return terminal
	}
}
