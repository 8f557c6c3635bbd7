// Package config loads the engine's recognized options from YAML,
// validating and clamping to the bounds the engine itself enforces.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vibetunnel/vterm/pkg/terminal"
)

// Config holds the engine's recognized options, all with defaults.
type Config struct {
	Cols                 int  `yaml:"cols"`
	Rows                 int  `yaml:"rows"`
	MaxBufferLines       int  `yaml:"max_buffer_lines"`
	MaxLineLength        int  `yaml:"max_line_length"`
	HardMaxLines         int  `yaml:"hard_max_lines"`
	HandleCarriageReturn bool `yaml:"handle_carriage_return"`
}

// Defaults returns the engine's defaults: 80x24, 1000 scrollback lines,
// 4096-cell line length, 10000-line hard ceiling, carriage return
// handled normally.
func Defaults() Config {
	opts := terminal.DefaultOptions()
	return Config{
		Cols:                 opts.Cols,
		Rows:                 opts.Rows,
		MaxBufferLines:       opts.MaxBufferLines,
		MaxLineLength:        opts.MaxLineLength,
		HardMaxLines:         terminal.HardMaxLines,
		HandleCarriageReturn: opts.HandleCarriageReturn,
	}
}

// Load reads and strictly decodes path: unknown keys are rejected
// rather than silently ignored, since a typo'd option should surface at
// load time, not at the first session that silently used the wrong
// default.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.clamp()
	return cfg, nil
}

// clamp enforces the bounds the engine itself enforces, so a bad config
// value degrades to the nearest valid one rather than producing a
// terminal the engine would have rejected. HardMaxLines can only narrow
// the engine's true ceiling (terminal.HardMaxLines), never raise it: the
// ceiling is a hard limit regardless of configuration, and a config file
// only gets to ask for something stricter.
func (c *Config) clamp() {
	if c.Cols <= 0 {
		c.Cols = 80
	}
	if c.Rows <= 0 {
		c.Rows = 24
	}
	if c.HardMaxLines <= 0 || c.HardMaxLines > terminal.HardMaxLines {
		c.HardMaxLines = terminal.HardMaxLines
	}
	if c.MaxBufferLines <= 0 {
		c.MaxBufferLines = 1000
	}
	if c.MaxBufferLines > c.HardMaxLines {
		c.MaxBufferLines = c.HardMaxLines
	}
	if c.MaxLineLength <= 0 {
		c.MaxLineLength = terminal.DefaultMaxLineLength
	}
}

// Options converts the loaded config into terminal.Options.
func (c Config) Options() terminal.Options {
	return terminal.Options{
		Cols:                 c.Cols,
		Rows:                 c.Rows,
		MaxBufferLines:       c.MaxBufferLines,
		MaxLineLength:        c.MaxLineLength,
		HandleCarriageReturn: c.HandleCarriageReturn,
	}
}
