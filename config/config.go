// Package config loads importsmoke settings from file, environment and
// defaults.
package config

import (
	"errors"
	"fmt"
)

// Parser backends.
const (
	ParserScanner    = "scanner"
	ParserTreeSitter = "tree-sitter"
)

// Default settings.
const (
	DefaultImportsPath  = "tests/all_imports.txt"
	DefaultTestPath     = "tests/test_all_imports.py"
	DefaultSourcePrefix = "src"
	DefaultParser       = ParserScanner
)

var (
	errEmptyImportsPath = errors.New("output.imports must not be empty")
	errEmptyTestPath    = errors.New("output.test must not be empty")
	errSameOutputPaths  = errors.New("output.imports and output.test must differ")
)

// Config is the top-level configuration.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Output    OutputConfig    `mapstructure:"output"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Parser    string          `mapstructure:"parser"`
}

// OutputConfig holds artifact locations, relative to the repository root
// unless absolute.
type OutputConfig struct {
	Imports string `mapstructure:"imports"`
	Test    string `mapstructure:"test"`
}

// DiscoveryConfig tunes code root discovery and star import resolution.
type DiscoveryConfig struct {
	Ignore       []string `mapstructure:"ignore"`
	SourcePrefix string   `mapstructure:"source_prefix"`
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.Output.Imports == "" {
		return errEmptyImportsPath
	}
	if c.Output.Test == "" {
		return errEmptyTestPath
	}
	if c.Output.Imports == c.Output.Test {
		return errSameOutputPaths
	}
	switch c.Parser {
	case ParserScanner, ParserTreeSitter:
	default:
		return fmt.Errorf("unknown parser %q (valid options: %s, %s)", c.Parser, ParserScanner, ParserTreeSitter)
	}
	return nil
}
