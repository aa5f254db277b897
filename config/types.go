// Package config provides layered configuration for matview.
//
// Values come from built-in defaults, an optional YAML file, MATVIEW_
// environment variables and command line flags, in increasing order of
// precedence. Nothing is ever written back.
package config

import "matview/explorer"

// Config is the complete application configuration.
type Config struct {
	Display  DisplayConfig `koanf:"display"`
	Detail   DetailConfig  `koanf:"detail"`
	LogLevel string        `koanf:"log_level"`
}

// DisplayConfig controls the table view.
type DisplayConfig struct {
	RowLimit  int `koanf:"row_limit"`
	TextLimit int `koanf:"text_limit"`
}

// DetailConfig controls the detail pane.
type DetailConfig struct {
	LargeArray int `koanf:"large_array"`
	Preview    int `koanf:"preview"`
}

// Default values.
const (
	DefaultRowLimit   = 1000
	DefaultTextLimit  = 50
	DefaultLargeArray = 10000
	DefaultPreview    = 100
	DefaultLogLevel   = "info"

	// MaxRowLimit bounds display.row_limit.
	MaxRowLimit = 100000
)

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			RowLimit:  DefaultRowLimit,
			TextLimit: DefaultTextLimit,
		},
		Detail: DetailConfig{
			LargeArray: DefaultLargeArray,
			Preview:    DefaultPreview,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Limits converts the configuration into explorer limits.
func (c *Config) Limits() explorer.Limits {
	return explorer.Limits{
		RowLimit:   c.Display.RowLimit,
		TextLimit:  c.Display.TextLimit,
		LargeArray: c.Detail.LargeArray,
		Preview:    c.Detail.Preview,
	}
}
