package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matview.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	lim := cfg.Limits()
	assert.Equal(t, 1000, lim.RowLimit)
	assert.Equal(t, 50, lim.TextLimit)
	assert.Equal(t, 10000, lim.LargeArray)
	assert.Equal(t, 100, lim.Preview)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
display:
  row_limit: 200
  text_limit: 30
detail:
  preview: 20
log_level: debug
`)

	// file over defaults
	cfg, err := Load(path, newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Display.RowLimit)
	assert.Equal(t, 30, cfg.Display.TextLimit)
	assert.Equal(t, 20, cfg.Detail.Preview)
	assert.Equal(t, DefaultLargeArray, cfg.Detail.LargeArray)
	assert.Equal(t, "debug", cfg.LogLevel)

	// env over file
	t.Setenv("MATVIEW_DISPLAY__ROW_LIMIT", "300")
	cfg, err = Load(path, newFlags(t))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Display.RowLimit)

	// flags over env, but only when set
	cfg, err = Load(path, newFlags(t, "--row-limit", "400"))
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Display.RowLimit)
	assert.Equal(t, 30, cfg.Display.TextLimit)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero rows", func(c *Config) { c.Display.RowLimit = 0 }, "display.row_limit"},
		{"too many rows", func(c *Config) { c.Display.RowLimit = MaxRowLimit + 1 }, "display.row_limit"},
		{"zero text", func(c *Config) { c.Display.TextLimit = 0 }, "display.text_limit"},
		{"zero large", func(c *Config) { c.Detail.LargeArray = 0 }, "detail.large_array"},
		{"preview above large", func(c *Config) { c.Detail.Preview = c.Detail.LargeArray + 1 }, "detail.preview"},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestLoadRejectsInvalidFlag(t *testing.T) {
	_, err := Load("", newFlags(t, "--preview", "0"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("warn")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	level, err = ParseLevel(" Debug ")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}
