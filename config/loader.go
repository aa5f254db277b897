package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix prefixes every environment variable read. A double underscore
// separates sections: MATVIEW_DISPLAY__ROW_LIMIT sets display.row_limit.
const EnvPrefix = "MATVIEW_"

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"row-limit":   "display.row_limit",
	"text-limit":  "display.text_limit",
	"large-array": "detail.large_array",
	"preview":     "detail.preview",
	"log-level":   "log_level",
}

// RegisterFlags adds the configuration flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Int("row-limit", DefaultRowLimit, "Maximum number of table rows shown")
	fs.Int("text-limit", DefaultTextLimit, "Maximum characters of text shown in a table cell")
	fs.Int("large-array", DefaultLargeArray, "Element count above which details show a preview only")
	fs.Int("preview", DefaultPreview, "Number of elements shown for large arrays")
	fs.String("log-level", DefaultLogLevel, "Log level (debug|info|warn|error)")
}

// Load builds the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// cfgFile may be empty. Only flags that were explicitly set are applied.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	def := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"display.row_limit":  def.Display.RowLimit,
		"display.text_limit": def.Display.TextLimit,
		"detail.large_array": def.Detail.LargeArray,
		"detail.preview":     def.Detail.Preview,
		"log_level":          def.LogLevel,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	if cfgFile != "" {
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment: MATVIEW_DISPLAY__ROW_LIMIT -> display.row_limit
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
