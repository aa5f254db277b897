package config

import (
	"fmt"
	"log/slog"
	"strings"
)

// Validate checks that every value is within range.
func (c *Config) Validate() error {
	if c.Display.RowLimit < 1 || c.Display.RowLimit > MaxRowLimit {
		return fmt.Errorf("display.row_limit must be between 1 and %d, got %d", MaxRowLimit, c.Display.RowLimit)
	}
	if c.Display.TextLimit < 1 {
		return fmt.Errorf("display.text_limit must be positive, got %d", c.Display.TextLimit)
	}
	if c.Detail.LargeArray < 1 {
		return fmt.Errorf("detail.large_array must be positive, got %d", c.Detail.LargeArray)
	}
	if c.Detail.Preview < 1 || c.Detail.Preview > c.Detail.LargeArray {
		return fmt.Errorf("detail.preview must be between 1 and detail.large_array (%d), got %d",
			c.Detail.LargeArray, c.Detail.Preview)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel converts a log level name to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s)))); err != nil {
		return 0, fmt.Errorf("log_level must be one of debug, info, warn, error: got %q", s)
	}
	return level, nil
}
