package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validate checks struct constraints and the values the tags cannot express.
func (c *RawConfig) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Timeout != "" {
		if _, err := parsePositiveDuration(c.Timeout); err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
	}
	if _, err := parsePositiveDuration(c.Retry.InitialDelay); err != nil {
		return fmt.Errorf("retry.initial_delay: %w", err)
	}
	for i, ext := range c.Source.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("source.extensions[%d]: %q must start with a dot", i, ext)
		}
	}
	if !strings.HasPrefix(c.Target.Extension, ".") {
		return fmt.Errorf("target.extension: %q must start with a dot", c.Target.Extension)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	return nil
}

func parsePositiveDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", s)
	}
	return d, nil
}

// ParseLogLevel accepts the slog level names (debug, info, warn, error).
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, err
	}
	return level, nil
}
