package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// EnvPrefix is prepended to every overridable field's variable name.
const EnvPrefix = "LLMPORT_"

// envOverlay lists the settings that environment variables may override.
// It holds only scalar fields so the parser never descends into the
// optional pointer fields of RawConfig.
type envOverlay struct {
	Provider          string `env:"PROVIDER"`
	Model             string `env:"MODEL"`
	BaseURL           string `env:"BASE_URL"`
	ChunkLines        int    `env:"CHUNK_LINES"`
	Concurrency       int    `env:"CONCURRENCY"`
	LogLevel          string `env:"LOG_LEVEL"`
	RequestsPerMinute int    `env:"REQUESTS_PER_MINUTE"`
}

// applyEnv overrides settings from LLMPORT_ variables. Unset variables leave
// the field untouched.
func (c *RawConfig) applyEnv() error {
	o := envOverlay{
		Provider:          c.Provider,
		Model:             c.Model,
		BaseURL:           c.BaseURL,
		ChunkLines:        c.Chunk.MaxLines,
		Concurrency:       c.Concurrency,
		LogLevel:          c.LogLevel,
		RequestsPerMinute: c.RateLimit.RequestsPerMinute,
	}
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	c.Provider = o.Provider
	c.Model = o.Model
	c.BaseURL = o.BaseURL
	c.Chunk.MaxLines = o.ChunkLines
	c.Concurrency = o.Concurrency
	c.LogLevel = o.LogLevel
	c.RateLimit.RequestsPerMinute = o.RequestsPerMinute
	return nil
}
