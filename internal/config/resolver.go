package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spachava753/llmport/internal/llm"
)

// ResolveConfig loads the config file, applies environment overrides,
// validates the result and resolves it into runtime settings.
func ResolveConfig(configPath string) (*Config, error) {
	rawCfg, resolvedPath, err := LoadEffectiveRawConfig(configPath)
	if err != nil {
		return nil, err
	}
	cfg, err := ResolveFromRaw(rawCfg)
	if err != nil {
		return nil, withPath(resolvedPath, err)
	}
	cfg.Path = resolvedPath
	return cfg, nil
}

// LoadEffectiveRawConfig loads the config file and applies environment
// overrides and validation, without resolving secrets.
func LoadEffectiveRawConfig(configPath string) (*RawConfig, string, error) {
	rawCfg, resolvedPath, err := LoadRawConfigWithPath(configPath)
	if err != nil {
		return nil, "", err
	}
	if err := rawCfg.applyEnv(); err != nil {
		return nil, "", err
	}
	if err := rawCfg.Validate(); err != nil {
		return nil, "", withPath(resolvedPath, err)
	}
	return rawCfg, resolvedPath, nil
}

func withPath(path string, err error) error {
	if path == "" {
		return err
	}
	return fmt.Errorf("%s: %w", path, err)
}

// ResolveFromRaw validates and resolves an already-loaded RawConfig.
func ResolveFromRaw(rawCfg *RawConfig) (*Config, error) {
	if err := rawCfg.Validate(); err != nil {
		return nil, err
	}

	timeout := DefaultTimeout
	if rawCfg.Timeout != "" {
		// validated above
		timeout, _ = time.ParseDuration(rawCfg.Timeout)
	}
	initialDelay, _ := time.ParseDuration(rawCfg.Retry.InitialDelay)
	level, _ := ParseLogLevel(rawCfg.LogLevel)

	apiKey, err := resolveAPIKey(rawCfg)
	if err != nil {
		return nil, err
	}

	return &Config{
		Provider: llm.ProviderConfig{
			Name:        rawCfg.Provider,
			Model:       rawCfg.Model,
			APIKey:      apiKey,
			BaseURL:     rawCfg.BaseURL,
			MaxTokens:   rawCfg.MaxTokens,
			Temperature: rawCfg.Temperature,
			Timeout:     timeout,
		},
		SourceLanguage:    rawCfg.Source.Language,
		SourceExtensions:  rawCfg.Source.Extensions,
		Fence:             rawCfg.Source.Fence,
		TargetLanguage:    rawCfg.Target.Language,
		TargetExtension:   rawCfg.Target.Extension,
		ChunkLines:        rawCfg.Chunk.MaxLines,
		MinChunkLines:     rawCfg.Chunk.MinLines,
		MaxAttempts:       rawCfg.Retry.MaxAttempts,
		InitialDelay:      initialDelay,
		RequestsPerMinute: rawCfg.RateLimit.RequestsPerMinute,
		ExtractorCommand:  rawCfg.Extractor.Command,
		ExtractorArgs:     rawCfg.Extractor.Args,
		DefinitionMarker:  rawCfg.Extractor.DefinitionMarker,
		TemplatePath:      rawCfg.Prompt.TemplatePath,
		ExtractCodeBlocks: rawCfg.Prompt.ExtractCodeBlocks,
		Concurrency:       rawCfg.Concurrency,
		LogLevel:          level,
	}, nil
}

// resolveAPIKey reads the key from api_key_env, or the provider's usual
// variable. A missing key is accepted only with a custom base URL.
func resolveAPIKey(rawCfg *RawConfig) (string, error) {
	name := rawCfg.APIKeyEnv
	if name == "" {
		name = defaultAPIKeyEnv[rawCfg.Provider]
	}
	key := os.Getenv(name)
	if key == "" && rawCfg.BaseURL == "" {
		return "", fmt.Errorf("API key environment variable %s is not set", name)
	}
	return key, nil
}
