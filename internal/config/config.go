package config

import (
	"log/slog"
	"time"

	"github.com/spachava753/llmport/internal/llm"
)

// RawConfig is the shape of the configuration file. A subset of fields can be
// overridden by LLMPORT_ prefixed environment variables, see envOverlay.
type RawConfig struct {
	Provider    string   `yaml:"provider" json:"provider" validate:"required,oneof=anthropic openai gemini"`
	Model       string   `yaml:"model" json:"model" validate:"required"`
	BaseURL     string   `yaml:"base_url,omitempty" json:"base_url,omitempty" validate:"omitempty,url"`
	APIKeyEnv   string   `yaml:"api_key_env,omitempty" json:"api_key_env,omitempty"`
	MaxTokens   int      `yaml:"max_tokens" json:"max_tokens" validate:"gte=1"`
	Temperature *float64 `yaml:"temperature,omitempty" json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	Timeout     string   `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	Source    SourceConfig    `yaml:"source" json:"source"`
	Target    TargetConfig    `yaml:"target" json:"target"`
	Chunk     ChunkConfig     `yaml:"chunk" json:"chunk"`
	Retry     RetryConfig     `yaml:"retry" json:"retry"`
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`
	Extractor ExtractorConfig `yaml:"extractor" json:"extractor"`
	Prompt    PromptConfig    `yaml:"prompt" json:"prompt"`

	Concurrency int    `yaml:"concurrency" json:"concurrency" validate:"gte=1"`
	LogLevel    string `yaml:"log_level" json:"log_level" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// SourceConfig describes the language being converted from.
type SourceConfig struct {
	Language   string   `yaml:"language" json:"language" validate:"required"`
	Extensions []string `yaml:"extensions" json:"extensions" validate:"required,min=1,dive,required"`
	// Fence is the info string of the code fence around each chunk.
	Fence string `yaml:"fence" json:"fence"`
}

// TargetConfig describes the language being converted to.
type TargetConfig struct {
	Language  string `yaml:"language" json:"language" validate:"required"`
	Extension string `yaml:"extension" json:"extension" validate:"required"`
}

// ChunkConfig bounds the size of the pieces sent to the model.
type ChunkConfig struct {
	MaxLines int `yaml:"max_lines" json:"max_lines" validate:"gte=1"`
	// MinLines is the floor below which an overflowing chunk is not split.
	MinLines int `yaml:"min_lines" json:"min_lines" validate:"gte=1,ltefield=MaxLines"`
}

// RetryConfig controls retries of throttled model calls.
type RetryConfig struct {
	MaxAttempts  uint   `yaml:"max_attempts" json:"max_attempts" validate:"gte=1"`
	InitialDelay string `yaml:"initial_delay" json:"initial_delay"`
}

// RateLimitConfig caps the model call rate. Zero disables the limit.
type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute" validate:"gte=0"`
}

// ExtractorConfig selects the external definition analyzer.
type ExtractorConfig struct {
	Command          string   `yaml:"command" json:"command" validate:"required"`
	Args             []string `yaml:"args" json:"args"`
	DefinitionMarker string   `yaml:"definition_marker" json:"definition_marker"`
}

// PromptConfig customizes the prompt and completion handling.
type PromptConfig struct {
	TemplatePath      string `yaml:"template_path,omitempty" json:"template_path,omitempty"`
	ExtractCodeBlocks bool   `yaml:"extract_code_blocks" json:"extract_code_blocks"`
}

// Config is the resolved runtime configuration.
type Config struct {
	// Path is the file the configuration was loaded from, or empty when
	// only defaults and environment variables apply.
	Path string

	Provider llm.ProviderConfig

	SourceLanguage   string
	SourceExtensions []string
	Fence            string
	TargetLanguage   string
	TargetExtension  string

	ChunkLines    int
	MinChunkLines int

	MaxAttempts       uint
	InitialDelay      time.Duration
	RequestsPerMinute int

	ExtractorCommand  string
	ExtractorArgs     []string
	DefinitionMarker  string
	TemplatePath      string
	ExtractCodeBlocks bool

	Concurrency int
	LogLevel    slog.Level
}

// Default values applied before the file and environment are read.
const (
	DefaultProvider     = llm.ProviderAnthropic
	DefaultModel        = "claude-sonnet-4-5"
	DefaultMaxTokens    = 8192
	DefaultTimeout      = 5 * time.Minute
	DefaultChunkLines   = 1000
	DefaultMaxAttempts  = 5
	DefaultInitialDelay = time.Second
)

// Defaults returns a RawConfig populated with every default value.
func Defaults() *RawConfig {
	return &RawConfig{
		Provider:  DefaultProvider,
		Model:     DefaultModel,
		MaxTokens: DefaultMaxTokens,
		Timeout:   DefaultTimeout.String(),
		Source: SourceConfig{
			Language:   "C",
			Extensions: []string{".c"},
			Fence:      "c",
		},
		Target: TargetConfig{
			Language:  "Rust",
			Extension: ".rs",
		},
		Chunk: ChunkConfig{
			MaxLines: DefaultChunkLines,
			MinLines: 1,
		},
		Retry: RetryConfig{
			MaxAttempts:  DefaultMaxAttempts,
			InitialDelay: DefaultInitialDelay.String(),
		},
		Extractor: ExtractorConfig{
			Command:          "ctags",
			Args:             []string{"-x", "--c-kinds=d"},
			DefinitionMarker: "#define",
		},
		Concurrency: 1,
		LogLevel:    "info",
	}
}

// defaultAPIKeyEnv maps a provider to the variable its SDK reads by default.
var defaultAPIKeyEnv = map[string]string{
	llm.ProviderAnthropic: "ANTHROPIC_API_KEY",
	llm.ProviderOpenAI:    "OPENAI_API_KEY",
	llm.ProviderGemini:    "GEMINI_API_KEY",
}
