package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spachava753/llmport/internal/llm"
)

func TestResolveFromRawDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-test")

	cfg, err := ResolveFromRaw(Defaults())
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderConfig{
		Name:      llm.ProviderAnthropic,
		Model:     DefaultModel,
		APIKey:    "sk-ant-test",
		MaxTokens: DefaultMaxTokens,
		Timeout:   5 * time.Minute,
	}, cfg.Provider)
	assert.Equal(t, "C", cfg.SourceLanguage)
	assert.Equal(t, []string{".c"}, cfg.SourceExtensions)
	assert.Equal(t, "c", cfg.Fence)
	assert.Equal(t, "Rust", cfg.TargetLanguage)
	assert.Equal(t, ".rs", cfg.TargetExtension)
	assert.Equal(t, 1000, cfg.ChunkLines)
	assert.Equal(t, 1, cfg.MinChunkLines)
	assert.Equal(t, uint(5), cfg.MaxAttempts)
	assert.Equal(t, time.Second, cfg.InitialDelay)
	assert.Equal(t, 0, cfg.RequestsPerMinute)
	assert.Equal(t, "ctags", cfg.ExtractorCommand)
	assert.Equal(t, []string{"-x", "--c-kinds=d"}, cfg.ExtractorArgs)
	assert.Equal(t, "#define", cfg.DefinitionMarker)
	assert.False(t, cfg.ExtractCodeBlocks)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestResolveAPIKey(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		mutate  func(c *RawConfig)
		want    string
		wantErr string
	}{
		{
			name:   "provider default variable",
			env:    map[string]string{"OPENAI_API_KEY": "sk-openai"},
			mutate: func(c *RawConfig) { c.Provider = llm.ProviderOpenAI },
			want:   "sk-openai",
		},
		{
			name:   "gemini default variable",
			env:    map[string]string{"GEMINI_API_KEY": "gm-key"},
			mutate: func(c *RawConfig) { c.Provider = llm.ProviderGemini },
			want:   "gm-key",
		},
		{
			name:   "custom variable",
			env:    map[string]string{"MY_PORT_KEY": "custom"},
			mutate: func(c *RawConfig) { c.APIKeyEnv = "MY_PORT_KEY" },
			want:   "custom",
		},
		{
			name:    "missing key",
			env:     map[string]string{"ANTHROPIC_API_KEY": ""},
			mutate:  func(c *RawConfig) {},
			wantErr: "ANTHROPIC_API_KEY is not set",
		},
		{
			name: "missing key with local base url",
			env:  map[string]string{"OPENAI_API_KEY": ""},
			mutate: func(c *RawConfig) {
				c.Provider = llm.ProviderOpenAI
				c.BaseURL = "http://localhost:11434/v1"
			},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			raw := Defaults()
			tt.mutate(raw)
			cfg, err := ResolveFromRaw(raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Provider.APIKey)
		})
	}
}

func TestResolveConfig(t *testing.T) {
	dir := isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("LLMPORT_CONCURRENCY", "2")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "llmport.yaml"), []byte(`
provider: openai
model: gpt-4o
timeout: 90s
temperature: 0
retry:
  max_attempts: 3
  initial_delay: 250ms
rate_limit:
  requests_per_minute: 20
prompt:
  extract_code_blocks: true
log_level: warn
`), 0644))

	cfg, err := ResolveConfig("")
	require.NoError(t, err)
	assert.Equal(t, "llmport.yaml", cfg.Path)
	assert.Equal(t, llm.ProviderOpenAI, cfg.Provider.Name)
	assert.Equal(t, 90*time.Second, cfg.Provider.Timeout)
	require.NotNil(t, cfg.Provider.Temperature)
	assert.Equal(t, 0.0, *cfg.Provider.Temperature)
	assert.Equal(t, uint(3), cfg.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.InitialDelay)
	assert.Equal(t, 20, cfg.RequestsPerMinute)
	assert.True(t, cfg.ExtractCodeBlocks)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestResolveConfigInvalidFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "llmport.yaml"), []byte("provider: bedrock\n"), 0644))

	_, err := ResolveConfig("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llmport.yaml")
}
