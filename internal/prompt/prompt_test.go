package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spachava753/llmport/internal/symbols"
)

func TestBuild(t *testing.T) {
	b, err := New(Options{SourceLanguage: "C", TargetLanguage: "Rust", Fence: "c"})
	require.NoError(t, err)

	records := []symbols.Record{
		{Name: "BUF_SIZE", Line: 3, Definition: "4096"},
		{Name: "MAX(a,b)", Line: 9, Definition: "((a) > (b) ? (a) : (b))"},
		{Name: "DEBUG", Line: 1, Definition: "1"},
	}
	chunk := "int add(int a, int b) {\n\treturn a + b;\n}"

	got, err := b.Build(chunk, records)
	require.NoError(t, err)

	assert.Contains(t, got, "```c\n"+chunk+"\n```")
	assert.Contains(t, got, "idiomatic Rust")

	var prev int
	for _, r := range records {
		line := "#define " + r.Name + " " + r.Definition
		idx := strings.Index(got, line)
		require.GreaterOrEqual(t, idx, 0, "missing %q", line)
		assert.Greater(t, idx, prev-1, "record %s out of order", r.Name)
		prev = idx
	}
}

func TestBuildDeterministic(t *testing.T) {
	b, err := New(Options{SourceLanguage: "C", TargetLanguage: "Rust", Fence: "c"})
	require.NoError(t, err)

	records := []symbols.Record{{Name: "A", Line: 1, Definition: "1"}}
	first, err := b.Build("x", records)
	require.NoError(t, err)
	second, err := b.Build("x", records)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildNoRecords(t *testing.T) {
	b, err := New(Options{SourceLanguage: "C", TargetLanguage: "Rust", Fence: "c"})
	require.NoError(t, err)

	got, err := b.Build("void f(void);", nil)
	require.NoError(t, err)
	assert.Contains(t, got, "void f(void);")
	assert.NotContains(t, got, "#define")
}

func TestFormatRecords(t *testing.T) {
	got := FormatRecords("%define", []symbols.Record{
		{Name: "A", Definition: "1"},
		{Name: "B", Definition: "A + 1"},
	})
	assert.Equal(t, "%define A 1\n%define B A + 1", got)
}

func TestCustomTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.tmpl")
	tmpl := `{{ .TargetLanguage | upper }}{{ range .Records }}
{{ formatRecord $.DefinitionMarker . }}{{ end }}
---
{{ .Chunk }}`
	require.NoError(t, os.WriteFile(path, []byte(tmpl), 0o644))

	b, err := New(Options{TargetLanguage: "Go", TemplatePath: path})
	require.NoError(t, err)

	got, err := b.Build("code", []symbols.Record{{Name: "N", Definition: "2"}})
	require.NoError(t, err)
	assert.Equal(t, "GO\n#define N 2\n---\ncode", got)
}

func TestNewErrors(t *testing.T) {
	t.Run("missing template file", func(t *testing.T) {
		_, err := New(Options{TemplatePath: filepath.Join(t.TempDir(), "missing.tmpl")})
		assert.Error(t, err)
	})

	t.Run("invalid template", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.tmpl")
		require.NoError(t, os.WriteFile(path, []byte("{{ .Chunk "), 0o644))
		_, err := New(Options{TemplatePath: path})
		assert.Error(t, err)
	})
}

func TestBuildExecutionError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fail.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(`{{ fail "no chunk" }}`), 0o644))

	b, err := New(Options{TemplatePath: path})
	require.NoError(t, err)
	_, err = b.Build("x", nil)
	assert.Error(t, err)
}
