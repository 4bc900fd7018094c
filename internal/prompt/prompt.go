// Package prompt renders the model prompt for a single chunk of source code.
package prompt

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/spachava753/llmport/internal/symbols"
)

//go:embed default.tmpl
var defaultTemplate string

// DefaultDefinitionMarker prefixes every record line in the prompt.
const DefaultDefinitionMarker = "#define"

// Options configures a Builder.
type Options struct {
	// SourceLanguage and TargetLanguage are display names, e.g. "C" and "Rust".
	SourceLanguage string
	TargetLanguage string
	// Fence is the info string of the code fence around the chunk.
	Fence string
	// DefinitionMarker prefixes each record line; defaults to "#define".
	DefinitionMarker string
	// TemplatePath optionally replaces the embedded template.
	TemplatePath string
}

// Data is what templates are executed against.
type Data struct {
	SourceLanguage   string
	TargetLanguage   string
	Fence            string
	DefinitionMarker string
	Records          []symbols.Record
	Chunk            string
}

// Builder renders prompts from a parsed template.
type Builder struct {
	tmpl *template.Template
	opts Options
}

// New parses the template selected by opts.
func New(opts Options) (*Builder, error) {
	if opts.DefinitionMarker == "" {
		opts.DefinitionMarker = DefaultDefinitionMarker
	}

	text := defaultTemplate
	name := "default"
	if opts.TemplatePath != "" {
		content, err := os.ReadFile(opts.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt template: %w", err)
		}
		text = string(content)
		name = opts.TemplatePath
	}

	tmpl, err := template.New(name).Funcs(funcMap()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &Builder{tmpl: tmpl, opts: opts}, nil
}

// Build renders the prompt for chunk with the given records in order.
func (b *Builder) Build(chunk string, records []symbols.Record) (string, error) {
	var buf bytes.Buffer
	err := b.tmpl.Execute(&buf, Data{
		SourceLanguage:   b.opts.SourceLanguage,
		TargetLanguage:   b.opts.TargetLanguage,
		Fence:            b.opts.Fence,
		DefinitionMarker: b.opts.DefinitionMarker,
		Records:          records,
		Chunk:            chunk,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// FormatRecord renders one record as "<marker> <name> <definition>".
func FormatRecord(marker string, r symbols.Record) string {
	return marker + " " + r.Name + " " + r.Definition
}

// FormatRecords renders one line per record, in order.
func FormatRecords(marker string, records []symbols.Record) string {
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = FormatRecord(marker, r)
	}
	return strings.Join(lines, "\n")
}

func funcMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["formatRecord"] = FormatRecord
	fm["formatRecords"] = FormatRecords
	return fm
}
