// Package symbols extracts macro and symbol definitions from source files by
// running an external analyzer such as ctags.
package symbols

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"unicode"
)

// Record is a single definition reported by the analyzer.
type Record struct {
	Name       string
	Line       int
	Definition string
}

// minFields is the number of whitespace separated columns of a usable
// cross-reference line: name, kind, line, file, the leading source token,
// then the definition text.
const minFields = 6

// DefaultCommand and DefaultArgs list C macro definitions in ctags
// cross-reference format.
var (
	DefaultCommand = "ctags"
	DefaultArgs    = []string{"-x", "--c-kinds=d"}
)

// Extractor runs an analyzer command for a file and parses its output.
type Extractor struct {
	Command string
	Args    []string
	Logger  *slog.Logger
}

// NewExtractor returns an Extractor for command and args, falling back to
// ctags when command is empty.
func NewExtractor(command string, args []string, logger *slog.Logger) *Extractor {
	if command == "" {
		command = DefaultCommand
		args = DefaultArgs
	}
	return &Extractor{Command: command, Args: args, Logger: logger}
}

// Extract runs the analyzer for path. Failures are logged and yield an empty
// result; they are never returned to the caller.
func (e *Extractor) Extract(ctx context.Context, path string) []Record {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}

	args := append(append([]string{}, e.Args...), path)
	cmd := exec.CommandContext(ctx, e.Command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Error("symbol extraction failed",
				"command", e.Command,
				"file", path,
				"exit_code", exitErr.ExitCode(),
				"stderr", strings.TrimSpace(stderr.String()),
			)
		} else {
			logger.Error("symbol extraction failed", "command", e.Command, "file", path, "error", err)
		}
		return []Record{}
	}

	records, err := Parse(string(out))
	if err != nil {
		logger.Error("could not parse analyzer output", "command", e.Command, "file", path, "error", err)
		return []Record{}
	}
	logger.Debug("extracted symbols", "file", path, "count", len(records))
	return records
}

// Parse reads analyzer output with one definition per line. Lines with fewer
// than six fields are skipped. The definition is the remainder of the line
// starting at the sixth field, with its inner spacing kept.
func Parse(output string) ([]Record, error) {
	records := []Record{}
	for i, line := range strings.Split(output, "\n") {
		fields, rest := splitFields(line, minFields-1)
		if len(fields) < minFields-1 || rest == "" {
			continue
		}
		lineNo, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid line number %q: %w", i+1, fields[2], err)
		}
		records = append(records, Record{
			Name:       fields[0],
			Line:       lineNo,
			Definition: strings.TrimRightFunc(rest, unicode.IsSpace),
		})
	}
	return records, nil
}

// splitFields returns the first n whitespace separated fields of s and the
// remainder after them with leading whitespace removed.
func splitFields(s string, n int) ([]string, string) {
	fields := make([]string, 0, n)
	for len(fields) < n {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			return fields, ""
		}
		end := strings.IndexFunc(s, unicode.IsSpace)
		if end < 0 {
			fields = append(fields, s)
			return fields, ""
		}
		fields = append(fields, s[:end])
		s = s[end:]
	}
	return fields, strings.TrimLeftFunc(s, unicode.IsSpace)
}
