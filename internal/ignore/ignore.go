// Package ignore decides which files under the input tree are left out of a
// conversion run. Rules use gitignore syntax and come from .llmportignore
// files found in the input directory and its ancestors.
package ignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// FileName is the name of the ignore file looked up in each directory.
const FileName = ".llmportignore"

// DefaultPatterns are always applied before any ignore file.
var DefaultPatterns = []string{
	".git/**",
	FileName,
}

// Rules matches slash-separated paths relative to the input directory.
type Rules struct {
	matcher *gitignore.GitIgnore
}

// New compiles patterns on top of DefaultPatterns.
func New(patterns ...string) *Rules {
	all := append(append([]string{}, DefaultPatterns...), patterns...)
	return &Rules{matcher: gitignore.CompileIgnoreLines(all...)}
}

// Load reads every ignore file from startDir up to the filesystem root.
// Files closer to the root are applied first.
func Load(startDir string) (*Rules, error) {
	files, err := findIgnoreFiles(startDir)
	if err != nil {
		return nil, err
	}

	var patterns []string
	for i := len(files) - 1; i >= 0; i-- {
		content, err := os.ReadFile(files[i])
		if err != nil {
			return nil, fmt.Errorf("failed to read ignore file %s: %w", files[i], err)
		}
		patterns = append(patterns, strings.Split(string(content), "\n")...)
	}
	return New(patterns...), nil
}

// Match reports whether rel is excluded. A nil Rules matches nothing.
func (r *Rules) Match(rel string) bool {
	if r == nil || r.matcher == nil {
		return false
	}
	return r.matcher.MatchesPath(filepath.ToSlash(rel))
}

// findIgnoreFiles returns ignore files from startDir upwards, nearest first.
func findIgnoreFiles(startDir string) ([]string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("could not resolve %s: %w", startDir, err)
	}

	var files []string
	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			files = append(files, candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return files, nil
		}
		dir = parent
	}
}
