// Package codeblock pulls fenced code out of markdown-formatted completions.
package codeblock

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Extract returns the contents of the fenced code blocks in completion,
// joined with a newline. A completion without any fenced block is returned
// unchanged.
func Extract(completion string) string {
	blocks := Blocks(completion)
	if len(blocks) == 0 {
		return completion
	}
	return strings.Join(blocks, "\n")
}

// Blocks returns the body of every fenced code block in src, in document
// order. Trailing newlines of each body are dropped.
func Blocks(src string) []string {
	source := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var blocks []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		var sb strings.Builder
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(source))
		}
		blocks = append(blocks, strings.TrimRight(sb.String(), "\n"))
		return ast.WalkSkipChildren, nil
	})
	return blocks
}
