// Package chunk splits source text into bounded groups of lines.
package chunk

import "strings"

// Split partitions text into consecutive groups of at most maxLines lines.
//
// When the text has maxLines lines or fewer it is returned unchanged as the
// only element. Otherwise each group is rejoined with "\n"; the trailing line
// terminator of the input is not carried into the last group. A maxLines
// below 1 is treated as 1.
func Split(text string, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	lines := Lines(text)
	if len(lines) <= maxLines {
		return []string{text}
	}

	chunks := make([]string, 0, (len(lines)+maxLines-1)/maxLines)
	for start := 0; start < len(lines); start += maxLines {
		end := min(start+maxLines, len(lines))
		chunks = append(chunks, strings.Join(lines[start:end], "\n"))
	}
	return chunks
}

// Lines splits text on "\n", "\r\n" and "\r". A terminator at the very end
// does not produce an empty final line, and empty text has no lines.
func Lines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexAny(text, "\r\n")
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i])
		if text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n' {
			i++
		}
		text = text[i+1:]
	}
	return lines
}

// CountLines reports the number of lines Split would see in text.
func CountLines(text string) int {
	return len(Lines(text))
}
