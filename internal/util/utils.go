package util

import (
	"fmt"
	"strings"
)

// GetLineAndColumn converts a byte offset into a 1-based line and column.
// Offsets past the end resolve to the position just after the last byte.
func GetLineAndColumn(src string, pos int) (line int, column int) {
	line, column = 1, 1
	for i, char := range src {
		if i >= pos {
			break
		}
		if char == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return
}

// GetContextLines renders the error line and up to two lines before it, with
// a caret under the offending column.
func GetContextLines(src string, errorLine, errorCol int) string {
	var sb strings.Builder
	lines := strings.Split(strings.TrimSuffix(src, "\n"), "\n")

	startLine := max(errorLine-2, 1)
	for i := startLine; i <= errorLine && i <= len(lines); i++ {
		content := lines[i-1]
		if i != errorLine {
			fmt.Fprintf(&sb, "     %3d | %s\n", i, content)
			continue
		}
		margin := fmt.Sprintf("  >  %3d | ", i)
		fmt.Fprintf(&sb, "%s%s\n", margin, content)
		prefix := content[:min(max(errorCol-1, 0), len(content))]
		fmt.Fprintf(&sb, "%s^ unexpected here", blankOut(margin+prefix))
	}
	return sb.String()
}

// blankOut replaces every character with a space, keeping tabs so the caret
// lines up under tabbed source.
func blankOut(s string) string {
	return strings.Map(func(c rune) rune {
		if c == '\t' {
			return '\t'
		}
		return ' '
	}, s)
}
