// Package textutil wraps help text on word boundaries.
package textutil

import (
	"strings"

	"github.com/mitchellh/go-wordwrap"
)

// Wrap breaks text into lines no wider than width, splitting only on whitespace. Runs of
// whitespace collapse to a single space and a word longer than width is kept whole on its own
// line. Newlines in text start a new paragraph; blank paragraphs are kept as empty lines.
func Wrap(text string, width int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if width < 1 {
		width = 1
	}
	var lines []string
	for _, paragraph := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		wrapped := wordwrap.WrapString(strings.Join(words, " "), uint(width))
		lines = append(lines, strings.Split(wrapped, "\n")...)
	}
	return lines
}

// WrapPrefix wraps text to width columns and prefixes every resulting line with prefix. The
// prefix is not counted against width. Each line ends with a newline.
func WrapPrefix(text string, width int, prefix string) string {
	var b strings.Builder
	for _, line := range Wrap(text, width) {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
