package utils

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// MarkdownTable renders a GFM pipe table. Rows shorter than the header are padded
// with empty cells; pipes and newlines inside cells are escaped.
func MarkdownTable(header []string, rows [][]string) string {
	var b strings.Builder
	writeMarkdownRow(&b, header, len(header))

	sep := make([]string, len(header))
	for i := range sep {
		if i == 0 {
			sep[i] = "---"
		} else {
			sep[i] = "---:"
		}
	}
	writeMarkdownRow(&b, sep, len(header))

	for _, row := range rows {
		writeMarkdownRow(&b, row, len(header))
	}
	return b.String()
}

func writeMarkdownRow(b *strings.Builder, cells []string, width int) {
	b.WriteString("|")
	for i := 0; i < width; i++ {
		cell := ""
		if i < len(cells) {
			cell = escapeCell(cells[i])
		}
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(" |")
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// RenderHTML converts Markdown (with GFM tables) to an HTML fragment using Goldmark.
func RenderHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
