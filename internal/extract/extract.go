// Package extract turns input files into the paragraphs kousei lints.
//
// Plain text is split into lines, each line one paragraph. HTML is reduced
// to the prose of its block elements; scripts, styles and code are dropped.
package extract

import (
	"path/filepath"
	"strings"
)

// Format is the markup of an input.
type Format string

// Supported formats.
const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

// Document is the prose of one input.
type Document struct {
	Paragraphs []string
	// Lines holds, per paragraph, the 1-based source line it starts on.
	Lines []int
}

// Line returns the source line of paragraph i, or 0 when i is out of range.
func (d Document) Line(i int) int {
	if i < 0 || i >= len(d.Lines) {
		return 0
	}
	return d.Lines[i]
}

// FormatFor picks the format from the file extension. Unknown extensions
// are read as text.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm", ".xhtml":
		return FormatHTML
	default:
		return FormatText
	}
}

// Parse extracts the paragraphs of content in format f.
func Parse(content string, f Format) Document {
	if f == FormatHTML {
		return HTML(content)
	}
	return Text(content)
}

// Text splits content into lines. CRLF is normalized and a trailing newline
// does not produce an empty last paragraph.
func Text(content string) Document {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimSuffix(content, "\n")
	paras := strings.Split(content, "\n")
	lines := make([]int, len(paras))
	for i := range lines {
		lines[i] = i + 1
	}
	return Document{Paragraphs: paras, Lines: lines}
}
