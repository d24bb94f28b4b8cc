package extract

import (
	"regexp"
	"strings"
)

// Pre-compiled patterns for markdown syntax that would pollute rationale
// spans or let link targets match indicator terms.
var (
	mdImageRe   = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	mdLinkRe    = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	mdHeadingRe = regexp.MustCompile(`^#{1,6}\s+`)
	mdBulletRe  = regexp.MustCompile(`^\s*[-*+]\s+`)
	mdNumberRe  = regexp.MustCompile(`^\s*\d+[.)]\s+`)
)

// MarkdownAdapter strips markdown syntax down to readable prose. Link and
// image targets are dropped (their text is kept) so URLs never count as
// indicator hits.
type MarkdownAdapter struct{}

// NewMarkdownAdapter creates a markdown adapter
func NewMarkdownAdapter() *MarkdownAdapter {
	return &MarkdownAdapter{}
}

// Name returns the adapter name
func (a *MarkdownAdapter) Name() string {
	return "markdown"
}

// CanHandle accepts .md/.markdown files and text/markdown content
func (a *MarkdownAdapter) CanHandle(path string, contentType string) bool {
	switch extOf(path) {
	case "md", "markdown", "mdown":
		return true
	}
	return typeOf(contentType) == "text/markdown"
}

// Extract removes markdown markers line by line; fenced code block content
// is kept, only the fence lines are dropped
func (a *MarkdownAdapter) Extract(data []byte) (string, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")

	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			continue
		}

		line = mdImageRe.ReplaceAllString(line, "$1")
		line = mdLinkRe.ReplaceAllString(line, "$1")
		line = mdHeadingRe.ReplaceAllString(line, "")
		line = mdBulletRe.ReplaceAllString(line, "")
		line = mdNumberRe.ReplaceAllString(line, "")

		// Blockquote markers, possibly nested
		for strings.HasPrefix(strings.TrimSpace(line), ">") {
			line = strings.TrimPrefix(strings.TrimSpace(line), ">")
		}

		line = strings.ReplaceAll(line, "**", "")
		line = strings.ReplaceAll(line, "`", "")

		out = append(out, line)
	}

	return strings.TrimSpace(strings.Join(out, "\n")), nil
}
