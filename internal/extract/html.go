package extract

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLAdapter extracts the visible text of an HTML document
type HTMLAdapter struct{}

// NewHTMLAdapter creates an HTML adapter
func NewHTMLAdapter() *HTMLAdapter {
	return &HTMLAdapter{}
}

// Name returns the adapter name
func (a *HTMLAdapter) Name() string {
	return "html"
}

// CanHandle accepts .html/.htm files and html content types
func (a *HTMLAdapter) CanHandle(path string, contentType string) bool {
	switch extOf(path) {
	case "html", "htm", "xhtml":
		return true
	}
	switch typeOf(contentType) {
	case "text/html", "application/xhtml+xml":
		return true
	}
	return false
}

// Extract parses the document and returns its visible text
func (a *HTMLAdapter) Extract(data []byte) (string, error) {
	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return "", err
	}
	return extractVisibleText(doc), nil
}

// FromHTML extracts visible text from an HTML string
func FromHTML(htmlContent string) (string, error) {
	return NewHTMLAdapter().Extract([]byte(htmlContent))
}

// extractVisibleText extracts text nodes from HTML, skipping scripts/styles
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			// Skip non-content containers
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return strings.TrimSpace(buf.String())
}
