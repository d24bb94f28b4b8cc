package extract

import "strings"

// PlainAdapter passes text documents through with normalized line endings
type PlainAdapter struct{}

// NewPlainAdapter creates a plain-text adapter
func NewPlainAdapter() *PlainAdapter {
	return &PlainAdapter{}
}

// Name returns the adapter name
func (a *PlainAdapter) Name() string {
	return "plain"
}

// CanHandle accepts .txt files and text/plain content
func (a *PlainAdapter) CanHandle(path string, contentType string) bool {
	switch extOf(path) {
	case "txt", "text":
		return true
	}
	return typeOf(contentType) == "text/plain"
}

// Extract normalizes line endings and trims surrounding whitespace
func (a *PlainAdapter) Extract(data []byte) (string, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.TrimSpace(text), nil
}
