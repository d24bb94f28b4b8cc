package extract

import (
	"path/filepath"
	"strings"
)

// Adapter defines the interface for format-specific text extractors
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter handles the given path or content type
	CanHandle(path string, contentType string) bool

	// Extract returns the evidence text of the document
	Extract(data []byte) (string, error)
}

// Registry manages format adapters
type Registry struct {
	adapters []Adapter
	fallback Adapter
}

// NewRegistry creates a registry with the built-in adapters. Plain text is
// the fallback for anything unrecognized.
func NewRegistry() *Registry {
	registry := &Registry{}
	registry.Register(NewHTMLAdapter())
	registry.Register(NewMarkdownAdapter())
	registry.fallback = NewPlainAdapter()
	return registry
}

// Register adds an adapter; earlier registration wins on overlap
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter picks the adapter for the given path and content type,
// falling back to plain text
func (r *Registry) FindAdapter(path string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(path, contentType) {
			return adapter
		}
	}
	return r.fallback
}

// Extract runs the matching adapter over the document bytes
func (r *Registry) Extract(data []byte, path string, contentType string) (string, error) {
	return r.FindAdapter(path, contentType).Extract(data)
}

// extOf returns the lower-cased file extension without the dot
func extOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}

// typeOf returns the media type with any parameters stripped
func typeOf(contentType string) string {
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(strings.ToLower(contentType))
}
