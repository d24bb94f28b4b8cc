package model

import (
	"path/filepath"
	"strings"
	"time"
)

// Report represents the complete gap-analysis artifact for one evidence
// document scored against a target accreditor (or the whole corpus)
type Report struct {
	RunID       string    `json:"run_id"`               // Unique id for this analysis run
	Subject     string    `json:"subject"`              // Human-readable evidence name
	Accreditor  string    `json:"accreditor,omitempty"` // Target accreditor code; empty = whole corpus
	SourcePath  string    `json:"source_path,omitempty"`
	SourceURL   string    `json:"source_url,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	FetchMeta *FetchMeta `json:"fetch_meta,omitempty"` // Present for URL-sourced evidence

	Mappings []EvidenceMapping `json:"mappings"` // Per-standard results, descending confidence

	Score  Score  `json:"score"`  // Readiness index and scoring breakdown
	Method Method `json:"method"` // How the results were produced

	LLM *LLMSummary `json:"llm,omitempty"` // Optional LLM narrative (separate, never affects score)
}

// FetchMeta contains HTTP metadata from fetching URL-sourced evidence
type FetchMeta struct {
	StatusCode   int               `json:"status_code"`
	ContentType  string            `json:"content_type,omitempty"`
	LastModified string            `json:"last_modified,omitempty"`
	ETag         string            `json:"etag,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
}

// Score represents the transparent readiness breakdown
type Score struct {
	Index     int      `json:"index"`     // Overall readiness index (0-100)
	Readiness string   `json:"readiness"` // "low", "moderate", "high"
	Signals   []Signal `json:"signals"`   // Diagnostic signals with transparent data
}

// Signal represents a diagnostic signal with transparent scoring data
type Signal struct {
	Type        SignalType             `json:"type"`           // Signal classification
	Severity    SignalSeverity         `json:"severity"`       // info, warning, critical
	Description string                 `json:"description"`    // Human-readable description
	Data        map[string]interface{} `json:"data,omitempty"` // Transparent scoring data (formulas, inputs)
}

// SignalType classifies the type of diagnostic signal
type SignalType string

const (
	SignalCoverage       SignalType = "coverage"        // Addressed-standards ratio
	SignalStrength       SignalType = "strength"        // Mean confidence of addressed standards
	SignalBreadth        SignalType = "breadth"         // Category spread of addressed standards
	SignalCorpusSupport  SignalType = "corpus_support"  // Indicator availability across the corpus
	SignalUnaddressed    SignalType = "unaddressed"     // Standards with no matched indicators
	SignalNoIndicators   SignalType = "no_indicators"   // Standard scored on title-term fallback
	SignalSparseClause   SignalType = "sparse_clause"   // Clause defines no indicators
	SignalEmptyText      SignalType = "empty_text"      // Standard or clause missing description
	SignalThinIndicators SignalType = "thin_indicators" // Indicator set too small to rely on
	SignalDuplicateTitle SignalType = "duplicate_title" // Same title appears under multiple ids
	SignalScopeMismatch  SignalType = "scope_mismatch"  // Cross-accreditor comparison across scopes
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// Method documents how the engine reached its results
type Method struct {
	Lexical       bool `json:"lexical"`       // Term overlap and substring matching, no embeddings
	Deterministic bool `json:"deterministic"` // Same inputs produce the same ordered output
	Transparent   bool `json:"transparent"`   // Every score carries its formula and inputs
}

// DefaultMethod returns the method disclosure for the current engine
func DefaultMethod() Method {
	return Method{
		Lexical:       true,
		Deterministic: true,
		Transparent:   true,
	}
}

// LLMSummary contains optional LLM-generated narrative
// CRITICAL: This never affects scoring and is clearly separated
type LLMSummary struct {
	Enabled         bool     `json:"enabled"`
	Provider        string   `json:"provider,omitempty"`    // openai or an openai-compatible endpoint
	Model           string   `json:"model,omitempty"`       // Model name
	StrictCitations bool     `json:"strict_citations"`      // Whether standard-id enforcement was enabled
	NarrativeMD     string   `json:"narrative_md,omitempty"` // Markdown narrative
	Warnings        []string `json:"warnings,omitempty"`    // Any issues (e.g., citation leaks detected)
}

// SubjectFromPath derives a readable subject name from an evidence file path
func SubjectFromPath(path string) string {
	base := filepath.Base(path)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.TrimSpace(base)
}
