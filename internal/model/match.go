package model

// MatchResult is one scored (source standard, target standard) pair from a
// cross-accreditor equivalence query. Never persisted; built fresh per query.
type MatchResult struct {
	SourceID    string  `json:"source_id"`
	SourceTitle string  `json:"source_title"`
	TargetID    string  `json:"target_id"`
	TargetTitle string  `json:"target_title"`
	Score       float64 `json:"score"` // Lexical overlap, always in [0,1]
}

// MatchType tiers an evidence mapping for display
type MatchType string

const (
	MatchStrong  MatchType = "strong"  // Confidence above the addressed boundary
	MatchPartial MatchType = "partial" // Some indicators hit, not enough to meet
	MatchNone    MatchType = "none"    // No indicator found in the evidence
)

// EvidenceMapping scores one standard against a block of evidence text
type EvidenceMapping struct {
	StandardID        string    `json:"standard_id"`
	Title             string    `json:"title"`
	Confidence        float64   `json:"confidence"`     // matched/total indicators, capped at 1.0
	MeetsStandard     bool      `json:"meets_standard"` // confidence > 0.5
	MatchType         MatchType `json:"match_type"`
	RationaleSpans    []string  `json:"rationale_spans,omitempty"` // Text windows around matched indicators
	MatchedIndicators int       `json:"matched_indicators"`
	TotalIndicators   int       `json:"total_indicators"`
}
