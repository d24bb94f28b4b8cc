package model

// Standard represents a top-level compliance requirement under one accreditor
type Standard struct {
	ID            string   `json:"id" yaml:"id"`                                         // Globally unique, prefixed "{ACCREDITOR}_"
	Title         string   `json:"title" yaml:"title"`                                   // Short requirement name
	Description   string   `json:"description" yaml:"description"`                       // Full requirement text
	Category      string   `json:"category,omitempty" yaml:"category,omitempty"`         // Free-text grouping (e.g., "Governance")
	Version       string   `json:"version,omitempty" yaml:"version,omitempty"`           // Inherited from accreditor when absent
	EffectiveDate string   `json:"effective_date,omitempty" yaml:"effective_date,omitempty"` // ISO date, inherited when absent
	Indicators    []string `json:"indicators,omitempty" yaml:"indicators,omitempty"`     // Direct indicators (simplified corpora)
	Clauses       []Clause `json:"clauses,omitempty" yaml:"clauses,omitempty"`           // Sub-requirements, may be empty
}

// Clause is a sub-unit of a Standard
type Clause struct {
	ID          string   `json:"id" yaml:"id"`                                     // Globally unique, same prefixing rule
	Title       string   `json:"title" yaml:"title"`                               // Short clause name
	Description string   `json:"description,omitempty" yaml:"description,omitempty"` // Clause text
	Indicators  []string `json:"indicators,omitempty" yaml:"indicators,omitempty"` // Keywords signaling the clause is addressed
}

// AllIndicators flattens the standard's direct indicators and every clause's
// indicators, preserving order. Returns nil when the standard has none.
func (s *Standard) AllIndicators() []string {
	var out []string
	out = append(out, s.Indicators...)
	for _, c := range s.Clauses {
		out = append(out, c.Indicators...)
	}
	return out
}

// Scope classifies what an accrediting body accredits
type Scope string

const (
	ScopeInstitutional Scope = "institutional" // Whole-institution accreditors (HLC, MSCHE, ...)
	ScopeProgrammatic  Scope = "programmatic"  // Single-discipline accreditors (ABET, CCNE, ...)
	ScopeNational      Scope = "national"      // National career/faith-based accreditors
	ScopeUnknown       Scope = "unknown"       // Not yet classified
)

// Accreditor is an accrediting body and its ordered list of standards
type Accreditor struct {
	Code          string     `json:"accreditor" yaml:"accreditor"`                     // Short code, e.g. "HLC", "SACSCOC"
	Name          string     `json:"name" yaml:"name"`                                 // Full body name
	Version       string     `json:"version,omitempty" yaml:"version,omitempty"`       // Standards edition
	EffectiveDate string     `json:"effective_date,omitempty" yaml:"effective_date,omitempty"` // Default for standards lacking one
	Scope         Scope      `json:"scope,omitempty" yaml:"scope,omitempty"`           // Filled by the scope classifier
	Standards     []Standard `json:"standards" yaml:"standards"`                       // Load order preserved
}

// StandardCount returns the number of standards; corpus metadata must always
// agree with this value.
func (a *Accreditor) StandardCount() int {
	return len(a.Standards)
}

// AccreditorInfo is the read-only metadata projection of a loaded accreditor
type AccreditorInfo struct {
	Accreditor    string `json:"accreditor"`
	Name          string `json:"name"`
	Version       string `json:"version,omitempty"`
	Scope         Scope  `json:"scope,omitempty"`
	StandardCount int    `json:"standard_count"`
}
