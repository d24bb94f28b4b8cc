package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/avetrov/crosswalk/internal/model"
)

// Provider generates a narrative for a finished readiness report.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai")
	Name() string

	// Narrate produces a Markdown narrative for the report. Implementations
	// must respect req.AllowedIDs: citing any other standard ID is an error
	// in strict mode.
	Narrate(ctx context.Context, req NarrateRequest) (*NarrateResponse, error)

	// IsAvailable checks if the provider is reachable and configured
	IsAvailable(ctx context.Context) bool
}

// NarrateRequest carries the report and the citation allowlist
type NarrateRequest struct {
	Report     model.Report
	AllowedIDs []string // standard IDs the narrative may cite
	Prompt     string   // custom prompt; BuildPrompt is used when empty
	Model      string   // model override; provider default when empty
	MaxTokens  int
}

// NarrateResponse is the generated narrative plus citation bookkeeping
type NarrateResponse struct {
	Narrative  string   // Markdown narrative text
	CitedIDs   []string // standard IDs found in the narrative
	Model      string   // model that produced the text
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	Provider        string        // "openai" or empty to disable
	Model           string        // model name
	APIKey          string        // API key
	BaseURL         string        // custom endpoint for OpenAI-compatible servers
	Timeout         time.Duration // request timeout
	MaxTokens       int           // max tokens in the narrative
	StrictCitations bool          // reject narratives citing unknown standards
}

// DefaultConfig returns default LLM configuration (disabled)
func DefaultConfig() Config {
	return Config{
		Provider:        "",
		Model:           "gpt-4o-mini",
		Timeout:         60 * time.Second,
		MaxTokens:       1500,
		StrictCitations: true,
	}
}

// BuildPrompt constructs the narrative prompt for a report
func BuildPrompt(report model.Report, allowedIDs []string) string {
	var b strings.Builder

	b.WriteString("You are writing a gap-analysis narrative for an accreditation readiness report.\n\n")

	b.WriteString("CRITICAL RULES:\n")
	b.WriteString("1. Only cite standard IDs from the ALLOWED list below\n")
	b.WriteString("2. Never invent standards, evidence, or quotations\n")
	b.WriteString("3. Do not restate or adjust the readiness index; it is computed deterministically\n")
	b.WriteString("4. Focus on gaps: standards with weak or missing evidence\n")
	b.WriteString("5. Output plain Markdown without a top-level heading\n\n")

	fmt.Fprintf(&b, "Subject: %s\n", report.Subject)
	fmt.Fprintf(&b, "Readiness: %s (%d/100)\n", report.Score.Readiness, report.Score.Index)
	fmt.Fprintf(&b, "Standards scored: %d\n", len(report.Mappings))
	fmt.Fprintf(&b, "Standards addressed: %d\n", countAddressed(report.Mappings))
	fmt.Fprintf(&b, "Standards met: %d\n\n", countMet(report.Mappings))

	b.WriteString("ALLOWED standard IDs:\n")
	b.WriteString(joinIDs(allowedIDs, 20))
	b.WriteString("\n\n")

	b.WriteString("Write 2-4 short paragraphs: overall readiness, strongest areas, most urgent gaps.\n")

	return b.String()
}

// AllowedStandardIDs collects every standard ID a narrative may cite
func AllowedStandardIDs(report model.Report) []string {
	ids := make([]string, 0, len(report.Mappings))
	for _, m := range report.Mappings {
		ids = append(ids, m.StandardID)
	}
	return ids
}

// standardIDPattern matches corpus IDs like HLC_1, SACSCOC_8.2.a, MSCHE_III
var standardIDPattern = regexp.MustCompile(`\b[A-Z][A-Z0-9]*_[A-Za-z0-9][A-Za-z0-9._-]*`)

// ExtractStandardIDs finds standard IDs cited in generated text
func ExtractStandardIDs(text string) []string {
	matches := standardIDPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		// Trim sentence punctuation the pattern picks up
		id := strings.TrimRight(m, ".,;:!?")
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids
}

func joinIDs(ids []string, limit int) string {
	if len(ids) == 0 {
		return "(none)"
	}
	if len(ids) <= limit {
		return strings.Join(ids, ", ")
	}
	return fmt.Sprintf("%s ... and %d more", strings.Join(ids[:limit], ", "), len(ids)-limit)
}

func countAddressed(mappings []model.EvidenceMapping) int {
	count := 0
	for _, m := range mappings {
		if m.Confidence > 0 {
			count++
		}
	}
	return count
}

func countMet(mappings []model.EvidenceMapping) int {
	count := 0
	for _, m := range mappings {
		if m.MeetsStandard {
			count++
		}
	}
	return count
}
