package report

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/avetrov/crosswalk/internal/model"
)

// Renderer writes reports as JSON, Markdown, and terminal summaries
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a new renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the human-readable report
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(report)), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderLLMMarkdown writes the separate LLM narrative file
func (r *Renderer) RenderLLMMarkdown(md string, path string) error {
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return fmt.Errorf("write narrative: %w", err)
	}
	return nil
}

// Markdown builds the Markdown report body
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Readiness Report: %s\n\n", report.Subject)

	fmt.Fprintf(&b, "- **Accreditor**: %s\n", targetName(report.Accreditor))
	if report.SourcePath != "" {
		fmt.Fprintf(&b, "- **Source**: %s\n", report.SourcePath)
	}
	if report.SourceURL != "" {
		fmt.Fprintf(&b, "- **Source URL**: %s\n", report.SourceURL)
	}
	fmt.Fprintf(&b, "- **Generated**: %s\n", report.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- **Run ID**: %s\n\n", report.RunID)

	fmt.Fprintf(&b, "## Readiness: %s (%d/100)\n\n", report.Score.Readiness, report.Score.Index)

	if len(report.Score.Signals) > 0 {
		b.WriteString("| Signal | Severity | Description |\n")
		b.WriteString("|--------|----------|-------------|\n")
		for _, sig := range report.Score.Signals {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", sig.Type, sig.Severity, sig.Description)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Standards\n\n")
	if len(report.Mappings) == 0 {
		b.WriteString("No standards were scored.\n\n")
	}
	for _, m := range report.Mappings {
		fmt.Fprintf(&b, "### %s: %s\n\n", m.StandardID, m.Title)
		fmt.Fprintf(&b, "- Confidence: %.2f (%s)\n", m.Confidence, m.MatchType)
		fmt.Fprintf(&b, "- Indicators matched: %d/%d\n", m.MatchedIndicators, m.TotalIndicators)
		fmt.Fprintf(&b, "- Meets standard: %s\n\n", yesNo(m.MeetsStandard))
		for _, span := range m.RationaleSpans {
			fmt.Fprintf(&b, "> %s\n\n", span)
		}
	}

	b.WriteString("## Method\n\n")
	if report.Method.Lexical {
		b.WriteString("- Lexical indicator and term matching, no embeddings\n")
	}
	if report.Method.Deterministic {
		b.WriteString("- Deterministic: identical inputs produce identical reports\n")
	}
	if report.Method.Transparent {
		b.WriteString("- Transparent: every score carries its formula and inputs\n")
	}
	b.WriteString("\n")

	if report.LLM != nil && report.LLM.Enabled {
		b.WriteString("## LLM narrative\n\n")
		fmt.Fprintf(&b, "A narrative generated by %s/%s accompanies this report in a separate file. It never affects the scores above.\n\n",
			report.LLM.Provider, report.LLM.Model)
	}

	if r.includeFooter {
		b.WriteString("---\n\n")
		b.WriteString("Generated by crosswalk, a deterministic accreditation crosswalk and gap-analysis tool.\n")
	}

	return b.String()
}

// RenderSummary prints a short result block to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	addressed := 0
	met := 0
	for _, m := range report.Mappings {
		if m.Confidence > 0 {
			addressed++
		}
		if m.MeetsStandard {
			met++
		}
	}

	critical := 0
	warnings := 0
	for _, sig := range report.Score.Signals {
		switch sig.Severity {
		case model.SeverityCritical:
			critical++
		case model.SeverityWarning:
			warnings++
		}
	}

	fmt.Printf("\n%s\n", report.Subject)
	fmt.Printf("Accreditor: %s\n", targetName(report.Accreditor))
	fmt.Printf("Readiness:  %s (%d/100)\n", report.Score.Readiness, report.Score.Index)
	fmt.Printf("Standards:  %d scored, %d addressed, %d met\n", len(report.Mappings), addressed, met)
	fmt.Printf("Signals:    %d critical, %d warning\n", critical, warnings)

	if addressed == 0 {
		return
	}

	fmt.Println("Top standards:")
	shown := 0
	for _, m := range report.Mappings {
		if m.Confidence == 0 || shown == 5 {
			break
		}
		fmt.Printf("  %-14s %.2f  %s\n", m.StandardID, m.Confidence, m.Title)
		shown++
	}
}

func targetName(accreditor string) string {
	if accreditor == "" {
		return "entire corpus"
	}
	return accreditor
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
