package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/avetrov/crosswalk/internal/model"
)

// Summarizer generates optional LLM narratives for readiness reports
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer; the provider is nil when disabled
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		provider: provider,
		config:   config,
	}, nil
}

// IsEnabled reports whether a provider is configured
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider name, or empty when disabled
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateNarrative produces the LLM narrative for a report. Provider
// failures never fail the run: they come back as warnings on the summary
// and the deterministic report stands on its own.
func (s *Summarizer) GenerateNarrative(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	if !s.provider.IsAvailable(ctx) {
		return &model.LLMSummary{
			Enabled:         false,
			Provider:        s.provider.Name(),
			Model:           s.config.Model,
			StrictCitations: s.config.StrictCitations,
			Warnings:        []string{fmt.Sprintf("Provider %s is not available; narrative skipped", s.provider.Name())},
		}, nil
	}

	resp, err := s.provider.Narrate(ctx, NarrateRequest{
		Report:     report,
		AllowedIDs: AllowedStandardIDs(report),
		Model:      s.config.Model,
		MaxTokens:  s.config.MaxTokens,
	})
	if err != nil {
		return &model.LLMSummary{
			Enabled:         true,
			Provider:        s.provider.Name(),
			Model:           s.config.Model,
			StrictCitations: s.config.StrictCitations,
			Warnings:        []string{fmt.Sprintf("Narrative generation failed: %v", err)},
		}, nil
	}

	return &model.LLMSummary{
		Enabled:         true,
		Provider:        s.provider.Name(),
		Model:           resp.Model,
		StrictCitations: s.config.StrictCitations,
		NarrativeMD:     resp.Narrative,
		Warnings: []string{
			fmt.Sprintf("Tokens used: %d", resp.TokensUsed),
			fmt.Sprintf("Verified %d citations against the corpus", len(resp.CitedIDs)),
		},
	}, nil
}

// RenderSeparateMarkdown renders the narrative as a standalone Markdown
// document, clearly labeled as generated content
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder

	b.WriteString("# LLM Narrative\n\n")
	b.WriteString("> **GENERATED CONTENT.** This narrative was produced by a language model.\n")
	b.WriteString("> The readiness index and all evidence mappings were determined independently\n")
	b.WriteString("> and are never affected by this text.\n\n")

	fmt.Fprintf(&b, "- **Provider**: %s\n", summary.Provider)
	fmt.Fprintf(&b, "- **Model**: %s\n", summary.Model)
	fmt.Fprintf(&b, "- **Strict Citations**: %t\n\n", summary.StrictCitations)

	if summary.NarrativeMD == "" {
		b.WriteString("No narrative generated.\n")
	} else {
		b.WriteString(summary.NarrativeMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
