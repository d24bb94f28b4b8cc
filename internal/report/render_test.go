package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avetrov/crosswalk/internal/model"
)

func sampleReport() *model.Report {
	return Build(
		Source{Subject: "Self Study", Accreditor: "HLC", Path: "docs/self-study.md"},
		[]model.EvidenceMapping{
			{
				StandardID:        "HLC_1",
				Title:             "Mission",
				Confidence:        0.8,
				MeetsStandard:     true,
				MatchType:         model.MatchStrong,
				RationaleSpans:    []string{"...the governing board reviews the mission..."},
				MatchedIndicators: 4,
				TotalIndicators:   5,
			},
			{
				StandardID: "HLC_2",
				Title:      "Integrity",
				MatchType:  model.MatchNone,
			},
		},
		model.Score{
			Index:     62,
			Readiness: "moderate",
			Signals: []model.Signal{
				{Type: model.SignalCoverage, Severity: model.SeverityInfo, Description: "Evidence addresses 1 of 2 scored standards"},
			},
		},
	)
}

func TestBuild_PopulatesRunMetadata(t *testing.T) {
	a := sampleReport()
	b := sampleReport()

	if a.RunID == "" {
		t.Error("Expected run id to be set")
	}
	if a.RunID == b.RunID {
		t.Error("Expected distinct run ids per build")
	}
	if a.GeneratedAt.IsZero() {
		t.Error("Expected generated timestamp to be set")
	}
	if !a.Method.Deterministic {
		t.Error("Expected method disclosure to be populated")
	}
}

func TestRenderer_RenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	if err := NewRenderer(false).RenderJSON(sampleReport(), path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("Expected trailing newline")
	}

	var decoded model.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Subject != "Self Study" {
		t.Errorf("Expected subject Self Study, got %s", decoded.Subject)
	}
	if len(decoded.Mappings) != 2 {
		t.Errorf("Expected 2 mappings, got %d", len(decoded.Mappings))
	}
}

func TestRenderer_Markdown_Sections(t *testing.T) {
	md := NewRenderer(false).Markdown(sampleReport())

	for _, want := range []string{
		"# Readiness Report: Self Study",
		"**Accreditor**: HLC",
		"## Readiness: moderate (62/100)",
		"| coverage | info |",
		"### HLC_1: Mission",
		"> ...the governing board reviews the mission...",
		"Meets standard: yes",
		"Meets standard: no",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}

	if strings.Contains(md, "Generated by crosswalk") {
		t.Error("Expected no footer when disabled")
	}
}

func TestRenderer_Markdown_WholeCorpusAndFooter(t *testing.T) {
	rep := sampleReport()
	rep.Accreditor = ""

	md := NewRenderer(true).Markdown(rep)

	if !strings.Contains(md, "**Accreditor**: entire corpus") {
		t.Error("Expected whole-corpus target name")
	}
	if !strings.Contains(md, "Generated by crosswalk") {
		t.Error("Expected footer when enabled")
	}
}

func TestRenderer_RenderLLMMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.llm.md")

	if err := NewRenderer(false).RenderLLMMarkdown("# Narrative\n", path); err != nil {
		t.Fatalf("RenderLLMMarkdown failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "# Narrative\n" {
		t.Errorf("Expected narrative body, got %q", data)
	}
}
