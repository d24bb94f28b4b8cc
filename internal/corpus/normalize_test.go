package corpus

import (
	"testing"

	"github.com/avetrov/crosswalk/internal/model"
)

func TestEnsurePrefix(t *testing.T) {
	tests := []struct {
		name string
		code string
		id   string
		want string
	}{
		{"simple id", "HLC", "1", "HLC_1"},
		{"already prefixed", "HLC", "HLC_1", "HLC_1"},
		{"internal space", "MSCHE", "Standard I", "MSCHE_Standard_I"},
		{"multiple spaces", "MSCHE", "Standard   I", "MSCHE_Standard_I"},
		{"tab and space", "SACSCOC", "CR\t 2", "SACSCOC_CR_2"},
		{"slash", "SACSCOC", "CR 2.A/1", "SACSCOC_CR_2.A.1"},
		{"leading whitespace", "HLC", "  1.A", "HLC_1.A"},
		{"dots preserved", "HLC", "1.A", "HLC_1.A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsurePrefix(tt.code, tt.id)
			if got != tt.want {
				t.Errorf("EnsurePrefix(%q, %q) = %q, want %q", tt.code, tt.id, got, tt.want)
			}
		})
	}
}

func TestEnsurePrefix_Idempotent(t *testing.T) {
	once := EnsurePrefix("HLC", "Criterion 1/A")
	twice := EnsurePrefix("HLC", once)
	if once != twice {
		t.Errorf("Expected re-normalizing to be a no-op, got %q then %q", once, twice)
	}
}

func TestNormalizeStandard_InheritsDefaults(t *testing.T) {
	std := model.Standard{
		ID:          "1",
		Title:       "Mission",
		Description: "The institution's mission is clear.",
		Clauses: []model.Clause{
			{ID: "1.A", Title: "Mission articulation"},
		},
	}

	if err := normalizeStandard("HLC", &std, "2025", "2025-09-01"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if std.ID != "HLC_1" {
		t.Errorf("Expected id HLC_1, got %q", std.ID)
	}
	if std.Version != "2025" {
		t.Errorf("Expected inherited version 2025, got %q", std.Version)
	}
	if std.EffectiveDate != "2025-09-01" {
		t.Errorf("Expected inherited effective date, got %q", std.EffectiveDate)
	}
	if std.Clauses[0].ID != "HLC_1.A" {
		t.Errorf("Expected clause id HLC_1.A, got %q", std.Clauses[0].ID)
	}
}

func TestNormalizeStandard_KeepsExplicitVersion(t *testing.T) {
	std := model.Standard{
		ID:          "2",
		Title:       "Integrity",
		Description: "The institution acts with integrity.",
		Version:     "2024",
	}

	if err := normalizeStandard("HLC", &std, "2025", ""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if std.Version != "2024" {
		t.Errorf("Expected explicit version 2024 to survive, got %q", std.Version)
	}
}

func TestNormalizeStandard_RequiredFields(t *testing.T) {
	tests := []struct {
		name string
		std  model.Standard
	}{
		{"missing id", model.Standard{Title: "T", Description: "D"}},
		{"missing title", model.Standard{ID: "1", Description: "D"}},
		{"missing description", model.Standard{ID: "1", Title: "T"}},
		{"clause missing id", model.Standard{
			ID: "1", Title: "T", Description: "D",
			Clauses: []model.Clause{{Title: "C"}},
		}},
		{"clause missing title", model.Standard{
			ID: "1", Title: "T", Description: "D",
			Clauses: []model.Clause{{ID: "1.A"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			std := tt.std
			if err := normalizeStandard("HLC", &std, "", ""); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}
