package validate

import (
	"testing"

	"github.com/avetrov/crosswalk/internal/model"
)

func countByType(signals []model.Signal, typ model.SignalType) int {
	n := 0
	for _, s := range signals {
		if s.Type == typ {
			n++
		}
	}
	return n
}

func TestLint_CleanCorpus(t *testing.T) {
	accreditors := []model.Accreditor{{
		Code: "HLC",
		Name: "Higher Learning Commission",
		Standards: []model.Standard{{
			ID:          "HLC_1",
			Title:       "Mission",
			Description: "The mission is clear.",
			Indicators:  []string{"mission", "board", "review", "publish"},
			Clauses: []model.Clause{{
				ID:          "HLC_1.A",
				Title:       "Articulation",
				Description: "The mission is articulated publicly.",
				Indicators:  []string{"articulated"},
			}},
		}},
	}}

	signals := Lint(accreditors)
	if len(signals) != 0 {
		t.Errorf("Expected no signals for a clean corpus, got %v", signals)
	}
}

func TestLint_NoIndicators(t *testing.T) {
	accreditors := []model.Accreditor{{
		Code: "X",
		Name: "X Commission",
		Standards: []model.Standard{
			{
				ID:          "X_1",
				Title:       "Faculty Qualifications",
				Description: "Faculty are qualified.",
			},
			{
				// All-stopword title leaves nothing to score.
				ID:          "X_2",
				Title:       "The Institution",
				Description: "Unscorable entry.",
			},
		},
	}}

	signals := Lint(accreditors)
	if got := countByType(signals, model.SignalNoIndicators); got != 2 {
		t.Fatalf("Expected 2 no-indicator signals, got %d: %v", got, signals)
	}

	var warning, critical int
	for _, sig := range signals {
		switch sig.Severity {
		case model.SeverityWarning:
			warning++
		case model.SeverityCritical:
			critical++
		}
	}
	if warning != 1 || critical != 1 {
		t.Errorf("Expected title-fallback warning and unscorable critical, got %d warnings %d critical",
			warning, critical)
	}
	if CriticalCount(signals) != 1 {
		t.Errorf("Expected CriticalCount 1, got %d", CriticalCount(signals))
	}
}

func TestLint_ThinIndicators(t *testing.T) {
	accreditors := []model.Accreditor{{
		Code: "X",
		Name: "X Commission",
		Standards: []model.Standard{{
			ID:          "X_1",
			Title:       "Assessment",
			Description: "Outcomes are assessed.",
			Indicators:  []string{"outcomes", "assessment"},
		}},
	}}

	signals := Lint(accreditors)
	if got := countByType(signals, model.SignalThinIndicators); got != 1 {
		t.Fatalf("Expected thin-indicator signal for a 2-term set, got %v", signals)
	}
	if signals[0].Severity != model.SeverityInfo {
		t.Errorf("Expected info severity, got %s", signals[0].Severity)
	}
	if signals[0].Data["indicators"] != 2 {
		t.Errorf("Expected transparent count in data, got %v", signals[0].Data)
	}
}

func TestLint_SparseClauseAndEmptyText(t *testing.T) {
	accreditors := []model.Accreditor{{
		Code: "X",
		Name: "X Commission",
		Standards: []model.Standard{{
			ID:          "X_1",
			Title:       "Governance",
			Description: "The board governs.",
			Indicators:  []string{"board", "governance", "bylaws"},
			Clauses: []model.Clause{{
				ID:    "X_1.a",
				Title: "Bylaws",
				// No description, no indicators.
			}},
		}},
	}}

	signals := Lint(accreditors)
	if got := countByType(signals, model.SignalSparseClause); got != 1 {
		t.Errorf("Expected sparse-clause signal, got %v", signals)
	}
	if got := countByType(signals, model.SignalEmptyText); got != 1 {
		t.Errorf("Expected empty-text signal, got %v", signals)
	}
}

func TestLint_DuplicateTitles(t *testing.T) {
	accreditors := []model.Accreditor{{
		Code: "X",
		Name: "X Commission",
		Standards: []model.Standard{
			{
				ID:          "X_1",
				Title:       "Student Achievement",
				Description: "First copy.",
				Indicators:  []string{"graduation", "retention", "rates"},
			},
			{
				ID:          "X_2",
				Title:       "student achievement",
				Description: "Second copy, different case.",
				Indicators:  []string{"completion", "licensure", "rates"},
			},
		},
	}}

	signals := Lint(accreditors)
	if got := countByType(signals, model.SignalDuplicateTitle); got != 1 {
		t.Fatalf("Expected duplicate-title signal, got %v", signals)
	}

	ids, ok := signals[0].Data["ids"].([]string)
	if !ok || len(ids) != 2 {
		t.Errorf("Expected both ids reported, got %v", signals[0].Data["ids"])
	}
}

func TestCriticalCount_Empty(t *testing.T) {
	if CriticalCount(nil) != 0 {
		t.Error("Expected zero criticals for empty signal list")
	}
}
