package match

import (
	"testing"

	"github.com/avetrov/crosswalk/internal/graph"
	"github.com/avetrov/crosswalk/internal/model"
)

// testGraph builds a two-accreditor graph with thematically paired
// standards (mission, integrity, learning, governance).
func testGraph() *graph.Graph {
	g := graph.NewGraph()
	g.AddAccreditor(model.Accreditor{
		Code: "HLC",
		Name: "Higher Learning Commission",
		Standards: []model.Standard{
			{
				ID:          "HLC_1",
				Title:       "Mission",
				Description: "The institution's mission is clear, articulated publicly, and guides its operations.",
			},
			{
				ID:          "HLC_2",
				Title:       "Integrity: Ethical and Responsible Conduct",
				Description: "The institution acts with integrity; its conduct is ethical and responsible.",
			},
			{
				ID:          "HLC_3",
				Title:       "Teaching and Learning: Quality and Support",
				Description: "The institution provides quality education and support for student learning.",
			},
			{
				ID:          "HLC_5",
				Title:       "Institutional Effectiveness and Planning",
				Description: "Resources, structures, and planning processes ensure effectiveness.",
			},
		},
	})
	g.AddAccreditor(model.Accreditor{
		Code: "MSCHE",
		Name: "Middle States Commission on Higher Education",
		Standards: []model.Standard{
			{
				ID:          "MSCHE_I",
				Title:       "Mission and Goals",
				Description: "The institution's mission defines its purpose; goals are linked to the mission.",
			},
			{
				ID:          "MSCHE_II",
				Title:       "Ethics and Integrity",
				Description: "Ethics and integrity are central to all operations.",
			},
			{
				ID:          "MSCHE_III",
				Title:       "Design and Delivery of the Student Learning Experience",
				Description: "Programs provide a coherent student learning experience of rigorous quality.",
			},
			{
				ID:          "MSCHE_VII",
				Title:       "Governance, Leadership, and Administration",
				Description: "A clearly articulated governance structure supports the institution.",
			},
		},
	})
	return g
}

func matchedPairs(results []model.MatchResult) map[[2]string]bool {
	pairs := make(map[[2]string]bool, len(results))
	for _, r := range results {
		pairs[[2]string{r.SourceID, r.TargetID}] = true
	}
	return pairs
}

func TestMatcher_ThematicPairsSurface(t *testing.T) {
	m := NewMatcher(nil)
	g := testGraph()

	results := m.FindMatches(g, "HLC", "MSCHE", 0.2, 5)
	if len(results) == 0 {
		t.Fatal("Expected matches between related corpora, got none")
	}

	pairs := matchedPairs(results)
	if !pairs[[2]string{"HLC_1", "MSCHE_I"}] {
		t.Error("Expected the two mission standards to match at threshold 0.2")
	}
	if !pairs[[2]string{"HLC_2", "MSCHE_II"}] {
		t.Error("Expected the two integrity standards to match at threshold 0.2")
	}

	// Reverse direction surfaces the same thematic pairs.
	reverse := matchedPairs(m.FindMatches(g, "MSCHE", "HLC", 0.2, 5))
	if !reverse[[2]string{"MSCHE_I", "HLC_1"}] {
		t.Error("Expected mission pair in the reverse direction")
	}
}

func TestMatcher_ScoresDescendAndBounded(t *testing.T) {
	m := NewMatcher(nil)
	results := m.FindMatches(testGraph(), "HLC", "MSCHE", 0, 100)

	for i, r := range results {
		if r.Score < 0 || r.Score > 1 {
			t.Errorf("Result %d score %v outside [0,1]", i, r.Score)
		}
		if i > 0 && results[i-1].Score < r.Score {
			t.Errorf("Results not sorted descending at %d: %v then %v", i, results[i-1].Score, r.Score)
		}
	}
}

func TestMatcher_ThresholdSubset(t *testing.T) {
	m := NewMatcher(nil)
	g := testGraph()

	loose := matchedPairs(m.FindMatches(g, "HLC", "MSCHE", 0.1, 100))
	strict := m.FindMatches(g, "HLC", "MSCHE", 0.4, 100)

	for _, r := range strict {
		if !loose[[2]string{r.SourceID, r.TargetID}] {
			t.Errorf("Pair %s->%s present at 0.4 but missing at 0.1", r.SourceID, r.TargetID)
		}
		if r.Score < 0.4 {
			t.Errorf("Pair %s->%s score %v below the 0.4 threshold", r.SourceID, r.TargetID, r.Score)
		}
	}
}

func TestMatcher_TopKPrefix(t *testing.T) {
	m := NewMatcher(nil)
	g := testGraph()

	all := m.FindMatches(g, "HLC", "MSCHE", 0.1, 100)
	if len(all) < 3 {
		t.Fatalf("Scenario too small for a prefix check, got %d results", len(all))
	}

	first2 := m.FindMatches(g, "HLC", "MSCHE", 0.1, 2)
	if len(first2) != 2 {
		t.Fatalf("Expected topK to bound results, got %d", len(first2))
	}
	for i := range first2 {
		if first2[i] != all[i] {
			t.Errorf("Expected topK result %d to be a prefix of the full list: %+v vs %+v",
				i, first2[i], all[i])
		}
	}
}

func TestMatcher_TieOrderIsStable(t *testing.T) {
	g := graph.NewGraph()
	g.AddAccreditor(model.Accreditor{
		Code: "A",
		Name: "Source",
		Standards: []model.Standard{
			{ID: "A_1", Title: "Mission Review", Description: "Annual mission review."},
		},
	})
	// Both targets share exactly one title token with the source.
	g.AddAccreditor(model.Accreditor{
		Code: "B",
		Name: "Target",
		Standards: []model.Standard{
			{ID: "B_1", Title: "Mission Statement", Description: "Published statement."},
			{ID: "B_2", Title: "Mission Planning", Description: "Planning documents."},
		},
	})

	m := NewMatcher(nil)
	for run := 0; run < 5; run++ {
		results := m.FindMatches(g, "A", "B", 0.1, 10)
		if len(results) != 2 {
			t.Fatalf("Expected 2 tied results, got %d", len(results))
		}
		if results[0].Score != results[1].Score {
			t.Fatalf("Expected a tie, got %v and %v", results[0].Score, results[1].Score)
		}
		if results[0].TargetID != "B_1" || results[1].TargetID != "B_2" {
			t.Errorf("Run %d: tie broke enumeration order: [%s %s]",
				run, results[0].TargetID, results[1].TargetID)
		}
	}
}

func TestMatcher_SelfMatch(t *testing.T) {
	m := NewMatcher(nil)
	results := m.FindMatches(testGraph(), "HLC", "HLC", 0.2, 100)

	found := false
	for _, r := range results {
		if r.SourceID == "HLC_1" && r.TargetID == "HLC_1" {
			found = true
			if r.Score != 1 {
				t.Errorf("Expected identity match to score 1.0, got %v", r.Score)
			}
		}
	}
	if !found {
		t.Error("Expected self-query to include identity matches")
	}
}

func TestMatcher_UnknownAccreditor(t *testing.T) {
	m := NewMatcher(nil)
	g := testGraph()

	results := m.FindMatches(g, "NOPE", "MSCHE", 0.2, 10)
	if results == nil {
		t.Fatal("Expected empty slice for unknown accreditor, got nil")
	}
	if len(results) != 0 {
		t.Errorf("Expected no matches for unknown accreditor, got %d", len(results))
	}

	if got := m.FindMatches(g, "HLC", "NOPE", 0.2, 10); len(got) != 0 {
		t.Errorf("Expected no matches for unknown target, got %d", len(got))
	}
}

func TestMatcher_DefaultsApplied(t *testing.T) {
	m := NewMatcher(nil)
	g := testGraph()

	// topK <= 0 falls back to the default bound instead of returning nothing.
	results := m.FindMatches(g, "HLC", "MSCHE", 0.2, 0)
	if len(results) == 0 {
		t.Error("Expected default topK to apply when 0 is passed")
	}
	if len(results) > DefaultTopK {
		t.Errorf("Expected at most %d results, got %d", DefaultTopK, len(results))
	}
}
