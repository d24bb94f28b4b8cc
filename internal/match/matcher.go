package match

import (
	"sort"

	"github.com/avetrov/crosswalk/internal/graph"
	"github.com/avetrov/crosswalk/internal/model"
)

// Default query bounds. The threshold is deliberately permissive so
// near-miss equivalences surface for human review instead of being hidden.
const (
	DefaultThreshold = 0.2
	DefaultTopK      = 10
)

// Matcher finds equivalent standards across accreditors
type Matcher struct {
	scorer Scorer
}

// NewMatcher creates a matcher; a nil scorer selects the lexical default
func NewMatcher(scorer Scorer) *Matcher {
	if scorer == nil {
		scorer = NewLexicalScorer()
	}
	return &Matcher{scorer: scorer}
}

// FindMatches scores the full cartesian product of source and target
// standards, keeps pairs at or above threshold, and returns the first topK
// sorted by descending score. Ties keep enumeration order (stable sort), so
// the output is deterministic for a given graph. Unknown accreditor codes
// yield an empty result, never an error. source == target is legal and
// returns self-matches.
func (m *Matcher) FindMatches(g *graph.Graph, source, target string, threshold float64, topK int) []model.MatchResult {
	if threshold < 0 {
		threshold = 0
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	sourceStds := g.AccreditorStandards(source)
	targetStds := g.AccreditorStandards(target)

	results := []model.MatchResult{}
	for _, src := range sourceStds {
		for _, tgt := range targetStds {
			score := m.scorer.Score(src, tgt)
			if score < threshold {
				continue
			}
			results = append(results, model.MatchResult{
				SourceID:    src.ID,
				SourceTitle: src.Title,
				TargetID:    tgt.ID,
				TargetTitle: tgt.Title,
				Score:       score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > topK {
		results = results[:topK]
	}
	return results
}
