package match

import (
	"github.com/avetrov/crosswalk/internal/model"
	"github.com/avetrov/crosswalk/internal/util"
)

// Scorer computes the similarity of two standards in [0,1]. The engine ships
// a lexical implementation; anything smarter (embeddings, curated synonym
// tables) plugs in here without touching the matcher.
type Scorer interface {
	Score(a, b model.Standard) float64
}

// LexicalScorer scores standards by term overlap between their titles and
// descriptions. No embeddings, no network: the score is a pure function of
// the two standards.
type LexicalScorer struct {
	descWeight float64 // weight of description overlap; title carries the rest
}

// NewLexicalScorer creates a scorer with the default 0.3 description weight
func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{descWeight: 0.3}
}

// NewWeightedLexicalScorer creates a scorer with a custom description
// weight; out-of-range values fall back to the default
func NewWeightedLexicalScorer(descWeight float64) *LexicalScorer {
	if descWeight < 0 || descWeight > 1 {
		descWeight = 0.3
	}
	return &LexicalScorer{descWeight: descWeight}
}

// Score returns the weighted overlap of the two standards' salient terms.
// Zero when the standards share no term. When either side has no
// description terms the title overlap carries the full weight.
func (s *LexicalScorer) Score(a, b model.Standard) float64 {
	titleScore := overlap(util.TermSet(a.Title), util.TermSet(b.Title))

	descA := util.TermSet(a.Description)
	descB := util.TermSet(b.Description)
	if len(descA) == 0 || len(descB) == 0 {
		return clamp01(titleScore)
	}

	// Interpolate instead of summing weighted terms so a full match on both
	// components is exactly 1.0.
	descScore := overlap(descA, descB)
	return clamp01(titleScore + s.descWeight*(descScore-titleScore))
}

// overlap is the overlap coefficient: shared terms divided by the size of
// the smaller set. Empty sets score 0.
func overlap(x, y map[string]bool) float64 {
	if len(x) == 0 || len(y) == 0 {
		return 0
	}
	small, large := x, y
	if len(y) < len(x) {
		small, large = y, x
	}
	shared := 0
	for tok := range small {
		if large[tok] {
			shared++
		}
	}
	return float64(shared) / float64(len(small))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
