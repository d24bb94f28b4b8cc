package score

import (
	"fmt"
	"math"

	"github.com/avetrov/crosswalk/internal/model"
)

// Scorer calculates the readiness index and generates signals
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Calculate computes the readiness breakdown for one evidence document.
// Standards supply corpus context (categories, indicator availability) and
// mappings carry the per-standard evidence results for the same standards.
func (s *Scorer) Calculate(standards []model.Standard, mappings []model.EvidenceMapping) model.Score {
	var signals []model.Signal

	// 1. Coverage (0-40 points)
	coverageScore, coverageSignal := s.calculateCoverage(mappings)
	signals = append(signals, coverageSignal)

	// 2. Strength (0-30 points)
	strengthScore, strengthSignal := s.calculateStrength(mappings)
	signals = append(signals, strengthSignal)

	// 3. Breadth (0-20 points)
	breadthScore, breadthSignal := s.calculateBreadth(standards, mappings)
	signals = append(signals, breadthSignal)

	// 4. Corpus support (0-10 points)
	supportScore, supportSignal := s.calculateCorpusSupport(standards)
	signals = append(signals, supportSignal)

	// 5. Unaddressed standards (diagnostic only, never changes the index)
	unaddressedSignal := s.detectUnaddressed(mappings)
	if unaddressedSignal.Type != "" {
		signals = append(signals, unaddressedSignal)
	}

	totalScore := coverageScore + strengthScore + breadthScore + supportScore

	readiness := s.determineReadiness(totalScore, addressedCount(mappings))

	return model.Score{
		Index:     totalScore,
		Readiness: readiness,
		Signals:   signals,
	}
}

// calculateCoverage calculates the addressed-standards score (0-40 points)
func (s *Scorer) calculateCoverage(mappings []model.EvidenceMapping) (int, model.Signal) {
	scored := len(mappings)
	if scored == 0 {
		return 0, model.Signal{
			Type:        model.SignalCoverage,
			Severity:    model.SeverityCritical,
			Description: "No standards scored",
			Data: map[string]interface{}{
				"scored":    0,
				"addressed": 0,
			},
		}
	}

	addressed := addressedCount(mappings)
	ratio := float64(addressed) / float64(scored)
	score := int(math.Min(ratio*40, 40))

	severity := model.SeverityInfo
	if ratio < 0.25 {
		severity = model.SeverityCritical
	} else if ratio < 0.5 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalCoverage,
		Severity:    severity,
		Description: fmt.Sprintf("Evidence addresses %d of %d scored standards", addressed, scored),
		Data: map[string]interface{}{
			"addressed": addressed,
			"scored":    scored,
			"ratio":     ratio,
			"score":     score,
			"formula":   "min(addressed / scored * 40, 40)",
		},
	}
}

// calculateStrength calculates the mean-confidence score (0-30 points)
func (s *Scorer) calculateStrength(mappings []model.EvidenceMapping) (int, model.Signal) {
	scored := len(mappings)
	if scored == 0 {
		return 0, model.Signal{
			Type:        model.SignalStrength,
			Severity:    model.SeverityWarning,
			Description: "No standards scored",
			Data:        map[string]interface{}{"scored": 0},
		}
	}

	var sum float64
	strong := 0
	for _, m := range mappings {
		sum += m.Confidence
		if m.MatchType == model.MatchStrong {
			strong++
		}
	}

	mean := sum / float64(scored)
	score := int(math.Min(mean*30, 30))

	severity := model.SeverityInfo
	if mean < 0.2 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalStrength,
		Severity:    severity,
		Description: fmt.Sprintf("Mean confidence %.2f across %d standards (%d strong)", mean, scored, strong),
		Data: map[string]interface{}{
			"mean_confidence": mean,
			"scored":          scored,
			"strong":          strong,
			"score":           score,
			"formula":         "mean(confidence) * 30",
		},
	}
}

// calculateBreadth calculates the category-spread score (0-20 points)
func (s *Scorer) calculateBreadth(standards []model.Standard, mappings []model.EvidenceMapping) (int, model.Signal) {
	if len(standards) == 0 {
		return 0, model.Signal{
			Type:        model.SignalBreadth,
			Severity:    model.SeverityWarning,
			Description: "No standards in corpus",
			Data:        map[string]interface{}{"categories": 0},
		}
	}

	// Standards without a category share one bucket so a corpus that never
	// sets categories still gets a defined breadth score.
	categoryOf := make(map[string]string, len(standards))
	categories := make(map[string]bool)
	for i := range standards {
		cat := standards[i].Category
		if cat == "" {
			cat = "uncategorized"
		}
		categoryOf[standards[i].ID] = cat
		categories[cat] = true
	}

	covered := make(map[string]bool)
	for _, m := range mappings {
		if m.Confidence <= 0 {
			continue
		}
		if cat, ok := categoryOf[m.StandardID]; ok {
			covered[cat] = true
		}
	}

	ratio := float64(len(covered)) / float64(len(categories))
	score := int(math.Min(ratio*20, 20))

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalBreadth,
		Severity:    severity,
		Description: fmt.Sprintf("Evidence spans %d of %d categories", len(covered), len(categories)),
		Data: map[string]interface{}{
			"categories_covered": len(covered),
			"categories":         len(categories),
			"ratio":              ratio,
			"score":              score,
			"formula":            "categories_covered / categories * 20",
		},
	}
}

// calculateCorpusSupport calculates the indicator-availability score (0-10 points)
func (s *Scorer) calculateCorpusSupport(standards []model.Standard) (int, model.Signal) {
	if len(standards) == 0 {
		return 0, model.Signal{
			Type:        model.SignalCorpusSupport,
			Severity:    model.SeverityWarning,
			Description: "No standards in corpus",
			Data:        map[string]interface{}{"standards": 0},
		}
	}

	withIndicators := 0
	for i := range standards {
		if len(standards[i].AllIndicators()) > 0 {
			withIndicators++
		}
	}

	ratio := float64(withIndicators) / float64(len(standards))
	score := int(ratio * 10)

	severity := model.SeverityInfo
	if ratio < 0.5 {
		severity = model.SeverityCritical
	} else if ratio < 0.8 {
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalCorpusSupport,
		Severity:    severity,
		Description: fmt.Sprintf("Indicators defined for %d/%d standards (%.0f%%)", withIndicators, len(standards), ratio*100),
		Data: map[string]interface{}{
			"with_indicators": withIndicators,
			"standards":       len(standards),
			"ratio":           ratio,
			"score":           score,
			"formula":         "with_indicators / standards * 10",
		},
	}
}

// detectUnaddressed reports standards with no matched indicators at all
func (s *Scorer) detectUnaddressed(mappings []model.EvidenceMapping) model.Signal {
	var ids []string
	for _, m := range mappings {
		if m.Confidence == 0 {
			ids = append(ids, m.StandardID)
		}
	}

	if len(ids) == 0 {
		return model.Signal{}
	}

	severity := model.SeverityWarning
	if len(ids)*2 > len(mappings) {
		severity = model.SeverityCritical
	}

	return model.Signal{
		Type:        model.SignalUnaddressed,
		Severity:    severity,
		Description: fmt.Sprintf("%d of %d standards have no matched indicators", len(ids), len(mappings)),
		Data: map[string]interface{}{
			"standard_ids": ids,
			"count":        len(ids),
		},
	}
}

// determineReadiness maps the index to a tier. A handful of addressed
// standards is too thin a base for a high tier whatever the ratios say, so
// low-evidence results are demoted one tier.
func (s *Scorer) determineReadiness(index, addressed int) string {
	tier := "low"
	switch {
	case index >= 80:
		tier = "high"
	case index >= 60:
		tier = "moderate"
	}

	if addressed < 3 {
		switch tier {
		case "high":
			return "moderate"
		case "moderate":
			return "low"
		}
	}

	return tier
}

func addressedCount(mappings []model.EvidenceMapping) int {
	n := 0
	for _, m := range mappings {
		if m.Confidence > 0 {
			n++
		}
	}
	return n
}
