package evidence

import (
	"sort"
	"strings"

	"github.com/avetrov/crosswalk/internal/graph"
	"github.com/avetrov/crosswalk/internal/model"
	"github.com/avetrov/crosswalk/internal/util"
)

// Default rationale-span extraction bounds
const (
	DefaultMaxSpans    = 3
	DefaultSpanContext = 60
)

// Mapper scores free-text evidence against the standards graph. Mapping is a
// pure function of (graph, text): no state is kept between calls, so
// identical inputs always produce identical output.
type Mapper struct {
	maxSpans    int
	spanContext int
}

// NewMapper creates a mapper with the default span bounds
func NewMapper() *Mapper {
	return &Mapper{maxSpans: DefaultMaxSpans, spanContext: DefaultSpanContext}
}

// NewMapperWithOptions creates a mapper with custom rationale-span bounds;
// non-positive values select the defaults
func NewMapperWithOptions(maxSpans, spanContext int) *Mapper {
	if maxSpans <= 0 {
		maxSpans = DefaultMaxSpans
	}
	if spanContext <= 0 {
		spanContext = DefaultSpanContext
	}
	return &Mapper{maxSpans: maxSpans, spanContext: spanContext}
}

// Map scores every standard of the named accreditor (or the whole corpus
// when accreditor is empty) against the evidence text. Standards that cannot
// be scored (no indicators and no salient title terms) are skipped. Results
// are sorted by descending confidence; ties keep corpus order. Empty
// evidence yields every scorable standard with confidence 0, not an error.
func (m *Mapper) Map(g *graph.Graph, text, accreditor string) []model.EvidenceMapping {
	codes := []string{accreditor}
	if accreditor == "" {
		codes = g.Accreditors()
	}

	lowerText := strings.ToLower(text)

	mappings := []model.EvidenceMapping{}
	for _, code := range codes {
		for _, std := range g.AccreditorStandards(code) {
			mapping, ok := m.scoreStandard(std, text, lowerText)
			if !ok {
				continue
			}
			mappings = append(mappings, mapping)
		}
	}

	sort.SliceStable(mappings, func(i, j int) bool {
		return mappings[i].Confidence > mappings[j].Confidence
	})
	return mappings
}

// scoreStandard counts indicator hits in the evidence. The second return is
// false when the standard has nothing to score against.
func (m *Mapper) scoreStandard(std model.Standard, text, lowerText string) (model.EvidenceMapping, bool) {
	indicators := scorableIndicators(std)
	if len(indicators) == 0 {
		return model.EvidenceMapping{}, false
	}

	matched := 0
	var hits []window
	for _, ind := range indicators {
		idx := strings.Index(lowerText, strings.ToLower(ind))
		if idx < 0 {
			continue
		}
		matched++
		hits = append(hits, window{start: idx, end: idx + len(ind)})
	}

	confidence := float64(matched) / float64(len(indicators))
	if confidence > 1 {
		confidence = 1
	}

	mapping := model.EvidenceMapping{
		StandardID:        std.ID,
		Title:             std.Title,
		Confidence:        confidence,
		MeetsStandard:     confidence > 0.5,
		MatchType:         matchType(confidence),
		MatchedIndicators: matched,
		TotalIndicators:   len(indicators),
	}
	if matched > 0 {
		mapping.RationaleSpans = extractSpans(text, hits, m.spanContext, m.maxSpans)
	}
	return mapping, true
}

// scorableIndicators returns the standard's deduplicated indicator terms:
// direct and clause indicators flattened in order, falling back to salient
// title terms when the standard defines none.
func scorableIndicators(std model.Standard) []string {
	var out []string
	seen := make(map[string]bool)
	for _, ind := range std.AllIndicators() {
		ind = strings.TrimSpace(ind)
		if ind == "" {
			continue
		}
		key := strings.ToLower(ind)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ind)
	}
	if len(out) > 0 {
		return out
	}
	return util.SalientTerms(std.Title)
}

// matchType tiers a confidence score for display
func matchType(confidence float64) model.MatchType {
	switch {
	case confidence == 0:
		return model.MatchNone
	case confidence > 0.5:
		return model.MatchStrong
	default:
		return model.MatchPartial
	}
}
