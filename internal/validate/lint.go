package validate

import (
	"fmt"
	"strings"

	"github.com/avetrov/crosswalk/internal/model"
	"github.com/avetrov/crosswalk/internal/util"
)

// thinIndicatorCount is the indicator total below which confidence becomes
// too coarse to be meaningful (with 2 indicators the only possible scores
// are 0, 0.5 and 1).
const thinIndicatorCount = 3

// Lint runs advisory diagnostics over loaded accreditors. Signals never
// block loading; they tell corpus authors what will degrade matching
// quality before evidence ever arrives.
func Lint(accreditors []model.Accreditor) []model.Signal {
	var signals []model.Signal

	for _, acc := range accreditors {
		titles := make(map[string][]string) // lowered title -> standard ids

		for _, std := range acc.Standards {
			signals = append(signals, lintStandard(acc.Code, std)...)

			key := strings.ToLower(strings.TrimSpace(std.Title))
			if key != "" {
				titles[key] = append(titles[key], std.ID)
			}
		}

		for title, ids := range titles {
			if len(ids) < 2 {
				continue
			}
			signals = append(signals, model.Signal{
				Type:        model.SignalDuplicateTitle,
				Severity:    model.SeverityWarning,
				Description: fmt.Sprintf("%s: title %q appears under %d ids", acc.Code, title, len(ids)),
				Data: map[string]interface{}{
					"accreditor": acc.Code,
					"title":      title,
					"ids":        ids,
				},
			})
		}
	}

	return signals
}

// lintStandard checks one standard's scorability
func lintStandard(code string, std model.Standard) []model.Signal {
	var signals []model.Signal

	indicators := std.AllIndicators()
	if len(indicators) == 0 {
		fallback := util.SalientTerms(std.Title)
		if len(fallback) == 0 {
			// Nothing to score against at all; the mapper will skip it.
			signals = append(signals, model.Signal{
				Type:        model.SignalNoIndicators,
				Severity:    model.SeverityCritical,
				Description: fmt.Sprintf("%s has no indicators and no salient title terms; it cannot be scored", std.ID),
				Data: map[string]interface{}{
					"accreditor": code,
					"standard":   std.ID,
				},
			})
		} else {
			signals = append(signals, model.Signal{
				Type:        model.SignalNoIndicators,
				Severity:    model.SeverityWarning,
				Description: fmt.Sprintf("%s defines no indicators; evidence mapping falls back to title terms", std.ID),
				Data: map[string]interface{}{
					"accreditor":     code,
					"standard":       std.ID,
					"fallback_terms": fallback,
				},
			})
		}
	} else if len(indicators) < thinIndicatorCount {
		signals = append(signals, model.Signal{
			Type:        model.SignalThinIndicators,
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("%s has only %d indicators; confidence will be coarse", std.ID, len(indicators)),
			Data: map[string]interface{}{
				"accreditor": code,
				"standard":   std.ID,
				"indicators": len(indicators),
			},
		})
	}

	for _, cl := range std.Clauses {
		if len(cl.Indicators) == 0 {
			signals = append(signals, model.Signal{
				Type:        model.SignalSparseClause,
				Severity:    model.SeverityInfo,
				Description: fmt.Sprintf("%s defines no indicators of its own", cl.ID),
				Data: map[string]interface{}{
					"accreditor": code,
					"standard":   std.ID,
					"clause":     cl.ID,
				},
			})
		}
		if strings.TrimSpace(cl.Description) == "" {
			signals = append(signals, model.Signal{
				Type:        model.SignalEmptyText,
				Severity:    model.SeverityInfo,
				Description: fmt.Sprintf("%s has no description", cl.ID),
				Data: map[string]interface{}{
					"accreditor": code,
					"standard":   std.ID,
					"clause":     cl.ID,
				},
			})
		}
	}

	return signals
}

// CriticalCount returns how many signals are critical; the lint command
// exits nonzero when this is positive.
func CriticalCount(signals []model.Signal) int {
	count := 0
	for _, sig := range signals {
		if sig.Severity == model.SeverityCritical {
			count++
		}
	}
	return count
}
