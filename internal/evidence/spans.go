package evidence

import (
	"sort"
	"unicode/utf8"

	"github.com/avetrov/crosswalk/internal/util"
)

// window is a half-open byte range of interest in the evidence text
type window struct {
	start, end int
}

// extractSpans turns matched-indicator positions into short reviewable text
// snippets: context bytes either side of each hit, snapped to rune
// boundaries, overlapping windows merged, whitespace collapsed, ellipsized
// where the snippet cuts into surrounding text. At most maxSpans are
// returned, in document order.
func extractSpans(text string, hits []window, context, maxSpans int) []string {
	if len(hits) == 0 || len(text) == 0 {
		return nil
	}

	widened := make([]window, 0, len(hits))
	for _, h := range hits {
		w := window{start: h.start - context, end: h.end + context}
		if w.start < 0 {
			w.start = 0
		}
		if w.end > len(text) {
			w.end = len(text)
		}
		widened = append(widened, snapToRunes(text, w))
	}

	sort.Slice(widened, func(i, j int) bool {
		if widened[i].start != widened[j].start {
			return widened[i].start < widened[j].start
		}
		return widened[i].end < widened[j].end
	})

	merged := widened[:1]
	for _, w := range widened[1:] {
		last := &merged[len(merged)-1]
		if w.start <= last.end {
			if w.end > last.end {
				last.end = w.end
			}
			continue
		}
		merged = append(merged, w)
	}

	if len(merged) > maxSpans {
		merged = merged[:maxSpans]
	}

	spans := make([]string, 0, len(merged))
	for _, w := range merged {
		snippet := util.CollapseWhitespace(text[w.start:w.end])
		if snippet == "" {
			continue
		}
		if w.start > 0 {
			snippet = "..." + snippet
		}
		if w.end < len(text) {
			snippet = snippet + "..."
		}
		spans = append(spans, snippet)
	}
	return spans
}

// snapToRunes moves window edges off the middle of multi-byte runes
func snapToRunes(text string, w window) window {
	for w.start > 0 && !utf8.RuneStart(text[w.start]) {
		w.start--
	}
	for w.end < len(text) && !utf8.RuneStart(text[w.end]) {
		w.end++
	}
	return w
}
