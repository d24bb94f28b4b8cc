package corpus

import (
	"fmt"
	"strings"

	"github.com/avetrov/crosswalk/internal/model"
)

// EnsurePrefix returns the globally unique form of a raw standard or clause
// id: "{CODE}_{sanitized id}". Ids that already carry the accreditor prefix
// are returned unchanged so re-normalizing is safe.
func EnsurePrefix(code, id string) string {
	prefix := code + "_"
	if strings.HasPrefix(id, prefix) {
		return id
	}
	// Whitespace runs become "_", path separators become "." so ids like
	// "CR 2.A/1" normalize to "CR_2.A.1" under the accreditor prefix.
	sanitized := strings.Join(strings.Fields(id), "_")
	sanitized = strings.ReplaceAll(sanitized, "/", ".")
	return prefix + sanitized
}

// normalizeStandard validates one raw standard entry and rewrites it into
// canonical form: prefixed ids, inherited version and effective date. The
// returned error names the offending entry so the whole file can be rejected.
func normalizeStandard(code string, std *model.Standard, version, effectiveDate string) error {
	if strings.TrimSpace(std.ID) == "" {
		return fmt.Errorf("standard with empty id (title %q)", std.Title)
	}
	if strings.TrimSpace(std.Title) == "" {
		return fmt.Errorf("standard %q missing title", std.ID)
	}
	if strings.TrimSpace(std.Description) == "" {
		return fmt.Errorf("standard %q missing description", std.ID)
	}

	std.ID = EnsurePrefix(code, std.ID)
	if std.Version == "" {
		std.Version = version
	}
	if std.EffectiveDate == "" {
		std.EffectiveDate = effectiveDate
	}

	for i := range std.Clauses {
		cl := &std.Clauses[i]
		if strings.TrimSpace(cl.ID) == "" {
			return fmt.Errorf("standard %q clause %d missing id", std.ID, i)
		}
		if strings.TrimSpace(cl.Title) == "" {
			return fmt.Errorf("standard %q clause %q missing title", std.ID, cl.ID)
		}
		cl.ID = EnsurePrefix(code, cl.ID)
	}

	return nil
}
