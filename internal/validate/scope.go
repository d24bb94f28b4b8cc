package validate

import (
	"strings"

	"github.com/avetrov/crosswalk/internal/model"
)

// builtinScopes maps well-known accreditor codes to their scope. Config
// overrides take precedence, so a deployment can correct or extend this
// table without a rebuild.
var builtinScopes = map[string]model.Scope{
	// Institutional accreditors (former regionals)
	"HLC":     model.ScopeInstitutional,
	"MSCHE":   model.ScopeInstitutional,
	"NECHE":   model.ScopeInstitutional,
	"NWCCU":   model.ScopeInstitutional,
	"SACSCOC": model.ScopeInstitutional,
	"WSCUC":   model.ScopeInstitutional,
	"ACCJC":   model.ScopeInstitutional,

	// Programmatic accreditors
	"ABET":  model.ScopeProgrammatic,
	"AACSB": model.ScopeProgrammatic,
	"ACBSP": model.ScopeProgrammatic,
	"CCNE":  model.ScopeProgrammatic,
	"ACEN":  model.ScopeProgrammatic,
	"CAEP":  model.ScopeProgrammatic,
	"CAHME": model.ScopeProgrammatic,
	"CSWE":  model.ScopeProgrammatic,
	"ABA":   model.ScopeProgrammatic,
	"LCME":  model.ScopeProgrammatic,

	// National accreditors
	"ABHE":  model.ScopeNational,
	"TRACS": model.ScopeNational,
	"ACCSC": model.ScopeNational,
	"DEAC":  model.ScopeNational,
	"COE":   model.ScopeNational,
}

// ScopeClassifier classifies accreditor codes into scopes
type ScopeClassifier struct {
	overrides map[string]model.Scope
}

// NewScopeClassifier creates a classifier; config may be nil
func NewScopeClassifier(config *model.ScopeConfig) *ScopeClassifier {
	classifier := &ScopeClassifier{
		overrides: make(map[string]model.Scope),
	}
	if config != nil {
		for code, scope := range config.Overrides {
			classifier.overrides[strings.ToUpper(code)] = parseScopeString(scope)
		}
	}
	return classifier
}

// Classify returns the scope for an accreditor code. Overrides win over the
// built-in table; unrecognized codes are unknown, never an error.
func (c *ScopeClassifier) Classify(code string) model.Scope {
	code = strings.ToUpper(strings.TrimSpace(code))
	if scope, ok := c.overrides[code]; ok {
		return scope
	}
	if scope, ok := builtinScopes[code]; ok {
		return scope
	}
	return model.ScopeUnknown
}

// CrossScopeSignal returns a warning when two accreditors of different known
// scopes are compared; equivalence across scopes is usually spurious.
func (c *ScopeClassifier) CrossScopeSignal(source, target string) *model.Signal {
	sourceScope := c.Classify(source)
	targetScope := c.Classify(target)
	if sourceScope == model.ScopeUnknown || targetScope == model.ScopeUnknown {
		return nil
	}
	if sourceScope == targetScope {
		return nil
	}
	return &model.Signal{
		Type:        model.SignalScopeMismatch,
		Severity:    model.SeverityWarning,
		Description: "Comparing accreditors of different scopes",
		Data: map[string]interface{}{
			"source":       source,
			"source_scope": string(sourceScope),
			"target":       target,
			"target_scope": string(targetScope),
		},
	}
}

// parseScopeString converts a config string to a Scope
func parseScopeString(scope string) model.Scope {
	switch strings.ToLower(strings.TrimSpace(scope)) {
	case "institutional", "regional":
		return model.ScopeInstitutional
	case "programmatic", "specialized":
		return model.ScopeProgrammatic
	case "national":
		return model.ScopeNational
	default:
		return model.ScopeUnknown
	}
}
