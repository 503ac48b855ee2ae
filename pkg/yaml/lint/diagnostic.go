package lint

import (
	"encoding/json"
	"fmt"

	"github.com/fastyaml/fastyaml/pkg/yaml/token"
)

// Severity grades a diagnostic.
type Severity int

// Severities order from least to most severe, so sorting descending
// puts errors first.
const (
	SeverityHint Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	}
	return "hint"
}

// MarshalJSON encodes the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a severity from its string form.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	case "hint":
		*s = SeverityHint
	default:
		return fmt.Errorf("lint: unknown severity %q", str)
	}
	return nil
}

// Note is a secondary span attached to a diagnostic, such as the first
// occurrence of a duplicated key.
type Note struct {
	Message string     `json:"message"`
	Span    token.Span `json:"span"`
}

// Suggestion proposes replacement text for a span of the source, so a
// fix can be applied mechanically.
type Suggestion struct {
	Message     string     `json:"message"`
	Span        token.Span `json:"span"`
	Replacement string     `json:"replacement"`
}

// Diagnostic is one problem found in a source document.
type Diagnostic struct {
	Rule        string       `json:"rule"`
	Severity    Severity     `json:"severity"`
	Message     string       `json:"message"`
	Span        token.Span   `json:"span"`
	Notes       []Note       `json:"notes,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
}

// Built-in rule identifiers.
const (
	RuleSyntax             = "syntax"
	RuleDuplicateKey       = "duplicate-key"
	RuleUnresolvedAlias    = "unresolved-alias"
	RuleAnchorRedefinition = "anchor-redefinition"
	RuleIndentation        = "indentation"
	RuleTrailingWhitespace = "trailing-whitespace"
	RuleTabIndentation     = "tab-indentation"
	RuleEmptyValue         = "empty-value"
)

// defaultSeverity maps each rule to its default grade. Structural
// problems are errors; style problems are warnings.
var defaultSeverity = map[string]Severity{
	RuleSyntax:             SeverityError,
	RuleDuplicateKey:       SeverityError,
	RuleUnresolvedAlias:    SeverityError,
	RuleAnchorRedefinition: SeverityError,
	RuleIndentation:        SeverityWarning,
	RuleTrailingWhitespace: SeverityWarning,
	RuleTabIndentation:     SeverityWarning,
	RuleEmptyValue:         SeverityWarning,
}

// Rules lists every built-in rule identifier.
func Rules() []string {
	return []string{
		RuleSyntax,
		RuleDuplicateKey,
		RuleUnresolvedAlias,
		RuleAnchorRedefinition,
		RuleIndentation,
		RuleTrailingWhitespace,
		RuleTabIndentation,
		RuleEmptyValue,
	}
}
