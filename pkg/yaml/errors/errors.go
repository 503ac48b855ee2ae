// Package errors defines the error taxonomy shared by the YAML engine:
// syntax errors from the scanner, semantic errors from the composer, and
// validation errors from pre-flight resource checks.
package errors

import (
	"fmt"

	"github.com/fastyaml/fastyaml/pkg/yaml/token"
)

// SyntaxError reports malformed YAML grammar detected by the scanner.
// It always carries the location where scanning failed.
type SyntaxError struct {
	Message  string
	Location token.Location
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if e.Location.IsValid() {
		return fmt.Sprintf("yaml: syntax error at line %d, column %d: %s",
			e.Location.Line, e.Location.Column, e.Message)
	}
	return fmt.Sprintf("yaml: syntax error: %s", e.Message)
}

// Note attaches a labeled secondary span to a semantic error, for example
// the first occurrence of a duplicated key.
type Note struct {
	Message string
	Span    token.Span
}

// Semantic error kinds, used to classify composer failures.
const (
	KindDuplicateKey       = "duplicate-key"
	KindUnresolvedAlias    = "unresolved-alias"
	KindAnchorRedefinition = "anchor-redefinition"
)

// SemanticError reports a well-formed construct that violates document
// semantics: a duplicate mapping key, an unresolved or forward alias, or
// an anchor redefinition. The span covers the offending construct.
type SemanticError struct {
	Kind    string // one of the Kind constants above
	Message string
	Span    token.Span
	Notes   []Note
}

// Error implements the error interface.
func (e *SemanticError) Error() string {
	msg := fmt.Sprintf("yaml: %s at line %d, column %d",
		e.Message, e.Span.Start.Line, e.Span.Start.Column)
	for _, n := range e.Notes {
		msg += fmt.Sprintf(" (%s at line %d, column %d)",
			n.Message, n.Span.Start.Line, n.Span.Start.Column)
	}
	return msg
}

// ValidationError reports a configured resource limit violated before any
// parsing work began. It carries the violated limit and the observed
// value instead of a source location.
type ValidationError struct {
	Limit    string // name of the violated limit, e.g. "max input size"
	Maximum  int64  // configured cap
	Observed int64  // observed value
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("yaml: %s exceeded: limit %d, got %d", e.Limit, e.Maximum, e.Observed)
}

// DocumentError wraps a per-document failure during multi-document
// processing, recording the zero-based index of the failing document.
type DocumentError struct {
	Index int
	Err   error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	return fmt.Sprintf("yaml: document %d: %v", e.Index, e.Err)
}

// Unwrap exposes the underlying per-document error.
func (e *DocumentError) Unwrap() error {
	return e.Err
}
