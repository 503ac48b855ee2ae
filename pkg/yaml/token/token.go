// Package token defines source locations, spans, and the lexical event
// stream shared by the scanner, composer, and lint engine.
package token

import "fmt"

// Location identifies a single position in YAML source.
// Line and Column are 1-based; Offset is the 0-based byte offset.
type Location struct {
	Line   int `json:"line"`   // 1-based
	Column int `json:"column"` // 1-based
	Offset int `json:"offset"` // 0-based byte offset
}

// String returns a human-readable "line:column" representation.
func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// IsValid returns true if the location carries real position information.
func (l Location) IsValid() bool {
	return l.Line > 0 && l.Column > 0
}

// Before reports whether l precedes other in the source.
func (l Location) Before(other Location) bool {
	return l.Offset < other.Offset
}

// Span is a half-open [Start, End) range of source text.
// Spans never cross a document boundary.
type Span struct {
	Start Location `json:"start"`
	End   Location `json:"end"`
}

// NewSpan constructs a span from two locations.
func NewSpan(start, end Location) Span {
	return Span{Start: start, End: end}
}

// String returns "startLine:startCol-endLine:endCol".
func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End.Offset - s.Start.Offset
}

// Contains reports whether the byte offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// EventKind discriminates lexical events produced by the scanner.
type EventKind uint8

const (
	EventStreamStart EventKind = iota
	EventDocumentStart
	EventDocumentEnd
	EventMappingStart
	EventMappingEnd
	EventSequenceStart
	EventSequenceEnd
	EventScalar
	EventAnchor
	EventAlias
	EventStreamEnd
)

// String returns the event kind name for debugging and error messages.
func (k EventKind) String() string {
	switch k {
	case EventStreamStart:
		return "stream start"
	case EventDocumentStart:
		return "document start"
	case EventDocumentEnd:
		return "document end"
	case EventMappingStart:
		return "mapping start"
	case EventMappingEnd:
		return "mapping end"
	case EventSequenceStart:
		return "sequence start"
	case EventSequenceEnd:
		return "sequence end"
	case EventScalar:
		return "scalar"
	case EventAnchor:
		return "anchor"
	case EventAlias:
		return "alias"
	case EventStreamEnd:
		return "stream end"
	default:
		return "unknown"
	}
}

// Style records how a node was written in the source.
type Style uint8

const (
	StylePlain Style = iota
	StyleSingleQuoted
	StyleDoubleQuoted
	StyleLiteral // block scalar introduced by |
	StyleFolded  // block scalar introduced by >
	StyleBlock   // indentation-based collection
	StyleFlow    // bracketed collection
)

// Quoted reports whether the style is one of the quoted scalar styles.
func (s Style) Quoted() bool {
	return s == StyleSingleQuoted || s == StyleDoubleQuoted
}

// BlockScalar reports whether the style is a literal or folded block scalar.
func (s Style) BlockScalar() bool {
	return s == StyleLiteral || s == StyleFolded
}

// Event is one element of the scanner's lexical event stream.
//
// Value is set for EventScalar; Name is set for EventAnchor and EventAlias;
// Tag carries an explicit tag hint (for example "!!str") attached to the
// following node. Every event carries the span of the source text that
// produced it.
type Event struct {
	Kind  EventKind
	Span  Span
	Value string // scalar text, already unescaped/folded
	Style Style
	Name  string // anchor or alias name
	Tag   string // explicit tag hint, empty when untagged
}
