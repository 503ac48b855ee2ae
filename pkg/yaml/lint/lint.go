// Package lint analyzes YAML sources tolerantly: instead of stopping
// at the first problem, it gathers every diagnostic it can find.
//
// # Pipeline
//
// The source is split into document ranges first, and each range is
// scanned and composed independently. A syntax error therefore only
// silences the rest of its own document; linting resynchronizes at the
// next document boundary. Semantic problems (duplicate keys, bad
// aliases) are collected through the composer's tolerant error sink
// without aborting the document, and a set of whole-source style rules
// runs over the raw lines.
//
// # Rules
//
// Structural rules (errors): syntax, duplicate-key, unresolved-alias,
// anchor-redefinition. Style rules (warnings): indentation,
// trailing-whitespace, tab-indentation, empty-value.
package lint

import (
	"fmt"
	"io"
	"sort"

	"github.com/fastyaml/fastyaml/pkg/yaml/composer"
	yamlerrors "github.com/fastyaml/fastyaml/pkg/yaml/errors"
	"github.com/fastyaml/fastyaml/pkg/yaml/scanner"
	"github.com/fastyaml/fastyaml/pkg/yaml/splitter"
	"github.com/fastyaml/fastyaml/pkg/yaml/token"
)

// Config controls a lint run. The zero value enables every rule at its
// default severity with no diagnostic cap.
type Config struct {
	// EnabledRules selects the rules to run. Nil enables all of them;
	// a non-nil map enables exactly the rules set to true.
	EnabledRules map[string]bool
	// SeverityOverrides replaces the default severity per rule.
	SeverityOverrides map[string]Severity
	// MaxDiagnostics caps the number of reported diagnostics after
	// sorting. Zero means no cap. Diagnostics beyond the cap are
	// dropped whole, never truncated.
	MaxDiagnostics int
}

func (c Config) enabled(rule string) bool {
	if c.EnabledRules == nil {
		return true
	}
	return c.EnabledRules[rule]
}

func (c Config) severity(rule string) Severity {
	if s, ok := c.SeverityOverrides[rule]; ok {
		return s
	}
	return defaultSeverity[rule]
}

// Lint analyzes src and returns its diagnostics sorted by position,
// then severity (errors first). The result is deterministic for a
// given source and configuration.
func Lint(src []byte, cfg Config) []Diagnostic {
	r := &run{cfg: cfg}

	for _, rng := range splitter.Split(src) {
		r.lintRange(src[rng.Start:rng.End], rng.Origin)
	}
	r.lineRules(src)

	sort.SliceStable(r.diags, func(i, j int) bool {
		a, b := r.diags[i], r.diags[j]
		if a.Span.Start.Offset != b.Span.Start.Offset {
			return a.Span.Start.Offset < b.Span.Start.Offset
		}
		return a.Severity > b.Severity
	})
	if cfg.MaxDiagnostics > 0 && len(r.diags) > cfg.MaxDiagnostics {
		r.diags = r.diags[:cfg.MaxDiagnostics]
	}
	return r.diags
}

type run struct {
	cfg   Config
	diags []Diagnostic

	// line ranges the style rules must not inspect
	scalarLines []lineRange // block scalar content
	flowLines   []lineRange // continuation lines of multi-line flow
}

type lineRange struct{ first, last int }

func (r *run) add(d Diagnostic) {
	if !r.cfg.enabled(d.Rule) {
		return
	}
	d.Severity = r.cfg.severity(d.Rule)
	r.diags = append(r.diags, d)
}

// lintRange scans and composes a single document, collecting syntax
// and semantic diagnostics.
func (r *run) lintRange(src []byte, origin token.Location) {
	events, err := scanner.ScanAll(src, origin)
	if err != nil {
		var msg string
		span := token.Span{}
		if serr, ok := err.(*yamlerrors.SyntaxError); ok {
			msg = serr.Message
			span = token.NewSpan(serr.Location, serr.Location)
		} else {
			msg = err.Error()
		}
		r.add(Diagnostic{Rule: RuleSyntax, Message: msg, Span: span})
		r.recordSkips(events)
		return
	}
	r.recordSkips(events)

	c := composer.NewTolerant(&eventList{events: events}, func(err error) {
		serr, ok := err.(*yamlerrors.SemanticError)
		if !ok {
			r.add(Diagnostic{Rule: RuleSyntax, Message: err.Error()})
			return
		}
		d := Diagnostic{
			Rule:    semanticRule(serr.Kind),
			Message: serr.Message,
			Span:    serr.Span,
		}
		for _, n := range serr.Notes {
			d.Notes = append(d.Notes, Note{Message: n.Message, Span: n.Span})
		}
		r.add(d)
	})
	for {
		if _, err := c.NextDocument(); err != nil {
			break // io.EOF; scan errors were already caught above
		}
	}

	r.emptyValueRule(events)
}

func semanticRule(kind string) string {
	switch kind {
	case yamlerrors.KindDuplicateKey:
		return RuleDuplicateKey
	case yamlerrors.KindUnresolvedAlias:
		return RuleUnresolvedAlias
	case yamlerrors.KindAnchorRedefinition:
		return RuleAnchorRedefinition
	}
	return RuleSyntax
}

// recordSkips notes the line ranges that style rules must leave alone:
// block scalar content, where whitespace is data, and the continuation
// lines of multi-line flow collections and scalars.
func (r *run) recordSkips(events []token.Event) {
	var stack []token.Event
	for _, ev := range events {
		switch ev.Kind {
		case token.EventScalar:
			if ev.Style.BlockScalar() && ev.Span.End.Line > ev.Span.Start.Line {
				r.scalarLines = append(r.scalarLines, lineRange{ev.Span.Start.Line + 1, ev.Span.End.Line})
			}
			if !ev.Style.BlockScalar() && ev.Span.End.Line > ev.Span.Start.Line {
				r.flowLines = append(r.flowLines, lineRange{ev.Span.Start.Line + 1, ev.Span.End.Line})
			}
		case token.EventSequenceStart, token.EventMappingStart:
			if ev.Style == token.StyleFlow {
				stack = append(stack, ev)
			}
		case token.EventSequenceEnd, token.EventMappingEnd:
			if ev.Style == token.StyleFlow && len(stack) > 0 {
				open := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if len(stack) == 0 && ev.Span.End.Line > open.Span.Start.Line {
					r.flowLines = append(r.flowLines, lineRange{open.Span.Start.Line + 1, ev.Span.End.Line})
				}
			}
		}
	}
}

func inRanges(ranges []lineRange, line int) bool {
	for _, lr := range ranges {
		if line >= lr.first && line <= lr.last {
			return true
		}
	}
	return false
}

// emptyValueRule flags mapping values that are implicit nulls, walking
// the event stream with a small key/value state machine.
func (r *run) emptyValueRule(events []token.Event) {
	type frame struct {
		mapping bool
		atKey   bool
	}
	var stack []frame
	slot := func() {
		if n := len(stack); n > 0 && stack[n-1].mapping {
			stack[n-1].atKey = !stack[n-1].atKey
		}
	}
	for _, ev := range events {
		switch ev.Kind {
		case token.EventMappingStart:
			slot()
			stack = append(stack, frame{mapping: true, atKey: true})
		case token.EventSequenceStart:
			slot()
			stack = append(stack, frame{})
		case token.EventMappingEnd, token.EventSequenceEnd:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case token.EventScalar:
			if n := len(stack); n > 0 && stack[n-1].mapping && !stack[n-1].atKey &&
				ev.Style == token.StylePlain && ev.Value == "" {
				r.add(Diagnostic{
					Rule:    RuleEmptyValue,
					Message: "mapping value is implicitly null",
					Span:    ev.Span,
					Suggestions: []Suggestion{{
						Message:     "write the value explicitly as null",
						Span:        ev.Span,
						Replacement: " null",
					}},
				})
			}
			slot()
		case token.EventAlias:
			slot()
		}
	}
}

// lineRules runs the whole-source style rules.
func (r *run) lineRules(src []byte) {
	lines := splitLines(src)

	indentUnit := 0
	prevIndent := 0
	offset := 0
	for i, line := range lines {
		lineNo := i + 1
		start := offset
		offset += len(line) + 1

		text := line
		if n := len(text); n > 0 && text[n-1] == '\r' {
			text = text[:n-1]
		}
		if inRanges(r.scalarLines, lineNo) {
			continue
		}

		if n := len(text); n > 0 && (text[n-1] == ' ' || text[n-1] == '\t') {
			r.add(Diagnostic{
				Rule:    RuleTrailingWhitespace,
				Message: "trailing whitespace",
				Span: token.NewSpan(
					token.Location{Line: lineNo, Column: trailingStart(text) + 1, Offset: start + trailingStart(text)},
					token.Location{Line: lineNo, Column: len(text) + 1, Offset: start + len(text)},
				),
			})
		}

		indent, tab, blank := leadingIndent(text)
		if blank {
			continue
		}
		if tab >= 0 {
			tabSpan := token.NewSpan(
				token.Location{Line: lineNo, Column: tab + 1, Offset: start + tab},
				token.Location{Line: lineNo, Column: tab + 2, Offset: start + tab + 1},
			)
			r.add(Diagnostic{
				Rule:    RuleTabIndentation,
				Message: "tab character used for indentation",
				Span:    tabSpan,
				Suggestions: []Suggestion{{
					Message:     "indent with spaces",
					Span:        tabSpan,
					Replacement: "  ",
				}},
			})
		}
		if inRanges(r.flowLines, lineNo) || text[indent] == '#' {
			continue
		}
		if indent > prevIndent {
			delta := indent - prevIndent
			if indentUnit == 0 {
				indentUnit = delta
			} else if delta%indentUnit != 0 {
				r.add(Diagnostic{
					Rule: RuleIndentation,
					Message: fmt.Sprintf("inconsistent indentation: %d spaces deeper, expected a multiple of %d",
						delta, indentUnit),
					Span: token.NewSpan(
						token.Location{Line: lineNo, Column: 1, Offset: start},
						token.Location{Line: lineNo, Column: indent + 1, Offset: start + indent},
					),
				})
			}
		}
		prevIndent = indent
	}
}

func splitLines(src []byte) []string {
	var lines []string
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, string(src[start:i]))
			start = i + 1
		}
	}
	if start < len(src) {
		lines = append(lines, string(src[start:]))
	}
	return lines
}

// trailingStart returns the index where the trailing whitespace begins.
func trailingStart(text string) int {
	i := len(text)
	for i > 0 && (text[i-1] == ' ' || text[i-1] == '\t') {
		i--
	}
	return i
}

// leadingIndent measures the leading whitespace of a line. tab is the
// index of the first tab among it, or -1. blank reports an all-space
// line.
func leadingIndent(text string) (indent, tab int, blank bool) {
	tab = -1
	for indent < len(text) {
		c := text[indent]
		if c == '\t' {
			if tab < 0 {
				tab = indent
			}
		} else if c != ' ' {
			break
		}
		indent++
	}
	return indent, tab, indent == len(text)
}

// eventList adapts a scanned event slice to the composer's EventSource.
type eventList struct {
	events []token.Event
	pos    int
}

func (l *eventList) Next() (token.Event, error) {
	if l.pos >= len(l.events) {
		return token.Event{}, io.EOF
	}
	ev := l.events[l.pos]
	l.pos++
	return ev, nil
}
