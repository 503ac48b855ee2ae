package lint

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fastyaml/fastyaml/pkg/yaml/token"
)

// Format selects a rendering of lint results.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ANSI sequences used by the text renderer.
const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// Render produces a human- or machine-readable report of diagnostics.
// The source is used to show context lines in the text format.
func Render(diags []Diagnostic, src []byte, format Format, useColors bool) (string, error) {
	switch format {
	case FormatJSON:
		out, err := json.MarshalIndent(diags, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out) + "\n", nil
	case FormatText, "":
		return renderText(diags, src, useColors), nil
	default:
		return "", fmt.Errorf("lint: unknown output format %q", format)
	}
}

func renderText(diags []Diagnostic, src []byte, useColors bool) string {
	lines := splitLines(src)
	var sb strings.Builder
	color := func(code, s string) string {
		if !useColors {
			return s
		}
		return code + s + ansiReset
	}

	for i, d := range diags {
		if i > 0 {
			sb.WriteByte('\n')
		}
		head := d.Severity.String()
		headColor := ansiYellow
		if d.Severity == SeverityError {
			headColor = ansiRed
		}
		fmt.Fprintf(&sb, "%s: %s\n",
			color(headColor+ansiBold, fmt.Sprintf("%s[%s]", head, d.Rule)),
			color(ansiBold, d.Message))

		loc := d.Span.Start
		if loc.IsValid() {
			gutter := len(fmt.Sprint(loc.Line))
			pad := strings.Repeat(" ", gutter)
			fmt.Fprintf(&sb, "%s%s %d:%d\n", pad, color(ansiBlue, "-->"), loc.Line, loc.Column)
			if loc.Line-1 < len(lines) {
				src := strings.ReplaceAll(lines[loc.Line-1], "\t", " ")
				fmt.Fprintf(&sb, "%s %s\n", pad, color(ansiBlue, "|"))
				fmt.Fprintf(&sb, "%s %s %s\n",
					color(ansiBlue, fmt.Sprint(loc.Line)), color(ansiBlue, "|"), src)
				fmt.Fprintf(&sb, "%s %s %s%s\n", pad, color(ansiBlue, "|"),
					strings.Repeat(" ", loc.Column-1),
					color(headColor+ansiBold, underline(d.Span, len(src))))
			}
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&sb, "  %s %s at %s\n", color(ansiBlue, "= note:"), n.Message, n.Span.Start)
		}
		for _, s := range d.Suggestions {
			fmt.Fprintf(&sb, "  %s %s\n", color(ansiBlue, "= suggestion:"), s.Message)
		}
	}
	return sb.String()
}

// underline builds the caret marker under the primary span. Spans that
// run past the shown line are clipped to it.
func underline(span token.Span, lineLen int) string {
	width := 1
	if span.End.Line == span.Start.Line && span.End.Column > span.Start.Column {
		width = span.End.Column - span.Start.Column
	}
	if max := lineLen - span.Start.Column + 1; width > max && max > 0 {
		width = max
	}
	if width <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", width-1)
}
