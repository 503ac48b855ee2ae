// Package emitter renders Value graphs back to YAML text. Output is
// round-trip faithful: strings that would resolve to another scalar
// type are quoted, floats always keep a decimal point or exponent, and
// non-finite floats use the .inf/.nan forms the parser accepts.
package emitter

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/fastyaml/fastyaml/pkg/yaml/composer"
	"github.com/fastyaml/fastyaml/pkg/yaml/value"
)

// Options controls emission. The zero value is a useful default: block
// style, two-space indent, 80-column soft width.
type Options struct {
	// Indent is the number of spaces per nesting level. Values outside
	// 1..9 are clamped; zero means the default of 2.
	Indent int
	// Width is the soft line width used to wrap flow collections.
	// Values outside 20..1000 are clamped; zero means the default of 80.
	Width int
	// SortKeys recursively sorts mapping keys by the value total order.
	SortKeys bool
	// AllowUnicode passes non-ASCII characters through in double-quoted
	// scalars instead of escaping them as \uXXXX.
	AllowUnicode bool
	// DefaultFlowStyle renders all collections in flow style.
	DefaultFlowStyle bool
	// ExplicitStart prefixes the document with a "---" marker.
	ExplicitStart bool
}

func (o Options) normalized() Options {
	if o.Indent == 0 {
		o.Indent = 2
	}
	if o.Indent < 1 {
		o.Indent = 1
	}
	if o.Indent > 9 {
		o.Indent = 9
	}
	if o.Width == 0 {
		o.Width = 80
	}
	if o.Width < 20 {
		o.Width = 20
	}
	if o.Width > 1000 {
		o.Width = 1000
	}
	return o
}

// Emit renders a single document. A nil value is the null document.
func Emit(v *value.Value, opts Options) (string, error) {
	opts = opts.normalized()
	e := &emitter{opts: opts}
	e.document(v, opts.ExplicitStart)
	return e.sb.String(), nil
}

// EmitAll renders a document stream, each document introduced by a
// "---" marker.
func EmitAll(vs []*value.Value, opts Options) (string, error) {
	opts = opts.normalized()
	e := &emitter{opts: opts}
	for _, v := range vs {
		e.document(v, true)
	}
	return e.sb.String(), nil
}

type emitter struct {
	sb   strings.Builder
	opts Options
}

func (e *emitter) document(v *value.Value, explicitStart bool) {
	if v == nil {
		v = value.Null()
	}
	if e.opts.SortKeys {
		v = sortValue(v)
	}
	blockForm := !e.opts.DefaultFlowStyle && blockable(v)
	if explicitStart {
		if blockForm {
			e.sb.WriteString("---\n")
		} else {
			e.sb.WriteString("--- ")
		}
	}
	if blockForm {
		e.writeBlock(v, 0, false)
		return
	}
	e.writeInline(v, 0)
	e.sb.WriteByte('\n')
}

// blockable reports whether v is rendered in block style: a non-empty
// collection. Empty collections and scalars are always inline.
func blockable(v *value.Value) bool {
	switch v.Kind() {
	case value.KindSequence, value.KindMapping:
		return v.Len() > 0
	}
	return false
}

// writeBlock renders a non-empty collection in block style at the given
// indent. When inline is true the cursor already sits at the right
// column (after "- " or a "key:") and the first line's padding is
// skipped.
func (e *emitter) writeBlock(v *value.Value, indent int, inline bool) {
	pad := strings.Repeat(" ", indent)
	switch v.Kind() {
	case value.KindSequence:
		for i, item := range v.Items() {
			if i > 0 || !inline {
				e.sb.WriteString(pad)
			}
			e.sb.WriteString("- ")
			if !e.opts.DefaultFlowStyle && blockable(item) {
				// compact form: nested block starts on the same line
				e.writeBlock(item, indent+2, true)
			} else {
				e.writeInline(item, indent+2)
				e.sb.WriteByte('\n')
			}
		}
	case value.KindMapping:
		for i, p := range v.Pairs() {
			if i > 0 || !inline {
				e.sb.WriteString(pad)
			}
			e.writeKey(p.Key, indent)
			e.sb.WriteByte(':')
			if !e.opts.DefaultFlowStyle && blockable(p.Value) {
				e.sb.WriteByte('\n')
				e.writeBlock(p.Value, indent+e.opts.Indent, false)
			} else {
				e.sb.WriteByte(' ')
				e.writeInline(p.Value, indent+e.opts.Indent)
				e.sb.WriteByte('\n')
			}
		}
	}
}

func (e *emitter) writeKey(key *value.Value, indent int) {
	// collection keys are rendered in flow form before the ':'
	e.writeInline(key, indent)
}

// writeInline renders v on the current line; flow collections wrap at
// commas when the soft width is exceeded, continuing at contIndent plus
// one level.
func (e *emitter) writeInline(v *value.Value, contIndent int) {
	switch v.Kind() {
	case value.KindSequence:
		items := v.Items()
		if len(items) == 0 {
			e.sb.WriteString("[]")
			return
		}
		e.sb.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				e.separator(contIndent + e.opts.Indent)
			}
			e.writeInline(item, contIndent)
		}
		e.sb.WriteByte(']')
	case value.KindMapping:
		pairs := v.Pairs()
		if len(pairs) == 0 {
			e.sb.WriteString("{}")
			return
		}
		e.sb.WriteByte('{')
		for i, p := range pairs {
			if i > 0 {
				e.separator(contIndent + e.opts.Indent)
			}
			e.writeInline(p.Key, contIndent)
			e.sb.WriteString(": ")
			e.writeInline(p.Value, contIndent)
		}
		e.sb.WriteByte('}')
	default:
		e.sb.WriteString(e.scalarText(v, true))
	}
}

// separator writes the comma between flow entries, breaking the line
// when it has grown past the configured width.
func (e *emitter) separator(contIndent int) {
	e.sb.WriteByte(',')
	if e.column() >= e.opts.Width {
		e.sb.WriteByte('\n')
		e.sb.WriteString(strings.Repeat(" ", contIndent))
	} else {
		e.sb.WriteByte(' ')
	}
}

// column is the current cursor column, counted from the last line break.
func (e *emitter) column() int {
	s := e.sb.String()
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return len(s) - i - 1
	}
	return len(s)
}

func (e *emitter) scalarText(v *value.Value, inFlow bool) string {
	switch v.Kind() {
	case value.KindNull:
		return "null"
	case value.KindBool:
		if v.BoolVal() {
			return "true"
		}
		return "false"
	case value.KindInt:
		return strconv.FormatInt(v.IntVal(), 10)
	case value.KindFloat:
		return formatFloat(v.FloatVal())
	default:
		s := v.StringVal()
		if needsQuoting(s, inFlow) {
			return quoteString(s, e.opts.AllowUnicode)
		}
		return s
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case f == 0:
		return "0.0" // normalizes -0.0 as well
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// needsQuoting reports whether plain emission of s would be unsafe or
// would parse back as a different scalar type.
func needsQuoting(s string, inFlow bool) bool {
	if s == "" {
		return true
	}
	if s[0] == ' ' || s[0] == '\t' || s[len(s)-1] == ' ' || s[len(s)-1] == '\t' {
		return true
	}
	if strings.IndexByte("!&*|>%@`\"'#,[]{}", s[0]) >= 0 {
		return true
	}
	if s[0] == '-' || s[0] == ':' || s[0] == '?' {
		if len(s) == 1 || s[1] == ' ' {
			return true
		}
	}
	if strings.HasPrefix(s, "---") || strings.HasPrefix(s, "...") {
		return true
	}
	if strings.Contains(s, ": ") || strings.HasSuffix(s, ":") || strings.Contains(s, " #") {
		return true
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	if inFlow && strings.ContainsAny(s, ",[]{}") {
		return true
	}
	return composer.Resolve(s).Kind() != value.KindString
}

func quoteString(s string, allowUnicode bool) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			switch {
			case r < 0x20 || r == 0x7f:
				fmt.Fprintf(&b, `\x%02X`, r)
			case r > 0x7f && !allowUnicode && r > 0xFFFF:
				fmt.Fprintf(&b, `\U%08X`, r)
			case r > 0x7f && !allowUnicode:
				fmt.Fprintf(&b, `\u%04X`, r)
			default:
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

// sortValue returns a copy of v with every mapping's pairs sorted by
// the key total ordering.
func sortValue(v *value.Value) *value.Value {
	switch v.Kind() {
	case value.KindSequence:
		items := v.Items()
		out := make([]*value.Value, len(items))
		for i, item := range items {
			out[i] = sortValue(item)
		}
		return value.Sequence(out...)
	case value.KindMapping:
		pairs := v.Pairs()
		out := make([]value.Pair, len(pairs))
		for i, p := range pairs {
			out[i] = value.Pair{Key: sortValue(p.Key), Value: sortValue(p.Value)}
		}
		sort.SliceStable(out, func(i, j int) bool {
			return value.Compare(out[i].Key, out[j].Key) < 0
		})
		return value.Mapping(out...)
	default:
		return v
	}
}
