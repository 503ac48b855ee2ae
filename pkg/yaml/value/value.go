// Package value defines the generic YAML value graph produced by the
// composer and consumed by the emitter.
//
// A Value is a tagged variant over the YAML Core Schema kinds: null,
// boolean, integer, float, string, sequence, and mapping. Values are
// immutable once constructed; the engine never mutates a graph after
// returning it to the caller, and aliases inside one document may share
// subtrees freely because of that.
package value

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies the variant stored in a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Pair is one mapping entry. Keys within a mapping are unique under
// structural equality; the composer enforces this at construction time.
type Pair struct {
	Key   *Value
	Value *Value
}

// Value is an immutable node in a YAML value graph.
type Value struct {
	kind  Kind
	b     bool
	i     int64
	f     float64
	s     string
	seq   []*Value
	pairs []Pair
}

// Null returns the null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool returns a boolean value.
func Bool(b bool) *Value {
	return &Value{kind: KindBool, b: b}
}

// Int returns an integer value.
func Int(i int64) *Value {
	return &Value{kind: KindInt, i: i}
}

// Float returns a float value. Non-finite floats are representable.
func Float(f float64) *Value {
	return &Value{kind: KindFloat, f: f}
}

// String returns a string value.
func String(s string) *Value {
	return &Value{kind: KindString, s: s}
}

// Sequence returns a sequence value over the given items.
func Sequence(items ...*Value) *Value {
	return &Value{kind: KindSequence, seq: items}
}

// Mapping returns a mapping value over the given pairs. The caller is
// responsible for key uniqueness; the composer checks it before calling.
func Mapping(pairs ...Pair) *Value {
	return &Value{kind: KindMapping, pairs: pairs}
}

// Kind returns the variant stored in v. A nil Value is the null value.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is the null value.
func (v *Value) IsNull() bool {
	return v.Kind() == KindNull
}

// BoolVal returns the boolean payload. Valid only for KindBool.
func (v *Value) BoolVal() bool {
	return v.b
}

// IntVal returns the integer payload. Valid only for KindInt.
func (v *Value) IntVal() int64 {
	return v.i
}

// FloatVal returns the float payload. Valid only for KindFloat.
func (v *Value) FloatVal() float64 {
	return v.f
}

// StringVal returns the string payload. Valid only for KindString.
func (v *Value) StringVal() string {
	return v.s
}

// Items returns the sequence elements. Valid only for KindSequence.
// The returned slice must not be modified.
func (v *Value) Items() []*Value {
	return v.seq
}

// Pairs returns the mapping entries in document order. Valid only for
// KindMapping. The returned slice must not be modified.
func (v *Value) Pairs() []Pair {
	return v.pairs
}

// Len returns the number of elements for sequences and mappings, and 0
// for scalars.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.pairs)
	default:
		return 0
	}
}

// Get looks up a string key in a mapping. It returns nil when v is not a
// mapping or the key is absent.
func (v *Value) Get(key string) *Value {
	if v.Kind() != KindMapping {
		return nil
	}
	for _, p := range v.pairs {
		if p.Key.Kind() == KindString && p.Key.s == key {
			return p.Value
		}
	}
	return nil
}

// String renders a compact debugging representation. It is not YAML; use
// the emitter for serialization.
func (v *Value) String() string {
	var sb strings.Builder
	v.debugString(&sb)
	return sb.String()
}

func (v *Value) debugString(sb *strings.Builder) {
	switch v.Kind() {
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		sb.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		switch {
		case math.IsInf(v.f, 1):
			sb.WriteString(".inf")
		case math.IsInf(v.f, -1):
			sb.WriteString("-.inf")
		case math.IsNaN(v.f):
			sb.WriteString(".nan")
		default:
			sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
		}
	case KindString:
		sb.WriteString(strconv.Quote(v.s))
	case KindSequence:
		sb.WriteByte('[')
		for i, item := range v.seq {
			if i > 0 {
				sb.WriteString(", ")
			}
			item.debugString(sb)
		}
		sb.WriteByte(']')
	case KindMapping:
		sb.WriteByte('{')
		for i, p := range v.pairs {
			if i > 0 {
				sb.WriteString(", ")
			}
			p.Key.debugString(sb)
			sb.WriteString(": ")
			p.Value.debugString(sb)
		}
		sb.WriteByte('}')
	}
}
