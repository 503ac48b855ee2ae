package emitter

import (
	"math"
	"strings"
	"testing"

	"github.com/fastyaml/fastyaml/pkg/yaml/value"
)

func emit(t *testing.T, v *value.Value, opts Options) string {
	t.Helper()
	out, err := Emit(v, opts)
	if err != nil {
		t.Fatalf("Emit failed: %v", err)
	}
	return out
}

func pair(k string, v *value.Value) value.Pair {
	return value.Pair{Key: value.String(k), Value: v}
}

func TestEmitScalars(t *testing.T) {
	tests := []struct {
		name string
		v    *value.Value
		want string
	}{
		{"null", value.Null(), "null\n"},
		{"true", value.Bool(true), "true\n"},
		{"int", value.Int(42), "42\n"},
		{"negative int", value.Int(-7), "-7\n"},
		{"float keeps point", value.Float(1), "1.0\n"},
		{"float", value.Float(2.5), "2.5\n"},
		{"negative zero normalizes", value.Float(math.Copysign(0, -1)), "0.0\n"},
		{"positive infinity", value.Float(math.Inf(1)), ".inf\n"},
		{"negative infinity", value.Float(math.Inf(-1)), "-.inf\n"},
		{"nan", value.Float(math.NaN()), ".nan\n"},
		{"plain string", value.String("hello"), "hello\n"},
		{"empty string quotes", value.String(""), "\"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := emit(t, tt.v, Options{}); got != tt.want {
				t.Errorf("Emit = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmitQuotesAmbiguousStrings(t *testing.T) {
	// strings that would resolve to another type must be quoted
	for _, s := range []string{"true", "false", "null", "~", "42", "-7", "1.5", "0xFF", "0o14", ".inf", ".nan"} {
		got := emit(t, value.String(s), Options{})
		if !strings.HasPrefix(got, "\"") {
			t.Errorf("Emit(%q) = %q, expected quoting", s, got)
		}
	}
	// strings the Core Schema leaves alone stay plain
	for _, s := range []string{"True", "yes", "on", "hello", "a-b", "v1.2.3"} {
		got := emit(t, value.String(s), Options{})
		if strings.HasPrefix(got, "\"") {
			t.Errorf("Emit(%q) = %q, expected plain", s, got)
		}
	}
}

func TestEmitQuotesUnsafeStrings(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"has: colon", "\"has: colon\"\n"},
		{"trailing ", "\"trailing \"\n"},
		{"line\nbreak", "\"line\\nbreak\"\n"},
		{"#comment", "\"#comment\"\n"},
		{"- dash", "\"- dash\"\n"},
	}
	for _, tt := range tests {
		if got := emit(t, value.String(tt.in), Options{}); got != tt.want {
			t.Errorf("Emit(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEmitBlockMapping(t *testing.T) {
	v := value.Mapping(
		pair("name", value.String("test")),
		pair("count", value.Int(3)),
	)
	want := "name: test\ncount: 3\n"
	if got := emit(t, v, Options{}); got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}

func TestEmitNestedBlock(t *testing.T) {
	v := value.Mapping(
		pair("outer", value.Mapping(pair("inner", value.Int(1)))),
		pair("items", value.Sequence(value.Int(1), value.Int(2))),
	)
	want := "outer:\n  inner: 1\nitems:\n  - 1\n  - 2\n"
	if got := emit(t, v, Options{}); got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}

func TestEmitIndentOption(t *testing.T) {
	v := value.Mapping(pair("a", value.Mapping(pair("b", value.Int(1)))))
	want := "a:\n    b: 1\n"
	if got := emit(t, v, Options{Indent: 4}); got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}

func TestEmitSequenceOfMappings(t *testing.T) {
	v := value.Sequence(
		value.Mapping(pair("a", value.Int(1)), pair("b", value.Int(2))),
	)
	want := "- a: 1\n  b: 2\n"
	if got := emit(t, v, Options{}); got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}

func TestEmitEmptyCollections(t *testing.T) {
	if got := emit(t, value.Sequence(), Options{}); got != "[]\n" {
		t.Errorf("empty sequence = %q", got)
	}
	if got := emit(t, value.Mapping(), Options{}); got != "{}\n" {
		t.Errorf("empty mapping = %q", got)
	}
	v := value.Mapping(pair("a", value.Sequence()))
	if got := emit(t, v, Options{}); got != "a: []\n" {
		t.Errorf("nested empty = %q", got)
	}
}

func TestEmitFlowStyle(t *testing.T) {
	v := value.Mapping(
		pair("a", value.Int(1)),
		pair("b", value.Sequence(value.Int(1), value.Int(2))),
	)
	want := "{a: 1, b: [1, 2]}\n"
	if got := emit(t, v, Options{DefaultFlowStyle: true}); got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}

func TestEmitSortKeys(t *testing.T) {
	v := value.Mapping(
		pair("m", value.Int(2)),
		pair("z", value.Int(3)),
		pair("a", value.Int(1)),
	)
	want := "a: 1\nm: 2\nz: 3\n"
	if got := emit(t, v, Options{SortKeys: true}); got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}

func TestEmitSortKeysRecursive(t *testing.T) {
	v := value.Mapping(
		pair("outer", value.Mapping(pair("b", value.Int(2)), pair("a", value.Int(1)))),
	)
	want := "outer:\n  a: 1\n  b: 2\n"
	if got := emit(t, v, Options{SortKeys: true}); got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}

func TestEmitExplicitStart(t *testing.T) {
	v := value.Mapping(pair("a", value.Int(1)))
	want := "---\na: 1\n"
	if got := emit(t, v, Options{ExplicitStart: true}); got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
	if got := emit(t, value.Int(5), Options{ExplicitStart: true}); got != "--- 5\n" {
		t.Errorf("scalar doc = %q, want %q", got, "--- 5\n")
	}
}

func TestEmitAll(t *testing.T) {
	docs := []*value.Value{
		value.Mapping(pair("a", value.Int(1))),
		value.Null(),
		value.String("third"),
	}
	out, err := EmitAll(docs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	want := "---\na: 1\n--- null\n--- third\n"
	if out != want {
		t.Errorf("EmitAll = %q, want %q", out, want)
	}
}

func TestEmitNonStringKey(t *testing.T) {
	v := value.Mapping(value.Pair{Key: value.Int(1), Value: value.String("one")})
	want := "1: one\n"
	if got := emit(t, v, Options{}); got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}

func TestEmitUnicodeEscaping(t *testing.T) {
	// unicode forced into quotes only when escaping applies
	got := emit(t, value.String("caf\u00e9\n"), Options{})
	if !strings.Contains(got, `\u00E9`) {
		t.Errorf("Emit = %q, want \\u00E9 escape", got)
	}
	got = emit(t, value.String("caf\u00e9\n"), Options{AllowUnicode: true})
	if !strings.Contains(got, "café") {
		t.Errorf("Emit with AllowUnicode = %q, want literal é", got)
	}
}

func TestEmitOptionClamping(t *testing.T) {
	v := value.Mapping(pair("a", value.Mapping(pair("b", value.Int(1)))))
	// indent above 9 clamps to 9
	got := emit(t, v, Options{Indent: 50})
	want := "a:\n" + strings.Repeat(" ", 9) + "b: 1\n"
	if got != want {
		t.Errorf("Emit = %q, want %q", got, want)
	}
}
