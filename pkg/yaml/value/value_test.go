package value

import (
	"math"
	"testing"
)

func TestKindAccessors(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		kind Kind
	}{
		{"null", Null(), KindNull},
		{"bool", Bool(true), KindBool},
		{"int", Int(42), KindInt},
		{"float", Float(2.5), KindFloat},
		{"string", String("hi"), KindString},
		{"sequence", Sequence(Int(1), Int(2)), KindSequence},
		{"mapping", Mapping(Pair{Key: String("a"), Value: Int(1)}), KindMapping},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Kind(); got != tt.kind {
				t.Errorf("Kind() = %v, want %v", got, tt.kind)
			}
		})
	}
}

func TestNilValueIsNull(t *testing.T) {
	var v *Value
	if v.Kind() != KindNull {
		t.Errorf("nil value Kind() = %v, want KindNull", v.Kind())
	}
	if !v.IsNull() {
		t.Error("nil value should report IsNull")
	}
}

func TestGet(t *testing.T) {
	m := Mapping(
		Pair{Key: String("name"), Value: String("test")},
		Pair{Key: String("count"), Value: Int(3)},
	)
	if got := m.Get("name"); got == nil || got.StringVal() != "test" {
		t.Errorf("Get(name) = %v", got)
	}
	if got := m.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
	if got := Int(1).Get("x"); got != nil {
		t.Errorf("Get on scalar = %v, want nil", got)
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *Value
		want bool
	}{
		{"nulls", Null(), Null(), true},
		{"bools", Bool(true), Bool(true), true},
		{"bool mismatch", Bool(true), Bool(false), false},
		{"ints", Int(5), Int(5), true},
		{"int vs float", Int(5), Float(5), false},
		{"nan equals nan", Float(math.NaN()), Float(math.NaN()), true},
		{"strings", String("a"), String("a"), true},
		{
			"sequences",
			Sequence(Int(1), Int(2)),
			Sequence(Int(1), Int(2)),
			true,
		},
		{
			"sequence length mismatch",
			Sequence(Int(1)),
			Sequence(Int(1), Int(2)),
			false,
		},
		{
			"mappings",
			Mapping(Pair{Key: String("a"), Value: Int(1)}),
			Mapping(Pair{Key: String("a"), Value: Int(1)}),
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompareOrdersKeys(t *testing.T) {
	if Compare(String("a"), String("m")) >= 0 {
		t.Error("a should sort before m")
	}
	if Compare(String("m"), String("z")) >= 0 {
		t.Error("m should sort before z")
	}
	if Compare(Null(), String("a")) >= 0 {
		t.Error("null should sort before strings")
	}
	if Compare(Int(2), Int(10)) >= 0 {
		t.Error("2 should sort before 10")
	}
}

func TestCompareNaNSortsLast(t *testing.T) {
	if Compare(Float(math.Inf(1)), Float(math.NaN())) >= 0 {
		t.Error("+inf should sort before nan")
	}
	if Compare(Float(math.NaN()), Float(math.NaN())) != 0 {
		t.Error("nan should compare equal to nan")
	}
}
