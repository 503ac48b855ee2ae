package value

import (
	"math"
	"strings"
)

// Equal reports structural equality between two value graphs.
//
// NaN floats compare equal to each other, so round-tripped graphs that
// contain .nan still compare equal. Int and Float are distinct kinds:
// Int(1) is not equal to Float(1.0).
func Equal(a, b *Value) bool {
	ka, kb := a.Kind(), b.Kind()
	if ka != kb {
		return false
	}
	switch ka {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		if math.IsNaN(a.f) && math.IsNaN(b.f) {
			return true
		}
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindSequence:
		if len(a.seq) != len(b.seq) {
			return false
		}
		for i := range a.seq {
			if !Equal(a.seq[i], b.seq[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(a.pairs) != len(b.pairs) {
			return false
		}
		for i := range a.pairs {
			if !Equal(a.pairs[i].Key, b.pairs[i].Key) || !Equal(a.pairs[i].Value, b.pairs[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// Compare defines a stable total order over values, used by the emitter
// for sorted key output: Null < Bool < Int < Float < String < Sequence
// < Mapping, then by payload within a kind. NaN sorts after all other
// floats and equal to itself, keeping the order total.
func Compare(a, b *Value) int {
	ka, kb := a.Kind(), b.Kind()
	if ka != kb {
		return int(ka) - int(kb)
	}
	switch ka {
	case KindNull:
		return 0
	case KindBool:
		return boolCompare(a.b, b.b)
	case KindInt:
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		}
		return 0
	case KindFloat:
		return floatCompare(a.f, b.f)
	case KindString:
		return strings.Compare(a.s, b.s)
	case KindSequence:
		for i := 0; i < len(a.seq) && i < len(b.seq); i++ {
			if c := Compare(a.seq[i], b.seq[i]); c != 0 {
				return c
			}
		}
		return len(a.seq) - len(b.seq)
	case KindMapping:
		for i := 0; i < len(a.pairs) && i < len(b.pairs); i++ {
			if c := Compare(a.pairs[i].Key, b.pairs[i].Key); c != 0 {
				return c
			}
			if c := Compare(a.pairs[i].Value, b.pairs[i].Value); c != 0 {
				return c
			}
		}
		return len(a.pairs) - len(b.pairs)
	}
	return 0
}

func boolCompare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func floatCompare(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	switch {
	case an && bn:
		return 0
	case an:
		return 1
	case bn:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
