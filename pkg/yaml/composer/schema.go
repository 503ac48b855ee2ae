package composer

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fastyaml/fastyaml/pkg/yaml/token"
	"github.com/fastyaml/fastyaml/pkg/yaml/value"
)

var floatPattern = regexp.MustCompile(`^[-+]?(\.[0-9]+|[0-9]+(\.[0-9]*)?)([eE][-+]?[0-9]+)?$`)

// resolveScalar converts a scalar event into a typed Value. Only plain
// scalars are resolved against the Core Schema; any quoting or block
// style yields a string. An explicit tag overrides both.
func resolveScalar(ev token.Event) *value.Value {
	if ev.Tag != "" {
		return applyTag(ev.Tag, ev.Value)
	}
	if ev.Style != token.StylePlain {
		return value.String(ev.Value)
	}
	return Resolve(ev.Value)
}

// Resolve applies the YAML 1.2 Core Schema to plain scalar text. Only
// the lowercase forms of null, true and false resolve; "True", "yes"
// and "on" remain strings.
func Resolve(text string) *value.Value {
	switch text {
	case "", "null", "~":
		return value.Null()
	case "true":
		return value.Bool(true)
	case "false":
		return value.Bool(false)
	}
	if v, ok := resolveInt(text); ok {
		return v
	}
	if v, ok := resolveFloat(text); ok {
		return v
	}
	return value.String(text)
}

// resolveInt recognizes decimal (optionally signed), 0o octal and 0x
// hexadecimal integers. Values outside the int64 range resolve as
// floats rather than failing.
func resolveInt(text string) (*value.Value, bool) {
	digits, base := text, 10
	switch {
	case strings.HasPrefix(text, "0x"):
		digits, base = text[2:], 16
	case strings.HasPrefix(text, "0o"):
		digits, base = text[2:], 8
	}
	if digits == "" {
		return nil, false
	}
	if base != 10 && (digits[0] == '+' || digits[0] == '-') {
		return nil, false // signs are only part of the decimal form
	}
	i, err := strconv.ParseInt(digits, base, 64)
	if err == nil {
		return value.Int(i), true
	}
	if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
		if u, uerr := strconv.ParseUint(digits, base, 64); uerr == nil {
			return value.Float(float64(u)), true
		}
		if base == 10 {
			if f, ferr := strconv.ParseFloat(text, 64); ferr == nil {
				return value.Float(f), true
			}
		}
	}
	return nil, false
}

func resolveFloat(text string) (*value.Value, bool) {
	switch text {
	case ".inf", ".Inf", ".INF", "+.inf", "+.Inf", "+.INF":
		return value.Float(math.Inf(1)), true
	case "-.inf", "-.Inf", "-.INF":
		return value.Float(math.Inf(-1)), true
	case ".nan", ".NaN", ".NAN":
		return value.Float(math.NaN()), true
	}
	if !floatPattern.MatchString(text) {
		return nil, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, false
	}
	return value.Float(f), true
}

// applyTag forces a scalar's type from an explicit tag. Unknown tags
// and values that do not fit the tagged type fall back to strings.
func applyTag(tag, text string) *value.Value {
	switch normalizeTag(tag) {
	case "null":
		return value.Null()
	case "bool":
		switch text {
		case "true":
			return value.Bool(true)
		case "false":
			return value.Bool(false)
		}
	case "int":
		if v, ok := resolveInt(text); ok {
			return v
		}
	case "float":
		if v, ok := resolveFloat(text); ok {
			return v
		}
		if v, ok := resolveInt(text); ok && v.Kind() == value.KindInt {
			return value.Float(float64(v.IntVal()))
		}
	case "str":
		return value.String(text)
	}
	return value.String(text)
}

// normalizeTag reduces the scanned tag text to its local suffix:
// "!!int", "!<tag:yaml.org,2002:int>" and the full URI form all map to
// "int".
func normalizeTag(tag string) string {
	switch {
	case strings.HasPrefix(tag, "!!"):
		return tag[2:]
	case strings.HasPrefix(tag, "!<") && strings.HasSuffix(tag, ">"):
		tag = tag[2 : len(tag)-1]
	case strings.HasPrefix(tag, "!"):
		return tag[1:]
	}
	return strings.TrimPrefix(tag, "tag:yaml.org,2002:")
}
