package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fastyaml/fastyaml/pkg/yaml"
	"github.com/fastyaml/fastyaml/pkg/yaml/emitter"
	"github.com/fastyaml/fastyaml/pkg/yaml/value"
)

var convertFlags struct {
	to     string
	pretty bool
}

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert between YAML and JSON",
	Long: `Convert a document between YAML and JSON, preserving mapping key
order in both directions. The input format is detected from --to: "json"
reads YAML and writes JSON, "yaml" reads JSON and writes YAML.

JSON cannot represent .inf or .nan; converting such floats is an error.

Examples:
  # YAML to compact JSON
  fy convert --to json config.yaml

  # YAML to pretty JSON
  fy convert --to json --pretty config.yaml

  # JSON back to YAML
  fy convert --to yaml config.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVar(&convertFlags.to, "to", "json", "target format: json or yaml")
	convertCmd.Flags().BoolVar(&convertFlags.pretty, "pretty", false, "indent JSON output")
}

func runConvert(cmd *cobra.Command, args []string) error {
	src, name, err := readInput(args)
	if err != nil {
		return err
	}

	switch convertFlags.to {
	case "json":
		doc, err := yaml.Parse(src)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		var sb strings.Builder
		if err := writeJSON(&sb, doc, convertFlags.pretty, 0); err != nil {
			return err
		}
		sb.WriteByte('\n')
		return writeOutput(sb.String())
	case "yaml":
		dec := json.NewDecoder(bytes.NewReader(src))
		dec.UseNumber()
		doc, err := decodeJSON(dec)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		out, err := yaml.Serialize(doc, emitter.Options{})
		if err != nil {
			return err
		}
		return writeOutput(out)
	default:
		return fmt.Errorf("unknown target format %q (want json or yaml)", convertFlags.to)
	}
}

// writeJSON renders a Value as JSON, keeping mapping key order. The
// standard library marshals Go maps alphabetically, so objects are
// written by hand.
func writeJSON(sb *strings.Builder, v *value.Value, pretty bool, depth int) error {
	nl := func(d int) {
		if pretty {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat("  ", d))
		}
	}
	switch v.Kind() {
	case value.KindNull:
		sb.WriteString("null")
	case value.KindBool:
		if v.BoolVal() {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case value.KindInt:
		fmt.Fprintf(sb, "%d", v.IntVal())
	case value.KindFloat:
		f := v.FloatVal()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return fmt.Errorf("cannot represent %v in JSON", f)
		}
		b, err := json.Marshal(f)
		if err != nil {
			return err
		}
		sb.Write(b)
	case value.KindString:
		b, err := json.Marshal(v.StringVal())
		if err != nil {
			return err
		}
		sb.Write(b)
	case value.KindSequence:
		items := v.Items()
		if len(items) == 0 {
			sb.WriteString("[]")
			return nil
		}
		sb.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				sb.WriteByte(',')
			}
			nl(depth + 1)
			if err := writeJSON(sb, item, pretty, depth+1); err != nil {
				return err
			}
		}
		nl(depth)
		sb.WriteByte(']')
	case value.KindMapping:
		pairs := v.Pairs()
		if len(pairs) == 0 {
			sb.WriteString("{}")
			return nil
		}
		sb.WriteByte('{')
		for i, p := range pairs {
			if i > 0 {
				sb.WriteByte(',')
			}
			nl(depth + 1)
			key, err := jsonKey(p.Key)
			if err != nil {
				return err
			}
			sb.WriteString(key)
			sb.WriteByte(':')
			if pretty {
				sb.WriteByte(' ')
			}
			if err := writeJSON(sb, p.Value, pretty, depth+1); err != nil {
				return err
			}
		}
		nl(depth)
		sb.WriteByte('}')
	}
	return nil
}

// jsonKey stringifies a mapping key: JSON object keys are always
// strings, so scalar keys are rendered to their text form.
func jsonKey(key *value.Value) (string, error) {
	switch key.Kind() {
	case value.KindString:
		b, err := json.Marshal(key.StringVal())
		return string(b), err
	case value.KindNull:
		return `"null"`, nil
	case value.KindBool, value.KindInt, value.KindFloat:
		b, err := json.Marshal(key.String())
		return string(b), err
	default:
		return "", fmt.Errorf("cannot use a %v as a JSON object key", key.Kind())
	}
}

// decodeJSON reads one JSON value into a Value graph, preserving object
// key order by walking the token stream directly.
func decodeJSON(dec *json.Decoder) (*value.Value, error) {
	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(dec, t)
}

func decodeJSONToken(dec *json.Decoder, t json.Token) (*value.Value, error) {
	switch tok := t.(type) {
	case json.Delim:
		switch tok {
		case '[':
			var items []*value.Value
			for dec.More() {
				item, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil { // ']'
				return nil, err
			}
			return value.Sequence(items...), nil
		case '{':
			var pairs []value.Pair
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				val, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				pairs = append(pairs, value.Pair{Key: value.String(key), Value: val})
			}
			if _, err := dec.Token(); err != nil { // '}'
				return nil, err
			}
			return value.Mapping(pairs...), nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", tok)
	case string:
		return value.String(tok), nil
	case json.Number:
		if i, err := tok.Int64(); err == nil {
			return value.Int(i), nil
		}
		f, err := tok.Float64()
		if err != nil {
			return nil, err
		}
		return value.Float(f), nil
	case bool:
		return value.Bool(tok), nil
	case nil:
		return value.Null(), nil
	}
	return nil, fmt.Errorf("unexpected JSON token %v", t)
}
