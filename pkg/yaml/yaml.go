// Package yaml is the public face of the document engine. It ties the
// scanner, composer, emitter, lint engine and parallel dispatcher
// together behind a handful of entry points:
//
//   - Parse / ParseAll for reading documents,
//   - Serialize / SerializeAll for writing them,
//   - Lint / FormatDiagnostics for tolerant analysis,
//   - SplitAndParse for concurrent multi-document parsing.
//
// # Values
//
// Parsing produces immutable *value.Value graphs typed by the YAML 1.2
// Core Schema: only lowercase null/true/false resolve, integers accept
// 0o and 0x prefixes, and floats include .inf and .nan forms. "True",
// "yes" and "on" are strings.
//
// # Errors
//
// Strict parsing fails fast with a *errors.SyntaxError or
// *errors.SemanticError carrying source positions. Lint never fails:
// it reports the same problems as diagnostics and keeps going.
package yaml

import (
	"fmt"
	"io"

	"github.com/fastyaml/fastyaml/pkg/yaml/composer"
	"github.com/fastyaml/fastyaml/pkg/yaml/emitter"
	"github.com/fastyaml/fastyaml/pkg/yaml/lint"
	"github.com/fastyaml/fastyaml/pkg/yaml/parallel"
	"github.com/fastyaml/fastyaml/pkg/yaml/scanner"
	"github.com/fastyaml/fastyaml/pkg/yaml/token"
	"github.com/fastyaml/fastyaml/pkg/yaml/value"
)

// Parse reads a single YAML document. Empty input and a bare "---" both
// yield the null document. Input containing more than one document is
// an error; use ParseAll for streams.
func Parse(src []byte) (*value.Value, error) {
	docs := ParseAll(src)
	first, err := docs.Next()
	if err == io.EOF {
		return value.Null(), nil
	}
	if err != nil {
		return nil, err
	}
	if _, err := docs.Next(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("yaml: expected a single document but the input contains several")
	}
	return first, nil
}

// Documents iterates over the documents of a stream lazily. It is not
// restartable; call ParseAll again for a fresh pass.
type Documents struct {
	c *composer.Composer
}

// ParseAll returns an iterator over every document in src, in order.
func ParseAll(src []byte) *Documents {
	sc := scanner.NewWithOrigin(src, token.Location{Line: 1, Column: 1})
	return &Documents{c: composer.New(sc)}
}

// Next returns the next document root, or io.EOF after the last one.
func (d *Documents) Next() (*value.Value, error) {
	doc, err := d.c.NextDocument()
	if err != nil {
		return nil, err
	}
	return doc.Root, nil
}

// NextDocument returns the next document with its source span.
func (d *Documents) NextDocument() (*composer.Document, error) {
	return d.c.NextDocument()
}

// ParseAllSlice collects every document root into a slice.
func ParseAllSlice(src []byte) ([]*value.Value, error) {
	var out []*value.Value
	docs := ParseAll(src)
	for {
		v, err := docs.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// Serialize renders a single document.
func Serialize(v *value.Value, opts emitter.Options) (string, error) {
	return emitter.Emit(v, opts)
}

// SerializeAll renders a document stream, "---" separated.
func SerializeAll(vs []*value.Value, opts emitter.Options) (string, error) {
	return emitter.EmitAll(vs, opts)
}

// Lint analyzes src tolerantly and returns sorted diagnostics.
func Lint(src []byte, cfg lint.Config) []lint.Diagnostic {
	return lint.Lint(src, cfg)
}

// FormatDiagnostics renders lint results as text or JSON.
func FormatDiagnostics(diags []lint.Diagnostic, src []byte, format lint.Format, useColors bool) (string, error) {
	return lint.Render(diags, src, format, useColors)
}

// SplitAndParse parses a multi-document stream on a worker pool and
// returns the roots in document order.
func SplitAndParse(src []byte, cfg parallel.Config) ([]*value.Value, error) {
	return parallel.SplitAndParse(src, cfg)
}
