// Package composer turns the scanner's event stream into immutable
// Value graphs, resolving plain scalars against the YAML 1.2 Core
// Schema and enforcing document semantics.
//
// # Semantics
//
// Anchors are scoped to a single document and must be defined before
// any alias that refers to them; a forward reference is an unresolved
// alias. Redefining an anchor inside one document is an error.
// Duplicate mapping keys, compared structurally, are also errors.
//
// # Tolerant mode
//
// A Composer built with NewTolerant reports semantic errors to a sink
// and keeps composing, substituting null for unresolvable nodes. This
// is what the lint pipeline uses to gather every problem in a document
// instead of stopping at the first.
package composer

import (
	"fmt"
	"io"

	yamlerrors "github.com/fastyaml/fastyaml/pkg/yaml/errors"
	"github.com/fastyaml/fastyaml/pkg/yaml/token"
	"github.com/fastyaml/fastyaml/pkg/yaml/value"
)

// EventSource supplies parse events, typically a *scanner.Scanner. Next
// returns io.EOF when the stream is exhausted.
type EventSource interface {
	Next() (token.Event, error)
}

// Document is one composed document from a stream.
type Document struct {
	Root *value.Value
	Span token.Span
}

// Composer builds Value graphs from an event stream.
type Composer struct {
	src     EventSource
	sink    func(error)
	anchors map[string]*value.Value
	spans   map[string]token.Span
}

// New returns a strict Composer: the first semantic error aborts the
// current document.
func New(src EventSource) *Composer {
	return &Composer{src: src}
}

// NewTolerant returns a Composer that reports semantic errors to sink
// and keeps going.
func NewTolerant(src EventSource, sink func(error)) *Composer {
	return &Composer{src: src, sink: sink}
}

// NextDocument composes the next document in the stream. It returns
// io.EOF after the last document.
func (c *Composer) NextDocument() (*Document, error) {
	for {
		ev, err := c.src.Next()
		if err != nil {
			return nil, err
		}
		switch ev.Kind {
		case token.EventStreamStart:
			continue
		case token.EventStreamEnd:
			return nil, io.EOF
		case token.EventDocumentStart:
			return c.composeDocument(ev)
		default:
			return nil, fmt.Errorf("yaml: unexpected %v event at document level", ev.Kind)
		}
	}
}

func (c *Composer) composeDocument(start token.Event) (*Document, error) {
	c.anchors = make(map[string]*value.Value)
	c.spans = make(map[string]token.Span)

	ev, err := c.src.Next()
	if err != nil {
		return nil, err
	}
	if ev.Kind == token.EventDocumentEnd {
		return &Document{Root: value.Null(), Span: token.NewSpan(start.Span.Start, ev.Span.End)}, nil
	}
	root, _, err := c.composeNode(ev)
	if err != nil {
		return nil, err
	}
	end, err := c.src.Next()
	if err != nil {
		return nil, err
	}
	if end.Kind != token.EventDocumentEnd {
		return nil, fmt.Errorf("yaml: unexpected %v event after document root", end.Kind)
	}
	return &Document{Root: root, Span: token.NewSpan(start.Span.Start, end.Span.End)}, nil
}

// report forwards a semantic error to the sink in tolerant mode, or
// returns it in strict mode.
func (c *Composer) report(err error) error {
	if c.sink != nil {
		c.sink(err)
		return nil
	}
	return err
}

func (c *Composer) composeNode(ev token.Event) (*value.Value, token.Span, error) {
	switch ev.Kind {
	case token.EventAnchor:
		return c.composeAnchored(ev)
	case token.EventAlias:
		v, ok := c.anchors[ev.Name]
		if !ok {
			serr := &yamlerrors.SemanticError{
				Kind:    yamlerrors.KindUnresolvedAlias,
				Message: fmt.Sprintf("alias %q refers to an undefined anchor", ev.Name),
				Span:    ev.Span,
			}
			if err := c.report(serr); err != nil {
				return nil, ev.Span, err
			}
			return value.Null(), ev.Span, nil
		}
		return v, ev.Span, nil
	case token.EventScalar:
		return resolveScalar(ev), ev.Span, nil
	case token.EventSequenceStart:
		return c.composeSequence(ev)
	case token.EventMappingStart:
		return c.composeMapping(ev)
	default:
		return nil, ev.Span, fmt.Errorf("yaml: unexpected %v event inside document", ev.Kind)
	}
}

// composeAnchored composes the node following an anchor property and
// registers the result. Registration happens after composition, so an
// alias inside the anchored node itself cannot resolve.
func (c *Composer) composeAnchored(anchor token.Event) (*value.Value, token.Span, error) {
	inner, err := c.src.Next()
	if err != nil {
		return nil, anchor.Span, err
	}
	v, span, err := c.composeNode(inner)
	if err != nil {
		return nil, span, err
	}
	if first, dup := c.spans[anchor.Name]; dup {
		serr := &yamlerrors.SemanticError{
			Kind:    yamlerrors.KindAnchorRedefinition,
			Message: fmt.Sprintf("anchor %q is defined more than once in this document", anchor.Name),
			Span:    anchor.Span,
			Notes:   []yamlerrors.Note{{Message: "first defined here", Span: first}},
		}
		if err := c.report(serr); err != nil {
			return nil, anchor.Span, err
		}
	}
	c.anchors[anchor.Name] = v
	c.spans[anchor.Name] = anchor.Span
	return v, span, nil
}

func (c *Composer) composeSequence(start token.Event) (*value.Value, token.Span, error) {
	var items []*value.Value
	for {
		ev, err := c.src.Next()
		if err != nil {
			return nil, start.Span, err
		}
		if ev.Kind == token.EventSequenceEnd {
			return value.Sequence(items...), token.NewSpan(start.Span.Start, ev.Span.End), nil
		}
		item, _, err := c.composeNode(ev)
		if err != nil {
			return nil, start.Span, err
		}
		items = append(items, item)
	}
}

func (c *Composer) composeMapping(start token.Event) (*value.Value, token.Span, error) {
	var pairs []value.Pair
	var keySpans []token.Span
	for {
		ev, err := c.src.Next()
		if err != nil {
			return nil, start.Span, err
		}
		if ev.Kind == token.EventMappingEnd {
			return value.Mapping(pairs...), token.NewSpan(start.Span.Start, ev.Span.End), nil
		}
		key, keySpan, err := c.composeNode(ev)
		if err != nil {
			return nil, start.Span, err
		}
		valEv, err := c.src.Next()
		if err != nil {
			return nil, start.Span, err
		}
		val, _, err := c.composeNode(valEv)
		if err != nil {
			return nil, start.Span, err
		}
		if i := findKey(pairs, key); i >= 0 {
			serr := &yamlerrors.SemanticError{
				Kind:    yamlerrors.KindDuplicateKey,
				Message: fmt.Sprintf("duplicate mapping key %s", key),
				Span:    keySpan,
				Notes:   []yamlerrors.Note{{Message: "first occurrence", Span: keySpans[i]}},
			}
			if err := c.report(serr); err != nil {
				return nil, keySpan, err
			}
			continue // keep the first occurrence
		}
		pairs = append(pairs, value.Pair{Key: key, Value: val})
		keySpans = append(keySpans, keySpan)
	}
}

func findKey(pairs []value.Pair, key *value.Value) int {
	for i := range pairs {
		if value.Equal(pairs[i].Key, key) {
			return i
		}
	}
	return -1
}
