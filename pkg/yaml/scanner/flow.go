package scanner

import (
	"strings"

	"github.com/fastyaml/fastyaml/pkg/yaml/token"
)

// flowSkip advances over whitespace, line breaks and comments inside a
// flow collection. Document markers and end of stream are errors here:
// a flow collection must close before the document does.
func (s *Scanner) flowSkip() {
	for {
		if s.eof() {
			s.fail(s.loc(), "unexpected end of stream inside flow collection")
		}
		switch c := s.peek(); {
		case c == ' ' || c == '\t':
			s.advance()
		case c == '\n' || c == '\r':
			s.consumeBreak()
			if s.atDocStart() || s.atDocEnd() {
				s.fail(s.loc(), "document markers are not allowed inside flow collections")
			}
		case c == '#':
			s.skipLine()
		default:
			return
		}
	}
}

func (s *Scanner) scanFlowNode() {
	if s.peek() == '[' {
		s.scanFlowSequence()
	} else {
		s.scanFlowMapping()
	}
}

func (s *Scanner) scanFlowSequence() {
	start := s.loc()
	s.advance()
	s.flow++
	s.emit(token.Event{Kind: token.EventSequenceStart, Style: token.StyleFlow, Span: token.NewSpan(start, s.loc())})
	s.flowSkip()
	for s.peek() != ']' {
		s.scanFlowItem()
		s.flowSkip()
		switch s.peek() {
		case ',':
			s.advance()
			s.flowSkip()
		case ']':
		default:
			s.fail(s.loc(), "expected ',' or ']' in flow sequence")
		}
	}
	closeLoc := s.loc()
	s.advance()
	s.flow--
	s.emit(token.Event{Kind: token.EventSequenceEnd, Style: token.StyleFlow, Span: token.NewSpan(closeLoc, s.loc())})
}

// scanFlowItem scans one sequence entry, wrapping "key: value" pairs in
// a single-pair mapping.
func (s *Scanner) scanFlowItem() {
	checkpoint := len(s.queue)
	keyLoc := s.loc()
	explicit := false
	if s.peek() == '?' && s.sepAfter(1) {
		explicit = true
		s.advance()
		s.flowSkip()
	}
	if c := s.peek(); c == ':' && s.sepAfter(1) {
		s.emitScalar("", token.StylePlain, token.NewSpan(keyLoc, keyLoc))
	} else if explicit && (c == ',' || c == ']' || c == '}') {
		s.emitScalar("", token.StylePlain, token.NewSpan(keyLoc, keyLoc))
	} else {
		s.scanFlowItemNode()
	}
	s.flowSkip()
	if s.peek() == ':' && (s.sepAfter(1) || s.jsonKeyBefore()) {
		s.insertMappingStart(checkpoint, keyLoc, token.StyleFlow)
		s.advance()
		s.flowSkip()
		if c := s.peek(); c == ',' || c == ']' || c == '}' {
			s.emitScalar("", token.StylePlain, token.NewSpan(s.loc(), s.loc()))
		} else {
			s.scanFlowItemNode()
		}
		s.emit(token.Event{Kind: token.EventMappingEnd, Style: token.StyleFlow, Span: token.NewSpan(s.loc(), s.loc())})
	} else if explicit {
		s.insertMappingStart(checkpoint, keyLoc, token.StyleFlow)
		s.emitScalar("", token.StylePlain, token.NewSpan(s.loc(), s.loc()))
		s.emit(token.Event{Kind: token.EventMappingEnd, Style: token.StyleFlow, Span: token.NewSpan(s.loc(), s.loc())})
	}
}

func (s *Scanner) scanFlowMapping() {
	start := s.loc()
	s.advance()
	s.flow++
	s.emit(token.Event{Kind: token.EventMappingStart, Style: token.StyleFlow, Span: token.NewSpan(start, s.loc())})
	s.flowSkip()
	for s.peek() != '}' {
		keyLoc := s.loc()
		if s.peek() == '?' && s.sepAfter(1) {
			s.advance()
			s.flowSkip()
		}
		if c := s.peek(); c == ':' && s.sepAfter(1) {
			s.emitScalar("", token.StylePlain, token.NewSpan(keyLoc, keyLoc))
		} else if c == ',' || c == '}' {
			s.emitScalar("", token.StylePlain, token.NewSpan(keyLoc, keyLoc))
		} else {
			s.scanFlowItemNode()
		}
		s.flowSkip()
		if s.peek() == ':' && (s.sepAfter(1) || s.jsonKeyBefore()) {
			s.advance()
			s.flowSkip()
			if c := s.peek(); c == ',' || c == '}' {
				s.emitScalar("", token.StylePlain, token.NewSpan(s.loc(), s.loc()))
			} else {
				s.scanFlowItemNode()
				s.flowSkip()
			}
		} else {
			// key with no value
			s.emitScalar("", token.StylePlain, token.NewSpan(s.loc(), s.loc()))
		}
		switch s.peek() {
		case ',':
			s.advance()
			s.flowSkip()
		case '}':
		default:
			s.fail(s.loc(), "expected ',' or '}' in flow mapping")
		}
	}
	closeLoc := s.loc()
	s.advance()
	s.flow--
	s.emit(token.Event{Kind: token.EventMappingEnd, Style: token.StyleFlow, Span: token.NewSpan(closeLoc, s.loc())})
}

// jsonKeyBefore reports whether the most recent event can act as a
// JSON-style key, permitting ':' with no following space as in {"a":1}.
func (s *Scanner) jsonKeyBefore() bool {
	if len(s.queue) == 0 {
		return false
	}
	ev := s.queue[len(s.queue)-1]
	switch ev.Kind {
	case token.EventSequenceEnd, token.EventMappingEnd:
		return true
	case token.EventScalar:
		return ev.Style.Quoted()
	}
	return false
}

func (s *Scanner) scanFlowItemNode() {
	s.scanInlineProps()
	if s.atLineEnd() {
		s.flowSkip()
	}
	switch c := s.peek(); {
	case c == '*':
		s.scanAliasToken()
	case c == '[' || c == '{':
		s.scanFlowNode()
	case c == '"' || c == '\'':
		s.scanQuotedScalar()
	case c == '|' || c == '>':
		s.fail(s.loc(), "block scalars are not allowed in flow collections")
	case c == '-' && s.sepAfter(1):
		s.fail(s.loc(), "block sequence entries are not allowed in flow collections")
	case c == ',' || c == ']' || c == '}':
		s.fail(s.loc(), "expected a flow node")
	default:
		s.scanFlowPlain()
	}
}

// scanFlowPlain scans a plain scalar in flow context, folding
// continuation lines.
func (s *Scanner) scanFlowPlain() {
	text, span, _ := s.scanPlainLine()
	if text == "" {
		s.fail(span.Start, "expected a flow node")
	}
	full := text
	endLoc := span.End
	for {
		save := s.mark()
		s.skipInlineSpaces()
		if s.eof() {
			s.fail(s.loc(), "unexpected end of stream inside flow collection")
		}
		if s.peek() != '\n' && s.peek() != '\r' {
			s.restore(save)
			break
		}
		breaks := 0
		for s.peek() == '\n' || s.peek() == '\r' {
			s.consumeBreak()
			breaks++
			if s.atDocStart() || s.atDocEnd() {
				s.fail(s.loc(), "document markers are not allowed inside flow collections")
			}
			s.skipInlineSpaces()
			if s.eof() {
				s.fail(s.loc(), "unexpected end of stream inside flow collection")
			}
		}
		c := s.peek()
		if c == ',' || c == ']' || c == '}' || c == '#' {
			break
		}
		t2, sp2, _ := s.scanPlainLine()
		if t2 == "" {
			break
		}
		if breaks == 1 {
			full += " " + t2
		} else {
			full += strings.Repeat("\n", breaks-1) + t2
		}
		endLoc = sp2.End
	}
	s.emitScalar(full, token.StylePlain, token.NewSpan(span.Start, endLoc))
}
