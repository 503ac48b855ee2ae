package scanner

import "github.com/fastyaml/fastyaml/pkg/yaml/token"

// blockCtx describes where a block node appears, which constrains what
// may start on the same line.
type blockCtx uint8

const (
	ctxBlockOut  blockCtx = iota // node begins its own line
	ctxAfterKey                  // node on the same line as "key:"
	ctxAfterDash                 // node on the same line as "- "
)

// scanBlockNode scans one node starting at the current token position.
// parentIndent is the indentation of the enclosing construct; nested
// content must be indented past it.
func (s *Scanner) scanBlockNode(parentIndent int, ctx blockCtx) {
	checkpoint := len(s.queue)
	nodeIndent := s.col - 1
	startLine := s.line

	s.scanInlineProps()
	if s.line == startLine && s.atLineEnd() {
		// Properties with no content on this line: the node continues on
		// a following, deeper-indented line, or is an empty scalar.
		endLoc := s.loc()
		s.skipToToken()
		if s.eof() || s.atDocStart() || s.atDocEnd() || s.col-1 <= parentIndent {
			s.emitScalar("", token.StylePlain, token.NewSpan(endLoc, endLoc))
			return
		}
		ctx = ctxBlockOut
		nodeIndent = s.col - 1
		// the properties now belong to the whole collection starting on
		// this line, so an implicit MappingStart is inserted after them
		checkpoint = len(s.queue)
	}

	c := s.peek()
	switch {
	case c == '*':
		s.scanAliasToken()
		s.checkImplicitKey(checkpoint, nodeIndent, ctx)
	case c == '[' || c == '{':
		s.scanFlowNode()
		s.checkImplicitKey(checkpoint, nodeIndent, ctx)
	case c == '|' || c == '>':
		s.scanBlockScalar(parentIndent)
	case c == '"' || c == '\'':
		s.scanQuotedScalar()
		s.checkImplicitKey(checkpoint, nodeIndent, ctx)
	case c == '-' && s.sepAfter(1):
		if ctx == ctxAfterKey {
			s.fail(s.loc(), "block sequence entries are not allowed on the same line as a mapping key")
		}
		s.scanBlockSequence(nodeIndent)
	case c == '?' && s.sepAfter(1):
		if ctx == ctxAfterKey {
			s.fail(s.loc(), "explicit mapping keys are not allowed in this context")
		}
		s.insertMappingStart(checkpoint, s.loc(), token.StyleBlock)
		s.scanBlockMapping(nodeIndent, false)
	case c == '@' || c == '`':
		s.fail(s.loc(), "reserved indicator %q cannot start a plain scalar", string(c))
	default:
		s.scanPlainNode(parentIndent, ctx, checkpoint, nodeIndent)
	}
}

// checkImplicitKey handles a scanned inline node that turns out to be
// the first key of a block mapping ("key": value, [a]: value, *x: value).
func (s *Scanner) checkImplicitKey(checkpoint, nodeIndent int, ctx blockCtx) {
	s.skipInlineSpaces()
	if s.flow == 0 && s.peek() == ':' && s.sepAfter(1) {
		if ctx == ctxAfterKey {
			s.fail(s.loc(), "mapping values are not allowed in this context")
		}
		s.insertMappingStart(checkpoint, s.queue[checkpoint].Span.Start, token.StyleBlock)
		s.scanBlockMapping(nodeIndent, true)
		return
	}
	if s.flow == 0 {
		s.expectLineEnd()
	}
}

// scanBlockMapping scans entries of a block mapping whose keys sit at
// column indent+1. When firstKeyDone is true the first key and its ':'
// detection already happened; the cursor sits on that ':'.
func (s *Scanner) scanBlockMapping(indent int, firstKeyDone bool) {
	for {
		if !firstKeyDone {
			if s.peek() == '-' && s.sepAfter(1) {
				s.fail(s.loc(), "block sequence entries are not allowed in this context")
			}
			if s.peek() == '?' && s.sepAfter(1) {
				s.scanExplicitEntry(indent)
				if !s.advanceToEntry(indent, "mapping entry") {
					break
				}
				continue
			}
			s.scanKeyNode()
			s.skipInlineSpaces()
			if s.peek() != ':' || !s.sepAfter(1) {
				s.fail(s.loc(), "could not find expected ':' in mapping entry")
			}
		}
		firstKeyDone = false
		s.advance() // ':'
		s.scanMappingValue(indent)
		if !s.advanceToEntry(indent, "mapping entry") {
			break
		}
	}
	loc := s.loc()
	s.emit(token.Event{Kind: token.EventMappingEnd, Span: token.NewSpan(loc, loc)})
}

// scanKeyNode scans a simple (single-line) mapping key without implicit
// mapping detection or plain-scalar folding.
func (s *Scanner) scanKeyNode() {
	s.scanInlineProps()
	c := s.peek()
	switch {
	case c == '*':
		s.scanAliasToken()
	case c == '[' || c == '{':
		s.scanFlowNode()
	case c == '"' || c == '\'':
		s.scanQuotedScalar()
	case c == '|' || c == '>':
		s.fail(s.loc(), "block scalars may not be used as mapping keys")
	default:
		text, span, _ := s.scanPlainLine()
		if text == "" {
			s.fail(span.Start, "expected a mapping key")
		}
		s.emitScalar(text, token.StylePlain, span)
	}
}

// scanExplicitEntry scans a "? key" entry, optionally followed by an
// ": value" line at the same indentation.
func (s *Scanner) scanExplicitEntry(indent int) {
	s.advance() // '?'
	s.skipInlineSpaces()
	if s.atLineEnd() {
		keyLoc := s.loc()
		s.skipToToken()
		if s.eof() || s.atDocStart() || s.atDocEnd() || s.col-1 <= indent {
			s.emitScalar("", token.StylePlain, token.NewSpan(keyLoc, keyLoc))
		} else {
			s.scanBlockNode(indent, ctxBlockOut)
		}
	} else {
		s.scanBlockNode(indent, ctxAfterDash)
	}
	s.skipToToken()
	if !s.eof() && !s.atDocStart() && !s.atDocEnd() &&
		s.col-1 == indent && s.peek() == ':' && s.sepAfter(1) {
		s.advance()
		s.scanMappingValue(indent)
		return
	}
	loc := s.loc()
	s.emitScalar("", token.StylePlain, token.NewSpan(loc, loc))
}

// scanMappingValue scans the value after a consumed ':'. The value is
// either on the same line, on following deeper-indented lines, a block
// sequence at the key's own indentation, or an implicit null.
func (s *Scanner) scanMappingValue(indent int) {
	s.skipInlineSpaces()
	if !s.atLineEnd() {
		s.scanBlockNode(indent, ctxAfterKey)
		return
	}
	afterColon := s.loc()
	s.skipToToken()
	switch {
	case s.eof() || s.atDocStart() || s.atDocEnd():
		s.emitScalar("", token.StylePlain, token.NewSpan(afterColon, afterColon))
	case s.col-1 > indent:
		s.scanBlockNode(indent, ctxBlockOut)
	case s.col-1 == indent && s.peek() == '-' && s.sepAfter(1):
		// A block sequence may sit at the same indentation as its key.
		s.scanBlockSequence(indent)
	default:
		s.emitScalar("", token.StylePlain, token.NewSpan(afterColon, afterColon))
	}
}

// scanBlockSequence scans "- item" entries at column indent+1.
func (s *Scanner) scanBlockSequence(indent int) {
	start := s.loc()
	s.emit(token.Event{Kind: token.EventSequenceStart, Style: token.StyleBlock, Span: token.NewSpan(start, start)})
	for {
		s.advance() // '-'
		s.skipInlineSpaces()
		if s.atLineEnd() {
			itemLoc := s.loc()
			s.skipToToken()
			if s.eof() || s.atDocStart() || s.atDocEnd() || s.col-1 <= indent {
				s.emitScalar("", token.StylePlain, token.NewSpan(itemLoc, itemLoc))
			} else {
				s.scanBlockNode(indent, ctxBlockOut)
			}
		} else {
			s.scanBlockNode(indent, ctxAfterDash)
		}
		if !s.advanceToSeqEntry(indent) {
			break
		}
	}
	loc := s.loc()
	s.emit(token.Event{Kind: token.EventSequenceEnd, Span: token.NewSpan(loc, loc)})
}

// advanceToEntry moves to the next line expected to hold a sibling
// entry at the given indentation. It returns false when the construct
// ends (dedent, document boundary, or end of input) and fails on a
// deeper-indented stray line.
func (s *Scanner) advanceToEntry(indent int, what string) bool {
	s.skipToToken()
	if s.eof() || s.atDocStart() || s.atDocEnd() {
		return false
	}
	col := s.col - 1
	if col < indent {
		return false
	}
	if col > indent {
		s.fail(s.loc(), "bad indentation of a %s", what)
	}
	return true
}

// advanceToSeqEntry is advanceToEntry specialized for sequences: a line
// at the same indentation that does not begin with "- " ends the
// sequence rather than being an error (it belongs to a parent mapping).
func (s *Scanner) advanceToSeqEntry(indent int) bool {
	s.skipToToken()
	if s.eof() || s.atDocStart() || s.atDocEnd() {
		return false
	}
	col := s.col - 1
	if col < indent {
		return false
	}
	if col > indent {
		s.fail(s.loc(), "bad indentation of a sequence entry")
	}
	return s.peek() == '-' && s.sepAfter(1)
}

// --- node properties (anchors and tags) ---

// scanInlineProps consumes "&anchor" and "!tag" properties on the
// current line, emitting Anchor events and recording the tag hint.
func (s *Scanner) scanInlineProps() {
	for {
		switch s.peek() {
		case '&':
			s.scanAnchorToken(token.EventAnchor)
			s.skipInlineSpaces()
		case '!':
			s.scanTagToken()
			s.skipInlineSpaces()
		default:
			return
		}
	}
}

const anchorStop = " \t\r\n,[]{}:"

func (s *Scanner) scanAnchorToken(kind token.EventKind) {
	start := s.loc()
	s.advance() // '&' or '*'
	nameStart := s.pos
	for !s.eof() && !byteIn(s.peek(), anchorStop) {
		s.advance()
	}
	name := string(s.src[nameStart:s.pos])
	if name == "" {
		s.fail(start, "expected an anchor name")
	}
	s.emit(token.Event{Kind: kind, Name: name, Span: token.NewSpan(start, s.loc())})
}

func (s *Scanner) scanAliasToken() {
	s.scanAnchorToken(token.EventAlias)
}

func (s *Scanner) scanTagToken() {
	start := s.loc()
	tagStart := s.pos
	s.advance() // '!'
	if s.peek() == '<' {
		// verbatim form !<tag>
		for !s.eof() && s.peek() != '>' && s.peek() != '\n' {
			s.advance()
		}
		if s.peek() != '>' {
			s.fail(start, "unterminated verbatim tag")
		}
		s.advance()
	} else {
		for !s.eof() && !byteIn(s.peek(), " \t\r\n,[]{}") {
			s.advance()
		}
	}
	s.pendingTag = string(s.src[tagStart:s.pos])
}

func byteIn(c byte, set string) bool {
	for i := 0; i < len(set); i++ {
		if set[i] == c {
			return true
		}
	}
	return false
}
