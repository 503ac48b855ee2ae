// Package scanner tokenizes YAML text into the lexical event stream
// consumed by the composer. It performs no semantic interpretation:
// scalars are delivered as text with a style and an optional tag hint,
// and Core Schema resolution happens downstream.
package scanner

import (
	"fmt"
	"io"

	yamlerrors "github.com/fastyaml/fastyaml/pkg/yaml/errors"
	"github.com/fastyaml/fastyaml/pkg/yaml/token"
)

// Scanner produces a lazy, finite, non-restartable sequence of lexical
// events from YAML source. The first event is always StreamStart and the
// last, on well-formed input, StreamEnd. After an error every subsequent
// Next call returns the same error.
type Scanner struct {
	src  []byte
	pos  int
	line int
	col  int
	base int // byte offset of src[0] in the original input

	flow       int // flow collection nesting depth
	pendingTag string

	queue    []token.Event
	head     int
	started  bool
	finished bool
	failed   error
}

// New creates a scanner over src.
func New(src []byte) *Scanner {
	return NewWithOrigin(src, token.Location{Line: 1, Column: 1, Offset: 0})
}

// NewWithOrigin creates a scanner over a sub-range of a larger input.
// origin must point at the start of a line; all reported locations are
// absolute with respect to the original input.
func NewWithOrigin(src []byte, origin token.Location) *Scanner {
	line := origin.Line
	if line < 1 {
		line = 1
	}
	return &Scanner{src: src, line: line, col: 1, base: origin.Offset}
}

// Next returns the next lexical event, or io.EOF once the stream is
// exhausted. Scan failures are reported as *errors.SyntaxError and are
// sticky.
func (s *Scanner) Next() (token.Event, error) {
	if s.failed != nil {
		return token.Event{}, s.failed
	}
	if s.head < len(s.queue) {
		ev := s.queue[s.head]
		s.head++
		return ev, nil
	}
	if !s.started {
		s.started = true
		loc := s.loc()
		return token.Event{Kind: token.EventStreamStart, Span: token.NewSpan(loc, loc)}, nil
	}
	if s.finished {
		return token.Event{}, io.EOF
	}
	if err := s.scanNextDocument(); err != nil {
		s.failed = err
		return token.Event{}, err
	}
	if s.head < len(s.queue) {
		ev := s.queue[s.head]
		s.head++
		return ev, nil
	}
	s.finished = true
	loc := s.loc()
	return token.Event{Kind: token.EventStreamEnd, Span: token.NewSpan(loc, loc)}, nil
}

// ScanAll scans the entire sub-range and returns every event up to and
// including StreamEnd. On failure it returns the events produced so far
// together with the error.
func ScanAll(src []byte, origin token.Location) ([]token.Event, error) {
	s := NewWithOrigin(src, origin)
	var events []token.Event
	for {
		ev, err := s.Next()
		if err == io.EOF {
			return events, nil
		}
		if err != nil {
			return events, err
		}
		events = append(events, ev)
		if ev.Kind == token.EventStreamEnd {
			return events, nil
		}
	}
}

type scanPanic struct{ err error }

func (s *Scanner) fail(loc token.Location, format string, args ...any) {
	panic(scanPanic{&yamlerrors.SyntaxError{
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	}})
}

func (s *Scanner) scanNextDocument() (err error) {
	defer func() {
		if r := recover(); r != nil {
			sp, ok := r.(scanPanic)
			if !ok {
				panic(r)
			}
			err = sp.err
		}
	}()
	s.queue = s.queue[:0]
	s.head = 0
	s.skipToToken()
	for s.atDocEnd() {
		s.advanceN(3)
		s.expectLineEnd()
		s.skipToToken()
	}
	if s.eof() {
		return nil
	}
	s.scanDocument()
	return nil
}

func (s *Scanner) scanDocument() {
	sawDirective := false
	for s.col == 1 && s.peek() == '%' {
		sawDirective = true
		s.skipLine()
		s.skipToToken()
	}
	if sawDirective && !s.atDocStart() {
		s.fail(s.loc(), "expected '---' after directives")
	}
	start := s.loc()
	if s.atDocStart() {
		s.advanceN(3)
	}
	s.emit(token.Event{Kind: token.EventDocumentStart, Span: token.NewSpan(start, s.loc())})

	s.skipToToken()
	if !s.eof() && !s.atDocStart() && !s.atDocEnd() {
		s.scanBlockNode(-1, ctxBlockOut)
		s.skipToToken()
	}
	end := s.loc()
	switch {
	case s.atDocEnd():
		s.advanceN(3)
		s.expectLineEnd()
		end = s.loc()
	case s.eof(), s.atDocStart():
		// next document or end of stream
	default:
		s.fail(s.loc(), "expected the end of the document but found more content")
	}
	s.emit(token.Event{Kind: token.EventDocumentEnd, Span: token.NewSpan(end, end)})
}

// emit appends an event, attaching any pending tag hint to node events.
func (s *Scanner) emit(ev token.Event) {
	switch ev.Kind {
	case token.EventScalar, token.EventSequenceStart, token.EventMappingStart:
		if s.pendingTag != "" {
			ev.Tag = s.pendingTag
			s.pendingTag = ""
		}
	}
	s.queue = append(s.queue, ev)
}

func (s *Scanner) emitScalar(text string, style token.Style, span token.Span) {
	s.emit(token.Event{Kind: token.EventScalar, Value: text, Style: style, Span: span})
}

// insertMappingStart retroactively wraps events from index idx onward in
// a mapping, used when a scanned node turns out to be the first key of
// an implicit block mapping.
func (s *Scanner) insertMappingStart(idx int, start token.Location, style token.Style) {
	ev := token.Event{Kind: token.EventMappingStart, Style: style, Span: token.NewSpan(start, start)}
	s.queue = append(s.queue, token.Event{})
	copy(s.queue[idx+1:], s.queue[idx:])
	s.queue[idx] = ev
}

// --- cursor primitives ---

func (s *Scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *Scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *Scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

func (s *Scanner) loc() token.Location {
	return token.Location{Line: s.line, Column: s.col, Offset: s.base + s.pos}
}

// advance consumes one byte, tracking line and column. Columns count
// runes: UTF-8 continuation bytes do not advance the column.
func (s *Scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
		s.col = 1
	} else if c&0xC0 != 0x80 {
		s.col++
	}
	return c
}

func (s *Scanner) advanceN(n int) {
	for i := 0; i < n && !s.eof(); i++ {
		s.advance()
	}
}

type mark struct {
	pos, line, col int
}

func (s *Scanner) mark() mark {
	return mark{s.pos, s.line, s.col}
}

func (s *Scanner) restore(m mark) {
	s.pos, s.line, s.col = m.pos, m.line, m.col
}

// sepAfter reports whether the byte n positions ahead terminates a
// token: whitespace, end of input, or a flow indicator in flow context.
func (s *Scanner) sepAfter(n int) bool {
	if s.pos+n >= len(s.src) {
		return true
	}
	c := s.src[s.pos+n]
	if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
		return true
	}
	if s.flow > 0 && (c == ',' || c == ']' || c == '}') {
		return true
	}
	return false
}

func (s *Scanner) atDocStart() bool {
	return s.col == 1 && s.hasMarker("---")
}

func (s *Scanner) atDocEnd() bool {
	return s.col == 1 && s.hasMarker("...")
}

func (s *Scanner) hasMarker(m string) bool {
	if s.pos+3 > len(s.src) {
		return false
	}
	if string(s.src[s.pos:s.pos+3]) != m {
		return false
	}
	if s.pos+3 == len(s.src) {
		return true
	}
	c := s.src[s.pos+3]
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// --- whitespace and comments ---

// leadingOnLine reports whether only whitespace precedes the cursor on
// the current line.
func (s *Scanner) leadingOnLine() bool {
	for i := s.pos - 1; i >= 0; i-- {
		switch s.src[i] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// skipToToken skips spaces, line breaks, and comment lines, stopping at
// the next token. Tab characters used as indentation of a content line
// are a syntax error.
func (s *Scanner) skipToToken() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\n', '\r':
			s.advance()
		case '\t':
			if s.leadingOnLine() {
				tabLoc := s.loc()
				j := s.pos
				for j < len(s.src) && (s.src[j] == ' ' || s.src[j] == '\t') {
					j++
				}
				if j < len(s.src) && s.src[j] != '\n' && s.src[j] != '\r' && s.src[j] != '#' {
					s.fail(tabLoc, "found a tab character where an indentation space is expected")
				}
			}
			s.advance()
		case '#':
			s.skipLine()
		default:
			return
		}
	}
}

func (s *Scanner) skipInlineSpaces() {
	for !s.eof() {
		c := s.peek()
		if c != ' ' && c != '\t' {
			return
		}
		s.advance()
	}
}

// skipLine consumes the rest of the current line including its break.
func (s *Scanner) skipLine() {
	for !s.eof() {
		if s.advance() == '\n' {
			return
		}
	}
}

// atLineEnd reports whether the cursor sits at a line break, the end of
// input, or the start of a trailing comment.
func (s *Scanner) atLineEnd() bool {
	c := s.peek()
	return s.eof() || c == '\n' || c == '\r' || c == '#'
}

// expectLineEnd verifies that nothing but spaces and an optional comment
// remains on the current line, without consuming the line break.
func (s *Scanner) expectLineEnd() {
	s.skipInlineSpaces()
	if s.peek() == '#' {
		for !s.eof() && s.peek() != '\n' {
			s.advance()
		}
	}
	if !s.eof() && s.peek() != '\n' && s.peek() != '\r' {
		s.fail(s.loc(), "unexpected characters after the node")
	}
}

// readRestOfLine consumes to the end of the current line, returning the
// content without the break, and the location just past the content.
func (s *Scanner) readRestOfLine() (string, token.Location) {
	start := s.pos
	for !s.eof() && s.peek() != '\n' && s.peek() != '\r' {
		s.advance()
	}
	text := string(s.src[start:s.pos])
	end := s.loc()
	if s.peek() == '\r' {
		s.advance()
	}
	if s.peek() == '\n' {
		s.advance()
	}
	return text, end
}
