// Package splitter locates document boundaries in a multi-document
// stream without parsing it. It is a single lightweight pass that
// tracks just enough state (flow depth, quoting, block scalar
// indentation) to know when a line-initial "---" really starts a new
// document. The ranges it produces feed the parallel dispatcher and
// the lint engine, which parse each document independently.
package splitter

import (
	"github.com/fastyaml/fastyaml/pkg/yaml/token"
)

// Range is one document's byte region in the original source. Origin is
// the location of Start, so per-document parsers can report absolute
// positions.
type Range struct {
	Start, End int
	Origin     token.Location
}

// Split returns the document ranges of src, in order. There is always
// at least one range; leading comments, blank lines and directives
// attach to the first document.
func Split(src []byte) []Range {
	s := splitState{src: src, origin: token.Location{Line: 1, Column: 1}}
	return s.run()
}

type splitState struct {
	src    []byte
	ranges []Range

	start       int
	origin      token.Location
	contentSeen bool
	afterDocEnd bool

	flow        int
	quote       byte
	blockIndent int // parent indent of an open block scalar, -1 when none
	blockInner  int // detected content indent, -1 until known
}

func (s *splitState) run() []Range {
	s.blockIndent = -1
	line := 1
	pos := 0
	for pos < len(s.src) {
		lineStart := pos
		eol := lineStart
		for eol < len(s.src) && s.src[eol] != '\n' {
			eol++
		}
		lb := s.src[lineStart:eol]

		if s.quote == 0 && s.blockIndent >= 0 {
			if !s.blockLine(lb) {
				s.blockIndent = -1
			}
		}
		if s.quote == 0 && s.blockIndent < 0 && s.flow == 0 {
			switch {
			case isMarker(lb, "---"):
				s.boundary(lineStart, line)
			case isMarker(lb, "..."):
				s.afterDocEnd = true
			case s.afterDocEnd && !passiveLine(lb):
				// content after "..." begins a fresh document even
				// without an explicit "---"
				s.boundary(lineStart, line)
			}
		}
		if s.blockIndent < 0 {
			s.scanLine(lb)
		}
		if !s.contentSeen && !passiveLine(lb) {
			s.contentSeen = true
		}

		pos = eol
		if pos < len(s.src) {
			pos++ // '\n'
		}
		line++
	}
	s.ranges = append(s.ranges, Range{Start: s.start, End: len(s.src), Origin: s.origin})
	return s.ranges
}

// boundary closes the current range before lineStart and opens the next
// one there. A marker with nothing but directives or comments before it
// keeps them: they belong to the document the marker introduces.
func (s *splitState) boundary(lineStart, line int) {
	s.afterDocEnd = false
	if s.contentSeen && lineStart > s.start {
		s.ranges = append(s.ranges, Range{Start: s.start, End: lineStart, Origin: s.origin})
		s.start = lineStart
		s.origin = token.Location{Line: line, Column: 1, Offset: lineStart}
	}
	s.contentSeen = true
}

// blockLine reports whether lb is still part of the open block scalar.
func (s *splitState) blockLine(lb []byte) bool {
	if isMarker(lb, "---") || isMarker(lb, "...") {
		return false
	}
	n := 0
	for n < len(lb) && lb[n] == ' ' {
		n++
	}
	if n == len(lb) {
		return true // blank lines belong to the scalar
	}
	if s.blockInner < 0 {
		if n > s.blockIndent {
			s.blockInner = n
			return true
		}
		return false
	}
	return n >= s.blockInner
}

// scanLine advances the quote/flow/block-scalar state machine across
// one line. Bracket and quote characters only open constructs at node
// starts, so plain scalars like a[0] do not disturb the flow depth.
func (s *splitState) scanLine(lb []byte) {
	indent := 0
	for indent < len(lb) && (lb[indent] == ' ' || lb[indent] == '\t') {
		indent++
	}
	nodeStart := true
	i := indent
	if isMarker(lb, "---") || isMarker(lb, "...") {
		i = 3 // scan any inline content after the marker
	}
	for i < len(lb) {
		c := lb[i]
		if s.quote == '\'' {
			if c == '\'' {
				if i+1 < len(lb) && lb[i+1] == '\'' {
					i += 2
					continue
				}
				s.quote = 0
			}
			i++
			continue
		}
		if s.quote == '"' {
			if c == '\\' {
				i += 2
				continue
			}
			if c == '"' {
				s.quote = 0
			}
			i++
			continue
		}
		switch c {
		case ' ', '\t':
			i++
			continue
		case '#':
			if i == indent || lb[i-1] == ' ' || lb[i-1] == '\t' {
				return
			}
			i++
		case '\'', '"':
			if nodeStart {
				s.quote = c
			}
			nodeStart = false
			i++
		case '[', '{':
			if nodeStart || s.flow > 0 {
				s.flow++
				nodeStart = true
			} else {
				nodeStart = false
			}
			i++
		case ']', '}':
			if s.flow > 0 {
				s.flow--
			}
			nodeStart = false
			i++
		case ',':
			if s.flow > 0 {
				nodeStart = true
			}
			i++
		case ':':
			if i+1 >= len(lb) || lb[i+1] == ' ' || lb[i+1] == '\t' {
				nodeStart = true
			}
			i++
		case '-', '?':
			if !(nodeStart && s.flow == 0 && (i+1 >= len(lb) || lb[i+1] == ' ')) {
				nodeStart = false
			}
			i++
		case '|', '>':
			if nodeStart && s.flow == 0 {
				s.blockIndent = indent
				s.blockInner = -1
				for j := i + 1; j < len(lb); j++ {
					if lb[j] >= '1' && lb[j] <= '9' {
						s.blockInner = indent + int(lb[j]-'0')
					}
				}
				return
			}
			nodeStart = false
			i++
		default:
			nodeStart = false
			i++
		}
	}
}

// isMarker reports whether the line is exactly the marker or the marker
// followed by a separator.
func isMarker(lb []byte, m string) bool {
	if len(lb) < 3 || string(lb[:3]) != m {
		return false
	}
	return len(lb) == 3 || lb[3] == ' ' || lb[3] == '\t' || lb[3] == '\r'
}

// passiveLine reports whether the line carries no document content:
// blank, comment-only, or a directive.
func passiveLine(lb []byte) bool {
	i := 0
	for i < len(lb) && (lb[i] == ' ' || lb[i] == '\t' || lb[i] == '\r') {
		i++
	}
	if i == len(lb) {
		return true
	}
	return lb[i] == '#' || (i == 0 && lb[i] == '%')
}
