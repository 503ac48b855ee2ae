package scanner

import (
	"strings"

	"github.com/fastyaml/fastyaml/pkg/yaml/token"
)

// scanPlainLine scans the portion of a plain scalar on the current
// line. It stops at a line break, a " #" comment, a ':' followed by a
// separator, or a flow indicator in flow context. Trailing whitespace is
// trimmed. colonStop reports that the cursor was left on a ':'.
func (s *Scanner) scanPlainLine() (string, token.Span, bool) {
	start := s.loc()
	end := start
	textStart := s.pos
	lastNonSpace := s.pos
	colonStop := false
	for !s.eof() {
		c := s.peek()
		if c == '\n' || c == '\r' {
			break
		}
		if c == '#' && s.pos > textStart && (s.src[s.pos-1] == ' ' || s.src[s.pos-1] == '\t') {
			break
		}
		if c == ':' && s.sepAfter(1) {
			colonStop = true
			break
		}
		if s.flow > 0 && (c == ',' || c == '[' || c == ']' || c == '{' || c == '}') {
			break
		}
		s.advance()
		if c != ' ' && c != '\t' {
			lastNonSpace = s.pos
			end = s.loc()
		}
	}
	return string(s.src[textStart:lastNonSpace]), token.NewSpan(start, end), colonStop
}

// scanPlainNode scans a plain scalar in block context, including
// implicit mapping-key detection and multi-line folding.
func (s *Scanner) scanPlainNode(parentIndent int, ctx blockCtx, checkpoint, nodeIndent int) {
	text, span, colonStop := s.scanPlainLine()
	if text == "" && !colonStop {
		s.fail(span.Start, "unexpected character")
	}
	s.skipInlineSpaces()
	if s.flow == 0 && s.peek() == ':' && s.sepAfter(1) {
		// "text:" introduces a block mapping with text as its first key;
		// ": value" with empty text is a null key.
		if ctx == ctxAfterKey {
			s.fail(s.loc(), "mapping values are not allowed in this context")
		}
		s.emitScalar(text, token.StylePlain, span)
		s.insertMappingStart(checkpoint, span.Start, token.StyleBlock)
		s.scanBlockMapping(nodeIndent, true)
		return
	}
	if s.peek() == '#' {
		s.emitScalar(text, token.StylePlain, span)
		return
	}

	// Multi-line plain scalars fold continuation lines indented past the
	// enclosing construct.
	full := text
	endLoc := span.End
	for !s.eof() && (s.peek() == '\n' || s.peek() == '\r') {
		save := s.mark()
		breaks := 0
		ok := false
		for !s.eof() {
			if s.peek() == '\r' {
				s.advance()
			}
			if s.peek() == '\n' {
				s.advance()
			}
			breaks++
			s.skipInlineSpaces()
			if s.eof() {
				break
			}
			c := s.peek()
			if c == '\n' || c == '\r' {
				continue // blank line
			}
			if s.col-1 <= parentIndent || s.atDocStart() || s.atDocEnd() || c == '#' {
				break
			}
			ok = true
			break
		}
		if !ok {
			s.restore(save)
			break
		}
		t2, sp2, colon2 := s.scanPlainLine()
		s.skipInlineSpaces()
		if colon2 || (s.peek() == ':' && s.sepAfter(1)) {
			s.fail(s.loc(), "mapping values are not allowed in this context")
		}
		if t2 == "" {
			s.restore(save)
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

// scanQuotedScalar scans a single- or double-quoted scalar, applying
// escape processing and line folding.
func (s *Scanner) scanQuotedScalar() {
	quote := s.peek()
	style := token.StyleSingleQuoted
	if quote == '"' {
		style = token.StyleDoubleQuoted
	}
	start := s.loc()
	s.advance()

	var out strings.Builder
	var cur strings.Builder
	breaks := 0
	escapedJoin := false

	flushBreaks := func() {
		switch {
		case breaks == 0:
		case escapedJoin:
			// "\" at end of line joins without a space
		case breaks == 1:
			out.WriteByte(' ')
		default:
			out.WriteString(strings.Repeat("\n", breaks-1))
		}
		breaks = 0
		escapedJoin = false
	}
	endSegment := func() {
		flushBreaks()
		out.WriteString(strings.TrimRight(cur.String(), " \t"))
		cur.Reset()
	}

	for {
		if s.eof() {
			s.fail(s.loc(), "unexpected end of stream inside quoted scalar")
		}
		c := s.peek()
		switch {
		case c == quote:
			if quote == '\'' && s.peekAt(1) == '\'' {
				s.advanceN(2)
				cur.WriteByte('\'')
				continue
			}
			s.advance()
			flushBreaks()
			out.WriteString(cur.String())
			s.emitScalar(out.String(), style, token.NewSpan(start, s.loc()))
			return
		case c == '\n' || c == '\r':
			// only the first break of a run closes the segment; blank
			// lines just extend the fold
			if cur.Len() > 0 || breaks == 0 {
				endSegment()
			}
			if c == '\r' {
				s.advance()
			}
			if s.peek() == '\n' {
				s.advance()
			}
			breaks++
			s.skipInlineSpaces()
			if s.atDocStart() || s.atDocEnd() {
				s.fail(s.loc(), "unexpected document marker inside quoted scalar")
			}
		case c == '\\' && quote == '"':
			if s.peekAt(1) == '\n' || s.peekAt(1) == '\r' {
				s.advance() // backslash
				endSegment()
				if s.peek() == '\r' {
					s.advance()
				}
				if s.peek() == '\n' {
					s.advance()
				}
				breaks++
				escapedJoin = true
				s.skipInlineSpaces()
				continue
			}
			s.scanEscape(&cur)
		default:
			cur.WriteByte(s.advance())
		}
	}
}

// scanEscape processes one backslash escape inside a double-quoted
// scalar, appending the decoded character to cur.
func (s *Scanner) scanEscape(cur *strings.Builder) {
	escLoc := s.loc()
	s.advance() // '\'
	if s.eof() {
		s.fail(escLoc, "unexpected end of stream after '\\'")
	}
	c := s.advance()
	switch c {
	case '0':
		cur.WriteByte(0)
	case 'a':
		cur.WriteByte(7)
	case 'b':
		cur.WriteByte(8)
	case 't':
		cur.WriteByte('\t')
	case 'n':
		cur.WriteByte('\n')
	case 'v':
		cur.WriteByte(11)
	case 'f':
		cur.WriteByte(12)
	case 'r':
		cur.WriteByte('\r')
	case 'e':
		cur.WriteByte(27)
	case ' ':
		cur.WriteByte(' ')
	case '"':
		cur.WriteByte('"')
	case '/':
		cur.WriteByte('/')
	case '\\':
		cur.WriteByte('\\')
	case 'N':
		cur.WriteRune(0x85)
	case '_':
		cur.WriteRune(0xA0)
	case 'L':
		cur.WriteRune(0x2028)
	case 'P':
		cur.WriteRune(0x2029)
	case 'x':
		cur.WriteRune(s.scanHexEscape(escLoc, 2))
	case 'u':
		cur.WriteRune(s.scanHexEscape(escLoc, 4))
	case 'U':
		cur.WriteRune(s.scanHexEscape(escLoc, 8))
	default:
		s.fail(escLoc, "unknown escape character %q", string(c))
	}
}

func (s *Scanner) scanHexEscape(loc token.Location, width int) rune {
	var r rune
	for i := 0; i < width; i++ {
		if s.eof() {
			s.fail(loc, "incomplete hexadecimal escape")
		}
		c := s.advance()
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r<<4 | rune(c-'A'+10)
		default:
			s.fail(loc, "invalid hexadecimal escape")
		}
	}
	return r
}

// scanBlockScalar scans a literal (|) or folded (>) block scalar,
// including its header indicators and chomping behavior.
func (s *Scanner) scanBlockScalar(parentIndent int) {
	start := s.loc()
	style := token.StyleLiteral
	if s.peek() == '>' {
		style = token.StyleFolded
	}
	s.advance()

	chomp := 0 // 0 clip, -1 strip, +1 keep
	explicit := 0
	for {
		c := s.peek()
		switch {
		case c == '-' || c == '+':
			if chomp != 0 {
				s.fail(s.loc(), "repeated chomping indicator")
			}
			if c == '-' {
				chomp = -1
			} else {
				chomp = 1
			}
			s.advance()
		case c == '0':
			s.fail(s.loc(), "indentation indicator must be between 1 and 9")
		case c >= '1' && c <= '9':
			if explicit != 0 {
				s.fail(s.loc(), "repeated indentation indicator")
			}
			explicit = int(c - '0')
			s.advance()
		default:
			goto header_done
		}
	}
header_done:
	s.expectLineEnd()
	if s.peek() == '\r' {
		s.advance()
	}
	if s.peek() == '\n' {
		s.advance()
	}

	contentIndent := -1
	if explicit > 0 {
		base := parentIndent
		if base < 0 {
			base = 0
		}
		contentIndent = base + explicit
	}

	var lines []string
	endLoc := s.loc()
	for !s.eof() {
		lineStart := s.mark()
		if s.atDocStart() || s.atDocEnd() {
			break // document markers end the scalar
		}
		n := 0
		for s.peek() == ' ' && (contentIndent < 0 || n < contentIndent) {
			s.advance()
			n++
		}
		if s.peek() == '\t' && (contentIndent < 0 || n < contentIndent) {
			j := s.pos
			for j < len(s.src) && (s.src[j] == ' ' || s.src[j] == '\t') {
				j++
			}
			if j < len(s.src) && s.src[j] != '\n' && s.src[j] != '\r' {
				s.fail(s.loc(), "found a tab character where an indentation space is expected")
			}
		}
		if s.atLineEndRaw() {
			lines = append(lines, "")
			s.consumeBreak()
			continue
		}
		if contentIndent < 0 {
			if n <= parentIndent {
				s.restore(lineStart)
				break
			}
			contentIndent = n
		} else if n < contentIndent {
			s.restore(lineStart)
			break
		}
		raw, lineEnd := s.readRestOfLine()
		lines = append(lines, raw)
		endLoc = lineEnd
	}

	trailing := 0
	for len(lines)-trailing > 0 && lines[len(lines)-1-trailing] == "" {
		trailing++
	}
	content := lines[:len(lines)-trailing]

	var body string
	if style == token.StyleLiteral {
		body = strings.Join(content, "\n")
	} else {
		body = foldLines(content)
	}
	switch {
	case chomp == -1:
	case chomp == 1:
		if len(content) > 0 {
			body += strings.Repeat("\n", trailing+1)
		} else {
			body = strings.Repeat("\n", len(lines))
		}
	default:
		if body != "" {
			body += "\n"
		}
	}
	s.emitScalar(body, style, token.NewSpan(start, endLoc))
}

// atLineEndRaw is atLineEnd without comment handling: inside block
// scalar content a '#' is data.
func (s *Scanner) atLineEndRaw() bool {
	c := s.peek()
	return s.eof() || c == '\n' || c == '\r'
}

func (s *Scanner) consumeBreak() {
	if s.peek() == '\r' {
		s.advance()
	}
	if s.peek() == '\n' {
		s.advance()
	}
}

// foldLines applies folded-style line joining: single breaks between
// equally indented text lines become spaces, blank lines become
// newlines, and more-indented lines keep their breaks literally.
func foldLines(lines []string) string {
	var sb strings.Builder
	prevContent := false
	prevMore := false
	blanks := 0
	for _, ln := range lines {
		if ln == "" {
			blanks++
			continue
		}
		more := ln[0] == ' ' || ln[0] == '\t'
		if prevContent {
			switch {
			case blanks > 0:
				sb.WriteString(strings.Repeat("\n", blanks))
			case !prevMore && !more:
				sb.WriteByte(' ')
			default:
				sb.WriteByte('\n')
			}
		}
		sb.WriteString(ln)
		prevContent = true
		prevMore = more
		blanks = 0
	}
	return sb.String()
}
