package toon

import "strings"

// ParsedLine is one source line with its indentation already removed.
type ParsedLine struct {
	Content    string
	Depth      int
	LineNumber int // 0-based index in the source
	IsBlank    bool
}

// number returns the 1-based line number used in errors.
func (l ParsedLine) number() int {
	return l.LineNumber + 1
}

func (l ParsedLine) isListItem() bool {
	return l.Content == string(listItemMarker) || strings.HasPrefix(l.Content, listItemPrefix)
}

// ParseLines splits text into lines and computes each line's depth.
// Indentation that is not a whole multiple of indent is always an error;
// tabs inside indentation are an error in strict mode and ignored otherwise.
func ParseLines(text string, indent int, strict bool) ([]ParsedLine, error) {
	if indent <= 0 {
		indent = DefaultIndent
	}
	if text == "" {
		return nil, nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]ParsedLine, 0, len(raw))
	for i, s := range raw {
		s = strings.TrimSuffix(s, "\r")
		if strings.TrimSpace(s) == "" {
			lines = append(lines, ParsedLine{LineNumber: i, IsBlank: true})
			continue
		}

		spaces := 0
		for spaces < len(s) && s[spaces] == space {
			spaces++
		}
		content := s[spaces:]
		if content[0] == '\t' {
			if strict {
				return nil, newDecodeError(MalformedIndent, i+1, "tab character in indentation")
			}
			content = strings.TrimLeft(content, "\t ")
		}
		if spaces%indent != 0 {
			return nil, decodeErrorf(MalformedIndent, i+1, "%d spaces is not a multiple of indent %d", spaces, indent)
		}
		lines = append(lines, ParsedLine{
			Content:    content,
			Depth:      spaces / indent,
			LineNumber: i,
		})
	}
	return lines, nil
}

// ============================================================
// Line cursor
// ============================================================

// lineCursor walks the non-blank lines of one document. It is owned by a
// single decode call and never shared.
type lineCursor struct {
	lines  []ParsedLine
	blanks map[int]struct{}
	pos    int
}

func newLineCursor(parsed []ParsedLine) *lineCursor {
	c := &lineCursor{blanks: make(map[int]struct{})}
	for _, l := range parsed {
		if l.IsBlank {
			c.blanks[l.LineNumber] = struct{}{}
			continue
		}
		c.lines = append(c.lines, l)
	}
	return c
}

func (c *lineCursor) peek() (ParsedLine, bool) {
	if c.pos >= len(c.lines) {
		return ParsedLine{}, false
	}
	return c.lines[c.pos], true
}

func (c *lineCursor) next() (ParsedLine, bool) {
	l, ok := c.peek()
	if ok {
		c.pos++
	}
	return l, ok
}

func (c *lineCursor) advance() {
	c.pos++
}

func (c *lineCursor) atEnd() bool {
	return c.pos >= len(c.lines)
}

func (c *lineCursor) remaining() int {
	return len(c.lines) - c.pos
}

// lastConsumed returns the line number of the most recently consumed line, or -1.
func (c *lineCursor) lastConsumed() int {
	if c.pos == 0 {
		return -1
	}
	return c.lines[c.pos-1].LineNumber
}

// firstBlankBetween returns the first blank line strictly between start and end.
func (c *lineCursor) firstBlankBetween(start, end int) (int, bool) {
	for n := start + 1; n < end; n++ {
		if _, ok := c.blanks[n]; ok {
			return n, true
		}
	}
	return 0, false
}

// skipDeeperThan consumes lines nested deeper than depth.
func (c *lineCursor) skipDeeperThan(depth int) {
	for {
		l, ok := c.peek()
		if !ok || l.Depth <= depth {
			return
		}
		c.advance()
	}
}

// ============================================================
// Line writer
// ============================================================

// lineWriter accumulates indented output lines for one encode call.
type lineWriter struct {
	lines  []string
	indent string
}

func newLineWriter(indent int) *lineWriter {
	return &lineWriter{indent: strings.Repeat(" ", indent)}
}

func (w *lineWriter) push(depth int, content string) {
	w.lines = append(w.lines, strings.Repeat(w.indent, depth)+content)
}

func (w *lineWriter) pushListItem(depth int, content string) {
	if content == "" {
		w.push(depth, string(listItemMarker))
		return
	}
	w.push(depth, listItemPrefix+content)
}

func (w *lineWriter) String() string {
	return strings.Join(w.lines, "\n")
}
