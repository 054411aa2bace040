package toon

import (
	"strconv"
	"strings"
)

// ArrayHeader is the parsed form of an array header line such as
//
//	users [#2|]{id|name};
type ArrayHeader struct {
	Key             string
	HasKey          bool
	KeyQuoted       bool
	Length          int
	Delimiter       Delimiter
	Fields          []string // tabular arrays only
	HasLengthMarker bool

	fieldQuoted []bool
	keySteps    []pathStep
}

// headerLine is a header together with whatever followed its terminator.
type headerLine struct {
	header    ArrayHeader
	inline    string
	hasInline bool
}

// formatHeader renders h; inline values, if any, are appended by the caller.
func formatHeader(h ArrayHeader, pathKeys bool) string {
	var b strings.Builder
	if h.HasKey {
		b.WriteString(encodeKey(h.Key, pathKeys))
		b.WriteByte(space)
	}
	b.WriteByte(openBracket)
	if h.HasLengthMarker {
		b.WriteByte(lengthMarker)
	}
	b.WriteString(strconv.Itoa(h.Length))
	if h.Delimiter != Comma && h.Delimiter != 0 {
		b.WriteRune(rune(h.Delimiter))
	}
	b.WriteByte(closeBracket)
	if len(h.Fields) > 0 {
		b.WriteByte(openBrace)
		for i, f := range h.Fields {
			if i > 0 {
				b.WriteRune(rune(h.Delimiter))
			}
			b.WriteString(encodeKey(f, false))
		}
		b.WriteByte(closeBrace)
	}
	b.WriteByte(headerTerm)
	return b.String()
}

// ParseArrayHeader recognizes an array header. It returns nil when content is
// not a header, and an error when it is one but is malformed.
func ParseArrayHeader(content string) (*ArrayHeader, string, error) {
	hl, err := parseArrayHeader(content, 0)
	if err != nil || hl == nil {
		return nil, "", err
	}
	return &hl.header, hl.inline, nil
}

func parseArrayHeader(content string, line int) (*headerLine, error) {
	if content == "" {
		return nil, nil
	}

	var h ArrayHeader
	pos := 0
	keyEnd := pathKeyEnd(content)
	switch {
	case keyEnd >= 0 && strings.HasPrefix(content[keyEnd:], " ["):
		key, steps, err := parsePathKey(content[:keyEnd], line)
		if err != nil {
			return nil, err
		}
		h.Key, h.HasKey, h.keySteps = key, true, steps
		pos = keyEnd + 1
	case content[0] == doubleQuote:
		key, end, err := parseQuotedToken(content, 0, line)
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(content[end:], " [") {
			return nil, nil
		}
		h.Key, h.HasKey, h.KeyQuoted = key, true, true
		pos = end + 1
	case content[0] == openBracket:
	default:
		sp := strings.Index(content, " [")
		if sp <= 0 {
			return nil, nil
		}
		key := content[:sp]
		if strings.ContainsAny(key, " \t:\"") {
			return nil, nil
		}
		h.Key, h.HasKey = key, true
		pos = sp + 1
	}

	rb := strings.IndexByte(content[pos:], closeBracket)
	if rb < 0 {
		return nil, nil
	}
	if !parseBracket(content[pos+1:pos+rb], &h) {
		return nil, nil
	}
	pos += rb + 1

	if pos < len(content) && content[pos] == openBrace {
		end := findClosingBrace(content, pos)
		if end < 0 {
			return nil, nil
		}
		if err := parseFieldList(content[pos+1:end], &h, line); err != nil {
			return nil, err
		}
		pos = end + 1
	}

	if pos >= len(content) || content[pos] != headerTerm {
		return nil, nil
	}
	hl := &headerLine{header: h}
	if rest := content[pos+1:]; rest != "" {
		hl.inline = strings.TrimPrefix(rest, " ")
		hl.hasInline = strings.TrimSpace(hl.inline) != ""
	}
	return hl, nil
}

// parseBracket parses "#?<digits><delimiter>?".
func parseBracket(inner string, h *ArrayHeader) bool {
	if strings.HasPrefix(inner, string(lengthMarker)) {
		h.HasLengthMarker = true
		inner = inner[1:]
	}
	h.Delimiter = Comma
	if n := len(inner); n > 0 {
		switch d := Delimiter(inner[n-1]); d {
		case Tab, Pipe, Comma:
			h.Delimiter = d
			inner = inner[:n-1]
		}
	}
	if inner == "" {
		return false
	}
	for i := 0; i < len(inner); i++ {
		if inner[i] < '0' || inner[i] > '9' {
			return false
		}
	}
	n, err := strconv.Atoi(inner)
	if err != nil {
		return false
	}
	h.Length = n
	return true
}

func findClosingBrace(s string, start int) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case doubleQuote:
			end := findClosingQuote(s, i)
			if end < 0 {
				return -1
			}
			i = end
		case closeBrace:
			return i
		}
	}
	return -1
}

func parseFieldList(s string, h *ArrayHeader, line int) error {
	tokens, err := splitDelimited(s, h.Delimiter, line)
	if err != nil {
		return err
	}
	for _, tok := range tokens {
		if tok != "" && tok[0] == doubleQuote {
			name, end, err := parseQuotedToken(tok, 0, line)
			if err != nil {
				return err
			}
			if end != len(tok) {
				return decodeErrorf(MalformedKeyToken, line, "unexpected characters after field %q", tok)
			}
			h.Fields = append(h.Fields, name)
			h.fieldQuoted = append(h.fieldQuoted, true)
			continue
		}
		if tok == "" || strings.ContainsAny(tok, " \t") {
			return decodeErrorf(MalformedKeyToken, line, "invalid field name %q", tok)
		}
		h.Fields = append(h.Fields, tok)
		h.fieldQuoted = append(h.fieldQuoted, false)
	}
	return nil
}
