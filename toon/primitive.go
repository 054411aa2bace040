package toon

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// numericLikePattern matches everything a reader could take for a number,
	// including leading-zero forms; such strings are always quoted.
	numericLikePattern = regexp.MustCompile(`(?i)^-?\d+(?:\.\d+)?(?:e[+-]?\d+)?$`)
	leadingZeroPattern = regexp.MustCompile(`^0\d+$`)

	// numberPattern is the grammar the decoder accepts as a number.
	numberPattern = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?(?:[eE][+-]?\d+)?$`)

	bareKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	pathKeyPattern = regexp.MustCompile(`^(?:[A-Za-z_][A-Za-z0-9_]*)?(?:-\d+)*(?:\.[A-Za-z_][A-Za-z0-9_]*(?:-\d+)*)*$`)
)

// ============================================================
// Encoding
// ============================================================

// formatNumber returns the shortest decimal that round-trips through float64.
// Exponent notation is used only for very small or very large magnitudes.
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs < 1e-6 || abs >= 1e21 {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// encodePrimitive renders a null, bool, number or string.
func encodePrimitive(v *Value, d Delimiter) string {
	switch v.Kind() {
	case KindBool:
		if v.boolVal {
			return trueLiteral
		}
		return falseLiteral
	case KindNumber:
		return formatNumber(v.numVal)
	case KindString:
		return encodeStringLiteral(v.strVal, d)
	}
	return nullLiteral
}

func encodeStringLiteral(s string, d Delimiter) string {
	if isSafeUnquoted(s, d) {
		return s
	}
	return quoteString(s)
}

// encodeKey renders an object key or tabular field name. In path mode a key
// is quoted segment by segment so it still expands along its path.
func encodeKey(key string, pathKeys bool) string {
	if bareKeyPattern.MatchString(key) {
		return key
	}
	if pathKeys && key != "" {
		if pathKeyPattern.MatchString(key) {
			return key
		}
		return encodePathKey(key)
	}
	return quoteString(key)
}

func joinPrimitives(values []*Value, d Delimiter) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteRune(rune(d))
		}
		b.WriteString(encodePrimitive(v, d))
	}
	return b.String()
}

// isSafeUnquoted reports whether s can be written without quotes under delimiter d.
func isSafeUnquoted(s string, d Delimiter) bool {
	if s == "" {
		return false
	}
	if s != strings.TrimSpace(s) {
		return false
	}
	if isLiteral(s) || isNumericLike(s) {
		return false
	}
	if strings.ContainsAny(s, "\"\\[]{}\n\r\t:") {
		return false
	}
	if strings.ContainsRune(s, rune(d)) {
		return false
	}
	return s[0] != listItemMarker
}

func isLiteral(s string) bool {
	return s == nullLiteral || s == trueLiteral || s == falseLiteral
}

func isNumericLike(s string) bool {
	return numericLikePattern.MatchString(s) || leadingZeroPattern.MatchString(s)
}

// quoteString wraps s in double quotes with backslash escapes.
func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(doubleQuote)
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(doubleQuote)
	return b.String()
}

// ============================================================
// Decoding
// ============================================================

// findClosingQuote returns the index of the quote closing the quoted token
// that opens at s[start], or -1.
func findClosingQuote(s string, start int) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case backslash:
			i++
		case doubleQuote:
			return i
		}
	}
	return -1
}

// unescapeString reverses quoteString on the text between the quotes.
func unescapeString(s string, line int) (string, error) {
	if strings.IndexByte(s, backslash) < 0 {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != backslash {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", newDecodeError(UnterminatedQuotedString, line, "dangling escape")
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			return "", decodeErrorf(MalformedValueToken, line, "invalid escape sequence \\%c", s[i])
		}
	}
	return b.String(), nil
}

// parseQuotedToken parses the quoted token opening at s[start] and returns its
// unescaped content and the index just past the closing quote.
func parseQuotedToken(s string, start, line int) (string, int, error) {
	end := findClosingQuote(s, start)
	if end < 0 {
		return "", 0, decodeErrorf(UnterminatedQuotedString, line, "missing closing quote in %s", s[start:])
	}
	text, err := unescapeString(s[start+1:end], line)
	if err != nil {
		return "", 0, err
	}
	return text, end + 1, nil
}

// parsePrimitiveToken turns one value token into a primitive.
func parsePrimitiveToken(token string, line int, strict bool) (*Value, error) {
	trimmed := strings.TrimSpace(token)
	if strict && trimmed != token {
		return nil, decodeErrorf(MalformedValueToken, line, "whitespace around value %q", token)
	}
	token = trimmed
	if token == "" {
		if strict {
			return nil, newDecodeError(MalformedValueToken, line, "empty value")
		}
		return String(""), nil
	}

	if token[0] == doubleQuote {
		text, end, err := parseQuotedToken(token, 0, line)
		if err != nil {
			return nil, err
		}
		if end != len(token) {
			return nil, decodeErrorf(MalformedValueToken, line, "unexpected characters after quoted string: %q", token[end:])
		}
		return String(text), nil
	}

	switch token {
	case nullLiteral:
		return Null(), nil
	case trueLiteral:
		return Bool(true), nil
	case falseLiteral:
		return Bool(false), nil
	}
	if numberPattern.MatchString(token) {
		if f, err := strconv.ParseFloat(token, 64); err == nil {
			return Number(f), nil
		}
	}
	return String(token), nil
}

// splitDelimited splits s on d, ignoring delimiters inside quoted tokens.
// Tokens are returned untrimmed.
func splitDelimited(s string, d Delimiter, line int) ([]string, error) {
	var (
		tokens  []string
		start   int
		inQuote bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote && c == backslash:
			i++
		case c == doubleQuote:
			inQuote = !inQuote
		case !inQuote && rune(c) == rune(d):
			tokens = append(tokens, s[start:i])
			start = i + 1
		}
	}
	if inQuote {
		return nil, decodeErrorf(UnterminatedQuotedString, line, "missing closing quote in %s", s)
	}
	return append(tokens, s[start:]), nil
}
