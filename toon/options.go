package toon

import "fmt"

// Structural tokens of the text format.
const (
	listItemMarker = '-'
	listItemPrefix = "- "

	colon          = ':'
	space          = ' '
	lengthMarker   = '#'
	headerTerm     = ';'
	openBracket    = '['
	closeBracket   = ']'
	openBrace      = '{'
	closeBrace     = '}'
	doubleQuote    = '"'
	backslash      = '\\'
	pathSeparator  = '.'
	indexSeparator = '-'

	nullLiteral  = "null"
	trueLiteral  = "true"
	falseLiteral = "false"
)

// Delimiter separates inline array values, tabular cells and tabular field names.
type Delimiter rune

const (
	Comma Delimiter = ','
	Tab   Delimiter = '\t'
	Pipe  Delimiter = '|'
)

// DefaultDelimiter is used when no delimiter is configured.
const DefaultDelimiter = Comma

// String returns the delimiter character.
func (d Delimiter) String() string {
	return string(rune(d))
}

// Name returns the configuration name of the delimiter.
func (d Delimiter) Name() string {
	switch d {
	case Comma:
		return "comma"
	case Tab:
		return "tab"
	case Pipe:
		return "pipe"
	}
	return fmt.Sprintf("delimiter(%q)", rune(d))
}

// Valid reports whether d is one of the supported delimiters.
func (d Delimiter) Valid() bool {
	return d == Comma || d == Tab || d == Pipe
}

// ParseDelimiter accepts a delimiter name (comma, tab, pipe) or the character itself.
func ParseDelimiter(s string) (Delimiter, error) {
	switch s {
	case "comma", ",", "":
		return Comma, nil
	case "tab", "\t", `\t`:
		return Tab, nil
	case "pipe", "|":
		return Pipe, nil
	}
	return 0, fmt.Errorf("unknown delimiter %q (want comma, tab or pipe)", s)
}

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

// EncodeOptions configures encoding.
type EncodeOptions struct {
	// Indent is the number of spaces per depth level. Zero means DefaultIndent.
	Indent int
	// Delimiter joins inline and tabular values. Zero means DefaultDelimiter.
	Delimiter Delimiter
	// LengthMarker prefixes declared array lengths with '#'.
	LengthMarker bool
	// PathKeys emits flattened path keys (a.b-0.c) bare, quoting only the
	// segment names that need it, so they expand after decoding.
	// Without it, keys containing '.' are quoted and survive expansion as literals.
	PathKeys bool
}

// DefaultEncodeOptions returns the default encoding options.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		Indent:    DefaultIndent,
		Delimiter: DefaultDelimiter,
	}
}

func (o EncodeOptions) resolve() (EncodeOptions, error) {
	if o.Indent == 0 {
		o.Indent = DefaultIndent
	}
	if o.Delimiter == 0 {
		o.Delimiter = DefaultDelimiter
	}
	if o.Indent < 0 {
		return o, &EncodeError{Message: fmt.Sprintf("indent must be positive, got %d", o.Indent)}
	}
	if !o.Delimiter.Valid() {
		return o, &EncodeError{Message: fmt.Sprintf("unsupported delimiter %q", rune(o.Delimiter))}
	}
	return o, nil
}

// DecodeOptions configures decoding.
type DecodeOptions struct {
	// Indent is the number of spaces per depth level. Zero means DefaultIndent.
	Indent int
	// Strict enables blank-line, surplus-item and duplicate-key checks.
	Strict bool
}

// DefaultDecodeOptions returns the default decoding options (strict).
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{
		Indent: DefaultIndent,
		Strict: true,
	}
}

func (o DecodeOptions) resolve() (DecodeOptions, error) {
	if o.Indent == 0 {
		o.Indent = DefaultIndent
	}
	if o.Indent < 0 {
		return o, newDecodeError(MalformedIndent, 0, fmt.Sprintf("indent must be positive, got %d", o.Indent))
	}
	return o, nil
}
