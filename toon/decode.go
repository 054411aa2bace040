package toon

import "strings"

// Decode parses TOON text with the default (strict) options.
func Decode(text string) (*Value, error) {
	return DecodeWithOptions(text, nil)
}

// DecodeWithOptions parses TOON text. Nil opts means DefaultDecodeOptions.
// The empty document decodes to an empty object. On error no partial value
// is returned.
func DecodeWithOptions(text string, opts *DecodeOptions) (*Value, error) {
	o := DefaultDecodeOptions()
	if opts != nil {
		o = *opts
	}
	o, err := o.resolve()
	if err != nil {
		return nil, err
	}
	lines, err := ParseLines(text, o.Indent, o.Strict)
	if err != nil {
		return nil, err
	}
	d := &decoder{strict: o.Strict, c: newLineCursor(lines)}
	return d.decodeRoot()
}

// decoder is a recursive-descent parser over one document's lines.
type decoder struct {
	strict bool
	c      *lineCursor
}

func (d *decoder) decodeRoot() (*Value, error) {
	first, ok := d.c.peek()
	if !ok {
		return ObjectValue(NewObject()), nil
	}
	if first.Depth != 0 {
		return nil, newDecodeError(MalformedIndent, first.number(), "document must start without indentation")
	}

	hl, err := parseArrayHeader(first.Content, first.number())
	if err != nil {
		return nil, err
	}
	if hl != nil && !hl.header.HasKey {
		d.c.advance()
		v, err := d.decodeArray(hl, first.number(), 1)
		if err != nil {
			return nil, err
		}
		return v, d.expectEnd()
	}

	if hl == nil && d.c.remaining() == 1 {
		kv, err := d.splitKeyValue(first.Content, first.number())
		if err != nil {
			return nil, err
		}
		if kv == nil {
			d.c.advance()
			return parsePrimitiveToken(first.Content, first.number(), d.strict)
		}
	}

	obj := NewObject()
	if err := d.decodeObjectInto(obj, 0); err != nil {
		return nil, err
	}
	return ObjectValue(obj), d.expectEnd()
}

func (d *decoder) expectEnd() error {
	if l, ok := d.c.peek(); ok {
		return decodeErrorf(UnexpectedContent, l.number(), "unexpected line %q after root value", l.Content)
	}
	return nil
}

// ============================================================
// Objects
// ============================================================

// decodeObjectInto reads key lines at depth until the block ends.
func (d *decoder) decodeObjectInto(obj *Object, depth int) error {
	for {
		l, ok := d.c.peek()
		if !ok || l.Depth < depth {
			return nil
		}
		if l.Depth > depth {
			return decodeErrorf(MalformedIndent, l.number(), "expected depth %d, got %d", depth, l.Depth)
		}
		d.c.advance()
		if err := d.decodeField(obj, l.Content, l.number(), depth+1); err != nil {
			return err
		}
	}
}

// decodeField decodes one "key: value", "key:" or "key [n]..." line into obj.
// Nested content is expected at bodyDepth.
func (d *decoder) decodeField(obj *Object, content string, line, bodyDepth int) error {
	hl, err := parseArrayHeader(content, line)
	if err != nil {
		return err
	}
	if hl != nil {
		if !hl.header.HasKey {
			return newDecodeError(UnexpectedContent, line, "array header without a key inside an object")
		}
		v, err := d.decodeArray(hl, line, bodyDepth)
		if err != nil {
			return err
		}
		return d.setField(obj, hl.header.Key, hl.header.KeyQuoted, hl.header.keySteps, v, line)
	}

	kv, err := d.splitKeyValue(content, line)
	if err != nil {
		return err
	}
	if kv == nil {
		return decodeErrorf(MalformedKeyToken, line, "expected key: value, got %q", content)
	}

	var v *Value
	switch {
	case !kv.hasValue:
		child := NewObject()
		if err := d.decodeObjectInto(child, bodyDepth); err != nil {
			return err
		}
		v = ObjectValue(child)
	default:
		inner, err := parseArrayHeader(kv.value, line)
		if err != nil {
			return err
		}
		if inner != nil && !inner.header.HasKey {
			v, err = d.decodeArray(inner, line, bodyDepth)
		} else {
			v, err = parsePrimitiveToken(kv.value, line, d.strict)
		}
		if err != nil {
			return err
		}
	}
	return d.setField(obj, kv.key, kv.quoted, kv.steps, v, line)
}

func (d *decoder) setField(obj *Object, key string, quoted bool, steps []pathStep, v *Value, line int) error {
	if obj.Has(key) && d.strict {
		return decodeErrorf(DuplicateKey, line, "key %q already defined", key)
	}
	obj.Set(key, v)
	if quoted {
		obj.MarkQuoted(key)
	}
	obj.setPathSteps(key, steps)
	return nil
}

type keyValue struct {
	key      string
	quoted   bool
	steps    []pathStep
	value    string
	hasValue bool
}

// splitKeyValue splits content at the first unquoted colon. It returns nil
// when content is not a key/value line.
func (d *decoder) splitKeyValue(content string, line int) (*keyValue, error) {
	kv := &keyValue{}
	var rest string
	if i := pathKeyEnd(content); i >= 0 && content[i] == colon {
		key, steps, err := parsePathKey(content[:i], line)
		if err != nil {
			return nil, err
		}
		kv.key, kv.steps = key, steps
		rest = content[i+1:]
	} else if content != "" && content[0] == doubleQuote {
		key, end, err := parseQuotedToken(content, 0, line)
		if err != nil {
			return nil, err
		}
		if end >= len(content) || content[end] != colon {
			return nil, nil
		}
		kv.key, kv.quoted = key, true
		rest = content[end+1:]
	} else {
		i := strings.IndexByte(content, colon)
		if i < 0 {
			return nil, nil
		}
		key := content[:i]
		if trimmed := strings.TrimSpace(key); trimmed != key {
			if d.strict {
				return nil, decodeErrorf(MalformedKeyToken, line, "whitespace around key %q", key)
			}
			key = trimmed
		}
		if key == "" || strings.ContainsAny(key, " \t\"[]{}") {
			return nil, decodeErrorf(MalformedKeyToken, line, "invalid key %q", key)
		}
		kv.key = key
		rest = content[i+1:]
	}

	switch {
	case strings.HasPrefix(rest, string(space)):
		kv.value = rest[1:]
	case rest != "" && d.strict:
		return nil, decodeErrorf(MalformedValueToken, line, "missing space after colon in %q", content)
	default:
		kv.value = rest
	}
	if strings.TrimSpace(kv.value) != "" {
		kv.hasValue = true
	} else if kv.value != "" && d.strict {
		return nil, decodeErrorf(MalformedValueToken, line, "trailing whitespace after key %q", kv.key)
	}
	return kv, nil
}

// ============================================================
// Arrays
// ============================================================

// decodeArray decodes the body of the array announced by hl. The header
// line has already been consumed; rows and items are expected at bodyDepth.
func (d *decoder) decodeArray(hl *headerLine, line, bodyDepth int) (*Value, error) {
	h := hl.header
	switch {
	case hl.hasInline:
		if len(h.Fields) > 0 {
			return nil, newDecodeError(UnexpectedContent, line, "tabular header followed by inline values")
		}
		return d.decodeInline(h, hl.inline, line)
	case len(h.Fields) > 0:
		return d.decodeTabular(h, line, bodyDepth)
	default:
		return d.decodeList(h, line, bodyDepth)
	}
}

func (d *decoder) decodeInline(h ArrayHeader, inline string, line int) (*Value, error) {
	tokens, err := splitDelimited(inline, h.Delimiter, line)
	if err != nil {
		return nil, err
	}
	if len(tokens) != h.Length {
		return nil, decodeErrorf(DeclaredLengthMismatch, line, "header declares %d values, found %d", h.Length, len(tokens))
	}
	items := make([]*Value, len(tokens))
	for i, tok := range tokens {
		v, err := parsePrimitiveToken(tok, line, d.strict)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return Array(items...), nil
}

func (d *decoder) decodeTabular(h ArrayHeader, line, depth int) (*Value, error) {
	start := d.c.lastConsumed()
	rows := make([]*Value, 0, h.Length)
	for len(rows) < h.Length {
		l, ok := d.c.peek()
		if !ok || l.Depth < depth {
			break
		}
		if l.Depth > depth {
			return nil, decodeErrorf(MalformedIndent, l.number(), "expected depth %d, got %d", depth, l.Depth)
		}
		d.c.advance()

		tokens, err := splitDelimited(l.Content, h.Delimiter, l.number())
		if err != nil {
			return nil, err
		}
		if len(tokens) != len(h.Fields) {
			return nil, decodeErrorf(DeclaredLengthMismatch, l.number(), "row has %d values, header declares %d fields", len(tokens), len(h.Fields))
		}
		obj := NewObject()
		for i, field := range h.Fields {
			v, err := parsePrimitiveToken(tokens[i], l.number(), d.strict)
			if err != nil {
				return nil, err
			}
			if err := d.setField(obj, field, h.fieldQuoted[i], nil, v, line); err != nil {
				return nil, err
			}
		}
		rows = append(rows, ObjectValue(obj))
	}
	if len(rows) != h.Length {
		return nil, decodeErrorf(DeclaredLengthMismatch, line, "header declares %d rows, found %d", h.Length, len(rows))
	}
	if err := d.checkBody(start, depth, false); err != nil {
		return nil, err
	}
	return Array(rows...), nil
}

func (d *decoder) decodeList(h ArrayHeader, line, depth int) (*Value, error) {
	start := d.c.lastConsumed()
	items := make([]*Value, 0, h.Length)
	for len(items) < h.Length {
		l, ok := d.c.peek()
		if !ok || l.Depth < depth {
			break
		}
		if l.Depth > depth {
			return nil, decodeErrorf(MalformedIndent, l.number(), "expected depth %d, got %d", depth, l.Depth)
		}
		if !l.isListItem() {
			return nil, decodeErrorf(UnexpectedContent, l.number(), "expected list item, got %q", l.Content)
		}
		d.c.advance()
		v, err := d.decodeListItem(l, depth)
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if len(items) != h.Length {
		return nil, decodeErrorf(DeclaredLengthMismatch, line, "header declares %d items, found %d", h.Length, len(items))
	}
	if err := d.checkBody(start, depth, true); err != nil {
		return nil, err
	}
	return Array(items...), nil
}

// checkBody validates what surrounds an array body that started after line
// start. Strict mode rejects blank lines inside the body and further rows or
// items at depth; otherwise surplus entries are skipped with their children.
func (d *decoder) checkBody(start, depth int, list bool) error {
	surplus := func() (ParsedLine, bool) {
		l, ok := d.c.peek()
		if !ok || l.Depth < depth {
			return l, false
		}
		if list {
			return l, l.Depth == depth && l.isListItem()
		}
		return l, true
	}

	if !d.strict {
		for {
			if _, ok := surplus(); !ok {
				return nil
			}
			d.c.advance()
			d.c.skipDeeperThan(depth)
		}
	}

	if n, ok := d.c.firstBlankBetween(start, d.c.lastConsumed()); ok {
		return newDecodeError(BlankLineInArrayBody, n+1, "blank line inside array body")
	}
	if l, ok := surplus(); ok {
		return decodeErrorf(ExtraItemsBeyondDeclaredLength, l.number(), "unexpected %q after declared length", l.Content)
	}
	return nil
}

// decodeListItem decodes the item whose marker line l sits at depth.
func (d *decoder) decodeListItem(l ParsedLine, depth int) (*Value, error) {
	content := strings.TrimPrefix(strings.TrimPrefix(l.Content, string(listItemMarker)), string(space))
	line := l.number()
	if strings.TrimSpace(content) == "" {
		obj := NewObject()
		return ObjectValue(obj), nil
	}

	hl, err := parseArrayHeader(content, line)
	if err != nil {
		return nil, err
	}
	if hl != nil && !hl.header.HasKey {
		return d.decodeArray(hl, line, depth+1)
	}
	if hl == nil {
		kv, err := d.splitKeyValue(content, line)
		if err != nil {
			return nil, err
		}
		if kv == nil {
			return parsePrimitiveToken(content, line, d.strict)
		}
	}

	// Object item: the first field shares the marker line and its body sits
	// two levels down; the remaining fields follow one level down.
	obj := NewObject()
	if err := d.decodeField(obj, content, line, depth+2); err != nil {
		return nil, err
	}
	if err := d.decodeObjectInto(obj, depth+1); err != nil {
		return nil, err
	}
	return ObjectValue(obj), nil
}
