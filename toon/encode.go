package toon

// Encode renders v as TOON text with the default options.
func Encode(v *Value) (string, error) {
	return EncodeWithOptions(v, nil)
}

// EncodeWithOptions renders v as TOON text. Nil opts means DefaultEncodeOptions.
// A primitive root becomes a single-line document; an empty root object
// becomes the empty document.
func EncodeWithOptions(v *Value, opts *EncodeOptions) (string, error) {
	o := DefaultEncodeOptions()
	if opts != nil {
		o = *opts
	}
	o, err := o.resolve()
	if err != nil {
		return "", err
	}

	if v.IsPrimitive() {
		return encodePrimitive(v, o.Delimiter), nil
	}

	e := &encoder{opts: o, w: newLineWriter(o.Indent)}
	switch v.Kind() {
	case KindObject:
		e.encodeObject(v.objVal, 0)
	case KindArray:
		e.encodeArray(ArrayHeader{}, v.arrVal, 0, 1, false)
	}
	return e.w.String(), nil
}

// encoder carries the resolved options and output of one Encode call.
type encoder struct {
	opts EncodeOptions
	w    *lineWriter
}

// put writes content at depth, behind a list marker when item is set.
func (e *encoder) put(depth int, content string, item bool) {
	if item {
		e.w.pushListItem(depth, content)
		return
	}
	e.w.push(depth, content)
}

func (e *encoder) key(k string) string {
	return encodeKey(k, e.opts.PathKeys)
}

func (e *encoder) encodeObject(obj *Object, depth int) {
	for _, f := range obj.Fields() {
		e.encodeField(f.Key, f.Value, depth, depth+1, false)
	}
}

// encodeField writes one key and its value. The key line goes to lineDepth and
// any nested body to bodyDepth; the two differ by two for the first field of
// an object list item.
func (e *encoder) encodeField(key string, v *Value, lineDepth, bodyDepth int, item bool) {
	switch v.Kind() {
	case KindObject:
		e.put(lineDepth, e.key(key)+string(colon), item)
		e.encodeObject(v.objVal, bodyDepth)
	case KindArray:
		e.encodeArray(ArrayHeader{Key: key, HasKey: true}, v.arrVal, lineDepth, bodyDepth, item)
	default:
		e.put(lineDepth, e.key(key)+string(colon)+string(space)+encodePrimitive(v, e.opts.Delimiter), item)
	}
}

func (e *encoder) encodeArray(h ArrayHeader, items []*Value, lineDepth, bodyDepth int, item bool) {
	kind, fields := ClassifyArray(items)
	h.Length = len(items)
	h.Delimiter = e.opts.Delimiter
	h.HasLengthMarker = e.opts.LengthMarker

	switch kind {
	case ArrayEmpty:
		e.put(lineDepth, formatHeader(h, e.opts.PathKeys), item)
	case ArrayOfPrimitives:
		e.put(lineDepth, formatHeader(h, e.opts.PathKeys)+string(space)+joinPrimitives(items, h.Delimiter), item)
	case ArrayTabular:
		h.Fields = fields
		e.put(lineDepth, formatHeader(h, e.opts.PathKeys), item)
		for _, row := range items {
			values := make([]*Value, 0, len(fields))
			for _, f := range row.objVal.Fields() {
				values = append(values, f.Value)
			}
			e.w.push(bodyDepth, joinPrimitives(values, h.Delimiter))
		}
	default:
		// ArrayOfArrays rows are list items holding inline arrays, which is
		// what encodeListItem produces for a primitive sub-array.
		e.put(lineDepth, formatHeader(h, e.opts.PathKeys), item)
		for _, it := range items {
			e.encodeListItem(it, bodyDepth)
		}
	}
}

func (e *encoder) encodeListItem(v *Value, depth int) {
	switch v.Kind() {
	case KindArray:
		e.encodeArray(ArrayHeader{}, v.arrVal, depth, depth+1, true)
	case KindObject:
		fields := v.objVal.Fields()
		if len(fields) == 0 {
			e.w.pushListItem(depth, "")
			return
		}
		e.encodeField(fields[0].Key, fields[0].Value, depth, depth+2, true)
		for _, f := range fields[1:] {
			e.encodeField(f.Key, f.Value, depth+1, depth+2, false)
		}
	default:
		e.w.pushListItem(depth, encodePrimitive(v, e.opts.Delimiter))
	}
}
