package toon

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// segmentPattern splits one dot-separated path segment into its key name and
// trailing -N index suffixes.
var (
	segmentPattern     = regexp.MustCompile(`^(.*?)((?:-\d+)*)$`)
	indexSuffixPattern = regexp.MustCompile(`^(?:-\d+)*$`)
)

// FlattenToPath collapses v into a flat object keyed by paths: object keys
// are joined with '.', array indices are appended as -N. Leaves are
// primitives and empty containers. A primitive or empty-array root is stored
// under the empty path; an empty root object flattens to an empty object.
func FlattenToPath(v *Value) *Object {
	flat := NewObject()
	if v.Kind() == KindObject && v.Len() == 0 {
		return flat
	}
	flattenInto(flat, "", true, v)
	return flat
}

func flattenInto(flat *Object, path string, root bool, v *Value) {
	switch {
	case v.Kind() == KindObject && v.Len() > 0:
		for _, f := range v.objVal.Fields() {
			p := f.Key
			if !root {
				p = path + string(pathSeparator) + f.Key
			}
			flattenInto(flat, p, false, f.Value)
		}
	case v.Kind() == KindArray && v.Len() > 0:
		for i, item := range v.arrVal {
			flattenInto(flat, path+string(indexSeparator)+strconv.Itoa(i), false, item)
		}
	default:
		if v == nil {
			v = Null()
		}
		flat.Set(path, v)
	}
}

// pathStep is one move down the tree: into an object key or an array index.
type pathStep struct {
	key   string
	index int
	isIdx bool
}

func parsePath(path string) []pathStep {
	if path == "" {
		return nil
	}
	var steps []pathStep
	for i, seg := range strings.Split(path, string(pathSeparator)) {
		steps = append(steps, segmentSteps(seg, i == 0)...)
	}
	return steps
}

// segmentSteps parses one bare segment. A leading segment made only of index
// suffixes addresses a root array.
func segmentSteps(seg string, first bool) []pathStep {
	m := segmentPattern.FindStringSubmatch(seg)
	name, suffix := m[1], m[2]
	var steps []pathStep
	if name != "" || !first || suffix == "" {
		steps = append(steps, pathStep{key: name})
	}
	idx, ok := indexSteps(suffix)
	if !ok {
		// Too large to be an index; keep the segment as a literal key.
		return []pathStep{{key: seg}}
	}
	return append(steps, idx...)
}

// indexSteps parses a "-N-M" suffix. It fails when an index overflows int.
func indexSteps(suffix string) ([]pathStep, bool) {
	if suffix == "" {
		return nil, true
	}
	var steps []pathStep
	for _, n := range strings.Split(suffix[1:], string(indexSeparator)) {
		idx, err := strconv.Atoi(n)
		if err != nil {
			return nil, false
		}
		steps = append(steps, pathStep{index: idx, isIdx: true})
	}
	return steps, true
}

// encodePathKey writes a flattened path with every segment name that cannot
// stand bare quoted on its own, as in user."first name".tags-0.
func encodePathKey(path string) string {
	segs := strings.Split(path, string(pathSeparator))
	for i, seg := range segs {
		m := segmentPattern.FindStringSubmatch(seg)
		name, suffix := m[1], m[2]
		if bareKeyPattern.MatchString(name) || (name == "" && suffix != "") {
			continue
		}
		segs[i] = quoteString(name) + suffix
	}
	return strings.Join(segs, string(pathSeparator))
}

// pathKeyEnd returns the index of the first colon or space outside quotes
// when content starts with a key mixing bare and quoted segments, or -1.
func pathKeyEnd(content string) int {
	quoted, bare := false, false
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case doubleQuote:
			end := findClosingQuote(content, i)
			if end < 0 {
				return -1
			}
			i = end
			quoted = true
		case colon, space:
			if quoted && bare {
				return i
			}
			return -1
		default:
			bare = true
		}
	}
	return -1
}

// parsePathKey parses a key such as user."first name"-0.city into the path
// string FlattenToPath would produce and the steps it stands for. Quoted
// segment names are never split.
func parsePathKey(raw string, line int) (string, []pathStep, error) {
	var segs []string
	var steps []pathStep
	pos := 0
	for first := true; ; first = false {
		rest := raw[pos:]
		if rest != "" && rest[0] == doubleQuote {
			name, end, err := parseQuotedToken(raw, pos, line)
			if err != nil {
				return "", nil, err
			}
			suffix := raw[end:]
			if i := strings.IndexByte(suffix, pathSeparator); i >= 0 {
				suffix = suffix[:i]
			}
			if !indexSuffixPattern.MatchString(suffix) {
				return "", nil, decodeErrorf(MalformedKeyToken, line, "unexpected characters after quoted segment in key %q", raw)
			}
			if idx, ok := indexSteps(suffix); ok {
				steps = append(append(steps, pathStep{key: name}), idx...)
			} else {
				steps = append(steps, pathStep{key: name + suffix})
			}
			segs = append(segs, name+suffix)
			pos = end + len(suffix)
		} else {
			seg := rest
			if i := strings.IndexByte(seg, pathSeparator); i >= 0 {
				seg = seg[:i]
			}
			if strings.ContainsAny(seg, "\"\t[]{}") {
				return "", nil, decodeErrorf(MalformedKeyToken, line, "invalid segment %q in key %q", seg, raw)
			}
			steps = append(steps, segmentSteps(seg, first)...)
			segs = append(segs, seg)
			pos += len(seg)
		}
		if pos == len(raw) {
			return strings.Join(segs, string(pathSeparator)), steps, nil
		}
		pos++ // separator
	}
}

// ExpandFromPath rebuilds a tree from a flat path object, inverting
// FlattenToPath. Keys marked quoted on flat are taken literally, and keys
// decoded from partly quoted paths keep their quoted segments whole.
//
// When two paths disagree about what sits at a location, strict mode returns
// a StructuralPathConflict error; otherwise the later path wins. Array gaps
// are filled with null.
func ExpandFromPath(flat *Object, strict bool) (*Value, error) {
	e := &expander{strict: strict, owned: make(map[*Value]struct{})}
	var root *Value
	for _, f := range flat.Fields() {
		steps, ok := flat.pathSteps(f.Key)
		switch {
		case ok:
		case flat.IsQuoted(f.Key):
			steps = []pathStep{{key: f.Key}}
		default:
			steps = parsePath(f.Key)
		}
		if err := e.assign(&root, steps, f.Value, f.Key); err != nil {
			return nil, err
		}
	}
	if root == nil {
		return ObjectValue(NewObject()), nil
	}
	fillGaps(root)
	return root, nil
}

// expander builds the tree for ExpandFromPath. owned holds the containers it
// created; any other container came from the input and is copied before it
// is grown.
type expander struct {
	strict bool
	owned  map[*Value]struct{}
}

func (e *expander) assign(slot **Value, steps []pathStep, leaf *Value, path string) error {
	cur := slot
	for _, st := range steps {
		if st.isIdx {
			if err := e.ensureContainer(cur, KindArray, path); err != nil {
				return err
			}
			arr := *cur
			for len(arr.arrVal) <= st.index {
				arr.arrVal = append(arr.arrVal, nil)
			}
			cur = &arr.arrVal[st.index]
			continue
		}
		if err := e.ensureContainer(cur, KindObject, path); err != nil {
			return err
		}
		cur = (*cur).objVal.slot(st.key)
	}

	if leaf == nil {
		leaf = Null()
	}
	existing := *cur
	switch {
	case existing == nil:
	case existing.Kind() == leaf.Kind() && leaf.IsContainer() && leaf.Len() == 0:
		// An empty container leaf adds nothing to a container already built here.
		return nil
	case e.strict:
		return conflictError(path, existing, leaf)
	}
	*cur = leaf
	return nil
}

// ensureContainer makes *slot a container of kind owned by e, creating it
// when empty and copying it when it came from the input.
func (e *expander) ensureContainer(slot **Value, kind Kind, path string) error {
	cur := *slot
	switch {
	case cur == nil, cur.Kind() == kind && cur.Len() == 0:
	case cur.Kind() == kind:
		if _, ok := e.owned[cur]; !ok {
			*slot = e.own(shallowCopy(cur))
		}
		return nil
	case e.strict:
		return &DecodeError{
			Kind:    StructuralPathConflict,
			Path:    path,
			Message: "path needs " + kind.String() + " where " + cur.Kind().String() + " already exists",
		}
	}
	if kind == KindArray {
		*slot = e.own(Array())
	} else {
		*slot = e.own(ObjectValue(NewObject()))
	}
	return nil
}

func (e *expander) own(v *Value) *Value {
	e.owned[v] = struct{}{}
	return v
}

// shallowCopy copies a container's top level; children are shared.
func shallowCopy(v *Value) *Value {
	if v.Kind() == KindArray {
		return Array(append([]*Value(nil), v.arrVal...)...)
	}
	obj := NewObject()
	for _, f := range v.objVal.Fields() {
		obj.Set(f.Key, f.Value)
	}
	for _, k := range v.objVal.QuotedKeys() {
		obj.MarkQuoted(k)
	}
	return ObjectValue(obj)
}

func conflictError(path string, existing, leaf *Value) error {
	return &DecodeError{
		Kind:    StructuralPathConflict,
		Path:    path,
		Message: "cannot store " + leaf.Kind().String() + " over existing " + existing.Kind().String(),
	}
}

func fillGaps(v *Value) {
	switch v.Kind() {
	case KindArray:
		for i, item := range v.arrVal {
			if item == nil {
				v.arrVal[i] = Null()
				continue
			}
			fillGaps(item)
		}
	case KindObject:
		for _, f := range v.objVal.Fields() {
			fillGaps(f.Value)
		}
	}
}

// CompactPaths renders a flat path object as one line, {path:value,...}.
// Strings are percent-escaped so the separators stay unambiguous; other
// values use their JSON form.
func CompactPaths(flat *Object) string {
	var b strings.Builder
	b.WriteByte(openBrace)
	for i, f := range flat.Fields() {
		if i > 0 {
			b.WriteRune(rune(Comma))
		}
		b.WriteString(f.Key)
		b.WriteByte(colon)
		if f.Value.Kind() == KindString {
			b.WriteString(url.PathEscape(f.Value.strVal))
			continue
		}
		b.WriteString(f.Value.String())
	}
	b.WriteByte(closeBrace)
	return b.String()
}

// HasNesting reports whether flattening v would change its shape: an object
// with a container value, or an array holding such an object.
func HasNesting(v *Value) bool {
	switch v.Kind() {
	case KindObject:
		return hasContainerValue(v.objVal)
	case KindArray:
		for _, item := range v.arrVal {
			if item.Kind() == KindObject && hasContainerValue(item.objVal) {
				return true
			}
		}
	}
	return false
}

func hasContainerValue(obj *Object) bool {
	for _, f := range obj.Fields() {
		if f.Value.IsContainer() {
			return true
		}
	}
	return false
}
