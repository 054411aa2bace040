package toon

import (
	"fmt"
	"math"
)

// Kind identifies which member of the value model a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is one node of the canonical value tree.
// A nil *Value is treated as null everywhere.
type Value struct {
	kind Kind

	boolVal bool
	numVal  float64
	strVal  string
	objVal  *Object
	arrVal  []*Value
}

// ============================================================
// Constructors
// ============================================================

// Null creates a null value.
func Null() *Value {
	return &Value{kind: KindNull}
}

// Bool creates a boolean value.
func Bool(b bool) *Value {
	return &Value{kind: KindBool, boolVal: b}
}

// Number creates a number value. Non-finite input becomes null and -0 becomes 0.
func Number(f float64) *Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Null()
	}
	if f == 0 {
		f = 0
	}
	return &Value{kind: KindNumber, numVal: f}
}

// String creates a string value.
func String(s string) *Value {
	return &Value{kind: KindString, strVal: s}
}

// ObjectValue wraps an object. A nil object becomes an empty one.
func ObjectValue(o *Object) *Value {
	if o == nil {
		o = NewObject()
	}
	return &Value{kind: KindObject, objVal: o}
}

// Array creates an array value.
func Array(items ...*Value) *Value {
	if items == nil {
		items = []*Value{}
	}
	return &Value{kind: KindArray, arrVal: items}
}

// ============================================================
// Accessors
// ============================================================

// Kind returns the value kind.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is null.
func (v *Value) IsNull() bool {
	return v == nil || v.kind == KindNull
}

// IsPrimitive reports whether v is null, a boolean, a number or a string.
func (v *Value) IsPrimitive() bool {
	switch v.Kind() {
	case KindNull, KindBool, KindNumber, KindString:
		return true
	}
	return false
}

// IsContainer reports whether v is an object or an array.
func (v *Value) IsContainer() bool {
	k := v.Kind()
	return k == KindObject || k == KindArray
}

// AsBool returns the boolean value.
func (v *Value) AsBool() (bool, error) {
	if v.Kind() != KindBool {
		return false, fmt.Errorf("toon: expected bool, got %s", v.Kind())
	}
	return v.boolVal, nil
}

// AsNumber returns the numeric value.
func (v *Value) AsNumber() (float64, error) {
	if v.Kind() != KindNumber {
		return 0, fmt.Errorf("toon: expected number, got %s", v.Kind())
	}
	return v.numVal, nil
}

// AsString returns the string value.
func (v *Value) AsString() (string, error) {
	if v.Kind() != KindString {
		return "", fmt.Errorf("toon: expected string, got %s", v.Kind())
	}
	return v.strVal, nil
}

// AsObject returns the object.
func (v *Value) AsObject() (*Object, error) {
	if v.Kind() != KindObject {
		return nil, fmt.Errorf("toon: expected object, got %s", v.Kind())
	}
	return v.objVal, nil
}

// AsArray returns the array elements.
func (v *Value) AsArray() ([]*Value, error) {
	if v.Kind() != KindArray {
		return nil, fmt.Errorf("toon: expected array, got %s", v.Kind())
	}
	return v.arrVal, nil
}

// Len returns the number of elements of an array or entries of an object, 0 otherwise.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.arrVal)
	case KindObject:
		return v.objVal.Len()
	}
	return 0
}

// String implements fmt.Stringer with the ordered JSON rendering.
func (v *Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("<invalid: %v>", err)
	}
	return string(b)
}

// ============================================================
// Object
// ============================================================

// Field is one key/value entry of an Object.
type Field struct {
	Key   string
	Value *Value
}

// Object is an insertion-ordered mapping of string keys to values.
//
// Objects produced by the decoder also remember which keys were written
// quoted in the source text, so path expansion can leave them intact.
type Object struct {
	fields []Field
	index  map[string]int
	quoted map[string]struct{}
	// paths holds the steps of keys written as partly quoted paths.
	paths map[string][]pathStep
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// ObjectOf builds an object from fields in order. Later duplicates replace earlier values.
func ObjectOf(fields ...Field) *Object {
	o := NewObject()
	for _, f := range fields {
		o.Set(f.Key, f.Value)
	}
	return o
}

// Len returns the number of fields.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.fields)
}

// Set inserts or replaces a field. Replacing keeps the original position.
func (o *Object) Set(key string, v *Value) {
	if v == nil {
		v = Null()
	}
	if i, ok := o.index[key]; ok {
		o.fields[i].Value = v
		return
	}
	o.index[key] = len(o.fields)
	o.fields = append(o.fields, Field{Key: key, Value: v})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (*Value, bool) {
	if o == nil {
		return nil, false
	}
	i, ok := o.index[key]
	if !ok {
		return nil, false
	}
	return o.fields[i].Value, true
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, len(o.fields))
	for i, f := range o.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns the entries in insertion order. The slice must not be modified.
func (o *Object) Fields() []Field {
	if o == nil {
		return nil
	}
	return o.fields
}

// MarkQuoted records that key was written as a quoted token.
func (o *Object) MarkQuoted(key string) {
	if o.quoted == nil {
		o.quoted = make(map[string]struct{})
	}
	o.quoted[key] = struct{}{}
}

// IsQuoted reports whether key was written as a quoted token.
func (o *Object) IsQuoted(key string) bool {
	if o == nil || o.quoted == nil {
		return false
	}
	_, ok := o.quoted[key]
	return ok
}

// QuotedKeys returns the quoted keys in insertion order.
func (o *Object) QuotedKeys() []string {
	if o == nil || len(o.quoted) == 0 {
		return nil
	}
	var keys []string
	for _, f := range o.fields {
		if _, ok := o.quoted[f.Key]; ok {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// setPathSteps records the steps of a key written as a partly quoted path.
// Nil steps clear the record.
func (o *Object) setPathSteps(key string, steps []pathStep) {
	if steps == nil {
		delete(o.paths, key)
		return
	}
	if o.paths == nil {
		o.paths = make(map[string][]pathStep)
	}
	o.paths[key] = steps
}

func (o *Object) pathSteps(key string) ([]pathStep, bool) {
	if o == nil {
		return nil, false
	}
	steps, ok := o.paths[key]
	return steps, ok
}

// slot returns a pointer to the value stored under key, inserting a nil slot if absent.
func (o *Object) slot(key string) **Value {
	i, ok := o.index[key]
	if !ok {
		i = len(o.fields)
		o.index[key] = i
		o.fields = append(o.fields, Field{Key: key})
	}
	return &o.fields[i].Value
}

// ============================================================
// Equality
// ============================================================

// Equal reports whether a and b are the same tree. Object key order is
// significant; quoted-key markers are not.
func Equal(a, b *Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindNumber:
		return a.numVal == b.numVal
	case KindString:
		return a.strVal == b.strVal
	case KindArray:
		if len(a.arrVal) != len(b.arrVal) {
			return false
		}
		for i := range a.arrVal {
			if !Equal(a.arrVal[i], b.arrVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		af, bf := a.objVal.Fields(), b.objVal.Fields()
		if len(af) != len(bf) {
			return false
		}
		for i := range af {
			if af[i].Key != bf[i].Key || !Equal(af[i].Value, bf[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}
