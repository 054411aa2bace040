package toon

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

var (
	timeType   = reflect.TypeOf(time.Time{})
	emptyEntry = reflect.TypeOf(struct{}{})
)

// Normalize converts an arbitrary Go value into the canonical value model.
// It never fails: anything without a JSON counterpart becomes null.
//
//   - bool and string map to themselves
//   - integers, floats and json.Number become numbers; NaN and ±Inf become null, -0 becomes 0
//   - time.Time becomes its RFC 3339 (ISO-8601) string
//   - slices and arrays become arrays; map[T]struct{} sets become arrays of their sorted keys
//   - maps become objects with stringified keys in sorted order
//   - structs become objects in field order, honouring `json` tags
//   - pointers and interfaces are followed; nil becomes null
func Normalize(v any) *Value {
	switch val := v.(type) {
	case nil:
		return Null()
	case *Value:
		if val == nil {
			return Null()
		}
		return val
	case *Object:
		return ObjectValue(val)
	case bool:
		return Bool(val)
	case string:
		return String(val)
	case json.Number:
		f, err := cast.ToFloat64E(string(val))
		if err != nil {
			return Null()
		}
		return Number(f)
	case time.Time:
		return String(val.Format(time.RFC3339Nano))
	case *time.Time:
		if val == nil {
			return Null()
		}
		return String(val.Format(time.RFC3339Nano))
	case []any:
		items := make([]*Value, len(val))
		for i, item := range val {
			items[i] = Normalize(item)
		}
		return Array(items...)
	case map[string]any:
		return normalizeMap(reflect.ValueOf(val))
	}
	return normalizeReflect(reflect.ValueOf(v))
}

func normalizeReflect(rv reflect.Value) *Value {
	if !rv.IsValid() {
		return Null()
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.String:
		return String(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(rv.Interface())
		if err != nil {
			return Null()
		}
		return Number(f)
	case reflect.Slice:
		if rv.IsNil() {
			return Null()
		}
		fallthrough
	case reflect.Array:
		items := make([]*Value, rv.Len())
		for i := range items {
			items[i] = Normalize(rv.Index(i).Interface())
		}
		return Array(items...)
	case reflect.Map:
		if rv.IsNil() {
			return Null()
		}
		if rv.Type().Elem() == emptyEntry {
			return normalizeSet(rv)
		}
		return normalizeMap(rv)
	case reflect.Struct:
		if rv.Type().ConvertibleTo(timeType) {
			return Normalize(rv.Convert(timeType).Interface())
		}
		return normalizeStruct(rv)
	}
	return Null()
}

type mapEntry struct {
	key string
	val reflect.Value
}

func sortedEntries(rv reflect.Value) []mapEntry {
	entries := make([]mapEntry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, mapEntry{key: stringifyKey(iter.Key()), val: iter.Value()})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	return entries
}

func normalizeMap(rv reflect.Value) *Value {
	obj := NewObject()
	for _, e := range sortedEntries(rv) {
		obj.Set(e.key, Normalize(e.val.Interface()))
	}
	return ObjectValue(obj)
}

func normalizeSet(rv reflect.Value) *Value {
	keys := make([]reflect.Value, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key())
	}
	sort.SliceStable(keys, func(i, j int) bool { return stringifyKey(keys[i]) < stringifyKey(keys[j]) })
	items := make([]*Value, len(keys))
	for i, k := range keys {
		items[i] = Normalize(k.Interface())
	}
	return Array(items...)
}

func stringifyKey(k reflect.Value) string {
	if k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if s, err := cast.ToStringE(k.Interface()); err == nil {
		return s
	}
	return fmt.Sprint(k.Interface())
}

func normalizeStruct(rv reflect.Value) *Value {
	obj := NewObject()
	appendStructFields(obj, rv)
	return ObjectValue(obj)
}

// appendStructFields follows encoding/json naming: exported fields only,
// `json:"-"` skipped, `omitempty` honoured, untagged embedded structs inlined.
func appendStructFields(obj *Object, rv reflect.Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		fv := rv.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		if sf.Anonymous && name == "" {
			inner := fv
			if inner.Kind() == reflect.Pointer {
				if inner.IsNil() {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				appendStructFields(obj, inner)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		if strings.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}
		if !fv.CanInterface() {
			continue
		}
		obj.Set(name, Normalize(fv.Interface()))
	}
}
