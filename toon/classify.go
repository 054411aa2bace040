package toon

// ArrayKind is the encoding an array receives. The encoder picks it once per
// array through ClassifyArray; the decoder reconstructs the same shapes.
type ArrayKind int

const (
	ArrayEmpty ArrayKind = iota
	ArrayOfPrimitives
	ArrayOfArrays
	ArrayTabular
	ArrayMixed
)

// String returns the kind name.
func (k ArrayKind) String() string {
	switch k {
	case ArrayEmpty:
		return "empty"
	case ArrayOfPrimitives:
		return "primitives"
	case ArrayOfArrays:
		return "arrays"
	case ArrayTabular:
		return "tabular"
	case ArrayMixed:
		return "mixed"
	}
	return "unknown"
}

// ClassifyArray decides how items are encoded. For ArrayTabular it also
// returns the field list, taken from the first row.
//
// An array of arrays only qualifies when every sub-array holds primitives;
// anything else inside falls through to ArrayMixed. Tabular rows must carry
// the same keys in the same order with primitive values only.
func ClassifyArray(items []*Value) (ArrayKind, []string) {
	if len(items) == 0 {
		return ArrayEmpty, nil
	}
	if allPrimitives(items) {
		return ArrayOfPrimitives, nil
	}
	if allPrimitiveArrays(items) {
		return ArrayOfArrays, nil
	}
	if fields := tabularFields(items); fields != nil {
		return ArrayTabular, fields
	}
	return ArrayMixed, nil
}

func allPrimitives(items []*Value) bool {
	for _, item := range items {
		if !item.IsPrimitive() {
			return false
		}
	}
	return true
}

func allPrimitiveArrays(items []*Value) bool {
	for _, item := range items {
		if item.Kind() != KindArray || !allPrimitives(item.arrVal) {
			return false
		}
	}
	return true
}

func tabularFields(rows []*Value) []string {
	first := rows[0]
	if first.Kind() != KindObject || first.objVal.Len() == 0 {
		return nil
	}
	fields := first.objVal.Keys()
	for _, row := range rows {
		if row.Kind() != KindObject {
			return nil
		}
		rf := row.objVal.Fields()
		if len(rf) != len(fields) {
			return nil
		}
		for i, f := range rf {
			if f.Key != fields[i] || !f.Value.IsPrimitive() {
				return nil
			}
		}
	}
	return fields
}
