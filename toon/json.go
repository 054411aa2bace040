package toon

import (
	"bytes"

	gojson "github.com/goccy/go-json"
)

// MarshalJSON renders the value as JSON, keeping object key order.
func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v *Value) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString(nullLiteral)
	case KindBool:
		if v.boolVal {
			buf.WriteString(trueLiteral)
		} else {
			buf.WriteString(falseLiteral)
		}
	case KindNumber:
		buf.WriteString(formatNumber(v.numVal))
	case KindString:
		return writeJSONString(buf, v.strVal)
	case KindArray:
		buf.WriteByte('[')
		for i, item := range v.arrVal {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindObject:
		buf.WriteByte('{')
		for i, f := range v.objVal.Fields() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, f.Key); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, f.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	b, err := gojson.Marshal(s)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// Interface converts the tree into plain Go values: nil, bool, float64,
// string, map[string]any and []any. Object key order is lost.
func (v *Value) Interface() any {
	switch v.Kind() {
	case KindBool:
		return v.boolVal
	case KindNumber:
		return v.numVal
	case KindString:
		return v.strVal
	case KindArray:
		out := make([]any, len(v.arrVal))
		for i, item := range v.arrVal {
			out[i] = item.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.objVal.Len())
		for _, f := range v.objVal.Fields() {
			out[f.Key] = f.Value.Interface()
		}
		return out
	}
	return nil
}
