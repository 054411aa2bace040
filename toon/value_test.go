package toon

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber_NonFiniteAndNegativeZero(t *testing.T) {
	assert.True(t, Number(math.NaN()).IsNull())
	assert.True(t, Number(math.Inf(1)).IsNull())
	assert.True(t, Number(math.Inf(-1)).IsNull())

	z := Number(math.Copysign(0, -1))
	f, err := z.AsNumber()
	require.NoError(t, err)
	assert.False(t, math.Signbit(f))
}

func TestValue_Accessors(t *testing.T) {
	_, err := String("x").AsNumber()
	assert.Error(t, err)

	var nilValue *Value
	assert.True(t, nilValue.IsNull())
	assert.Equal(t, KindNull, nilValue.Kind())
	assert.True(t, nilValue.IsPrimitive())

	a := arr(1, 2, 3)
	assert.Equal(t, 3, a.Len())
	assert.True(t, a.IsContainer())
	items, err := a.AsArray()
	require.NoError(t, err)
	assert.Len(t, items, 3)
}

func TestObject_SetKeepsPosition(t *testing.T) {
	o := NewObject()
	o.Set("b", Number(1))
	o.Set("a", Number(2))
	o.Set("b", Number(3))

	assert.Equal(t, []string{"b", "a"}, o.Keys())
	v, ok := o.Get("b")
	require.True(t, ok)
	assertValue(t, Number(3), v)
}

func TestObject_QuotedKeys(t *testing.T) {
	o := ObjectOf(Field{Key: "a.b", Value: Number(1)}, Field{Key: "c", Value: Number(2)})
	assert.False(t, o.IsQuoted("a.b"))
	o.MarkQuoted("a.b")
	assert.True(t, o.IsQuoted("a.b"))
	assert.Equal(t, []string{"a.b"}, o.QuotedKeys())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b *Value
		want bool
	}{
		{"same object", obj("a", 1, "b", "x"), obj("a", 1, "b", "x"), true},
		{"key order matters", obj("a", 1, "b", 2), obj("b", 2, "a", 1), false},
		{"nested arrays", arr(arr(1), obj()), arr(arr(1), obj()), true},
		{"number vs string", Number(1), String("1"), false},
		{"nil is null", nil, Null(), true},
		{"length differs", arr(1), arr(1, 2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.a, tt.b))
		})
	}
}

func TestValue_MarshalJSONKeepsOrder(t *testing.T) {
	v := obj("z", 1, "a", arr(true, nil, "x\"y"), "m", obj())
	b, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"z":1,"a":[true,null,"x\"y"],"m":{}}`, string(b))
	assert.Equal(t, string(b), v.String())
}

func TestValue_Interface(t *testing.T) {
	v := obj("n", 1.5, "list", arr("a", nil))
	assert.Equal(t, map[string]any{"n": 1.5, "list": []any{"a", nil}}, v.Interface())
}

func TestDecodeError_Is(t *testing.T) {
	err := decodeErrorf(DeclaredLengthMismatch, 3, "header declares %d values, found %d", 5, 3)
	assert.True(t, errors.Is(err, ErrDeclaredLengthMismatch))
	assert.False(t, errors.Is(err, ErrDuplicateKey))
	assert.Equal(t, "toon: declared length mismatch at line 3: header declares 5 values, found 3", err.Error())

	wrapped := errors.Join(errors.New("context"), err)
	de, ok := IsDecodeError(wrapped)
	require.True(t, ok)
	assert.Equal(t, 3, de.Line)
}
