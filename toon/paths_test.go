package toon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenToPath(t *testing.T) {
	tests := []struct {
		name string
		in   *Value
		want *Value
	}{
		{
			name: "nested objects",
			in:   obj("user", obj("name", "John", "address", obj("city", "NYC", "zip", "10001"))),
			want: obj("user.name", "John", "user.address.city", "NYC", "user.address.zip", "10001"),
		},
		{
			name: "arrays",
			in:   obj("a", arr(1, obj("b", 2, "c", arr("x", "y")))),
			want: obj("a-0", 1, "a-1.b", 2, "a-1.c-0", "x", "a-1.c-1", "y"),
		},
		{
			name: "nested arrays",
			in:   obj("m", arr(arr(1, 2), arr(3))),
			want: obj("m-0-0", 1, "m-0-1", 2, "m-1-0", 3),
		},
		{
			name: "root array",
			in:   arr("a", obj("b", true)),
			want: obj("-0", "a", "-1.b", true),
		},
		{
			name: "empty containers are leaves",
			in:   obj("a", obj(), "b", arr(), "c", obj("d", nil)),
			want: obj("a", obj(), "b", arr(), "c.d", nil),
		},
		{
			name: "root primitive",
			in:   Number(5),
			want: obj("", 5),
		},
		{
			name: "empty root object",
			in:   obj(),
			want: obj(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertValue(t, tt.want, ObjectValue(FlattenToPath(tt.in)))
		})
	}
}

func TestExpandFromPath_InvertsFlatten(t *testing.T) {
	trees := []*Value{
		obj("user", obj("name", "John", "address", obj("city", "NYC", "zip", "10001"))),
		obj("a", arr(1, obj("b", 2, "c", arr("x", "y"))), "z", nil),
		obj("m", arr(arr(1, 2), arr(3)), "e", obj(), "f", arr()),
		arr("a", obj("b", true), arr(1)),
		obj("orders", arr(
			obj("id", 1, "items", arr(obj("sku", "A", "qty", 2))),
			obj("id", 2, "items", arr()),
		)),
		Number(5),
		obj(),
	}
	for _, tree := range trees {
		t.Run(tree.String(), func(t *testing.T) {
			got, err := ExpandFromPath(FlattenToPath(tree), true)
			require.NoError(t, err)
			assertValue(t, tree, got)
		})
	}
}

func TestExpandFromPath_FillsGaps(t *testing.T) {
	got, err := ExpandFromPath(obj("a-2", 1, "a-0.b", "x").objVal, true)
	require.NoError(t, err)
	assertValue(t, obj("a", arr(obj("b", "x"), nil, 1)), got)
}

func TestExpandFromPath_Conflicts(t *testing.T) {
	tests := []struct {
		name  string
		flat  *Value
		path  string
		lossy *Value
	}{
		{
			name:  "leaf then container",
			flat:  obj("a", 1, "a.b", 2),
			path:  "a.b",
			lossy: obj("a", obj("b", 2)),
		},
		{
			name:  "container then leaf",
			flat:  obj("a.b", 2, "a", 1),
			path:  "a",
			lossy: obj("a", 1),
		},
		{
			name:  "object then array",
			flat:  obj("a.b", 1, "a-0", 2),
			path:  "a-0",
			lossy: obj("a", arr(2)),
		},
		{
			name:  "same index twice",
			flat:  obj("a-0", 1, "a-00", 2),
			path:  "a-00",
			lossy: obj("a", arr(2)),
		},
		{
			name:  "root kinds disagree",
			flat:  obj("-0", 1, "b", 2),
			path:  "b",
			lossy: obj("b", 2),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExpandFromPath(tt.flat.objVal, true)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrStructuralPathConflict))
			de, ok := IsDecodeError(err)
			require.True(t, ok)
			assert.Equal(t, tt.path, de.Path)

			got, err := ExpandFromPath(tt.flat.objVal, false)
			require.NoError(t, err)
			assertValue(t, tt.lossy, got)
		})
	}
}

func TestExpandFromPath_EmptyContainerMerges(t *testing.T) {
	got, err := ExpandFromPath(obj("a", obj(), "a.b", 1).objVal, true)
	require.NoError(t, err)
	assertValue(t, obj("a", obj("b", 1)), got)
}

func TestExpandFromPath_QuotedKeysStayLiteral(t *testing.T) {
	decoded, err := Decode("\"a.b\": 1\nc.d: 2\n\"e-0\": 3")
	require.NoError(t, err)

	flat, err := decoded.AsObject()
	require.NoError(t, err)
	got, err := ExpandFromPath(flat, true)
	require.NoError(t, err)
	assertValue(t, obj("a.b", 1, "c", obj("d", 2), "e-0", 3), got)
}

func TestPathPipeline(t *testing.T) {
	tree := obj(
		"user", obj("name", "John", "roles", arr("admin", "dev")),
		"orders", arr(obj("id", 1, "total", 9.5), obj("id", 2, "total", 3)),
		"empty", obj(),
	)

	flat := FlattenToPath(tree)
	text, err := EncodeWithOptions(ObjectValue(flat), &EncodeOptions{PathKeys: true})
	require.NoError(t, err)
	assert.Contains(t, text, "user.roles-1: dev")
	assert.Contains(t, text, "orders-0.total: 9.5")

	decoded, err := Decode(text)
	require.NoError(t, err)
	decodedFlat, err := decoded.AsObject()
	require.NoError(t, err)

	got, err := ExpandFromPath(decodedFlat, true)
	require.NoError(t, err)
	assertValue(t, tree, got)
}

func TestPathPipeline_QuotedSegments(t *testing.T) {
	tree := obj(
		"user", obj("first name", "John", "city", "NYC"),
		"tags x", arr("a", "b"),
		"e", obj("", 1),
		"x", obj("odd key", arr()),
	)

	flat := FlattenToPath(tree)
	text, err := EncodeWithOptions(ObjectValue(flat), &EncodeOptions{PathKeys: true})
	require.NoError(t, err)
	assert.Contains(t, text, "user.\"first name\": John\n")
	assert.Contains(t, text, "user.city: NYC\n")
	assert.Contains(t, text, "\"tags x\"-1: b\n")
	assert.Contains(t, text, "e.\"\": 1\n")
	assert.Contains(t, text, "x.\"odd key\" [0];\n")

	decoded, err := Decode(text)
	require.NoError(t, err)
	decodedFlat, err := decoded.AsObject()
	require.NoError(t, err)
	assertValue(t, ObjectValue(flat), decoded)

	got, err := ExpandFromPath(decodedFlat, true)
	require.NoError(t, err)
	assertValue(t, tree, got)
}

func TestDecode_PathKeys(t *testing.T) {
	tests := []struct {
		name string
		text string
		flat *Value
		want *Value
	}{
		{
			name: "quoted last segment",
			text: "user.\"first name\": John",
			flat: obj("user.first name", "John"),
			want: obj("user", obj("first name", "John")),
		},
		{
			name: "quoted segment keeps its dot",
			text: "a.\"b.c\".d: 1",
			flat: obj("a.b.c.d", 1),
			want: obj("a", obj("b.c", obj("d", 1))),
		},
		{
			name: "index after quoted segment",
			text: "\"my list\"-0-1: 2",
			flat: obj("my list-0-1", 2),
			want: obj("my list", arr(arr(nil, 2))),
		},
		{
			name: "header after quoted segment",
			text: "a.\"b c\" [2]; 1,2",
			flat: obj("a.b c", arr(1, 2)),
			want: obj("a", obj("b c", arr(1, 2))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := Decode(tt.text)
			require.NoError(t, err)
			assertValue(t, tt.flat, decoded)

			flat, err := decoded.AsObject()
			require.NoError(t, err)
			got, err := ExpandFromPath(flat, true)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
		})
	}
}

func TestDecode_MalformedPathKeys(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"text after quoted segment", "a.\"b\"c: 1"},
		{"brace inside bare segment", "\"a\".b{c: 1"},
		{"bracket inside bare segment", "\"a\".b]: 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.text)
			assertDecodeError(t, err, MalformedKeyToken, 1)
		})
	}
}

func TestExpandFromPath_OversizedIndexIsLiteral(t *testing.T) {
	tests := []struct {
		name string
		flat *Value
		want *Value
	}{
		{
			name: "top level",
			flat: obj("a-99999999999999999999", 1),
			want: obj("a-99999999999999999999", 1),
		},
		{
			name: "nested",
			flat: obj("b.c-99999999999999999999", 2),
			want: obj("b", obj("c-99999999999999999999", 2)),
		},
		{
			name: "after a valid index",
			flat: obj("d-0.e-99999999999999999999", 3),
			want: obj("d", arr(obj("e-99999999999999999999", 3))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandFromPath(tt.flat.objVal, true)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
		})
	}
}

func TestExpandFromPath_LeavesInputUntouched(t *testing.T) {
	tests := []struct {
		name string
		flat *Value
		want *Value
	}{
		{
			name: "array leaf extended by index",
			flat: obj("a", arr(1), "a-2", 3),
			want: obj("a", arr(1, nil, 3)),
		},
		{
			name: "object leaf extended by key",
			flat: obj("o", obj("x", 1), "o.y", 2),
			want: obj("o", obj("x", 1, "y", 2)),
		},
		{
			name: "nested leaf extended twice",
			flat: obj("p", obj("q", arr(obj("r", 1))), "p.q-0.s", 2, "p.q-1", 3),
			want: obj("p", obj("q", arr(obj("r", 1, "s", 2), 3))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.flat.String()

			got, err := ExpandFromPath(tt.flat.objVal, true)
			require.NoError(t, err)
			assertValue(t, tt.want, got)
			assert.Equal(t, before, tt.flat.String())

			again, err := ExpandFromPath(tt.flat.objVal, true)
			require.NoError(t, err)
			assertValue(t, tt.want, again)
		})
	}
}

func TestCompactPaths(t *testing.T) {
	flat := FlattenToPath(obj("a", obj("b", "New York"), "c", arr(1, true), "d", nil, "e", arr()))
	assert.Equal(t, "{a.b:New%20York,c-0:1,c-1:true,d:null,e:[]}", CompactPaths(flat))
	assert.Equal(t, "{}", CompactPaths(NewObject()))
}

func TestHasNesting(t *testing.T) {
	tests := []struct {
		name string
		v    *Value
		want bool
	}{
		{"flat object", obj("a", 1, "b", "x"), false},
		{"object with object", obj("a", obj()), true},
		{"object with array", obj("a", arr(1)), true},
		{"array of flat objects", arr(obj("a", 1), obj("a", 2)), false},
		{"array with nested object", arr(obj("a", arr(1))), true},
		{"array of arrays", arr(arr(1)), false},
		{"primitive", String("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasNesting(tt.v))
		})
	}
}
