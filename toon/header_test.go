package toon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArrayHeader(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		want       ArrayHeader
		wantInline string
	}{
		{
			name:       "keyless inline",
			content:    "[3]; a,b,c",
			want:       ArrayHeader{Length: 3, Delimiter: Comma},
			wantInline: "a,b,c",
		},
		{
			name:    "empty",
			content: "items [0];",
			want:    ArrayHeader{Key: "items", HasKey: true, Delimiter: Comma},
		},
		{
			name:    "tabular with marker and pipe",
			content: "users [#2|]{id|name};",
			want: ArrayHeader{
				Key: "users", HasKey: true, Length: 2, Delimiter: Pipe,
				Fields: []string{"id", "name"}, HasLengthMarker: true,
				fieldQuoted: []bool{false, false},
			},
		},
		{
			name:       "tab hint",
			content:    "tags [2\t]; x\ty",
			want:       ArrayHeader{Key: "tags", HasKey: true, Length: 2, Delimiter: Tab},
			wantInline: "x\ty",
		},
		{
			name:       "quoted key",
			content:    `"my key" [1]; x`,
			want:       ArrayHeader{Key: "my key", HasKey: true, KeyQuoted: true, Length: 1, Delimiter: Comma},
			wantInline: "x",
		},
		{
			name:    "quoted field",
			content: `[1]{"first name",age};`,
			want: ArrayHeader{
				Length: 1, Delimiter: Comma,
				Fields:      []string{"first name", "age"},
				fieldQuoted: []bool{true, false},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, inline, err := ParseArrayHeader(tt.content)
			require.NoError(t, err)
			require.NotNil(t, h)
			assert.Equal(t, tt.want, *h)
			assert.Equal(t, tt.wantInline, inline)
		})
	}
}

func TestParseArrayHeader_NotAHeader(t *testing.T) {
	for _, content := range []string{
		"name: Alice",
		"[x];",
		"[2]",
		"tags [2]:",
		"a: b [2];",
		`"hello"`,
		"plain text",
		"[]; x",
	} {
		h, _, err := ParseArrayHeader(content)
		require.NoError(t, err, content)
		assert.Nil(t, h, content)
	}
}

func TestParseArrayHeader_MalformedFields(t *testing.T) {
	_, _, err := ParseArrayHeader("[1]{a,,b};")
	assertDecodeError(t, err, MalformedKeyToken, 0)

	_, _, err = ParseArrayHeader(`[1]{"a"x};`)
	assertDecodeError(t, err, MalformedKeyToken, 0)
}

func TestFormatHeader(t *testing.T) {
	tests := []struct {
		name string
		h    ArrayHeader
		want string
	}{
		{"root", ArrayHeader{Length: 3, Delimiter: Comma}, "[3];"},
		{"keyed", ArrayHeader{Key: "tags", HasKey: true, Length: 2, Delimiter: Comma}, "tags [2];"},
		{"marker", ArrayHeader{Key: "tags", HasKey: true, Length: 2, Delimiter: Comma, HasLengthMarker: true}, "tags [#2];"},
		{"pipe fields", ArrayHeader{Length: 2, Delimiter: Pipe, Fields: []string{"id", "full name"}}, `[2|]{id|"full name"};`},
		{"tab", ArrayHeader{Key: "x", HasKey: true, Length: 1, Delimiter: Tab}, "x [1\t];"},
		{"quoted key", ArrayHeader{Key: "a.b", HasKey: true, Length: 0, Delimiter: Comma}, `"a.b" [0];`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatHeader(tt.h, false))
		})
	}
}
