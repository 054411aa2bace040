package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/gotoon/toon"
)

func TestParseCase(t *testing.T) {
	tests := []struct {
		in      string
		want    Case
		wantErr bool
	}{
		{"", CaseKeep, false},
		{"snake", CaseSnake, false},
		{"lower-camel", CaseLowerCamel, false},
		{"lower_camel", CaseLowerCamel, false},
		{"lowerCamel", CaseLowerCamel, false},
		{"screaming-snake", CaseScreamingSnake, false},
		{"kebab", CaseKebab, false},
		{"camel", CaseCamel, false},
		{"title", CaseKeep, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCase(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCase_Convert(t *testing.T) {
	assert.Equal(t, "user_id", CaseSnake.Convert("userID"))
	assert.Equal(t, "USER_ID", CaseScreamingSnake.Convert("user_id"))
	assert.Equal(t, "UserId", CaseCamel.Convert("user_id"))
	assert.Equal(t, "userId", CaseLowerCamel.Convert("user_id"))
	assert.Equal(t, "user-id", CaseKebab.Convert("UserId"))
	assert.Equal(t, "As Is", CaseKeep.Convert("As Is"))
}

func TestRewriteKeys(t *testing.T) {
	in, err := toon.Decode("firstName: Ada\naddressLines [1]{streetName};\n  Main\ntags [2]; a,b")
	require.NoError(t, err)

	got := RewriteKeys(in, CaseSnake)
	text, err := toon.Encode(got)
	require.NoError(t, err)
	assert.Equal(t, "first_name: Ada\naddress_lines [1]{street_name};\n  Main\ntags [2]; a,b", text)

	assert.Same(t, in, RewriteKeys(in, CaseKeep))
}

func TestRewriteKeys_Collision(t *testing.T) {
	in, err := toon.Decode("user_id: 1\nname: x\nuserId: 2")
	require.NoError(t, err)

	obj, err := RewriteKeys(in, CaseSnake).AsObject()
	require.NoError(t, err)
	assert.Equal(t, []string{"user_id", "name"}, obj.Keys())
	v, _ := obj.Get("user_id")
	n, err := v.AsNumber()
	require.NoError(t, err)
	assert.Equal(t, 2.0, n)
}
