package toon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// obj builds an ordered object from alternating keys and values.
func obj(kv ...any) *Value {
	o := NewObject()
	for i := 0; i+1 < len(kv); i += 2 {
		o.Set(kv[i].(string), Normalize(kv[i+1]))
	}
	return ObjectValue(o)
}

func arr(items ...any) *Value {
	out := make([]*Value, len(items))
	for i, item := range items {
		out[i] = Normalize(item)
	}
	return Array(out...)
}

func assertValue(t *testing.T, want, got *Value) {
	t.Helper()
	assert.Truef(t, Equal(want, got), "want %s\n got %s", want, got)
}

func assertDecodeError(t *testing.T, err error, kind ErrorKind, line int) {
	t.Helper()
	de, ok := IsDecodeError(err)
	if !assert.Truef(t, ok, "expected *DecodeError, got %v", err) {
		return
	}
	assert.Equal(t, kind, de.Kind, de.Error())
	if line > 0 {
		assert.Equal(t, line, de.Line, de.Error())
	}
}

func lenient() *DecodeOptions {
	return &DecodeOptions{Strict: false}
}
