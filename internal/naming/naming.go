// Package naming rewrites object keys into a chosen case before encoding.
package naming

import (
	"fmt"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/gotoon/toon"
)

// Case is a key naming convention
type Case string

const (
	CaseKeep           Case = ""
	CaseSnake          Case = "snake"
	CaseScreamingSnake Case = "screaming_snake"
	CaseCamel          Case = "camel"
	CaseLowerCamel     Case = "lower_camel"
	CaseKebab          Case = "kebab"
)

// ParseCase accepts a case name; "-" and "_" are interchangeable.
func ParseCase(s string) (Case, error) {
	switch strcase.ToSnake(s) {
	case "", "keep", "none":
		return CaseKeep, nil
	case "snake":
		return CaseSnake, nil
	case "screaming_snake":
		return CaseScreamingSnake, nil
	case "camel", "pascal":
		return CaseCamel, nil
	case "lower_camel":
		return CaseLowerCamel, nil
	case "kebab":
		return CaseKebab, nil
	}
	return CaseKeep, fmt.Errorf("unknown key case %q (want snake, screaming_snake, camel, lower_camel or kebab)", s)
}

// Convert applies the case to one key
func (c Case) Convert(key string) string {
	switch c {
	case CaseSnake:
		return strcase.ToSnake(key)
	case CaseScreamingSnake:
		return strcase.ToScreamingSnake(key)
	case CaseCamel:
		return strcase.ToCamel(key)
	case CaseLowerCamel:
		return strcase.ToLowerCamel(key)
	case CaseKebab:
		return strcase.ToKebab(key)
	}
	return key
}

// RewriteKeys returns a copy of v with every object key converted. When two
// keys of one object convert to the same name, the later value wins and keeps
// the earlier position.
func RewriteKeys(v *toon.Value, c Case) *toon.Value {
	if c == CaseKeep {
		return v
	}
	switch v.Kind() {
	case toon.KindObject:
		src, _ := v.AsObject()
		dst := toon.NewObject()
		for _, f := range src.Fields() {
			dst.Set(c.Convert(f.Key), RewriteKeys(f.Value, c))
		}
		return toon.ObjectValue(dst)
	case toon.KindArray:
		items, _ := v.AsArray()
		out := make([]*toon.Value, len(items))
		for i, item := range items {
			out[i] = RewriteKeys(item, c)
		}
		return toon.Array(out...)
	}
	return v
}
