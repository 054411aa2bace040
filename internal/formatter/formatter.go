package formatter

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/gotoon/internal/models"
	"github.com/mcncl/gotoon/toon"
)

// Formatter renders decoded documents as JSON or YAML, keeping key order
type Formatter struct {
	format models.Format
	pretty bool
	indent int
}

// NewFormatter creates a new Formatter instance. Pretty output is indented
// by indent spaces; compact output is a single line.
func NewFormatter(format models.Format, pretty bool, indent int) *Formatter {
	if indent <= 0 {
		indent = toon.DefaultIndent
	}
	return &Formatter{format: format, pretty: pretty, indent: indent}
}

// Format renders v with a trailing newline
func (f *Formatter) Format(v *toon.Value) (string, error) {
	switch f.format {
	case models.FormatJSON, models.FormatUnknown:
		return f.formatJSON(v)
	case models.FormatYAML:
		return f.formatYAML(v)
	}
	return "", fmt.Errorf("cannot render %q output", f.format)
}

func (f *Formatter) formatJSON(v *toon.Value) (string, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to render JSON: %w", err)
	}

	var buf bytes.Buffer
	if f.pretty {
		err = gojson.Indent(&buf, raw, "", strings.Repeat(" ", f.indent))
	} else {
		err = gojson.Compact(&buf, raw)
	}
	if err != nil {
		return "", fmt.Errorf("failed to format JSON: %w", err)
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

func (f *Formatter) formatYAML(v *toon.Value) (string, error) {
	node := yamlNode(v)
	if !f.pretty {
		node.Style = yaml.FlowStyle
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(f.indent)
	if err := enc.Encode(node); err != nil {
		return "", fmt.Errorf("failed to render YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to render YAML: %w", err)
	}
	return buf.String(), nil
}

// yamlNode builds a node tree so mappings keep their order. Scalars carry
// explicit tags, which makes the encoder quote strings such as "123".
func yamlNode(v *toon.Value) *yaml.Node {
	switch v.Kind() {
	case toon.KindBool:
		b, _ := v.AsBool()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
	case toon.KindNumber:
		n, _ := v.AsNumber()
		tag := "!!float"
		if n == math.Trunc(n) && math.Abs(n) < 1e21 {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()}
	case toon.KindString:
		s, _ := v.AsString()
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	case toon.KindArray:
		items, _ := v.AsArray()
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range items {
			node.Content = append(node.Content, yamlNode(item))
		}
		return node
	case toon.KindObject:
		obj, _ := v.AsObject()
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, field := range obj.Fields() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: field.Key},
				yamlNode(field.Value),
			)
		}
		return node
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
