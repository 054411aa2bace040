package parser

import (
	"bytes"
	"encoding/json"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/gotoon/internal/errors" // Custom errors package
	"github.com/mcncl/gotoon/internal/models"
	"github.com/mcncl/gotoon/toon"
)

// Options controls how input is read
type Options struct {
	// Format of the input. FormatUnknown sniffs the content.
	Format models.Format
	// TOON configures decoding when the input is TOON text.
	TOON toon.DecodeOptions
	// Source names the input in the returned Document.
	Source string
}

// Parse reads one document from reader into the value model
func Parse(reader io.Reader, opts Options) (models.Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read input", err)
	}
	return ParseBytes(data, opts)
}

// ParseBytes parses a complete document held in memory
func ParseBytes(data []byte, opts Options) (models.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	format := opts.Format
	if format == models.FormatUnknown {
		format = sniffFormat(data)
	}

	var (
		root *toon.Value
		err  error
	)
	switch format {
	case models.FormatJSON:
		root, err = parseJSON(data)
	case models.FormatYAML:
		root, err = parseYAML(data)
	case models.FormatTOML:
		root, err = parseTOML(data)
	case models.FormatTOON:
		root, err = toon.DecodeWithOptions(string(data), &opts.TOON)
		if err != nil {
			return models.Document{}, errors.NewDecodeError("failed to decode TOON input", err)
		}
	default:
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("cannot read %q input", format),
			errors.ErrUnsupportedFormat,
		)
	}
	if err != nil {
		return models.Document{}, err
	}

	return models.Document{Root: root, Format: format, Source: opts.Source}, nil
}

// ParseString parses a document from a string
func ParseString(input string, opts Options) (models.Document, error) {
	if strings.TrimSpace(input) == "" {
		return models.Document{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseBytes([]byte(input), opts)
}

// ParseFile parses a document from a file path. When opts.Format is unknown
// the file extension decides, then the content.
func ParseFile(filePath string, opts Options) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidInput)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	if len(data) == 0 {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	if opts.Format == models.FormatUnknown {
		opts.Format = models.DetectFormat(filePath)
	}
	if opts.Source == "" {
		opts.Source = filePath
	}
	return ParseBytes(data, opts)
}

// sniffFormat treats valid JSON as JSON, text holding a TOON array header
// as TOON, and everything else as YAML, which also covers plain scalars.
func sniffFormat(data []byte) models.Format {
	trimmed := bytes.TrimSpace(data)
	if (trimmed[0] == '{' || trimmed[0] == '[') && json.Valid(trimmed) {
		return models.FormatJSON
	}
	if hasArrayHeader(string(trimmed)) {
		return models.FormatTOON
	}
	return models.FormatYAML
}

// hasArrayHeader reports whether any line carries a TOON array header such as
// "tags [2]; a,b" or "- [1]; x". YAML would read those lines as plain strings.
func hasArrayHeader(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		content := strings.TrimPrefix(strings.TrimSpace(line), "- ")
		if i := strings.Index(content, ": ["); i >= 0 {
			content = content[i+2:]
		}
		if h, _, err := toon.ParseArrayHeader(content); err == nil && h != nil {
			return true
		}
	}
	return false
}

// ============================================================
// JSON
// ============================================================

func parseJSON(data []byte) (*toon.Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Ensure numbers are read as json.Number

	root, err := readJSONValue(decoder)
	if err != nil {
		return nil, jsonError(err)
	}

	// Anything but whitespace after the first value is a second document
	if _, err := decoder.Token(); !stderrors.Is(err, io.EOF) {
		if err != nil {
			return nil, errors.NewParsingError("invalid trailing data after first JSON value", err)
		}
		return nil, errors.NewParsingError("multiple JSON values found at the root", errors.ErrMultipleDocuments)
	}
	return root, nil
}

// readJSONValue walks the token stream so object key order survives
func readJSONValue(decoder *json.Decoder) (*toon.Value, error) {
	tok, err := decoder.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := toon.NewObject()
			for decoder.More() {
				keyTok, err := decoder.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				v, err := readJSONValue(decoder)
				if err != nil {
					return nil, err
				}
				obj.Set(key, v)
			}
			if _, err := decoder.Token(); err != nil {
				return nil, err
			}
			return toon.ObjectValue(obj), nil
		case '[':
			items := []*toon.Value{}
			for decoder.More() {
				v, err := readJSONValue(decoder)
				if err != nil {
					return nil, err
				}
				items = append(items, v)
			}
			if _, err := decoder.Token(); err != nil {
				return nil, err
			}
			return toon.Array(items...), nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case json.Number:
		return toon.Normalize(t), nil
	case string:
		return toon.String(t), nil
	case bool:
		return toon.Bool(t), nil
	case nil:
		return toon.Null(), nil
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}

func jsonError(err error) error {
	var syntaxError *json.SyntaxError
	if stderrors.As(err, &syntaxError) {
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxError.Offset, syntaxError.Error()),
			errors.ErrInvalidInput,
		)
	}
	if stderrors.Is(err, io.EOF) || stderrors.Is(err, io.ErrUnexpectedEOF) {
		return errors.NewParsingError("unexpected end of JSON input", errors.ErrInvalidInput)
	}
	return errors.NewParsingError("failed to decode JSON", fmt.Errorf("%w: %v", errors.ErrInvalidInput, err))
}

// ============================================================
// YAML
// ============================================================

func parseYAML(data []byte) (*toon.Value, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))

	var doc yaml.Node
	if err := decoder.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewParsingError("YAML input contains no document", errors.ErrEmptyInput)
		}
		return nil, errors.NewParsingError(fmt.Sprintf("YAML syntax error: %v", err), errors.ErrInvalidInput)
	}

	var extra yaml.Node
	if err := decoder.Decode(&extra); err == nil {
		return nil, errors.NewParsingError("multiple YAML documents found", errors.ErrMultipleDocuments)
	} else if !stderrors.Is(err, io.EOF) {
		return nil, errors.NewParsingError(fmt.Sprintf("YAML syntax error: %v", err), errors.ErrInvalidInput)
	}

	root, err := yamlNodeValue(&doc)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("unsupported YAML value: %v", err), errors.ErrInvalidInput)
	}
	return root, nil
}

// yamlNodeValue converts a node tree, keeping mapping order and resolving
// aliases and merge keys.
func yamlNodeValue(n *yaml.Node) (*toon.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return toon.Null(), nil
		}
		return yamlNodeValue(n.Content[0])
	case yaml.AliasNode:
		return yamlNodeValue(n.Alias)
	case yaml.SequenceNode:
		items := make([]*toon.Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlNodeValue(c)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return toon.Array(items...), nil
	case yaml.MappingNode:
		obj := toon.NewObject()
		if err := yamlMappingInto(obj, n); err != nil {
			return nil, err
		}
		return toon.ObjectValue(obj), nil
	case yaml.ScalarNode:
		var raw any
		if err := n.Decode(&raw); err != nil {
			return nil, err
		}
		return toon.Normalize(raw), nil
	}
	return nil, fmt.Errorf("unknown node kind %d", n.Kind)
}

func yamlMappingInto(obj *toon.Object, n *yaml.Node) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Tag == "!!merge" {
			if err := yamlMerge(obj, v); err != nil {
				return err
			}
			continue
		}
		val, err := yamlNodeValue(v)
		if err != nil {
			return err
		}
		obj.Set(k.Value, val)
	}
	return nil
}

// yamlMerge applies a "<<" merge key. Explicit keys override merged ones.
func yamlMerge(obj *toon.Object, v *yaml.Node) error {
	if v.Kind == yaml.AliasNode {
		v = v.Alias
	}
	var sources []*yaml.Node
	switch v.Kind {
	case yaml.MappingNode:
		sources = []*yaml.Node{v}
	case yaml.SequenceNode:
		sources = v.Content
	default:
		return fmt.Errorf("merge key needs a mapping, line %d", v.Line)
	}

	for _, src := range sources {
		if src.Kind == yaml.AliasNode {
			src = src.Alias
		}
		merged := toon.NewObject()
		if err := yamlMappingInto(merged, src); err != nil {
			return err
		}
		for _, f := range merged.Fields() {
			if !obj.Has(f.Key) {
				obj.Set(f.Key, f.Value)
			}
		}
	}
	return nil
}

// ============================================================
// TOML
// ============================================================

func parseTOML(data []byte) (*toon.Value, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		var perr toml.ParseError
		if stderrors.As(err, &perr) {
			return nil, errors.NewParsingError(
				fmt.Sprintf("TOML syntax error on line %d: %s", perr.Position.Line, perr.Message),
				errors.ErrInvalidInput,
			)
		}
		return nil, errors.NewParsingError(fmt.Sprintf("TOML syntax error: %v", err), errors.ErrInvalidInput)
	}

	// MetaData lists keys in document order; decoded maps do not.
	order := make(map[string]int)
	for i, k := range md.Keys() {
		p := strings.Join(k, "\x00")
		if _, ok := order[p]; !ok {
			order[p] = i
		}
	}
	return tomlValue(raw, nil, order), nil
}

func tomlValue(v any, path []string, order map[string]int) *toon.Value {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		rank := func(k string) int {
			if i, ok := order[strings.Join(append(path[:len(path):len(path)], k), "\x00")]; ok {
				return i
			}
			return len(order)
		}
		sort.SliceStable(keys, func(i, j int) bool { return rank(keys[i]) < rank(keys[j]) })

		obj := toon.NewObject()
		for _, k := range keys {
			obj.Set(k, tomlValue(val[k], append(path[:len(path):len(path)], k), order))
		}
		return toon.ObjectValue(obj)
	case []map[string]any:
		items := make([]*toon.Value, len(val))
		for i, table := range val {
			items[i] = tomlValue(table, path, order)
		}
		return toon.Array(items...)
	case []any:
		items := make([]*toon.Value, len(val))
		for i, item := range val {
			items[i] = tomlValue(item, path, order)
		}
		return toon.Array(items...)
	}
	return toon.Normalize(v)
}
