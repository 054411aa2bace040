package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mcncl/gotoon/toon"
)

// Format identifies the syntax of a document read or written by the CLI.
type Format string

const (
	FormatUnknown Format = ""
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatTOON    Format = "toon"
)

// ParseFormat accepts a format name such as "json" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "toon":
		return FormatTOON, nil
	}
	return FormatUnknown, fmt.Errorf("unknown format %q", s)
}

// DetectFormat guesses the format of a file from its extension.
// Unknown extensions and stdin ("" or "-") report FormatUnknown.
func DetectFormat(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return FormatUnknown
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return FormatUnknown
	}
	return f
}

// Document holds a parsed input document in the codec's value model.
// Object key order of the source is preserved in Root.
type Document struct {
	Root   *toon.Value
	Format Format
	// Source names where the document came from: a file path or "stdin".
	Source string
}

// RootIsArray reports whether the document root is an array
func (d Document) RootIsArray() bool {
	return d.Root.Kind() == toon.KindArray
}
