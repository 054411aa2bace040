package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/gotoon/internal/naming"
	"github.com/mcncl/gotoon/toon"
)

// EnvPrefix starts every environment override, e.g. GOTOON_ENCODE_DELIMITER=pipe.
const EnvPrefix = "GOTOON_"

// Flatten modes
const (
	FlattenNever  = "never"
	FlattenAlways = "always"
	FlattenAuto   = "auto"
)

// Output formats for decoded documents
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents the complete configuration for gotoon
type Config struct {
	Encode EncodeConfig `yaml:"encode"`
	Decode DecodeConfig `yaml:"decode"`
	Output OutputConfig `yaml:"output"`
	Dev    DevConfig    `yaml:"dev"`
}

// EncodeConfig controls TOON encoding
type EncodeConfig struct {
	Indent       int    `yaml:"indent"`
	Delimiter    string `yaml:"delimiter"`
	LengthMarker bool   `yaml:"length_marker"`
	Flatten      string `yaml:"flatten"`
	KeyCase      string `yaml:"key_case"`
}

// DecodeConfig controls TOON decoding
type DecodeConfig struct {
	Indent int  `yaml:"indent"`
	Strict bool `yaml:"strict"`
	Expand bool `yaml:"expand"`
}

// OutputConfig controls how decoded documents are rendered
type OutputConfig struct {
	Format string `yaml:"format"`
	Pretty bool   `yaml:"pretty"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Encode: EncodeConfig{
			Indent:    toon.DefaultIndent,
			Delimiter: toon.DefaultDelimiter.Name(),
			Flatten:   FlattenNever,
		},
		Decode: DecodeConfig{
			Indent: toon.DefaultIndent,
			Strict: true,
		},
		Output: OutputConfig{
			Format: FormatJSON,
			Pretty: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".gotoon.yml", ".gotoon.yaml", "gotoon.yml", "gotoon.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// ApplyEnv overrides cfg from GOTOON_<SECTION>_<KEY> variables in environ
// (os.Environ() format). Values are weakly typed, so "true" and "4" decode
// into bool and int fields. Unknown keys are an error.
func ApplyEnv(cfg *Config, environ []string) error {
	values := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		section, key, ok := strings.Cut(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_")
		if !ok || key == "" {
			return fmt.Errorf("environment variable %s must name a section and a key", name)
		}
		sub, _ := values[section].(map[string]any)
		if sub == nil {
			sub = make(map[string]any)
			values[section] = sub
		}
		sub[key] = value
	}
	if len(values) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           cfg,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(values); err != nil {
		return fmt.Errorf("failed to apply environment: %w", err)
	}
	return nil
}

// MergeConfigs merges override into a copy of base. Non-zero values from
// override take precedence; zero values leave base untouched, so boolean
// flags can only switch options on.
func MergeConfigs(base, override *Config) (*Config, error) {
	merged := *base
	if override == nil {
		return &merged, nil
	}
	if err := mergo.Merge(&merged, *override, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge configuration: %w", err)
	}
	return &merged, nil
}

// Validate checks that every option has a supported value
func (c *Config) Validate() error {
	if c.Encode.Indent < 0 {
		return fmt.Errorf("encode.indent must not be negative, got %d", c.Encode.Indent)
	}
	if c.Decode.Indent < 0 {
		return fmt.Errorf("decode.indent must not be negative, got %d", c.Decode.Indent)
	}
	if _, err := toon.ParseDelimiter(c.Encode.Delimiter); err != nil {
		return fmt.Errorf("encode.delimiter: %w", err)
	}
	switch c.Encode.Flatten {
	case "", FlattenNever, FlattenAlways, FlattenAuto:
	default:
		return fmt.Errorf("encode.flatten must be never, always or auto, got %q", c.Encode.Flatten)
	}
	if _, err := naming.ParseCase(c.Encode.KeyCase); err != nil {
		return fmt.Errorf("encode.key_case: %w", err)
	}
	switch c.Output.Format {
	case "", FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("output.format must be json or yaml, got %q", c.Output.Format)
	}
	return nil
}

// EncodeOptions converts the encode section into codec options
func (c *Config) EncodeOptions() (toon.EncodeOptions, error) {
	d, err := toon.ParseDelimiter(c.Encode.Delimiter)
	if err != nil {
		return toon.EncodeOptions{}, err
	}
	return toon.EncodeOptions{
		Indent:       c.Encode.Indent,
		Delimiter:    d,
		LengthMarker: c.Encode.LengthMarker,
	}, nil
}

// DecodeOptions converts the decode section into codec options
func (c *Config) DecodeOptions() toon.DecodeOptions {
	return toon.DecodeOptions{
		Indent: c.Decode.Indent,
		Strict: c.Decode.Strict,
	}
}

// ShouldFlatten reports whether v is flattened before encoding
func (c *Config) ShouldFlatten(v *toon.Value) bool {
	switch c.Encode.Flatten {
	case FlattenAlways:
		return true
	case FlattenAuto:
		return toon.HasNesting(v)
	}
	return false
}
