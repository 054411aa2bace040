package main

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/mcncl/gotoon/internal/analyzer"
	"github.com/mcncl/gotoon/internal/config"
	"github.com/mcncl/gotoon/internal/errors"
	"github.com/mcncl/gotoon/internal/formatter"
	"github.com/mcncl/gotoon/internal/models"
	"github.com/mcncl/gotoon/internal/naming"
	"github.com/mcncl/gotoon/internal/parser"
	"github.com/mcncl/gotoon/toon"
)

// EncodeCmd converts a JSON, YAML or TOML document to TOON
type EncodeCmd struct {
	IO ioFlags `embed:""`

	From         string `help:"Input format: json, yaml, toml or toon. Detected when omitted." short:"f"`
	Indent       int    `help:"Spaces per indentation level."`
	Delimiter    string `help:"Array delimiter: comma, tab or pipe."`
	LengthMarker bool   `help:"Prefix array lengths with #." short:"m"`
	Flatten      string `help:"Flatten nested documents into path keys: never, always or auto."`
	KeyCase      string `help:"Rewrite object keys: snake, screaming-snake, camel, lower-camel or kebab."`
}

// Run executes the encode command
func (c *EncodeCmd) Run(ctx *Context) error {
	cfg, err := withFlags(ctx.Config, &config.Config{Encode: config.EncodeConfig{
		Indent:       c.Indent,
		Delimiter:    c.Delimiter,
		LengthMarker: c.LengthMarker,
		Flatten:      c.Flatten,
		KeyCase:      c.KeyCase,
	}})
	if err != nil {
		return err
	}

	format, err := inputFormat(c.From)
	if err != nil {
		return err
	}
	doc, err := readDocument(ctx, c.IO.Input, parser.Options{Format: format, TOON: cfg.DecodeOptions()})
	if err != nil {
		return err
	}

	text, err := encodeDocument(ctx, cfg, doc.Root)
	if err != nil {
		return err
	}
	return writeOutput(ctx, c.IO.Output, text)
}

// encodeDocument applies key rewriting and flattening, then encodes
func encodeDocument(ctx *Context, cfg *config.Config, root *toon.Value) (string, error) {
	opts, err := cfg.EncodeOptions()
	if err != nil {
		return "", errors.NewConfigError(err.Error(), err)
	}

	keyCase, err := naming.ParseCase(cfg.Encode.KeyCase)
	if err != nil {
		return "", errors.NewConfigError(err.Error(), err)
	}
	root = naming.RewriteKeys(root, keyCase)

	if cfg.ShouldFlatten(root) {
		flat := toon.FlattenToPath(root)
		ctx.Logger.Debug("flattened document", "paths", flat.Len())
		root = toon.ObjectValue(flat)
		opts.PathKeys = true
	}

	text, err := toon.EncodeWithOptions(root, &opts)
	if err != nil {
		return "", errors.NewEncodeError("failed to encode TOON", err)
	}
	ctx.Logger.Debug("encoded document", "bytes", len(text), "delimiter", opts.Delimiter.Name())
	return text, nil
}

// DecodeCmd converts TOON text to JSON or YAML
type DecodeCmd struct {
	IO ioFlags `embed:""`

	To       string `help:"Output format: json or yaml." short:"t"`
	Indent   int    `help:"Spaces per indentation level of the input."`
	Strict   bool   `help:"Reject blank lines in arrays, surplus items and duplicate keys." xor:"strict"`
	NoStrict bool   `help:"Tolerate blank lines in arrays, surplus items and duplicate keys." xor:"strict"`
	Expand   bool   `help:"Expand path keys into nested objects."`
	Lossy    bool   `help:"With --expand, let later paths overwrite conflicting ones."`
	Compact  bool   `help:"Write output on a single line."`
}

// Run executes the decode command
func (c *DecodeCmd) Run(ctx *Context) error {
	cfg, err := withFlags(ctx.Config, &config.Config{
		Decode: config.DecodeConfig{Indent: c.Indent, Expand: c.Expand},
		Output: config.OutputConfig{Format: c.To},
	})
	if err != nil {
		return err
	}

	doc, err := readDocument(ctx, c.IO.Input, parser.Options{
		Format: models.FormatTOON,
		TOON:   decodeOptions(cfg, c.Strict, c.NoStrict),
	})
	if err != nil {
		return err
	}

	root := doc.Root
	if cfg.Decode.Expand {
		root, err = expand(root, !c.Lossy)
		if err != nil {
			return err
		}
	}
	return render(ctx, cfg, c.IO.Output, root, c.Compact)
}

// FlattenCmd prints the path form of a document
type FlattenCmd struct {
	IO ioFlags `embed:""`

	From    string `help:"Input format: json, yaml, toml or toon. Detected when omitted." short:"f"`
	Compact bool   `help:"Print the single-line {path:value,...} form."`
}

// Run executes the flatten command
func (c *FlattenCmd) Run(ctx *Context) error {
	format, err := inputFormat(c.From)
	if err != nil {
		return err
	}
	doc, err := readDocument(ctx, c.IO.Input, parser.Options{Format: format, TOON: ctx.Config.DecodeOptions()})
	if err != nil {
		return err
	}

	flat := toon.FlattenToPath(doc.Root)
	ctx.Logger.Debug("flattened document", "paths", flat.Len())
	if c.Compact {
		return writeOutput(ctx, c.IO.Output, toon.CompactPaths(flat))
	}
	return render(ctx, ctx.Config, c.IO.Output, toon.ObjectValue(flat), false)
}

// ExpandCmd rebuilds a nested document from path keys
type ExpandCmd struct {
	IO ioFlags `embed:""`

	From  string `help:"Input format: json, yaml, toml or toon. Detected when omitted." short:"f"`
	To    string `help:"Output format: json or yaml." short:"t"`
	Lossy bool   `help:"Let later paths overwrite conflicting ones instead of failing."`
}

// Run executes the expand command
func (c *ExpandCmd) Run(ctx *Context) error {
	cfg, err := withFlags(ctx.Config, &config.Config{Output: config.OutputConfig{Format: c.To}})
	if err != nil {
		return err
	}
	format, err := inputFormat(c.From)
	if err != nil {
		return err
	}
	doc, err := readDocument(ctx, c.IO.Input, parser.Options{Format: format, TOON: cfg.DecodeOptions()})
	if err != nil {
		return err
	}

	root, err := expand(doc.Root, !c.Lossy)
	if err != nil {
		return err
	}
	return render(ctx, cfg, c.IO.Output, root, false)
}

func expand(root *toon.Value, strict bool) (*toon.Value, error) {
	flat, err := root.AsObject()
	if err != nil {
		return nil, errors.NewExpandError(fmt.Sprintf("cannot expand a %s", root.Kind()), errors.ErrInvalidFlatMapping)
	}
	expanded, err := toon.ExpandFromPath(flat, strict)
	if err != nil {
		return nil, errors.NewExpandError("failed to expand paths", err)
	}
	return expanded, nil
}

// VerifyCmd encodes and decodes a document and reports any difference
type VerifyCmd struct {
	IO ioFlags `embed:""`

	From string `help:"Input format: json, yaml, toml or toon. Detected when omitted." short:"f"`
}

// Run executes the verify command
func (c *VerifyCmd) Run(ctx *Context) error {
	format, err := inputFormat(c.From)
	if err != nil {
		return err
	}
	doc, err := readDocument(ctx, c.IO.Input, parser.Options{Format: format, TOON: ctx.Config.DecodeOptions()})
	if err != nil {
		return err
	}

	cfg := ctx.Config
	keyCase, err := naming.ParseCase(cfg.Encode.KeyCase)
	if err != nil {
		return errors.NewConfigError(err.Error(), err)
	}
	want := naming.RewriteKeys(doc.Root, keyCase)

	text, err := encodeDocument(ctx, cfg, doc.Root)
	if err != nil {
		return err
	}
	got, err := toon.DecodeWithOptions(text, &toon.DecodeOptions{Indent: cfg.Encode.Indent, Strict: true})
	if err != nil {
		return errors.NewDecodeError("encoded document does not decode", err)
	}
	if cfg.ShouldFlatten(want) {
		if got, err = expand(got, true); err != nil {
			return err
		}
	}

	if toon.Equal(want, got) {
		return writeOutput(ctx, c.IO.Output, fmt.Sprintf("ok: %s round-trips through %d bytes of TOON", doc.Source, len(text)))
	}

	diff, err := roundTripDiff(want, got)
	if err != nil {
		return errors.NewOutputError("failed to build diff", err)
	}
	if err := writeOutput(ctx, c.IO.Output, diff); err != nil {
		return err
	}
	return errors.ErrRoundTripMismatch
}

// roundTripDiff renders a unified diff of the pretty JSON of both trees
func roundTripDiff(want, got *toon.Value) (string, error) {
	f := formatter.NewFormatter(models.FormatJSON, true, 2)
	a, err := f.Format(want)
	if err != nil {
		return "", err
	}
	b, err := f.Format(got)
	if err != nil {
		return "", err
	}
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "input",
		ToFile:   "round trip",
		Context:  3,
	})
}

// StatsCmd reports structure and size figures for a document
type StatsCmd struct {
	IO ioFlags `embed:""`

	From string `help:"Input format: json, yaml, toml or toon. Detected when omitted." short:"f"`
}

// Run executes the stats command
func (c *StatsCmd) Run(ctx *Context) error {
	format, err := inputFormat(c.From)
	if err != nil {
		return err
	}
	doc, err := readDocument(ctx, c.IO.Input, parser.Options{Format: format, TOON: ctx.Config.DecodeOptions()})
	if err != nil {
		return err
	}

	opts, err := ctx.Config.EncodeOptions()
	if err != nil {
		return errors.NewConfigError(err.Error(), err)
	}
	stats, err := analyzer.NewAnalyzerWithOptions(opts).Analyze(doc)
	if err != nil {
		return errors.NewEncodeError("failed to analyze document", err)
	}
	return writeOutput(ctx, c.IO.Output, stats.Report())
}

// VersionCmd prints the version
type VersionCmd struct{}

// Run executes the version command
func (c *VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Stdout, "gotoon version %s\n", Version)
	return err
}

func inputFormat(name string) (models.Format, error) {
	if name == "" {
		return models.FormatUnknown, nil
	}
	f, err := models.ParseFormat(name)
	if err != nil {
		return models.FormatUnknown, errors.NewInputError(err.Error(), errors.ErrUnsupportedFormat)
	}
	return f, nil
}

// render writes a value with the configured output format
func render(ctx *Context, cfg *config.Config, path string, v *toon.Value, compact bool) error {
	name := cfg.Output.Format
	if name == "" {
		name = config.FormatJSON
	}
	format, err := models.ParseFormat(name)
	if err != nil {
		return errors.NewConfigError(err.Error(), err)
	}
	out, err := formatter.NewFormatter(format, cfg.Output.Pretty && !compact, 2).Format(v)
	if err != nil {
		return errors.NewOutputError("failed to render output", err)
	}
	return writeOutput(ctx, path, out)
}
