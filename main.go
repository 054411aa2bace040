package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mcncl/gotoon/internal/config"
	"github.com/mcncl/gotoon/internal/errors"
	"github.com/mcncl/gotoon/internal/models"
	"github.com/mcncl/gotoon/internal/parser"
	"github.com/mcncl/gotoon/toon"
)

// CLI defines the command-line interface
type CLI struct {
	Config string `help:"Path to a config file. Defaults to the nearest .gotoon.yml." short:"c" type:"path"`
	Debug  bool   `help:"Enable debug logging." short:"d"`

	Encode  EncodeCmd  `cmd:"" help:"Encode JSON, YAML or TOML as TOON."`
	Decode  DecodeCmd  `cmd:"" help:"Decode TOON to JSON or YAML."`
	Flatten FlattenCmd `cmd:"" help:"Flatten a document into path keys."`
	Expand  ExpandCmd  `cmd:"" help:"Expand path keys back into a nested document."`
	Verify  VerifyCmd  `cmd:"" help:"Check that a document survives an encode/decode round trip."`
	Stats   StatsCmd   `cmd:"" help:"Compare the JSON and TOON renderings of a document."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// ioFlags are shared by every command that reads a document
type ioFlags struct {
	Input  string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
	Output string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	if err := run(os.Args[1:], os.Environ(), os.Stdin, os.Stdout, os.Stderr); err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: gotoon --help\n")
		os.Exit(1)
	}
}

// run parses args, resolves configuration and executes the selected command
func run(args, environ []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("gotoon"),
		kong.Description("Convert JSON, YAML and TOML documents to TOON and back"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, source, err := loadConfig(cli.Config, environ)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Debug || cfg.Dev.Debug)
	if source != "" {
		logger.Debug("loaded config file", "path", source)
	}
	logger.Debug("running command", "command", kctx.Command())

	return kctx.Run(&Context{
		Config: cfg,
		Logger: logger,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	})
}

// loadConfig applies defaults, then the config file, then GOTOON_* variables.
// Command flags are merged later by each command.
func loadConfig(path string, environ []string) (*config.Config, string, error) {
	if path == "" {
		path = config.FindConfigFile()
	}

	cfg := config.NewConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, "", errors.NewConfigError(fmt.Sprintf("failed to load '%s'", path), err)
		}
		cfg = loaded
	}

	if err := config.ApplyEnv(cfg, environ); err != nil {
		return nil, "", errors.NewConfigError(err.Error(), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", errors.NewConfigError(err.Error(), err)
	}
	return cfg, path, nil
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// withFlags merges flag values over the resolved configuration
func withFlags(base, override *config.Config) (*config.Config, error) {
	cfg, err := config.MergeConfigs(base, override)
	if err != nil {
		return nil, errors.NewConfigError("failed to apply flags", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}
	return cfg, nil
}

// readDocument parses a document from a file, or from stdin when path is empty or "-"
func readDocument(ctx *Context, path string, opts parser.Options) (models.Document, error) {
	if path != "" && path != "-" {
		doc, err := parser.ParseFile(path, opts)
		if err == nil {
			ctx.Logger.Debug("parsed input", "source", doc.Source, "format", doc.Format, "array_root", doc.RootIsArray())
		}
		return doc, err
	}

	data, err := readStdin(ctx)
	if err != nil {
		return models.Document{}, err
	}
	opts.Source = "stdin"
	doc, err := parser.ParseBytes(data, opts)
	if err == nil {
		ctx.Logger.Debug("parsed input", "source", doc.Source, "format", doc.Format, "bytes", len(data))
	}
	return doc, err
}

// readStdin reads piped input. An interactive terminal counts as no input.
func readStdin(ctx *Context) ([]byte, error) {
	if f, ok := ctx.Stdin.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return nil, errors.NewInputError("failed to access stdin", err)
		}
		if info.Mode()&os.ModeCharDevice != 0 {
			return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
	}

	data, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return data, nil
}

// writeOutput writes text to a file or stdout, ending it with one newline
func writeOutput(ctx *Context, path, text string) error {
	text = strings.TrimRight(text, "\n") + "\n"
	if path != "" {
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		fmt.Fprintf(ctx.Stderr, "Output written to %s\n", path)
		return nil
	}

	if _, err := io.WriteString(ctx.Stdout, text); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// decodeOptions returns strict or lenient options from a pair of xor flags
func decodeOptions(cfg *config.Config, strict, lenient bool) toon.DecodeOptions {
	opts := cfg.DecodeOptions()
	switch {
	case strict:
		opts.Strict = true
	case lenient:
		opts.Strict = false
	}
	return opts
}
