// Package cli implements the typedjson command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/mcncl/typedjson/internal/config"
	"github.com/mcncl/typedjson/internal/display"
	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/internal/parser"
	"github.com/mcncl/typedjson/jsonvalue"
)

// Version information
const Version = "0.1.0"

// Globals are flags shared by every command
type Globals struct {
	Config  string `help:"Path to a config file. Defaults to the nearest .typedjson.yml." short:"c" type:"path"`
	Debug   bool   `help:"Enable debug logging." short:"d"`
	Color   string `help:"Color output: auto, always or never." placeholder:"WHEN"`
	Version bool   `help:"Show version information." short:"v"`
}

// CLI defines the command-line interface
type CLI struct {
	Globals

	Gen   GenCmd   `cmd:"" default:"withargs" help:"Generate Go types with decode methods from a sample document or a JSON Schema."`
	Get   GetCmd   `cmd:"" help:"Print the value at a path, e.g. owners[0].name."`
	Fmt   FmtCmd   `cmd:"" help:"Reformat a document."`
	Diff  DiffCmd  `cmd:"" help:"Compare two documents. Exits non-zero when they differ."`
	Patch PatchCmd `cmd:"" help:"Apply a JSON Patch (RFC 6902) or a merge patch (RFC 7386)."`
	Eval  EvalCmd  `cmd:"" help:"Evaluate an expression against a document."`
}

// Streams are the standard streams a command reads and writes
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process streams
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Context holds the runtime context handed to every command
type Context struct {
	Streams
	Config *config.Config
	Logger *log.Logger
}

// Execute parses args and runs the selected command. exit is called by kong
// after --help; pass os.Exit from main. Nothing runs once exit was called.
func Execute(args []string, streams Streams, exit func(int)) error {
	var cli CLI
	exited := false
	parser, err := kong.New(&cli,
		kong.Name("typedjson"),
		kong.Description("Typed access to JSON documents and Go code generation for them"),
		kong.UsageOnError(),
		kong.Writers(streams.Out, streams.Err),
		kong.Exit(func(code int) {
			exited = true
			exit(code)
		}),
	)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if exited {
		return nil
	}
	if err != nil {
		return errors.NewInputError("invalid arguments", err)
	}

	if cli.Version {
		_, err := fmt.Fprintf(streams.Out, "typedjson version %s\n", Version)
		return err
	}

	ctx, err := newContext(cli.Globals, streams)
	if err != nil {
		return err
	}
	return kctx.Run(ctx)
}

func newContext(g Globals, streams Streams) (*Context, error) {
	overrides := config.Overrides{Color: g.Color}
	if g.Debug {
		overrides.Debug = &g.Debug
	}
	cfg, err := config.LoadConfigWithCLI(g.Config, overrides)
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	logger := log.NewWithOptions(streams.Err, log.Options{Prefix: "typedjson"})
	if cfg.Dev.Debug {
		logger.SetLevel(log.DebugLevel)
		jsonvalue.SetLogger(logger)
	} else {
		jsonvalue.SetLogger(nil)
	}

	return &Context{Streams: streams, Config: cfg, Logger: logger}, nil
}

// readDocument parses the file at path, or the input stream when path is
// empty or "-"
func (c *Context) readDocument(path string) (jsonvalue.Value, error) {
	if path != "" && path != "-" {
		c.Logger.Debug("reading document", "file", path)
		ir, err := parser.ParseFile(path)
		return ir.Root, err
	}
	if c.In == nil {
		return jsonvalue.Value{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}
	c.Logger.Debug("reading document from stdin")
	ir, err := parser.Parse(c.In)
	return ir.Root, err
}

// useColor resolves the color setting. Only a terminal output stream is
// colored in auto mode.
func (c *Context) useColor() bool {
	f, _ := c.Out.(*os.File)
	return display.UseColor(c.Config.Output.Color, f)
}

func (c *Context) printer(pretty bool) *display.Printer {
	return display.NewPrinter(c.useColor(), pretty)
}

// printValue writes scalars in their raw display form and collections as
// JSON text
func (c *Context) printValue(v jsonvalue.Value, pretty bool) error {
	var err error
	switch v.Kind() {
	case jsonvalue.ArrayKind, jsonvalue.MapKind:
		err = c.printer(pretty).Fprint(c.Out, v)
	default:
		_, err = fmt.Fprintln(c.Out, v.Stringify(false))
	}
	if err != nil {
		return errors.NewOutputError("failed to write output", err)
	}
	return nil
}
