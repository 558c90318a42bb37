package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/typedjson/internal/analyzer"
	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/internal/formatter"
	"github.com/mcncl/typedjson/internal/generator"
	"github.com/mcncl/typedjson/internal/models"
	"github.com/mcncl/typedjson/internal/parser"
	"github.com/mcncl/typedjson/internal/schema"
)

// GenCmd generates Go types with decode methods
type GenCmd struct {
	Input       string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output Go file. If not specified, writes to stdout." short:"o" type:"path"`
	Schema      bool   `help:"Treat the input as a JSON Schema instead of a sample document." short:"S"`
	Package     string `help:"Package name for generated code." short:"p"`
	RootName    string `help:"Name for the root struct." short:"r"`
	NoFormat    bool   `help:"Skip gofmt on the generated code."`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Run executes the gen command
func (g *GenCmd) Run(ctx *Context) error {
	cfg := ctx.Config
	if g.Package != "" {
		cfg.Package = g.Package
	}
	if g.RootName != "" {
		cfg.RootName = g.RootName
	}

	analysisResult, err := g.analyze(ctx)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("analyzed input", "structs", len(analysisResult.Structs), "root", analysisResult.RootType.GoType())

	code, err := generator.NewGeneratorWithConfig(cfg).GenerateStructs(analysisResult, cfg.Package)
	if err != nil {
		return errors.NewGenerateError("failed to generate Go structs", err)
	}

	if cfg.Generate.Format && !g.NoFormat {
		code, err = formatter.NewFormatter().Format(code)
		if err != nil {
			return errors.NewFormatError("failed to format Go code", err)
		}
	}

	return g.writeOutput(ctx, code)
}

func (g *GenCmd) analyze(ctx *Context) (models.AnalysisResult, error) {
	if g.Schema {
		data, err := g.readInput(ctx)
		if err != nil {
			return models.AnalysisResult{}, err
		}
		s, err := schema.ParseBytes(data)
		if err != nil {
			return models.AnalysisResult{}, errors.NewParsingError("invalid JSON Schema", err)
		}
		result, err := schema.NewConverterWithConfig(s, ctx.Config).Convert(g.RootName)
		if err != nil {
			return models.AnalysisResult{}, errors.NewAnalysisError("failed to convert JSON Schema", err)
		}
		return result, nil
	}

	ir, err := g.parseInput(ctx)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	result, err := analyzer.NewAnalyzerWithConfig(ctx.Config).Analyze(ir, ctx.Config.RootName)
	if err != nil {
		return models.AnalysisResult{}, errors.NewAnalysisError("failed to analyze JSON structure", err)
	}
	return result, nil
}

// parseInput reads the sample document from file or stdin
func (g *GenCmd) parseInput(ctx *Context) (models.IntermediateRepresentation, error) {
	if g.Input != "" {
		return parser.ParseFile(g.Input)
	}
	data, err := g.readInput(ctx)
	if err != nil {
		return models.IntermediateRepresentation{}, err
	}
	return parser.ParseBytes(data)
}

// readInput returns the raw input, prompting on a terminal in interactive mode
func (g *GenCmd) readInput(ctx *Context) ([]byte, error) {
	if g.Input != "" {
		data, err := os.ReadFile(g.Input)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", g.Input), errors.ErrFileNotFound)
			}
			return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", g.Input), err)
		}
		return data, nil
	}

	if f, ok := ctx.In.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return nil, errors.NewInputError("failed to access stdin", err)
		}
		if info.Mode()&os.ModeCharDevice != 0 {
			if !g.Interactive {
				return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
			}
			return readInteractiveInput(ctx)
		}
	}
	if ctx.In == nil {
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(ctx.In)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return data, nil
}

// readInteractiveInput lets users paste JSON and signal completion with
// Ctrl+D (EOF)
func readInteractiveInput(ctx *Context) ([]byte, error) {
	fmt.Fprintln(ctx.Err, "typedjson interactive mode")
	fmt.Fprintln(ctx.Err, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(ctx.In)
	var b strings.Builder
	for {
		line, err := reader.ReadString('\n')
		b.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	if strings.TrimSpace(b.String()) == "" {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}
	fmt.Fprintln(ctx.Err, "\nProcessing JSON...")
	return []byte(b.String()), nil
}

// writeOutput writes code to file or stdout
func (g *GenCmd) writeOutput(ctx *Context, code string) error {
	if g.Output != "" {
		if err := os.WriteFile(g.Output, []byte(code), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", g.Output), err)
		}
		ctx.Logger.Info("generated Go code", "file", g.Output)
		return nil
	}

	if _, err := fmt.Fprintln(ctx.Out, strings.TrimSpace(code)); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
