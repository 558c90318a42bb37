package cli

import (
	"fmt"
	"io"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/mcncl/typedjson/internal/display"
	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/jsonvalue"
)

// DiffCmd compares two documents structurally
type DiffCmd struct {
	From  string `arg:"" help:"Original document." type:"path"`
	To    string `arg:"" help:"Changed document." type:"path"`
	Merge bool   `help:"Print a merge patch that turns the original into the changed document instead of a line diff." short:"m"`
}

// Run executes the diff command. Equal documents print nothing.
func (d *DiffCmd) Run(ctx *Context) error {
	from, err := ctx.readDocument(d.From)
	if err != nil {
		return err
	}
	to, err := ctx.readDocument(d.To)
	if err != nil {
		return err
	}

	if from.Equal(to) {
		ctx.Logger.Debug("documents are equal")
		return nil
	}

	if d.Merge {
		if err := d.printMergePatch(ctx, from, to); err != nil {
			return err
		}
	} else if err := writeLineDiff(ctx.Out, from, to, ctx.useColor()); err != nil {
		return errors.NewOutputError("failed to write diff", err)
	}
	return errors.ErrNotEqual
}

func (d *DiffCmd) printMergePatch(ctx *Context, from, to jsonvalue.Value) error {
	fromData, err := from.Bytes(false)
	if err != nil {
		return errors.NewOutputError("cannot encode "+d.From, err)
	}
	toData, err := to.Bytes(false)
	if err != nil {
		return errors.NewOutputError("cannot encode "+d.To, err)
	}
	patch, err := jsonpatch.CreateMergePatch(fromData, toData)
	if err != nil {
		return errors.NewAnalysisError("failed to compute merge patch", err)
	}
	doc, err := jsonvalue.FromBytes(patch)
	if err != nil {
		return errors.NewParsingError("invalid merge patch", err)
	}
	return ctx.printValue(doc, ctx.Config.Output.Pretty)
}

// writeLineDiff renders both documents pretty printed with sorted keys and
// writes a unified line diff of the two texts
func writeLineDiff(w io.Writer, from, to jsonvalue.Value, colored bool) error {
	plain := display.NewPrinter(false, true)
	a := plain.Render(from) + "\n"
	b := plain.Render(to) + "\n"

	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	del := fmt.Sprint
	ins := fmt.Sprint
	if colored {
		red, green := color.New(color.FgRed), color.New(color.FgGreen)
		red.EnableColor()
		green.EnableColor()
		del, ins = red.Sprint, green.Sprint
	}

	for _, diff := range diffs {
		prefix, paint := " ", fmt.Sprint
		switch diff.Type {
		case diffpatch.DiffDelete:
			prefix, paint = "-", del
		case diffpatch.DiffInsert:
			prefix, paint = "+", ins
		}
		for _, line := range strings.SplitAfter(strings.TrimSuffix(diff.Text, "\n"), "\n") {
			if _, err := fmt.Fprintln(w, paint(prefix+strings.TrimSuffix(line, "\n"))); err != nil {
				return err
			}
		}
	}
	return nil
}
