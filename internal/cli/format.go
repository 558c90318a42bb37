package cli

import "github.com/mcncl/typedjson/internal/errors"

// FmtCmd reformats a document
type FmtCmd struct {
	Input   string `arg:"" optional:"" help:"Path to input JSON file. Reads stdin when omitted." type:"path"`
	Compact bool   `help:"Write the document on one line." short:"C"`
}

// Run executes the fmt command
func (f *FmtCmd) Run(ctx *Context) error {
	doc, err := ctx.readDocument(f.Input)
	if err != nil {
		return err
	}
	pretty := ctx.Config.Output.Pretty && !f.Compact
	if err := ctx.printer(pretty).Fprint(ctx.Out, doc); err != nil {
		return errors.NewOutputError("failed to write output", err)
	}
	return nil
}
