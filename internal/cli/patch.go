package cli

import (
	"fmt"
	"os"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/jsonvalue"
)

// PatchCmd applies a patch document to a document
type PatchCmd struct {
	Patch string `arg:"" help:"Patch file." type:"path"`
	Input string `help:"Path to input JSON file. Reads stdin when omitted." short:"i" type:"path"`
	Merge bool   `help:"Treat the patch as a merge patch (RFC 7386) instead of a JSON Patch (RFC 6902)." short:"m"`
}

// Run executes the patch command
func (p *PatchCmd) Run(ctx *Context) error {
	doc, err := ctx.readDocument(p.Input)
	if err != nil {
		return err
	}
	patchData, err := os.ReadFile(p.Patch)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewInputError(fmt.Sprintf("file '%s' not found", p.Patch), errors.ErrFileNotFound)
		}
		return errors.NewInputError(fmt.Sprintf("failed to read file '%s'", p.Patch), err)
	}

	patched, err := applyPatch(doc, patchData, p.Merge)
	if err != nil {
		return err
	}
	return ctx.printValue(patched, ctx.Config.Output.Pretty)
}

// applyPatch runs the document through json-patch and parses the result
// back into a Value
func applyPatch(doc jsonvalue.Value, patchData []byte, merge bool) (jsonvalue.Value, error) {
	docData, err := doc.Bytes(false)
	if err != nil {
		return jsonvalue.Null(), errors.NewInputError("document cannot be written as JSON", err)
	}

	var out []byte
	if merge {
		out, err = jsonpatch.MergePatch(docData, patchData)
		if err != nil {
			return jsonvalue.Null(), errors.NewParsingError("failed to apply merge patch", err)
		}
	} else {
		patch, err := jsonpatch.DecodePatch(patchData)
		if err != nil {
			return jsonvalue.Null(), errors.NewParsingError("invalid JSON Patch", err)
		}
		out, err = patch.Apply(docData)
		if err != nil {
			return jsonvalue.Null(), errors.NewPathError("failed to apply JSON Patch", err)
		}
	}

	patched, err := jsonvalue.FromBytes(out)
	if err != nil {
		return jsonvalue.Null(), errors.NewParsingError("patched document is not valid JSON", err)
	}
	return patched, nil
}
