package cli

import (
	"fmt"

	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/jsonvalue"
)

// GetCmd prints the value at a path
type GetCmd struct {
	Path   string `arg:"" optional:"" help:"Path expression, e.g. owners[0].name. Empty selects the whole document."`
	Input  string `help:"Path to input JSON file. Reads stdin when omitted." short:"i" type:"path"`
	Type   string `help:"Convert the value: string, int, float, bool, time, url, color or any." short:"t" enum:"string,int,float,bool,time,url,color,any" default:"any"`
	Strict bool   `help:"Fail when the path does not resolve instead of printing null." short:"s"`
}

// Run executes the get command
func (g *GetCmd) Run(ctx *Context) error {
	doc, err := ctx.readDocument(g.Input)
	if err != nil {
		return err
	}

	path, err := jsonvalue.ParsePath(g.Path)
	if err != nil {
		return errors.NewPathError(fmt.Sprintf("invalid path %q", g.Path), fmt.Errorf("%w: %v", errors.ErrInvalidPath, err))
	}

	target := doc.Get(path...)
	if g.Strict {
		if target, err = doc.Resolve(path...); err != nil {
			return errors.NewPathError("cannot resolve "+g.Path, err)
		}
	}
	ctx.Logger.Debug("resolved path", "path", jsonvalue.FormatPath(path), "kind", target.Kind())

	converted, err := convert(target, g.Type)
	if err != nil {
		if !g.Strict {
			ctx.Logger.Debug("conversion failed", "type", g.Type, "err", err)
			return ctx.printValue(jsonvalue.Null(), true)
		}
		return errors.NewDecodeError("cannot read "+g.Path, err)
	}
	return ctx.printValue(converted, ctx.Config.Output.Pretty)
}

// convert checks v against a --type name and returns the normalized value
func convert(v jsonvalue.Value, typ string) (jsonvalue.Value, error) {
	switch typ {
	case "string":
		s, err := jsonvalue.ToString(v)
		return jsonvalue.NewString(s), err
	case "int":
		i, err := jsonvalue.ToInt64(v)
		return jsonvalue.NewInt(i), err
	case "float":
		f, err := jsonvalue.ToFloat64(v)
		return jsonvalue.NewFloat(f), err
	case "bool":
		b, err := jsonvalue.ToBool(v)
		return jsonvalue.NewBool(b), err
	case "time":
		return reserialize[jsonvalue.Time](v)
	case "url":
		return reserialize[jsonvalue.URL](v)
	case "color":
		return reserialize[jsonvalue.Color](v)
	default:
		return v, nil
	}
}

// reserialize round-trips v through a Transformable type
func reserialize[T any, PT jsonvalue.TransformablePtr[T]](v jsonvalue.Value) (jsonvalue.Value, error) {
	t, err := jsonvalue.Deserialize[T, PT](v)
	if err != nil {
		return jsonvalue.Null(), err
	}
	return PT(&t).Serialize(), nil
}
