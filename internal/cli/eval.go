package cli

import (
	"fmt"

	"github.com/expr-lang/expr"

	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/jsonvalue"
)

// EvalCmd evaluates an expr-lang expression against a document. The
// top-level keys of a Map document are variables; the whole document is
// always available as doc, and at("a.b[0]") resolves a path.
type EvalCmd struct {
	Expression string `arg:"" help:"Expression, e.g. 'len(owners) > 1' or 'at(\"prices[0]\") * 2'."`
	Input      string `help:"Path to input JSON file. Reads stdin when omitted." short:"i" type:"path"`
}

// Run executes the eval command
func (e *EvalCmd) Run(ctx *Context) error {
	doc, err := ctx.readDocument(e.Input)
	if err != nil {
		return err
	}

	result, err := evaluate(doc, e.Expression)
	if err != nil {
		return err
	}
	ctx.Logger.Debug("evaluated expression", "expr", e.Expression, "kind", result.Kind())
	return ctx.printValue(result, ctx.Config.Output.Pretty)
}

func evaluate(doc jsonvalue.Value, expression string) (jsonvalue.Value, error) {
	env := map[string]any{}
	if m, ok := doc.ToObject().(map[string]any); ok {
		env = m
	}
	env["doc"] = doc.ToObject()

	program, err := expr.Compile(expression,
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.Function("at", func(params ...any) (any, error) {
			path, err := jsonvalue.ParsePath(params[0].(string))
			if err != nil {
				return nil, err
			}
			return doc.Get(path...).ToObject(), nil
		}, new(func(string) any)),
	)
	if err != nil {
		return jsonvalue.Null(), errors.NewParsingError("invalid expression", err)
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return jsonvalue.Null(), errors.NewAnalysisError("expression failed", err)
	}

	result, ok := jsonvalue.FromObject(out)
	if !ok {
		return jsonvalue.NewString(fmt.Sprint(out)), nil
	}
	return result, nil
}
