package generator

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mcncl/typedjson/internal/config"
	"github.com/mcncl/typedjson/internal/models"
)

// Generator turns analysis results into Go source
type Generator struct {
	config *config.Config
}

// NewGenerator creates a Generator with the default configuration
func NewGenerator() *Generator {
	return NewGeneratorWithConfig(config.NewConfig())
}

// NewGeneratorWithConfig creates a Generator with custom configuration
func NewGeneratorWithConfig(cfg *config.Config) *Generator {
	return &Generator{config: cfg}
}

// scalarAccessors maps Go scalar types to the jsonvalue accessor suffix
// used to read them, e.g. "int64" -> DecodeInt64 / Int64At / ToInt64.
var scalarAccessors = map[string]string{
	"string":  "String",
	"int":     "Int",
	"int64":   "Int64",
	"uint":    "Uint",
	"float32": "Float32",
	"float64": "Float64",
	"bool":    "Bool",
}

// GenerateStructs generates Go struct definitions, and their DecodeJSON and
// JSONFields methods when enabled, from the analysis result
func (g *Generator) GenerateStructs(result models.AnalysisResult, packageName string) (string, error) {
	var buf bytes.Buffer

	if header := strings.TrimSpace(g.config.Generate.FileHeader); header != "" {
		for _, line := range strings.Split(header, "\n") {
			buf.WriteString("// " + strings.TrimSpace(line) + "\n")
		}
		buf.WriteString("\n")
	}

	fmt.Fprintf(&buf, "package %s\n", packageName)
	g.writeImports(&buf, result)

	sortedStructs := sortStructs(result.Structs)
	for _, structDef := range sortedStructs {
		buf.WriteString("\n")
		writeStruct(&buf, structDef)

		if g.config.Generate.DecodeMethods {
			buf.WriteString("\n")
			writeDecodeMethod(&buf, structDef)
		}
		if g.config.Generate.FieldsMethods {
			buf.WriteString("\n")
			writeFieldsMethod(&buf, structDef)
		}
	}

	if result.RootType.Kind == models.Slice {
		fmt.Fprintf(&buf, "\n// The document root is a %s; decode it with jsonvalue.DecodeSlice and %s.\n",
			result.RootType.GoType(), decoderExpr(*result.RootType.SliceElementType))
	}

	return buf.String(), nil
}

func (g *Generator) writeImports(buf *bytes.Buffer, result models.AnalysisResult) {
	imports := make([]string, 0, len(result.Imports)+1)
	for imp := range result.Imports {
		imports = append(imports, imp)
	}
	if len(result.Structs) > 0 && (g.config.Generate.DecodeMethods || g.config.Generate.FieldsMethods) {
		if _, ok := result.Imports[models.ValueImport]; !ok {
			imports = append(imports, models.ValueImport)
		}
	}
	if len(imports) == 0 {
		return
	}
	sort.Strings(imports)

	var stdLibImports, thirdPartyImports []string
	for _, imp := range imports {
		// Standard library imports have no dot in the first path element
		if !strings.Contains(strings.SplitN(imp, "/", 2)[0], ".") {
			stdLibImports = append(stdLibImports, imp)
		} else {
			thirdPartyImports = append(thirdPartyImports, imp)
		}
	}

	buf.WriteString("\nimport (\n")
	for _, imp := range stdLibImports {
		fmt.Fprintf(buf, "\t%q\n", imp)
	}
	if len(stdLibImports) > 0 && len(thirdPartyImports) > 0 {
		buf.WriteString("\n")
	}
	for _, imp := range thirdPartyImports {
		fmt.Fprintf(buf, "\t%q\n", imp)
	}
	buf.WriteString(")\n")
}

// sortedFields returns the fields ordered by Go name
func sortedFields(structDef models.StructDef) []models.FieldInfo {
	fields := make([]models.FieldInfo, len(structDef.Fields))
	copy(fields, structDef.Fields)
	sort.SliceStable(fields, func(i, j int) bool {
		return fields[i].GoName < fields[j].GoName
	})
	return fields
}

func writeStruct(buf *bytes.Buffer, structDef models.StructDef) {
	fields := sortedFields(structDef)
	if len(fields) == 0 {
		fmt.Fprintf(buf, "type %s struct{}\n", structDef.Name)
		return
	}

	fmt.Fprintf(buf, "type %s struct {\n", structDef.Name)

	// Align names and types like gofmt does
	maxNameWidth, maxTypeWidth := 0, 0
	for _, field := range fields {
		maxNameWidth = max(maxNameWidth, len(field.GoName))
		maxTypeWidth = max(maxTypeWidth, len(field.GoType.GoType()))
	}

	for _, field := range fields {
		if field.Comment != "" {
			fmt.Fprintf(buf, "\t// %s\n", field.Comment)
		}
		fmt.Fprintf(buf, "\t%-*s %-*s %s\n",
			maxNameWidth, field.GoName,
			maxTypeWidth, field.GoType.GoType(),
			structTag(field))
	}
	buf.WriteString("}\n")
}

// structTag joins the json tag with any extra tags in key order
func structTag(field models.FieldInfo) string {
	if len(field.Tags) == 0 {
		return field.JSONTag
	}
	parts := []string{strings.Trim(field.JSONTag, "`")}
	keys := make([]string, 0, len(field.Tags))
	for k := range field.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%q", k, field.Tags[k]))
	}
	return "`" + strings.Join(parts, " ") + "`"
}

func receiverName(structName string) string {
	r := strings.ToLower(structName[:1])
	if r == "v" || r == "x" || r == "e" {
		return "r"
	}
	return r
}

func keyExpr(jsonKey string) string {
	return "jsonvalue.Key(" + strconv.Quote(jsonKey) + ")"
}

func writeDecodeMethod(buf *bytes.Buffer, structDef models.StructDef) {
	recv := receiverName(structDef.Name)
	fields := sortedFields(structDef)

	fmt.Fprintf(buf, "// DecodeJSON reads %s from v.\n", structDef.Name)
	if len(fields) == 0 {
		fmt.Fprintf(buf, "func (%s *%s) DecodeJSON(v jsonvalue.Value) error {\n\treturn nil\n}\n", recv, structDef.Name)
		return
	}

	fmt.Fprintf(buf, "func (%s *%s) DecodeJSON(v jsonvalue.Value) (err error) {\n", recv, structDef.Name)
	for _, field := range fields {
		writeFieldDecode(buf, recv, field)
	}
	buf.WriteString("\treturn nil\n}\n")
}

// writeFieldDecode emits the statements reading one field. Value fields
// are required; pointer fields are optional and stay nil when the key is
// missing, null or the wrong type.
func writeFieldDecode(buf *bytes.Buffer, recv string, field models.FieldInfo) {
	t := field.GoType
	target := recv + "." + field.GoName
	key := keyExpr(field.JSONKey)

	switch {
	case t.Kind == models.Interface:
		fmt.Fprintf(buf, "\t%s = v.Get(%s).ToObject()\n", target, key)
		return
	case t.Kind == models.Slice:
		fmt.Fprintf(buf, "\tif x := v.Get(%s); !x.IsNull() {\n", key)
		fmt.Fprintf(buf, "\t\tif %s, err = jsonvalue.DecodeSlice(x, %s); err != nil {\n\t\t\treturn err\n\t\t}\n\t}\n",
			target, decoderExpr(*t.SliceElementType))
		return
	case t.Kind == models.Struct && t.IsPointer:
		fmt.Fprintf(buf, "\tif x := v.Get(%s); !x.IsNull() {\n", key)
		fmt.Fprintf(buf, "\t\t%s = new(%s)\n", target, t.StructName)
		fmt.Fprintf(buf, "\t\tif err = %s.DecodeJSON(x); err != nil {\n\t\t\treturn err\n\t\t}\n\t}\n", target)
		return
	case t.Kind == models.Struct:
		fmt.Fprintf(buf, "\tif err = jsonvalue.DecodeInto(v, &%s, %s); err != nil {\n\t\treturn err\n\t}\n", target, key)
		return
	case t.Kind == models.Time && t.IsPointer:
		fmt.Fprintf(buf, "\tif x, ok := jsonvalue.TryDeserialize[jsonvalue.Time](v, %s); ok {\n\t\t%s = &x\n\t}\n", key, target)
		return
	case t.Kind == models.Time:
		fmt.Fprintf(buf, "\tif %s, err = jsonvalue.Deserialize[jsonvalue.Time](v, %s); err != nil {\n\t\treturn err\n\t}\n", target, key)
		return
	}

	accessor, scalar := scalarAccessors[t.Name]
	if t.Kind == models.Custom || !scalar {
		fmt.Fprintf(buf, "\tif err = jsonvalue.Unmarshal(v, &%s, %s); err != nil {\n\t\treturn err\n\t}\n", target, key)
		return
	}
	if t.IsPointer {
		fmt.Fprintf(buf, "\tif x, ok := v.%sAt(%s); ok {\n\t\t%s = &x\n\t}\n", accessor, key, target)
		return
	}
	fmt.Fprintf(buf, "\tif %s, err = v.Decode%s(%s); err != nil {\n\t\treturn err\n\t}\n", target, accessor, key)
}

// decoderExpr returns an expression of type func(jsonvalue.Value) (T, error)
// for the element type t
func decoderExpr(t models.TypeInfo) string {
	goType := t.GoType()
	switch {
	case t.Kind == models.Interface:
		return "jsonvalue.ToAny"
	case t.Kind == models.Slice:
		return fmt.Sprintf("func(e jsonvalue.Value) (%s, error) { return jsonvalue.DecodeSlice(e, %s) }",
			goType, decoderExpr(*t.SliceElementType))
	case t.Kind == models.Struct && t.IsPointer:
		return fmt.Sprintf("func(e jsonvalue.Value) (*%s, error) { x, err := jsonvalue.Decode[%s](e); return &x, err }",
			t.StructName, t.StructName)
	case t.Kind == models.Struct:
		return fmt.Sprintf("jsonvalue.DecoderFor[%s]()", t.StructName)
	case t.Kind == models.Time && !t.IsPointer:
		return "jsonvalue.TransformerFor[jsonvalue.Time]()"
	}
	if accessor, ok := scalarAccessors[t.Name]; ok && !t.IsPointer && t.Kind != models.Custom {
		return "jsonvalue.To" + accessor
	}
	return fmt.Sprintf("func(e jsonvalue.Value) (%s, error) { var x %s; err := jsonvalue.Unmarshal(e, &x); return x, err }",
		goType, goType)
}

func writeFieldsMethod(buf *bytes.Buffer, structDef models.StructDef) {
	recv := receiverName(structDef.Name)
	fields := sortedFields(structDef)

	fmt.Fprintf(buf, "// JSONFields lists the fields of %s for jsonvalue.Serialize.\n", structDef.Name)
	fmt.Fprintf(buf, "func (%s %s) JSONFields() []jsonvalue.Field {\n", recv, structDef.Name)
	if len(fields) == 0 {
		buf.WriteString("\treturn nil\n}\n")
		return
	}
	buf.WriteString("\treturn []jsonvalue.Field{\n")
	for _, field := range fields {
		fmt.Fprintf(buf, "\t\t%s,\n", fieldExpr(recv, field))
	}
	buf.WriteString("\t}\n}\n")
}

func fieldExpr(recv string, field models.FieldInfo) string {
	t := field.GoType
	target := recv + "." + field.GoName
	name := strconv.Quote(field.JSONKey)

	if _, scalar := scalarAccessors[t.Name]; scalar && t.Kind != models.Custom {
		if t.IsPointer {
			return fmt.Sprintf("jsonvalue.Optional(%s, %s, jsonvalue.ScalarField[%s])", name, target, t.Name)
		}
		return fmt.Sprintf("jsonvalue.ScalarField(%s, %s)", name, target)
	}
	if t.Kind == models.Time && !t.IsPointer {
		return fmt.Sprintf("jsonvalue.Transform(%s, %s)", name, target)
	}
	return fmt.Sprintf("jsonvalue.Object(%s, %s)", name, target)
}

// sortStructs sorts structs to ensure root structs come first, followed by nested structs
func sortStructs(structs []models.StructDef) []models.StructDef {
	sorted := make([]models.StructDef, len(structs))
	copy(sorted, structs)

	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].IsRoot != sorted[j].IsRoot {
			return sorted[i].IsRoot
		}
		return sorted[i].Name < sorted[j].Name
	})

	return sorted
}
