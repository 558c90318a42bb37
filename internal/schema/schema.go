// Package schema reads JSON Schema documents and converts them into the
// struct definitions the generator emits.
package schema

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/mcncl/typedjson/internal/config"
	"github.com/mcncl/typedjson/internal/models"
	"github.com/mcncl/typedjson/jsonvalue"
)

// SchemaType handles the type keyword, which is a string or an array of strings
type SchemaType struct {
	Types []string
}

// DecodeJSON accepts both forms of the type keyword
func (st *SchemaType) DecodeJSON(v jsonvalue.Value) error {
	if s, ok := v.AsString(); ok {
		st.Types = []string{s}
		return nil
	}
	if v.Kind() == jsonvalue.ArrayKind {
		types, err := jsonvalue.DecodeSlice(v, jsonvalue.ToString)
		if err != nil {
			return fmt.Errorf("type must be string or array of strings: %w", err)
		}
		st.Types = types
		return nil
	}
	return fmt.Errorf("type must be string or array of strings")
}

// Primary returns the first type, or "" if none
func (st SchemaType) Primary() string {
	if len(st.Types) > 0 {
		return st.Types[0]
	}
	return ""
}

// IsNullable reports whether "null" is one of the allowed types
func (st SchemaType) IsNullable() bool {
	return slices.Contains(st.Types, "null")
}

// AdditionalProperties is a boolean or a schema
type AdditionalProperties struct {
	Allowed bool
	Schema  *Schema
}

// DecodeJSON accepts both forms of additionalProperties
func (ap *AdditionalProperties) DecodeJSON(v jsonvalue.Value) error {
	if b, ok := v.AsBool(); ok {
		ap.Allowed = b
		ap.Schema = nil
		return nil
	}
	if v.Kind() != jsonvalue.MapKind {
		return fmt.Errorf("additionalProperties must be boolean or schema")
	}
	var s Schema
	if err := s.DecodeJSON(v); err != nil {
		return err
	}
	ap.Allowed = true
	ap.Schema = &s
	return nil
}

// Schema is a JSON Schema document
type Schema struct {
	Schema      string
	ID          string
	Ref         string
	Title       string
	Description string

	Type SchemaType

	Properties           map[string]*Schema
	Required             []string
	AdditionalProperties *AdditionalProperties

	Items *Schema

	MinLength *int
	MaxLength *int
	Pattern   string
	Format    string

	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum *float64
	ExclusiveMaximum *float64
	MultipleOf       *float64

	MinItems    *int
	MaxItems    *int
	UniqueItems bool

	Enum     []any
	Nullable bool

	AllOf []*Schema
	AnyOf []*Schema
	OneOf []*Schema

	Definitions map[string]*Schema
	Defs        map[string]*Schema // $defs, draft 2019-09+

	Default  any
	Examples []any
}

// DecodeJSON reads every supported keyword. Unknown keywords are ignored;
// a known keyword with the wrong shape is an error.
func (s *Schema) DecodeJSON(v jsonvalue.Value) error {
	if v.Kind() != jsonvalue.MapKind {
		return fmt.Errorf("schema must be an object, got %s", v.Kind())
	}

	r := &keywordReader{v: v}
	s.Schema = r.string("$schema")
	s.ID = r.string("$id")
	s.Ref = r.string("$ref")
	s.Title = r.string("title")
	s.Description = r.string("description")
	if r.has("type") {
		r.decode("type", &s.Type)
	}

	s.Properties = r.schemaMap("properties")
	s.Required = r.strings("required")
	if r.has("additionalProperties") {
		s.AdditionalProperties = &AdditionalProperties{}
		r.decode("additionalProperties", s.AdditionalProperties)
	}
	s.Items = r.schema("items")

	s.MinLength = r.int("minLength")
	s.MaxLength = r.int("maxLength")
	s.Pattern = r.string("pattern")
	s.Format = r.string("format")

	s.Minimum = r.float("minimum")
	s.Maximum = r.float("maximum")
	s.ExclusiveMinimum = r.float("exclusiveMinimum")
	s.ExclusiveMaximum = r.float("exclusiveMaximum")
	s.MultipleOf = r.float("multipleOf")

	s.MinItems = r.int("minItems")
	s.MaxItems = r.int("maxItems")
	s.UniqueItems = r.bool("uniqueItems")

	s.Enum = r.objects("enum")
	s.Nullable = r.bool("nullable")

	s.AllOf = r.schemas("allOf")
	s.AnyOf = r.schemas("anyOf")
	s.OneOf = r.schemas("oneOf")

	s.Definitions = r.schemaMap("definitions")
	s.Defs = r.schemaMap("$defs")

	if r.has("default") {
		s.Default = v.Get(jsonvalue.Key("default")).ToObject()
	}
	s.Examples = r.objects("examples")

	return r.err
}

// keywordReader reads optional keywords from a schema object and latches
// the first error. Absent and null keywords yield zero values.
type keywordReader struct {
	v   jsonvalue.Value
	err error
}

func (r *keywordReader) has(key string) bool {
	return r.err == nil && !r.v.Get(jsonvalue.Key(key)).IsNull()
}

func (r *keywordReader) fail(key string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%s: %w", key, err)
	}
}

func (r *keywordReader) decode(key string, dst jsonvalue.Decodable) {
	if err := jsonvalue.DecodeInto(r.v, dst, jsonvalue.Key(key)); err != nil {
		r.fail(key, err)
	}
}

func (r *keywordReader) string(key string) string {
	if !r.has(key) {
		return ""
	}
	s, err := r.v.DecodeString(jsonvalue.Key(key))
	if err != nil {
		r.fail(key, err)
	}
	return s
}

func (r *keywordReader) bool(key string) bool {
	if !r.has(key) {
		return false
	}
	b, err := r.v.DecodeBool(jsonvalue.Key(key))
	if err != nil {
		r.fail(key, err)
	}
	return b
}

func (r *keywordReader) int(key string) *int {
	if !r.has(key) {
		return nil
	}
	i, err := r.v.DecodeInt(jsonvalue.Key(key))
	if err != nil {
		r.fail(key, err)
		return nil
	}
	return &i
}

func (r *keywordReader) float(key string) *float64 {
	if !r.has(key) {
		return nil
	}
	f, err := r.v.DecodeFloat64(jsonvalue.Key(key))
	if err != nil {
		r.fail(key, err)
		return nil
	}
	return &f
}

func (r *keywordReader) strings(key string) []string {
	if !r.has(key) {
		return nil
	}
	out, err := jsonvalue.DecodeSlice(r.v, jsonvalue.ToString, jsonvalue.Key(key))
	if err != nil {
		r.fail(key, err)
	}
	return out
}

func (r *keywordReader) objects(key string) []any {
	if !r.has(key) {
		return nil
	}
	return jsonvalue.SliceOf(r.v, jsonvalue.ToAny, jsonvalue.Key(key))
}

func (r *keywordReader) schema(key string) *Schema {
	if !r.has(key) {
		return nil
	}
	s, err := decodeSchema(r.v.Get(jsonvalue.Key(key)))
	if err != nil {
		r.fail(key, err)
		return nil
	}
	return s
}

func (r *keywordReader) schemas(key string) []*Schema {
	if !r.has(key) {
		return nil
	}
	out, err := jsonvalue.DecodeSlice(r.v, decodeSchema, jsonvalue.Key(key))
	if err != nil {
		r.fail(key, err)
	}
	return out
}

func (r *keywordReader) schemaMap(key string) map[string]*Schema {
	if !r.has(key) {
		return nil
	}
	if r.v.Get(jsonvalue.Key(key)).Kind() != jsonvalue.MapKind {
		r.fail(key, fmt.Errorf("must be an object"))
		return nil
	}
	out, err := jsonvalue.DecodeMapOf(r.v, decodeSchema, jsonvalue.Key(key))
	if err != nil {
		r.fail(key, err)
	}
	return out
}

func decodeSchema(v jsonvalue.Value) (*Schema, error) {
	var s Schema
	if err := s.DecodeJSON(v); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseFile reads and parses a JSON Schema from a file
func ParseFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	return ParseBytes(data)
}

// ParseBytes parses a JSON Schema from bytes
func ParseBytes(data []byte) (*Schema, error) {
	doc, err := jsonvalue.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON Schema: %w", err)
	}

	schema, err := decodeSchema(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON Schema: %w", err)
	}
	return schema, nil
}

// ParseString parses a JSON Schema from a string
func ParseString(s string) (*Schema, error) {
	return ParseBytes([]byte(s))
}

// Converter converts a JSON Schema to Go struct definitions
type Converter struct {
	schema       *Schema
	config       *config.Config
	structs      []models.StructDef
	imports      map[string]struct{}
	structNames  map[string]int             // used names, to avoid collisions
	definitions  map[string]*Schema         // definitions and $defs merged
	resolvedRefs map[string]models.TypeInfo // already converted $refs
}

// NewConverter creates a converter with the default configuration
func NewConverter(schema *Schema) *Converter {
	return NewConverterWithConfig(schema, config.NewConfig())
}

// NewConverterWithConfig creates a converter that applies the naming and
// skip rules of cfg
func NewConverterWithConfig(schema *Schema, cfg *config.Config) *Converter {
	definitions := make(map[string]*Schema, len(schema.Definitions)+len(schema.Defs))
	for k, v := range schema.Definitions {
		definitions[k] = v
	}
	for k, v := range schema.Defs {
		definitions[k] = v
	}

	return &Converter{
		schema:       schema,
		config:       cfg,
		structs:      make([]models.StructDef, 0),
		imports:      make(map[string]struct{}),
		structNames:  make(map[string]int),
		definitions:  definitions,
		resolvedRefs: make(map[string]models.TypeInfo),
	}
}

// Convert processes the schema and returns the struct definitions
func (c *Converter) Convert(rootName string) (models.AnalysisResult, error) {
	if rootName == "" {
		rootName = c.schema.Title
		if rootName == "" {
			rootName = "RootType"
		}
	}
	rootName = toPascalCase(rootName)

	rootType, err := c.convertSchema(c.schema, rootName, true)
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("failed to convert schema: %w", err)
	}

	return models.AnalysisResult{
		Structs:  c.structs,
		Imports:  c.imports,
		RootType: rootType,
	}, nil
}

func (c *Converter) convertSchema(schema *Schema, suggestedName string, isRoot bool) (models.TypeInfo, error) {
	if schema.Ref != "" {
		return c.resolveRef(schema.Ref)
	}

	if len(schema.AllOf) > 0 {
		merged := c.mergeAllOf(schema.AllOf)
		return c.convertSchema(merged, suggestedName, isRoot)
	}

	schemaType := schema.Type.Primary()
	if schemaType == "" {
		if len(schema.Properties) > 0 {
			schemaType = "object"
		} else if schema.Items != nil {
			schemaType = "array"
		}
	}

	// ["null", "string"] means an optional string
	if schemaType == "null" && len(schema.Type.Types) > 1 {
		for _, t := range schema.Type.Types {
			if t != "null" {
				schemaType = t
				break
			}
		}
	}

	switch schemaType {
	case "object":
		if len(schema.Properties) == 0 && !isRoot {
			return c.convertMap(schema, suggestedName)
		}
		return c.convertObject(schema, suggestedName, isRoot)
	case "array":
		return c.convertArray(schema, suggestedName, isRoot)
	case "string":
		return c.convertString(schema), nil
	case "integer":
		return models.TypeInfo{Kind: models.Int, Name: "int64"}, nil
	case "number":
		return models.TypeInfo{Kind: models.Float, Name: "float64"}, nil
	case "boolean":
		return models.TypeInfo{Kind: models.Bool, Name: "bool"}, nil
	default:
		return models.TypeInfo{Kind: models.Interface, Name: "any"}, nil
	}
}

func (c *Converter) convertObject(schema *Schema, structName string, isRoot bool) (models.TypeInfo, error) {
	finalName := c.generateUniqueName(structName)

	requiredSet := make(map[string]bool, len(schema.Required))
	for _, r := range schema.Required {
		requiredSet[r] = true
	}

	propNames := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		propNames = append(propNames, name)
	}
	sort.Strings(propNames)

	fields := make([]models.FieldInfo, 0, len(propNames))
	for _, propName := range propNames {
		if c.config.ShouldSkipField(propName) {
			continue
		}
		propSchema := schema.Properties[propName]
		goFieldName := c.config.GetFieldName(propName)

		typeInfo, err := c.convertSchema(propSchema, finalName+goFieldName, false)
		if err != nil {
			return models.TypeInfo{}, fmt.Errorf("failed to convert property %s: %w", propName, err)
		}

		// Optional and nullable fields become pointers; slices and any are
		// nil without one
		isRequired := requiredSet[propName]
		if (!isRequired || propSchema.Nullable || propSchema.Type.IsNullable()) && needsPointer(typeInfo) {
			typeInfo.IsPointer = true
		}

		fields = append(fields, c.newField(propName, goFieldName, propSchema, typeInfo, isRequired))
	}

	c.structs = append(c.structs, models.StructDef{
		Name:   finalName,
		Fields: fields,
		IsRoot: isRoot,
	})

	return models.TypeInfo{
		Kind:       models.Struct,
		Name:       finalName,
		StructName: finalName,
	}, nil
}

// convertMap handles an object without properties. Its values are kept as
// any since additionalProperties has no Go struct form.
func (c *Converter) convertMap(schema *Schema, suggestedName string) (models.TypeInfo, error) {
	if ap := schema.AdditionalProperties; ap != nil && ap.Schema != nil && len(ap.Schema.Properties) > 0 {
		return c.convertObject(ap.Schema, suggestedName, false)
	}
	return models.TypeInfo{Kind: models.Interface, Name: "any"}, nil
}

func (c *Converter) convertArray(schema *Schema, suggestedName string, isRoot bool) (models.TypeInfo, error) {
	elementType := models.TypeInfo{Kind: models.Interface, Name: "any"}
	if schema.Items != nil {
		elementName := suggestedName
		if !isRoot {
			elementName = singularize(suggestedName)
		}
		var err error
		elementType, err = c.convertSchema(schema.Items, elementName, false)
		if err != nil {
			return models.TypeInfo{}, fmt.Errorf("failed to convert array items: %w", err)
		}
	}

	return models.TypeInfo{
		Kind:             models.Slice,
		Name:             "[]" + elementType.GoType(),
		SliceElementType: &elementType,
	}, nil
}

func (c *Converter) convertString(schema *Schema) models.TypeInfo {
	switch schema.Format {
	case "date-time", "date":
		c.imports[models.ValueImport] = struct{}{}
		return models.TypeInfo{Kind: models.Time, Name: "jsonvalue.Time"}
	default:
		// uuid and friends stay strings to keep generated code dependency free
		return models.TypeInfo{Kind: models.String, Name: "string"}
	}
}

func needsPointer(t models.TypeInfo) bool {
	return t.Kind != models.Slice && t.Kind != models.Interface
}

func (c *Converter) resolveRef(ref string) (models.TypeInfo, error) {
	if cached, ok := c.resolvedRefs[ref]; ok {
		return cached, nil
	}

	defName, defSchema, err := c.lookupRef(ref)
	if err != nil {
		return models.TypeInfo{}, err
	}
	typeInfo, err := c.convertSchema(defSchema, toPascalCase(defName), false)
	if err != nil {
		return models.TypeInfo{}, err
	}
	c.resolvedRefs[ref] = typeInfo
	return typeInfo, nil
}

// lookupRef finds a local reference like "#/definitions/User" or "#/$defs/User"
func (c *Converter) lookupRef(ref string) (string, *Schema, error) {
	for _, prefix := range []string{"#/definitions/", "#/$defs/"} {
		if defName, ok := strings.CutPrefix(ref, prefix); ok {
			if defSchema, ok := c.definitions[defName]; ok {
				return defName, defSchema, nil
			}
			return "", nil, fmt.Errorf("unresolved $ref: %s", ref)
		}
	}
	return "", nil, fmt.Errorf("external $ref not supported: %s", ref)
}

func (c *Converter) mergeAllOf(schemas []*Schema) *Schema {
	merged := &Schema{
		Properties: make(map[string]*Schema),
		Required:   make([]string, 0),
	}

	for _, s := range schemas {
		resolved := s
		if s.Ref != "" {
			if _, defSchema, err := c.lookupRef(s.Ref); err == nil {
				resolved = defSchema
			}
		}

		for k, v := range resolved.Properties {
			merged.Properties[k] = v
		}
		merged.Required = append(merged.Required, resolved.Required...)

		if merged.Title == "" {
			merged.Title = resolved.Title
		}
		if merged.Description == "" {
			merged.Description = resolved.Description
		}
	}

	merged.Type = SchemaType{Types: []string{"object"}}
	return merged
}

// newField builds the json tag, the validate tag and the field comment
func (c *Converter) newField(jsonKey, goName string, schema *Schema, typeInfo models.TypeInfo, isRequired bool) models.FieldInfo {
	jsonTagValue := jsonKey
	if (typeInfo.IsPointer && c.config.JSONTags.OmitemptyForPointers) || !needsPointer(typeInfo) {
		jsonTagValue += ",omitempty"
	}

	var validation []string
	if isRequired {
		validation = append(validation, "required")
	}
	if schema.MinLength != nil {
		validation = append(validation, fmt.Sprintf("min=%d", *schema.MinLength))
	}
	if schema.MaxLength != nil {
		validation = append(validation, fmt.Sprintf("max=%d", *schema.MaxLength))
	}
	switch schema.Format {
	case "email":
		validation = append(validation, "email")
	case "uri", "url":
		validation = append(validation, "url")
	case "uuid":
		validation = append(validation, "uuid")
	}
	if schema.Minimum != nil {
		validation = append(validation, fmt.Sprintf("min=%v", *schema.Minimum))
	}
	if schema.Maximum != nil {
		validation = append(validation, fmt.Sprintf("max=%v", *schema.Maximum))
	}
	if schema.MinItems != nil {
		validation = append(validation, fmt.Sprintf("min=%d", *schema.MinItems))
	}
	if schema.MaxItems != nil {
		validation = append(validation, fmt.Sprintf("max=%d", *schema.MaxItems))
	}
	if len(schema.Enum) > 0 {
		members := make([]string, len(schema.Enum))
		for i, m := range schema.Enum {
			members[i] = fmt.Sprint(m)
		}
		validation = append(validation, "oneof="+strings.Join(members, " "))
	}

	var tags map[string]string
	if len(validation) > 0 {
		tags = map[string]string{"validate": strings.Join(validation, ",")}
	}

	return models.FieldInfo{
		JSONKey: jsonKey,
		GoName:  goName,
		GoType:  typeInfo,
		JSONTag: fmt.Sprintf("`json:\"%s\"`", jsonTagValue),
		Tags:    tags,
		Comment: schema.Description,
	}
}

func (c *Converter) generateUniqueName(baseName string) string {
	name := baseName
	count := c.structNames[baseName]
	if count > 0 {
		name = fmt.Sprintf("%s%d", baseName, count)
	}
	c.structNames[baseName] = count + 1
	return name
}

func toPascalCase(s string) string {
	name := config.GoName(s)
	if name == "" {
		return "Field"
	}
	return name
}

func singularize(s string) string {
	lower := strings.ToLower(s)

	if strings.HasSuffix(lower, "ies") && len(s) > 3 {
		return s[:len(s)-3] + "y"
	}
	if strings.HasSuffix(lower, "es") && len(s) > 2 {
		return s[:len(s)-2]
	}
	if strings.HasSuffix(lower, "s") && len(s) > 1 {
		return s[:len(s)-1]
	}

	return s
}
