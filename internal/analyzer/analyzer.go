package analyzer

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/mcncl/typedjson/internal/config"
	"github.com/mcncl/typedjson/internal/models"
	"github.com/mcncl/typedjson/jsonvalue"
)

// DefaultRootName is the default name for the root struct if not specified.
const DefaultRootName = "RootType"

// Regex patterns for special types
var (
	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// Time format patterns, most specific first
	timePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{9}(Z|[+-]\d{2}:\d{2})$`),             // RFC 3339 nano
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`),            // RFC 3339
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?([+-]\d{2}:\d{2}|Z|[+-]\d{4})?$`), // ISO 8601 variants
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),                                                         // 2006-01-02
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`),                               // 2006-01-02 15:04:05
	}
)

var (
	anyType     = models.TypeInfo{Kind: models.Interface, Name: "any"}
	boolType    = models.TypeInfo{Kind: models.Bool, Name: "bool"}
	stringType  = models.TypeInfo{Kind: models.String, Name: "string"}
	int64Type   = models.TypeInfo{Kind: models.Int, Name: "int64"}
	float64Type = models.TypeInfo{Kind: models.Float, Name: "float64"}
	timeType    = models.TypeInfo{Kind: models.Time, Name: "jsonvalue.Time"}
)

// Analyzer infers Go struct definitions from a sample document
type Analyzer struct {
	// structNames tracks generated struct names to avoid collisions
	structNames    map[string]int
	rootIsArray    bool
	analysisResult models.AnalysisResult
	config         *config.Config
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithConfig(config.NewConfig())
}

// NewAnalyzerWithConfig creates a new Analyzer instance with custom configuration.
func NewAnalyzerWithConfig(cfg *config.Config) *Analyzer {
	return &Analyzer{
		structNames: make(map[string]int),
		analysisResult: models.AnalysisResult{
			Structs: make([]models.StructDef, 0),
			Imports: make(map[string]struct{}),
		},
		config: cfg,
	}
}

// Analyze processes a sample document and returns struct definitions and imports
func (a *Analyzer) Analyze(ir models.IntermediateRepresentation, rootStructName string) (models.AnalysisResult, error) {
	if rootStructName == "" {
		rootStructName = DefaultRootName
	}
	rootStructName = a.generateUniqueStructName(a.getFieldName(rootStructName))

	root := ir.Root
	switch root.Kind() {
	case jsonvalue.MapKind:
		a.analysisResult.RootType = a.analyzeObject(root, rootStructName, true)
	case jsonvalue.ArrayKind:
		a.rootIsArray = true
		rootType, err := a.analyzeArray(root, rootStructName, true)
		if err != nil {
			return models.AnalysisResult{}, fmt.Errorf("failed to analyze root array: %w", err)
		}
		a.analysisResult.RootType = rootType
	default:
		// Scalars and null at the root are wrapped in a struct
		valueType, err := a.analyzeNode(root, rootStructName+"Value")
		if err != nil {
			return models.AnalysisResult{}, fmt.Errorf("failed to analyze root node: %w", err)
		}
		a.analysisResult.Structs = append(a.analysisResult.Structs, models.StructDef{
			Name: rootStructName,
			Fields: []models.FieldInfo{
				{
					JSONKey: "value",
					GoName:  "Value",
					GoType:  valueType,
					JSONTag: fmt.Sprintf("`json:\"value%s\"`", a.determineOmitempty(valueType)),
				},
			},
			IsRoot: true,
		})
		a.analysisResult.RootType = models.TypeInfo{Kind: models.Struct, Name: rootStructName, StructName: rootStructName}
	}

	return a.analysisResult, nil
}

// analyzeNode determines the TypeInfo for a value, defining structs for
// objects as it goes. suggestedName names any struct created here.
func (a *Analyzer) analyzeNode(node jsonvalue.Value, suggestedName string) (models.TypeInfo, error) {
	switch node.Kind() {
	case jsonvalue.NullKind:
		return anyType, nil
	case jsonvalue.BoolKind:
		return boolType, nil
	case jsonvalue.StringKind:
		s, _ := node.AsString()
		return a.analyzeString(s), nil
	case jsonvalue.IntKind:
		return int64Type, nil
	case jsonvalue.FloatKind:
		return float64Type, nil
	case jsonvalue.MapKind:
		t := a.analyzeObject(node, suggestedName, false)
		t.IsPointer = true
		return t, nil
	case jsonvalue.ArrayKind:
		return a.analyzeArray(node, suggestedName, false)
	default:
		return models.TypeInfo{}, fmt.Errorf("unexpected json value kind: %s", node.Kind())
	}
}

func (a *Analyzer) analyzeString(s string) models.TypeInfo {
	// UUIDs stay strings
	if uuidRegex.MatchString(s) {
		return stringType
	}
	for _, pattern := range timePatterns {
		if pattern.MatchString(s) {
			a.analysisResult.Imports[models.ValueImport] = struct{}{}
			return timeType
		}
	}
	return stringType
}

func (a *Analyzer) analyzeObject(obj jsonvalue.Value, structName string, isRoot bool) models.TypeInfo {
	candidate := models.StructDef{
		Name:   structName,
		Fields: make([]models.FieldInfo, 0, obj.Len()),
	}

	// Entries iterates in sorted key order
	for key, val := range obj.Entries() {
		if a.config.ShouldSkipField(key) {
			continue
		}
		goFieldName := a.getFieldName(key)

		if field, ok := a.mappedField(key, goFieldName, val.IsNull()); ok {
			candidate.Fields = append(candidate.Fields, field)
			continue
		}

		fieldType, err := a.analyzeNode(val, structName+goFieldName)
		if err != nil {
			// analyzeNode only fails on unknown kinds, which Value cannot hold
			fieldType = anyType
		}
		candidate.Fields = append(candidate.Fields, a.newField(key, goFieldName, fieldType))
	}

	return a.findOrAddStructDef(candidate, structName, isRoot)
}

// mappedField applies a configured type mapping to key, if one matches
func (a *Analyzer) mappedField(key, goFieldName string, nullable bool) (models.FieldInfo, bool) {
	mapping, found := a.config.FindTypeMapping(key)
	if !found {
		return models.FieldInfo{}, false
	}
	if mapping.Import != "" {
		a.analysisResult.Imports[mapping.Import] = struct{}{}
	}
	fieldType := models.TypeInfo{Kind: models.Custom, Name: mapping.Type, IsPointer: nullable}
	field := a.newField(key, goFieldName, fieldType)
	field.Comment = mapping.Comment
	return field, true
}

func (a *Analyzer) newField(key, goFieldName string, fieldType models.TypeInfo) models.FieldInfo {
	return models.FieldInfo{
		JSONKey: key,
		GoName:  goFieldName,
		GoType:  fieldType,
		JSONTag: fmt.Sprintf("`json:\"%s%s\"`", key, a.determineOmitempty(fieldType)),
	}
}

// analyzeArray infers a slice type. Arrays of objects are merged into a
// single element struct; mixed ints and floats widen to float64; anything
// else heterogeneous becomes []any.
func (a *Analyzer) analyzeArray(arr jsonvalue.Value, suggestedName string, isRoot bool) (models.TypeInfo, error) {
	if arr.Len() == 0 {
		return sliceOf(anyType), nil
	}

	elementName := suggestedName
	if !isRoot && a.config.Arrays.SingularizeNames {
		elementName = singularize(suggestedName)
	}

	elements, _ := arr.Array()

	if allOfKind(elements, jsonvalue.MapKind) {
		if !a.config.Arrays.MergeDifferentObjects && !sameKeys(elements) {
			return sliceOf(anyType), nil
		}
		merged := a.createMergedStructDef(elements, elementName)
		return sliceOf(a.findOrAddStructDef(merged, elementName, isRoot)), nil
	}

	elementTypes := make([]models.TypeInfo, len(elements))
	for i, element := range elements {
		t, err := a.analyzeNode(element, elementName)
		if err != nil {
			return models.TypeInfo{}, fmt.Errorf("failed to analyze element %d of array '%s': %w", i, suggestedName, err)
		}
		elementTypes[i] = t
	}
	return sliceOf(unify(elementTypes)), nil
}

func sliceOf(elem models.TypeInfo) models.TypeInfo {
	return models.TypeInfo{
		Kind:             models.Slice,
		Name:             "[]" + elem.GoType(),
		SliceElementType: &elem,
	}
}

// unify finds one type covering all of types
func unify(types []models.TypeInfo) models.TypeInfo {
	if len(types) == 0 {
		return anyType
	}
	first := types[0]
	same, numeric := true, true
	for _, t := range types {
		if !t.Equal(first) {
			same = false
		}
		if t.Kind != models.Int && t.Kind != models.Float {
			numeric = false
		}
	}
	switch {
	case same:
		return first
	case numeric:
		return float64Type
	}
	return anyType
}

func allOfKind(values []jsonvalue.Value, kind jsonvalue.Kind) bool {
	for _, v := range values {
		if v.Kind() != kind {
			return false
		}
	}
	return len(values) > 0
}

func sameKeys(objects []jsonvalue.Value) bool {
	for _, obj := range objects[1:] {
		if !slices.Equal(obj.Keys(), objects[0].Keys()) {
			return false
		}
	}
	return true
}

// createMergedStructDef builds one struct covering every key seen across
// objects. Keys that are absent or null in some objects become optional.
func (a *Analyzer) createMergedStructDef(objects []jsonvalue.Value, suggestedName string) models.StructDef {
	var keys []string
	for _, obj := range objects {
		keys = append(keys, obj.Keys()...)
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)

	fields := make([]models.FieldInfo, 0, len(keys))
	for _, key := range keys {
		if a.config.ShouldSkipField(key) {
			continue
		}
		goFieldName := a.getFieldName(key)

		var present []jsonvalue.Value
		optional := false
		for _, obj := range objects {
			val, err := obj.Resolve(jsonvalue.Key(key))
			if err != nil || val.IsNull() {
				optional = true
				continue
			}
			present = append(present, val)
		}

		if field, ok := a.mappedField(key, goFieldName, optional); ok {
			fields = append(fields, field)
			continue
		}

		nestedName := suggestedName + goFieldName
		var fieldType models.TypeInfo
		switch {
		case len(present) == 0:
			fieldType = anyType
		case allOfKind(present, jsonvalue.MapKind):
			nested := a.createMergedStructDef(present, nestedName)
			fieldType = a.findOrAddStructDef(nested, nestedName, false)
			fieldType.IsPointer = true
		default:
			types := make([]models.TypeInfo, 0, len(present))
			for _, val := range present {
				t, err := a.analyzeNode(val, nestedName)
				if err != nil {
					t = anyType
				}
				types = append(types, t)
			}
			fieldType = unify(types)
		}

		if optional && a.config.Types.OptionalAsPointers && isScalar(fieldType.Kind) {
			fieldType.IsPointer = true
		}
		fields = append(fields, a.newField(key, goFieldName, fieldType))
	}

	return models.StructDef{Name: suggestedName, Fields: fields}
}

func isScalar(kind models.TypeKind) bool {
	switch kind {
	case models.Bool, models.String, models.Int, models.Float, models.Time, models.Custom:
		return true
	}
	return false
}

// generateUniqueStructName ensures that the struct name is unique by appending a number if needed.
func (a *Analyzer) generateUniqueStructName(baseName string) string {
	name := baseName
	count := a.structNames[baseName]
	if count > 0 {
		name = fmt.Sprintf("%s%d", baseName, count)
	}
	a.structNames[baseName] = count + 1
	return name
}

// getFieldName returns the Go field name for a JSON key using configuration
func (a *Analyzer) getFieldName(jsonKey string) string {
	return a.config.GetFieldName(jsonKey)
}

var knownSingulars = map[string]string{
	"series":    "series",
	"status":    "status",
	"analysis":  "analysis",
	"species":   "species",
	"news":      "news",
	"goods":     "goods",
	"children":  "child",
	"people":    "person",
	"men":       "man",
	"women":     "woman",
	"teeth":     "tooth",
	"feet":      "foot",
	"mice":      "mouse",
	"geese":     "goose",
	"data":      "data",
	"media":     "media",
	"addresses": "address",
}

// singularize converts a plural name to a singular one using a few
// English rules. Capitalisation of the first letter is preserved.
func singularize(plural string) string {
	if singular, ok := knownSingulars[strings.ToLower(plural)]; ok {
		if len(plural) > 0 && strings.ToUpper(plural[:1]) == plural[:1] {
			return strings.ToUpper(singular[:1]) + singular[1:]
		}
		return singular
	}

	lowerPlural := strings.ToLower(plural)

	if strings.HasSuffix(lowerPlural, "ies") && len(lowerPlural) > 3 {
		return plural[:len(plural)-3] + "y"
	}

	// bus, class, status, analysis
	if strings.HasSuffix(lowerPlural, "ss") ||
		strings.HasSuffix(lowerPlural, "us") ||
		strings.HasSuffix(lowerPlural, "is") {
		return plural
	}

	if strings.HasSuffix(lowerPlural, "s") && len(lowerPlural) > 1 {
		return plural[:len(plural)-1]
	}

	return plural
}

// determineOmitempty decides if ",omitempty" should be added to the JSON tag.
func (a *Analyzer) determineOmitempty(t models.TypeInfo) string {
	if t.IsPointer {
		if a.config.JSONTags.OmitemptyForPointers {
			return ",omitempty"
		}
		return ""
	}
	switch t.Kind {
	case models.Slice, models.Interface:
		return ",omitempty"
	}
	return ""
}

// areStructDefsEquivalent compares two StructDefs for structural equality.
// Field order does not matter.
func areStructDefsEquivalent(s1, s2 *models.StructDef) bool {
	if len(s1.Fields) != len(s2.Fields) {
		return false
	}

	s1Fields := make(map[string]models.FieldInfo, len(s1.Fields))
	for _, f := range s1.Fields {
		s1Fields[f.JSONKey] = f
	}
	for _, f2 := range s2.Fields {
		f1, ok := s1Fields[f2.JSONKey]
		if !ok {
			return false
		}
		if f1.GoName != f2.GoName || f1.JSONTag != f2.JSONTag || !f1.GoType.Equal(f2.GoType) {
			return false
		}
	}
	return true
}

// findOrAddStructDef returns the TypeInfo of an existing equivalent struct,
// or registers candidate under a unique name. Root structs keep the name
// Analyze already reserved and are never merged with nested ones.
func (a *Analyzer) findOrAddStructDef(candidate models.StructDef, suggestedName string, isRoot bool) models.TypeInfo {
	if !isRoot {
		for _, existing := range a.analysisResult.Structs {
			if !existing.IsRoot && areStructDefsEquivalent(&candidate, &existing) {
				return models.TypeInfo{Kind: models.Struct, Name: existing.Name, StructName: existing.Name}
			}
		}
	}

	finalName := suggestedName
	if !isRoot {
		finalName = a.generateUniqueStructName(suggestedName)
	}
	candidate.Name = finalName
	// A root array's element struct is not itself the document root
	candidate.IsRoot = isRoot && !a.rootIsArray

	a.analysisResult.Structs = append(a.analysisResult.Structs, candidate)
	return models.TypeInfo{Kind: models.Struct, Name: finalName, StructName: finalName}
}
