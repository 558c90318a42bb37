package models

import "github.com/mcncl/typedjson/jsonvalue"

// IntermediateRepresentation holds a parsed sample document for the analyzer.
type IntermediateRepresentation struct {
	Root        jsonvalue.Value
	RootIsArray bool // True if the root of the JSON is an array vs an object
}

// TypeKind classifies an inferred Go type
type TypeKind int

const (
	Interface TypeKind = iota
	Bool
	String
	Int
	Float
	Time
	Struct
	Slice
	Custom
)

func (k TypeKind) String() string {
	switch k {
	case Interface:
		return "interface"
	case Bool:
		return "bool"
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Time:
		return "time"
	case Struct:
		return "struct"
	case Slice:
		return "slice"
	case Custom:
		return "custom"
	}
	return "unknown"
}

// TypeInfo describes the Go type inferred for a JSON value.
type TypeInfo struct {
	Kind TypeKind
	// Name is the Go spelling without the pointer star, e.g. "int64" or "[]Item".
	Name       string
	StructName string
	// SliceElementType is set for Slice.
	SliceElementType *TypeInfo
	IsPointer        bool
}

// GoType returns the full Go type expression.
func (t TypeInfo) GoType() string {
	name := t.Name
	switch t.Kind {
	case Struct:
		name = t.StructName
	case Slice:
		if t.SliceElementType != nil {
			name = "[]" + t.SliceElementType.GoType()
		} else {
			name = "[]any"
		}
	}
	if t.IsPointer {
		return "*" + name
	}
	return name
}

// Equal reports whether t and o describe the same Go type.
func (t TypeInfo) Equal(o TypeInfo) bool {
	if t.Kind != o.Kind || t.Name != o.Name || t.StructName != o.StructName || t.IsPointer != o.IsPointer {
		return false
	}
	if t.SliceElementType == nil || o.SliceElementType == nil {
		return t.SliceElementType == o.SliceElementType
	}
	return t.SliceElementType.Equal(*o.SliceElementType)
}

// FieldInfo is one field of a generated struct.
type FieldInfo struct {
	JSONKey string
	GoName  string
	GoType  TypeInfo
	JSONTag string
	Tags    map[string]string // extra struct tags, e.g. validate
	Comment string
}

// StructDef is a generated struct.
type StructDef struct {
	Name   string
	Fields []FieldInfo
	IsRoot bool
}

// AnalysisResult is what the analyzer and schema converter hand to the generator.
type AnalysisResult struct {
	Structs []StructDef
	Imports map[string]struct{}
	// RootType is the type of the whole document, e.g. "RootType" or "[]Item".
	RootType TypeInfo
}

// ValueImport is the import path generated code uses for jsonvalue.
const ValueImport = "github.com/mcncl/typedjson/jsonvalue"
