package jsonvalue

import (
	"github.com/goccy/go-reflect"
)

// FieldLister is implemented by types that list their JSON fields
// explicitly. Serialize prefers it to reflection; the gen command emits it.
type FieldLister interface {
	JSONFields() []Field
}

type fieldKind uint8

const (
	primitiveField fieldKind = iota + 1
	transformField
	objectField
	absentField
)

// Field describes one entry of a FieldLister's Map. Build it with
// Primitive, ScalarField, Transform, Object, Absent or Optional.
type Field struct {
	Name string

	kind   fieldKind
	value  Value
	xform  Serializer
	object any
}

// Primitive describes a field holding an already-built Value.
func Primitive(name string, v Value) Field {
	return Field{Name: name, kind: primitiveField, value: v}
}

// Scalar is the set of Go types ScalarField accepts.
type Scalar interface {
	~string | ~bool |
		~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ScalarField describes a field holding a string, bool or number.
func ScalarField[T Scalar](name string, x T) Field {
	return Primitive(name, scalarValue(reflect.ValueOf(x)))
}

// Transform describes a field rendered by its own Serialize method.
func Transform(name string, s Serializer) Field {
	return Field{Name: name, kind: transformField, xform: s}
}

// Object describes a field rendered by Serialize.
func Object(name string, obj any) Field {
	return Field{Name: name, kind: objectField, object: obj}
}

// Absent describes a field with no value; it renders as Null.
func Absent(name string) Field {
	return Field{Name: name, kind: absentField}
}

// Optional describes an optional field: nil is Absent, anything else is
// described by describe.
//
//	jsonvalue.Optional("year", v.Year, jsonvalue.ScalarField[int64])
func Optional[T any](name string, p *T, describe func(string, T) Field) Field {
	if p == nil {
		return Absent(name)
	}
	return describe(name, *p)
}

// Value renders the field.
func (f Field) Value() Value {
	switch f.kind {
	case primitiveField:
		return f.value
	case transformField:
		if f.xform == nil {
			return Value{}
		}
		return f.xform.Serialize()
	case objectField:
		return Serialize(f.object)
	}
	return Value{}
}

// IsAbsent reports whether the field was described with Absent.
func (f Field) IsAbsent() bool {
	return f.kind == absentField || f.kind == 0
}

// FieldsValue builds a Map from field descriptors. Later fields win when
// names repeat.
func FieldsValue(fields []Field) Value {
	obj := make(map[string]Value, len(fields))
	for _, f := range fields {
		obj[f.Name] = f.Value()
	}
	return mapValue(obj)
}
