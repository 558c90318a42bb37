package jsonvalue

import (
	"encoding"
	"strings"

	"github.com/goccy/go-reflect"
	"github.com/iancoleman/strcase"
)

// KeyStyle selects how Serialize names struct fields that carry no json tag.
type KeyStyle uint8

const (
	// LowerCamel turns "ModelYear" into "modelYear".
	LowerCamel KeyStyle = iota
	// Snake turns "ModelYear" into "model_year".
	Snake
	// Exact keeps the Go field name.
	Exact
)

// SerializeOption configures Serialize.
type SerializeOption func(*serializer)

// WithKeyStyle sets the naming of untagged struct fields.
func WithKeyStyle(style KeyStyle) SerializeOption {
	return func(s *serializer) {
		s.keys = style
	}
}

type serializer struct {
	keys KeyStyle
}

// Serialize converts an arbitrary Go value into a Value. Checks run in this
// order:
//
//  1. nil and Value pass through;
//  2. builtin strings, bools and numbers become scalars;
//  3. a Serializer renders itself;
//  4. a FieldLister becomes a Map of its fields;
//  5. an encoding.TextMarshaler becomes a String;
//  6. otherwise reflection: a pointer is one level of optionality (nil is
//     Null), a struct becomes a Map of its exported fields with embedded
//     structs flattened first so outer fields win, slices and arrays become
//     Arrays, string-keyed maps become Maps, and named scalar types become
//     scalars. Anything else is Null.
//
// Struct field keys come from the json tag when present ("-" skips the
// field), else from the KeyStyle.
func Serialize(v any, opts ...SerializeOption) Value {
	s := serializer{keys: LowerCamel}
	for _, opt := range opts {
		opt(&s)
	}
	return s.value(v)
}

func (s *serializer) value(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{}
	case Value:
		return x
	case string:
		return NewString(x)
	case bool:
		return NewBool(x)
	case int:
		return NewInt(int64(x))
	case int8:
		return NewInt(int64(x))
	case int16:
		return NewInt(int64(x))
	case int32:
		return NewInt(int64(x))
	case int64:
		return NewInt(x)
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return NewInt(int64(x))
	case uint16:
		return NewInt(int64(x))
	case uint32:
		return NewInt(int64(x))
	case uint64:
		return fromUint(x)
	case float32:
		return NewFloat(float64(x))
	case float64:
		return NewFloat(x)
	}
	return s.walk(reflect.ValueOf(v))
}

func (s *serializer) walk(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Value{}
	}
	if rv.CanInterface() {
		if x, ok := rv.Interface().(Value); ok {
			return x
		}
	}
	if out, ok := s.contract(rv); ok {
		return out
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Value{}
		}
		return s.walk(rv.Elem())
	case reflect.Struct:
		obj := make(map[string]Value, rv.NumField())
		s.fields(rv, obj)
		return mapValue(obj)
	case reflect.Slice, reflect.Array:
		arr := make([]Value, rv.Len())
		for i := range arr {
			arr[i] = s.walk(rv.Index(i))
		}
		return arrayValue(arr)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}
		}
		obj := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			obj[iter.Key().String()] = s.walk(reflect.ToValue(iter.Value()))
		}
		return mapValue(obj)
	}
	return scalarValue(rv)
}

// contract applies the Serializer, FieldLister and TextMarshaler checks,
// looking at the pointer method set as well. A value that is not
// addressable is copied so its pointer methods can still be found.
func (s *serializer) contract(rv reflect.Value) (Value, bool) {
	if !rv.CanInterface() {
		return Value{}, false
	}
	if out, ok := s.implemented(rv.Interface()); ok {
		return out, true
	}
	if rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		return Value{}, false
	}
	if !rv.CanAddr() {
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		rv = cp
	}
	return s.implemented(rv.Addr().Interface())
}

func (s *serializer) implemented(v any) (Value, bool) {
	switch x := v.(type) {
	case Serializer:
		if isNilPointer(x) {
			return Value{}, true
		}
		return x.Serialize(), true
	case FieldLister:
		if isNilPointer(x) {
			return Value{}, true
		}
		return FieldsValue(x.JSONFields()), true
	case encoding.TextMarshaler:
		if isNilPointer(x) {
			return Value{}, true
		}
		text, err := x.MarshalText()
		if err != nil {
			logDiscarded("marshal text", err)
			return Value{}, true
		}
		return NewString(string(text)), true
	}
	return Value{}, false
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Ptr && rv.IsNil()
}

func (s *serializer) fields(rv reflect.Value, obj map[string]Value) {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.Anonymous || tagName(sf.Tag.Get("json")) != "" {
			continue
		}
		fv := rv.Field(i)
		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				continue
			}
			fv = fv.Elem()
		}
		if fv.Kind() == reflect.Struct {
			s.fields(fv, obj)
		}
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := tagName(tag)
		if sf.Anonymous && name == "" && isStructField(rv.Field(i)) {
			continue
		}
		if name == "" {
			name = s.key(sf.Name)
		}
		obj[name] = s.walk(rv.Field(i))
	}
}

func isStructField(fv reflect.Value) bool {
	if fv.Kind() == reflect.Ptr {
		return fv.Type().Elem().Kind() == reflect.Struct
	}
	return fv.Kind() == reflect.Struct
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}

func (s *serializer) key(field string) string {
	switch s.keys {
	case Snake:
		return strcase.ToSnake(field)
	case Exact:
		return field
	}
	return strcase.ToLowerCamel(field)
}

func scalarValue(rv reflect.Value) Value {
	switch rv.Kind() {
	case reflect.String:
		return NewString(rv.String())
	case reflect.Bool:
		return NewBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUint(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return NewFloat(rv.Float())
	}
	return Value{}
}
