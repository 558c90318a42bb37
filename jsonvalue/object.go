package jsonvalue

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-reflect"
)

// number is satisfied by json.Number from both goccy/go-json and
// encoding/json.
type number interface {
	String() string
	Float64() (float64, error)
	Int64() (int64, error)
}

// FromObject converts a generic object tree into a Value. The tree may hold
// nil, bool, any Go integer or float type, json.Number, string, Value, and
// slices, arrays or string-keyed maps of those. Booleans are classified
// before numbers so true never becomes 1. It reports false when any part of
// the tree has no JSON representation.
func FromObject(obj any) (Value, bool) {
	switch o := obj.(type) {
	case nil:
		return Value{}, true
	case Value:
		return o, true
	case *Value:
		if o == nil {
			return Value{}, true
		}
		return *o, true
	case bool:
		return NewBool(o), true
	case string:
		return NewString(o), true
	case json.Number:
		return fromNumber(string(o))
	case int:
		return NewInt(int64(o)), true
	case int8:
		return NewInt(int64(o)), true
	case int16:
		return NewInt(int64(o)), true
	case int32:
		return NewInt(int64(o)), true
	case int64:
		return NewInt(o), true
	case uint:
		return fromUint(uint64(o)), true
	case uint8:
		return NewInt(int64(o)), true
	case uint16:
		return NewInt(int64(o)), true
	case uint32:
		return NewInt(int64(o)), true
	case uint64:
		return fromUint(o), true
	case float32:
		return NewFloat(float64(o)), true
	case float64:
		return NewFloat(o), true
	case number:
		return fromNumber(o.String())
	case []any:
		arr := make([]Value, len(o))
		for i, item := range o {
			child, ok := FromObject(item)
			if !ok {
				return Value{}, false
			}
			arr[i] = child
		}
		return arrayValue(arr), true
	case map[string]any:
		m := make(map[string]Value, len(o))
		for k, item := range o {
			child, ok := FromObject(item)
			if !ok {
				return Value{}, false
			}
			m[k] = child
		}
		return mapValue(m), true
	case []Value:
		return arrayValue(append([]Value(nil), o...)), true
	case map[string]Value:
		m := make(map[string]Value, len(o))
		for k, child := range o {
			m[k] = child
		}
		return mapValue(m), true
	}
	return fromReflect(reflect.ValueOf(obj))
}

// ObjectValue is FromObject with failure collapsed to Null.
func ObjectValue(obj any) Value {
	v, ok := FromObject(obj)
	if !ok {
		return Value{}
	}
	return v
}

func fromReflect(rv reflect.Value) (Value, bool) {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Value{}, true
		}
		return FromObject(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Value{}, true
		}
		arr := make([]Value, rv.Len())
		for i := range arr {
			child, ok := FromObject(rv.Index(i).Interface())
			if !ok {
				return Value{}, false
			}
			arr[i] = child
		}
		return arrayValue(arr), true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, false
		}
		if rv.IsNil() {
			return Value{}, true
		}
		m := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			child, ok := FromObject(iter.Value().Interface())
			if !ok {
				return Value{}, false
			}
			m[iter.Key().String()] = child
		}
		return mapValue(m), true
	case reflect.String:
		return NewString(rv.String()), true
	case reflect.Bool:
		return NewBool(rv.Bool()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return fromUint(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return NewFloat(rv.Float()), true
	}
	return Value{}, false
}

func fromUint(u uint64) Value {
	if u > math.MaxInt64 {
		return NewFloat(float64(u))
	}
	return NewInt(int64(u))
}

// fromNumber classifies numeric text: integral literals that fit int64
// become Int, everything else Float.
func fromNumber(s string) (Value, bool) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return NewInt(i), true
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{}, false
	}
	return NewFloat(f), true
}

// ToObject converts v into a generic object tree: []any, map[string]any,
// string, int64, float64, bool and nil. It is the inverse of FromObject.
func (v Value) ToObject() any {
	switch v.kind {
	case ArrayKind:
		out := make([]any, len(v.arr))
		for i, child := range v.arr {
			out[i] = child.ToObject()
		}
		return out
	case MapKind:
		out := make(map[string]any, len(v.obj))
		for k, child := range v.obj {
			out[k] = child.ToObject()
		}
		return out
	case StringKind:
		return v.str
	case IntKind:
		return v.i
	case FloatKind:
		return v.f
	case BoolKind:
		return v.b
	}
	return nil
}
