// Package jsonvalue provides typed, path-based access to generic JSON values.
//
// A Value is an immutable tree of arrays, maps, strings, integers, floats,
// booleans and nulls. Reads go through paths of Key and Index steps and come
// in two flavours: an error-returning form that reports the first failure and
// an optional form that collapses any failure to absence. Typed Go values
// move in and out of the tree through the Decodable and Transformable
// contracts and the generic Serialize function.
package jsonvalue

import (
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"
)

// Kind is the variant tag of a Value.
type Kind uint8

const (
	NullKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	StringKind
	ArrayKind
	MapKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case ArrayKind:
		return "array"
	case MapKind:
		return "map"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Value is a JSON value. The zero Value is Null.
//
// Values have value semantics: accessors hand out copies of the underlying
// collections and Set replaces rather than mutates shared storage, so a
// Value may be shared across goroutines as long as nobody calls Set on the
// same variable concurrently.
type Value struct {
	kind Kind
	str  string
	i    int64
	f    float64
	b    bool
	arr  []Value
	obj  map[string]Value
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// NewString returns a String value.
func NewString(s string) Value {
	return Value{kind: StringKind, str: s}
}

// NewInt returns an Integer value.
func NewInt(i int64) Value {
	return Value{kind: IntKind, i: i}
}

// NewFloat returns a Float value.
func NewFloat(f float64) Value {
	return Value{kind: FloatKind, f: f}
}

// NewBool returns a Boolean value.
func NewBool(b bool) Value {
	return Value{kind: BoolKind, b: b}
}

// NewArray builds an Array from generic objects. Elements that cannot be
// represented become Null.
func NewArray(items ...any) Value {
	arr := make([]Value, len(items))
	for i, item := range items {
		arr[i] = ObjectValue(item)
	}
	return arrayValue(arr)
}

// NewMap builds a Map from generic objects. Entries that cannot be
// represented become Null.
func NewMap(entries map[string]any) Value {
	obj := make(map[string]Value, len(entries))
	for k, item := range entries {
		obj[k] = ObjectValue(item)
	}
	return mapValue(obj)
}

func arrayValue(arr []Value) Value {
	if arr == nil {
		arr = []Value{}
	}
	return Value{kind: ArrayKind, arr: arr}
}

func mapValue(obj map[string]Value) Value {
	if obj == nil {
		obj = map[string]Value{}
	}
	return Value{kind: MapKind, obj: obj}
}

// Kind reports the variant of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is Null.
func (v Value) IsNull() bool {
	return v.kind == NullKind
}

// Array returns a copy of the children of an Array.
func (v Value) Array() ([]Value, bool) {
	if v.kind != ArrayKind {
		return nil, false
	}
	return slices.Clone(v.arr), true
}

// Map returns a copy of the entries of a Map.
func (v Value) Map() (map[string]Value, bool) {
	if v.kind != MapKind {
		return nil, false
	}
	return maps.Clone(v.obj), true
}

// Keys returns the sorted keys of a Map, or nil for any other kind.
func (v Value) Keys() []string {
	if v.kind != MapKind {
		return nil
	}
	return slices.Sorted(maps.Keys(v.obj))
}

// Len returns the number of children of an Array, and zero otherwise.
func (v Value) Len() int {
	if v.kind != ArrayKind {
		return 0
	}
	return len(v.arr)
}

// Elem returns the i-th child of an Array.
func (v Value) Elem(i int) (Value, bool) {
	if v.kind != ArrayKind || i < 0 || i >= len(v.arr) {
		return Value{}, false
	}
	return v.arr[i], true
}

// All iterates over the children of an Array in order. Any other kind
// yields nothing.
func (v Value) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		if v.kind != ArrayKind {
			return
		}
		for i, child := range v.arr {
			if !yield(i, child) {
				return
			}
		}
	}
}

// Entries iterates over the entries of a Map in key order.
func (v Value) Entries() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for _, k := range v.Keys() {
			if !yield(k, v.obj[k]) {
				return
			}
		}
	}
}

// Equal reports structural equality. Kinds never compare equal across
// variants, so Int 1 and Float 1.0 differ.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case NullKind:
		return true
	case BoolKind:
		return v.b == other.b
	case IntKind:
		return v.i == other.i
	case FloatKind:
		return v.f == other.f || (math.IsNaN(v.f) && math.IsNaN(other.f))
	case StringKind:
		return v.str == other.str
	case ArrayKind:
		return slices.EqualFunc(v.arr, other.arr, Value.Equal)
	case MapKind:
		return maps.EqualFunc(v.obj, other.obj, Value.Equal)
	}
	return false
}

// Get resolves path against v and returns Null on any failure.
func (v Value) Get(path ...Path) Value {
	r, err := v.Resolve(path...)
	if err != nil {
		return Value{}
	}
	return r
}

// Set writes nv under step. A Key step on a Map inserts or overwrites the
// entry; a Key step on anything else replaces v with a single-entry Map.
// Index steps are ignored: arrays cannot be grown or patched in place.
func (v *Value) Set(step Path, nv Value) {
	k, ok := step.(Key)
	if !ok {
		return
	}
	if v.kind != MapKind {
		*v = mapValue(map[string]Value{string(k): nv})
		return
	}
	obj := make(map[string]Value, len(v.obj)+1)
	maps.Copy(obj, v.obj)
	obj[string(k)] = nv
	*v = mapValue(obj)
}

// String returns the pretty display form of v.
func (v Value) String() string {
	return v.Stringify(true)
}

// GoString returns the same text as String so %#v prints the document.
func (v Value) GoString() string {
	return v.Stringify(true)
}
