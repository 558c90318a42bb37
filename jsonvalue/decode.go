package jsonvalue

import (
	"github.com/goccy/go-reflect"
)

// Decodable is implemented by types that can be built from a Value. The
// method is implemented on the pointer receiver and fills in the receiver,
// typically by resolving paths on v and converting each field:
//
//	func (c *Vehicle) DecodeJSON(v jsonvalue.Value) (err error) {
//		if c.Make, err = v.DecodeString(jsonvalue.Key("make")); err != nil {
//			return err
//		}
//		...
//	}
type Decodable interface {
	DecodeJSON(v Value) error
}

// DecodablePtr constrains PT to be *T implementing Decodable, so Decode can
// be called as Decode[T](v).
type DecodablePtr[T any] interface {
	*T
	Decodable
}

// Decode resolves path against v and decodes the result into a new T.
func Decode[T any, PT DecodablePtr[T]](v Value, path ...Path) (T, error) {
	var out T
	target, err := v.Resolve(path...)
	if err != nil {
		return out, err
	}
	if err := PT(&out).DecodeJSON(target); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// TryDecode is the optional form of Decode. The error, if any, is logged at
// debug level and discarded.
func TryDecode[T any, PT DecodablePtr[T]](v Value, path ...Path) (T, bool) {
	out, err := Decode[T, PT](v, path...)
	if err != nil {
		logDiscarded("decode "+typeName[T](), err)
		return out, false
	}
	return out, true
}

// DecodeOr is TryDecode with a fallback.
func DecodeOr[T any, PT DecodablePtr[T]](v Value, def T, path ...Path) T {
	out, ok := TryDecode[T, PT](v, path...)
	if !ok {
		return def
	}
	return out
}

// DecodeInto resolves path and decodes the result into dst.
func DecodeInto(v Value, dst Decodable, path ...Path) error {
	target, err := v.Resolve(path...)
	if err != nil {
		return err
	}
	return dst.DecodeJSON(target)
}

// DecoderFor returns Decode for T as a plain conversion function, for use
// with SliceOf and friends.
func DecoderFor[T any, PT DecodablePtr[T]]() func(Value) (T, error) {
	return func(v Value) (T, error) {
		return Decode[T, PT](v)
	}
}

// DecodeWith resolves path and converts the result with conv.
func DecodeWith[T any](v Value, conv func(Value) (T, error), path ...Path) (T, error) {
	return decodeAt(v, conv, path)
}

// TryDecodeWith is the optional form of DecodeWith.
func TryDecodeWith[T any](v Value, conv func(Value) (T, error), path ...Path) (T, bool) {
	return optionalAt(v, conv, path)
}

// SliceOf converts every element of the Array at path with conv, dropping
// elements that fail. A path that does not resolve to an Array yields an
// empty slice.
func SliceOf[T any](v Value, conv func(Value) (T, error), path ...Path) []T {
	items := v.Get(path...).arr
	out := make([]T, 0, len(items))
	for _, item := range items {
		t, err := conv(item)
		if err != nil {
			logDiscarded("slice element", err)
			continue
		}
		out = append(out, t)
	}
	return out
}

// DecodeSlice converts every element of the Array at path with conv and
// fails on the first element that does. A resolution failure is returned
// as is; a resolved value that is not an Array yields an empty slice.
func DecodeSlice[T any](v Value, conv func(Value) (T, error), path ...Path) ([]T, error) {
	target, err := v.Resolve(path...)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(target.arr))
	for _, item := range target.arr {
		t, err := conv(item)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// MapOf converts every entry of the Map at path with conv, dropping entries
// that fail.
func MapOf[T any](v Value, conv func(Value) (T, error), path ...Path) map[string]T {
	entries := v.Get(path...).obj
	out := make(map[string]T, len(entries))
	for k, item := range entries {
		t, err := conv(item)
		if err != nil {
			logDiscarded("map entry "+k, err)
			continue
		}
		out[k] = t
	}
	return out
}

// DecodeMapOf converts every entry of the Map at path with conv and fails
// on the first entry that does, in key order.
func DecodeMapOf[T any](v Value, conv func(Value) (T, error), path ...Path) (map[string]T, error) {
	target, err := v.Resolve(path...)
	if err != nil {
		return nil, err
	}
	out := make(map[string]T, len(target.obj))
	for k, item := range target.Entries() {
		t, err := conv(item)
		if err != nil {
			return nil, err
		}
		out[k] = t
	}
	return out, nil
}

func typeName[T any]() string {
	return reflect.ValueOf((*T)(nil)).Type().Elem().String()
}
