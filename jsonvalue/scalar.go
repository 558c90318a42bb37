package jsonvalue

import (
	"math"
	"strings"
)

// ToString converts a String value.
func ToString(v Value) (string, error) {
	if v.kind != StringKind {
		return "", newInconvertible(v, "string")
	}
	return v.str, nil
}

// ToInt64 converts an Int value, or a Float truncated toward zero.
func ToInt64(v Value) (int64, error) {
	switch v.kind {
	case IntKind:
		return v.i, nil
	case FloatKind:
		t := math.Trunc(v.f)
		if math.IsNaN(t) || t < math.MinInt64 || t >= math.MaxInt64 {
			return 0, newInconvertible(v, "int64")
		}
		return int64(t), nil
	}
	return 0, newInconvertible(v, "int64")
}

// ToInt is ToInt64 narrowed to int.
func ToInt(v Value) (int, error) {
	i, err := ToInt64(v)
	if err != nil || int64(int(i)) != i {
		return 0, newInconvertible(v, "int")
	}
	return int(i), nil
}

// ToFloat64 converts a Float value, or widens an Int.
func ToFloat64(v Value) (float64, error) {
	switch v.kind {
	case FloatKind:
		return v.f, nil
	case IntKind:
		return float64(v.i), nil
	}
	return 0, newInconvertible(v, "float64")
}

// ToFloat32 is ToFloat64 narrowed to float32.
func ToFloat32(v Value) (float32, error) {
	f, err := ToFloat64(v)
	if err != nil {
		return 0, newInconvertible(v, "float32")
	}
	return float32(f), nil
}

// ToBool converts a Bool value, an Int (nonzero is true), or the strings
// "true" and "false" in any case.
func ToBool(v Value) (bool, error) {
	switch v.kind {
	case BoolKind:
		return v.b, nil
	case IntKind:
		return v.i != 0, nil
	case StringKind:
		switch strings.ToLower(v.str) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, newInconvertible(v, "bool")
}

// ToUint converts the absolute value of an Int or Float, truncated.
func ToUint(v Value) (uint, error) {
	switch v.kind {
	case IntKind:
		u := uint64(v.i)
		if v.i < 0 {
			u = uint64(-(v.i + 1)) + 1
		}
		if uint64(uint(u)) != u {
			break
		}
		return uint(u), nil
	case FloatKind:
		t := math.Trunc(math.Abs(v.f))
		if math.IsNaN(t) || t >= math.MaxUint64 || uint64(uint(t)) != uint64(t) {
			break
		}
		return uint(t), nil
	}
	return 0, newInconvertible(v, "uint")
}

// ToAny converts any value to its generic object form. It never fails.
func ToAny(v Value) (any, error) {
	return v.ToObject(), nil
}

func decodeAt[T any](v Value, conv func(Value) (T, error), path []Path) (T, error) {
	target, err := v.Resolve(path...)
	if err != nil {
		var zero T
		return zero, err
	}
	return conv(target)
}

func optionalAt[T any](v Value, conv func(Value) (T, error), path []Path) (T, bool) {
	out, err := decodeAt(v, conv, path)
	if err != nil {
		logDiscarded("optional read", err)
		var zero T
		return zero, false
	}
	return out, true
}

// AsString converts v itself to a string.
func (v Value) AsString() (string, bool) { return optionalAt(v, ToString, nil) }

// AsInt converts v itself to an int.
func (v Value) AsInt() (int, bool) { return optionalAt(v, ToInt, nil) }

// AsInt64 converts v itself to an int64.
func (v Value) AsInt64() (int64, bool) { return optionalAt(v, ToInt64, nil) }

// AsFloat64 converts v itself to a float64.
func (v Value) AsFloat64() (float64, bool) { return optionalAt(v, ToFloat64, nil) }

// AsFloat32 converts v itself to a float32.
func (v Value) AsFloat32() (float32, bool) { return optionalAt(v, ToFloat32, nil) }

// AsUint converts v itself to a uint.
func (v Value) AsUint() (uint, bool) { return optionalAt(v, ToUint, nil) }

// AsBool converts v itself to a bool.
func (v Value) AsBool() (bool, bool) { return optionalAt(v, ToBool, nil) }

// DecodeString resolves path and converts the result with ToString.
func (v Value) DecodeString(path ...Path) (string, error) { return decodeAt(v, ToString, path) }

// DecodeInt resolves path and converts the result with ToInt.
func (v Value) DecodeInt(path ...Path) (int, error) { return decodeAt(v, ToInt, path) }

// DecodeInt64 resolves path and converts the result with ToInt64.
func (v Value) DecodeInt64(path ...Path) (int64, error) { return decodeAt(v, ToInt64, path) }

// DecodeFloat64 resolves path and converts the result with ToFloat64.
func (v Value) DecodeFloat64(path ...Path) (float64, error) { return decodeAt(v, ToFloat64, path) }

// DecodeFloat32 resolves path and converts the result with ToFloat32.
func (v Value) DecodeFloat32(path ...Path) (float32, error) { return decodeAt(v, ToFloat32, path) }

// DecodeBool resolves path and converts the result with ToBool.
func (v Value) DecodeBool(path ...Path) (bool, error) { return decodeAt(v, ToBool, path) }

// DecodeUint resolves path and converts the result with ToUint.
func (v Value) DecodeUint(path ...Path) (uint, error) { return decodeAt(v, ToUint, path) }

// StringAt is the optional form of DecodeString.
func (v Value) StringAt(path ...Path) (string, bool) { return optionalAt(v, ToString, path) }

// IntAt is the optional form of DecodeInt.
func (v Value) IntAt(path ...Path) (int, bool) { return optionalAt(v, ToInt, path) }

// Int64At is the optional form of DecodeInt64.
func (v Value) Int64At(path ...Path) (int64, bool) { return optionalAt(v, ToInt64, path) }

// Float64At is the optional form of DecodeFloat64.
func (v Value) Float64At(path ...Path) (float64, bool) { return optionalAt(v, ToFloat64, path) }

// Float32At is the optional form of DecodeFloat32.
func (v Value) Float32At(path ...Path) (float32, bool) { return optionalAt(v, ToFloat32, path) }

// BoolAt is the optional form of DecodeBool.
func (v Value) BoolAt(path ...Path) (bool, bool) { return optionalAt(v, ToBool, path) }

// UintAt is the optional form of DecodeUint.
func (v Value) UintAt(path ...Path) (uint, bool) { return optionalAt(v, ToUint, path) }
