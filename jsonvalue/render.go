package jsonvalue

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Parse reads a JSON document. It never fails: empty or malformed input
// yields Null, which callers cannot tell apart from the literal document
// "null". Use FromBytes when the diagnostic matters.
func Parse(data []byte) Value {
	v, err := FromBytes(data)
	if err != nil {
		logDiscarded("parse", err)
		return Value{}
	}
	return v
}

// ParseString is Parse for text.
func ParseString(s string) Value {
	return Parse([]byte(s))
}

// ParseReader reads r to the end and parses the result.
func ParseReader(r io.Reader) Value {
	data, err := io.ReadAll(r)
	if err != nil {
		logDiscarded("read", err)
		return Value{}
	}
	return Parse(data)
}

// FromBytes parses exactly one JSON document and reports why it could not.
func FromBytes(data []byte) (Value, error) {
	obj, err := decodeObject(data)
	if err != nil {
		return Value{}, fmt.Errorf("parse json: %w", err)
	}
	v, ok := FromObject(obj)
	if !ok {
		return Value{}, &Error{Kind: Inconvertible, Target: "Value"}
	}
	return v, nil
}

// Bytes renders v as JSON text, indented with two spaces when pretty is
// set. A Null root is reported as Missing; NaN or infinite floats anywhere
// in the tree as InvalidForEncoding. Bare scalars are written as JSON
// fragments.
func (v Value) Bytes(pretty bool) ([]byte, error) {
	if v.kind == NullKind {
		return nil, &Error{Kind: Missing}
	}
	obj, err := v.encodable()
	if err != nil {
		return nil, err
	}
	data, err := encodeObject(obj, pretty)
	if err != nil {
		return nil, &Error{Kind: InvalidForEncoding, Value: v, Err: err}
	}
	return data, nil
}

// encodable is ToObject with floats pre-rendered, so integral floats keep
// their ".0" on the way out.
func (v Value) encodable() (any, error) {
	switch v.kind {
	case FloatKind:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, &Error{Kind: InvalidForEncoding, Value: v}
		}
		return json.Number(formatFloat(v.f)), nil
	case ArrayKind:
		out := make([]any, len(v.arr))
		for i, child := range v.arr {
			o, err := child.encodable()
			if err != nil {
				return nil, err
			}
			out[i] = o
		}
		return out, nil
	case MapKind:
		out := make(map[string]any, len(v.obj))
		for k, child := range v.obj {
			o, err := child.encodable()
			if err != nil {
				return nil, err
			}
			out[k] = o
		}
		return out, nil
	}
	return v.ToObject(), nil
}

// Stringify returns the display form of v. Arrays and Maps render as JSON
// text (or "null" if they cannot be encoded), strings render as their raw
// text without quotes, and scalars in their natural form.
func (v Value) Stringify(pretty bool) string {
	switch v.kind {
	case ArrayKind, MapKind:
		data, err := v.Bytes(pretty)
		if err != nil {
			return "null"
		}
		return string(data)
	case StringKind:
		return v.str
	case IntKind:
		return strconv.FormatInt(v.i, 10)
	case FloatKind:
		return formatFloat(v.f)
	case BoolKind:
		return strconv.FormatBool(v.b)
	}
	return "null"
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// MarshalJSON implements json.Marshaler. Null marshals as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == NullKind {
		return []byte("null"), nil
	}
	return v.Bytes(false)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := FromBytes(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
