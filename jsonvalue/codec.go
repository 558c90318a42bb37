package jsonvalue

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// ErrEmptyInput is returned by FromBytes for empty or blank input.
var ErrEmptyInput = errors.New("empty input")

// ErrTrailingData is returned by FromBytes when more than one document is present.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// decodeObject reads exactly one JSON document into a generic object tree,
// keeping numbers as json.Number so integers and floats stay distinguishable.
func decodeObject(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyInput
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		if err == nil {
			return nil, ErrTrailingData
		}
		return nil, err
	}
	return obj, nil
}

// encodeObject writes a generic object tree as JSON text.
func encodeObject(obj any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(obj); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal decodes the value at path into dst with encoding/json rules,
// for types that implement neither Decodable nor Transformable. A missing
// key leaves dst untouched.
func Unmarshal(v Value, dst any, path ...Path) error {
	target, err := v.Resolve(path...)
	if err != nil {
		if errors.Is(err, ErrMissingKey) {
			return nil
		}
		return err
	}
	data, err := target.MarshalJSON()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return &Error{Kind: Inconvertible, Value: target, Target: typeOf(dst), Err: err}
	}
	return nil
}

func typeOf(dst any) string {
	return fmt.Sprintf("%T", dst)
}
