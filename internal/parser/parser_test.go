package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/jsonvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SimpleObject(t *testing.T) {
	ir, err := Parse(strings.NewReader(`{"name": "John Doe", "age": 30, "isStudent": false, "city": null}`))
	require.NoError(t, err)

	assert.False(t, ir.RootIsArray)
	want := jsonvalue.NewMap(map[string]any{
		"name":      "John Doe",
		"age":       30,
		"isStudent": false,
		"city":      nil,
	})
	assert.True(t, want.Equal(ir.Root), "got %s", ir.Root)
}

func TestParse_SimpleArray(t *testing.T) {
	ir, err := Parse(strings.NewReader(`[1, "test", true, null, 3.14]`))
	require.NoError(t, err)

	assert.True(t, ir.RootIsArray)
	want := jsonvalue.NewArray(1, "test", true, nil, 3.14)
	assert.True(t, want.Equal(ir.Root), "got %s", ir.Root)
}

func TestParse_NestedObject(t *testing.T) {
	ir, err := Parse(strings.NewReader(`{"user": {"name": "Jane Doe", "id": 123}, "active": true, "tags": ["go", "json"]}`))
	require.NoError(t, err)

	name, err := ir.Root.DecodeString(jsonvalue.Key("user"), jsonvalue.Key("name"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", name)

	id, ok := ir.Root.Int64At(jsonvalue.Key("user"), jsonvalue.Key("id"))
	assert.True(t, ok)
	assert.Equal(t, int64(123), id)
	assert.Equal(t, jsonvalue.IntKind, ir.Root.Get(jsonvalue.Key("user"), jsonvalue.Key("id")).Kind())
	assert.Equal(t, 2, ir.Root.Get(jsonvalue.Key("tags")).Len())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
		contains string
	}{
		{"empty", "", errors.ErrEmptyInput, "input is empty"},
		{"whitespace", "  \n\t", errors.ErrEmptyInput, "input is empty"},
		{"missing closing brace", `{"name": "John Doe", "age": 30`, errors.ErrInvalidJSON, "parsing"},
		{"bad token", "{\n  \"a\": tru\n}", errors.ErrInvalidJSON, "parsing"},
		{"two documents", `{"a":1} {"b":2}`, errors.ErrMultipleJSON, "multiple JSON values"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeParsing})
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParse_TrailingWhitespace(t *testing.T) {
	ir, err := Parse(strings.NewReader("{\"a\":1}\n\n  "))
	require.NoError(t, err)
	assert.True(t, ir.Root.Has(jsonvalue.Key("a")))
}

func TestParseString_EmptyInput(t *testing.T) {
	for _, input := range []string{"", "   "} {
		_, err := ParseString(input)
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrEmptyInput)
		assert.Contains(t, err.Error(), "input string is empty")
	}
}

func TestParseString_MalformedJSON(t *testing.T) {
	_, err := ParseString(`["item1", "item2",`)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidJSON)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "simple.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"product": "Laptop", "price": 1200.50}`), 0o644))

	ir, err := ParseFile(path)
	require.NoError(t, err)

	assert.False(t, ir.RootIsArray)
	price, err := ir.Root.DecodeFloat64(jsonvalue.Key("price"))
	require.NoError(t, err)
	assert.InDelta(t, 1200.5, price, 1e-9)
	assert.Equal(t, jsonvalue.FloatKind, ir.Root.Get(jsonvalue.Key("price")).Kind())
}

func TestParseFile_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	tests := []struct {
		name     string
		path     string
		sentinel error
		contains string
	}{
		{"empty path", "", errors.ErrInvalidFilePath, "file path is empty"},
		{"missing file", filepath.Join(dir, "nope.json"), errors.ErrFileNotFound, "not found"},
		{"empty file", empty, errors.ErrFileEmpty, "is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeInput})
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestParse_RootPrimitives(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  jsonvalue.Value
	}{
		{"string", `"hello world"`, jsonvalue.NewString("hello world")},
		{"number", `123.45`, jsonvalue.NewFloat(123.45)},
		{"integer", `7`, jsonvalue.NewInt(7)},
		{"true", `true`, jsonvalue.NewBool(true)},
		{"false", `false`, jsonvalue.NewBool(false)},
		{"null", `null`, jsonvalue.Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ir, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.False(t, ir.RootIsArray)
			assert.True(t, tt.want.Equal(ir.Root), "got %s", ir.Root)
		})
	}
}

func TestPosition(t *testing.T) {
	data := []byte("ab\ncd\nef")
	tests := []struct {
		offset int64
		line   int
		col    int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{7, 3, 2},
		{100, 3, 3},
	}
	for _, tt := range tests {
		line, col := position(data, tt.offset)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.col, col, "offset %d", tt.offset)
	}
}
