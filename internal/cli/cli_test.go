package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/typedjson/internal/errors"
	"github.com/mcncl/typedjson/jsonvalue"
)

const vehicleJSON = `{
	"make": "BMW",
	"model": "M5",
	"year": 2016,
	"colour": "#1a2B3c",
	"registered": "2016-03-01T10:00:00Z",
	"manual": "https://example.com/m5 manual.pdf",
	"prices": [45000.5, 47000],
	"owners": [{"name": "Ann"}, {"name": "Bob"}]
}`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(args, Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut}, func(int) {})
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGet(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"string", []string{"get", "make"}, "BMW\n"},
		{"nested index", []string{"get", "owners[1].name"}, "Bob\n"},
		{"int", []string{"get", "year"}, "2016\n"},
		{"int as float", []string{"get", "-t", "float", "year"}, "2016.0\n"},
		{"float as int", []string{"get", "--type", "int", "prices[0]"}, "45000\n"},
		{"missing key is null", []string{"get", "engine.size"}, "null\n"},
		{"failed conversion is null", []string{"get", "-t", "int", "make"}, "null\n"},
		{"color", []string{"get", "-t", "color", "colour"}, "#1a2b3c\n"},
		{"time", []string{"get", "-t", "time", "registered"}, "2016-03-01T10:00:00Z\n"},
		{"url", []string{"get", "-t", "url", "manual"}, "https://example.com/m5%20manual.pdf\n"},
		{"array", []string{"--color", "never", "get", "prices"}, "[\n  45000.5,\n  47000\n]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, vehicleJSON, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestGet_Strict(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		errType errors.ErrorType
		is      error
	}{
		{"missing key", []string{"get", "-s", "engine"}, errors.ErrorTypePath, jsonvalue.ErrMissingKey},
		{"index out of bounds", []string{"get", "-s", "owners[5]"}, errors.ErrorTypePath, jsonvalue.ErrIndexOutOfBounds},
		{"step into string", []string{"get", "-s", "make.name"}, errors.ErrorTypePath, jsonvalue.ErrInvalidStep},
		{"inconvertible", []string{"get", "-s", "-t", "bool", "make"}, errors.ErrorTypeDecode, jsonvalue.ErrInconvertible},
		{"bad path", []string{"get", "owners["}, errors.ErrorTypePath, errors.ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, vehicleJSON, tt.args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, &errors.AppError{Type: tt.errType})
			assert.ErrorIs(t, err, tt.is)
		})
	}
}

func TestFmt(t *testing.T) {
	out, err := run(t, `{"b": [1, 2.5], "a": {"c": null}}`, "fmt", "--compact")
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"c":null},"b":[1,2.5]}`+"\n", out)

	out, err = run(t, `{"b": true}`, "fmt")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": true\n}\n", out)

	out, err = run(t, `{"b": true}`, "--color", "always", "fmt")
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
}

func TestFmt_File(t *testing.T) {
	path := writeFile(t, "doc.json", `["x"]`)
	out, err := run(t, "", "fmt", "-C", path)
	require.NoError(t, err)
	assert.Equal(t, "[\"x\"]\n", out)
}

func TestPatch(t *testing.T) {
	tests := []struct {
		name  string
		patch string
		merge bool
		want  string
	}{
		{
			name:  "json patch",
			patch: `[{"op": "replace", "path": "/model", "value": "M3"}, {"op": "remove", "path": "/year"}]`,
			want:  `{"make":"BMW","model":"M3"}`,
		},
		{
			name:  "merge patch",
			patch: `{"model": null, "year": 2020}`,
			merge: true,
			want:  `{"make":"BMW","year":2020}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := []string{"--color", "never", "patch", writeFile(t, "patch.json", tt.patch)}
			if tt.merge {
				args = append(args, "--merge")
			}
			out, err := run(t, `{"make": "BMW", "model": "M5", "year": 2016}`, args...)
			require.NoError(t, err)

			got := jsonvalue.ParseString(out)
			assert.True(t, jsonvalue.ParseString(tt.want).Equal(got), "got %s", out)
		})
	}
}

func TestPatch_Errors(t *testing.T) {
	_, err := run(t, `{}`, "patch", writeFile(t, "patch.json", `{"op": "add"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeParsing})

	_, err = run(t, `{}`, "patch", writeFile(t, "patch.json", `[{"op": "remove", "path": "/missing"}]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypePath})

	_, err = run(t, `{}`, "patch", filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
}

func TestEval(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"variable", `make + " " + model`, "BMW M5\n"},
		{"arithmetic", `year + 1`, "2017\n"},
		{"builtin", `len(owners)`, "2\n"},
		{"path function", `at("owners[0].name")`, "Ann\n"},
		{"predicate", `all(prices, # > 40000)`, "true\n"},
		{"doc", `doc.owners[1].name`, "Bob\n"},
		{"collection", `map(owners, .name)`, "[\n  \"Ann\",\n  \"Bob\"\n]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, vehicleJSON, "--color", "never", "eval", tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEval_InvalidExpression(t *testing.T) {
	_, err := run(t, vehicleJSON, "eval", "year +")
	require.Error(t, err)
	assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeParsing})
}

func TestDiff(t *testing.T) {
	a := writeFile(t, "a.json", `{"make": "BMW", "year": 2016}`)
	b := writeFile(t, "b.json", `{"make": "BMW", "year": 2020}`)

	out, err := run(t, "", "--color", "never", "diff", a, b)
	assert.ErrorIs(t, err, errors.ErrNotEqual)
	assert.Equal(t, " {\n   \"make\": \"BMW\",\n-  \"year\": 2016\n+  \"year\": 2020\n }\n", out)

	out, err = run(t, "", "--color", "never", "diff", "--merge", a, b)
	assert.ErrorIs(t, err, errors.ErrNotEqual)
	assert.Equal(t, "{\n  \"year\": 2020\n}\n", out)

	out, err = run(t, "", "diff", a, a)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConfigFile(t *testing.T) {
	cfg := writeFile(t, "typedjson.yml", "output:\n  pretty: false\n  color: never\n")
	out, err := run(t, `{"a": [1]}`, "--config", cfg, "fmt")
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":[1]}\n", out)

	_, err = run(t, `{}`, "--color", "sometimes", "fmt")
	assert.ErrorIs(t, err, &errors.AppError{Type: errors.ErrorTypeConfig})
}
