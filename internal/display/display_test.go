package display

import (
	"bytes"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/typedjson/jsonvalue"
)

func vehicle() jsonvalue.Value {
	return jsonvalue.NewMap(map[string]any{
		"make":   "BMW",
		"year":   2016,
		"prices": []any{45000.5, 47000.0},
		"owner":  nil,
		"sold":   false,
	})
}

func TestRender_Plain(t *testing.T) {
	tests := []struct {
		name   string
		pretty bool
		in     jsonvalue.Value
		want   string
	}{
		{
			name: "compact",
			in:   vehicle(),
			want: `{"make":"BMW","owner":null,"prices":[45000.5,47000.0],"sold":false,"year":2016}`,
		},
		{
			name:   "pretty",
			pretty: true,
			in:     jsonvalue.NewMap(map[string]any{"make": "BMW", "tags": []any{"a"}}),
			want:   "{\n  \"make\": \"BMW\",\n  \"tags\": [\n    \"a\"\n  ]\n}",
		},
		{
			name:   "empty collections",
			pretty: true,
			in:     jsonvalue.NewMap(map[string]any{"a": []any{}, "m": map[string]any{}}),
			want:   "{\n  \"a\": [],\n  \"m\": {}\n}",
		},
		{name: "null root", in: jsonvalue.Null(), want: "null"},
		{name: "escaped string", in: jsonvalue.NewString("a\"b"), want: `"a\"b"`},
		{name: "nan", in: jsonvalue.NewFloat(math.NaN()), want: "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPrinter(false, tt.pretty).Render(tt.in))
		})
	}
}

func TestRender_Colored(t *testing.T) {
	out := NewPrinter(true, false).Render(jsonvalue.NewMap(map[string]any{"make": "BMW"}))

	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "BMW")
	assert.NotEqual(t, `{"make":"BMW"}`, out)
}

func TestFprint(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewPrinter(false, false).Fprint(&buf, jsonvalue.NewInt(7)))
	assert.Equal(t, "7\n", buf.String())
}

func TestUseColor(t *testing.T) {
	assert.True(t, UseColor("always", nil))
	assert.False(t, UseColor("never", os.Stdout))
	assert.False(t, UseColor("auto", nil))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, UseColor("auto", os.Stdout))
}
