package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/typedjson/internal/cli"
)

func streams(stdin string) (cli.Streams, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return cli.Streams{In: strings.NewReader(stdin), Out: &out, Err: &errOut}, &out, &errOut
}

func TestRun_Version(t *testing.T) {
	s, out, _ := streams("")
	assert.Equal(t, 0, run([]string{"--version"}, s))
	assert.Equal(t, "typedjson version "+cli.Version+"\n", out.String())
}

func TestRun_Help(t *testing.T) {
	s, out, _ := streams("")
	assert.Equal(t, 0, run([]string{"--help"}, s))
	assert.Contains(t, out.String(), "Usage: typedjson")
}

func TestRun_GenFromStdin(t *testing.T) {
	s, out, _ := streams(`{"make": "BMW", "year": 2016}`)
	require.Equal(t, 0, run([]string{"gen", "-p", "models", "-r", "Vehicle"}, s))

	assert.Contains(t, out.String(), "package models")
	assert.Contains(t, out.String(), "type Vehicle struct")
}

func TestRun_DefaultCommandIsGen(t *testing.T) {
	s, out, _ := streams(`{"id": 1}`)
	require.Equal(t, 0, run([]string{"-r", "Item"}, s))
	assert.Contains(t, out.String(), "type Item struct")
}

func TestRun_UserFriendlyErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{"invalid json", []string{"fmt"}, `{"a": }`, "JSON parsing error:"},
		{"missing file", []string{"fmt", "does-not-exist.json"}, "", "not found"},
		{"strict missing key", []string{"get", "--strict", "model"}, `{"make": "BMW"}`, `no key "model" at this path`},
		{"bad path", []string{"get", "a[x"}, `{}`, "Path error:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, errOut := streams(tt.stdin)
			assert.Equal(t, 1, run(tt.args, s))
			assert.Contains(t, errOut.String(), tt.want)
			assert.Contains(t, errOut.String(), "For help, run: typedjson --help")
		})
	}
}

func TestRun_DiffExitCode(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(a, []byte(`{"make": "BMW"}`), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(`{"make": "Audi"}`), 0o644))

	s, out, errOut := streams("")
	assert.Equal(t, 1, run([]string{"diff", a, b}, s))
	assert.Contains(t, out.String(), `-  "make": "BMW"`)
	assert.Empty(t, errOut.String())

	s, out, _ = streams("")
	assert.Equal(t, 0, run([]string{"diff", a, a}, s))
	assert.Empty(t, out.String())
}
