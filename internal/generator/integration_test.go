package generator

import (
	"go/format"
	"testing"

	"github.com/mcncl/typedjson/internal/analyzer"
	"github.com/mcncl/typedjson/internal/config"
	"github.com/mcncl/typedjson/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, cfg *config.Config, input, rootName string) string {
	t.Helper()
	ir, err := parser.ParseString(input)
	require.NoError(t, err)

	analysisResult, err := analyzer.NewAnalyzerWithConfig(cfg).Analyze(ir, rootName)
	require.NoError(t, err)

	code, err := NewGeneratorWithConfig(cfg).GenerateStructs(analysisResult, cfg.Package)
	require.NoError(t, err)
	return code
}

func TestIntegration_ParserAnalyzerGenerator(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Generate.DecodeMethods = false
	cfg.Generate.FieldsMethods = false

	generatedCode := generate(t, cfg, `{
		"user_id": 123,
		"username": "johndoe",
		"is_active": true,
		"profile": {
			"full_name": "John Doe",
			"email": "john.doe@example.com"
		}
	}`, "User")

	expectedCode := `package main

type User struct {
	IsActive bool         ` + "`json:\"is_active\"`" + `
	Profile  *UserProfile ` + "`json:\"profile,omitempty\"`" + `
	UserID   int64        ` + "`json:\"user_id\"`" + `
	Username string       ` + "`json:\"username\"`" + `
}

type UserProfile struct {
	Email    string ` + "`json:\"email\"`" + `
	FullName string ` + "`json:\"full_name\"`" + `
}
`
	assert.Equal(t, expectedCode, generatedCode)
}

func TestIntegration_VehicleWithMethods(t *testing.T) {
	generatedCode := generate(t, config.NewConfig(), `{
		"make": "BMW",
		"model": "M5",
		"year": 2016,
		"prices": [45000.5, 47000],
		"registered": "2016-03-01T10:00:00Z"
	}`, "Vehicle")

	assert.Contains(t, generatedCode, "\t\"github.com/mcncl/typedjson/jsonvalue\"\n")
	assert.Contains(t, generatedCode, "type Vehicle struct {")
	assert.Contains(t, generatedCode, "Prices     []float64      `json:\"prices,omitempty\"`")
	assert.Contains(t, generatedCode, "Registered jsonvalue.Time `json:\"registered\"`")
	assert.Contains(t, generatedCode, "func (r *Vehicle) DecodeJSON(v jsonvalue.Value) (err error) {")
	assert.Contains(t, generatedCode, "if r.Year, err = v.DecodeInt64(jsonvalue.Key(\"year\")); err != nil {")
	assert.Contains(t, generatedCode, "func (r Vehicle) JSONFields() []jsonvalue.Field {")

	_, err := format.Source([]byte(generatedCode))
	assert.NoError(t, err, "generated code must parse:\n%s", generatedCode)
}

func TestIntegration_ArrayOfObjects(t *testing.T) {
	generatedCode := generate(t, config.NewConfig(), `[
		{"id": 1, "name": "Product 1", "price": 19.99},
		{"id": 2, "name": "Product 2", "price": 29.99, "sale": true}
	]`, "Product")

	assert.Contains(t, generatedCode, "type Product struct {")
	assert.Contains(t, generatedCode, "`json:\"id\"`")
	assert.Contains(t, generatedCode, "`json:\"name\"`")
	assert.Contains(t, generatedCode, "`json:\"price\"`")
	assert.Contains(t, generatedCode, "Sale  *bool   `json:\"sale,omitempty\"`")
	assert.Contains(t, generatedCode, "if x, ok := v.BoolAt(jsonvalue.Key(\"sale\")); ok {")
	assert.Contains(t, generatedCode, "// The document root is a []Product")
}

func TestIntegration_TypeMappingsAndComments(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Package = "models"
	cfg.Types.Mappings = []config.TypeMapping{
		{Pattern: ".*_id$", Type: "int64", Comment: "Identifier"},
		{Pattern: "^ip$", Type: "net.IP", Import: "net"},
	}
	cfg.JSONTags.SkipFields = []string{"password"}
	require.NoError(t, cfg.Validate())

	generatedCode := generate(t, cfg, `{"user_id": 123, "ip": "10.0.0.1", "name": "John Doe", "password": "secret123"}`, "User")

	assert.Contains(t, generatedCode, "package models")
	assert.Contains(t, generatedCode, "\t\"net\"\n")
	assert.Contains(t, generatedCode, "\t// Identifier\n\tUserID int64")
	assert.Contains(t, generatedCode, "if err = jsonvalue.Unmarshal(v, &u.IP, jsonvalue.Key(\"ip\")); err != nil {")
	assert.Contains(t, generatedCode, "if err = jsonvalue.Unmarshal(v, &u.UserID, jsonvalue.Key(\"user_id\")); err != nil {")
	assert.NotContains(t, generatedCode, "password")

	_, err := format.Source([]byte(generatedCode))
	assert.NoError(t, err)
}
