package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for typedjson
type Config struct {
	Package  string         `yaml:"package"`
	RootName string         `yaml:"root_name"`
	Output   OutputConfig   `yaml:"output"`
	Types    TypesConfig    `yaml:"types"`
	Naming   NamingConfig   `yaml:"naming"`
	JSONTags JSONTagsConfig `yaml:"json_tags"`
	Generate GenerateConfig `yaml:"generate"`
	Arrays   ArraysConfig   `yaml:"arrays"`
	Dev      DevConfig      `yaml:"dev"`
}

// OutputConfig controls how documents are printed
type OutputConfig struct {
	Pretty bool   `yaml:"pretty"`
	Color  string `yaml:"color"` // auto, always or never
}

// TypesConfig controls type inference and mapping
type TypesConfig struct {
	OptionalAsPointers bool          `yaml:"optional_as_pointers"`
	Mappings           []TypeMapping `yaml:"mappings"`
}

// TypeMapping maps JSON keys matching Pattern to a fixed Go type. Mapped
// fields are decoded with encoding/json semantics.
type TypeMapping struct {
	Pattern string `yaml:"pattern"`
	Type    string `yaml:"type"`
	Import  string `yaml:"import,omitempty"`
	Comment string `yaml:"comment,omitempty"`

	regex *regexp.Regexp
}

// NamingConfig controls field naming
type NamingConfig struct {
	PascalCaseFields bool              `yaml:"pascal_case_fields"`
	FieldMappings    map[string]string `yaml:"field_mappings"`
}

// JSONTagsConfig controls struct tag generation
type JSONTagsConfig struct {
	OmitemptyForPointers bool     `yaml:"omitempty_for_pointers"`
	SkipFields           []string `yaml:"skip_fields"`
}

// GenerateConfig controls which methods gen emits
type GenerateConfig struct {
	DecodeMethods bool   `yaml:"decode_methods"`
	FieldsMethods bool   `yaml:"fields_methods"`
	FileHeader    string `yaml:"file_header"`
	Format        bool   `yaml:"format"`
}

// ArraysConfig controls array handling
type ArraysConfig struct {
	MergeDifferentObjects bool `yaml:"merge_different_objects"`
	SingularizeNames      bool `yaml:"singularize_names"`
}

// DevConfig contains debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Package:  "main",
		RootName: "RootType",
		Output: OutputConfig{
			Pretty: true,
			Color:  "auto",
		},
		Types: TypesConfig{
			OptionalAsPointers: true,
			Mappings:           []TypeMapping{},
		},
		Naming: NamingConfig{
			PascalCaseFields: true,
			FieldMappings:    make(map[string]string),
		},
		JSONTags: JSONTagsConfig{
			OmitemptyForPointers: true,
		},
		Generate: GenerateConfig{
			DecodeMethods: true,
			FieldsMethods: true,
			Format:        true,
		},
		Arrays: ArraysConfig{
			MergeDifferentObjects: true,
			SingularizeNames:      true,
		},
	}
}

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks enumerated options and compiles type mapping patterns
func (c *Config) Validate() error {
	switch c.Output.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("invalid output.color %q: want auto, always or never", c.Output.Color)
	}

	for i := range c.Types.Mappings {
		mapping := &c.Types.Mappings[i]
		if mapping.Type == "" {
			return fmt.Errorf("type mapping '%s' has no type", mapping.Pattern)
		}
		regex, err := regexp.Compile(mapping.Pattern)
		if err != nil {
			return fmt.Errorf("invalid type mapping pattern '%s': %w", mapping.Pattern, err)
		}
		mapping.regex = regex
	}
	return nil
}

// configNames are searched in order in every directory
var configNames = []string{".typedjson.yml", ".typedjson.yaml", "typedjson.yml", "typedjson.yaml"}

// FindConfigFile searches for a config file in dir and its parents. An
// empty dir means the working directory.
func FindConfigFile(dir string) string {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = wd
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// MatchesField checks if this type mapping matches the given JSON key
func (tm *TypeMapping) MatchesField(fieldName string) bool {
	if tm.regex == nil {
		regex, err := regexp.Compile(tm.Pattern)
		if err != nil {
			return false
		}
		tm.regex = regex
	}
	return tm.regex.MatchString(fieldName)
}

// GetFieldName returns the Go field name for a JSON key, applying naming rules
func (c *Config) GetFieldName(jsonKey string) string {
	if mapped, exists := c.Naming.FieldMappings[jsonKey]; exists {
		return mapped
	}

	name := jsonKey
	if c.Naming.PascalCaseFields {
		name = GoName(jsonKey)
	}
	if name == "" {
		return "Field"
	}
	if name[0] >= '0' && name[0] <= '9' {
		return "Field" + name
	}
	return name
}

// commonInitialisms stay upper case inside Go names, as golint expects
var commonInitialisms = map[string]bool{
	"ACL": true, "API": true, "ASCII": true, "CPU": true, "CSS": true, "DNS": true,
	"EOF": true, "GUID": true, "HTML": true, "HTTP": true, "HTTPS": true, "ID": true,
	"IP": true, "JSON": true, "LHS": true, "QPS": true, "RAM": true, "RHS": true,
	"RPC": true, "SLA": true, "SMTP": true, "SQL": true, "SSH": true, "TCP": true,
	"TLS": true, "TTL": true, "UDP": true, "UI": true, "UID": true, "UUID": true,
	"URI": true, "URL": true, "UTF8": true, "VM": true, "XML": true, "XMPP": true,
	"XSRF": true, "XSS": true,
}

// GoName converts a JSON key to an exported Go identifier. strcase splits
// the key into words, so "userID", "user_id" and "user-id" all become
// "UserID". Characters that cannot appear in an identifier are dropped.
func GoName(key string) string {
	var b strings.Builder
	for _, word := range strings.Split(strcase.ToSnake(key), "_") {
		word = strings.Map(func(r rune) rune {
			if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, word)
		if word == "" {
			continue
		}
		if upper := strings.ToUpper(word); commonInitialisms[upper] {
			b.WriteString(upper)
			continue
		}
		b.WriteString(strings.ToUpper(word[:1]) + word[1:])
	}
	return b.String()
}

// FindTypeMapping finds the first type mapping that matches the JSON key
func (c *Config) FindTypeMapping(fieldName string) (TypeMapping, bool) {
	for i := range c.Types.Mappings {
		if c.Types.Mappings[i].MatchesField(fieldName) {
			return c.Types.Mappings[i], true
		}
	}
	return TypeMapping{}, false
}

// ShouldSkipField reports whether a JSON key is excluded from generated structs
func (c *Config) ShouldSkipField(fieldName string) bool {
	return slices.Contains(c.JSONTags.SkipFields, fieldName)
}

// Overrides holds values given on the command line. Empty strings and nil
// pointers mean "not set".
type Overrides struct {
	Package  string
	RootName string
	Debug    *bool
	Color    string
	Pretty   *bool
}

// Apply copies every set override into c
func (o Overrides) Apply(c *Config) {
	if o.Package != "" {
		c.Package = o.Package
	}
	if o.RootName != "" {
		c.RootName = o.RootName
	}
	if o.Debug != nil {
		c.Dev.Debug = *o.Debug
	}
	if o.Color != "" {
		c.Output.Color = o.Color
	}
	if o.Pretty != nil {
		c.Output.Pretty = *o.Pretty
	}
}

// LoadConfigWithCLI loads the config file at configPath, or the nearest
// discovered one when configPath is empty, then applies CLI overrides.
func LoadConfigWithCLI(configPath string, overrides Overrides) (*Config, error) {
	if configPath == "" {
		configPath = FindConfigFile("")
	}

	cfg := NewConfig()
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	overrides.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
