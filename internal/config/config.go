// Package config loads and validates lisprc.json: load paths for `load`,
// whether --debug logging is on by default, and the REPL's history size.
// Grounded on core/types/validation.go's Validator, which compiles a
// jsonschema.Draft2020 schema as an in-memory resource and runs
// Validate(value) against decoded JSON before the typed config is trusted.
package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://lisprc.json"

// Config is the decoded, validated shape of lisprc.json. Of its fields only
// Debug is read by the CLI; `load` does not search LoadPaths, and the REPL
// keeps no history, so HistorySize has no effect.
type Config struct {
	LoadPaths   []string `json:"loadPaths"`
	Debug       bool     `json:"debug"`
	HistorySize int      `json:"historySize"`
}

// Default returns the configuration used when no lisprc.json is present.
func Default() *Config {
	return &Config{HistorySize: 1000}
}

// Load reads path, validates it against schema.json, and decodes it into a
// Config. A missing file is not an error — Default() is returned instead,
// matching the CLI's "config is optional" behavior.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates and decodes raw JSON bytes into a Config.
func Parse(data []byte) (*Config, error) {
	schema, err := compileSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("config: schema validation failed: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: decoding: %w", err)
	}
	return cfg, nil
}

func compileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, strings.NewReader(string(schemaJSON))); err != nil {
		return nil, fmt.Errorf("config: adding schema resource: %w", err)
	}
	return compiler.Compile(schemaURL)
}
