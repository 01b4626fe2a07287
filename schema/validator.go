// Package mixschema validates source mix configuration files against an
// embedded JSON Schema before a run starts.
package mixschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"horse.fit/corpus/internal/mix"
)

//go:embed source_mix.schema.json
var sourceMixSchemaJSON string

// DefaultOverfetch compensates for cleaning and dedup losses when the config
// does not set its own factor.
const DefaultOverfetch = 1.5

// SourceConfig is a validated mix configuration.
type SourceConfig struct {
	TotalTargetExamples int              `json:"total_target_examples"`
	OverfetchFactor     float64          `json:"overfetch_factor"`
	Seed                int64            `json:"seed"`
	Sources             []mix.SourceSpec `json:"sources"`
}

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// ValidateSourceConfig checks raw JSON against the schema, then against the
// semantic rules the schema cannot express, and returns the decoded config.
func ValidateSourceConfig(payload json.RawMessage) (*SourceConfig, error) {
	value, err := decodeStrictJSON(payload)
	if err != nil {
		return nil, fmt.Errorf("decode config JSON: %w", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	normalized, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("normalize config JSON: %w", err)
	}

	var config SourceConfig
	if err := json.Unmarshal(normalized, &config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if config.OverfetchFactor == 0 {
		config.OverfetchFactor = DefaultOverfetch
	}

	// BuildPlan enforces the ratio bands, target sum and name uniqueness.
	if _, err := mix.BuildPlan(config.Sources, config.TotalTargetExamples, config.OverfetchFactor); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadSourceConfig reads and validates a mix configuration file.
func LoadSourceConfig(path string) (*SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %q: %w", path, err)
	}
	return ValidateSourceConfig(data)
}

// Plan resolves the validated config into per-source quotas.
func (c *SourceConfig) Plan() (*mix.Plan, error) {
	if c == nil {
		return nil, fmt.Errorf("config is nil")
	}
	return mix.BuildPlan(c.Sources, c.TotalTargetExamples, c.OverfetchFactor)
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("source_mix.schema.json", strings.NewReader(sourceMixSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("source_mix.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}

		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	if compiledSchema == nil {
		return nil, fmt.Errorf("schema not initialized")
	}
	return compiledSchema, nil
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("config is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("config contains trailing content")
	}

	return value, nil
}
