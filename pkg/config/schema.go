package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed relict.schema.json
var schemaJSON []byte

var (
	compileOnce sync.Once
	schema      *jsonschema.Schema
	compileErr  error
)

const schemaURL = "mem://schemas/relict.schema.json"

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("decode config schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("register config schema: %w", err)
			return
		}
		schema, compileErr = c.Compile(schemaURL)
	})
	return schema, compileErr
}

// validate checks a raw, parsed config document against the embedded schema
// so typos in keys or wrong value types fail loading with a precise error.
func validate(doc map[string]any) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := s.Validate(normalize(doc)); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// normalize converts koanf's raw map into the plain-JSON value shapes the
// validator expects. TOML parsers produce int64 and []interface{} values
// that pass through unchanged; nested maps are rebuilt recursively.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	case int:
		return int64(t)
	default:
		return v
	}
}
