package question

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "schema://question-bank.json"

// bankSchema describes the on-disk bank format.
var bankSchema = map[string]any{
	"type":     "object",
	"required": []any{"version", "questions"},
	"properties": map[string]any{
		"version": map[string]any{"type": "string", "pattern": "^v[0-9]+"},
		"questions": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"id", "test_type", "step", "module", "kind", "prompt", "max_score"},
				"properties": map[string]any{
					"id":           map[string]any{"type": "string", "minLength": 1},
					"test_type":    map[string]any{"enum": []any{"auditory", "visual", "language"}},
					"step":         map[string]any{"type": "string", "minLength": 1},
					"module":       map[string]any{"type": "string"},
					"kind":         map[string]any{"enum": []any{"choice", "text", "drawing"}},
					"prompt":       map[string]any{"type": "string"},
					"audio":        map[string]any{"type": "string"},
					"max_score":    map[string]any{"type": "integer", "minimum": 1},
					"options":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"answer_index": map[string]any{"type": "integer", "minimum": 0},
					"accepted":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"target":       map[string]any{"type": "string"},
					"min_strokes":  map[string]any{"type": "integer", "minimum": 0},
				},
				"additionalProperties": false,
			},
		},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON value, so round-trip the Go literal.
		raw, err := json.Marshal(bankSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

func validateDocument(doc any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile bank schema: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("bank schema validation failed: %w", err)
	}
	return nil
}
