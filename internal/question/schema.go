package question

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const itemSchemaURL = "schema://qcm-question.json"

var (
	itemSchemaOnce sync.Once
	itemSchema     *jsonschema.Schema
	itemSchemaErr  error
)

// ItemDefinition returns the JSON Schema of a single question entry.
// The returned map is freshly allocated and may be modified by the caller.
func ItemDefinition() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "The question prompt",
			},
			"choices": map[string]any{
				"type":        "array",
				"minItems":    2,
				"items":       map[string]any{"type": "string"},
				"description": "The selectable options, identified by their zero-based position",
			},
			"answer": map[string]any{
				"type":        "array",
				"minItems":    1,
				"items":       map[string]any{"type": "integer", "minimum": 0},
				"description": "Zero-based indices of every correct choice",
			},
		},
		"required": []any{"question", "choices", "answer"},
	}
}

// FileDefinition returns the JSON Schema of a whole QCM file.
func FileDefinition() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"qcm": map[string]any{
				"type":  "array",
				"items": ItemDefinition(),
			},
		},
		"required": []any{"qcm"},
	}
}

// compiledItemSchema compiles the item schema once.
func compiledItemSchema() (*jsonschema.Schema, error) {
	itemSchemaOnce.Do(func() {
		// The compiler wants a decoded JSON value, not a Go map of typed values.
		raw, err := json.Marshal(ItemDefinition())
		if err != nil {
			itemSchemaErr = fmt.Errorf("marshal item schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			itemSchemaErr = fmt.Errorf("parse item schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(itemSchemaURL, doc); err != nil {
			itemSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		itemSchema, itemSchemaErr = c.Compile(itemSchemaURL)
	})
	return itemSchema, itemSchemaErr
}

// decodeItem turns one raw "qcm" entry into a Question. Missing required
// fields are reported by name before the schema check so callers get a
// precise MalformedQuestionError.
func decodeItem(raw any) (Question, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Question{}, &MalformedQuestionError{Field: "entry", Reason: "not a JSON object"}
	}
	for _, field := range []string{"question", "choices", "answer"} {
		if _, ok := obj[field]; !ok {
			return Question{}, &MalformedQuestionError{Field: field, Reason: "missing"}
		}
	}

	sch, err := compiledItemSchema()
	if err != nil {
		return Question{}, err
	}
	if err := sch.Validate(raw); err != nil {
		return Question{}, &MalformedQuestionError{Field: "entry", Reason: err.Error()}
	}

	buf, err := json.Marshal(obj)
	if err != nil {
		return Question{}, &MalformedQuestionError{Field: "entry", Reason: err.Error()}
	}
	var q Question
	if err := json.Unmarshal(buf, &q); err != nil {
		return Question{}, &MalformedQuestionError{Field: "entry", Reason: err.Error()}
	}
	q.normalize()
	if err := q.Validate(); err != nil {
		return Question{}, err
	}
	return q, nil
}
