package qcmgen

import (
	"github.com/abhisek/qcm/internal/llm"
	"github.com/abhisek/qcm/internal/question"
)

// BatchSchema is the response schema for a generated question set. It is
// the on-disk QCM file schema, closed against extra properties.
var BatchSchema = &llm.Schema{
	Name:        "qcm-batch",
	Description: "A set of multiple-choice questions in QCM file format",
	Definition:  batchDefinition(),
}

func batchDefinition() map[string]any {
	item := question.ItemDefinition()
	item["additionalProperties"] = false

	def := question.FileDefinition()
	def["additionalProperties"] = false
	qcm := def["properties"].(map[string]any)["qcm"].(map[string]any)
	qcm["items"] = item
	qcm["minItems"] = 1
	qcm["description"] = "The generated questions"
	return def
}
