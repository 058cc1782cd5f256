// Package qcmgen writes new QCM question sets with a language model.
package qcmgen

import "context"

// Request describes the question set to generate.
type Request struct {
	// Topic is the free-text subject of the questions.
	Topic string

	// Count is the number of questions wanted.
	Count int

	// Existing holds prompts that must not be asked again, typically the
	// prompts already present in the question directory.
	Existing []string
}

// Generator produces multiple-choice questions.
type Generator interface {
	// Generate returns up to req.Count validated questions. It returns an
	// error only when no usable question could be produced.
	Generate(ctx context.Context, req Request) (*Result, error)
}
