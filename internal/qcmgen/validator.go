package qcmgen

import (
	"fmt"
	"strings"

	"github.com/abhisek/qcm/internal/question"
)

// Validator checks one generated question.
type Validator interface {
	Name() string
	Validate(q question.Question) *ValidationError
}

// ValidationError explains why a generated question was rejected.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Validator, e.Message)
}

const (
	maxQuestionLen = 500
	maxChoiceLen   = 200
	maxChoices     = 8
)

// StructuralValidator enforces the question invariants and length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q question.Question) *ValidationError {
	if err := q.Validate(); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	if len(q.Text) > maxQuestionLen {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question exceeds %d characters", maxQuestionLen),
		}
	}
	if len(q.Choices) > maxChoices {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("more than %d choices", maxChoices),
		}
	}
	if len(q.Answer) == len(q.Choices) {
		return &ValidationError{Validator: v.Name(), Message: "every choice is marked correct"}
	}
	return nil
}

// ChoiceValidator rejects blank, overlong or repeated choices.
type ChoiceValidator struct{}

func (v *ChoiceValidator) Name() string { return "choices" }

func (v *ChoiceValidator) Validate(q question.Question) *ValidationError {
	seen := make(map[string]bool, len(q.Choices))
	for i, c := range q.Choices {
		key := normalizeText(c)
		switch {
		case key == "":
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("choice %d is blank", i)}
		case len(c) > maxChoiceLen:
			return &ValidationError{
				Validator: v.Name(),
				Message:   fmt.Sprintf("choice %d exceeds %d characters", i, maxChoiceLen),
			}
		case seen[key]:
			return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("choice %d repeats %q", i, strings.TrimSpace(c))}
		}
		seen[key] = true
	}
	return nil
}
