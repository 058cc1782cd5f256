// Package question loads multiple-choice question sets (QCM files) from disk.
package question

import (
	"slices"
)

// Question is a single multiple-choice question.
type Question struct {
	// Text is the prompt shown to the user.
	Text string `json:"question"`

	// Choices are the selectable options. A choice is identified by its index.
	Choices []string `json:"choices"`

	// Answer holds the indices of the correct choices, sorted and without
	// duplicates once the question has been loaded.
	Answer []int `json:"answer"`

	// Source is the base name of the file the question came from.
	Source string `json:"-"`
}

// File is the on-disk layout of a QCM file.
type File struct {
	QCM []Question `json:"qcm"`
}

// IsCorrectChoice reports whether choice index i is one of the correct answers.
func (q Question) IsCorrectChoice(i int) bool {
	return slices.Contains(q.Answer, i)
}

// CorrectChoices returns the texts of the correct choices in choice order.
// Out-of-range indices are ignored.
func (q Question) CorrectChoices() []string {
	out := make([]string, 0, len(q.Answer))
	for i, c := range q.Choices {
		if q.IsCorrectChoice(i) {
			out = append(out, c)
		}
	}
	return out
}

// Validate checks the question invariants: a non-empty prompt, at least two
// choices, at least one answer, and every answer index inside the choices.
func (q Question) Validate() error {
	switch {
	case q.Text == "":
		return &MalformedQuestionError{Field: "question", Reason: "empty prompt"}
	case len(q.Choices) < 2:
		return &MalformedQuestionError{Field: "choices", Reason: "need at least two choices"}
	case len(q.Answer) == 0:
		return &MalformedQuestionError{Field: "answer", Reason: "no correct answer"}
	}
	for _, a := range q.Answer {
		if a < 0 || a >= len(q.Choices) {
			return &MalformedQuestionError{
				Field:  "answer",
				Reason: outOfRange(a, len(q.Choices)),
			}
		}
	}
	return nil
}

// normalize sorts the answer set and collapses duplicates.
func (q *Question) normalize() {
	ans := slices.Clone(q.Answer)
	slices.Sort(ans)
	q.Answer = slices.Compact(ans)
}
