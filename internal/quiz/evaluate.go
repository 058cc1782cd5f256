package quiz

import (
	"slices"

	"github.com/abhisek/qcm/internal/question"
)

// Evaluate compares selected against the correct answers of q as sets.
func Evaluate(q question.Question, selected []int) Outcome {
	if slices.Equal(normalize(selected), normalize(q.Answer)) {
		return Outcome{Correct: true}
	}
	return Outcome{CorrectChoices: q.CorrectChoices()}
}

// normalize returns a sorted copy of idx without duplicates.
func normalize(idx []int) []int {
	out := slices.Clone(idx)
	slices.Sort(out)
	return slices.Compact(out)
}
