package quiz

import "time"

// Summary holds the score shown when a quiz ends.
type Summary struct {
	Total    int
	Answered int
	Correct  int
	Accuracy float64
	Duration time.Duration
}

// Summary builds a score summary from the results recorded so far.
func (s *Session) Summary() Summary {
	sum := Summary{
		Total:    s.bank.Len(),
		Answered: len(s.results),
		Duration: s.now().Sub(s.startedAt),
	}
	for _, r := range s.results {
		if r.Correct {
			sum.Correct++
		}
	}
	if sum.Answered > 0 {
		sum.Accuracy = float64(sum.Correct) / float64(sum.Answered)
	}
	return sum
}
