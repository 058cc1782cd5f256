// Package quiz runs a quiz over a question bank: one question at a time,
// answer evaluation, and a terminal finished state.
package quiz

import (
	"errors"
	"time"

	"github.com/abhisek/qcm/internal/question"
)

// ErrFinished is returned by Submit once every question has been passed.
var ErrFinished = errors.New("quiz is finished")

// State is the session lifecycle state.
type State int

const (
	StateInProgress State = iota // A current question is available
	StateFinished                // The cursor is past the last question
)

func (s State) String() string {
	if s == StateFinished {
		return "finished"
	}
	return "in_progress"
}

// Outcome is the result of evaluating a submitted answer.
type Outcome struct {
	Correct bool

	// CorrectChoices holds the texts of the correct choices when the
	// submission was wrong. It is nil for a correct submission.
	CorrectChoices []string
}

// Result is the first outcome recorded for a question.
type Result struct {
	Question question.Question
	Selected []int
	Correct  bool
}

// Session walks a question bank in order.
type Session struct {
	bank      *question.Bank
	index     int
	results   map[int]Result
	startedAt time.Time
	now       func() time.Time
}

// New creates a session positioned on the first question of bank. A session
// over an empty bank starts finished.
func New(bank *question.Bank) *Session {
	if bank == nil {
		bank = question.NewBank(nil)
	}
	s := &Session{
		bank:    bank,
		results: make(map[int]Result),
		now:     time.Now,
	}
	s.startedAt = s.now()
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	if s.index >= s.bank.Len() {
		return StateFinished
	}
	return StateInProgress
}

// Current returns the current question. The boolean is false once the
// session is finished.
func (s *Session) Current() (question.Question, bool) {
	if s.State() == StateFinished {
		return question.Question{}, false
	}
	return s.bank.At(s.index), true
}

// Position returns the zero-based index of the current question.
func (s *Session) Position() int {
	return s.index
}

// Len returns the number of questions in the session.
func (s *Session) Len() int {
	return s.bank.Len()
}

// Submit evaluates selected against the current question. Selection order and
// duplicates do not matter. Submit does not advance; submitting again for the
// same question is evaluated again but only the first result is scored.
func (s *Session) Submit(selected []int) (Outcome, error) {
	q, ok := s.Current()
	if !ok {
		return Outcome{}, ErrFinished
	}

	out := Evaluate(q, selected)
	if _, seen := s.results[s.index]; !seen {
		s.results[s.index] = Result{
			Question: q,
			Selected: normalize(selected),
			Correct:  out.Correct,
		}
	}
	return out, nil
}

// Submitted reports whether the current question already has a result.
func (s *Session) Submitted() bool {
	_, ok := s.results[s.index]
	return ok
}

// Advance moves to the next question. It is a no-op once finished.
func (s *Session) Advance() {
	if s.State() == StateFinished {
		return
	}
	s.index++
}

// Results returns the recorded results in question order.
func (s *Session) Results() []Result {
	out := make([]Result, 0, len(s.results))
	for i := range s.bank.Len() {
		if r, ok := s.results[i]; ok {
			out = append(out, r)
		}
	}
	return out
}
