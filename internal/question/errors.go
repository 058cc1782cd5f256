package question

import "fmt"

// LoadError indicates the question directory could not be read.
type LoadError struct {
	Dir string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load questions from %s: %v", e.Dir, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ParseError indicates a QCM file is not valid JSON or has no "qcm" array.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MalformedQuestionError indicates a question entry is missing a required
// field or breaks one of the question invariants.
type MalformedQuestionError struct {
	File   string
	Index  int
	Field  string
	Reason string
}

func (e *MalformedQuestionError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("malformed question (%s): %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: question #%d: malformed %s: %s", e.File, e.Index, e.Field, e.Reason)
}

func outOfRange(idx, n int) string {
	return fmt.Sprintf("answer index %d out of range [0, %d)", idx, n)
}
