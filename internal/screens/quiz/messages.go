package quiz

// persistDoneMsg is sent when an event write completes.
type persistDoneMsg struct {
	What string
	Err  error
}

// quizEndMsg is sent to trigger the end-of-quiz flow.
type quizEndMsg struct{}
