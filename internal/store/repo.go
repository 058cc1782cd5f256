package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit int // max results (0 = unlimited)
}

// SessionEventData captures a quiz session lifecycle event (start or end).
type SessionEventData struct {
	SessionID         string
	Action            string // "start" or "end"
	SourceDir         string
	QuestionsTotal    int
	QuestionsAnswered int // on end only
	CorrectAnswers    int // on end only
	DurationSecs      int // on end only
}

// AnswerEventData captures one evaluated answer.
type AnswerEventData struct {
	SessionID     string
	SourceFile    string
	QuestionText  string
	Selected      []int
	CorrectAnswer []int
	Correct       bool
	TimeMs        int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// SessionSummaryRecord is a finished quiz session as shown in history.
type SessionSummaryRecord struct {
	SessionID         string
	Timestamp         time.Time
	SourceDir         string
	QuestionsTotal    int
	QuestionsAnswered int
	CorrectAnswers    int
	DurationSecs      int
}

// Accuracy returns the share of answered questions that were correct.
func (r SessionSummaryRecord) Accuracy() float64 {
	if r.QuestionsAnswered == 0 {
		return 0
	}
	return float64(r.CorrectAnswers) / float64(r.QuestionsAnswered)
}

// AnswerRecord is a stored answer event.
type AnswerRecord struct {
	ID            int
	Sequence      int64
	Timestamp     time.Time
	SessionID     string
	SourceFile    string
	QuestionText  string
	Selected      []int
	CorrectAnswer []int
	Correct       bool
	TimeMs        int
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID           int
	Sequence     int64
	Timestamp    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// SourceStats aggregates the answers given to questions from one file.
type SourceStats struct {
	SourceFile string
	Attempts   int
	Correct    int
	AvgTimeMs  int
}

// Accuracy returns the share of correct attempts.
func (s SourceStats) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// LLMUsage aggregates LLM calls sharing a purpose or a model.
type LLMUsage struct {
	Purpose      string // set by LLMUsageByPurpose
	Model        string // set by LLMUsageByModel
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendSessionEvent records a quiz session start or end.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// AppendAnswerEvent records an evaluated answer.
	AppendAnswerEvent(ctx context.Context, data AnswerEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QuerySessionSummaries returns finished sessions, newest first.
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)

	// QueryAnswers returns the answers of one session in the order given.
	QueryAnswers(ctx context.Context, sessionID string) ([]AnswerRecord, error)

	// QueryLLMEvents returns LLM events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns one LLM event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// QuerySourceStats aggregates answers per source file, weakest first.
	QuerySourceStats(ctx context.Context) ([]SourceStats, error)

	// LLMUsageByPurpose aggregates LLM calls per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates LLM calls per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
