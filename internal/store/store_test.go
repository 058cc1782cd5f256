package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "qcm.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpen_CreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"session_events", "answer_events", "llm_request_events", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qcm.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.EventRepo().AppendSessionEvent(ctx, SessionEventData{SessionID: "a", Action: "end"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.EventRepo().QuerySessionSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d sessions after reopen, want 1", len(got))
	}
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s1", QuestionText: "q1"}); err != nil {
		t.Fatalf("append answer: %v", err)
	}
	if err := repo.AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "question-gen", Success: true}); err != nil {
		t.Fatalf("append llm: %v", err)
	}
	if err := repo.AppendAnswerEvent(ctx, AnswerEventData{SessionID: "s1", QuestionText: "q2"}); err != nil {
		t.Fatalf("append answer: %v", err)
	}

	answers, err := repo.QueryAnswers(ctx, "s1")
	if err != nil {
		t.Fatalf("query answers: %v", err)
	}
	llmEvents, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query llm: %v", err)
	}
	if len(answers) != 2 || len(llmEvents) != 1 {
		t.Fatalf("got %d answers and %d llm events", len(answers), len(llmEvents))
	}
	first, mid, last := answers[0].Sequence, llmEvents[0].Sequence, answers[1].Sequence
	if !(first < mid && mid < last) {
		t.Errorf("sequences not interleaved: %d, %d, %d", first, mid, last)
	}
}

func TestSessionSummaries(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []SessionEventData{
		{SessionID: "s1", Action: "start", SourceDir: "rl", QuestionsTotal: 3},
		{SessionID: "s1", Action: "end", SourceDir: "rl", QuestionsTotal: 3, QuestionsAnswered: 3, CorrectAnswers: 2, DurationSecs: 40},
		{SessionID: "s2", Action: "start", SourceDir: "go", QuestionsTotal: 5},
		{SessionID: "s2", Action: "end", SourceDir: "go", QuestionsTotal: 5, QuestionsAnswered: 4, CorrectAnswers: 4, DurationSecs: 90},
	}
	for _, e := range events {
		if err := repo.AppendSessionEvent(ctx, e); err != nil {
			t.Fatalf("append %s/%s: %v", e.SessionID, e.Action, err)
		}
	}

	got, err := repo.QuerySessionSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2 (end events only)", len(got))
	}
	if got[0].SessionID != "s2" || got[1].SessionID != "s1" {
		t.Errorf("order = [%s %s], want newest first", got[0].SessionID, got[1].SessionID)
	}
	if got[1].Accuracy() != 2.0/3.0 {
		t.Errorf("accuracy = %v, want 2/3", got[1].Accuracy())
	}
	if got[0].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}

	limited, err := repo.QuerySessionSummaries(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 || limited[0].SessionID != "s2" {
		t.Errorf("limited = %+v, want only s2", limited)
	}
}

func TestAccuracy_NoAnswers(t *testing.T) {
	if got := (SessionSummaryRecord{}).Accuracy(); got != 0 {
		t.Errorf("accuracy = %v, want 0", got)
	}
}

func TestAnswerEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	answers := []AnswerEventData{
		{SessionID: "s1", SourceFile: "a.json", QuestionText: "Q1", Selected: []int{0, 2}, CorrectAnswer: []int{0, 2}, Correct: true, TimeMs: 1200},
		{SessionID: "s1", SourceFile: "a.json", QuestionText: "Q2", Selected: nil, CorrectAnswer: []int{1}, Correct: false},
		{SessionID: "other", QuestionText: "Q3", Selected: []int{0}, CorrectAnswer: []int{0}, Correct: true},
	}
	for _, a := range answers {
		if err := repo.AppendAnswerEvent(ctx, a); err != nil {
			t.Fatalf("append %s: %v", a.QuestionText, err)
		}
	}

	got, err := repo.QueryAnswers(ctx, "s1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d answers, want 2", len(got))
	}
	if got[0].QuestionText != "Q1" || !got[0].Correct || got[0].TimeMs != 1200 {
		t.Errorf("first answer = %+v", got[0])
	}
	if len(got[0].Selected) != 2 || got[0].Selected[1] != 2 {
		t.Errorf("selected = %v, want [0 2]", got[0].Selected)
	}
	if len(got[1].Selected) != 0 {
		t.Errorf("empty selection stored as %v", got[1].Selected)
	}
	if got[1].Correct {
		t.Error("second answer should be incorrect")
	}
	if got[0].Sequence >= got[1].Sequence {
		t.Error("answers not in sequence order")
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "claude-sonnet-4-20250514", Purpose: "question-gen",
		InputTokens: 120, OutputTokens: 340, LatencyMs: 900, Success: true,
		RequestBody: `{"topic":"tcp"}`, ResponseBody: `{"qcm":[]}`,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	err = repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen",
		Success: false, ErrorMessage: "rate limited",
	})
	if err != nil {
		t.Fatalf("append failure: %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Provider != "openai" || events[0].Success {
		t.Errorf("newest event = %+v", events[0])
	}
	if events[0].ErrorMessage != "rate limited" {
		t.Errorf("error message = %q", events[0].ErrorMessage)
	}

	ev, err := repo.GetLLMEvent(ctx, events[1].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ev == nil {
		t.Fatal("expected event, got nil")
	}
	if ev.RequestBody != `{"topic":"tcp"}` || ev.OutputTokens != 340 {
		t.Errorf("event = %+v", ev)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing event, got %+v", missing)
	}
}

func TestQuerySourceStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	answers := []AnswerEventData{
		{SessionID: "s1", SourceFile: "easy.json", QuestionText: "a", Correct: true, TimeMs: 1000},
		{SessionID: "s1", SourceFile: "easy.json", QuestionText: "b", Correct: true, TimeMs: 3000},
		{SessionID: "s1", SourceFile: "hard.json", QuestionText: "c", Correct: false, TimeMs: 5000},
		{SessionID: "s1", SourceFile: "hard.json", QuestionText: "d", Correct: true, TimeMs: 7000},
	}
	for _, a := range answers {
		if err := repo.AppendAnswerEvent(ctx, a); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	stats, err := repo.QuerySourceStats(ctx)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("got %d rows, want 2", len(stats))
	}
	if stats[0].SourceFile != "hard.json" {
		t.Errorf("first = %s, want weakest file first", stats[0].SourceFile)
	}
	if stats[0].Attempts != 2 || stats[0].Correct != 1 || stats[0].AvgTimeMs != 6000 {
		t.Errorf("hard stats = %+v", stats[0])
	}
	if stats[1].Accuracy() != 1 {
		t.Errorf("easy accuracy = %v, want 1", stats[1].Accuracy())
	}
}

func TestLLMUsage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 100, OutputTokens: 200, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-gen", InputTokens: 50, OutputTokens: 0, LatencyMs: 200, Success: false},
		{Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "question-gen", InputTokens: 10, OutputTokens: 20, LatencyMs: 300, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("by purpose: %v", err)
	}
	if len(byPurpose) != 1 {
		t.Fatalf("got %d purposes, want 1", len(byPurpose))
	}
	u := byPurpose[0]
	if u.Purpose != "question-gen" || u.Calls != 3 || u.Failures != 1 || u.InputTokens != 160 || u.OutputTokens != 220 || u.AvgLatencyMs != 300 {
		t.Errorf("purpose usage = %+v", u)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "gpt-4o-mini" || byModel[0].Calls != 2 {
		t.Errorf("model usage = %+v", byModel)
	}
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qcm.db")

	existed, err := Remove(path)
	if err != nil || existed {
		t.Fatalf("Remove(missing) = %v, %v; want false, nil", existed, err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s.Close()

	existed, err = Remove(path)
	if err != nil || !existed {
		t.Fatalf("Remove = %v, %v; want true, nil", existed, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("database file still present")
	}
}
