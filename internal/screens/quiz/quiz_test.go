package quiz

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/qcm/internal/question"
	"github.com/abhisek/qcm/internal/router"
	"github.com/abhisek/qcm/internal/screens/summary"
	"github.com/abhisek/qcm/internal/store"
)

// mockEventRepo implements store.EventRepo for testing.
type mockEventRepo struct {
	sessionEvents []store.SessionEventData
	answerEvents  []store.AnswerEventData
	err           error
}

func (m *mockEventRepo) AppendSessionEvent(_ context.Context, data store.SessionEventData) error {
	m.sessionEvents = append(m.sessionEvents, data)
	return m.err
}
func (m *mockEventRepo) AppendAnswerEvent(_ context.Context, data store.AnswerEventData) error {
	m.answerEvents = append(m.answerEvents, data)
	return m.err
}
func (m *mockEventRepo) AppendLLMRequest(_ context.Context, _ store.LLMRequestEventData) error {
	return nil
}
func (m *mockEventRepo) QuerySessionSummaries(_ context.Context, _ store.QueryOpts) ([]store.SessionSummaryRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) QueryAnswers(_ context.Context, _ string) ([]store.AnswerRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) QueryLLMEvents(_ context.Context, _ store.QueryOpts) ([]store.LLMEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) GetLLMEvent(_ context.Context, _ int) (*store.LLMEventRecord, error) {
	return nil, nil
}
func (m *mockEventRepo) QuerySourceStats(_ context.Context) ([]store.SourceStats, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMUsageByPurpose(_ context.Context) ([]store.LLMUsage, error) {
	return nil, nil
}
func (m *mockEventRepo) LLMUsageByModel(_ context.Context) ([]store.LLMUsage, error) {
	return nil, nil
}

func testBank() *question.Bank {
	return question.NewBank([]question.Question{
		{Text: "Capital of France?", Choices: []string{"Paris", "Lyon", "Nice"}, Answer: []int{0}, Source: "geo.json"},
		{Text: "Even numbers?", Choices: []string{"1", "2", "3", "4"}, Answer: []int{1, 3}, Source: "math.json"},
	})
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func press(t *testing.T, s *QuizScreen, msg tea.Msg) tea.Cmd {
	t.Helper()
	scr, cmd := s.Update(msg)
	if scr != s {
		t.Fatalf("Update returned a different screen")
	}
	return cmd
}

func TestQuizScreen_InitRecordsStart(t *testing.T) {
	repo := &mockEventRepo{}
	s := New(testBank(), repo, nil)

	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a persist command")
	}
	msg := cmd()
	if _, ok := msg.(persistDoneMsg); !ok {
		t.Fatalf("got %T, want persistDoneMsg", msg)
	}
	if len(repo.sessionEvents) != 1 {
		t.Fatalf("got %d session events, want 1", len(repo.sessionEvents))
	}
	ev := repo.sessionEvents[0]
	if ev.Action != "start" || ev.QuestionsTotal != 2 || ev.SessionID != s.SessionID() {
		t.Errorf("start event = %+v", ev)
	}
}

func TestQuizScreen_NilRepoRecordsNothing(t *testing.T) {
	s := New(testBank(), nil, nil)
	if cmd := s.Init(); cmd != nil {
		t.Error("expected no command without an event repo")
	}
	press(t, s, keyPress('1'))
	if cmd := press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter}); cmd != nil {
		t.Error("validate should not persist without an event repo")
	}
	if s.outcome == nil || !s.outcome.Correct {
		t.Errorf("outcome = %+v, want correct", s.outcome)
	}
}

func TestQuizScreen_ValidateThenNext(t *testing.T) {
	repo := &mockEventRepo{}
	s := New(testBank(), repo, nil)

	press(t, s, keyPress(' ')) // tick choice 0 under the cursor
	cmd := press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.outcome == nil {
		t.Fatal("expected the question to be validated")
	}
	if !s.outcome.Correct {
		t.Error("expected Paris to be correct")
	}
	if !s.checklist.Revealed() {
		t.Error("checklist should be revealed after validation")
	}
	if cmd == nil {
		t.Fatal("expected an answer persist command")
	}
	cmd()
	if len(repo.answerEvents) != 1 {
		t.Fatalf("got %d answer events, want 1", len(repo.answerEvents))
	}
	ans := repo.answerEvents[0]
	if ans.SourceFile != "geo.json" || !ans.Correct || !slices.Equal(ans.Selected, []int{0}) {
		t.Errorf("answer event = %+v", ans)
	}

	// Toggling after validation has no effect.
	press(t, s, keyPress('2'))
	if s.checklist.IsChecked(1) {
		t.Error("checklist accepted input after reveal")
	}

	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if s.outcome != nil {
		t.Error("outcome should reset on the next question")
	}
	if s.session.Position() != 1 {
		t.Errorf("position = %d, want 1", s.session.Position())
	}
	if len(s.checklist.Checked()) != 0 {
		t.Error("new question should start with nothing ticked")
	}
}

func TestQuizScreen_WrongAnswerShowsCorrectChoices(t *testing.T) {
	s := New(testBank(), nil, nil)
	press(t, s, keyPress('2'))
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})

	if s.outcome == nil || s.outcome.Correct {
		t.Fatalf("outcome = %+v, want incorrect", s.outcome)
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "Paris") || !strings.Contains(view, "Not quite") {
		t.Errorf("view missing verdict or answer:\n%s", view)
	}
}

func TestQuizScreen_NextKeyOnlyAfterValidate(t *testing.T) {
	s := New(testBank(), nil, nil)
	press(t, s, keyPress('n'))
	if s.session.Position() != 0 {
		t.Fatal("n advanced before validation")
	}
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	press(t, s, keyPress('n'))
	if s.session.Position() != 1 {
		t.Errorf("position = %d, want 1", s.session.Position())
	}
}

func TestQuizScreen_FinishReplacesWithSummary(t *testing.T) {
	repo := &mockEventRepo{}
	s := New(testBank(), repo, nil)

	// Q1 right, Q2 partially right.
	press(t, s, keyPress('1'))
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	press(t, s, keyPress('2'))
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})

	cmd := press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected end command after the last question")
	}
	if _, ok := cmd().(quizEndMsg); !ok {
		t.Fatal("expected quizEndMsg")
	}

	cmd = press(t, s, quizEndMsg{})
	if cmd == nil {
		t.Fatal("expected replace command")
	}
	replace, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := replace.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("replaced with %T, want *summary.SummaryScreen", replace.Screen)
	}

	if len(repo.sessionEvents) != 1 {
		t.Fatalf("got %d session events, want 1 end event", len(repo.sessionEvents))
	}
	end := repo.sessionEvents[0]
	if end.Action != "end" || end.QuestionsAnswered != 2 || end.CorrectAnswers != 1 {
		t.Errorf("end event = %+v", end)
	}

	// A second end message is ignored.
	if cmd := press(t, s, quizEndMsg{}); cmd != nil {
		t.Error("quiz ended twice")
	}
}

func TestQuizScreen_QuitConfirm(t *testing.T) {
	s := New(testBank(), nil, nil)
	if !s.HandlesEsc() {
		t.Fatal("quiz screen should handle Esc itself")
	}

	press(t, s, tea.KeyPressMsg{Code: tea.KeyEscape})
	if !s.confirmQuit {
		t.Fatal("Esc should ask for confirmation")
	}
	if !strings.Contains(s.View(80, 24), "End this quiz?") {
		t.Error("confirmation not rendered")
	}

	press(t, s, keyPress('n'))
	if s.confirmQuit {
		t.Fatal("n should dismiss the confirmation")
	}
	if s.session.Position() != 0 {
		t.Error("dismissing the confirmation must not advance")
	}

	press(t, s, tea.KeyPressMsg{Code: tea.KeyEscape})
	cmd := press(t, s, keyPress('y'))
	if cmd == nil {
		t.Fatal("expected end command")
	}
	if _, ok := cmd().(quizEndMsg); !ok {
		t.Error("y should end the quiz")
	}
}

func TestQuizScreen_EmptyBank(t *testing.T) {
	s := New(question.NewBank(nil), &mockEventRepo{}, nil)
	if cmd := s.Init(); cmd != nil {
		t.Error("empty quiz should not record a start event")
	}
	if !strings.Contains(s.View(80, 24), "No questions") {
		t.Error("expected empty-bank message")
	}
	cmd := press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("any key should pop an empty quiz")
	}
}

func TestQuizScreen_PersistFailureDoesNotInterrupt(t *testing.T) {
	repo := &mockEventRepo{err: errors.New("disk full")}
	s := New(testBank(), repo, nil)

	press(t, s, keyPress('1'))
	cmd := press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	press(t, s, cmd())

	if s.outcome == nil {
		t.Error("validation lost after a failed write")
	}
}

func TestQuizScreen_Status(t *testing.T) {
	s := New(testBank(), nil, nil)
	if got := s.Status(); got != "Q 1/2  ✓ 0" {
		t.Errorf("Status = %q", got)
	}
	press(t, s, keyPress('1'))
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := s.Status(); got != "Q 1/2  ✓ 1" {
		t.Errorf("Status after correct answer = %q", got)
	}
}

func TestQuizScreen_ActionButtonLabel(t *testing.T) {
	s := New(testBank(), nil, nil)
	if got := s.actionButton().Label; got != "Validate" {
		t.Errorf("label before validation = %q, want Validate", got)
	}
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := s.actionButton().Label; got != "Next" {
		t.Errorf("label after validation = %q, want Next", got)
	}
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := s.actionButton().Label; got != "Finish" {
		t.Errorf("label on the last question = %q, want Finish", got)
	}
	if !strings.Contains(s.View(100, 30), "Finish") {
		t.Error("view should render the Finish button")
	}
}

func TestQuizScreen_ValidateRecordsOncePerQuestion(t *testing.T) {
	repo := &mockEventRepo{}
	s := New(testBank(), repo, nil)

	press(t, s, keyPress('1'))
	_, cmd := s.validate()
	if cmd == nil {
		t.Fatal("expected an answer persist command")
	}
	cmd()
	if !s.session.Submitted() {
		t.Fatal("session should hold the submission")
	}

	if _, cmd := s.validate(); cmd != nil {
		t.Error("a second validate of the same question should do nothing")
	}
	if len(repo.answerEvents) != 1 {
		t.Errorf("got %d answer events, want 1", len(repo.answerEvents))
	}
	if hints := s.KeyHints(); hints[0].Description != "Next" {
		t.Errorf("hints after validation = %+v", hints)
	}
}
