// Package quiz is the screen that runs a quiz session: one question at a
// time, a checklist of choices, and a Validate/Next toggle.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/qcm/internal/question"
	"github.com/abhisek/qcm/internal/quiz"
	"github.com/abhisek/qcm/internal/router"
	"github.com/abhisek/qcm/internal/screen"
	"github.com/abhisek/qcm/internal/screens/summary"
	"github.com/abhisek/qcm/internal/store"
	"github.com/abhisek/qcm/internal/ui/components"
	"github.com/abhisek/qcm/internal/ui/layout"
)

const persistTimeout = 5 * time.Second

// QuizScreen implements screen.Screen for an active quiz.
type QuizScreen struct {
	session   *quiz.Session
	sourceDir string
	sessionID string
	eventRepo store.EventRepo
	logger    *zap.Logger

	checklist     components.Checklist
	outcome       *quiz.Outcome // set once the current question is validated
	confirmQuit   bool
	ended         bool
	questionStart time.Time
	now           func() time.Time
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.StatusProvider  = (*QuizScreen)(nil)
	_ screen.EscHandler      = (*QuizScreen)(nil)
)

// New creates a quiz screen over bank. eventRepo may be nil, in which case
// nothing is recorded.
func New(bank *question.Bank, eventRepo store.EventRepo, logger *zap.Logger) *QuizScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &QuizScreen{
		session:   quiz.New(bank),
		eventRepo: eventRepo,
		logger:    logger,
		sessionID: uuid.New().String(),
		now:       time.Now,
	}
	if bank != nil {
		s.sourceDir = bank.Dir()
	}
	s.loadQuestion()
	return s
}

// SessionID returns the id under which the quiz is recorded.
func (s *QuizScreen) SessionID() string {
	return s.sessionID
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.session.Len() == 0 {
		return nil
	}
	s.logger.Info("quiz started",
		zap.String("session_id", s.sessionID),
		zap.String("dir", s.sourceDir),
		zap.Int("questions", s.session.Len()))

	data := store.SessionEventData{
		SessionID:      s.sessionID,
		Action:         "start",
		SourceDir:      s.sourceDir,
		QuestionsTotal: s.session.Len(),
	}
	return s.persist("session start", func(ctx context.Context, repo store.EventRepo) error {
		return repo.AppendSessionEvent(ctx, data)
	})
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) HandlesEsc() bool {
	return true
}

// Status shows the position and the running score.
func (s *QuizScreen) Status() string {
	if s.session.Len() == 0 {
		return ""
	}
	sum := s.session.Summary()
	pos := min(s.session.Position()+1, s.session.Len())
	return fmt.Sprintf("Q %d/%d  ✓ %d", pos, s.session.Len(), sum.Correct)
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.session.Len() == 0:
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case s.session.Submitted():
		return []layout.KeyHint{
			{Key: "Enter/N", Description: "Next"},
			{Key: "Esc", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Space", Description: "Toggle"},
		{Key: "Enter", Description: "Validate"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *QuizScreen) View(width, height int) string {
	if s.session.Len() == 0 {
		return renderEmpty(width, height, s.sourceDir)
	}
	if s.confirmQuit {
		return renderQuitConfirm(width, height)
	}
	return s.renderQuestion(width, height)
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case persistDoneMsg:
		if msg.Err != nil {
			s.logger.Warn("failed to record event",
				zap.String("event", msg.What),
				zap.String("session_id", s.sessionID),
				zap.Error(msg.Err))
		}
		return s, nil

	case quizEndMsg:
		return s.handleEnd()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.session.Len() == 0 {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.ended {
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.confirmQuit = false
			return s, func() tea.Msg { return quizEndMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		return s, nil
	case "enter":
		var cmd tea.Cmd
		_, cmd = s.actionButton().Update(msg)
		return s, cmd
	case "n":
		if s.session.Submitted() {
			return s.next()
		}
		return s, nil
	}

	var cmd tea.Cmd
	s.checklist, cmd = s.checklist.Update(msg)
	return s, cmd
}

// actionButton is the Validate/Next toggle for the current question.
func (s *QuizScreen) actionButton() components.Button {
	if !s.session.Submitted() {
		return components.NewButton("Validate", func() tea.Cmd {
			_, cmd := s.validate()
			return cmd
		})
	}
	label := "Next"
	if s.session.Position() == s.session.Len()-1 {
		label = "Finish"
	}
	return components.NewButton(label, func() tea.Cmd {
		_, cmd := s.next()
		return cmd
	})
}

// validate scores the ticked choices and reveals the answer.
func (s *QuizScreen) validate() (screen.Screen, tea.Cmd) {
	q, ok := s.session.Current()
	if !ok {
		return s, func() tea.Msg { return quizEndMsg{} }
	}
	if s.session.Submitted() {
		return s, nil
	}

	selected := s.checklist.Checked()
	out, err := s.session.Submit(selected)
	if errors.Is(err, quiz.ErrFinished) {
		return s, func() tea.Msg { return quizEndMsg{} }
	}

	s.outcome = &out
	s.checklist.Reveal(q.Answer)

	data := store.AnswerEventData{
		SessionID:     s.sessionID,
		SourceFile:    q.Source,
		QuestionText:  q.Text,
		Selected:      selected,
		CorrectAnswer: q.Answer,
		Correct:       out.Correct,
		TimeMs:        int(s.now().Sub(s.questionStart).Milliseconds()),
	}
	s.logger.Debug("answer validated",
		zap.String("session_id", s.sessionID),
		zap.Int("position", s.session.Position()),
		zap.Ints("selected", selected),
		zap.Bool("correct", out.Correct))

	return s, s.persist("answer", func(ctx context.Context, repo store.EventRepo) error {
		return repo.AppendAnswerEvent(ctx, data)
	})
}

// next advances to the following question, ending the quiz after the last.
func (s *QuizScreen) next() (screen.Screen, tea.Cmd) {
	s.session.Advance()
	if s.session.State() == quiz.StateFinished {
		return s, func() tea.Msg { return quizEndMsg{} }
	}
	s.loadQuestion()
	return s, nil
}

func (s *QuizScreen) loadQuestion() {
	s.outcome = nil
	s.questionStart = s.now()
	q, ok := s.session.Current()
	if !ok {
		s.checklist = components.NewChecklist(nil)
		return
	}
	s.checklist = components.NewChecklist(q.Choices)
}

func (s *QuizScreen) handleEnd() (screen.Screen, tea.Cmd) {
	if s.ended {
		return s, nil
	}
	s.ended = true

	sum := s.session.Summary()
	s.logger.Info("quiz ended",
		zap.String("session_id", s.sessionID),
		zap.Int("answered", sum.Answered),
		zap.Int("correct", sum.Correct),
		zap.Duration("duration", sum.Duration))

	data := store.SessionEventData{
		SessionID:         s.sessionID,
		Action:            "end",
		SourceDir:         s.sourceDir,
		QuestionsTotal:    sum.Total,
		QuestionsAnswered: sum.Answered,
		CorrectAnswers:    sum.Correct,
		DurationSecs:      int(sum.Duration.Seconds()),
	}
	next := summary.New(sum, s.session.Results(), s.sourceDir)
	repo, logger := s.eventRepo, s.logger

	// The end event is written before the summary replaces this screen.
	return s, func() tea.Msg {
		if repo != nil {
			ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
			defer cancel()
			if err := repo.AppendSessionEvent(ctx, data); err != nil {
				logger.Warn("failed to record event",
					zap.String("event", "session end"),
					zap.String("session_id", data.SessionID),
					zap.Error(err))
			}
		}
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// persist runs write against the event repo off the update loop.
func (s *QuizScreen) persist(what string, write func(context.Context, store.EventRepo) error) tea.Cmd {
	repo := s.eventRepo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		return persistDoneMsg{What: what, Err: write(ctx, repo)}
	}
}
