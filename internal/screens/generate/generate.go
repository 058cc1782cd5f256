// Package generate is the screen that asks a language model for a new QCM
// file on a given topic.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/qcm/internal/qcmgen"
	"github.com/abhisek/qcm/internal/question"
	"github.com/abhisek/qcm/internal/router"
	"github.com/abhisek/qcm/internal/screen"
	"github.com/abhisek/qcm/internal/ui/components"
	"github.com/abhisek/qcm/internal/ui/layout"
)

const maxCount = 50

type phase int

const (
	phaseInput phase = iota
	phaseGenerating
	phaseDone
)

// generatedMsg is sent when generation and the file write finish.
type generatedMsg struct {
	Path     string
	Accepted int
	Rejected int
	Err      error
}

// spinnerTickMsg animates the waiting indicator.
type spinnerTickMsg time.Time

// Options configures the generate screen.
type Options struct {
	Generator    qcmgen.Generator // nil when no provider is configured
	Dir          string           // where the new file is written
	DefaultCount int
	Timeout      time.Duration
	Logger       *zap.Logger
}

// GenerateScreen collects a topic and a count, then writes the generated
// questions to a new file in the question directory.
type GenerateScreen struct {
	opts    Options
	topic   components.TextInput
	count   components.TextInput
	focus   int // 0 topic, 1 count
	phase   phase
	frame   int
	result  generatedMsg
	errMsg  string
	started time.Time
}

var _ screen.Screen = (*GenerateScreen)(nil)
var _ screen.KeyHintProvider = (*GenerateScreen)(nil)
var _ screen.EscHandler = (*GenerateScreen)(nil)

// New creates a new GenerateScreen.
func New(opts Options) *GenerateScreen {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DefaultCount <= 0 {
		opts.DefaultCount = 10
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Minute
	}

	count := components.NewTextInput("10", true, 2)
	count.SetValue(strconv.Itoa(opts.DefaultCount))
	count.Blur()

	return &GenerateScreen{
		opts:  opts,
		topic: components.NewTextInput("e.g. TCP congestion control", false, 120),
		count: count,
	}
}

func (s *GenerateScreen) Init() tea.Cmd {
	return s.topic.Init()
}

func (s *GenerateScreen) Title() string {
	return "Generate Questions"
}

// HandlesEsc keeps Esc from abandoning a request in flight.
func (s *GenerateScreen) HandlesEsc() bool {
	return true
}

func (s *GenerateScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseGenerating:
		return []layout.KeyHint{{Key: "", Description: "Waiting for the model..."}}
	case phaseDone:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Generate more"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "Enter", Description: "Generate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *GenerateScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		return s.handleGenerated(msg)

	case spinnerTickMsg:
		if s.phase != phaseGenerating {
			return s, nil
		}
		s.frame++
		return s, spinnerTick()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

func (s *GenerateScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phaseGenerating:
		return s, nil
	case phaseDone:
		switch key {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			s.phase = phaseInput
			s.topic.SetValue("")
			s.focus = 0
			s.count.Blur()
			return s, s.topic.Focus()
		}
		return s, nil
	}

	switch key {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "tab", "shift+tab", "down", "up":
		return s, s.switchFocus()
	case "enter":
		return s.submit()
	}
	return s.forward(msg)
}

func (s *GenerateScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if s.phase != phaseInput {
		return s, nil
	}
	var cmd tea.Cmd
	if s.focus == 0 {
		s.topic, cmd = s.topic.Update(msg)
	} else {
		s.count, cmd = s.count.Update(msg)
	}
	return s, cmd
}

func (s *GenerateScreen) switchFocus() tea.Cmd {
	if s.focus == 0 {
		s.focus = 1
		s.topic.Blur()
		return s.count.Focus()
	}
	s.focus = 0
	s.count.Blur()
	return s.topic.Focus()
}

// submit validates the form and starts generation.
func (s *GenerateScreen) submit() (screen.Screen, tea.Cmd) {
	if s.opts.Generator == nil {
		s.errMsg = "No LLM provider configured. Set QCM_LLM_PROVIDER and its API key."
		return s, nil
	}

	topic := s.topic.Value()
	if topic == "" {
		s.errMsg = "Enter a topic first."
		return s, nil
	}
	count, err := s.count.NumericValue()
	if err != nil || count < 1 || count > maxCount {
		s.errMsg = fmt.Sprintf("Count must be between 1 and %d.", maxCount)
		return s, nil
	}

	s.errMsg = ""
	s.phase = phaseGenerating
	s.started = time.Now()
	s.frame = 0
	return s, tea.Batch(s.generate(topic, count), spinnerTick())
}

func (s *GenerateScreen) generate(topic string, count int) tea.Cmd {
	opts := s.opts
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
		defer cancel()

		res, err := opts.Generator.Generate(ctx, qcmgen.Request{
			Topic:    topic,
			Count:    count,
			Existing: existingPrompts(opts.Dir, opts.Logger),
		})
		if err != nil {
			return generatedMsg{Err: err}
		}

		path := qcmgen.OutputPath(opts.Dir, topic, "")
		if err := question.WriteFile(path, res.Questions); err != nil {
			return generatedMsg{Err: err}
		}
		return generatedMsg{Path: path, Accepted: len(res.Questions), Rejected: len(res.Rejected)}
	}
}

func (s *GenerateScreen) handleGenerated(msg generatedMsg) (screen.Screen, tea.Cmd) {
	s.phase = phaseDone
	s.result = msg
	if msg.Err != nil {
		s.opts.Logger.Warn("question generation failed",
			zap.String("topic", s.topic.Value()),
			zap.Error(msg.Err))
		return s, nil
	}
	s.opts.Logger.Info("questions generated",
		zap.String("path", msg.Path),
		zap.Int("accepted", msg.Accepted),
		zap.Int("rejected", msg.Rejected),
		zap.Duration("elapsed", time.Since(s.started)))
	return s, nil
}

// existingPrompts returns the prompts already present in dir. A missing or
// unreadable directory yields none.
func existingPrompts(dir string, logger *zap.Logger) []string {
	bank, err := question.Load(dir, question.WithSkipInvalid(true))
	if err != nil {
		var loadErr *question.LoadError
		if !errors.As(err, &loadErr) {
			logger.Debug("could not read existing questions", zap.String("dir", dir), zap.Error(err))
		}
		return nil
	}
	out := make([]string, 0, bank.Len())
	for _, q := range bank.All() {
		out = append(out, q.Text)
	}
	return out
}

func spinnerTick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg(t)
	})
}
