// Package home is the landing screen: question count, last score and the
// main menu.
package home

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/qcm/internal/qcmgen"
	"github.com/abhisek/qcm/internal/question"
	"github.com/abhisek/qcm/internal/router"
	"github.com/abhisek/qcm/internal/screen"
	"github.com/abhisek/qcm/internal/screens/generate"
	"github.com/abhisek/qcm/internal/screens/history"
	quizscreen "github.com/abhisek/qcm/internal/screens/quiz"
	"github.com/abhisek/qcm/internal/store"
	"github.com/abhisek/qcm/internal/ui/components"
)

// Menu labels, in display order.
const (
	labelStart    = "START QUIZ"
	labelGenerate = "GENERATE"
	labelHistory  = "HISTORY"
	labelExit     = "EXIT"
)

// Options configures the home screen and the screens it opens.
type Options struct {
	Dir         string
	LoadOptions []question.LoadOption
	Limit       int // questions per quiz, 0 for all

	EventRepo store.EventRepo
	Generator qcmgen.Generator

	GenerateCount   int
	GenerateTimeout time.Duration

	// LatestVersion is shown when a newer release is available.
	LatestVersion string

	Logger *zap.Logger
}

// bankLoadedMsg carries the result of loading the question directory.
type bankLoadedMsg struct {
	Bank  *question.Bank
	Err   error
	Start bool // push a quiz once loaded
}

// statsLoadedMsg carries the latest finished quiz, if any.
type statsLoadedMsg struct {
	Last *store.SessionSummaryRecord
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	opts Options
	menu components.Menu

	questionCount int
	problemCount  int
	lastSession   *store.SessionSummaryRecord
	loading       bool
	errMsg        string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	h := &HomeScreen{opts: opts, questionCount: -1}

	items := []components.MenuItem{
		{Label: labelStart, Action: func() tea.Cmd {
			h.loading = true
			h.errMsg = ""
			return h.loadBank(true)
		}},
		{Label: labelGenerate, Disabled: opts.Generator == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: generate.New(generate.Options{
					Generator:    opts.Generator,
					Dir:          opts.Dir,
					DefaultCount: opts.GenerateCount,
					Timeout:      opts.GenerateTimeout,
					Logger:       opts.Logger,
				})}
			}
		}},
		{Label: labelHistory, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(opts.EventRepo)}
			}
		}},
		{Label: labelExit, Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	return h
}

func (h *HomeScreen) Init() tea.Cmd {
	return tea.Batch(h.loadBank(false), h.loadStats())
}

// Refresh reloads the question count and last score, e.g. after returning
// from a quiz or a generation run.
func (h *HomeScreen) Refresh() tea.Cmd {
	return h.Init()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case bankLoadedMsg:
		return h.handleBank(msg)

	case statsLoadedMsg:
		h.lastSession = msg.Last
		return h, nil
	}

	if h.loading {
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) handleBank(msg bankLoadedMsg) (screen.Screen, tea.Cmd) {
	if msg.Start {
		h.loading = false
	}
	if msg.Err != nil {
		h.questionCount = 0
		h.opts.Logger.Warn("failed to load questions", zap.String("dir", h.opts.Dir), zap.Error(msg.Err))
		if msg.Start {
			h.errMsg = msg.Err.Error()
		}
		return h, nil
	}

	h.questionCount = msg.Bank.Len()
	h.problemCount = len(msg.Bank.Problems())
	for _, p := range msg.Bank.Problems() {
		h.opts.Logger.Warn("skipped invalid question data", zap.Error(p))
	}

	if !msg.Start {
		return h, nil
	}
	if msg.Bank.Len() == 0 {
		h.errMsg = fmt.Sprintf("No questions found in %s", h.opts.Dir)
		return h, nil
	}
	bank := msg.Bank.Head(h.opts.Limit)
	return h, func() tea.Msg {
		return router.PushScreenMsg{Screen: quizscreen.New(bank, h.opts.EventRepo, h.opts.Logger)}
	}
}

// loadBank reads and shuffles the question directory off the update loop.
func (h *HomeScreen) loadBank(start bool) tea.Cmd {
	dir, opts := h.opts.Dir, h.opts.LoadOptions
	return func() tea.Msg {
		bank, err := question.Load(dir, opts...)
		return bankLoadedMsg{Bank: bank, Err: err, Start: start}
	}
}

func (h *HomeScreen) loadStats() tea.Cmd {
	repo := h.opts.EventRepo
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		recs, err := repo.QuerySessionSummaries(context.Background(), store.QueryOpts{Limit: 1})
		if err != nil || len(recs) == 0 {
			return statsLoadedMsg{}
		}
		return statsLoadedMsg{Last: &recs[0]}
	}
}

func (h *HomeScreen) Title() string {
	return "Home"
}
