// Package app wires the screen router into a Bubble Tea program.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/qcm/internal/question"
	"github.com/abhisek/qcm/internal/router"
	"github.com/abhisek/qcm/internal/screen"
	"github.com/abhisek/qcm/internal/screens/home"
	quizscreen "github.com/abhisek/qcm/internal/screens/quiz"
	"github.com/abhisek/qcm/internal/ui/layout"
)

// Options configures the application.
type Options struct {
	Home home.Options

	// Quiz, when set, opens a quiz over this bank on top of the home screen.
	Quiz *question.Bank
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	init   tea.Cmd
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen, and the quiz
// screen on top of it when a bank is given.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Home)
	r := router.New(homeScreen)
	cmds := []tea.Cmd{homeScreen.Init()}
	if opts.Quiz != nil {
		cmds = append(cmds, r.Push(quizscreen.New(opts.Quiz, opts.Home.EventRepo, opts.Home.Logger)))
	}
	return AppModel{router: r, init: tea.Batch(cmds...)}
}

func (m AppModel) Init() tea.Cmd {
	return m.init
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 && !handlesEsc(m.router.Active()) {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func handlesEsc(s screen.Screen) bool {
	h, ok := s.(screen.EscHandler)
	return ok && h.HandlesEsc()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame: header, active screen and footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(m.footerHints(active), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) footerHints(active screen.Screen) []layout.KeyHint {
	if kp, ok := active.(screen.KeyHintProvider); ok {
		if hints := kp.KeyHints(); len(hints) > 0 {
			return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	logger := opts.Home.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logger.Error("program exited with error", zap.Error(err))
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
