// Package summary shows the score of a finished quiz.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/qcm/internal/quiz"
	"github.com/abhisek/qcm/internal/router"
	"github.com/abhisek/qcm/internal/screen"
	"github.com/abhisek/qcm/internal/ui/components"
	"github.com/abhisek/qcm/internal/ui/layout"
	"github.com/abhisek/qcm/internal/ui/theme"
)

// maxMissed caps the missed-question list so the view fits a terminal.
const maxMissed = 8

// SummaryScreen displays the quiz summary.
type SummaryScreen struct {
	summary   quiz.Summary
	results   []quiz.Result
	sourceDir string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)
var _ screen.EscHandler = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary quiz.Summary, results []quiz.Result, sourceDir string) *SummaryScreen {
	return &SummaryScreen{summary: summary, results: results, sourceDir: sourceDir}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Summary"
}

func (s *SummaryScreen) HandlesEsc() bool {
	return true
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	heading := "Quiz complete!"
	if sum.Answered < sum.Total {
		heading = "Quiz ended early"
	}
	b.WriteString(theme.Title.Width(width).Render(heading))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	info := fmt.Sprintf("Duration: %d:%02d", mins, secs)
	if s.sourceDir != "" {
		info += "    Source: " + s.sourceDir
	}
	b.WriteString(theme.Subtitle.Width(width).Render(info))
	b.WriteString("\n\n")

	statsLine := fmt.Sprintf("Questions: %d        Answered: %d        Correct: %d",
		sum.Total, sum.Answered, sum.Correct)
	b.WriteString(theme.Body.Width(width).Align(lipgloss.Center).Render(statsLine))
	b.WriteString("\n\n")

	barWidth := min(width-8, 60)
	bar := components.NewProgressBar("Accuracy", sum.Accuracy, true, barWidth)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	missed := s.missed()
	if len(missed) == 0 {
		if sum.Answered > 0 {
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				theme.Correct.Render("Every answered question was right.")))
		}
		return b.String()
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(barWidth, 0)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Dim.Render("To review")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	var list strings.Builder
	for i, r := range missed {
		if i == maxMissed {
			list.WriteString(theme.Dim.Render(fmt.Sprintf("  ... and %d more", len(missed)-maxMissed)))
			list.WriteString("\n")
			break
		}
		list.WriteString(theme.Incorrect.Render("  ✗ ") + theme.Body.Render(truncate(r.Question.Text, barWidth)))
		list.WriteString("\n")
		list.WriteString(theme.Missed.Render("    " + truncate(strings.Join(r.Question.CorrectChoices(), ", "), barWidth)))
		list.WriteString("\n")
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(barWidth+4).Render(list.String())))

	return b.String()
}

func (s *SummaryScreen) missed() []quiz.Result {
	var out []quiz.Result
	for _, r := range s.results {
		if !r.Correct {
			out = append(out, r)
		}
	}
	return out
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
