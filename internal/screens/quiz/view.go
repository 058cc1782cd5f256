package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/qcm/internal/ui/layout"
	"github.com/abhisek/qcm/internal/ui/theme"
)

// renderQuestion renders the current question, its choices and, once
// validated, the verdict.
func (s *QuizScreen) renderQuestion(width, height int) string {
	q, ok := s.session.Current()
	if !ok {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Wrapping up...")
	}

	gap := "\n\n"
	if layout.IsCompactHeight(height + layout.HeaderHeight + layout.FooterHeight) {
		gap = "\n"
	}

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d of %d", s.session.Position()+1, s.session.Len()))
	infoRight := theme.Dim.Render(q.Source)

	infoLine := infoLeft
	if pad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4; pad > 0 {
		infoLine += strings.Repeat(" ", pad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString(gap)

	textWidth := min(width-8, 90)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Body.Bold(true).Width(textWidth).Render(q.Text)))
	b.WriteString(gap)

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Width(textWidth).Render(s.checklist.View())))
	b.WriteString("\n")

	if s.outcome == nil {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Hint.Render("Tick every correct choice, then press Enter to validate")))
	} else {
		b.WriteString(s.renderVerdict(width))
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.actionButton().View()))
	return b.String()
}

func (s *QuizScreen) renderVerdict(width int) string {
	var b strings.Builder
	if s.outcome.Correct {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Correct.Render("Correct!")))
	} else {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Incorrect.Render("Not quite")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Missed.Render("Answer: "+strings.Join(s.outcome.CorrectChoices, ", "))))
	}
	return b.String()
}

func renderQuitConfirm(width, height int) string {
	box := theme.Card.Render(
		theme.Body.Bold(true).Render("End this quiz?") + "\n\n" +
			theme.Hint.Render("Your answers so far will still be scored.") + "\n\n" +
			theme.Selected.Render("Y") + theme.Dim.Render(" end   ") +
			theme.Selected.Render("N") + theme.Dim.Render(" keep going"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func renderEmpty(width, height int, dir string) string {
	msg := "No questions to ask."
	if dir != "" {
		msg = fmt.Sprintf("No questions found in %s.", dir)
	}
	box := theme.Card.Render(
		theme.Body.Bold(true).Render(msg) + "\n\n" +
			theme.Hint.Render("Add QCM files to the directory or generate some from the home menu."))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
