package generate

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/qcm/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (s *GenerateScreen) View(width, height int) string {
	var body string
	switch s.phase {
	case phaseGenerating:
		body = s.renderGenerating()
	case phaseDone:
		body = s.renderDone()
	default:
		body = s.renderForm()
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(body))
}

func (s *GenerateScreen) renderForm() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render("New question set"))
	b.WriteString("\n\n")

	b.WriteString(fieldLabel("Topic", s.focus == 0))
	b.WriteString("\n")
	b.WriteString(s.topic.View())
	b.WriteString("\n\n")
	b.WriteString(fieldLabel("Questions", s.focus == 1))
	b.WriteString("\n")
	b.WriteString(s.count.View())
	b.WriteString("\n\n")

	dir := s.opts.Dir
	if dir == "" {
		dir = "."
	}
	b.WriteString(theme.Hint.Render("Saved to " + dir))

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}
	return b.String()
}

func fieldLabel(label string, focused bool) string {
	if focused {
		return theme.Selected.Render("▸ " + label)
	}
	return theme.Dim.Render("  " + label)
}

func (s *GenerateScreen) renderGenerating() string {
	frame := spinnerFrames[s.frame%len(spinnerFrames)]
	return theme.Selected.Render(frame) + " " +
		theme.Body.Render(fmt.Sprintf("Writing questions about %q...", s.topic.Value()))
}

func (s *GenerateScreen) renderDone() string {
	r := s.result
	if r.Err != nil {
		return theme.Incorrect.Render("Generation failed") + "\n\n" +
			theme.Dim.Render(r.Err.Error())
	}

	msg := fmt.Sprintf("Wrote %d question", r.Accepted)
	if r.Accepted != 1 {
		msg += "s"
	}
	var b strings.Builder
	b.WriteString(theme.Correct.Render(msg))
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Render(r.Path))
	if r.Rejected > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Dim.Render(fmt.Sprintf("%d candidate(s) rejected by validation", r.Rejected)))
	}
	return b.String()
}
