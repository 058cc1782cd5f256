package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/qcm/internal/ui/layout"
	"github.com/abhisek/qcm/internal/ui/theme"
)

const titleFull = ` ██████╗  ██████╗███╗   ███╗
██╔═══██╗██╔════╝████╗ ████║
██║   ██║██║     ██╔████╔██║
██║▄▄ ██║██║     ██║╚██╔╝██║
╚██████╔╝╚██████╗██║ ╚═╝ ██║
 ╚══▀▀═╝  ╚═════╝╚═╝     ╚═╝`

const titleCompact = "Q · C · M"

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 22

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactWidth(width) || layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight)
	cw := contentWidth(width)

	sections := []string{
		renderTitle(cw, compact),
		h.renderStats(cw),
	}

	if compact {
		sections = append(sections, h.renderMenuCompact(cw))
	} else {
		sections = append(sections, h.renderMenu(cw))
	}

	switch {
	case h.loading:
		sections = append(sections, centered(cw, theme.Hint.Render("Loading questions...")))
	case h.errMsg != "":
		sections = append(sections, centered(cw, theme.Incorrect.Render(h.errMsg)))
	case h.opts.Generator == nil:
		sections = append(sections, centered(cw, theme.Missed.Render("⚠ Set an LLM API key to generate questions (see qcm --help)")))
	}
	if h.opts.LatestVersion != "" {
		sections = append(sections, centered(cw,
			theme.Dim.Render(fmt.Sprintf("New version %s available, run qcm update", h.opts.LatestVersion))))
	}

	content := strings.Join(sections, "\n\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// contentWidth returns the uniform inner width used for all sections.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 60)
}

func centered(cw int, s string) string {
	return lipgloss.NewStyle().Width(cw).Align(lipgloss.Center).Render(s)
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if compact {
		return centered(cw, style.Render(titleCompact))
	}
	return centered(cw, style.Render(titleFull))
}

// renderStats shows the question count and the last score in a bordered box.
func (h *HomeScreen) renderStats(cw int) string {
	countStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	scoreStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)

	count := "…"
	if h.questionCount >= 0 {
		count = fmt.Sprintf("%d", h.questionCount)
	}
	stats := countStyle.Render(count+" QUESTIONS") + theme.Dim.Render("  in "+h.opts.Dir)

	if h.problemCount > 0 {
		stats += "  " + theme.Incorrect.Render(fmt.Sprintf("%d skipped", h.problemCount))
	}

	last := theme.Dim.Render("NO QUIZ YET")
	if h.lastSession != nil {
		last = scoreStyle.Render(fmt.Sprintf("LAST %d/%d (%.0f%%)",
			h.lastSession.CorrectAnswers, h.lastSession.QuestionsAnswered, h.lastSession.Accuracy()*100))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Border).
		Width(cw-2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats + "\n" + last)
}

// renderMenu renders each menu item as a fixed-width button.
func (h *HomeScreen) renderMenu(cw int) string {
	base := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)
	selected := base.
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		BorderForeground(theme.Primary)

	var buttons []string
	for i, item := range h.menu.Items {
		switch {
		case item.Disabled:
			buttons = append(buttons, base.Foreground(theme.TextDim).Render(item.Label))
		case i == h.menu.Selected:
			buttons = append(buttons, selected.Render("▸ "+item.Label))
		default:
			buttons = append(buttons, base.Foreground(theme.Text).Render(item.Label))
		}
	}
	return centered(cw, strings.Join(buttons, "\n"))
}

// renderMenuCompact renders menu items as plain lines for small terminals.
func (h *HomeScreen) renderMenuCompact(cw int) string {
	return centered(cw, h.menu.View())
}
