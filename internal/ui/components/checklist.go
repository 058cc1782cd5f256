package components

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/qcm/internal/ui/theme"
)

// Checklist is a multiple-choice selector where any number of options can
// be ticked. After Reveal it shows which options were correct and ignores
// further input.
type Checklist struct {
	Options  []string
	Cursor   int
	checked  map[int]bool
	revealed bool
	correct  map[int]bool
}

// NewChecklist creates a checklist with nothing ticked.
func NewChecklist(options []string) Checklist {
	return Checklist{
		Options: options,
		checked: make(map[int]bool),
	}
}

// Init returns nil.
func (c Checklist) Init() tea.Cmd {
	return nil
}

// Update moves the cursor and toggles options. Digits 1-9 toggle the
// option with that number directly.
func (c Checklist) Update(msg tea.Msg) (Checklist, tea.Cmd) {
	if c.revealed {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space", " ", "x":
		c.Toggle(c.Cursor)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			i := int(key[0] - '1')
			if i < len(c.Options) {
				c.Cursor = i
				c.Toggle(i)
			}
		}
	}

	return c, nil
}

// Toggle flips option i. Out-of-range indices are ignored.
func (c *Checklist) Toggle(i int) {
	if c.revealed || i < 0 || i >= len(c.Options) {
		return
	}
	if c.checked == nil {
		c.checked = make(map[int]bool)
	}
	c.checked[i] = !c.checked[i]
}

// Checked returns the ticked option indices in ascending order.
func (c Checklist) Checked() []int {
	out := make([]int, 0, len(c.checked))
	for i, on := range c.checked {
		if on {
			out = append(out, i)
		}
	}
	slices.Sort(out)
	return out
}

// IsChecked reports whether option i is ticked.
func (c Checklist) IsChecked(i int) bool {
	return c.checked[i]
}

// Reveal freezes the checklist and marks the correct options.
func (c *Checklist) Reveal(correct []int) {
	c.revealed = true
	c.correct = make(map[int]bool, len(correct))
	for _, i := range correct {
		c.correct[i] = true
	}
}

// Revealed reports whether Reveal has been called.
func (c Checklist) Revealed() bool {
	return c.revealed
}

// View renders the options, one per line.
func (c Checklist) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		box := "[ ]"
		if c.checked[i] {
			box = "[x]"
		}
		prefix := "  "
		if i == c.Cursor && !c.revealed {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s %d. %s", prefix, box, i+1, opt)
		b.WriteString(c.styleFor(i).Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (c Checklist) styleFor(i int) lipgloss.Style {
	if !c.revealed {
		if i == c.Cursor {
			return theme.Selected
		}
		return theme.Unselected
	}
	switch {
	case c.correct[i] && c.checked[i]:
		return theme.Correct
	case c.correct[i]:
		return theme.Missed
	case c.checked[i]:
		return theme.Incorrect
	default:
		return theme.Dim
	}
}
