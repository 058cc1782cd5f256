package components

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/qcm/internal/ui/theme"
)

// Button is a single action bound to Enter. A disabled button renders
// dimmed and ignores input.
type Button struct {
	Label    string
	Disabled bool
	OnPress  func() tea.Cmd
}

// NewButton creates an enabled button.
func NewButton(label string, onPress func() tea.Cmd) Button {
	return Button{Label: label, OnPress: onPress}
}

// Press runs the button's action.
func (b Button) Press() tea.Cmd {
	if b.Disabled || b.OnPress == nil {
		return nil
	}
	return b.OnPress()
}

func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.String() == "enter" {
		return b, b.Press()
	}
	return b, nil
}

func (b Button) View() string {
	if b.Disabled {
		return theme.ButtonInactive.Render(b.Label)
	}
	return theme.ButtonActive.Render(b.Label)
}
