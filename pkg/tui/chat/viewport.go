package chat

import (
	"github.com/killallgit/entropy/pkg/tui/theme"
)

// renderTimeline wraps the viewport in the timeline panel
func (m chatModel) renderTimeline() string {
	panel := m.styles.Panel.
		Width(m.timelineWidth - 2).
		Height(m.viewport.Height)
	return panel.Render(m.viewport.View())
}

func (m chatModel) renderInput() string {
	panel := theme.Pick(m.focus == focusChat, m.styles.PanelFocused, m.styles.Panel).Width(m.width - 2)
	if m.state.Busy() {
		return panel.Render(m.styles.InputDisabled.Render("Agent is working…"))
	}
	return panel.Render(m.textarea.View())
}
