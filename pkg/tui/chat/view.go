package chat

import (
	"github.com/charmbracelet/lipgloss"
)

const helpText = "tab focus · enter send · alt+enter newline · ctrl+r reasoning · ctrl+x stop · ctrl+o new file · ctrl+c quit"

func (m chatModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var middle string
	if m.stacked() {
		middle = lipgloss.JoinVertical(lipgloss.Left, m.renderTimeline(), m.renderLineage())
	} else {
		middle = lipgloss.JoinHorizontal(lipgloss.Top, m.renderTimeline(), m.renderLineage())
	}

	parts := []string{
		m.upload.View(),
		middle,
		m.renderInput(),
	}
	if bar := m.statusBar.View(); bar != "" {
		parts = append(parts, bar)
	}
	parts = append(parts, m.styles.Help.Render(helpText))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
