package chat

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m chatModel) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		textinput.Blink,
		waitForEvent(m.eventChan),
	)
}
