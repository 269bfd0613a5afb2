package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	maxInputHeight  = 10
	minLineageWidth = 28
	helpHeight      = 1
)

// calculateTextAreaHeight determines the visual height of the textarea
// based on its content and wrapping
func (m *chatModel) calculateTextAreaHeight() int {
	content := m.textarea.Value()
	if content == "" {
		return 1
	}

	textWidth := m.textarea.Width()
	if textWidth <= 0 {
		textWidth = m.width - 4
		if textWidth <= 0 {
			textWidth = 80
		}
	}

	totalVisualLines := 0
	for _, line := range strings.Split(content, "\n") {
		if line == "" {
			totalVisualLines++
			continue
		}
		visualLines := (runewidth.StringWidth(line) + textWidth - 1) / textWidth
		totalVisualLines += max(visualLines, 1)
	}

	return min(max(totalVisualLines, 1), maxInputHeight)
}

// layout splits the window between the panels
func (m *chatModel) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}

	m.upload.SetWidth(m.width)
	m.textarea.SetWidth(m.width - 6)
	m.textarea.SetHeight(m.calculateTextAreaHeight())

	m.lineageWidth = max(m.width/3, minLineageWidth)
	m.timelineWidth = m.width - m.lineageWidth
	if m.timelineWidth < 40 {
		// too narrow for two columns: lineage goes under the timeline
		m.timelineWidth = m.width
		m.lineageWidth = m.width
	}

	used := lipgloss.Height(m.upload.View()) +
		m.textarea.Height() + 2 + // input panel border
		1 + // status bar
		helpHeight
	m.contentHeight = max(m.height-used, 5)

	m.viewport.Width = max(m.timelineWidth-4, 10)
	vpHeight := m.contentHeight - 2
	if m.stacked() {
		vpHeight -= lipgloss.Height(m.renderLineage())
	}
	m.viewport.Height = max(vpHeight, 3)
}

func (m chatModel) stacked() bool {
	return m.timelineWidth == m.width
}

// handleWindowResize updates all dimensions when window size changes
func (m *chatModel) handleWindowResize(width, height int) {
	m.width = width
	m.height = height
	m.layout()
	m.refreshContent()
}
