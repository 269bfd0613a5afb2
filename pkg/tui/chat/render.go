package chat

import (
	"github.com/killallgit/entropy/pkg/lineage"
	"github.com/killallgit/entropy/pkg/timeline"
)

// LineageEmptyMessage is shown until a dataset has been uploaded
const LineageEmptyMessage = "Upload a dataset to see the flow"

func (m *chatModel) rebuildRenderer() {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	m.renderer = timeline.NewRenderer(timeline.Options{
		Width:         width,
		ShowReasoning: m.showReasoning,
		Markdown:      m.markdown,
		Color:         m.color,
	})
}

// refreshContent re-renders the timeline from the session
func (m *chatModel) refreshContent() {
	if m.renderer == nil || m.renderer.Options().Width != m.viewport.Width || m.renderer.Options().ShowReasoning != m.showReasoning {
		m.rebuildRenderer()
	}

	events := m.runner.Session().Events()
	atBottom := m.viewport.AtBottom() || len(events) != m.lastEventCount
	m.viewport.SetContent(m.renderer.RenderAll(events))
	if atBottom {
		m.viewport.GotoBottom()
	}
	m.lastEventCount = len(events)
}

func (m chatModel) renderLineage() string {
	s := m.runner.Session()
	upload := s.Upload()
	width := max(m.lineageWidth-4, 10)

	var body string
	if upload == nil {
		body = m.styles.EmptyState.Render(LineageEmptyMessage)
	} else {
		d := lineage.Build(s.Events(), upload.Filename)
		body = lineage.RenderText(d, width)
	}

	title := m.styles.PanelTitle.Render("Data Transformation Map")
	return m.styles.Panel.Width(width + 2).Render(title + "\n\n" + body)
}
