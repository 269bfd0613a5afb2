package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/process"
	"github.com/killallgit/entropy/pkg/session"
	"github.com/killallgit/entropy/pkg/timeline"
	"github.com/killallgit/entropy/pkg/tui/chat/status"
	"github.com/killallgit/entropy/pkg/tui/theme"
)

// FileSelector validates a local path before upload
type FileSelector interface {
	SelectFile(path string) (api.SelectedFile, error)
}

type Options struct {
	Runner        *session.Runner
	Files         FileSelector
	ShowReasoning bool
	Markdown      bool
	Color         bool
}

type focusArea int

const (
	focusUpload focusArea = iota
	focusChat
)

type chatModel struct {
	ctx    context.Context
	runner *session.Runner

	upload    uploadZone
	textarea  textarea.Model
	viewport  viewport.Model
	statusBar status.StatusModel
	renderer  *timeline.Renderer
	styles    *theme.Styles

	focus         focusArea
	state         process.State
	showReasoning bool
	markdown      bool
	color         bool

	eventChan   chan tea.Msg
	unsubscribe func()

	width          int
	height         int
	timelineWidth  int
	lineageWidth   int
	contentHeight  int
	lastEventCount int
}

func NewChatModel(ctx context.Context, opts Options) chatModel {
	ta := textarea.New()
	ta.Placeholder = "Ask me to analyze something..."
	ta.CharLimit = 0
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.Prompt = "› "
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	// Enter submits
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))

	vp := viewport.New(80, 20)
	styles := theme.DefaultStyles()

	m := chatModel{
		ctx:           ctx,
		runner:        opts.Runner,
		upload:        newUploadZone(opts.Files, styles),
		textarea:      ta,
		viewport:      vp,
		statusBar:     status.NewStatusModel(),
		styles:        styles,
		focus:         focusUpload,
		showReasoning: opts.ShowReasoning,
		markdown:      opts.Markdown,
		color:         opts.Color,
		eventChan:     make(chan tea.Msg, 256),
	}
	m.upload.Focus()

	// Session changes arrive on the stream goroutine. The view re-reads the
	// whole session on each one, so a change dropped on a full channel is
	// covered by the next.
	ch := m.eventChan
	m.unsubscribe = m.runner.Session().Subscribe(func(c session.Change) {
		select {
		case ch <- changeMsg{Change: c}:
		default:
		}
	})

	m.rebuildRenderer()
	return m
}
