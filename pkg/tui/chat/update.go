package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/entropy/pkg/logger"
	"github.com/killallgit/entropy/pkg/process"
	"github.com/killallgit/entropy/pkg/session"
	"github.com/killallgit/entropy/pkg/tui/chat/status"
)

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg.Width, msg.Height)
		m, _ = m.updateStatus(msg)

	case tea.KeyMsg:
		return handleKeyMsg(m, msg)

	case errMsg:
		return m.updateStatus(status.NoticeMsg{Text: error(msg).Error(), IsError: true})

	case changeMsg:
		m = m.applyChange(msg.Change)
		return m, waitForEvent(m.eventChan)

	case runDoneMsg:
		m = m.finishRun(msg)
		return m, waitForEvent(m.eventChan)

	case uploadDoneMsg:
		return m.finishUpload(msg)

	default:
		var cmd tea.Cmd
		m.statusBar, cmd = m.statusBar.Update(msg)
		cmds = append(cmds, cmd)

		if m.focus == focusChat {
			m.textarea, cmd = m.textarea.Update(msg)
		} else {
			m.upload, cmd = m.upload.Update(msg)
		}
		cmds = append(cmds, cmd)

		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m chatModel) applyChange(c session.Change) chatModel {
	if c.Kind == session.ChangeEvent && m.state.Busy() && m.state != process.StateStopping {
		if next := process.FromEvent(c.Event); next != process.StateIdle {
			m.state = next
			m, _ = m.updateStatus(status.SetProcessStateMsg{State: next})
		}
	}

	m, _ = m.updateStatus(status.UpdateEventsMsg{Count: len(m.runner.Session().Events())})
	m.layout()
	m.refreshContent()
	return m
}

func (m chatModel) finishRun(msg runDoneMsg) chatModel {
	log := logger.WithComponent("tui")

	m.state = process.StateIdle
	m, _ = m.updateStatus(status.StopRunMsg{})

	switch {
	case msg.Err != nil:
		// rejected before any request
		m, _ = m.updateStatus(status.NoticeMsg{Text: msg.Err.Error(), IsError: true})
	case msg.Result.Outcome == session.OutcomeFailed:
		text := "run failed"
		if msg.Result.Err != nil {
			text = msg.Result.Err.Error()
		}
		m, _ = m.updateStatus(status.NoticeMsg{Text: text, IsError: true})
	case msg.Result.Outcome == session.OutcomeCancelled:
		m, _ = m.updateStatus(status.NoticeMsg{Text: "Run stopped"})
	default:
		m, _ = m.updateStatus(status.NoticeMsg{Text: "Complete in " + msg.Result.Duration.Round(100*time.Millisecond).String()})
	}
	log.Debug("run finished in tui", "outcome", msg.Result.Outcome.String())

	m, _ = m.updateStatus(status.UpdateEventsMsg{Count: len(m.runner.Session().Events())})
	m.layout()
	m.refreshContent()
	return m
}

func (m chatModel) finishUpload(msg uploadDoneMsg) (tea.Model, tea.Cmd) {
	m.state = process.StateIdle
	m, _ = m.updateStatus(status.StopRunMsg{})

	if msg.Err != nil {
		m.upload.SetError(msg.Err)
		m.layout()
		return m, nil
	}

	m.upload.SetUploaded(msg.Result)
	m, _ = m.updateStatus(status.NoticeMsg{Text: "Uploaded " + msg.Result.Filename})
	m, _ = m.updateStatus(status.UpdateEventsMsg{Count: 0})
	m.layout()
	m.refreshContent()

	if m.focus == focusUpload {
		return m.toggleFocus()
	}
	return m, nil
}
