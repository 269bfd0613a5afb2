package chat

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/entropy/pkg/process"
	"github.com/killallgit/entropy/pkg/session"
	"github.com/killallgit/entropy/pkg/tui/chat/status"
)

var errNoDataset = errors.New("upload a dataset before asking the agent")

func handleKeyMsg(m chatModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.runner.Stop()
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit

	case "tab":
		return m.toggleFocus()

	case "ctrl+r":
		m.showReasoning = !m.showReasoning
		m.refreshContent()
		return m, nil

	case "ctrl+x":
		if m.state.Busy() && m.state != process.StateUploading && m.runner.Stop() {
			m.state = process.StateStopping
			return m.updateStatus(status.SetProcessStateMsg{State: process.StateStopping})
		}
		return m, nil

	case "ctrl+o":
		if m.state.Busy() {
			return m.updateStatus(status.NoticeMsg{Text: session.ErrBusy.Error(), IsError: true})
		}
		m.upload.Reopen()
		m.layout()
		if m.focus != focusUpload {
			return m.toggleFocus()
		}
		return m, nil
	}

	if m.focus == focusUpload {
		return handleUploadKey(m, msg)
	}
	return handleChatKey(m, msg)
}

func handleUploadKey(m chatModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.upload.Clear()
		m.layout()
		return m, nil
	case tea.KeyEnter:
		if !m.upload.Ready() || m.state.Busy() {
			return m, nil
		}
		m.upload.SetUploading(true)
		m.state = process.StateUploading
		var cmd tea.Cmd
		m, cmd = m.updateStatus(status.StartRunMsg{State: process.StateUploading})
		return m, tea.Batch(cmd, uploadCmd(m.ctx, m.runner, m.upload.Path()))
	}

	var cmd tea.Cmd
	m.upload, cmd = m.upload.Update(msg)
	m.layout()
	return m, cmd
}

func handleChatKey(m chatModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// input is disabled while the agent works
	if m.state.Busy() {
		return m, nil
	}

	if msg.Type == tea.KeyEnter && !msg.Alt {
		prompt := m.textarea.Value()
		if strings.TrimSpace(prompt) == "" {
			return m, nil
		}
		if m.runner.Session().Upload() == nil {
			return m.updateStatus(status.NoticeMsg{Text: errNoDataset.Error(), IsError: true})
		}

		m.textarea.Reset()
		m.textarea.SetHeight(1)
		m.state = process.StateRunning
		m.layout()
		startRun(m.ctx, m.runner, prompt, m.eventChan)

		m, _ = m.updateStatus(status.NoticeMsg{})
		var cmd tea.Cmd
		m, cmd = m.updateStatus(status.StartRunMsg{State: process.StateRunning})
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)

	if newHeight := m.calculateTextAreaHeight(); m.textarea.Height() != newHeight {
		m.textarea.SetHeight(newHeight)
		m.layout()
	}

	return m, cmd
}

func (m chatModel) toggleFocus() (chatModel, tea.Cmd) {
	if m.focus == focusUpload {
		m.focus = focusChat
		m.upload.Blur()
		return m, m.textarea.Focus()
	}
	m.focus = focusUpload
	m.textarea.Blur()
	return m, m.upload.Focus()
}

func (m chatModel) updateStatus(msg tea.Msg) (chatModel, tea.Cmd) {
	var cmd tea.Cmd
	m.statusBar, cmd = m.statusBar.Update(msg)
	return m, cmd
}
