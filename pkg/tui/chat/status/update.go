package status

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/entropy/pkg/process"
)

func (m StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.isActive {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case StartRunMsg:
		wasActive := m.isActive
		m.isActive = true
		m.startTime = time.Now()
		m.timer = 0
		m.setState(msg.State)
		if msg.State == "" {
			m.setState(process.StateRunning)
		}
		if wasActive {
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, tickEvery())

	case SetProcessStateMsg:
		m.setState(msg.State)
		return m, nil

	case StopRunMsg:
		m.isActive = false
		m.timer = 0
		m.setState(process.StateIdle)
		return m, nil

	case UpdateEventsMsg:
		m.events = msg.Count
		return m, nil

	case NoticeMsg:
		m.notice = msg.Text
		m.noticeError = msg.IsError
		return m, nil

	case TickMsg:
		if m.isActive {
			m.timer = time.Since(m.startTime)
			return m, tickEvery()
		}
		return m, nil
	}

	return m, nil
}

func (m *StatusModel) setState(s process.State) {
	m.processState = s
	m.icon = s.GetIcon()
	m.status = s.GetDisplayName()
}

// tickEvery returns a command that sends a tick message every second
func tickEvery() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
