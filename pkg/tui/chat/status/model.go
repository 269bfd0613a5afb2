package status

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/entropy/pkg/process"
	"github.com/killallgit/entropy/pkg/tui/theme"
)

// StatusModel represents the status bar component
type StatusModel struct {
	spinner      spinner.Model
	status       string
	timer        time.Duration
	icon         string
	events       int
	startTime    time.Time
	isActive     bool
	width        int
	processState process.State
	notice       string
	noticeError  bool
}

// NewStatusModel creates a new status bar model
func NewStatusModel() StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorPurple)

	return StatusModel{
		spinner: s,
	}
}

// Active reports whether a run is in progress
func (m StatusModel) Active() bool {
	return m.isActive
}

// State returns the process state shown
func (m StatusModel) State() process.State {
	return m.processState
}
