package status

import (
	"time"

	"github.com/killallgit/entropy/pkg/process"
)

// StartRunMsg indicates a run or upload has started
type StartRunMsg struct {
	State process.State
}

// StopRunMsg indicates the run has ended
type StopRunMsg struct{}

// SetProcessStateMsg sets the current process state and icon
type SetProcessStateMsg struct {
	State process.State
}

// UpdateEventsMsg sets the number of events in the session
type UpdateEventsMsg struct {
	Count int
}

// NoticeMsg shows a message next to the status; an empty Text clears it
type NoticeMsg struct {
	Text    string
	IsError bool
}

// TickMsg updates the timer
type TickMsg time.Time
