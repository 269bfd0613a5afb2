package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/entropy/pkg/session"
)

// waitForEvent blocks on the next message from the run goroutine
func waitForEvent(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// startRun runs prompt on its own goroutine. Session changes reach Update
// through the subscription; the final result is sent on ch.
func startRun(ctx context.Context, runner *session.Runner, prompt string, ch chan<- tea.Msg) {
	go func() {
		result, err := runner.Run(ctx, prompt)
		ch <- runDoneMsg{Result: result, Err: err}
	}()
}

// uploadCmd uploads path and resets the session onto it
func uploadCmd(ctx context.Context, runner *session.Runner, path string) tea.Cmd {
	return func() tea.Msg {
		result, err := runner.Upload(ctx, path)
		return uploadDoneMsg{Result: result, Err: err}
	}
}
