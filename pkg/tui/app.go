package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/logger"
	"github.com/killallgit/entropy/pkg/session"
	"github.com/killallgit/entropy/pkg/tui/chat"
	"github.com/muesli/termenv"
)

type AppOptions struct {
	Client            *api.Client
	TemplateID        string
	TemplateVariables map[string]any
	ShowReasoning     bool
	Markdown          bool
	Color             bool
}

// StartApp runs the interactive client until the user quits
func StartApp(ctx context.Context, opts AppOptions) error {
	if opts.Client == nil {
		return fmt.Errorf("no backend client configured")
	}
	if !opts.Color {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	s := session.New(nil)
	s.SetTemplate(opts.TemplateID, opts.TemplateVariables)
	runner := session.NewRunner(s, opts.Client)

	model := chat.NewChatModel(ctx, chat.Options{
		Runner:        runner,
		Files:         opts.Client,
		ShowReasoning: opts.ShowReasoning,
		Markdown:      opts.Markdown,
		Color:         opts.Color,
	})

	logger.WithComponent("tui").Info("starting", "backend", opts.Client.BaseURL(), "session", s.ID())

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	runner.Stop()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
