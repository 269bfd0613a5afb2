package timeline

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/logger"
	"github.com/killallgit/entropy/pkg/reasoning"
	"github.com/killallgit/entropy/pkg/tui/theme"
)

// EmptyMessage is shown while a session has no events
const EmptyMessage = "Agent is waiting for instructions..."

const maxResultRunes = 400

type Options struct {
	Width         int
	ShowReasoning bool
	Markdown      bool
	Color         bool
}

// Renderer renders timeline entries. The markdown renderer is built once per width.
type Renderer struct {
	opts     Options
	markdown *glamour.TermRenderer

	message   lipgloss.Style
	muted     lipgloss.Style
	argsBox   lipgloss.Style
	reasoning lipgloss.Style
	answer    lipgloss.Style
}

func NewRenderer(opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = 80
	}
	r := &Renderer{
		opts:    opts,
		message: lipgloss.NewStyle().Foreground(theme.ColorBase05),
		muted:   lipgloss.NewStyle().Foreground(theme.ColorMuted),
		argsBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(theme.ColorBorder).
			PaddingLeft(1),
		reasoning: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBase03).
			Foreground(theme.ColorGray).
			Italic(true).
			Padding(0, 1),
		answer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBorder).
			Padding(0, 1),
	}
	if opts.Markdown {
		r.markdown = newMarkdownRenderer(opts)
	}
	return r
}

func newMarkdownRenderer(opts Options) *glamour.TermRenderer {
	style := "notty"
	if opts.Color {
		style = "dark"
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(contentWidth(opts.Width)-4),
	)
	if err != nil {
		logger.WithComponent("timeline").Warn("markdown renderer unavailable", "error", err)
		return nil
	}
	return md
}

// Options returns the options the renderer was built with
func (r *Renderer) Options() Options {
	return r.opts
}

// Render renders a single entry
func (r *Renderer) Render(ev api.AgentEvent) string {
	v := Affordance(ev)
	width := contentWidth(r.opts.Width)

	header := lipgloss.NewStyle().Foreground(v.Color).Bold(true).Render(v.Icon + " " + v.Title)
	lines := []string{header}

	if ev.Status == api.StatusComplete {
		lines = append(lines, r.renderFinal(ev.Message, width)...)
		return strings.Join(lines, "\n")
	}

	if ev.Message != "" {
		lines = append(lines, indent(r.message.Width(width).Render(ev.Message)))
	}
	if args := FormatArgs(ev.Args, r.opts.Color); args != "" {
		lines = append(lines, indent(r.argsBox.Render(args)))
	}
	if ev.Status == api.StatusSuccess {
		if res := FormatResult(ev.Result, maxResultRunes); res != "" {
			lines = append(lines, indent(r.muted.Width(width).Render("→ "+res)))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderAll renders every event separated by blank lines, or the empty state
func (r *Renderer) RenderAll(events []api.AgentEvent) string {
	if len(events) == 0 {
		return r.muted.Italic(true).Render(EmptyMessage)
	}
	entries := make([]string, 0, len(events))
	for _, ev := range events {
		entries = append(entries, r.Render(ev))
	}
	return strings.Join(entries, "\n\n")
}

func (r *Renderer) renderFinal(message string, width int) []string {
	parsed := reasoning.Split(message)
	var lines []string

	if parsed.HasReasoning {
		if r.opts.ShowReasoning {
			lines = append(lines, indent(r.muted.Render("▾ Reasoning")))
			lines = append(lines, indent(r.reasoning.Width(width).Render(parsed.Reasoning)))
		} else {
			lines = append(lines, indent(r.muted.Render(fmt.Sprintf("▸ Reasoning (%d lines)", parsed.LineCount()))))
		}
	}

	if parsed.Answer != "" {
		lines = append(lines, indent(r.answer.Width(width).Render(r.renderAnswer(parsed.Answer))))
	}
	return lines
}

func (r *Renderer) renderAnswer(answer string) string {
	if r.markdown == nil {
		return answer
	}
	out, err := r.markdown.Render(answer)
	if err != nil {
		logger.WithComponent("timeline").Debug("markdown render failed", "error", err)
		return answer
	}
	return strings.Trim(out, "\n")
}

func contentWidth(width int) int {
	if width < 24 {
		return 20
	}
	return width - 4
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
