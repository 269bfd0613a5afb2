package timeline

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/tui/theme"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestAffordance(t *testing.T) {
	tests := []struct {
		name  string
		event api.AgentEvent
		icon  string
		color lipgloss.Color
		title string
	}{
		{"thinking", api.AgentEvent{Status: api.StatusThinking}, "🧠", theme.ColorPurple, "Thinking"},
		{"inspect", api.AgentEvent{Status: api.StatusExecuting, Tool: "inspect_dataset"}, "🔍", theme.ColorBlue, "Running inspect_dataset"},
		{"sql", api.AgentEvent{Status: api.StatusExecuting, Tool: "run_sql_query"}, "🗄", theme.ColorBlue, "Running run_sql_query"},
		{"clean", api.AgentEvent{Status: api.StatusExecuting, Tool: "clean_dataset"}, "🪄", theme.ColorBlue, "Running clean_dataset"},
		{"other tool", api.AgentEvent{Status: api.StatusExecuting, Tool: "profile"}, "⏳", theme.ColorBlue, "Running profile"},
		{"success", api.AgentEvent{Status: api.StatusSuccess}, "✔", theme.ColorGreen, "Success"},
		{"error", api.AgentEvent{Status: api.StatusError}, "✖", theme.ColorRed, "Error"},
		{"info", api.AgentEvent{Status: api.StatusInfo}, "ℹ", theme.ColorCyan, "Info"},
		{"complete", api.AgentEvent{Status: api.StatusComplete}, "★", theme.ColorGray, "Complete"},
		{"user", api.AgentEvent{Status: api.StatusUserMessage}, "›", theme.ColorYellow, "You"},
		{"unknown", api.AgentEvent{Status: "heartbeat"}, "ℹ", theme.ColorGray, "Heartbeat"},
		{"unknown snake case", api.AgentEvent{Status: "tool_progress"}, "ℹ", theme.ColorGray, "Tool progress"},
		{"unknown multibyte", api.AgentEvent{Status: "état"}, "ℹ", theme.ColorGray, "État"},
		{"empty", api.AgentEvent{}, "ℹ", theme.ColorGray, "Event"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Affordance(tt.event)
			assert.Equal(t, tt.icon, v.Icon)
			assert.Equal(t, tt.color, v.Color)
			assert.Equal(t, tt.title, v.Title)
		})
	}
}

func TestFormatArgs(t *testing.T) {
	args := map[string]any{"uri": "s3://uploads/a.csv", "limit": 10, "columns": []any{"b", "a"}}

	assert.Equal(t, "{\n  \"columns\": [\n    \"b\",\n    \"a\"\n  ],\n  \"limit\": 10,\n  \"uri\": \"s3://uploads/a.csv\"\n}", FormatArgs(args, false))
	assert.Empty(t, FormatArgs(nil, false))

	colored := FormatArgs(args, true)
	assert.Contains(t, colored, "\x1b[")
	assert.Contains(t, colored, "s3://uploads/a.csv")
}

func TestFormatResult(t *testing.T) {
	assert.Equal(t, "s3://uploads/cleaned_a.csv", FormatResult("s3://uploads/cleaned_a.csv", 0))
	assert.Equal(t, `{"rows":3}`, FormatResult(map[string]any{"rows": 3}, 0))
	assert.Equal(t, "[1,2]", FormatResult([]any{1, 2}, 0))
	assert.Equal(t, "", FormatResult(nil, 10))
	assert.Equal(t, "héllo…", FormatResult("héllo world", 5))
}

func TestRenderEntries(t *testing.T) {
	r := NewRenderer(Options{Width: 80})

	out := r.Render(api.AgentEvent{
		Status:  api.StatusExecuting,
		Message: "Running tool clean_dataset...",
		Tool:    "clean_dataset",
		Args:    map[string]any{"uri": "s3://uploads/a.csv"},
	})
	assert.Contains(t, out, "🪄 Running clean_dataset")
	assert.Contains(t, out, "Running tool clean_dataset...")
	assert.Contains(t, out, `"uri": "s3://uploads/a.csv"`)

	out = r.Render(api.AgentEvent{Status: api.StatusSuccess, Message: "Tool clean_dataset completed.", Result: "s3://uploads/cleaned_a.csv"})
	assert.Contains(t, out, "✔ Success")
	assert.Contains(t, out, "→ s3://uploads/cleaned_a.csv")

	out = r.Render(api.NewUserMessageEvent("clean the dates"))
	assert.Contains(t, out, "› You")
	assert.Contains(t, out, "clean the dates")
}

func TestRenderFinalAnswerCollapsesReasoning(t *testing.T) {
	ev := api.AgentEvent{Status: api.StatusComplete, Message: "<think>step one\nstep two</think>All clean."}

	collapsed := NewRenderer(Options{Width: 80}).Render(ev)
	assert.Contains(t, collapsed, "★ Complete")
	assert.Contains(t, collapsed, "▸ Reasoning (2 lines)")
	assert.Contains(t, collapsed, "All clean.")
	assert.NotContains(t, collapsed, "step one")
	assert.NotContains(t, collapsed, "<think>")

	expanded := NewRenderer(Options{Width: 80, ShowReasoning: true}).Render(ev)
	assert.Contains(t, expanded, "▾ Reasoning")
	assert.Contains(t, expanded, "step one")
	assert.Contains(t, expanded, "All clean.")
}

func TestRenderFinalAnswerMarkdown(t *testing.T) {
	ev := api.AgentEvent{Status: api.StatusComplete, Message: "<think>x</think>## Cleaning summary\n\n- Dropped **37** rows"}

	out := NewRenderer(Options{Width: 80, Markdown: true}).Render(ev)

	assert.Contains(t, out, "Cleaning summary")
	assert.Contains(t, out, "Dropped")
	assert.NotContains(t, out, "<think>")
}

func TestRenderAll(t *testing.T) {
	r := NewRenderer(Options{Width: 60})

	assert.Equal(t, EmptyMessage, r.RenderAll(nil))

	out := r.RenderAll([]api.AgentEvent{
		{Status: api.StatusInfo, Message: "Connecting to Data Refinery..."},
		{Status: api.StatusThinking, Message: "Analyzing prompt and selecting tool..."},
	})
	assert.Equal(t, 1, strings.Count(out, "\n\n"))
	assert.Less(t, strings.Index(out, "Connecting"), strings.Index(out, "Analyzing"))
}
