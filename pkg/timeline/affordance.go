// Package timeline renders agent events as the entries of a session timeline.
package timeline

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/tui/theme"
)

// Visual is the icon, color and title of one event
type Visual struct {
	Icon  string
	Color lipgloss.Color
	Title string
}

var toolIcons = map[string]string{
	"inspect_dataset": "🔍",
	"run_sql_query":   "🗄",
	"clean_dataset":   "🪄",
}

// ToolIcon returns the icon for a tool, or a generic one
func ToolIcon(tool string) string {
	if icon, ok := toolIcons[tool]; ok {
		return icon
	}
	return "⏳"
}

// Affordance maps an event onto its visual. Unknown statuses get a neutral one.
func Affordance(ev api.AgentEvent) Visual {
	if !ev.Status.Known() {
		return Visual{Icon: "ℹ", Color: theme.ColorGray, Title: titleCase(string(ev.Status))}
	}

	switch ev.Status {
	case api.StatusThinking:
		return Visual{Icon: "🧠", Color: theme.ColorPurple, Title: "Thinking"}
	case api.StatusExecuting:
		tool := ev.Tool
		if tool == "" {
			tool = "tool"
		}
		return Visual{Icon: ToolIcon(ev.Tool), Color: theme.ColorBlue, Title: "Running " + tool}
	case api.StatusSuccess:
		return Visual{Icon: "✔", Color: theme.ColorGreen, Title: "Success"}
	case api.StatusError:
		return Visual{Icon: "✖", Color: theme.ColorRed, Title: "Error"}
	case api.StatusInfo:
		return Visual{Icon: "ℹ", Color: theme.ColorCyan, Title: "Info"}
	case api.StatusComplete:
		return Visual{Icon: "★", Color: theme.ColorGray, Title: "Complete"}
	default:
		return Visual{Icon: "›", Color: theme.ColorYellow, Title: "You"}
	}
}

func titleCase(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return "Event"
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
