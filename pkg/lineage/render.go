package lineage

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/entropy/pkg/tui/theme"
	"github.com/mattn/go-runewidth"
)

const (
	maxLabelWidth = 28
	arrow         = " ──▶ "
	activeArrow   = " ━━▶ "
)

var (
	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.ColorGray).
			Padding(0, 1)

	toolStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.ColorBlue).
			Foreground(theme.ColorBlue).
			Padding(0, 1)

	artifactStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(theme.ColorGreen).
			Foreground(theme.ColorGreen).
			Padding(0, 1)

	arrowStyle = lipgloss.NewStyle().Foreground(theme.ColorMuted)
)

func styleFor(k Kind) lipgloss.Style {
	switch k {
	case KindTool:
		return toolStyle
	case KindArtifact:
		return artifactStyle
	default:
		return inputStyle
	}
}

// RenderText draws the chain as boxes joined by arrows, starting a new row
// whenever the next box would not fit in width. width <= 0 means no limit.
func RenderText(d Diagram, width int) string {
	if len(d.Nodes) == 0 {
		return ""
	}

	active := make(map[string]bool, len(d.Edges))
	for _, e := range d.Edges {
		active[e.Target] = e.Active
	}

	var rows []string
	var row []string
	rowWidth := 0

	for i, n := range d.Nodes {
		box := styleFor(n.Kind).Render(runewidth.Truncate(n.Label, maxLabelWidth, "…"))

		var piece []string
		if i > 0 {
			a := arrow
			if active[n.ID] {
				a = activeArrow
			}
			piece = append(piece, arrowStyle.Render(a))
		}
		piece = append(piece, box)
		w := 0
		for _, p := range piece {
			w += lipgloss.Width(p)
		}

		if width > 0 && rowWidth > 0 && rowWidth+w > width {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, row...))
			row = nil
			rowWidth = 0
			// continuation rows start with the arrow so the chain stays readable
		}
		row = append(row, piece...)
		rowWidth += w
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Center, row...))

	return strings.Join(rows, "\n")
}

// RenderMermaid returns a Mermaid flowchart of the diagram
func RenderMermaid(d Diagram) string {
	var b strings.Builder
	b.WriteString("flowchart LR\n")
	for _, n := range d.Nodes {
		label := mermaidEscape(n.Label)
		id := mermaidID(n.ID)
		switch n.Kind {
		case KindTool:
			fmt.Fprintf(&b, "    %s([\"%s\"])\n", id, label)
		case KindArtifact:
			fmt.Fprintf(&b, "    %s[/\"%s\"/]\n", id, label)
		default:
			fmt.Fprintf(&b, "    %s[\"%s\"]\n", id, label)
		}
	}
	for _, e := range d.Edges {
		link := "-->"
		if e.Active {
			link = "==>"
		}
		fmt.Fprintf(&b, "    %s %s %s\n", mermaidID(e.Source), link, mermaidID(e.Target))
	}
	return b.String()
}

// RenderDOT returns a Graphviz digraph of the diagram
func RenderDOT(d Diagram) string {
	var b strings.Builder
	b.WriteString("digraph lineage {\n")
	b.WriteString("    rankdir=LR;\n")
	b.WriteString("    node [fontname=\"Helvetica\"];\n")
	for _, n := range d.Nodes {
		shape := "box"
		switch n.Kind {
		case KindTool:
			shape = "ellipse"
		case KindArtifact:
			shape = "note"
		}
		fmt.Fprintf(&b, "    %s [label=%s, shape=%s];\n", dotQuote(n.ID), dotQuote(n.Label), shape)
	}
	for _, e := range d.Edges {
		attrs := ""
		if e.Active {
			attrs = " [style=bold]"
		}
		fmt.Fprintf(&b, "    %s -> %s%s;\n", dotQuote(e.Source), dotQuote(e.Target), attrs)
	}
	b.WriteString("}\n")
	return b.String()
}

func mermaidID(id string) string {
	return strings.ReplaceAll(id, "-", "_")
}

func mermaidEscape(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

func dotQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
