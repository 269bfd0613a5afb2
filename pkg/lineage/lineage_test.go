package lineage

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/entropy/pkg/api"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executing(tool string) api.AgentEvent {
	return api.AgentEvent{Status: api.StatusExecuting, Message: "Running tool " + tool + "...", Tool: tool}
}

func success(result any) api.AgentEvent {
	return api.AgentEvent{Status: api.StatusSuccess, Message: "done", Result: result}
}

func TestBuildChain(t *testing.T) {
	events := []api.AgentEvent{
		executing("A"),
		success("s3://bucket/result_x.csv"),
		executing("B"),
	}

	d := Build(events, "in.csv")

	require.Len(t, d.Nodes, 4)
	assert.Equal(t, Node{ID: "input", Kind: KindInput, Label: "in.csv", X: 50, Y: 50}, d.Nodes[0])
	assert.Equal(t, Node{ID: "tool-0", Kind: KindTool, Label: "A", X: 300, Y: 50}, d.Nodes[1])
	assert.Equal(t, Node{ID: "result-1", Kind: KindArtifact, Label: "result_x.csv", X: 500, Y: 50}, d.Nodes[2])
	assert.Equal(t, Node{ID: "tool-2", Kind: KindTool, Label: "B", X: 750, Y: 50}, d.Nodes[3])

	assert.Equal(t, []Edge{
		{ID: "edge-input-tool-0", Source: "input", Target: "tool-0", Active: true},
		{ID: "edge-tool-0-result-1", Source: "tool-0", Target: "result-1"},
		{ID: "edge-result-1-tool-2", Source: "result-1", Target: "tool-2", Active: true},
	}, d.Edges)
	assert.Equal(t, "tool-2", d.Tail().ID)
}

func TestBuildIgnoresOtherResults(t *testing.T) {
	events := []api.AgentEvent{
		{Status: api.StatusInfo, Message: "Connecting to Data Refinery..."},
		executing("inspect_dataset"),
		success("rows: 1200, columns: 6"),
		success(map[string]any{"uri": "s3://b/cleaned_x.csv"}),
		success(""),
		success(nil),
		{Status: api.StatusError, Message: "cleaned_ is not a result"},
	}

	d := Build(events, "in.csv")

	require.Len(t, d.Nodes, 2)
	assert.Empty(t, d.Artifacts())
}

func TestBuildLabels(t *testing.T) {
	events := []api.AgentEvent{
		{Status: api.StatusExecuting},
		success("cleaned_local.csv"),
		success("s3://bucket/result_dir/"),
	}

	d := Build(events, "in.csv")

	require.Len(t, d.Nodes, 4)
	assert.Equal(t, UnknownTool, d.Nodes[1].Label)
	assert.Equal(t, "cleaned_local.csv", d.Nodes[2].Label)
	assert.Equal(t, "Result", d.Nodes[3].Label)
	assert.Len(t, d.Artifacts(), 2)
}

func TestBuildIsPure(t *testing.T) {
	events := []api.AgentEvent{executing("A"), success("cleaned_a.csv")}

	assert.Equal(t, Build(events, "in.csv"), Build(events, "in.csv"))
	assert.True(t, Build(nil, "in.csv").Empty())
	assert.False(t, Build(events, "in.csv").Empty())

	n, ok := Build(events, "in.csv").Node("result-1")
	assert.True(t, ok)
	assert.Equal(t, "cleaned_a.csv", n.Label)
	_, ok = Build(events, "in.csv").Node("missing")
	assert.False(t, ok)
}

func TestRenderText(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	d := Build([]api.AgentEvent{executing("clean_dataset"), success("s3://b/cleaned_in.csv")}, "in.csv")

	out := RenderText(d, 0)
	assert.Contains(t, out, "in.csv")
	assert.Contains(t, out, "clean_dataset")
	assert.Contains(t, out, "cleaned_in.csv")
	assert.Contains(t, out, "▶")
	assert.Equal(t, 3, len(strings.Split(out, "\n")), "one row of boxes")

	narrow := RenderText(d, 20)
	assert.Equal(t, 9, len(strings.Split(narrow, "\n")), "one row per node")
	for _, line := range strings.Split(narrow, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 30)
	}

	assert.Empty(t, RenderText(Diagram{}, 80))
}

func TestRenderTextTruncatesLongLabels(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	d := Build(nil, strings.Repeat("x", 60)+".csv")
	out := RenderText(d, 0)

	assert.Contains(t, out, "…")
	assert.NotContains(t, out, ".csv")
}

func TestRenderMermaid(t *testing.T) {
	d := Build([]api.AgentEvent{executing("A"), success("result_x.csv")}, `in "raw".csv`)

	assert.Equal(t, "flowchart LR\n"+
		"    input[\"in #quot;raw#quot;.csv\"]\n"+
		"    tool_0([\"A\"])\n"+
		"    result_1[/\"result_x.csv\"/]\n"+
		"    input ==> tool_0\n"+
		"    tool_0 --> result_1\n", RenderMermaid(d))
}

func TestRenderDOT(t *testing.T) {
	d := Build([]api.AgentEvent{executing("A"), success("result_x.csv")}, `in "raw".csv`)

	assert.Equal(t, "digraph lineage {\n"+
		"    rankdir=LR;\n"+
		"    node [fontname=\"Helvetica\"];\n"+
		"    \"input\" [label=\"in \\\"raw\\\".csv\", shape=box];\n"+
		"    \"tool-0\" [label=\"A\", shape=ellipse];\n"+
		"    \"result-1\" [label=\"result_x.csv\", shape=note];\n"+
		"    \"input\" -> \"tool-0\" [style=bold];\n"+
		"    \"tool-0\" -> \"result-1\";\n"+
		"}\n", RenderDOT(d))
}
