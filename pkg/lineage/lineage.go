// Package lineage derives the data transformation chain of a session from
// its agent events: the uploaded file, each tool run, and every artifact a
// tool produced, linked left to right in the order they happened.
package lineage

import (
	"fmt"
	"strings"

	"github.com/killallgit/entropy/pkg/api"
)

// Kind of a lineage node
type Kind string

const (
	KindInput    Kind = "input"
	KindTool     Kind = "tool"
	KindArtifact Kind = "artifact"
)

const (
	inputX       = 50
	firstX       = 300
	toolStep     = 200
	artifactStep = 250
	rowY         = 50

	// UnknownTool labels executing events that carry no tool name
	UnknownTool = "Unknown Tool"
)

// artifactMarkers identify tool results that name a produced file
var artifactMarkers = []string{"cleaned_", "result_"}

type Node struct {
	ID    string
	Kind  Kind
	Label string
	X     int
	Y     int
}

// Edge links Source to Target. Active edges lead into a tool run.
type Edge struct {
	ID     string
	Source string
	Target string
	Active bool
}

type Diagram struct {
	Nodes []Node
	Edges []Edge
}

// Build projects events onto a diagram rooted at a node for inputName.
// It is pure; callers rebuild from the full event list after every change.
func Build(events []api.AgentEvent, inputName string) Diagram {
	d := Diagram{
		Nodes: []Node{{ID: "input", Kind: KindInput, Label: inputName, X: inputX, Y: rowY}},
	}

	tail := "input"
	x := firstX

	link := func(target string, active bool) {
		d.Edges = append(d.Edges, Edge{
			ID:     fmt.Sprintf("edge-%s-%s", tail, target),
			Source: tail,
			Target: target,
			Active: active,
		})
		tail = target
	}

	for i, ev := range events {
		switch ev.Status {
		case api.StatusExecuting:
			id := fmt.Sprintf("tool-%d", i)
			label := ev.Tool
			if label == "" {
				label = UnknownTool
			}
			d.Nodes = append(d.Nodes, Node{ID: id, Kind: KindTool, Label: label, X: x, Y: rowY})
			link(id, true)
			x += toolStep

		case api.StatusSuccess:
			result, ok := ev.ResultString()
			if !ok || !isArtifact(result) {
				continue
			}
			id := fmt.Sprintf("result-%d", i)
			d.Nodes = append(d.Nodes, Node{ID: id, Kind: KindArtifact, Label: artifactLabel(result), X: x, Y: rowY})
			link(id, false)
			x += artifactStep
		}
	}

	return d
}

// Empty reports whether nothing beyond the input node was derived
func (d Diagram) Empty() bool {
	return len(d.Nodes) <= 1
}

// Tail returns the most recent node
func (d Diagram) Tail() Node {
	if len(d.Nodes) == 0 {
		return Node{}
	}
	return d.Nodes[len(d.Nodes)-1]
}

// Node looks up a node by id
func (d Diagram) Node(id string) (Node, bool) {
	for _, n := range d.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Artifacts returns the artifact nodes in order
func (d Diagram) Artifacts() []Node {
	var out []Node
	for _, n := range d.Nodes {
		if n.Kind == KindArtifact {
			out = append(out, n)
		}
	}
	return out
}

func isArtifact(result string) bool {
	for _, m := range artifactMarkers {
		if strings.Contains(result, m) {
			return true
		}
	}
	return false
}

func artifactLabel(result string) string {
	label := result[strings.LastIndex(result, "/")+1:]
	if label == "" {
		return "Result"
	}
	return label
}
