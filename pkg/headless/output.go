package headless

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/lineage"
	"github.com/killallgit/entropy/pkg/logger"
	"github.com/killallgit/entropy/pkg/reasoning"
	"github.com/killallgit/entropy/pkg/timeline"
)

// LineageFormat selects how the lineage is printed after a run
type LineageFormat string

const (
	LineageText    LineageFormat = "text"
	LineageMermaid LineageFormat = "mermaid"
	LineageDOT     LineageFormat = "dot"
	LineageNone    LineageFormat = "none"
)

// LineageFormats lists the accepted values, for flag help
var LineageFormats = []LineageFormat{LineageText, LineageMermaid, LineageDOT, LineageNone}

func (f LineageFormat) Valid() bool {
	for _, known := range LineageFormats {
		if f == known {
			return true
		}
	}
	return false
}

const (
	maxResultWidth = 500
	lineageWidth   = 100
)

// Output handles console output for headless mode
type Output struct {
	w     io.Writer
	color bool
}

// NewOutput creates a new output handler
func NewOutput(w io.Writer, color bool) *Output {
	return &Output{w: w, color: color}
}

// Event prints one progress line, then the tool details when present
func (o *Output) Event(ev api.AgentEvent) {
	fmt.Fprintf(o.w, "[%s] %s\n", ev.Status, ev.Message)
	if ev.Tool != "" {
		fmt.Fprintf(o.w, "  tool: %s\n", ev.Tool)
	}
	if len(ev.Args) > 0 {
		args := timeline.FormatArgs(ev.Args, o.color)
		fmt.Fprintf(o.w, "  args: %s\n", strings.ReplaceAll(args, "\n", "\n  "))
	}
	if ev.Result != nil {
		fmt.Fprintf(o.w, "  result: %s\n", timeline.FormatResult(ev.Result, maxResultWidth))
	}
}

// Uploaded prints the stored location of the dataset
func (o *Output) Uploaded(result *api.UploadResult, size int64) {
	if size > 0 {
		fmt.Fprintf(o.w, "Uploaded %s (%s) → %s\n", result.Filename, humanize.Bytes(uint64(size)), result.URI)
		return
	}
	fmt.Fprintf(o.w, "Uploaded %s → %s\n", result.Filename, result.URI)
}

// Answer prints the final answer, preceded by the reasoning when asked
func (o *Output) Answer(raw string, showReasoning bool) {
	parsed := reasoning.Split(raw)

	fmt.Fprintln(o.w)
	if parsed.HasReasoning {
		if showReasoning {
			fmt.Fprintln(o.w, "Reasoning:")
			fmt.Fprintln(o.w, parsed.Reasoning)
			fmt.Fprintln(o.w)
		} else {
			fmt.Fprintf(o.w, "(reasoning hidden, %d lines; use --show-reasoning)\n\n", parsed.LineCount())
		}
	}
	fmt.Fprintln(o.w, parsed.Answer)
}

// Lineage prints the diagram in the chosen format
func (o *Output) Lineage(d lineage.Diagram, format LineageFormat) {
	if format == LineageNone || d.Empty() {
		return
	}

	fmt.Fprintln(o.w)
	switch format {
	case LineageMermaid:
		fmt.Fprint(o.w, lineage.RenderMermaid(d))
	case LineageDOT:
		fmt.Fprint(o.w, lineage.RenderDOT(d))
	default:
		fmt.Fprintln(o.w, "Data Transformation Map")
		fmt.Fprintln(o.w, lineage.RenderText(d, lineageWidth))
	}
}

// Summary prints the closing counter line
func (o *Output) Summary(events int, elapsed time.Duration) {
	fmt.Fprintf(o.w, "\n[Events: %d, Duration: %s]\n", events, elapsed.Round(time.Millisecond))
}

// Error prints an error message using the logger
func (o *Output) Error(msg string) {
	logger.Error(msg)
}
