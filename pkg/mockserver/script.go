package mockserver

import (
	"encoding/json"
	"path"
	"strings"

	"github.com/killallgit/entropy/pkg/api"
)

// Frame is one entry of a script. Raw, when set, is written verbatim
// instead of the encoded Event, which lets tests inject malformed data.
type Frame struct {
	Event api.AgentEvent
	Raw   string
}

// Encode returns the bytes as they go on the wire
func (f Frame) Encode() []byte {
	if f.Raw != "" {
		return []byte(f.Raw)
	}
	payload, _ := json.Marshal(f.Event)
	return []byte("data: " + string(payload) + "\n\n")
}

// Script produces the frames answering one run request
type Script func(req api.RunRequest) []Frame

// Events wraps a fixed list of events as a Script
func Events(events ...api.AgentEvent) Script {
	return func(api.RunRequest) []Frame {
		frames := make([]Frame, 0, len(events))
		for _, ev := range events {
			frames = append(frames, Frame{Event: ev})
		}
		return frames
	}
}

// DefaultScript walks through what the analysis agent does for a typical
// cleaning request: tool discovery, inspection, cleaning and a final answer.
func DefaultScript(req api.RunRequest) []Frame {
	stored := path.Base(strings.TrimPrefix(req.FileURI, "s3://"))
	cleaned := "s3://uploads/cleaned_" + stored

	prompt := ""
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == api.RoleUser {
			prompt = req.Messages[i].Content
			break
		}
	}

	events := []api.AgentEvent{
		{Status: api.StatusInfo, Message: "Connecting to Data Refinery..."},
		{Status: api.StatusInfo, Message: "Discovered 3 tools."},
		{Status: api.StatusThinking, Message: "Analyzing prompt and selecting tool..."},
		{
			Status:  api.StatusExecuting,
			Message: "Running tool inspect_dataset...",
			Tool:    "inspect_dataset",
			Args:    map[string]any{"uri": req.FileURI},
		},
		{
			Status:  api.StatusSuccess,
			Message: "Tool inspect_dataset completed.",
			Result:  "rows: 1200, columns: 6, null values: 37 (order_date)",
		},
		{Status: api.StatusThinking, Message: "Analyzing prompt and selecting tool..."},
		{
			Status:  api.StatusExecuting,
			Message: "Running tool clean_dataset...",
			Tool:    "clean_dataset",
			Args: map[string]any{
				"uri":        req.FileURI,
				"operations": []any{"drop_nulls", "normalize_dates"},
			},
		},
		{
			Status:  api.StatusSuccess,
			Message: "Tool clean_dataset completed.",
			Result:  cleaned,
		},
		{Status: api.StatusThinking, Message: "Analyzing prompt and selecting tool..."},
		{
			Status: api.StatusComplete,
			Message: "<think>\nThe user asked: " + prompt + "\nInspection showed 37 nulls in order_date.\n" +
				"Dropping them and normalizing the dates is the safest cleaning.\n</think>\n\n" +
				"## Cleaning summary\n\n" +
				"- Dropped **37** rows with a missing `order_date`\n" +
				"- Normalized dates to ISO 8601\n\n" +
				"The cleaned dataset is available at `" + cleaned + "`.",
		},
	}

	return Events(events...)(req)
}
