package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/killallgit/entropy/pkg/logger"
	"github.com/killallgit/entropy/pkg/sse"
)

// StreamHandler receives the events of one run in arrival order.
// OnComplete and OnError are mutually exclusive and called at most once.
type StreamHandler interface {
	OnEvent(event AgentEvent)
	OnComplete(answer string)
	OnError(err error)
}

// HandlerFuncs adapts plain functions to StreamHandler; nil fields are skipped
type HandlerFuncs struct {
	Event    func(AgentEvent)
	Complete func(string)
	Error    func(error)
}

func (h HandlerFuncs) OnEvent(event AgentEvent) {
	if h.Event != nil {
		h.Event(event)
	}
}

func (h HandlerFuncs) OnComplete(answer string) {
	if h.Complete != nil {
		h.Complete(answer)
	}
}

func (h HandlerFuncs) OnError(err error) {
	if h.Error != nil {
		h.Error(err)
	}
}

// EventDecoder turns raw body chunks into AgentEvents. Malformed frames are dropped.
type EventDecoder struct {
	parser  *sse.Parser
	dropped int
}

func NewEventDecoder() *EventDecoder {
	return &EventDecoder{parser: sse.NewParser()}
}

// Decode feeds one chunk and returns the events it completed
func (d *EventDecoder) Decode(chunk []byte) []AgentEvent {
	payloads := d.parser.Write(chunk)
	if len(payloads) == 0 {
		return nil
	}

	events := make([]AgentEvent, 0, len(payloads))
	for _, payload := range payloads {
		ev, err := decodeEvent(payload)
		if err != nil {
			d.dropped++
			logger.WithComponent("stream").Warn("failed to parse SSE event", "error", err, "payload", truncate(payload, 200))
			continue
		}
		events = append(events, ev)
	}
	return events
}

// Dropped returns how many frames failed to parse
func (d *EventDecoder) Dropped() int {
	return d.dropped
}

// Pending returns the size of the buffered incomplete frame
func (d *EventDecoder) Pending() int {
	return d.parser.Pending()
}

// RunAgent opens the event stream for req and feeds handler until a terminal
// event, a transport failure, or cancellation of ctx.
//
// Transport failures are reported to the handler as a synthetic error event
// followed by OnError, and returned wrapped in ErrTransport. Cancellation
// returns nil without calling OnError. An agent error event returns an *AgentError.
func (c *Client) RunAgent(ctx context.Context, req RunRequest, handler StreamHandler) error {
	log := logger.WithComponent("stream")

	fail := func(err error) error {
		if ctx.Err() != nil {
			log.Info("run cancelled", "reason", ctx.Err())
			return nil
		}
		wrapped := fmt.Errorf("%w: %v", ErrTransport, err)
		log.Error("run failed", "error", err)
		handler.OnEvent(NewErrorEvent(err.Error()))
		handler.OnError(wrapped)
		return wrapped
	}

	if req.Messages == nil {
		req.Messages = []Message{}
	}
	body, err := json.Marshal(req)
	if err != nil {
		return fail(fmt.Errorf("failed to marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/agent/run"), bytes.NewReader(body))
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	log.Debug("opening stream", "file_uri", req.FileURI, "messages", len(req.Messages))

	resp, err := c.streamClient.Do(httpReq)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail := readErrorDetail(resp.Body)
		if detail != "" {
			return fail(fmt.Errorf("agent run failed with status %d: %s", resp.StatusCode, detail))
		}
		return fail(fmt.Errorf("agent run failed with status %d", resp.StatusCode))
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return fail(errors.New("no response body"))
	}

	decoder := NewEventDecoder()
	buf := make([]byte, 4096)
	received := 0

	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			for _, ev := range decoder.Decode(buf[:n]) {
				if ctx.Err() != nil {
					log.Info("run cancelled", "events", received)
					return nil
				}
				received++
				handler.OnEvent(ev)

				switch ev.Status {
				case StatusComplete:
					log.Info("run complete", "events", received, "dropped", decoder.Dropped())
					handler.OnComplete(ev.Message)
					return nil
				case StatusError:
					log.Warn("agent reported error", "message", ev.Message)
					agentErr := &AgentError{Message: ev.Message}
					handler.OnError(agentErr)
					return agentErr
				}
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				if decoder.Pending() > 0 {
					log.Debug("discarding partial frame at end of stream", "bytes", decoder.Pending())
				}
				return fail(errors.New("stream ended before the agent finished"))
			}
			return fail(readErr)
		}
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
