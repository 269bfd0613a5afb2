package api

import (
	"encoding/json"
	"errors"
	"strings"
)

// Role identifies the author of a Message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
	RoleTool      Role = "tool"
)

// Message is one turn of the conversation history sent with every run
type Message struct {
	Role       Role   `json:"role"`
	Content    string `json:"content"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: strings.TrimSpace(content)}
}

func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// Status tags an AgentEvent
type Status string

const (
	StatusInfo        Status = "info"
	StatusThinking    Status = "thinking"
	StatusExecuting   Status = "executing"
	StatusSuccess     Status = "success"
	StatusError       Status = "error"
	StatusComplete    Status = "complete"
	StatusUserMessage Status = "user_message"
)

// IsTerminal reports whether the status ends a run
func (s Status) IsTerminal() bool {
	return s == StatusComplete || s == StatusError
}

// Known reports whether s is one of the statuses the agent emits
func (s Status) Known() bool {
	switch s {
	case StatusInfo, StatusThinking, StatusExecuting, StatusSuccess,
		StatusError, StatusComplete, StatusUserMessage:
		return true
	}
	return false
}

// AgentEvent is one unit of progress reported by the remote agent
type AgentEvent struct {
	Status  Status         `json:"status"`
	Message string         `json:"message"`
	Tool    string         `json:"tool,omitempty"`
	Args    map[string]any `json:"args,omitempty"`
	Result  any            `json:"result,omitempty"`
}

// ResultString returns the result when the agent sent it as a JSON string
func (e AgentEvent) ResultString() (string, bool) {
	s, ok := e.Result.(string)
	return s, ok
}

func NewUserMessageEvent(prompt string) AgentEvent {
	return AgentEvent{Status: StatusUserMessage, Message: strings.TrimSpace(prompt)}
}

func NewErrorEvent(message string) AgentEvent {
	return AgentEvent{Status: StatusError, Message: message}
}

// UploadResult is the backend's answer to a file upload
type UploadResult struct {
	Filename   string `json:"filename"`
	StoredName string `json:"stored_name"`
	URI        string `json:"uri"`
	Message    string `json:"message"`
}

// RunRequest is the body of a stream request
type RunRequest struct {
	FileURI           string         `json:"file_uri"`
	Messages          []Message      `json:"messages"`
	TemplateID        string         `json:"template_id,omitempty"`
	TemplateVariables map[string]any `json:"template_variables,omitempty"`
}

var errMissingStatus = errors.New("event has no status")

// decodeEvent parses one frame payload
func decodeEvent(payload string) (AgentEvent, error) {
	var ev AgentEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return AgentEvent{}, err
	}
	if ev.Status == "" {
		return AgentEvent{}, errMissingStatus
	}
	return ev, nil
}
