package process

import "github.com/killallgit/entropy/pkg/api"

// State represents what the client is currently doing
type State string

const (
	// StateIdle indicates no upload or run in progress
	StateIdle State = ""

	// StateUploading indicates a dataset is being sent to the backend
	StateUploading State = "uploading"

	// StateRunning indicates the agent stream is open
	StateRunning State = "running"

	// StateThinking indicates the agent last reported it is reasoning
	StateThinking State = "thinking"

	// StateToolUse indicates the agent last reported a tool execution
	StateToolUse State = "tool"

	// StateStopping indicates the user asked to abort the run
	StateStopping State = "stopping"
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// Busy reports whether new prompts must be rejected
func (s State) Busy() bool {
	return s != StateIdle
}

// GetIcon returns the appropriate icon for a given process state
func (s State) GetIcon() string {
	switch s {
	case StateUploading:
		return "↑"
	case StateRunning:
		return "↓"
	case StateToolUse:
		return "🔨"
	case StateThinking:
		return "🤔"
	case StateStopping:
		return "■"
	default:
		return ""
	}
}

// GetDisplayName returns a human-readable name for the state
func (s State) GetDisplayName() string {
	switch s {
	case StateUploading:
		return "Uploading"
	case StateRunning:
		return "Running"
	case StateThinking:
		return "Thinking"
	case StateToolUse:
		return "Using tools"
	case StateStopping:
		return "Stopping"
	case StateIdle:
		return "Idle"
	default:
		return ""
	}
}

// FromEvent maps an agent event onto the state shown while a run is open.
// Terminal events return StateIdle.
func FromEvent(ev api.AgentEvent) State {
	switch ev.Status {
	case api.StatusThinking:
		return StateThinking
	case api.StatusExecuting:
		return StateToolUse
	case api.StatusComplete, api.StatusError:
		return StateIdle
	default:
		return StateRunning
	}
}
