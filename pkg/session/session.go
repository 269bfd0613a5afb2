// Package session holds the state of one analysis session: the uploaded
// dataset, the conversation history and the ordered agent events.
package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/logger"
)

var (
	// ErrBusy is returned when a run is already in progress
	ErrBusy = errors.New("a run is already in progress")
	// ErrNoUpload is returned when a prompt is submitted before a dataset was uploaded
	ErrNoUpload = errors.New("no dataset uploaded")
	// ErrEmptyPrompt is returned for prompts that are empty after trimming
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// ChangeKind tells subscribers what mutated
type ChangeKind int

const (
	ChangeReset ChangeKind = iota
	ChangeSubmitted
	ChangeEvent
	ChangeFinished
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeReset:
		return "reset"
	case ChangeSubmitted:
		return "submitted"
	case ChangeEvent:
		return "event"
	case ChangeFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Change describes one mutation. Event is set for ChangeSubmitted and
// ChangeEvent, Err for a ChangeFinished caused by a failure.
type Change struct {
	Kind  ChangeKind
	Event api.AgentEvent
	Err   error
}

// Session is safe for concurrent use; the stream callbacks arrive on the
// goroutine reading the response body.
type Session struct {
	mu           sync.RWMutex
	id           string
	upload       *api.UploadResult
	events       []api.AgentEvent
	messages     []api.Message
	busy         bool
	templateID   string
	templateVars map[string]any

	subMu       sync.Mutex
	subscribers map[int]func(Change)
	nextSub     int
}

// New creates a session for upload, which may be nil until a file is uploaded
func New(upload *api.UploadResult) *Session {
	s := &Session{
		id:          uuid.NewString(),
		subscribers: make(map[int]func(Change)),
	}
	if upload != nil {
		u := *upload
		s.upload = &u
	}
	return s
}

func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Upload returns the current upload, or nil
func (s *Session) Upload() *api.UploadResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.upload == nil {
		return nil
	}
	u := *s.upload
	return &u
}

// Events returns a copy of the events in arrival order
func (s *Session) Events() []api.AgentEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.AgentEvent(nil), s.events...)
}

// Messages returns a copy of the conversation history
func (s *Session) Messages() []api.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Message(nil), s.messages...)
}

func (s *Session) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// SetTemplate selects the prompt template sent with every run. An empty id clears it.
func (s *Session) SetTemplate(id string, vars map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templateID = id
	s.templateVars = vars
}

// Reset starts over with a new dataset: events and history are cleared and
// the session gets a new id. A run in progress is not interrupted, so callers
// stop it first.
func (s *Session) Reset(upload *api.UploadResult) {
	s.mu.Lock()
	s.id = uuid.NewString()
	s.upload = nil
	if upload != nil {
		u := *upload
		s.upload = &u
	}
	s.events = nil
	s.messages = nil
	s.busy = false
	id := s.id
	s.mu.Unlock()

	logger.WithComponent("session").Info("session reset", "id", id)
	s.notify(Change{Kind: ChangeReset})
}

// Submit records prompt and returns the request for the run it starts
func (s *Session) Submit(prompt string) (api.RunRequest, error) {
	prompt = strings.TrimSpace(prompt)

	s.mu.Lock()
	switch {
	case s.busy:
		s.mu.Unlock()
		return api.RunRequest{}, ErrBusy
	case prompt == "":
		s.mu.Unlock()
		return api.RunRequest{}, ErrEmptyPrompt
	case s.upload == nil:
		s.mu.Unlock()
		return api.RunRequest{}, ErrNoUpload
	}

	ev := api.NewUserMessageEvent(prompt)
	s.events = append(s.events, ev)
	s.messages = append(s.messages, api.NewUserMessage(prompt))
	s.busy = true

	req := api.RunRequest{
		FileURI:           s.upload.URI,
		Messages:          append([]api.Message(nil), s.messages...),
		TemplateID:        s.templateID,
		TemplateVariables: s.templateVars,
	}
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeSubmitted, Event: ev})
	return req, nil
}

// Cancel ends the current run without rolling back its events
func (s *Session) Cancel() {
	s.mu.Lock()
	wasBusy := s.busy
	s.busy = false
	s.mu.Unlock()

	if wasBusy {
		s.notify(Change{Kind: ChangeFinished})
	}
}

// OnEvent implements api.StreamHandler
func (s *Session) OnEvent(ev api.AgentEvent) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeEvent, Event: ev})
}

// OnComplete implements api.StreamHandler
func (s *Session) OnComplete(answer string) {
	s.mu.Lock()
	s.messages = append(s.messages, api.NewAssistantMessage(answer))
	s.busy = false
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeFinished})
}

// OnError implements api.StreamHandler
func (s *Session) OnError(err error) {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()

	s.notify(Change{Kind: ChangeFinished, Err: err})
}

// Subscribe registers fn for every later change and returns a func that removes it.
// fn runs on the goroutine that made the change and must not block.
func (s *Session) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Session) notify(c Change) {
	s.subMu.Lock()
	fns := make([]func(Change), 0, len(s.subscribers))
	for i := 0; i < s.nextSub; i++ {
		if fn, ok := s.subscribers[i]; ok {
			fns = append(fns, fn)
		}
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(c)
	}
}
