package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/logger"
)

// Backend is the part of api.Client the runner needs
type Backend interface {
	Upload(ctx context.Context, path string) (*api.UploadResult, error)
	RunAgent(ctx context.Context, req api.RunRequest, handler api.StreamHandler) error
}

// Outcome is how a run ended
type Outcome int

const (
	OutcomeCompleted Outcome = iota
	OutcomeFailed
	OutcomeCancelled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "completed"
	case OutcomeFailed:
		return "failed"
	case OutcomeCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// RunResult summarises one finished run
type RunResult struct {
	Outcome  Outcome
	Answer   string
	Events   int
	Err      error
	Duration time.Duration
}

// Runner drives runs of a Session against a Backend, one at a time
type Runner struct {
	session *Session
	backend Backend

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewRunner(s *Session, backend Backend) *Runner {
	return &Runner{session: s, backend: backend}
}

func (r *Runner) Session() *Session {
	return r.session
}

// Upload sends the dataset at path and resets the session onto it.
// The session is left untouched when the upload fails.
func (r *Runner) Upload(ctx context.Context, path string) (*api.UploadResult, error) {
	if r.session.Busy() {
		return nil, ErrBusy
	}
	result, err := r.backend.Upload(ctx, path)
	if err != nil {
		return nil, err
	}
	r.session.Reset(result)
	return result, nil
}

// Run submits prompt and blocks until the run ends. ErrBusy, ErrNoUpload and
// ErrEmptyPrompt are returned before any request is made; every other ending
// is described by the RunResult.
func (r *Runner) Run(ctx context.Context, prompt string) (RunResult, error) {
	log := logger.WithComponent("runner")

	// The cancel func is in place before Submit announces the run, so a Stop
	// from a ChangeSubmitted subscriber cancels it.
	runCtx, cancel := context.WithCancel(ctx)
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		cancel()
		return RunResult{}, ErrBusy
	}
	r.cancel = cancel
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.cancel = nil
		r.mu.Unlock()
		cancel()
	}()

	req, err := r.session.Submit(prompt)
	if err != nil {
		return RunResult{}, err
	}

	h := &runHandler{session: r.session}
	start := time.Now()
	runErr := r.backend.RunAgent(runCtx, req, h)

	result := RunResult{
		Answer:   h.answer,
		Events:   h.events,
		Duration: time.Since(start),
	}
	switch {
	case h.completed:
		result.Outcome = OutcomeCompleted
	case h.err != nil:
		result.Outcome = OutcomeFailed
		result.Err = h.err
	case runErr != nil:
		result.Outcome = OutcomeFailed
		result.Err = runErr
		r.session.OnError(runErr)
	default:
		result.Outcome = OutcomeCancelled
		r.session.Cancel()
	}

	log.Info("run finished", "outcome", result.Outcome.String(), "events", result.Events, "duration", result.Duration)
	return result, nil
}

// Stop aborts the run in flight, if any
func (r *Runner) Stop() bool {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()

	if cancel == nil {
		return false
	}
	cancel()
	return true
}

// IsAgentError reports whether err came from an agent error event
func IsAgentError(err error) bool {
	var agentErr *api.AgentError
	return errors.As(err, &agentErr)
}

// runHandler forwards to the session and remembers how the run ended
type runHandler struct {
	session   *Session
	events    int
	answer    string
	completed bool
	err       error
}

func (h *runHandler) OnEvent(ev api.AgentEvent) {
	h.events++
	h.session.OnEvent(ev)
}

func (h *runHandler) OnComplete(answer string) {
	h.completed = true
	h.answer = answer
	h.session.OnComplete(answer)
}

func (h *runHandler) OnError(err error) {
	h.err = err
	h.session.OnError(err)
}
