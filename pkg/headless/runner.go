package headless

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/killallgit/entropy/pkg/lineage"
	"github.com/killallgit/entropy/pkg/logger"
	"github.com/killallgit/entropy/pkg/session"
)

// ErrCancelled is returned when the run was stopped before the agent finished
var ErrCancelled = errors.New("run cancelled")

// runner drives one upload and one prompt
type runner struct {
	runner      *session.Runner
	output      *Output
	opts        Options
	unsubscribe func()
}

func newRunner(backend session.Backend, opts Options) *runner {
	s := session.New(nil)
	s.SetTemplate(opts.TemplateID, opts.TemplateVariables)

	output := NewOutput(opts.Out, opts.Color)
	events := newEventPrinter(output)

	return &runner{
		runner:      session.NewRunner(s, backend),
		output:      output,
		opts:        opts,
		unsubscribe: s.Subscribe(events.OnChange),
	}
}

func (r *runner) run(ctx context.Context) error {
	log := logger.WithComponent("headless")

	upload, err := r.runner.Upload(ctx, r.opts.File)
	if err != nil {
		r.output.Error(fmt.Sprintf("Upload error: %v", err))
		return err
	}
	var size int64
	if info, statErr := os.Stat(r.opts.File); statErr == nil {
		size = info.Size()
	}
	r.output.Uploaded(upload, size)

	log.Debug("submitting prompt", "session", r.runner.Session().ID(), "uri", upload.URI)

	result, err := r.runner.Run(ctx, r.opts.Prompt)
	if err != nil {
		return err
	}

	switch result.Outcome {
	case session.OutcomeCompleted:
		r.output.Answer(result.Answer, r.opts.ShowReasoning)
		r.printLineage(upload.Filename)
		r.output.Summary(result.Events, result.Duration)
		log.Info("headless run complete", "events", result.Events, "duration", result.Duration)
		return nil

	case session.OutcomeCancelled:
		r.output.Summary(result.Events, result.Duration)
		return ErrCancelled

	default:
		r.printLineage(upload.Filename)
		r.output.Summary(result.Events, result.Duration)
		if result.Err == nil {
			return errors.New("run failed")
		}
		return result.Err
	}
}

func (r *runner) printLineage(inputName string) {
	d := lineage.Build(r.runner.Session().Events(), inputName)
	r.output.Lineage(d, r.opts.Lineage)
}

func (r *runner) cleanup() {
	if r.unsubscribe != nil {
		r.unsubscribe()
	}
}
