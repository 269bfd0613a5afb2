package headless

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/killallgit/entropy/pkg/session"
)

// Options configures one headless run
type Options struct {
	File              string
	Prompt            string
	TemplateID        string
	TemplateVariables map[string]any
	Lineage           LineageFormat
	ShowReasoning     bool
	Color             bool

	// Out receives the transcript; defaults to stdout
	Out io.Writer
}

// Run uploads opts.File, sends opts.Prompt and prints the run as it streams.
// It returns an error when the upload or the run failed, or ctx was cancelled.
func Run(ctx context.Context, backend session.Backend, opts Options) error {
	if opts.Prompt == "" {
		return fmt.Errorf("prompt cannot be empty in headless mode")
	}
	if opts.File == "" {
		return fmt.Errorf("a dataset file is required in headless mode")
	}
	if opts.Lineage == "" {
		opts.Lineage = LineageText
	}
	if !opts.Lineage.Valid() {
		return fmt.Errorf("unknown lineage format %q", opts.Lineage)
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	r := newRunner(backend, opts)
	defer r.cleanup()

	if err := r.run(ctx); err != nil {
		return fmt.Errorf("failed to execute prompt: %w", err)
	}
	return nil
}
