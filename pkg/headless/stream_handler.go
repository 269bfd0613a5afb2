package headless

import (
	"github.com/killallgit/entropy/pkg/api"
	"github.com/killallgit/entropy/pkg/session"
)

// eventPrinter writes session events to the output as they arrive.
// Session changes are delivered on the stream goroutine in arrival order.
type eventPrinter struct {
	output *Output
}

func newEventPrinter(output *Output) *eventPrinter {
	return &eventPrinter{output: output}
}

// OnChange is the session subscriber
func (p *eventPrinter) OnChange(c session.Change) {
	if c.Kind != session.ChangeEvent {
		return
	}
	switch c.Event.Status {
	case api.StatusUserMessage, api.StatusComplete:
		// the prompt is known and the answer is printed once the run ends
		return
	}
	p.output.Event(c.Event)
}
