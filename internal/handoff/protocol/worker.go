package protocol

import (
	"github.com/kolkov/handoff/internal/handoff/goid"
	"github.com/kolkov/handoff/internal/handoff/record"
)

// Outcome is what one worker did during a run.
type Outcome struct {
	// ID is the worker's goroutine identity.
	ID int64

	// Role is the role the worker resolved.
	Role Role

	// Payload is the payload read by the consumer; zero for the producer.
	Payload record.Payload

	// Polls counts closed observations per waiting phase.
	Polls Polls

	// Err is non-nil if the worker could not complete its leg.
	Err error
}

// Worker is the single routine both goroutines run.
type Worker struct {
	opts      Options
	resolver  *Resolver
	handshake *Handshake
}

// NewWorker creates a worker routine. One Worker may be run by any
// number of goroutines; it holds no per-run state.
func NewWorker(opts Options) *Worker {
	opts = opts.withDefaults()
	return &Worker{
		opts:      opts,
		resolver:  NewResolver(opts),
		handshake: NewHandshake(opts),
	}
}

// Update returns the payload the producer writes.
func (w *Worker) Update() record.Payload {
	return w.handshake.Update()
}

// Run identifies the calling goroutine, resolves its role and runs the
// matching leg of the handshake.
func (w *Worker) Run(rec *record.Record) Outcome {
	return w.RunAs(goid.Current(), rec)
}

// RunAs is Run with an explicit identity. self must be the identity the
// launcher assigns for the calling goroutine.
func (w *Worker) RunAs(self int64, rec *record.Record) Outcome {
	out := Outcome{ID: self}

	role, polls, err := w.resolver.Resolve(self, rec)
	out.Role, out.Polls = role, polls
	if err != nil {
		out.Err = err
		return out
	}

	// Recorded after resolution so the launcher's start edge is already
	// in place for this goroutine.
	w.opts.Auditor.Read(self, LocLifetime)

	switch role {
	case RoleProducer:
		out.Err = w.handshake.Produce(self, rec)
	case RoleConsumer:
		out.Payload, out.Polls.Published, out.Err = w.handshake.Consume(self, rec)
	}

	w.opts.Observer.Finished(self, role)
	return out
}
