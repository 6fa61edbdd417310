package handoff

import (
	"log/slog"
	"time"

	"github.com/kolkov/handoff/internal/handoff/audit"
	"github.com/kolkov/handoff/internal/handoff/latch"
	"github.com/kolkov/handoff/internal/handoff/launcher"
	"github.com/kolkov/handoff/internal/handoff/protocol"
	"github.com/kolkov/handoff/internal/handoff/record"
)

// Payload is the data carried by the shared record.
type Payload = record.Payload

// Role is the part a worker resolved for itself.
type Role = protocol.Role

// Roles.
const (
	RoleUnknown  = protocol.RoleUnknown
	RoleProducer = protocol.RoleProducer
	RoleConsumer = protocol.RoleConsumer
)

// Phase names what a polling worker is waiting for.
type Phase = protocol.Phase

// Phases, in the order a consumer passes through them.
const (
	PhaseProducerID = protocol.PhaseProducerID
	PhaseConsumerID = protocol.PhaseConsumerID
	PhasePublished  = protocol.PhasePublished
)

// Observer receives progress callbacks from both workers. Implementations
// must be safe for concurrent use.
type Observer = protocol.Observer

// Outcome is what one worker did.
type Outcome = protocol.Outcome

// Race is an unordered pair of accesses found by the audit.
type Race = audit.Race

// Result describes a completed run.
type Result = launcher.Result

// WaitMode selects how workers wait on a latch.
type WaitMode = latch.Mode

// Wait modes.
const (
	WaitSpin   = latch.ModeSpin
	WaitSignal = latch.ModeSignal
)

// DefaultUpdate is the payload the producer writes unless Options.Update
// is set.
var DefaultUpdate = protocol.DefaultUpdate

// ErrStart is returned when a worker cannot report its identity.
var ErrStart = launcher.ErrStart

// ParseWaitMode parses "spin" or "signal".
func ParseWaitMode(s string) (WaitMode, error) {
	return latch.ParseMode(s)
}

// Options configure a run. The zero value is ready to use.
type Options struct {
	// Wait selects the wait mode. Empty means WaitSignal.
	Wait WaitMode

	// Update is the payload the producer writes. Zero means DefaultUpdate.
	Update Payload

	// Audit enables the happens-before audit of the run.
	Audit bool

	// Observer receives progress callbacks. Nil discards them.
	Observer Observer

	// Logger receives structured logs. Nil uses slog.Default().
	Logger *slog.Logger

	// StartDelay and AssignDelay inject delays for testing: inside worker
	// i before it runs, and in the launcher before it stores worker i's
	// identity.
	StartDelay  func(worker int) time.Duration
	AssignDelay func(worker int) time.Duration
}

// Run performs one handshake seeded with input and returns once both
// workers have exited and the record is released.
func Run(input Payload, opts Options) (*Result, error) {
	lopts := launcher.Options{
		Protocol: protocol.Options{
			Mode:     opts.Wait,
			Update:   opts.Update,
			Observer: opts.Observer,
		},
		Logger:      opts.Logger,
		StartDelay:  opts.StartDelay,
		AssignDelay: opts.AssignDelay,
	}
	if opts.Audit {
		lopts.Tracker = audit.NewTracker()
	}
	return launcher.New(lopts).Run(input)
}
