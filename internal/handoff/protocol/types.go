package protocol

import (
	"github.com/kolkov/handoff/internal/handoff/audit"
	"github.com/kolkov/handoff/internal/handoff/latch"
	"github.com/kolkov/handoff/internal/handoff/record"
)

// Role is what a worker turned out to be for this run.
type Role int

const (
	// RoleUnknown is the role of a worker that failed to resolve.
	RoleUnknown Role = iota
	// RoleProducer writes and publishes the payload.
	RoleProducer
	// RoleConsumer waits for publication and reads the payload.
	RoleConsumer
)

// String returns the lower-case role name.
func (r Role) String() string {
	switch r {
	case RoleProducer:
		return "producer"
	case RoleConsumer:
		return "consumer"
	default:
		return "unknown"
	}
}

// Phase identifies what a worker is waiting for.
type Phase int

const (
	// PhaseProducerID waits for the producer identity to be assigned.
	PhaseProducerID Phase = iota + 1
	// PhaseConsumerID waits for the consumer identity to be assigned.
	PhaseConsumerID
	// PhasePublished waits for the producer to publish the payload.
	PhasePublished
)

// String returns the phase name used in logs.
func (p Phase) String() string {
	switch p {
	case PhaseProducerID:
		return "producer-id"
	case PhaseConsumerID:
		return "consumer-id"
	case PhasePublished:
		return "published"
	default:
		return "unknown"
	}
}

// State is the handshake state of a record.
type State int

const (
	// StateUnpublished is the initial state.
	StateUnpublished State = iota
	// StatePublished is terminal: the payload has been published.
	StatePublished
)

// String returns the state name.
func (s State) String() string {
	if s == StatePublished {
		return "Published"
	}
	return "Unpublished"
}

// StateOf returns the handshake state of rec.
func StateOf(rec *record.Record) State {
	if rec.IsPublished() {
		return StatePublished
	}
	return StateUnpublished
}

// Polls counts closed observations per waiting phase.
type Polls struct {
	ProducerID uint64
	ConsumerID uint64
	Published  uint64
}

// Audited locations. Sync objects are named after the latch they mirror.
const (
	LocText       audit.Location = "record.text"
	LocCount      audit.Location = "record.count"
	LocAmount     audit.Location = "record.amount"
	LocProducerID audit.Location = "record.producerId"
	LocConsumerID audit.Location = "record.consumerId"
	LocLifetime   audit.Location = "record.lifetime"

	SyncProducerAssigned audit.Location = "latch.producerAssigned"
	SyncConsumerAssigned audit.Location = "latch.consumerAssigned"
	SyncPublished        audit.Location = "latch.published"
)

// PayloadLocations are the payload fields, in write order.
var PayloadLocations = []audit.Location{LocText, LocCount, LocAmount}

// DefaultUpdate is the producer's fixed replacement payload.
var DefaultUpdate = record.Payload{Text: "Producer's Update", Count: 1, Amount: 1.0}

// Observer receives progress events from the workers. Implementations
// must be safe for concurrent use: both workers report through the same
// Observer.
type Observer interface {
	// Polling is called for each closed observation while waiting.
	Polling(self int64, phase Phase, polls uint64)
	// Updating is called before the producer writes the payload.
	Updating(self int64, update record.Payload)
	// Updated is called after the payload is written, before it is published.
	Updated(self int64)
	// Consumed is called with the payload the consumer read.
	Consumed(self int64, p record.Payload)
	// Finished is called once per worker after its leg completes.
	Finished(self int64, role Role)
}

// Auditor receives accesses and synchronization points. *audit.Tracker
// implements it.
type Auditor interface {
	Read(gid int64, loc audit.Location)
	Write(gid int64, loc audit.Location)
	Acquire(gid int64, s audit.Location)
	Release(gid int64, s audit.Location)
}

// Options configure a Worker and its parts.
type Options struct {
	// Mode selects busy-wait or blocking waits. Empty means ModeSignal.
	Mode latch.Mode

	// Update is the payload the producer writes. Zero means DefaultUpdate.
	Update record.Payload

	// Observer receives progress events. Nil discards them.
	Observer Observer

	// Auditor receives accesses for ordering checks. Nil disables auditing.
	Auditor Auditor
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = latch.ModeSignal
	}
	if o.Update == (record.Payload{}) {
		o.Update = DefaultUpdate
	}
	if o.Observer == nil {
		o.Observer = NopObserver{}
	}
	if o.Auditor == nil {
		o.Auditor = nopAuditor{}
	}
	return o
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) Polling(int64, Phase, uint64)   {}
func (NopObserver) Updating(int64, record.Payload) {}
func (NopObserver) Updated(int64)                  {}
func (NopObserver) Consumed(int64, record.Payload) {}
func (NopObserver) Finished(int64, Role)           {}

type nopAuditor struct{}

func (nopAuditor) Read(int64, audit.Location)    {}
func (nopAuditor) Write(int64, audit.Location)   {}
func (nopAuditor) Acquire(int64, audit.Location) {}
func (nopAuditor) Release(int64, audit.Location) {}
