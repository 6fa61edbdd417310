package protocol

import (
	"errors"

	"github.com/kolkov/handoff/internal/handoff/record"
)

// ErrUnidentified is returned when a worker has no valid identity to compare.
var ErrUnidentified = errors.New("protocol: worker identity is unset")

// Resolver lets a running worker discover whether it is the producer or
// the consumer from the identities the launcher stores in the record.
type Resolver struct {
	opts Options
}

// NewResolver creates a resolver.
func NewResolver(opts Options) *Resolver {
	return &Resolver{opts: opts.withDefaults()}
}

// Resolve blocks until both identities are assigned, then compares self
// with the producer identity.
//
// The two identities are awaited separately and in order: first the
// producer, then the consumer. No comparison is made while either is
// still record.Unset. There is no timeout; a launcher that never assigns
// an identity leaves the worker waiting forever.
func (r *Resolver) Resolve(self int64, rec *record.Record) (Role, Polls, error) {
	var polls Polls
	if self == record.Unset {
		return RoleUnknown, polls, ErrUnidentified
	}

	polls.ProducerID = r.await(self, PhaseProducerID, rec)
	polls.ConsumerID = r.await(self, PhaseConsumerID, rec)

	r.opts.Auditor.Read(self, LocProducerID)
	if rec.ProducerID() == self {
		return RoleProducer, polls, nil
	}
	return RoleConsumer, polls, nil
}

func (r *Resolver) await(self int64, phase Phase, rec *record.Record) uint64 {
	l, obj := rec.ProducerAssigned(), SyncProducerAssigned
	if phase == PhaseConsumerID {
		l, obj = rec.ConsumerAssigned(), SyncConsumerAssigned
	}

	polls := r.opts.Mode.Await(l, func(n uint64) {
		r.opts.Observer.Polling(self, phase, n)
	})
	r.opts.Auditor.Acquire(self, obj)
	return polls
}
