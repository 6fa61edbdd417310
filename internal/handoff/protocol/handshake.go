package protocol

import (
	"fmt"

	"github.com/kolkov/handoff/internal/handoff/record"
)

// Handshake runs the producer and consumer legs over a record.
//
// State machine per record: Unpublished → Published, fired exactly once
// by the producer right after it finishes writing the payload.
type Handshake struct {
	opts Options
}

// NewHandshake creates a handshake.
func NewHandshake(opts Options) *Handshake {
	return &Handshake{opts: opts.withDefaults()}
}

// Update returns the payload the producer writes.
func (h *Handshake) Update() record.Payload {
	return h.opts.Update
}

// Produce overwrites the payload with the producer's update and
// publishes it.
//
// The payload write precedes Publish in program order and Publish is an
// atomic store, so any goroutine that observes the record published
// also observes the update.
func (h *Handshake) Produce(self int64, rec *record.Record) error {
	h.opts.Observer.Updating(self, h.opts.Update)

	for _, loc := range PayloadLocations {
		h.opts.Auditor.Write(self, loc)
	}
	if err := rec.Write(h.opts.Update); err != nil {
		return fmt.Errorf("produce: %w", err)
	}

	h.opts.Observer.Updated(self)

	// The audit release must be recorded before the latch opens, otherwise
	// a consumer could acquire before the release exists.
	h.opts.Auditor.Release(self, SyncPublished)
	if err := rec.Publish(); err != nil {
		return fmt.Errorf("produce: %w", err)
	}
	return nil
}

// Consume waits until the record is published, then reads the payload.
// It returns the payload and the number of closed observations.
func (h *Handshake) Consume(self int64, rec *record.Record) (record.Payload, uint64, error) {
	polls := h.opts.Mode.Await(rec.Published(), func(n uint64) {
		h.opts.Observer.Polling(self, PhasePublished, n)
	})
	h.opts.Auditor.Acquire(self, SyncPublished)

	for _, loc := range PayloadLocations {
		h.opts.Auditor.Read(self, loc)
	}
	p, err := rec.Payload()
	if err != nil {
		return record.Payload{}, polls, fmt.Errorf("consume: %w", err)
	}

	h.opts.Observer.Consumed(self, p)
	return p, polls, nil
}
