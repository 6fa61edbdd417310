package protocol

import (
	"sync"
	"testing"
	"time"

	"github.com/kolkov/handoff/internal/handoff/latch"
	"github.com/kolkov/handoff/internal/handoff/record"
)

var modes = []latch.Mode{latch.ModeSpin, latch.ModeSignal}

// event is one Observer callback.
type event struct {
	self  int64
	kind  string
	phase Phase
	role  Role
	p     record.Payload
}

// recorder is an Observer that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) add(e event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Polling(self int64, phase Phase, _ uint64) {
	r.add(event{self: self, kind: "polling", phase: phase})
}

func (r *recorder) Updating(self int64, p record.Payload) {
	r.add(event{self: self, kind: "updating", p: p})
}

func (r *recorder) Updated(self int64) {
	r.add(event{self: self, kind: "updated"})
}

func (r *recorder) Consumed(self int64, p record.Payload) {
	r.add(event{self: self, kind: "consumed", p: p})
}

func (r *recorder) Finished(self int64, role Role) {
	r.add(event{self: self, kind: "finished", role: role})
}

func (r *recorder) snapshot() []event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event, len(r.events))
	copy(out, r.events)
	return out
}

// verifyBlocked fails if done is closed within a short grace period.
func verifyBlocked(t *testing.T, done <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-done:
		t.Fatalf("%s returned early", what)
	case <-time.After(20 * time.Millisecond):
	}
}

// verifyReturns fails if done is not closed within a generous deadline.
func verifyReturns(t *testing.T, done <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("%s did not return", what)
	}
}
