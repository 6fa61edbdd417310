// Package launcher owns the lifecycle of one handshake run: the shared
// record and the two worker goroutines.
//
// A run is:
//
//  1. Allocate the record from the operator's input.
//  2. Start two goroutines running the same worker routine.
//  3. As each one confirms its start, store its identity in the record:
//     the first becomes the producer, the second the consumer.
//  4. Wait for both goroutines to exit.
//  5. Release the record.
//
// Role is an artifact of start order. Which worker's code runs first is
// irrelevant: the worker started first always resolves as producer.
package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kolkov/handoff/internal/handoff/audit"
	"github.com/kolkov/handoff/internal/handoff/goid"
	"github.com/kolkov/handoff/internal/handoff/protocol"
	"github.com/kolkov/handoff/internal/handoff/record"
)

// Workers is the number of goroutines in a run. The protocol has exactly
// one producer and one consumer.
const Workers = 2

// ErrStart is returned when a worker cannot report a valid identity.
var ErrStart = errors.New("launcher: worker failed to start")

// Options configure a Launcher.
type Options struct {
	// Protocol configures the worker routine. Its Auditor is replaced by
	// Tracker when Tracker is set.
	Protocol protocol.Options

	// Tracker, if non-nil, audits the happens-before ordering of the run,
	// including the launcher's own writes, starts, joins and release.
	Tracker *audit.Tracker

	// Logger receives structured run logs. Nil uses slog.Default().
	Logger *slog.Logger

	// StartDelay, if set, delays worker i after it confirms its start and
	// before it runs the worker routine.
	StartDelay func(worker int) time.Duration

	// AssignDelay, if set, pauses the launcher between starting worker i
	// and storing its identity in the record.
	AssignDelay func(worker int) time.Duration
}

// Result describes a completed run.
type Result struct {
	// RunID uniquely identifies the run in logs.
	RunID string

	// Input is the payload the record was seeded with.
	Input record.Payload

	// ProducerID and ConsumerID are the identities stored in the record.
	ProducerID int64
	ConsumerID int64

	// Outcomes holds each worker's outcome, in start order.
	Outcomes [Workers]protocol.Outcome

	// Consumed is the payload the consumer read.
	Consumed record.Payload

	// Races lists ordering violations found by the tracker, if any.
	Races []audit.Race
}

// Launcher runs handshakes.
type Launcher struct {
	opts   Options
	worker *protocol.Worker
	log    *slog.Logger
}

// New creates a launcher.
func New(opts Options) *Launcher {
	if opts.Tracker != nil {
		opts.Protocol.Auditor = opts.Tracker
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Launcher{
		opts:   opts,
		worker: protocol.NewWorker(opts.Protocol),
		log:    log,
	}
}

// Update returns the payload the producer writes.
func (l *Launcher) Update() record.Payload {
	return l.worker.Update()
}

// Run performs one handshake seeded with input and blocks until both
// workers have exited. There is no timeout and no cancellation.
//
// The record is released only after both workers are joined. If a worker
// fails to start, Run returns ErrStart immediately without joining; the
// caller is expected to treat this as fatal and exit the process.
func (l *Launcher) Run(input record.Payload) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), Input: input}
	log := l.log.With("run_id", res.RunID)
	tr := l.opts.Tracker
	self := goid.Current()

	rec := record.New(input)
	if tr != nil {
		for _, loc := range protocol.PayloadLocations {
			tr.Write(self, loc)
		}
	}
	log.Debug("record allocated", "text", input.Text, "count", input.Count, "amount", input.Amount)

	var wg sync.WaitGroup
	var ids [Workers]int64

	for i := 0; i < Workers; i++ {
		started := make(chan int64, 1)

		wg.Add(1)
		go func() {
			defer wg.Done()

			id := goid.Current()
			started <- id
			if id == record.Unset {
				return
			}
			if d := delay(l.opts.StartDelay, i); d > 0 {
				time.Sleep(d)
			}
			res.Outcomes[i] = l.worker.Run(rec)
		}()

		id := <-started
		if id == record.Unset {
			return nil, fmt.Errorf("%w: worker %d has no goroutine identity", ErrStart, i)
		}
		ids[i] = id
		log.Debug("worker started", "worker", i, "gid", id)

		if tr != nil {
			tr.Fork(self, id)
		}
		if d := delay(l.opts.AssignDelay, i); d > 0 {
			time.Sleep(d)
		}
		if err := l.assign(rec, i, id, self); err != nil {
			return nil, fmt.Errorf("%w: worker %d: %w", ErrStart, i, err)
		}
	}

	wg.Wait()

	res.ProducerID = rec.ProducerID()
	res.ConsumerID = rec.ConsumerID()

	if tr != nil {
		for _, id := range ids {
			tr.Join(self, id)
		}
		tr.Write(self, protocol.LocLifetime)
	}
	rec.Release()

	var errs []error
	for i, out := range res.Outcomes {
		if out.Err != nil {
			errs = append(errs, fmt.Errorf("worker %d (%s): %w", i, out.Role, out.Err))
		}
		if out.Role == protocol.RoleConsumer {
			res.Consumed = out.Payload
		}
	}
	if tr != nil {
		res.Races = tr.Races()
	}

	log.Info("handshake complete",
		"producer", res.ProducerID,
		"consumer", res.ConsumerID,
		"races", len(res.Races),
	)
	return res, errors.Join(errs...)
}

// assign stores the identity of the i-th started worker: the first is the
// producer, the second the consumer.
func (l *Launcher) assign(rec *record.Record, i int, id, self int64) error {
	loc, obj, set := protocol.LocProducerID, protocol.SyncProducerAssigned, rec.AssignProducer
	if i == 1 {
		loc, obj, set = protocol.LocConsumerID, protocol.SyncConsumerAssigned, rec.AssignConsumer
	}

	if tr := l.opts.Tracker; tr != nil {
		tr.Write(self, loc)
		tr.Release(self, obj)
	}
	return set(id)
}

func delay(fn func(int) time.Duration, i int) time.Duration {
	if fn == nil {
		return 0
	}
	return fn(i)
}
