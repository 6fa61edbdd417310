package record

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/kolkov/handoff/internal/handoff/latch"
)

// Unset is the sentinel identity of an unassigned producer or consumer.
// Goroutine IDs start at 1, so no live goroutine carries it.
const Unset int64 = 0

var (
	// ErrInvalidIdentity is returned when assigning the Unset sentinel.
	ErrInvalidIdentity = errors.New("record: invalid identity")

	// ErrAlreadyAssigned is returned when an identity is assigned twice.
	ErrAlreadyAssigned = errors.New("record: identity already assigned")

	// ErrAlreadyWritten is returned when the payload is written a second time.
	ErrAlreadyWritten = errors.New("record: payload already written")

	// ErrNotWritten is returned when publishing before the payload was written.
	ErrNotWritten = errors.New("record: payload not written")

	// ErrAlreadyPublished is returned when publishing a second time.
	ErrAlreadyPublished = errors.New("record: already published")

	// ErrNotPublished is returned when reading the payload before publication.
	ErrNotPublished = errors.New("record: not published")

	// ErrReleased is the panic value for any access after Release.
	ErrReleased = errors.New("record: use after release")
)

// Payload is the data the producer communicates to the consumer.
type Payload struct {
	Text   string
	Count  int
	Amount float64
}

// String formats the payload the way the console reports it.
func (p Payload) String() string {
	return fmt.Sprintf("String: %s, Int: %d, Double: %f", p.Text, p.Count, p.Amount)
}

// Record is the single piece of state shared by the launcher and both workers.
type Record struct {
	// payload has one writer (the producer, once) and is read only after
	// published is open.
	payload Payload

	// written claims the single payload write.
	written atomic.Bool

	producerID atomic.Int64
	consumerID atomic.Int64

	producerSet *latch.Latch
	consumerSet *latch.Latch
	published   *latch.Latch

	released atomic.Bool
}

// New allocates a record seeded with the initial payload. Publication is
// closed and both identities are Unset.
func New(initial Payload) *Record {
	return &Record{
		payload:     initial,
		producerSet: latch.New(),
		consumerSet: latch.New(),
		published:   latch.New(),
	}
}

// AssignProducer records the producer identity and opens ProducerAssigned.
func (r *Record) AssignProducer(id int64) error {
	r.mustBeLive()
	return assign(&r.producerID, r.producerSet, id, "producer")
}

// AssignConsumer records the consumer identity and opens ConsumerAssigned.
func (r *Record) AssignConsumer(id int64) error {
	r.mustBeLive()
	return assign(&r.consumerID, r.consumerSet, id, "consumer")
}

func assign(field *atomic.Int64, set *latch.Latch, id int64, who string) error {
	if id == Unset {
		return fmt.Errorf("%w: %s id %d", ErrInvalidIdentity, who, id)
	}
	if !field.CompareAndSwap(Unset, id) {
		return fmt.Errorf("%w: %s is %d", ErrAlreadyAssigned, who, field.Load())
	}
	// The store above happens before Open, so anyone who observes the
	// latch open reads the assigned id.
	set.Open()
	return nil
}

// ProducerID returns the producer identity, or Unset.
func (r *Record) ProducerID() int64 {
	r.mustBeLive()
	return r.producerID.Load()
}

// ConsumerID returns the consumer identity, or Unset.
func (r *Record) ConsumerID() int64 {
	r.mustBeLive()
	return r.consumerID.Load()
}

// ProducerAssigned opens when the producer identity is set.
func (r *Record) ProducerAssigned() *latch.Latch {
	r.mustBeLive()
	return r.producerSet
}

// ConsumerAssigned opens when the consumer identity is set.
func (r *Record) ConsumerAssigned() *latch.Latch {
	r.mustBeLive()
	return r.consumerSet
}

// Published opens when the producer publishes the payload.
func (r *Record) Published() *latch.Latch {
	r.mustBeLive()
	return r.published
}

// IsPublished reports whether the payload has been published.
func (r *Record) IsPublished() bool {
	r.mustBeLive()
	return r.published.IsOpen()
}

// Write overwrites the payload. Only the first call succeeds.
//
// The write is invisible to readers until Publish: Payload refuses to
// return it while publication is closed.
func (r *Record) Write(p Payload) error {
	r.mustBeLive()
	if !r.written.CompareAndSwap(false, true) {
		return ErrAlreadyWritten
	}
	r.payload = p
	return nil
}

// Publish opens the publication latch. It is the release operation for
// the payload written by Write.
func (r *Record) Publish() error {
	r.mustBeLive()
	if !r.written.Load() {
		return ErrNotWritten
	}
	if !r.published.Open() {
		return ErrAlreadyPublished
	}
	return nil
}

// Payload returns the published payload, or ErrNotPublished while
// publication is still closed.
func (r *Record) Payload() (Payload, error) {
	r.mustBeLive()
	if !r.published.IsOpen() {
		return Payload{}, ErrNotPublished
	}
	return r.payload, nil
}

// Release ends the record's lifetime. Every access afterwards panics.
// The launcher calls it only after both workers have exited.
func (r *Record) Release() {
	r.released.Store(true)
}

// Released reports whether Release has been called.
func (r *Record) Released() bool {
	return r.released.Load()
}

func (r *Record) mustBeLive() {
	if r.released.Load() {
		panic(ErrReleased)
	}
}
