package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/kolkov/handoff/internal/handoff/audit"
	"github.com/kolkov/handoff/internal/handoff/protocol"
	"github.com/kolkov/handoff/internal/handoff/record"
)

// Printer writes the run's report lines. Both workers print through the
// same Printer; a mutex keeps their lines whole.
//
// Printer implements protocol.Observer.
type Printer struct {
	mu sync.Mutex
	w  io.Writer

	// every is the poll interval for waiting lines. The first poll of each
	// wait always prints; after that every N-th. Zero prints only the first.
	every uint64
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, pollInterval uint64) *Printer {
	return &Printer{w: w, every: pollInterval}
}

var _ protocol.Observer = (*Printer)(nil)

func (p *Printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, format, args...)
}

// Echo prints the operator input back.
func (p *Printer) Echo(in record.Payload) {
	p.printf("\nOriginal input\nString: %s\nInt: %d\nDouble: %f\n\n", in.Text, in.Count, in.Amount)
}

// Polling prints a waiting line on the first poll and every N-th after.
func (p *Printer) Polling(_ int64, phase protocol.Phase, polls uint64) {
	if polls != 1 && (p.every == 0 || polls%p.every != 0) {
		return
	}
	switch phase {
	case protocol.PhaseProducerID:
		p.printf("Waiting for producer thread to update...\n")
	case protocol.PhaseConsumerID:
		p.printf("Waiting for consumer thread to update...\n")
	case protocol.PhasePublished:
		p.printf("Waiting for the producer thread to flag that it has updated the struct for printing...\n")
	}
}

// Updating announces the producer's update.
func (p *Printer) Updating(_ int64, u record.Payload) {
	p.printf("Producer thread is now updating all values to: '%s', %d, %s\n",
		u.Text, u.Count, formatAmount(u.Amount))
}

// Updated announces that the payload is written.
func (p *Printer) Updated(int64) {
	p.printf("Producer thread has finished updating all values\n")
}

// Consumed reports what the consumer read.
func (p *Printer) Consumed(_ int64, v record.Payload) {
	p.printf("Consumer is printing... %s\n", v)
}

// Finished reports the worker's identity.
func (p *Printer) Finished(self int64, _ protocol.Role) {
	p.printf("Current thread in function id = %d\n", self)
}

// Races reports the audit verdict.
func (p *Printer) Races(races []audit.Race) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(races) == 0 {
		fmt.Fprintf(p.w, "Audit: no races detected\n")
		return
	}
	for _, r := range races {
		r.Format(p.w)
	}
	fmt.Fprintf(p.w, "Audit: %d race(s) detected\n", len(races))
}

// formatAmount prints the shortest exact decimal, keeping one fractional
// digit for whole numbers ("1.0", "3.14").
func formatAmount(a float64) string {
	s := strconv.FormatFloat(a, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
