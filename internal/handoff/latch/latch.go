// Package latch implements a one-shot unset→set transition that other
// goroutines can wait on.
//
// A Latch starts closed and is opened exactly once. Opening is a release
// operation: every write the opener made before Open is visible to any
// goroutine that afterwards observes the latch open, whichever Mode it
// used to wait.
//
// Two wait modes are supported:
//
//	ModeSpin:   re-read the atomic flag in a loop, yielding the processor
//	            between polls. No blocking primitive, no sleep.
//	ModeSignal: block on a channel that Open closes.
//
// Spin is the literal busy-wait handshake. Signal keeps the same ordering
// guarantees without burning a CPU while waiting.
package latch

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
)

// Mode selects how a waiter waits for a latch to open.
type Mode string

const (
	// ModeSpin busy-waits on the latch flag.
	ModeSpin Mode = "spin"

	// ModeSignal blocks until the opener closes the latch channel.
	ModeSignal Mode = "signal"
)

// ErrInvalidMode is returned by ParseMode for an unknown mode name.
var ErrInvalidMode = errors.New("invalid wait mode")

// ParseMode converts a mode name ("spin" or "signal") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSpin, ModeSignal:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q (want %q or %q)", ErrInvalidMode, s, ModeSpin, ModeSignal)
	}
}

// Latch is a one-shot flag. The zero value is not usable; call New.
type Latch struct {
	open atomic.Bool
	done chan struct{}
}

// New returns a closed latch.
func New() *Latch {
	return &Latch{done: make(chan struct{})}
}

// Open opens the latch. It reports whether this call performed the
// transition; every later call returns false and has no effect.
func (l *Latch) Open() bool {
	if !l.open.CompareAndSwap(false, true) {
		return false
	}
	close(l.done)
	return true
}

// IsOpen reports whether the latch has been opened.
func (l *Latch) IsOpen() bool {
	return l.open.Load()
}

// Done returns a channel that is closed when the latch opens.
func (l *Latch) Done() <-chan struct{} {
	return l.done
}

// Await waits until l is open and returns how many times the waiter
// observed it closed.
//
// poll, if non-nil, is called once per closed observation with the running
// count (1, 2, 3, ...). In ModeSignal the waiter observes the latch at
// most once before blocking, so poll runs at most once.
//
// There is no timeout: Await returns only when the latch opens.
func (m Mode) Await(l *Latch, poll func(polls uint64)) uint64 {
	if m == ModeSignal {
		if l.IsOpen() {
			return 0
		}
		if poll != nil {
			poll(1)
		}
		<-l.done
		return 1
	}

	var polls uint64
	for !l.IsOpen() {
		polls++
		if poll != nil {
			poll(polls)
		}
		runtime.Gosched()
	}
	return polls
}
