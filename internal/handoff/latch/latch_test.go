package latch

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// TestParseMode tests mode name parsing.
func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Mode
		wantErr bool
	}{
		{"spin", "spin", ModeSpin, false},
		{"signal", "signal", ModeSignal, false},
		{"empty", "", "", true},
		{"unknown", "futex", "", true},
		{"case sensitive", "SPIN", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidMode) {
					t.Errorf("ParseMode(%q) error = %v, want ErrInvalidMode", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMode(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestLatch_OpenOnce tests that only the first Open performs the transition.
func TestLatch_OpenOnce(t *testing.T) {
	l := New()
	if l.IsOpen() {
		t.Fatal("New() latch is open")
	}

	if !l.Open() {
		t.Error("first Open() = false, want true")
	}
	if l.Open() {
		t.Error("second Open() = true, want false")
	}
	if !l.IsOpen() {
		t.Error("IsOpen() = false after Open()")
	}

	select {
	case <-l.Done():
	default:
		t.Error("Done() channel not closed after Open()")
	}
}

// TestLatch_ConcurrentOpen tests that exactly one of many concurrent openers wins.
func TestLatch_ConcurrentOpen(t *testing.T) {
	l := New()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Open() {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Errorf("Open() succeeded %d times, want 1", got)
	}
}

// TestAwait_AlreadyOpen tests that waiting on an open latch does not poll.
func TestAwait_AlreadyOpen(t *testing.T) {
	for _, mode := range []Mode{ModeSpin, ModeSignal} {
		t.Run(string(mode), func(t *testing.T) {
			l := New()
			l.Open()

			polled := false
			polls := mode.Await(l, func(uint64) { polled = true })

			if polls != 0 {
				t.Errorf("Await() polls = %d, want 0", polls)
			}
			if polled {
				t.Error("poll callback invoked for an open latch")
			}
		})
	}
}

// TestAwait_SeesWritesBeforeOpen tests the release/acquire guarantee.
//
// The opener writes a plain variable before Open; the waiter reads it after
// Await returns. Under `go test -race` this fails if the latch does not
// establish happens-before.
func TestAwait_SeesWritesBeforeOpen(t *testing.T) {
	for _, mode := range []Mode{ModeSpin, ModeSignal} {
		t.Run(string(mode), func(t *testing.T) {
			l := New()
			var payload int

			go func() {
				time.Sleep(5 * time.Millisecond)
				payload = 42
				l.Open()
			}()

			var lastPoll uint64
			polls := mode.Await(l, func(n uint64) { lastPoll = n })

			if payload != 42 {
				t.Errorf("payload = %d after Await, want 42", payload)
			}
			if polls == 0 {
				t.Error("Await() polls = 0, want at least one closed observation")
			}
			if lastPoll != polls {
				t.Errorf("last poll callback = %d, want %d", lastPoll, polls)
			}
			if mode == ModeSignal && polls != 1 {
				t.Errorf("signal mode polls = %d, want 1", polls)
			}
		})
	}
}
