package audit

import (
	"strings"
	"sync"
	"testing"
)

const (
	launcher = int64(1)
	producer = int64(18)
	consumer = int64(19)

	locText      Location = "record.text"
	locPublished Location = "record.published"
	locLifetime  Location = "record.lifetime"
)

// verifyNoRaces fails the test if the tracker reported any race.
func verifyNoRaces(t *testing.T, tr *Tracker) {
	t.Helper()
	for _, r := range tr.Races() {
		t.Errorf("unexpected race:\n%s", r)
	}
}

// verifySingleRace checks that exactly one race of the given kind was reported.
func verifySingleRace(t *testing.T, tr *Tracker, kind string, loc Location) Race {
	t.Helper()
	races := tr.Races()
	if len(races) != 1 {
		t.Fatalf("RacesDetected() = %d, want 1 (%v)", len(races), races)
	}
	r := races[0]
	if r.Kind != kind {
		t.Errorf("race kind = %q, want %q", r.Kind, kind)
	}
	if r.Location != loc {
		t.Errorf("race location = %q, want %q", r.Location, loc)
	}
	return r
}

// TestTracker_PublishedHandshake tests the ordered producer→consumer pattern.
func TestTracker_PublishedHandshake(t *testing.T) {
	tr := NewTracker()

	tr.Write(launcher, locText) // seed from input
	tr.Fork(launcher, producer)
	tr.Fork(launcher, consumer)

	tr.Write(producer, locText)
	tr.Release(producer, locPublished)

	tr.Acquire(consumer, locPublished)
	tr.Read(consumer, locText)

	verifyNoRaces(t, tr)
}

// TestTracker_MissingAcquire tests that a consumer skipping the flag races.
func TestTracker_MissingAcquire(t *testing.T) {
	tr := NewTracker()

	tr.Write(launcher, locText)
	tr.Fork(launcher, producer)
	tr.Fork(launcher, consumer)

	tr.Write(producer, locText)
	tr.Release(producer, locPublished)

	// Consumer reads without acquiring the publication flag.
	tr.Read(consumer, locText)

	r := verifySingleRace(t, tr, RaceTypeWriteRead, locText)
	if r.Previous.Epoch.GID != producer || r.Current.Epoch.GID != consumer {
		t.Errorf("race goroutines = (%d, %d), want (%d, %d)",
			r.Previous.Epoch.GID, r.Current.Epoch.GID, producer, consumer)
	}
	if r.Previous.Type != AccessWrite || r.Current.Type != AccessRead {
		t.Errorf("race access types = (%s, %s), want (Write, Read)", r.Previous.Type, r.Current.Type)
	}
}

// TestTracker_SeedWriteOrderedByFork tests that launcher writes before start are ordered.
func TestTracker_SeedWriteOrderedByFork(t *testing.T) {
	tr := NewTracker()

	tr.Write(launcher, locText)
	tr.Fork(launcher, producer)
	tr.Write(producer, locText)

	verifyNoRaces(t, tr)
}

// TestTracker_WriteWrite tests two unordered writers.
func TestTracker_WriteWrite(t *testing.T) {
	tr := NewTracker()

	tr.Fork(launcher, producer)
	tr.Fork(launcher, consumer)
	tr.Write(producer, locText)
	tr.Write(consumer, locText)

	verifySingleRace(t, tr, RaceTypeWriteWrite, locText)
}

// TestTracker_ReleaseBeforeJoin tests the lifetime check: freeing the
// record without joining a worker that used it is a read-write race.
func TestTracker_ReleaseBeforeJoin(t *testing.T) {
	tests := []struct {
		name     string
		join     bool
		wantRace bool
	}{
		{"joined before release", true, false},
		{"released without join", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker()
			tr.Fork(launcher, producer)
			tr.Read(producer, locLifetime)

			if tt.join {
				tr.Join(launcher, producer)
			}
			tr.Write(launcher, locLifetime)

			if tt.wantRace {
				verifySingleRace(t, tr, RaceTypeReadWrite, locLifetime)
			} else {
				verifyNoRaces(t, tr)
			}
		})
	}
}

// TestTracker_Deduplication tests that a repeated race is reported once.
func TestTracker_Deduplication(t *testing.T) {
	tr := NewTracker()
	tr.Fork(launcher, producer)
	tr.Fork(launcher, consumer)

	tr.Write(producer, locText)
	tr.Read(consumer, locText)
	tr.Read(consumer, locText)

	if got := tr.RacesDetected(); got != 1 {
		t.Errorf("RacesDetected() = %d, want 1", got)
	}
}

// TestTracker_AcquireUnreleased tests that acquiring a fresh object orders nothing.
func TestTracker_AcquireUnreleased(t *testing.T) {
	tr := NewTracker()
	tr.Fork(launcher, producer)
	tr.Fork(launcher, consumer)

	tr.Acquire(consumer, locPublished)
	tr.Write(producer, locText)
	tr.Read(consumer, locText)

	verifySingleRace(t, tr, RaceTypeWriteRead, locText)
}

// TestTracker_Concurrent tests that events from many goroutines do not corrupt state.
func TestTracker_Concurrent(t *testing.T) {
	tr := NewTracker()

	var wg sync.WaitGroup
	for g := int64(100); g < 120; g++ {
		tr.Fork(launcher, g)
		wg.Add(1)
		go func(gid int64) {
			defer wg.Done()
			loc := Location("private." + strings.Repeat("x", int(gid-99)))
			for i := 0; i < 50; i++ {
				tr.Write(gid, loc)
				tr.Read(gid, loc)
				tr.Release(gid, "sync")
			}
		}(g)
	}
	wg.Wait()

	verifyNoRaces(t, tr)
}

// TestRaceFormat tests the report layout.
func TestRaceFormat(t *testing.T) {
	r := newRace(RaceTypeWriteRead, locText, Epoch{GID: 18, Clock: 2}, Epoch{GID: 19, Clock: 1})
	out := r.String()

	for _, want := range []string{
		"WARNING: DATA RACE",
		"Read at record.text by goroutine 19:",
		"[epoch: 1@19]",
		"Previous write at record.text by goroutine 18:",
		"[epoch: 2@18]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}

	if got, want := r.Key(), "write-read:record.text:18:19"; got != want {
		t.Errorf("Key() = %q, want %q", got, want)
	}
}
