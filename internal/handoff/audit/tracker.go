package audit

import (
	"sync"

	"github.com/kolkov/handoff/internal/handoff/vectorclock"
)

// varState is the shadow cell of one audited location.
type varState struct {
	// w is the epoch of the last write; zero Clock means never written.
	w Epoch

	// reads holds the epoch of each goroutine's last read since w.
	reads map[int64]Epoch
}

// Tracker records accesses and synchronization events and collects races.
//
// Thread Safety: all methods are safe for concurrent use. A single mutex
// serializes events; the handshake reports a few dozen of them per run.
type Tracker struct {
	mu sync.Mutex

	threads  map[int64]*vectorclock.VectorClock
	shadow   map[Location]*varState
	syncVars map[Location]*vectorclock.VectorClock

	races    []Race
	reported map[string]bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		threads:  make(map[int64]*vectorclock.VectorClock),
		shadow:   make(map[Location]*varState),
		syncVars: make(map[Location]*vectorclock.VectorClock),
		reported: make(map[string]bool),
	}
}

// clock returns the clock of gid, starting it at gid@1 on first use.
// Callers hold t.mu.
func (t *Tracker) clock(gid int64) *vectorclock.VectorClock {
	vc, ok := t.threads[gid]
	if !ok {
		vc = vectorclock.New()
		vc.Set(gid, 1)
		t.threads[gid] = vc
	}
	return vc
}

func (t *Tracker) epoch(gid int64) Epoch {
	return Epoch{GID: gid, Clock: t.clock(gid).Get(gid)}
}

func (t *Tracker) cell(loc Location) *varState {
	vs, ok := t.shadow[loc]
	if !ok {
		vs = &varState{reads: make(map[int64]Epoch)}
		t.shadow[loc] = vs
	}
	return vs
}

// Fork records that parent started child: everything parent did so far
// happens before anything child does.
func (t *Tracker) Fork(parent, child int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pc := t.clock(parent)
	cc := t.clock(child)
	cc.Join(pc)
	cc.Increment(child)
	pc.Increment(parent)
}

// Join records that parent waited for child to exit.
func (t *Tracker) Join(parent, child int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.clock(parent).Join(t.clock(child))
}

// Release records a release on sync object s by gid.
func (t *Tracker) Release(gid int64, s Location) {
	t.mu.Lock()
	defer t.mu.Unlock()

	vc := t.clock(gid)
	rel, ok := t.syncVars[s]
	if !ok {
		t.syncVars[s] = vc.Clone()
	} else {
		rel.Join(vc)
	}
	vc.Increment(gid)
}

// Acquire records an acquire on sync object s by gid. Acquiring an object
// nobody released has no effect.
func (t *Tracker) Acquire(gid int64, s Location) {
	t.mu.Lock()
	defer t.mu.Unlock()

	vc := t.clock(gid)
	if rel, ok := t.syncVars[s]; ok {
		vc.Join(rel)
	}
}

// Write records a write to loc by gid.
func (t *Tracker) Write(gid int64, loc Location) {
	t.mu.Lock()
	defer t.mu.Unlock()

	vc := t.clock(gid)
	curr := t.epoch(gid)
	vs := t.cell(loc)

	if vs.w.Clock != 0 && vs.w.GID != gid && !vs.w.HappensBefore(vc) {
		t.report(newRace(RaceTypeWriteWrite, loc, vs.w, curr))
	}
	for rgid, r := range vs.reads {
		if rgid != gid && !r.HappensBefore(vc) {
			t.report(newRace(RaceTypeReadWrite, loc, r, curr))
		}
	}

	vs.w = curr
	clear(vs.reads)
}

// Read records a read of loc by gid.
func (t *Tracker) Read(gid int64, loc Location) {
	t.mu.Lock()
	defer t.mu.Unlock()

	vc := t.clock(gid)
	curr := t.epoch(gid)
	vs := t.cell(loc)

	if vs.w.Clock != 0 && vs.w.GID != gid && !vs.w.HappensBefore(vc) {
		t.report(newRace(RaceTypeWriteRead, loc, vs.w, curr))
	}
	vs.reads[gid] = curr
}

// report stores r unless an identical race was already reported.
// Callers hold t.mu.
func (t *Tracker) report(r Race) {
	key := r.Key()
	if t.reported[key] {
		return
	}
	t.reported[key] = true
	t.races = append(t.races, r)
}

// Races returns the races detected so far, in detection order.
func (t *Tracker) Races() []Race {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Race, len(t.races))
	copy(out, t.races)
	return out
}

// RacesDetected returns the number of distinct races detected.
func (t *Tracker) RacesDetected() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.races)
}
