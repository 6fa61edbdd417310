// Package vectorclock implements sparse vector clocks keyed by goroutine ID.
//
// A handshake involves a handful of goroutines whose IDs are arbitrary
// int64 values, so the clock is a map holding only non-zero entries
// instead of a fixed array indexed by a compact thread slot.
//
// Key operations:
//   - Join: point-wise maximum, applied on acquire
//   - LessOrEqual: partial order check, the happens-before test
package vectorclock

import (
	"sort"
	"strconv"
	"strings"
)

// VectorClock maps goroutine ID to logical time. Missing entries are 0.
//
// Example: {1:3, 18:1} means goroutine 1 at time 3, goroutine 18 at time 1.
//
// Not safe for concurrent use; callers serialize access.
type VectorClock struct {
	clocks map[int64]uint64
}

// New creates a zero vector clock.
func New() *VectorClock {
	return &VectorClock{clocks: make(map[int64]uint64)}
}

// Clone returns a deep copy.
func (vc *VectorClock) Clone() *VectorClock {
	clone := &VectorClock{clocks: make(map[int64]uint64, len(vc.clocks))}
	for gid, c := range vc.clocks {
		clone.clocks[gid] = c
	}
	return clone
}

// Join performs point-wise maximum: vc = vc ⊔ other.
func (vc *VectorClock) Join(other *VectorClock) {
	for gid, c := range other.clocks {
		if c > vc.clocks[gid] {
			vc.clocks[gid] = c
		}
	}
}

// LessOrEqual reports whether vc ⊑ other, i.e. vc[g] <= other[g] for every g.
func (vc *VectorClock) LessOrEqual(other *VectorClock) bool {
	for gid, c := range vc.clocks {
		if c > other.clocks[gid] {
			return false
		}
	}
	return true
}

// Increment advances the clock of goroutine gid.
func (vc *VectorClock) Increment(gid int64) {
	vc.clocks[gid]++
}

// Get returns the clock of goroutine gid.
func (vc *VectorClock) Get(gid int64) uint64 {
	return vc.clocks[gid]
}

// Set sets the clock of goroutine gid.
func (vc *VectorClock) Set(gid int64, clock uint64) {
	if clock == 0 {
		delete(vc.clocks, gid)
		return
	}
	vc.clocks[gid] = clock
}

// String returns "{gid:clock, ...}" sorted by goroutine ID.
func (vc *VectorClock) String() string {
	if len(vc.clocks) == 0 {
		return "{}"
	}

	gids := make([]int64, 0, len(vc.clocks))
	for gid := range vc.clocks {
		gids = append(gids, gid)
	}
	sort.Slice(gids, func(i, j int) bool { return gids[i] < gids[j] })

	parts := make([]string, 0, len(gids))
	for _, gid := range gids {
		parts = append(parts, strconv.FormatInt(gid, 10)+":"+strconv.FormatUint(vc.clocks[gid], 10))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
