package audit

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kolkov/handoff/internal/handoff/vectorclock"
)

// Location names an audited piece of shared state or a synchronization object.
type Location string

// AccessType represents the type of access (Read or Write).
type AccessType int

const (
	// AccessRead indicates a read access.
	AccessRead AccessType = iota
	// AccessWrite indicates a write access.
	AccessWrite
)

// String returns the string representation of an AccessType.
func (a AccessType) String() string {
	switch a {
	case AccessRead:
		return "Read"
	case AccessWrite:
		return "Write"
	default:
		return "Unknown"
	}
}

// Race kinds, named previous-current.
const (
	RaceTypeWriteWrite = "write-write"
	RaceTypeReadWrite  = "read-write"
	RaceTypeWriteRead  = "write-read"
)

// Epoch is one goroutine's logical time at one access.
type Epoch struct {
	GID   int64
	Clock uint64
}

// HappensBefore reports whether the access at e is ordered before a
// goroutine whose clock is vc.
func (e Epoch) HappensBefore(vc *vectorclock.VectorClock) bool {
	return e.Clock <= vc.Get(e.GID)
}

// String formats the epoch as "clock@gid".
func (e Epoch) String() string {
	return strconv.FormatUint(e.Clock, 10) + "@" + strconv.FormatInt(e.GID, 10)
}

// Access describes one side of a race.
type Access struct {
	Type  AccessType
	Epoch Epoch
}

// Race describes two unordered accesses to the same location, at least
// one of them a write.
type Race struct {
	Kind     string
	Location Location
	Previous Access
	Current  Access
}

// Key identifies the race regardless of which goroutine observed it.
// Format: "{kind}:{location}:{gid1}:{gid2}" with gid1 <= gid2.
func (r Race) Key() string {
	g1, g2 := r.Previous.Epoch.GID, r.Current.Epoch.GID
	return fmt.Sprintf("%s:%s:%d:%d", r.Kind, r.Location, min(g1, g2), max(g1, g2))
}

// Format writes the report in the layout of the Go race detector.
func (r Race) Format(w io.Writer) {
	fmt.Fprintf(w, "==================\n")
	fmt.Fprintf(w, "WARNING: DATA RACE\n")
	fmt.Fprintf(w, "%s at %s by goroutine %d:\n", r.Current.Type, r.Location, r.Current.Epoch.GID)
	fmt.Fprintf(w, "  [epoch: %s]\n", r.Current.Epoch)
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Previous %s at %s by goroutine %d:\n",
		strings.ToLower(r.Previous.Type.String()), r.Location, r.Previous.Epoch.GID)
	fmt.Fprintf(w, "  [epoch: %s]\n", r.Previous.Epoch)
	fmt.Fprintf(w, "==================\n")
}

// String returns the formatted report.
func (r Race) String() string {
	var buf strings.Builder
	r.Format(&buf)
	return buf.String()
}

func newRace(kind string, loc Location, prev, curr Epoch) Race {
	r := Race{Kind: kind, Location: loc}
	r.Previous.Epoch = prev
	r.Current.Epoch = curr

	switch kind {
	case RaceTypeReadWrite:
		r.Previous.Type, r.Current.Type = AccessRead, AccessWrite
	case RaceTypeWriteRead:
		r.Previous.Type, r.Current.Type = AccessWrite, AccessRead
	default:
		r.Previous.Type, r.Current.Type = AccessWrite, AccessWrite
	}
	return r
}
