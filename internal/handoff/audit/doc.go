// Package audit checks that every access to the shared record is ordered
// by happens-before.
//
// The Tracker follows the FastTrack bookkeeping: every goroutine carries a
// vector clock, every audited location remembers the epoch of its last
// write and the epochs of reads since then, and every synchronization
// object remembers the clock of its last release.
//
//	Acquire(s):  Ct := Ct ⊔ Ls
//	Release(s):  Ls := Ls ⊔ Ct;  Ct[t]++
//	Fork(p, c):  Cc := Cp;  Cc[c]++;  Cp[p]++
//	Join(p, c):  Cp := Cp ⊔ Cc
//
// A read races with the last write when the write epoch does not
// happen-before the reader's clock. A write races with the last write or
// with any read since it under the same rule.
//
// Unlike a memory-access race detector, the tracker is driven explicitly:
// the handshake reports its own accesses and synchronization points with
// the acting goroutine's ID. The audit therefore proves the protocol
// orders its accesses, it does not watch arbitrary memory.
//
// Example:
//
//	tr := audit.NewTracker()
//	tr.Write(producer, "record.text")
//	tr.Release(producer, "record.published")
//	tr.Acquire(consumer, "record.published")
//	tr.Read(consumer, "record.text") // ordered, no race
package audit
