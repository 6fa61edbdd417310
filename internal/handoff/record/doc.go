// Package record implements the shared record two workers coordinate over.
//
// A Record carries three kinds of state:
//
//   - Payload: text, count and amount. Seeded by the launcher, overwritten
//     exactly once by the producer, read by the consumer after publication.
//   - Identities: producer and consumer goroutine IDs, each assigned exactly
//     once by the launcher. Unset (0) until then.
//   - Publication: a one-shot flag the producer raises after writing the
//     payload.
//
// Synchronization state (identities, publication) lives in atomics and
// latches, the payload is a plain value. The payload is safe to share
// because it has a single writer and is only readable once the publication
// latch is open, which orders the write before every read.
//
// Lifecycle:
//
//	rec := record.New(input)          // launcher, before workers start
//	rec.AssignProducer(id1)           // launcher, after worker 1 starts
//	rec.AssignConsumer(id2)           // launcher, after worker 2 starts
//	rec.Write(p); rec.Publish()       // producer
//	<-rec.Published().Done()          // consumer waits...
//	p, _ := rec.Payload()             // ...then reads
//	rec.Release()                     // launcher, after both workers exit
//
// Any access after Release panics with ErrReleased.
package record
