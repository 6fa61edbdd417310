// Package protocol implements the two-party handshake over a shared record.
//
// Both workers run the same routine (Worker.Run). Neither is told its role:
//
//  1. Resolver waits until the launcher has assigned the producer identity,
//     then until it has assigned the consumer identity, and compares the
//     worker's own goroutine ID with the producer identity.
//  2. The producer overwrites the payload with its fixed update and
//     publishes it (Handshake.Produce).
//  3. The consumer waits for publication and reads the payload
//     (Handshake.Consume).
//
// Every wait goes through a latch.Mode: ModeSpin busy-waits on the atomic
// flag, ModeSignal blocks on the latch channel. Both give the same
// ordering: the producer's payload writes happen before the consumer's
// reads.
//
// Progress is reported to an Observer; accesses and synchronization
// points are optionally reported to an Auditor that verifies their
// happens-before ordering.
package protocol
