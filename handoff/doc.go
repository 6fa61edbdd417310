// Package handoff runs a two-goroutine producer/consumer handshake over a
// single shared record.
//
// Both workers run the same routine. Each discovers its role by comparing
// its own goroutine identity against the two identities the launcher
// stores in the record: the goroutine started first is the producer, the
// second is the consumer.
//
// # Quick Start
//
//	res, err := handoff.Run(handoff.Payload{Text: "hello", Count: 42, Amount: 3.14}, handoff.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.Consumed) // String: Producer's Update, Int: 1, Double: 1.000000
//
// # Protocol
//
// A run moves through three one-shot transitions, each backed by an atomic
// latch:
//
//  1. producer identity set (launcher, after worker 0 starts)
//  2. consumer identity set (launcher, after worker 1 starts)
//  3. payload published (producer, after writing the payload)
//
// Workers wait for 1 then 2 before comparing identities; the consumer
// additionally waits for 3 before reading the payload. Setting a latch
// happens-before every observation of it, so the consumer always sees the
// producer's writes.
//
// # Wait Modes
//
// WaitSignal (the default) blocks on a channel closed by the setter.
// WaitSpin busy-polls the atomic flag, yielding the processor between
// polls.
//
// # Audit
//
// With Options.Audit set, every access to the record and every
// synchronization event is fed into a vector-clock tracker. Result.Races
// lists any pair of accesses not ordered by happens-before.
package handoff
