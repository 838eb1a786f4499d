// Package hlc implements Hybrid Logical Clock timestamps and the clock
// instances that produce them.
//
// A hybrid logical clock combines wall-clock time with a logical counter
// and a node identity so that events across independently-clocked nodes
// can be ordered consistently with causality, even when physical clocks
// drift or run backwards.
//
// # Timestamps
//
// Timestamp is an immutable (wall time, counter, node id) triple with a
// canonical pipe-delimited text encoding:
//
//	2025-05-22T12:34:56.789Z|00000001|node-2
//
// The date field is fixed-width UTC with millisecond precision and the
// counter is rendered as exactly 8 decimal digits, so lexicographic
// comparison of two encodings agrees with Compare whenever the node id
// does not need to break ties.
//
// # Clocks
//
// Clock holds the last emitted Timestamp for one node. Send produces a
// timestamp for a local event; Receive merges a remote timestamp into
// local state following the HLC algorithm. Both operations run a safety
// check (drift bound, counter overflow) before committing, and leave
// state untouched on failure.
//
// # Basic Usage
//
//	clock, err := hlc.New(hlc.WithNodeID("node-1"))
//	if err != nil { /* handle */ }
//
//	ts, err := clock.Send()
//	// transmit ts.Encode() to a peer ...
//
//	merged, err := clock.ReceiveEncoded(remoteEncoding)
//
// A Clock is not goroutine-safe: callers using one instance from multiple
// goroutines must serialize Send/Receive calls. Timestamps are immutable
// and freely shareable.
package hlc
