package hlc

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/c0deZ3R0/go-hlc-kit/interfaces"
)

// Timestamp bounds
const (
	// MaxWallTime is the largest representable physical time, in
	// milliseconds since the Unix epoch: 9999-12-31T23:59:59.999Z.
	// The bound keeps the encoded year at 4 digits, which preserves
	// lexicographic sortability of the text form.
	MaxWallTime int64 = 253402300799999

	// MaxCounter is the largest representable logical counter value.
	// The text encoding renders the counter as a fixed-width 8-digit field.
	MaxCounter int64 = 99999999
)

// Well-known node identities used by the global Min and Max sentinels.
const (
	zeroNodeID = "00000000-0000-0000-0000-000000000000"
	lastNodeID = "ffffffff-ffff-ffff-ffff-ffffffffffff"
)

// wallTimeLayout is the fixed-width encoding of the physical time field:
// 4-digit year, UTC, millisecond precision.
const wallTimeLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is an immutable hybrid logical clock reading: a physical time
// in milliseconds since the Unix epoch, a logical counter for events
// sharing the same physical time, and the identity of the node that
// produced it.
//
// Construction performs no validation; validation is the responsibility
// of callers that accept untrusted input (the decoder and the safety
// check inside Clock).
type Timestamp struct {
	wallTime int64
	counter  int64
	nodeID   string
}

// Compile-time check to ensure Timestamp satisfies the Version interface
var _ interfaces.Version = Timestamp{}

// NewTimestamp creates a Timestamp from its three fields.
func NewTimestamp(wallTime, counter int64, nodeID string) Timestamp {
	return Timestamp{wallTime: wallTime, counter: counter, nodeID: nodeID}
}

// Min returns the global lower bound: zero physical time, zero counter,
// the all-zero node identity. It is ordered at or before every timestamp
// any node can produce.
func Min() Timestamp {
	return Timestamp{nodeID: zeroNodeID}
}

// Max returns the global upper bound: maximum physical time, maximum
// counter, the all-f node identity. It is ordered at or after every
// timestamp any node can produce.
func Max() Timestamp {
	return Timestamp{wallTime: MaxWallTime, counter: MaxCounter, nodeID: lastNodeID}
}

// WallTime returns the physical time in milliseconds since the Unix epoch.
func (t Timestamp) WallTime() int64 { return t.wallTime }

// Counter returns the logical counter.
func (t Timestamp) Counter() int64 { return t.counter }

// NodeID returns the identity of the node that produced this timestamp.
func (t Timestamp) NodeID() string { return t.nodeID }

// Compare orders two timestamps: physical time first, logical counter on
// ties. The node id is deliberately NOT part of the order — two timestamps
// with equal physical time and counter but different node ids compare
// equal. Causality ordering only needs (time, counter); the node id is
// carried for identification, not ranking. Callers that need a tie-free
// total order across distinct nodes should use TotalOrderLess instead.
func Compare(a, b Timestamp) int {
	if a.wallTime != b.wallTime {
		if a.wallTime < b.wallTime {
			return -1
		}
		return 1
	}
	if a.counter != b.counter {
		if a.counter < b.counter {
			return -1
		}
		return 1
	}
	return 0
}

// TotalOrderLess defines a deterministic tie-free total order over
// timestamps by adding the node id (lexicographic) as a final tie-break
// on top of Compare. Every participant computes the same ordering
// without coordination.
func TotalOrderLess(a, b Timestamp) bool {
	if c := Compare(a, b); c != 0 {
		return c < 0
	}
	return a.nodeID < b.nodeID
}

// Compare implements interfaces.Version.
// Comparing against a different Version implementation returns 0
// (incomparable across version types).
func (t Timestamp) Compare(other interfaces.Version) int {
	if other == nil {
		return 1 // non-nil is greater than nil
	}
	o, ok := other.(Timestamp)
	if !ok {
		return 0
	}
	return Compare(t, o)
}

// IsZero implements interfaces.Version. It reports whether both the
// physical time and the counter are zero.
func (t Timestamp) IsZero() bool {
	return t.wallTime == 0 && t.counter == 0
}

// Encode returns the canonical text form:
//
//	<ISO8601 UTC, millisecond precision>|<8-digit zero-padded counter>|<nodeID>
//
// Encode is a pure function of the three fields. For timestamps within
// the documented bounds, lexicographic comparison of encodings agrees
// with Compare whenever the node id does not need to break ties.
func (t Timestamp) Encode() string {
	return fmt.Sprintf("%s|%08d|%s",
		time.UnixMilli(t.wallTime).UTC().Format(wallTimeLayout),
		t.counter,
		t.nodeID,
	)
}

// String implements interfaces.Version by returning the canonical encoding.
func (t Timestamp) String() string {
	return t.Encode()
}

// LogValue renders the timestamp as a structured log attribute.
func (t Timestamp) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("wall_time_ms", t.wallTime),
		slog.Int64("counter", t.counter),
		slog.String("node_id", t.nodeID),
	)
}
