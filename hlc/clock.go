package hlc

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/c0deZ3R0/go-hlc-kit/errors"
	"github.com/c0deZ3R0/go-hlc-kit/logging"
)

// DefaultMaxDrift is the drift bound applied when no override is configured.
const DefaultMaxDrift = 5 * time.Minute

// WallClockFunc returns the current time in milliseconds since the Unix
// epoch, the same unit as Timestamp.WallTime.
type WallClockFunc func() int64

// SystemWallClock reads the system clock. It is the default wall-clock
// source for new clock instances.
func SystemWallClock() int64 {
	return time.Now().UnixMilli()
}

// GenerateNodeID produces a random unique node identity. It is the
// default node-id source for new clock instances; the algorithm treats
// the result as an opaque label.
func GenerateNodeID() string {
	return uuid.NewString()
}

// Clock is a hybrid logical clock instance for one node. It owns a single
// mutable cell: the most recently produced Timestamp. Send and Receive
// each compute a candidate successor, run the safety check, and replace
// the cell atomically with respect to the call (state is never left
// half-updated, and a failed check leaves the last good value in place).
//
// Clock is not goroutine-safe. The read-modify-write of state is not
// internally atomic against concurrent callers; a caller using one
// instance from multiple goroutines must provide mutual exclusion around
// each Send/Receive. Independent instances share no state and may run
// fully in parallel.
type Clock struct {
	nodeID    string
	wallClock WallClockFunc
	maxDrift  time.Duration
	metrics   MetricsCollector
	logger    *logging.Logger

	last Timestamp
}

// Option is a functional option for configuring a Clock via New.
type Option func(*clockBuilder) error

type clockBuilder struct {
	nodeID    string
	wallClock WallClockFunc
	maxDrift  time.Duration
	metrics   MetricsCollector
	logger    *logging.Logger
	initial   *Timestamp
}

// WithNodeID overrides the generated node identity.
func WithNodeID(nodeID string) Option {
	return func(b *clockBuilder) error {
		if nodeID == "" {
			return fmt.Errorf("node id cannot be empty (omit WithNodeID to generate one)")
		}
		b.nodeID = nodeID
		return nil
	}
}

// WithWallClock overrides the wall-clock source, e.g. for testing or for
// logical-only clocks.
func WithWallClock(fn WallClockFunc) Option {
	return func(b *clockBuilder) error {
		b.wallClock = fn
		return nil
	}
}

// WithMaxDrift overrides the drift bound (default 5 minutes).
func WithMaxDrift(d time.Duration) Option {
	return func(b *clockBuilder) error {
		if d < 0 {
			return fmt.Errorf("max drift must be non-negative, got %v", d)
		}
		b.maxDrift = d
		return nil
	}
}

// WithInitialTimestamp seeds initial state from a resume point. The
// resume point's physical time and counter seed the state; its node id
// is ignored — the instance's own configured or generated node id is
// always authoritative.
func WithInitialTimestamp(t Timestamp) Option {
	return func(b *clockBuilder) error {
		b.initial = &t
		return nil
	}
}

// WithInitialEncoded seeds initial state from the canonical text form of
// a resume point. Decode failure fails construction.
func WithInitialEncoded(s string) Option {
	return func(b *clockBuilder) error {
		t, err := Decode(s)
		if err != nil {
			return err
		}
		b.initial = &t
		return nil
	}
}

// WithMetrics injects a metrics collector observing clock operations.
func WithMetrics(m MetricsCollector) Option {
	return func(b *clockBuilder) error {
		b.metrics = m
		return nil
	}
}

// WithLogger injects a logger used for drift and overflow diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(b *clockBuilder) error {
		b.logger = l
		return nil
	}
}

// New constructs a Clock. Without options the instance uses a random
// UUID node identity, the system wall clock, the default drift bound,
// and initial state (now, 0).
func New(opts ...Option) (*Clock, error) {
	b := &clockBuilder{
		wallClock: SystemWallClock,
		maxDrift:  DefaultMaxDrift,
		metrics:   &NoOpMetricsCollector{},
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	if b.nodeID == "" {
		b.nodeID = GenerateNodeID()
	}

	c := &Clock{
		nodeID:    b.nodeID,
		wallClock: b.wallClock,
		maxDrift:  b.maxDrift,
		metrics:   b.metrics,
		logger:    b.logger,
	}

	if b.initial != nil {
		c.last = NewTimestamp(b.initial.WallTime(), b.initial.Counter(), c.nodeID)
	} else {
		c.last = NewTimestamp(c.wallClock(), 0, c.nodeID)
	}

	return c, nil
}

// NodeID returns the node identity of this instance.
func (c *Clock) NodeID() string { return c.nodeID }

// MaxDrift returns the configured drift bound.
func (c *Clock) MaxDrift() time.Duration { return c.maxDrift }

// Last returns the most recently produced timestamp without advancing
// the clock.
func (c *Clock) Last() Timestamp { return c.last }

// Min returns the lower bound for timestamps of this instance: zero
// physical time and counter, pinned to this instance's node id.
func (c *Clock) Min() Timestamp {
	return NewTimestamp(0, 0, c.nodeID)
}

// Max returns the upper bound for timestamps of this instance, pinned to
// this instance's node id.
func (c *Clock) Max() Timestamp {
	return NewTimestamp(MaxWallTime, MaxCounter, c.nodeID)
}

// Send produces a timestamp for a purely local event.
//
// If the wall clock has advanced past the last emitted physical time the
// new state is (now, 0); otherwise (equal or regressed wall clock) the
// physical time is kept and the counter is incremented. The safety check
// runs before the candidate is committed; on failure state is unchanged
// and the instance stays usable.
func (c *Clock) Send() (Timestamp, error) {
	now := c.wallClock()

	var candidate Timestamp
	if now > c.last.WallTime() {
		candidate = NewTimestamp(now, 0, c.nodeID)
	} else {
		candidate = NewTimestamp(c.last.WallTime(), c.last.Counter()+1, c.nodeID)
	}

	if err := c.check(errors.OpSend, now, candidate); err != nil {
		return Timestamp{}, err
	}

	c.last = candidate
	c.metrics.RecordSend(candidate)
	return candidate, nil
}

// Receive merges a remote timestamp into local state following the HLC
// merge rule.
//
// The new physical time is max(now, local, remote). The counter depends
// on which operand(s) achieved that maximum: both local and remote →
// max of the two counters plus one; only local → local counter plus one;
// only remote → remote counter plus one; neither (now alone is the
// strict maximum) → zero. The resulting timestamp always carries this
// instance's own node id, never the remote's.
//
// The merged result is ordered at or after everything this instance
// previously emitted, and after the remote timestamp, which is what
// preserves causality across nodes.
func (c *Clock) Receive(remote Timestamp) (Timestamp, error) {
	now := c.wallClock()

	wall := max(now, c.last.WallTime(), remote.WallTime())

	var counter int64
	switch {
	case wall == c.last.WallTime() && wall == remote.WallTime():
		counter = max(c.last.Counter(), remote.Counter()) + 1
	case wall == c.last.WallTime():
		counter = c.last.Counter() + 1
	case wall == remote.WallTime():
		counter = remote.Counter() + 1
	default:
		counter = 0
	}

	candidate := NewTimestamp(wall, counter, c.nodeID)

	if err := c.check(errors.OpReceive, now, candidate); err != nil {
		return Timestamp{}, err
	}

	c.last = candidate
	c.metrics.RecordReceive(candidate)
	return candidate, nil
}

// ReceiveEncoded strictly decodes the canonical text form of a remote
// timestamp and merges it. Decode failure propagates to the caller and
// leaves state untouched.
func (c *Clock) ReceiveEncoded(s string) (Timestamp, error) {
	remote, err := Decode(s)
	if err != nil {
		c.metrics.RecordError(errors.OpReceive, errors.CodeOf(err))
		return Timestamp{}, err
	}
	return c.Receive(remote)
}

// check applies the safety envelope to a candidate before it is
// committed: the candidate physical time must stay within maxDrift of
// the wall clock, and the candidate counter must stay below MaxCounter.
func (c *Clock) check(op errors.Operation, now int64, candidate Timestamp) error {
	drift := candidate.WallTime() - now
	if drift < 0 {
		drift = -drift
	}
	// Compare in milliseconds: scaling the delta to a time.Duration first
	// overflows int64 for deltas beyond ~292 years, and Decode admits wall
	// times up to year 9999.
	if drift > c.maxDrift.Milliseconds() {
		err := errors.NewDriftError(op, c.maxDrift, driftDuration(drift))
		c.fail(op, err)
		return err
	}

	if candidate.Counter() >= MaxCounter {
		err := errors.NewCounterOverflowError(op, MaxCounter, candidate.Counter())
		c.fail(op, err)
		return err
	}

	return nil
}

func (c *Clock) fail(op errors.Operation, err error) {
	c.metrics.RecordError(op, errors.CodeOf(err))
	if c.logger != nil {
		c.logger.WithNode(c.nodeID).LogClockError(context.Background(), err, "clock update rejected")
	}
}

// driftDuration renders a millisecond delta as a time.Duration for error
// reporting, clamping deltas a Duration cannot represent.
func driftDuration(ms int64) time.Duration {
	if ms > math.MaxInt64/int64(time.Millisecond) {
		return math.MaxInt64
	}
	return time.Duration(ms) * time.Millisecond
}
