package hlc

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c0deZ3R0/go-hlc-kit/errors"
)

// manualClock is a controllable wall-clock source for tests.
type manualClock struct {
	now int64
}

func (m *manualClock) read() int64 { return m.now }

func newTestClock(t *testing.T, wall *manualClock, opts ...Option) *Clock {
	t.Helper()
	opts = append([]Option{WithNodeID("local"), WithWallClock(wall.read)}, opts...)
	c, err := New(opts...)
	require.NoError(t, err)
	return c
}

func TestNewDefaults(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	assert.NotEmpty(t, c.NodeID())
	_, err = uuid.Parse(c.NodeID())
	assert.NoError(t, err, "default node id should be a UUID")

	assert.Equal(t, DefaultMaxDrift, c.MaxDrift())
	assert.Equal(t, c.NodeID(), c.Last().NodeID())
	assert.EqualValues(t, 0, c.Last().Counter())
}

func TestNewWithInitialTimestamp(t *testing.T) {
	resume := NewTimestamp(5000, 7, "someone-else")
	c, err := New(WithNodeID("me"), WithInitialTimestamp(resume))
	require.NoError(t, err)

	last := c.Last()
	assert.EqualValues(t, 5000, last.WallTime())
	assert.EqualValues(t, 7, last.Counter())
	// the resume point's node id is ignored
	assert.Equal(t, "me", last.NodeID())
}

func TestNewWithInitialEncoded(t *testing.T) {
	c, err := New(
		WithNodeID("me"),
		WithInitialEncoded("2025-05-22T12:34:56.789Z|00000003|old-node"),
	)
	require.NoError(t, err)
	assert.EqualValues(t, 3, c.Last().Counter())
	assert.Equal(t, "me", c.Last().NodeID())
}

func TestNewWithInitialEncodedRejectsMalformed(t *testing.T) {
	_, err := New(WithInitialEncoded("not a timestamp"))
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))
}

func TestNewRejectsEmptyNodeID(t *testing.T) {
	_, err := New(WithNodeID(""))
	require.Error(t, err)
}

func TestSendAdvancingWallClockResetsCounter(t *testing.T) {
	wall := &manualClock{now: 1000}
	c := newTestClock(t, wall, WithInitialTimestamp(NewTimestamp(1000, 5, "")))

	wall.now = 2000
	ts, err := c.Send()
	require.NoError(t, err)

	assert.EqualValues(t, 2000, ts.WallTime())
	assert.EqualValues(t, 0, ts.Counter())
	assert.Equal(t, ts, c.Last())
}

func TestSendSameMillisecondIncrementsCounter(t *testing.T) {
	wall := &manualClock{now: 1000}
	c := newTestClock(t, wall)

	first, err := c.Send()
	require.NoError(t, err)
	second, err := c.Send()
	require.NoError(t, err)

	assert.Equal(t, first.WallTime(), second.WallTime())
	assert.Equal(t, first.Counter()+1, second.Counter())
}

func TestSendRegressedWallClockIncrementsCounter(t *testing.T) {
	wall := &manualClock{now: 1000}
	c := newTestClock(t, wall, WithInitialTimestamp(NewTimestamp(1000, 2, "")))

	// wall clock runs backwards; physical time must not
	wall.now = 900
	ts, err := c.Send()
	require.NoError(t, err)

	assert.EqualValues(t, 1000, ts.WallTime())
	assert.EqualValues(t, 3, ts.Counter())
}

func TestReceiveTieBreak(t *testing.T) {
	wall := &manualClock{now: 1000}
	c := newTestClock(t, wall, WithInitialTimestamp(NewTimestamp(1000, 2, "")))

	ts, err := c.Receive(NewTimestamp(1000, 5, "remote"))
	require.NoError(t, err)

	assert.EqualValues(t, 1000, ts.WallTime())
	assert.EqualValues(t, 6, ts.Counter(), "max(local, remote) counter + 1")
	assert.Equal(t, "local", ts.NodeID(), "merged timestamp carries our node id")
}

func TestReceiveRemoteAhead(t *testing.T) {
	wall := &manualClock{now: 1000}
	c := newTestClock(t, wall, WithInitialTimestamp(NewTimestamp(1000, 0, "")))

	ts, err := c.Receive(NewTimestamp(2000, 5, "remote"))
	require.NoError(t, err)

	assert.EqualValues(t, 2000, ts.WallTime())
	assert.EqualValues(t, 6, ts.Counter())
}

func TestReceiveLocalAhead(t *testing.T) {
	wall := &manualClock{now: 1000}
	c := newTestClock(t, wall, WithInitialTimestamp(NewTimestamp(3000, 4, "")))

	ts, err := c.Receive(NewTimestamp(2000, 9, "remote"))
	require.NoError(t, err)

	assert.EqualValues(t, 3000, ts.WallTime())
	assert.EqualValues(t, 5, ts.Counter(), "only the local counter advances")
}

func TestReceiveNowStrictlyGreatest(t *testing.T) {
	wall := &manualClock{now: 3000}
	c := newTestClock(t, wall, WithInitialTimestamp(NewTimestamp(1000, 0, "")))

	ts, err := c.Receive(NewTimestamp(2000, 0, "remote"))
	require.NoError(t, err)

	assert.EqualValues(t, 3000, ts.WallTime())
	assert.EqualValues(t, 0, ts.Counter())
}

func TestReceiveEncoded(t *testing.T) {
	wall := &manualClock{now: 1000}
	c := newTestClock(t, wall, WithInitialTimestamp(NewTimestamp(1000, 2, "")))

	remote := NewTimestamp(1000, 5, "remote")
	ts, err := c.ReceiveEncoded(remote.Encode())
	require.NoError(t, err)
	assert.EqualValues(t, 6, ts.Counter())
}

func TestReceiveEncodedPropagatesParseError(t *testing.T) {
	wall := &manualClock{now: 1000}
	c := newTestClock(t, wall, WithInitialTimestamp(NewTimestamp(1000, 2, "")))
	before := c.Last()

	_, err := c.ReceiveEncoded("definitely|not a timestamp")
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))
	assert.Equal(t, before, c.Last(), "state must be unchanged after a decode failure")
}

func TestDriftRejection(t *testing.T) {
	wall := &manualClock{now: 1000}
	c := newTestClock(t, wall,
		WithInitialTimestamp(NewTimestamp(1000, 0, "")),
		WithMaxDrift(100*time.Millisecond),
	)
	before := c.Last()

	_, err := c.Receive(NewTimestamp(2000, 0, "remote"))
	require.Error(t, err)
	assert.True(t, errors.IsDrift(err))

	var driftErr *errors.DriftError
	require.ErrorAs(t, err, &driftErr)
	assert.Equal(t, 100*time.Millisecond, driftErr.MaxDrift)
	assert.Equal(t, time.Second, driftErr.ObservedDrift)

	assert.Equal(t, before, c.Last(), "state must be unchanged after a drift rejection")

	// the instance stays usable once conditions improve
	_, err = c.Receive(NewTimestamp(1050, 0, "remote"))
	assert.NoError(t, err)
}

func TestDriftRejectionFarFutureRemote(t *testing.T) {
	// A remote wall time near MaxWallTime puts the millisecond delta far
	// beyond what a time.Duration can hold; the check must still reject it.
	wall := &manualClock{now: 1000}
	c := newTestClock(t, wall, WithInitialTimestamp(NewTimestamp(1000, 0, "")))
	before := c.Last()

	remote, err := Decode("9999-12-31T23:59:59.999Z|00000000|remote")
	require.NoError(t, err)

	_, err = c.Receive(remote)
	require.Error(t, err)
	assert.True(t, errors.IsDrift(err))

	var driftErr *errors.DriftError
	require.ErrorAs(t, err, &driftErr)
	assert.Equal(t, DefaultMaxDrift, driftErr.MaxDrift)
	assert.Greater(t, driftErr.ObservedDrift, time.Duration(0))

	assert.Equal(t, before, c.Last(), "state must be unchanged after a drift rejection")

	// the instance is not wedged: ordinary operation still succeeds
	_, err = c.Send()
	assert.NoError(t, err)
}

func TestWithMaxDriftRejectsNegative(t *testing.T) {
	_, err := New(WithMaxDrift(-time.Second))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-negative")
}

func TestCounterOverflowRejection(t *testing.T) {
	wall := &manualClock{now: 1000}
	c := newTestClock(t, wall, WithInitialTimestamp(NewTimestamp(1000, MaxCounter, "")))
	before := c.Last()

	_, err := c.Send()
	require.Error(t, err)
	assert.True(t, errors.IsCounterOverflow(err))

	var overflowErr *errors.CounterOverflowError
	require.ErrorAs(t, err, &overflowErr)
	assert.Equal(t, MaxCounter, overflowErr.Max)
	assert.Equal(t, MaxCounter+1, overflowErr.Current)

	assert.Equal(t, before, c.Last(), "state must be unchanged after an overflow rejection")

	// advancing physical time resets the counter and recovers the instance
	wall.now = 2000
	ts, err := c.Send()
	require.NoError(t, err)
	assert.EqualValues(t, 0, ts.Counter())
}

func TestMonotonicity(t *testing.T) {
	wall := &manualClock{now: 1000}
	c := newTestClock(t, wall)

	prev := c.Last()
	steps := []func() (Timestamp, error){
		c.Send,
		func() (Timestamp, error) { return c.Receive(NewTimestamp(900, 50, "r")) },
		c.Send,
		func() (Timestamp, error) { return c.Receive(NewTimestamp(1500, 2, "r")) },
		c.Send,
		func() (Timestamp, error) { wall.now = 800; return c.Send() }, // regression
		func() (Timestamp, error) { wall.now = 2000; return c.Send() },
		func() (Timestamp, error) { return c.Receive(NewTimestamp(2000, 7, "r")) },
	}

	for i, step := range steps {
		ts, err := step()
		require.NoError(t, err, "step %d", i)
		assert.GreaterOrEqual(t, Compare(ts, prev), 0, "step %d must not go backwards", i)
		prev = ts
	}
}

func TestClockSentinelsPinnedToNode(t *testing.T) {
	wall := &manualClock{now: 1000}
	c := newTestClock(t, wall)

	assert.Equal(t, "local", c.Min().NodeID())
	assert.Equal(t, "local", c.Max().NodeID())
	assert.EqualValues(t, 0, c.Min().WallTime())
	assert.Equal(t, MaxWallTime, c.Max().WallTime())
	assert.Equal(t, MaxCounter, c.Max().Counter())
}

// capturingCollector counts metric callbacks for assertions.
type capturingCollector struct {
	sends    int
	receives int
	errs     map[errors.ErrorCode]int
}

func (m *capturingCollector) RecordSend(Timestamp)    { m.sends++ }
func (m *capturingCollector) RecordReceive(Timestamp) { m.receives++ }
func (m *capturingCollector) RecordError(op errors.Operation, code errors.ErrorCode) {
	if m.errs == nil {
		m.errs = map[errors.ErrorCode]int{}
	}
	m.errs[code]++
}

func TestMetricsCollectorObservesOperations(t *testing.T) {
	wall := &manualClock{now: 1000}
	collector := &capturingCollector{}
	c := newTestClock(t, wall,
		WithInitialTimestamp(NewTimestamp(1000, 0, "")),
		WithMaxDrift(100*time.Millisecond),
		WithMetrics(collector),
	)

	_, err := c.Send()
	require.NoError(t, err)
	_, err = c.Receive(NewTimestamp(1000, 3, "r"))
	require.NoError(t, err)
	_, err = c.Receive(NewTimestamp(9000, 0, "r"))
	require.Error(t, err)

	assert.Equal(t, 1, collector.sends)
	assert.Equal(t, 1, collector.receives)
	assert.Equal(t, 1, collector.errs[errors.ErrCodeClockDrift])
}
