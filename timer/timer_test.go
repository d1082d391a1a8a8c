package timer_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/uiparty/timer"
)

func newTestQueue() (*timer.Queue, *timer.FakeClock) {
	clock := timer.NewFakeClock(time.Unix(1000, 0))
	return timer.NewQueue(clock), clock
}

// step advances the clock in small increments, dispatching after each,
// the way a host loop would.
func step(q *timer.Queue, clock *timer.FakeClock, total, inc time.Duration) {
	for elapsed := time.Duration(0); elapsed < total; elapsed += inc {
		clock.Advance(inc)
		q.MaybeActivateTimers(clock.Now())
	}
}

func TestRepeatedTimerFires(t *testing.T) {
	q, clock := newTestQueue()

	fired := 0
	tm := q.NewTimer()
	tm.Start(timer.Repeated, 30*time.Millisecond, func() { fired++ })

	step(q, clock, 500*time.Millisecond, 10*time.Millisecond)
	assert.Greater(t, fired, 1)
	assert.True(t, tm.Running())
}

func TestSingleShotFiresOnce(t *testing.T) {
	q, clock := newTestQueue()

	fired := 0
	tm := q.NewTimer()
	tm.Start(timer.SingleShot, 50*time.Millisecond, func() {
		fired++
		assert.False(t, tm.Running(), "not running inside its own callback")
	})
	require.True(t, tm.Running())

	step(q, clock, 300*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.False(t, tm.Running())
}

func TestRestartReactivatesStoppedTimer(t *testing.T) {
	q, clock := newTestQueue()

	fired := 0
	tm := q.NewTimer()
	tm.Start(timer.SingleShot, 50*time.Millisecond, func() { fired++ })

	step(q, clock, 100*time.Millisecond, 10*time.Millisecond)
	require.Equal(t, 1, fired)
	require.False(t, tm.Running())

	tm.Restart()
	assert.True(t, tm.Running())
	step(q, clock, 100*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, 2, fired)
}

func TestStopPreventsFiring(t *testing.T) {
	q, clock := newTestQueue()

	fired := 0
	tm := q.NewTimer()
	tm.Start(timer.Repeated, 30*time.Millisecond, func() { fired++ })

	step(q, clock, 100*time.Millisecond, 10*time.Millisecond)
	require.Greater(t, fired, 0)
	was := fired

	tm.Stop()
	assert.False(t, tm.Running())
	step(q, clock, 200*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, was, fired)
}

func TestLateDispatchFiresOnce(t *testing.T) {
	q, clock := newTestQueue()

	fired := 0
	tm := q.NewTimer()
	tm.Start(timer.Repeated, 10*time.Millisecond, func() { fired++ })

	// the host loop stalled for ten periods: one fire, no burst
	clock.Advance(100 * time.Millisecond)
	q.MaybeActivateTimers(clock.Now())
	assert.Equal(t, 1, fired)

	// re-armed relative to the late dispatch, not the old schedule
	next, ok := q.NextTimeout()
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(10*time.Millisecond), next)
}

func TestRepeatedRunningInsideCallback(t *testing.T) {
	q, clock := newTestQueue()

	tm := q.NewTimer()
	tm.Start(timer.Repeated, 20*time.Millisecond, func() {
		// already re-armed by the time the callback runs
		assert.True(t, tm.Running())
	})
	clock.Advance(20 * time.Millisecond)
	q.MaybeActivateTimers(clock.Now())
}

func TestStopFromOwnCallback(t *testing.T) {
	q, clock := newTestQueue()

	fired := 0
	tm := q.NewTimer()
	tm.Start(timer.Repeated, 20*time.Millisecond, func() {
		fired++
		tm.Stop()
	})

	step(q, clock, 200*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.False(t, tm.Running())
}

func TestRestartFromOwnCallbackWinsOverRearm(t *testing.T) {
	q, clock := newTestQueue()

	tm := q.NewTimer()
	tm.Start(timer.Repeated, 20*time.Millisecond, func() {
		tm.SetInterval(100 * time.Millisecond)
		tm.Restart()
	})
	clock.Advance(20 * time.Millisecond)
	q.MaybeActivateTimers(clock.Now())

	next, ok := q.NextTimeout()
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(100*time.Millisecond), next)
}

func TestTimerStartedDuringDispatchWaits(t *testing.T) {
	q, clock := newTestQueue()

	lateFired := 0
	tm := q.NewTimer()
	late := q.NewTimer()
	tm.Start(timer.SingleShot, 10*time.Millisecond, func() {
		late.Start(timer.SingleShot, 0, func() { lateFired++ })
	})

	clock.Advance(10 * time.Millisecond)
	q.MaybeActivateTimers(clock.Now())
	assert.Equal(t, 0, lateFired, "same pass must not fire it")

	q.MaybeActivateTimers(clock.Now())
	assert.Equal(t, 1, lateFired)
}

func TestSingleShotConvenience(t *testing.T) {
	q, clock := newTestQueue()

	fired := 0
	q.SingleShot(40*time.Millisecond, func() { fired++ })

	step(q, clock, 200*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, 1, fired)

	_, ok := q.NextTimeout()
	assert.False(t, ok, "the anonymous timer released its slot")
}

func TestDestroyFromOwnCallback(t *testing.T) {
	q, clock := newTestQueue()

	fired := 0
	tm := q.NewTimer()
	tm.Start(timer.Repeated, 20*time.Millisecond, func() {
		fired++
		tm.Destroy()
	})

	step(q, clock, 100*time.Millisecond, 10*time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.False(t, tm.Running())
}

func TestNextTimeoutOrdering(t *testing.T) {
	q, clock := newTestQueue()

	a := q.NewTimer()
	b := q.NewTimer()
	a.Start(timer.SingleShot, 300*time.Millisecond, func() {})
	b.Start(timer.SingleShot, 100*time.Millisecond, func() {})

	next, ok := q.NextTimeout()
	require.True(t, ok)
	assert.Equal(t, clock.Now().Add(100*time.Millisecond), next)

	d, ok := q.DurationUntilNextUpdate(clock.Now())
	require.True(t, ok)
	assert.Equal(t, 100*time.Millisecond, d)

	clock.Advance(200 * time.Millisecond)
	d, ok = q.DurationUntilNextUpdate(clock.Now())
	require.True(t, ok)
	assert.Equal(t, time.Duration(0), d, "overdue clamps to zero")
}

func TestMaybeActivateTimersReportsWork(t *testing.T) {
	q, clock := newTestQueue()

	assert.False(t, q.MaybeActivateTimers(clock.Now()))

	tm := q.NewTimer()
	tm.Start(timer.SingleShot, 10*time.Millisecond, func() {})
	assert.False(t, q.MaybeActivateTimers(clock.Now()))

	clock.Advance(10 * time.Millisecond)
	assert.True(t, q.MaybeActivateTimers(clock.Now()))
}
