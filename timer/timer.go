// Package timer implements the deadline queue a host event loop drives:
// timers are registered in a Queue, the loop asks when the next one is
// due, sleeps, and then fires everything that expired in one pass.
package timer

import (
	"sort"
	"time"
)

type Mode int

const (
	// SingleShot timers fire once and deactivate.
	SingleShot Mode = iota
	// Repeated timers re-arm themselves on every fire.
	Repeated
)

type timerData struct {
	interval time.Duration
	mode     Mode
	fn       func()
	running  bool
	removed  bool
}

type activeTimer struct {
	id       int
	deadline time.Time
}

// Queue owns all timers of one event loop. It is not thread-safe;
// cross-thread code must go through the event loop's task queue.
type Queue struct {
	clock          Clock
	timers         map[int]*timerData
	active         []activeTimer // sorted by deadline
	nextID         int
	callbackActive int // id of the timer currently firing, 0 if none
}

func NewQueue(clock Clock) *Queue {
	if clock == nil {
		clock = SystemClock()
	}
	return &Queue{
		clock:  clock,
		timers: map[int]*timerData{},
	}
}

// Timer is a handle into a Queue. Its zero state is unregistered; the
// first Start registers it. Handles must be Destroyed to release their
// queue slot, the queue never forgets them on its own.
type Timer struct {
	q  *Queue
	id int
}

func (q *Queue) NewTimer() *Timer {
	return &Timer{q: q}
}

// Start arms the timer to call fn after interval, and every interval
// after that when mode is Repeated. Starting a running timer re-arms
// it from now.
func (t *Timer) Start(mode Mode, interval time.Duration, fn func()) {
	q := t.q
	if t.id == 0 {
		q.nextID++
		t.id = q.nextID
		q.timers[t.id] = &timerData{}
	}
	d := q.timers[t.id]
	d.mode = mode
	d.interval = interval
	d.fn = fn
	d.removed = false
	q.deactivate(t.id)
	q.activate(t.id)
}

// Stop deactivates the timer. The registration survives, so Restart
// can re-arm it with the same interval and callback.
func (t *Timer) Stop() {
	d := t.data()
	if d == nil {
		return
	}
	d.running = false
	t.q.deactivate(t.id)
}

// Restart re-arms the timer from now with its stored interval, whether
// or not it was running.
func (t *Timer) Restart() {
	if t.data() == nil {
		return
	}
	t.q.deactivate(t.id)
	t.q.activate(t.id)
}

// Running reports whether the timer is armed. Inside a single-shot
// callback it already reports false; inside a repeated callback the
// timer has been re-armed and reports true.
func (t *Timer) Running() bool {
	d := t.data()
	return d != nil && d.running
}

// SetInterval changes the period. A running timer is re-armed from now
// with the new interval; the callback is not invoked.
func (t *Timer) SetInterval(interval time.Duration) {
	d := t.data()
	if d == nil {
		return
	}
	d.interval = interval
	if d.running {
		t.q.deactivate(t.id)
		t.q.activate(t.id)
	}
}

// Destroy releases the timer's queue slot. Safe to call from the
// timer's own callback; the slot is reclaimed after the callback
// returns.
func (t *Timer) Destroy() {
	d := t.data()
	if d == nil {
		t.id = 0
		return
	}
	t.q.deactivate(t.id)
	if t.q.callbackActive == t.id {
		d.running = false
		d.removed = true
	} else {
		delete(t.q.timers, t.id)
	}
	t.id = 0
}

func (t *Timer) data() *timerData {
	if t.id == 0 {
		return nil
	}
	return t.q.timers[t.id]
}

// SingleShot fires fn once after d and releases the timer.
func (q *Queue) SingleShot(d time.Duration, fn func()) {
	t := q.NewTimer()
	t.Start(SingleShot, d, func() {
		fn()
		t.Destroy()
	})
}

func (q *Queue) deactivate(id int) {
	for i, a := range q.active {
		if a.id == id {
			q.active = append(q.active[:i], q.active[i+1:]...)
			break
		}
	}
}

func (q *Queue) activate(id int) {
	d := q.timers[id]
	q.insertActive(activeTimer{id: id, deadline: q.clock.Now().Add(d.interval)})
	d.running = true
}

func (q *Queue) insertActive(a activeTimer) {
	i := sort.Search(len(q.active), func(i int) bool {
		return q.active[i].deadline.After(a.deadline)
	})
	q.active = append(q.active, activeTimer{})
	copy(q.active[i+1:], q.active[i:])
	q.active[i] = a
}

// MaybeActivateTimers fires every timer whose deadline is at or before
// now and reports whether any fired. A repeated timer is re-armed
// relative to now before its callback runs, so a late dispatch fires
// once instead of bursting to catch up, and the callback may Stop or
// Restart its own timer and win over the automatic re-arm. Timers
// started during the pass wait for the next one.
func (q *Queue) MaybeActivateTimers(now time.Time) bool {
	n := 0
	for n < len(q.active) && !q.active[n].deadline.After(now) {
		n++
	}
	if n == 0 {
		return false
	}
	due := make([]activeTimer, n)
	copy(due, q.active[:n])
	q.active = append([]activeTimer(nil), q.active[n:]...)

	for _, a := range due {
		d := q.timers[a.id]
		if d == nil || d.removed || !d.running {
			continue
		}
		if d.mode == Repeated {
			q.insertActive(activeTimer{id: a.id, deadline: now.Add(d.interval)})
		} else {
			d.running = false
		}
		q.callbackActive = a.id
		d.fn()
		q.callbackActive = 0
		if d.removed {
			delete(q.timers, a.id)
		}
	}
	return true
}

// NextTimeout returns the earliest deadline, if any timer is armed.
func (q *Queue) NextTimeout() (time.Time, bool) {
	if len(q.active) == 0 {
		return time.Time{}, false
	}
	return q.active[0].deadline, true
}

// DurationUntilNextUpdate tells the host loop how long it may sleep,
// clamped at zero when a timer is already overdue.
func (q *Queue) DurationUntilNextUpdate(now time.Time) (time.Duration, bool) {
	deadline, ok := q.NextTimeout()
	if !ok {
		return 0, false
	}
	d := deadline.Sub(now)
	if d < 0 {
		d = 0
	}
	return d, true
}
