package eventloop_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/delaneyj/uiparty/eventloop"
	"github.com/delaneyj/uiparty/property"
	"github.com/delaneyj/uiparty/timer"
	"github.com/delaneyj/uiparty/vrc"
)

// runLoop spins the loop on its own goroutine and returns a stop
// function that quits and waits for it.
func runLoop(l *eventloop.Loop) (stop func()) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.Run()
	}()
	return func() {
		l.Quit()
		<-done
	}
}

func TestInvokeReturnsValue(t *testing.T) {
	l := eventloop.New(eventloop.Options{})
	stop := runLoop(l)
	defer stop()

	got := eventloop.Invoke(l, func() int { return 42 })
	assert.Equal(t, 42, got)
}

func TestPostRunsInOrder(t *testing.T) {
	l := eventloop.New(eventloop.Options{})
	stop := runLoop(l)
	defer stop()

	var order []int
	for i := 0; i < 100; i++ {
		i := i
		l.Post(func() { order = append(order, i) })
	}

	got := eventloop.Invoke(l, func() []int {
		return append([]int(nil), order...)
	})
	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestInvokeOrderedWithPosts(t *testing.T) {
	l := eventloop.New(eventloop.Options{})
	stop := runLoop(l)
	defer stop()

	var order []string
	l.Post(func() { order = append(order, "post") })
	eventloop.Invoke(l, func() struct{} {
		order = append(order, "invoke")
		return struct{}{}
	})

	got := eventloop.Invoke(l, func() []string { return order })
	assert.Equal(t, []string{"post", "invoke"}, got)
}

func TestInvokePanicPropagates(t *testing.T) {
	l := eventloop.New(eventloop.Options{})
	stop := runLoop(l)
	defer stop()

	assert.PanicsWithValue(t, "boom", func() {
		eventloop.Invoke(l, func() int { panic("boom") })
	})

	// the loop survives a panicking invoke
	assert.Equal(t, 7, eventloop.Invoke(l, func() int { return 7 }))
}

func TestRunExitsWhenLastWindowHides(t *testing.T) {
	l := eventloop.New(eventloop.Options{})
	w := l.NewWindow()
	w.Show()
	require.True(t, w.Visible())

	ran := false
	l.Post(func() { w.Hide() })
	l.Post(func() { ran = true })

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		l.Run()
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit after last window hid")
	}
	assert.True(t, ran, "queued tasks drain before exit")
	assert.False(t, w.Visible())
}

func TestRunKeepsGoingWhileWindowShown(t *testing.T) {
	l := eventloop.New(eventloop.Options{})
	w := l.NewWindow()
	w.Show()

	second := l.NewWindow()
	l.Post(func() { second.Show() })
	l.Post(func() { w.Hide() })
	// still one window up, so this quits it instead
	l.Post(func() { l.Quit() })

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		l.Run()
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit on quit")
	}
	assert.True(t, second.Visible())
}

func TestTimersDriveTheLoop(t *testing.T) {
	l := eventloop.New(eventloop.Options{})

	fired := 0
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		l.Run()
	}()

	l.Post(func() {
		tick := l.Timers().NewTimer()
		tick.Start(timer.Repeated, 20*time.Millisecond, func() { fired++ })
		l.Timers().SingleShot(500*time.Millisecond, func() { l.Quit() })
	})

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not quit")
	}
	assert.Greater(t, fired, 1)
}

func TestManualDispatchWithFakeClock(t *testing.T) {
	clock := timer.NewFakeClock(time.Unix(0, 0))
	l := eventloop.New(eventloop.Options{Clock: clock})

	fired := 0
	tm := l.Timers().NewTimer()
	tm.Start(timer.Repeated, 30*time.Millisecond, func() { fired++ })

	d, ok := l.Timers().DurationUntilNextUpdate(clock.Now())
	require.True(t, ok)
	assert.Equal(t, 30*time.Millisecond, d)

	clock.Advance(30 * time.Millisecond)
	l.UpdateTimersAndAnimations()
	clock.Advance(30 * time.Millisecond)
	l.UpdateTimersAndAnimations()
	assert.Equal(t, 2, fired)
}

func TestLoopFlushesChangeHandlers(t *testing.T) {
	g := property.NewGraph()
	l := eventloop.New(eventloop.Options{Graph: g})
	stop := runLoop(l)

	var seen []int
	p := eventloop.Invoke(l, func() *property.Property[int] {
		p := property.New(g, 1)
		property.NewChangeTracker(g, p.Get, func(v int) {
			seen = append(seen, v)
		})
		return p
	})

	eventloop.Invoke(l, func() struct{} {
		p.Set(2)
		p.Set(3)
		return struct{}{}
	})
	stop()

	assert.Equal(t, []int{3}, seen, "writes collapse into one notification")
}

func TestWeakHandleUpgradeInLoop(t *testing.T) {
	type appState struct{ counter int }

	l := eventloop.New(eventloop.Options{})
	stop := runLoop(l)
	defer stop()

	rc := vrc.New(appState{})
	h := eventloop.NewWeakHandle(l, rc)

	// a worker goroutine reaches back into UI state
	worker := make(chan struct{})
	go func() {
		defer close(worker)
		h.UpgradeInLoop(func(rc vrc.Rc[appState]) {
			rc.Value().counter++
		})
	}()
	<-worker

	got := eventloop.Invoke(l, func() int { return rc.Value().counter })
	assert.Equal(t, 1, got)

	eventloop.Invoke(l, func() struct{} { rc.Drop(); return struct{}{} })

	called := false
	h.UpgradeInLoop(func(vrc.Rc[appState]) { called = true })
	eventloop.Invoke(l, func() struct{} { return struct{}{} })
	assert.False(t, called, "dead payloads are skipped")
	h.Drop()
}
