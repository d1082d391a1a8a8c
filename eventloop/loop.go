// Package eventloop runs the UI thread: a FIFO task queue other
// goroutines post into, timer dispatch, change-handler flushing, and
// window-liveness tracking that decides when Run returns.
package eventloop

import (
	"sync"
	"time"

	"github.com/delaneyj/uiparty/property"
	"github.com/delaneyj/uiparty/timer"
)

type Options struct {
	// Clock drives timer scheduling; nil means the system clock.
	Clock timer.Clock
	// Graph, when set, gets its change handlers flushed every
	// iteration.
	Graph *property.Graph
}

// Loop owns one UI thread. Post and Quit are safe from any goroutine;
// everything else belongs to the goroutine calling Run.
type Loop struct {
	clock timer.Clock
	graph *property.Graph
	queue *timer.Queue

	mu        sync.Mutex
	tasks     []func()
	quit      bool
	shown     int
	everShown bool

	wake chan struct{}
}

func New(opts Options) *Loop {
	clock := opts.Clock
	if clock == nil {
		clock = timer.SystemClock()
	}
	return &Loop{
		clock: clock,
		graph: opts.Graph,
		queue: timer.NewQueue(clock),
		wake:  make(chan struct{}, 1),
	}
}

func (l *Loop) Timers() *timer.Queue { return l.queue }

func (l *Loop) Graph() *property.Graph { return l.graph }

// Post queues fn to run on the loop goroutine and wakes the loop.
// Tasks run in posting order. Safe from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	l.wakeUp()
}

// Invoke posts fn and blocks until it ran, returning its result. A
// panic inside fn is transported back and re-raised in the caller.
// Must not be called from the loop goroutine itself; that deadlocks,
// just call fn.
func Invoke[R any](l *Loop, fn func() R) R {
	var (
		result   R
		pan      any
		panicked bool
	)
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		defer func() {
			if p := recover(); p != nil {
				pan = p
				panicked = true
			}
		}()
		result = fn()
	})
	<-done
	if panicked {
		panic(pan)
	}
	return result
}

// Quit makes Run return after the current iteration. Safe from any
// goroutine.
func (l *Loop) Quit() {
	l.mu.Lock()
	l.quit = true
	l.mu.Unlock()
	l.wakeUp()
}

// Run processes the loop until Quit is called, or until every window
// that was shown has been hidden again and the task queue drained.
// It can be called again afterwards.
func (l *Loop) Run() {
	for {
		l.processTasks()
		l.UpdateTimersAndAnimations()

		l.mu.Lock()
		stop := l.quit || (l.everShown && l.shown == 0 && len(l.tasks) == 0)
		if stop {
			l.quit = false
			l.everShown = false
			l.mu.Unlock()
			return
		}
		l.mu.Unlock()

		if d, ok := l.queue.DurationUntilNextUpdate(l.clock.Now()); ok {
			if d <= 0 {
				continue
			}
			sleep := time.NewTimer(d)
			select {
			case <-l.wake:
				sleep.Stop()
			case <-sleep.C:
			}
		} else {
			<-l.wake
		}
	}
}

// UpdateTimersAndAnimations performs one dispatch pass by hand: change
// handlers first, then due timers. Hosts that embed the loop in their
// own scheduler call this plus DurationUntilNextUpdate instead of Run.
func (l *Loop) UpdateTimersAndAnimations() {
	if l.graph != nil {
		l.graph.RunChangeHandlers()
	}
	l.queue.MaybeActivateTimers(l.clock.Now())
}

func (l *Loop) processTasks() {
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return
		}
		tasks := l.tasks
		l.tasks = nil
		l.mu.Unlock()
		for _, fn := range tasks {
			fn()
		}
	}
}

func (l *Loop) wakeUp() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
