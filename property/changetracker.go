package property

// ChangeTracker evaluates a closure, remembers the result, and calls a
// notify function when a later re-evaluation produces a different
// value. Re-evaluation happens in Graph.RunChangeHandlers, so several
// writes between two loop iterations collapse into at most one notify.
type ChangeTracker struct {
	g       *Graph
	tracker *Tracker
	run     func()
	queued  bool
	dropped bool
}

// NewChangeTracker evaluates eval once to capture dependencies and the
// initial value; notify is never called for that first evaluation.
func NewChangeTracker[V comparable](g *Graph, eval func() V, notify func(V)) *ChangeTracker {
	c := &ChangeTracker{g: g}
	c.tracker = NewTrackerWithDirtyHandler(g, func() {
		if c.queued || c.dropped {
			return
		}
		c.queued = true
		g.queueChange(c)
	})

	var prev V
	c.tracker.EvaluateAsDependencyRoot(func() {
		prev = eval()
	})

	c.run = func() {
		c.queued = false
		var next V
		c.tracker.EvaluateAsDependencyRoot(func() {
			next = eval()
		})
		if next != prev {
			prev = next
			notify(next)
		}
	}
	return c
}

// Drop detaches the change tracker; a queued notification is discarded.
func (c *ChangeTracker) Drop() {
	c.dropped = true
	c.tracker.Drop()
}
