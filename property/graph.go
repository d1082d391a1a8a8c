package property

import mapset "github.com/deckarep/golang-set/v2"

// Graph is the runtime context for one UI thread's reactive state. It
// carries the currently evaluating dependency holder so that property
// reads can register themselves, plus the queue of change trackers
// waiting for notification.
//
// A Graph and everything created from it must be used from a single
// goroutine. The supported way to touch properties from elsewhere is
// the eventloop package.
type Graph struct {
	current        *holder
	paused         bool
	pendingChanges []*ChangeTracker
}

func NewGraph() *Graph {
	return &Graph{}
}

// CyclicBindingError is the panic payload raised when a binding ends up
// reading the property it computes, directly or through other bindings.
type CyclicBindingError struct{}

func (e *CyclicBindingError) Error() string {
	return "property: binding depends on its own value"
}

// depList is the set of holders that read a node and must be dirtied
// when it changes.
type depList struct {
	deps mapset.Set[*holder]
}

func newDepList() depList {
	return depList{deps: mapset.NewThreadUnsafeSet[*holder]()}
}

func (d *depList) markDirty() {
	// snapshot: dirty handlers may mutate the set while we walk it
	for _, h := range d.deps.ToSlice() {
		h.markDirty()
	}
}

// holder is the evaluation side of the graph: one per installed binding
// and one per tracker. It remembers which depLists it is registered in
// so re-evaluation can unregister from all of them first.
type holder struct {
	g          *Graph
	dirty      bool
	evaluating bool
	sources    mapset.Set[*depList]
	dependents *depList
	onDirty    func()
}

func newHolder(g *Graph, dependents *depList) *holder {
	return &holder{
		g:          g,
		sources:    mapset.NewThreadUnsafeSet[*depList](),
		dependents: dependents,
	}
}

func (h *holder) markDirty() {
	if h.dirty {
		return
	}
	h.dirty = true
	if h.onDirty != nil {
		h.onDirty()
	}
	if h.dependents != nil {
		h.dependents.markDirty()
	}
}

func (h *holder) detachSources() {
	for _, s := range h.sources.ToSlice() {
		s.deps.Remove(h)
	}
	h.sources.Clear()
}

// evaluate runs fn with h as the current dependency holder, re-tracking
// h's sources from scratch. h stays dirty if fn panics, so a failed
// binding is retried on the next read instead of caching a torn value.
func (g *Graph) evaluate(h *holder, fn func()) {
	if h.evaluating {
		panic(&CyclicBindingError{})
	}
	h.detachSources()
	prev, prevPaused := g.current, g.paused
	g.current = h
	g.paused = false
	h.evaluating = true
	defer func() {
		h.evaluating = false
		g.current = prev
		g.paused = prevPaused
	}()
	fn()
	h.dirty = false
}

// registerDependency links the given depList to whatever is currently
// evaluating, in both directions.
func (g *Graph) registerDependency(d *depList) {
	if g.current == nil || g.paused {
		return
	}
	d.deps.Add(g.current)
	g.current.sources.Add(d)
}

// EvaluateNoTracking runs fn with dependency capture paused: property
// reads inside fn do not register with the surrounding evaluation.
func (g *Graph) EvaluateNoTracking(fn func()) {
	prev := g.paused
	g.paused = true
	defer func() { g.paused = prev }()
	fn()
}

// IsTracking reports whether a read right now would be captured.
func (g *Graph) IsTracking() bool {
	return g.current != nil && !g.paused
}

func (g *Graph) queueChange(c *ChangeTracker) {
	g.pendingChanges = append(g.pendingChanges, c)
}

// RunChangeHandlers drains the change-tracker queue, re-evaluating each
// queued tracker and notifying those whose value actually changed.
// Handlers that dirty further change trackers are picked up in the same
// call. The event loop runs this once per iteration, before timers.
func (g *Graph) RunChangeHandlers() {
	for len(g.pendingChanges) > 0 {
		pending := g.pendingChanges
		g.pendingChanges = nil
		for _, c := range pending {
			if c.dropped {
				continue
			}
			c.run()
		}
	}
}
