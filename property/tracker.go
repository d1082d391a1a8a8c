package property

// Tracker is a valueless dependency observer: it evaluates a closure,
// records every property read inside it, and turns dirty when any of
// them later changes. A fresh tracker starts dirty.
//
// Trackers nest: evaluating an inner tracker inside an outer evaluation
// registers the inner tracker as a dependency of the outer one, so
// dirtiness flows upward. EvaluateAsDependencyRoot breaks that chain.
type Tracker struct {
	g    *Graph
	h    *holder
	deps depList
}

func NewTracker(g *Graph) *Tracker {
	t := &Tracker{g: g, deps: newDepList()}
	t.h = newHolder(g, &t.deps)
	t.h.dirty = true
	return t
}

// NewTrackerWithDirtyHandler calls onDirty every time the tracker goes
// from clean to dirty. Further writes while already dirty do not call
// it again; the next Evaluate re-arms it.
func NewTrackerWithDirtyHandler(g *Graph, onDirty func()) *Tracker {
	t := NewTracker(g)
	t.h.onDirty = onDirty
	return t
}

// Evaluate runs fn, capturing its property reads, and registers the
// tracker itself with any surrounding evaluation.
func (t *Tracker) Evaluate(fn func()) {
	t.g.registerDependency(&t.deps)
	t.EvaluateAsDependencyRoot(fn)
}

// EvaluateAsDependencyRoot runs fn capturing reads but does not
// register with the surrounding evaluation, so outer scopes stay clean
// when this tracker's dependencies change.
func (t *Tracker) EvaluateAsDependencyRoot(fn func()) {
	t.g.evaluate(t.h, fn)
}

// EvaluateIfDirty runs fn only when the tracker is dirty and reports
// whether it ran. The tracker registers with the surrounding evaluation
// either way.
func (t *Tracker) EvaluateIfDirty(fn func()) bool {
	t.g.registerDependency(&t.deps)
	if !t.h.dirty {
		return false
	}
	t.EvaluateAsDependencyRoot(fn)
	return true
}

func (t *Tracker) IsDirty() bool {
	return t.h.dirty
}

// SetDirty dirties the tracker by hand and propagates to whoever
// depends on it.
func (t *Tracker) SetDirty() {
	t.h.markDirty()
}

// Drop detaches the tracker from all its sources and dependents.
// Dropping a tracker that other evaluations still reference is safe;
// they simply stop hearing from it.
func (t *Tracker) Drop() {
	t.h.detachSources()
	t.h.onDirty = nil
	t.deps.deps.Clear()
}
