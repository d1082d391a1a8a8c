package eventloop

import "github.com/delaneyj/uiparty/vrc"

// WeakHandle pairs a weak component reference with the loop that owns
// the component, so worker goroutines can reach back into UI state
// without holding it alive or touching it off-thread.
type WeakHandle[T any] struct {
	l *Loop
	w vrc.Weak[T]
}

// NewWeakHandle downgrades rc; the handle owns the weak count and must
// be Dropped.
func NewWeakHandle[T any](l *Loop, rc vrc.Rc[T]) WeakHandle[T] {
	return WeakHandle[T]{l: l, w: rc.Downgrade()}
}

func (h WeakHandle[T]) Loop() *Loop { return h.l }

// UpgradeInLoop posts an upgrade-then-call to the loop. If the payload
// died by the time the task runs, fn is not called. Safe from any
// goroutine.
func (h WeakHandle[T]) UpgradeInLoop(fn func(vrc.Rc[T])) {
	h.l.Post(func() {
		rc, ok := h.w.Upgrade()
		if !ok {
			return
		}
		defer rc.Drop()
		fn(rc)
	})
}

func (h WeakHandle[T]) Drop() {
	h.w.Drop()
}
