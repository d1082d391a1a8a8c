package vrc

// Mapped is a strong handle to a sub-object of a refcounted aggregate:
// an item inside a component, say. It keeps the whole parent alive.
type Mapped[T, U any] struct {
	parent Rc[T]
	obj    *U
}

// Map projects a strong handle onto a sub-object. The returned Mapped
// owns its own strong reference to the parent.
func Map[T, U any](r Rc[T], project func(*T) *U) Mapped[T, U] {
	strong := r.Clone()
	return Mapped[T, U]{parent: strong, obj: project(strong.Value())}
}

func (m Mapped[T, U]) Value() *U {
	return m.obj
}

// Parent returns the owning handle, borrowed from the Mapped; do not
// Drop it separately.
func (m Mapped[T, U]) Parent() Rc[T] {
	return m.parent
}

func (m Mapped[T, U]) Drop() {
	m.parent.Drop()
}

func (m Mapped[T, U]) Downgrade() WeakMapped[T, U] {
	return WeakMapped[T, U]{parent: m.parent.Downgrade(), obj: m.obj}
}

// WeakMapped upgrades back to a Mapped exactly when the parent is
// still alive.
type WeakMapped[T, U any] struct {
	parent Weak[T]
	obj    *U
}

func (w WeakMapped[T, U]) Upgrade() (Mapped[T, U], bool) {
	rc, ok := w.parent.Upgrade()
	if !ok {
		return Mapped[T, U]{}, false
	}
	return Mapped[T, U]{parent: rc, obj: w.obj}, true
}

func (w WeakMapped[T, U]) Drop() {
	w.parent.Drop()
}
