// Package vrc provides the strong/weak shared-ownership handles the
// runtime uses for component and model instances. Teardown happens in
// two phases: when the last strong handle drops, the payload is
// finalized and cleared; weak handles keep only the shared cell alive
// and can never revive a finalized payload.
//
// Handle counts are atomic, so handles may be cloned and dropped from
// any goroutine. The payload itself stays UI-thread confined.
package vrc

import "sync/atomic"

type cell[T any] struct {
	strong atomic.Int32
	weak   atomic.Int32
	value  T
	drop   func(*T)
}

// Rc is a strong handle. Copying the struct does not add a reference;
// use Clone. Every Rc must be balanced by exactly one Drop.
type Rc[T any] struct {
	c *cell[T]
}

func New[T any](value T) Rc[T] {
	return NewWithDrop(value, nil)
}

// NewWithDrop calls drop on the payload when the last strong handle
// goes away, before the payload is cleared.
func NewWithDrop[T any](value T, drop func(*T)) Rc[T] {
	c := &cell[T]{value: value, drop: drop}
	c.strong.Store(1)
	// the strong cohort collectively owns one weak count
	c.weak.Store(1)
	return Rc[T]{c: c}
}

// Value returns the payload. The pointer is only valid while a strong
// handle exists.
func (r Rc[T]) Value() *T {
	return &r.c.value
}

func (r Rc[T]) Clone() Rc[T] {
	r.c.strong.Add(1)
	return r
}

// Drop releases this strong reference. The last strong Drop finalizes
// and clears the payload, then releases the cohort's weak count.
func (r Rc[T]) Drop() {
	if r.c.strong.Add(-1) != 0 {
		return
	}
	if r.c.drop != nil {
		r.c.drop(&r.c.value)
	}
	var zero T
	r.c.value = zero
	dropWeakCount(r.c)
}

func (r Rc[T]) Downgrade() Weak[T] {
	r.c.weak.Add(1)
	return Weak[T]{c: r.c}
}

func StrongCount[T any](r Rc[T]) int {
	return int(r.c.strong.Load())
}

// PtrEq reports whether two handles share the same cell.
func PtrEq[T any](a, b Rc[T]) bool {
	return a.c == b.c
}

// Weak is a weak handle. The zero Weak never upgrades.
type Weak[T any] struct {
	c *cell[T]
}

// Upgrade returns a new strong handle if the payload is still alive.
// A CAS loop guards the count so a concurrent final Drop can never be
// resurrected.
func (w Weak[T]) Upgrade() (Rc[T], bool) {
	if w.c == nil {
		return Rc[T]{}, false
	}
	for {
		n := w.c.strong.Load()
		if n == 0 {
			return Rc[T]{}, false
		}
		if w.c.strong.CompareAndSwap(n, n+1) {
			return Rc[T]{c: w.c}, true
		}
	}
}

// Drop releases the weak reference.
func (w Weak[T]) Drop() {
	if w.c != nil {
		dropWeakCount(w.c)
	}
}

func dropWeakCount[T any](c *cell[T]) {
	// last weak count: nothing left pointing at the cell, the GC
	// reclaims it once the handles go out of scope
	c.weak.Add(-1)
}
