package property

// Property is a value cell that can either hold a plain value or
// compute one through a binding. Reads inside a binding or tracker
// evaluation register the property as a dependency; writes mark all
// dependents transitively dirty. Bindings are lazy: a dirty binding is
// only re-run when the property is next read, and every run re-tracks
// its dependencies from scratch.
type Property[T comparable] struct {
	g       *Graph
	value   T
	deps    depList
	binding *holder
	eval    func() T

	constant bool

	// two-way endpoints forward writes to the shared common property
	redirectSet        func(T) bool
	redirectSetBinding func(func() T) bool
	twoWayCommon       *Property[T]
}

func New[T comparable](g *Graph, value T) *Property[T] {
	return &Property[T]{g: g, value: value, deps: newDepList()}
}

// NewComputed returns a property born with a binding installed.
func NewComputed[T comparable](g *Graph, fn func() T) *Property[T] {
	var zero T
	p := New(g, zero)
	p.SetBinding(fn)
	return p
}

// Get evaluates the binding if it is dirty, registers the property as a
// dependency of the currently evaluating binding or tracker, and
// returns the value.
func (p *Property[T]) Get() T {
	p.update()
	if !p.constant {
		p.g.registerDependency(&p.deps)
	}
	return p.value
}

// GetUntracked reads the value without registering a dependency.
func (p *Property[T]) GetUntracked() T {
	p.update()
	return p.value
}

// Set removes any binding and stores the value. Dependents are only
// dirtied when the value actually differs.
func (p *Property[T]) Set(value T) {
	if p.redirectSet != nil && p.redirectSet(value) {
		return
	}
	p.removeBinding()
	if p.value != value {
		p.value = value
		p.deps.markDirty()
	}
}

// SetBinding installs fn as the property's binding and dirties all
// dependents. The binding is not evaluated until the next Get.
func (p *Property[T]) SetBinding(fn func() T) {
	if p.redirectSetBinding != nil && p.redirectSetBinding(fn) {
		return
	}
	p.installBinding(fn)
	p.deps.markDirty()
}

// HasBinding reports whether a binding is installed.
func (p *Property[T]) HasBinding() bool {
	return p.binding != nil
}

// IsDirty reports whether the binding would re-run on the next read.
func (p *Property[T]) IsDirty() bool {
	return p.binding != nil && p.binding.dirty
}

// MarkDirty tells dependents the value changed behind the engine's
// back (in-place mutation through a pointer, say).
func (p *Property[T]) MarkDirty() {
	p.deps.markDirty()
}

// SetConstant promises the property will never change again. Later
// reads skip dependency registration entirely.
func (p *Property[T]) SetConstant() {
	p.constant = true
}

func (p *Property[T]) update() {
	if p.binding == nil || !p.binding.dirty {
		return
	}
	p.g.evaluate(p.binding, func() {
		p.value = p.eval()
	})
}

func (p *Property[T]) installBinding(fn func() T) {
	if p.binding != nil {
		p.binding.detachSources()
	} else {
		p.binding = newHolder(p.g, &p.deps)
	}
	p.binding.dirty = true
	p.eval = fn
	p.redirectSet = nil
	p.redirectSetBinding = nil
	p.twoWayCommon = nil
}

func (p *Property[T]) removeBinding() {
	if p.binding == nil {
		return
	}
	p.binding.detachSources()
	p.binding = nil
	p.eval = nil
	p.redirectSet = nil
	p.redirectSetBinding = nil
	p.twoWayCommon = nil
}

// LinkTwoWay makes a and b always hold the same value. The shared state
// lives in a hidden common property seeded from b: if b had a binding
// it keeps driving both endpoints. Afterwards Set and SetBinding on
// either endpoint are forwarded to the common property, so the link
// survives later writes. Whatever binding a had is dropped.
func LinkTwoWay[T comparable](a, b *Property[T]) {
	common := b.twoWayCommon
	if common == nil {
		common = New(b.g, b.value)
		if b.binding != nil {
			// move b's binding into the common property wholesale,
			// existing source links and dirtiness included
			common.binding = b.binding
			common.eval = b.eval
			common.binding.dependents = &common.deps
			b.binding = nil
			b.eval = nil
		}
	}
	makeTwoWay(a, common)
	makeTwoWay(b, common)
}

func makeTwoWay[T comparable](p, common *Property[T]) {
	p.removeBinding()
	p.installBinding(common.Get)
	p.redirectSet = func(v T) bool {
		common.Set(v)
		return true
	}
	p.redirectSetBinding = func(fn func() T) bool {
		common.SetBinding(fn)
		return true
	}
	p.twoWayCommon = common
	p.deps.markDirty()
}
