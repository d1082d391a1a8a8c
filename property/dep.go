package property

// Dep is a bare dependency node: no value, no binding, just a hook for
// building invalidation on top of the graph. Model trackers use one Dep
// per tracked aspect.
type Dep struct {
	g    *Graph
	deps depList
}

func NewDep(g *Graph) *Dep {
	return &Dep{g: g, deps: newDepList()}
}

// Register makes the currently evaluating binding or tracker depend on
// this node. Outside an evaluation it does nothing.
func (d *Dep) Register() {
	d.g.registerDependency(&d.deps)
}

// Invalidate marks everything registered on this node dirty.
func (d *Dep) Invalidate() {
	d.deps.markDirty()
}
