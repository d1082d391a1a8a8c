package model

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/uiparty/property"
	"github.com/delaneyj/uiparty/vrc"
)

// ChangeListener receives eager model-change notifications, for
// consumers like view adapters that mirror the rows instead of
// re-reading them lazily.
type ChangeListener interface {
	RowChanged(row int)
	RowAdded(index, count int)
	RowRemoved(index, count int)
	Reset()
}

// Peer is a weak handle on a ChangeListener. Dead peers fall out of
// the notify list on the next notification.
type Peer struct {
	w vrc.Weak[ChangeListener]
}

// NewPeer downgrades rc; the model never keeps listeners alive.
func NewPeer(rc vrc.Rc[ChangeListener]) Peer {
	return Peer{w: rc.Downgrade()}
}

// Notify is a model's invalidation hub. Dependency tracking is
// deliberately coarse: structural changes (add, remove, reset) dirty
// the row-count dependency and every tracked row, while an in-place
// row change dirties only that row and never the count.
type Notify struct {
	g        *property.Graph
	countDep *property.Dep
	rowDeps  map[int]*property.Dep
	peers    mapset.Set[Peer]
}

func NewNotify(g *property.Graph) *Notify {
	return &Notify{
		g:        g,
		countDep: property.NewDep(g),
		rowDeps:  map[int]*property.Dep{},
		peers:    mapset.NewThreadUnsafeSet[Peer](),
	}
}

// TrackRowCountChanges registers the current evaluation for structural
// changes.
func (n *Notify) TrackRowCountChanges() {
	n.countDep.Register()
}

// TrackRowDataChanges registers the current evaluation for changes to
// one row.
func (n *Notify) TrackRowDataChanges(row int) {
	dep, ok := n.rowDeps[row]
	if !ok {
		dep = property.NewDep(n.g)
		n.rowDeps[row] = dep
	}
	dep.Register()
}

// AttachPeer subscribes a listener weakly.
func (n *Notify) AttachPeer(p Peer) {
	n.peers.Add(p)
}

// RowChanged reports an in-place update of one row.
func (n *Notify) RowChanged(row int) {
	if dep, ok := n.rowDeps[row]; ok {
		dep.Invalidate()
	}
	n.forEachPeer(func(l ChangeListener) { l.RowChanged(row) })
}

// RowAdded reports count rows inserted starting at index.
func (n *Notify) RowAdded(index, count int) {
	n.structuralChange()
	n.forEachPeer(func(l ChangeListener) { l.RowAdded(index, count) })
}

// RowRemoved reports count rows removed starting at index.
func (n *Notify) RowRemoved(index, count int) {
	n.structuralChange()
	n.forEachPeer(func(l ChangeListener) { l.RowRemoved(index, count) })
}

// Reset reports that everything may have changed.
func (n *Notify) Reset() {
	n.structuralChange()
	n.forEachPeer(func(l ChangeListener) { l.Reset() })
}

func (n *Notify) structuralChange() {
	n.countDep.Invalidate()
	// rows may have shifted under the tracked indices
	for _, dep := range n.rowDeps {
		dep.Invalidate()
	}
}

func (n *Notify) forEachPeer(fn func(ChangeListener)) {
	var dead []Peer
	for _, p := range n.peers.ToSlice() {
		rc, ok := p.w.Upgrade()
		if !ok {
			dead = append(dead, p)
			continue
		}
		fn(*rc.Value())
		rc.Drop()
	}
	for _, p := range dead {
		n.peers.Remove(p)
		p.w.Drop()
	}
}
