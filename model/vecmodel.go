package model

import "github.com/delaneyj/uiparty/property"

// VecModel is the slice-backed model. Every mutation goes through the
// Notify so tracked consumers and peers hear about it.
type VecModel[T any] struct {
	notify *Notify
	items  []T
}

func NewVecModel[T any](g *property.Graph, items ...T) *VecModel[T] {
	return &VecModel[T]{notify: NewNotify(g), items: items}
}

func (m *VecModel[T]) RowCount() int {
	return len(m.items)
}

func (m *VecModel[T]) RowData(row int) (T, bool) {
	if row < 0 || row >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.items[row], true
}

func (m *VecModel[T]) SetRowData(row int, value T) {
	if row < 0 || row >= len(m.items) {
		return
	}
	m.items[row] = value
	m.notify.RowChanged(row)
}

func (m *VecModel[T]) Tracker() *Notify {
	return m.notify
}

func (m *VecModel[T]) Push(value T) {
	m.items = append(m.items, value)
	m.notify.RowAdded(len(m.items)-1, 1)
}

func (m *VecModel[T]) Insert(index int, value T) {
	m.items = append(m.items, value)
	copy(m.items[index+1:], m.items[index:])
	m.items[index] = value
	m.notify.RowAdded(index, 1)
}

// Remove takes out one row and returns it.
func (m *VecModel[T]) Remove(index int) T {
	value := m.items[index]
	m.items = append(m.items[:index], m.items[index+1:]...)
	m.notify.RowRemoved(index, 1)
	return value
}

// SetVec replaces the whole backing slice.
func (m *VecModel[T]) SetVec(items []T) {
	m.items = items
	m.notify.Reset()
}

func (m *VecModel[T]) Extend(items ...T) {
	if len(items) == 0 {
		return
	}
	start := len(m.items)
	m.items = append(m.items, items...)
	m.notify.RowAdded(start, len(items))
}
