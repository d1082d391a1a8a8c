package model

// MapModel projects another model's rows through a function. It is
// stateless and read-only, and shares the source's Notify so tracking
// either model is equivalent.
type MapModel[T, U any] struct {
	source  Model[T]
	project func(T) U
}

func NewMapModel[T, U any](source Model[T], project func(T) U) *MapModel[T, U] {
	return &MapModel[T, U]{source: source, project: project}
}

func (m *MapModel[T, U]) RowCount() int {
	return m.source.RowCount()
}

func (m *MapModel[T, U]) RowData(row int) (U, bool) {
	v, ok := m.source.RowData(row)
	if !ok {
		var zero U
		return zero, false
	}
	return m.project(v), true
}

// SetRowData is a no-op; the projection has nowhere to write back to.
func (m *MapModel[T, U]) SetRowData(int, U) {}

func (m *MapModel[T, U]) Tracker() *Notify {
	return m.source.Tracker()
}
