// Package model provides row models whose consumers are invalidated
// through the property graph: a view evaluates row count and row data
// inside a tracker, registers interest through the model's Notify, and
// goes dirty when the model changes.
package model

// Model is a list of rows of type T.
type Model[T any] interface {
	RowCount() int
	// RowData reports false for an out-of-range row.
	RowData(row int) (T, bool)
	// SetRowData replaces one row in place. Models backed by a
	// computation may ignore it.
	SetRowData(row int, value T)
	// Tracker exposes the model's invalidation hub.
	Tracker() *Notify
}

// RowDataTracked reads a row and registers the current evaluation for
// changes to that row in one call.
func RowDataTracked[T any](m Model[T], row int) (T, bool) {
	m.Tracker().TrackRowDataChanges(row)
	return m.RowData(row)
}
