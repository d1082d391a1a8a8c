// Package callback provides the typed handler slot used for component
// events: at most one handler, invoked synchronously, with a zero
// return value when nothing is attached.
package callback

// Callback holds at most one handler taking T and returning R.
// Like properties, callbacks are UI-thread confined.
type Callback[T, R any] struct {
	handler func(T) R
}

// SetHandler installs fn, replacing any previous handler.
func (c *Callback[T, R]) SetHandler(fn func(T) R) {
	c.handler = fn
}

// Call invokes the handler with arg and returns its result, or the
// zero R when no handler is set.
func (c *Callback[T, R]) Call(arg T) R {
	if c.handler == nil {
		var zero R
		return zero
	}
	return c.handler(arg)
}

func (c *Callback[T, R]) HasHandler() bool {
	return c.handler != nil
}

// Reset drops the handler.
func (c *Callback[T, R]) Reset() {
	c.handler = nil
}
