package eventloop

// Window is a top-level surface as far as loop liveness is concerned:
// Run keeps going while at least one window is shown. Show and Hide
// belong to the loop goroutine.
type Window struct {
	l       *Loop
	visible bool
}

func (l *Loop) NewWindow() *Window {
	return &Window{l: l}
}

func (w *Window) Show() {
	if w.visible {
		return
	}
	w.visible = true
	w.l.mu.Lock()
	w.l.shown++
	w.l.everShown = true
	w.l.mu.Unlock()
	w.l.wakeUp()
}

func (w *Window) Hide() {
	if !w.visible {
		return
	}
	w.visible = false
	w.l.mu.Lock()
	w.l.shown--
	w.l.mu.Unlock()
	w.l.wakeUp()
}

func (w *Window) Visible() bool {
	return w.visible
}
