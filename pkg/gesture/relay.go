package gesture

import "sync"

// Relay is an [InputAdapter] fed by an external event loop such as a
// terminal UI or a replayed script. Events reach the controller only while
// it is attached.
type Relay struct {
	mu      sync.Mutex
	handler Handler
}

// Attach implements [InputAdapter].
func (r *Relay) Attach(h Handler) {
	r.mu.Lock()
	r.handler = h
	r.mu.Unlock()
}

// Detach implements [InputAdapter].
func (r *Relay) Detach() {
	r.mu.Lock()
	r.handler = nil
	r.mu.Unlock()
}

// Attached reports whether a gesture is listening.
func (r *Relay) Attached() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handler != nil
}

// Move forwards a pointer-move. It reports whether anyone was listening.
func (r *Relay) Move(ev PointerEvent) bool {
	h := r.current()
	if h == nil {
		return false
	}
	h.PointerMove(ev)
	return true
}

// Up forwards a pointer-up. It reports whether anyone was listening.
func (r *Relay) Up(ev PointerEvent) bool {
	h := r.current()
	if h == nil {
		return false
	}
	h.PointerUp(ev)
	return true
}

func (r *Relay) current() Handler {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handler
}
