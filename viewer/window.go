package viewer

import "iotview/models"

// DefaultWindowSize is the retained message count: the ten previous
// messages plus the newest arrival. This is the documented behavior, kept
// as the literal.
const DefaultWindowSize = 11

// Window is a fixed-capacity, newest-first buffer of telemetry messages.
// It is not safe for concurrent use; the viewer event loop is its only
// writer.
type Window struct {
	size int
	msgs []*models.Message
}

func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{size: size}
}

// Push prepends a message and truncates to capacity, evicting the oldest.
func (w *Window) Push(msg *models.Message) {
	w.msgs = append([]*models.Message{msg}, w.msgs...)
	if len(w.msgs) > w.size {
		w.msgs = w.msgs[:w.size]
	}
}

func (w *Window) Len() int {
	return len(w.msgs)
}

// Snapshot returns a newest-first copy safe to hand to projections while
// the window keeps mutating.
func (w *Window) Snapshot() []*models.Message {
	out := make([]*models.Message, len(w.msgs))
	copy(out, w.msgs)
	return out
}
