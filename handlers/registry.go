package handlers

import (
	"log/slog"
	"sync"

	"iotview/models"
	"iotview/viewer"
)

// Registry tracks the live telemetry viewers the web front-end has opened,
// at most one per connection id. It stands in for the per-screen viewer
// instance the interactive front-end gets for free.
type Registry struct {
	windowSize int
	logger     *slog.Logger

	mu      sync.Mutex
	viewers map[string]*viewer.Viewer
}

func NewRegistry(windowSize int, logger *slog.Logger) *Registry {
	return &Registry{
		windowSize: windowSize,
		logger:     logger,
		viewers:    make(map[string]*viewer.Viewer),
	}
}

// Open returns the viewer for a connection, creating it on first use, and
// starts a broker session. Connect itself rejects a session that is not
// disconnected.
func (r *Registry) Open(conn *models.Connection) (*viewer.Viewer, error) {
	r.mu.Lock()
	v, ok := r.viewers[conn.ConnectionID]
	if !ok {
		v = viewer.New(conn, viewer.Options{WindowSize: r.windowSize}, r.logger)
		r.viewers[conn.ConnectionID] = v
	}
	r.mu.Unlock()

	if err := v.Connect(); err != nil {
		return nil, err
	}
	return v, nil
}

// Get returns the viewer for a connection id if one has been opened.
func (r *Registry) Get(id string) (*viewer.Viewer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.viewers[id]
	return v, ok
}

// Close tears down the viewer for a connection id. Unknown ids are a no-op.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	v, ok := r.viewers[id]
	delete(r.viewers, id)
	r.mu.Unlock()

	if ok {
		v.Close()
	}
}

// CloseAll tears down every open viewer; called on server shutdown so no
// broker session outlives the process.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	viewers := make([]*viewer.Viewer, 0, len(r.viewers))
	for id, v := range r.viewers {
		viewers = append(viewers, v)
		delete(r.viewers, id)
	}
	r.mu.Unlock()

	for _, v := range viewers {
		v.Close()
	}
}
