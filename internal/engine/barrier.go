package engine

import "github.com/legatoproject/datahub/internal/errors"

// AddUpdateStartEndHandler registers a callback invoked once per
// update-barrier transition (spec §4.6).
func (h *Hub) AddUpdateStartEndHandler(fn StartEndHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.startEndHandlers = append(h.startEndHandlers, fn)
}

// StartUpdate opens an update barrier. While active, routing and
// filter-setting changes still take effect immediately, but pushes
// collapse to a single pending sample per resource until EndUpdate
// flushes them (spec §4.6). Returns InProgress if a barrier is
// already open; the protocol is not reentrant.
func (h *Hub) StartUpdate() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.barrierActive {
		return errors.ErrInProgress
	}
	h.barrierActive = true
	for _, fn := range h.startEndHandlers {
		fn(true)
	}
	return nil
}

// EndUpdate closes the update barrier and flushes every resource's
// collapsed pending sample, visited in depth-first tree-discovery
// order (spec §4.6).
func (h *Hub) EndUpdate() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.barrierActive {
		return errors.ErrInProgress
	}
	h.barrierActive = false

	flushed := 0
	h.flushPending(h.root, &flushed)
	h.metrics.RecordBarrierFlush(flushed)

	for _, fn := range h.startEndHandlers {
		fn(false)
	}
	return nil
}
