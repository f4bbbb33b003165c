package engine

import "github.com/legatoproject/datahub/internal/tree"

// flushPending walks e and its descendants depth-first, delivering
// each resource's single collapsed pending sample (spec §4.6). The
// barrier has already been marked inactive by the caller, so each
// delivery runs the ordinary push pipeline.
func (h *Hub) flushPending(e *tree.Entry, flushed *int) {
	base := baseOf(e.Body())
	if base != nil && base.Pending != nil {
		pending := *base.Pending
		base.Pending = nil
		*flushed++
		_ = h.pushToEntry(e, pending, "")
	}
	for _, c := range e.Children(false) {
		h.flushPending(c, flushed)
	}
}
