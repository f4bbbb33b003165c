package engine

import (
	"strings"

	"github.com/legatoproject/datahub/internal/resource"
	"github.com/legatoproject/datahub/internal/sample"
	"github.com/legatoproject/datahub/internal/tree"
)

// RegisterDestinationHandler installs the callback invoked when an
// observation's external destination label matches name (spec §4.5).
func (h *Hub) RegisterDestinationHandler(name string, fn DestinationHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.destHandlers[name] = fn
}

// RemoveDestinationHandler removes a previously registered handler.
func (h *Hub) RemoveDestinationHandler(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.destHandlers, name)
}

// SetDestination sets an observation's external destination label
// (spec §4.5). A path-shaped label (leading "/") is resolved
// immediately into a source-link assignment on the referenced
// resource rather than stored as a label to invoke at push time; a
// non-path-shaped label is stored and triggers the registered
// DestinationHandler on every accepted sample.
func (h *Hub) SetDestination(obsPath, label string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.root.Find(obsPath, false)
	if err != nil {
		return err
	}
	ob, ok := e.Body().(*resource.ObservationBody)
	if !ok {
		return errNotObservation
	}

	if strings.HasPrefix(label, "/") {
		ob.DestinationLabel = ""
		return h.setSourceLocked(label, obsPath)
	}
	ob.DestinationLabel = label
	return nil
}

// deliverToDestination invokes the registered handler for a
// non-path-shaped destination label, passing the observation's path
// relative to the root (no leading "/") and the accepted value. The
// observation's JSON-extraction spec is not appended to the path.
func (h *Hub) deliverToDestination(e *tree.Entry, ob *resource.ObservationBody, out sample.Sample) {
	if ob.DestinationLabel == "" {
		return
	}
	fn, ok := h.destHandlers[ob.DestinationLabel]
	if !ok {
		return
	}
	path, err := h.root.RelativePath(e)
	if err != nil {
		return
	}
	fn(path, out)
}
