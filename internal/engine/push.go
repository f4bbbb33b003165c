package engine

import (
	"github.com/legatoproject/datahub/internal/errors"
	"github.com/legatoproject/datahub/internal/resource"
	"github.com/legatoproject/datahub/internal/sample"
	"github.com/legatoproject/datahub/internal/tree"
)

// Push delivers incoming to the resource at path, running the full
// push pipeline (spec §4.3). A timestamp of 0 on incoming is replaced
// with the hub's current time before the pipeline runs.
func (h *Hub) Push(path string, incoming sample.Sample) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.root.Find(path, false)
	if err != nil {
		return err
	}
	if incoming.Timestamp() == 0 {
		incoming = incoming.WithTimestamp(h.resolveTS(0))
	}
	return h.pushToEntry(e, incoming, "")
}

// pushToEntry runs the pipeline against an already-resolved entry.
// sourceUnits is the units declared on the upstream resource this
// push arrived via a source link from, or "" for a direct
// caller-initiated push.
func (h *Hub) pushToEntry(e *tree.Entry, incoming sample.Sample, sourceUnits string) error {
	if h.barrierActive {
		h.bufferPending(e, incoming)
		return nil
	}

	switch e.Kind() {
	case tree.Namespace:
		return nil // dropped
	case tree.Input:
		return h.pushToInputOutput(e, e.Body().(*resource.InputBody).DataType, incoming)
	case tree.Output:
		return h.pushToInputOutput(e, e.Body().(*resource.OutputBody).DataType, incoming)
	case tree.Observation:
		return h.pushToObservation(e, incoming, sourceUnits)
	default:
		return errors.ErrNotFound
	}
}

func (h *Hub) pushToInputOutput(e *tree.Entry, declared sample.Type, incoming sample.Sample) error {
	coerced, err := sample.Coerce(incoming, declared)
	if err != nil {
		h.metrics.RecordPush(e.Kind().String(), false)
		h.metrics.RecordCoercionFailure(incoming.Type().String(), declared.String())
		return errors.ErrNoMemory
	}

	base := baseOf(e.Body())
	base.SetCurrent(coerced)
	e.Touch(coerced.Timestamp())
	if coerced.Type() == sample.JSON {
		e.MarkJSONExampleChanged()
	}
	base.Dispatch(coerced)
	h.metrics.RecordPush(e.Kind().String(), true)
	h.notifyDelta(e, coerced)

	h.propagate(e, coerced)
	return nil
}

func (h *Hub) pushToObservation(e *tree.Entry, incoming sample.Sample, sourceUnits string) error {
	ob := e.Body().(*resource.ObservationBody)

	result := ob.Filter(incoming, sourceUnits)
	if !result.Accepted {
		h.metrics.RecordFilterReject(result.RejectedRule)
		return nil // silent success, spec §7
	}

	out := ob.Accept(result.Sample)
	ob.DataType = out.Type()
	ob.SetCurrent(out)
	e.Touch(out.Timestamp())
	if out.Type() == sample.JSON {
		e.MarkJSONExampleChanged()
	}
	ob.Dispatch(out)
	h.metrics.RecordPush("observation", true)
	h.metrics.SetBufferSize(e.Name(), ob.Buffer.Len())

	h.scheduleBackup(e, ob, out.Timestamp())
	h.deliverToDestination(e, ob, out)
	h.notifyDelta(e, out)

	h.propagate(e, out)
	return nil
}

// propagate recursively pushes s to every resource whose declared
// Source is e, depth-first (spec §4.3). Because source links are
// acyclic by construction (enforced in routing.go), this always
// terminates. Pushes into an Input via a source link are silently
// ignored: Inputs only accept values from their creating app or
// explicit admin pushes (spec §4.5).
func (h *Hub) propagate(e *tree.Entry, s sample.Sample) {
	base := baseOf(e.Body())
	units := base.Units
	for _, dest := range base.Destinations {
		if dest.Kind() == tree.Input {
			continue
		}
		_ = h.pushToEntry(dest, s, units)
	}
}

// bufferPending collapses a push during an active update barrier into
// the single latest-pending sample for e (spec §4.6).
func (h *Hub) bufferPending(e *tree.Entry, s sample.Sample) {
	base := baseOf(e.Body())
	if base == nil {
		return
	}
	v := s
	base.Pending = &v
}

// baseOf extracts the common Base from whichever concrete body e
// holds, or nil for a Namespace.
func baseOf(b tree.Body) *resource.Base {
	switch v := b.(type) {
	case *resource.InputBody:
		return &v.Base
	case *resource.OutputBody:
		return &v.Base
	case *resource.ObservationBody:
		return &v.Base
	case *resource.PlaceholderBody:
		return &v.Base
	default:
		return nil
	}
}

// notifyDelta reports an accepted value change to the optional
// live-delta hook (internal/websocket), when one is wired.
func (h *Hub) notifyDelta(e *tree.Entry, s sample.Sample) {
	if h.onDelta == nil {
		return
	}
	path, err := h.root.RelativePath(e)
	if err != nil {
		return
	}
	h.onDelta(path, e.Kind().String(), s, false)
}
