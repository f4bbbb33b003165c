// Package resource implements the Resource variant bodies (spec §3):
// Input, Output, Observation, and Placeholder. Each is a concrete Go
// type implementing tree.Body, replacing the donor specification's
// C-style "base class held as first member" layout with the tagged
// union Go idiom recommended in spec §9.
package resource

import (
	"github.com/legatoproject/datahub/internal/sample"
	"github.com/legatoproject/datahub/internal/tree"
)

// HandlerFunc is a push-handler callback: invoked with the delivered
// sample, already coerced to the type the handler registered for
// (spec §4.3).
type HandlerFunc func(s sample.Sample)

type handlerEntry struct {
	dataType sample.Type
	fn       HandlerFunc
}

// Base holds the fields common to every non-Namespace resource (spec
// §3's Resource body): units, current/default/override samples, the
// source link, the destination set, registered push-handlers, and the
// snapshot-relevance flags, plus the pending-update sample used while
// an administrative barrier is in effect (spec §4.6).
type Base struct {
	Units string

	current  *sample.Sample
	hasCurr  bool
	Default  *sample.Sample
	Override *sample.Sample

	// Source is a weak reference to the upstream resource this one
	// routes from, or nil. It is weak in the sense that this package
	// never keeps a Source's owning Entry alive on its account: the
	// tree owns entry lifetime and resources only hold a pointer into
	// it. Deleting the upstream entry does not clear this field.
	Source *tree.Entry

	// Destinations lists entries whose Source points back at this
	// resource's owning entry. Maintained by the engine's routing
	// operations, not mutated directly by resource bodies.
	Destinations []*tree.Entry

	handlers []handlerEntry

	// Relevant mirrors the snapshot relevance flag described in spec
	// §4.7; the new, deleted and json-example-changed flags are
	// tracked only on the owning tree.Entry. Relevant is kept here
	// since a resource body can be relevant independent of its
	// entry's own "new" status (e.g. a value changed since scan).
	Relevant bool

	// Pending holds the single most-recent sample pushed while an
	// update barrier is active, collapsing earlier pending pushes
	// (spec §4.6). nil when no barrier push is outstanding.
	Pending *sample.Sample
}

// Current returns the resource's current value, or Unavailable if
// none has ever been set.
func (b *Base) Current() (sample.Sample, bool) {
	if !b.hasCurr {
		return sample.Sample{}, false
	}
	return *b.current, true
}

// EffectiveValue resolves what a reader sees: an installed override
// always wins, then the current pushed value, then the installed
// default. Unavailable if none of the three is set.
func (b *Base) EffectiveValue() (sample.Sample, bool) {
	if b.Override != nil {
		return *b.Override, true
	}
	if cur, ok := b.Current(); ok {
		return cur, true
	}
	if b.Default != nil {
		return *b.Default, true
	}
	return sample.Sample{}, false
}

// SetCurrent installs a new current value, releasing the previous one
// (Go's GC reclaims it once no buffer/handler-closure still holds it).
func (b *Base) SetCurrent(s sample.Sample) {
	v := s
	b.current = &v
	b.hasCurr = true
	b.Relevant = true
}

// AddHandler registers a push-handler for dataType. If the resource
// already has a current value, the handler is invoked immediately
// with it, coerced to dataType (spec §4.3 replay-on-subscribe).
func (b *Base) AddHandler(dataType sample.Type, fn HandlerFunc) {
	b.handlers = append(b.handlers, handlerEntry{dataType: dataType, fn: fn})
	if cur, ok := b.EffectiveValue(); ok {
		coerced, err := sample.Coerce(cur, dataType)
		if err == nil {
			fn(coerced)
		}
	}
}

// RemoveHandler unregisters every handler registered for dataType.
// Function values aren't comparable in Go, so handlers are identified
// by their registered type rather than by callback identity, matching
// the one-handler-per-type-per-caller usage pattern in the I/O facade.
func (b *Base) RemoveHandler(dataType sample.Type) {
	out := b.handlers[:0]
	for _, h := range b.handlers {
		if h.dataType != dataType {
			out = append(out, h)
		}
	}
	b.handlers = out
}

// Dispatch invokes every registered handler, in registration order,
// with s coerced to each handler's declared type (spec §4.3).
func (b *Base) Dispatch(s sample.Sample) {
	for _, h := range b.handlers {
		coerced, err := sample.Coerce(s, h.dataType)
		if err != nil {
			continue
		}
		h.fn(coerced)
	}
}

// HasAdminSettings reports whether Base carries state that must
// survive an I/O deletion as a Placeholder (spec §4.2): a source
// link, a default, or an override.
func (b *Base) HasAdminSettings() bool {
	return b.Source != nil || b.Default != nil || b.Override != nil
}

func (b *Base) moveBaseFrom(old *Base) {
	b.Units = old.Units
	b.Default = old.Default
	b.Override = old.Override
	b.Source = old.Source
	b.Destinations = old.Destinations
}
