package resource

import (
	"github.com/legatoproject/datahub/internal/sample"
	"github.com/legatoproject/datahub/internal/tree"
)

// InputBody is an app-facing producer endpoint with a fixed declared
// type and units (spec §3 "Input/Output body").
type InputBody struct {
	Base
	DataType sample.Type
}

// NewInput creates an Input body.
func NewInput(dataType sample.Type, units string) *InputBody {
	return &InputBody{Base: Base{Units: units}, DataType: dataType}
}

// Kind implements tree.Body.
func (b *InputBody) Kind() tree.Kind { return tree.Input }

// MoveSettingsFrom implements tree.Body. An Input promoted from a
// Placeholder inherits the placeholder's source/default/override;
// filter-only settings (which only apply to Observations) have no
// counterpart here and are simply absent from PlaceholderBody in the
// first place.
func (b *InputBody) MoveSettingsFrom(old tree.Body) {
	switch o := old.(type) {
	case *PlaceholderBody:
		b.moveBaseFrom(&o.Base)
	case *InputBody:
		b.moveBaseFrom(&o.Base)
	}
}

// SameDefinition reports whether recreating an Input at this path
// with the given type and units would be the idempotent no-op case
// from spec §4.2 ("Input -> Input of same type+units: idempotent
// success").
func (b *InputBody) SameDefinition(dataType sample.Type, units string) bool {
	return b.DataType == dataType && b.Units == units
}
