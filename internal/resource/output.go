package resource

import (
	"github.com/legatoproject/datahub/internal/sample"
	"github.com/legatoproject/datahub/internal/tree"
)

// OutputBody is an app-facing consumer endpoint with a fixed declared
// type and units, and a "mandatory" flag defaulting to true (spec §3).
type OutputBody struct {
	Base
	DataType  sample.Type
	Mandatory bool
}

// NewOutput creates an Output body with Mandatory defaulted true.
func NewOutput(dataType sample.Type, units string) *OutputBody {
	return &OutputBody{Base: Base{Units: units}, DataType: dataType, Mandatory: true}
}

// Kind implements tree.Body.
func (b *OutputBody) Kind() tree.Kind { return tree.Output }

// MoveSettingsFrom implements tree.Body.
func (b *OutputBody) MoveSettingsFrom(old tree.Body) {
	switch o := old.(type) {
	case *PlaceholderBody:
		b.moveBaseFrom(&o.Base)
	case *OutputBody:
		b.moveBaseFrom(&o.Base)
		b.Mandatory = o.Mandatory
	}
}

// SameDefinition reports the idempotent-recreation case for Outputs,
// mirroring InputBody.SameDefinition.
func (b *OutputBody) SameDefinition(dataType sample.Type, units string) bool {
	return b.DataType == dataType && b.Units == units
}
