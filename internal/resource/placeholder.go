package resource

import (
	"github.com/legatoproject/datahub/internal/sample"
	"github.com/legatoproject/datahub/internal/tree"
)

// PlaceholderBody retains admin settings for a path whose I/O
// producer has gone away; it is convertible back into an I/O when the
// producer reappears (spec §3, §4.2).
type PlaceholderBody struct {
	Base
	// DataType is the last-assigned type, preserved across I/O
	// deletion so a later recreation with the same type does not lose
	// coercion context for any retained Default/Override sample.
	DataType sample.Type
}

// NewPlaceholder creates an empty Placeholder body.
func NewPlaceholder() *PlaceholderBody {
	return &PlaceholderBody{}
}

// Kind implements tree.Body.
func (b *PlaceholderBody) Kind() tree.Kind { return tree.Placeholder }

// MoveSettingsFrom implements tree.Body: a Placeholder absorbs
// whatever admin settings an Input or Output carried at deletion
// time.
func (b *PlaceholderBody) MoveSettingsFrom(old tree.Body) {
	switch o := old.(type) {
	case *InputBody:
		b.moveBaseFrom(&o.Base)
		b.DataType = o.DataType
	case *OutputBody:
		b.moveBaseFrom(&o.Base)
		b.DataType = o.DataType
	}
}
