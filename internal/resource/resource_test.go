package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legatoproject/datahub/internal/sample"
)

func TestBaseCurrentUnavailableBeforeAnyPush(t *testing.T) {
	var b Base
	_, ok := b.Current()
	assert.False(t, ok)
}

func TestBaseSetCurrentMarksRelevant(t *testing.T) {
	var b Base
	b.SetCurrent(sample.NewNumeric(1, 5))
	cur, ok := b.Current()
	require.True(t, ok)
	assert.Equal(t, float64(5), mustNumeric(t, cur))
	assert.True(t, b.Relevant)
}

func TestAddHandlerReplaysCurrentValue(t *testing.T) {
	var b Base
	b.SetCurrent(sample.NewNumeric(1, 5))

	var got sample.Sample
	calls := 0
	b.AddHandler(sample.Numeric, func(s sample.Sample) {
		got = s
		calls++
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, float64(5), mustNumeric(t, got))
}

func TestAddHandlerNoReplayWithoutCurrentValue(t *testing.T) {
	var b Base
	calls := 0
	b.AddHandler(sample.Numeric, func(s sample.Sample) { calls++ })
	assert.Equal(t, 0, calls)
}

func TestDispatchCoercesPerHandler(t *testing.T) {
	var b Base
	var numericSeen, stringSeen sample.Sample
	b.AddHandler(sample.Numeric, func(s sample.Sample) { numericSeen = s })
	b.AddHandler(sample.String, func(s sample.Sample) { stringSeen = s })

	b.Dispatch(sample.NewNumeric(1, 7))

	assert.Equal(t, sample.Numeric, numericSeen.Type())
	assert.Equal(t, sample.String, stringSeen.Type())
	str, err := stringSeen.String()
	require.NoError(t, err)
	assert.Equal(t, "7", str)
}

func TestRemoveHandlerClearsAllOfType(t *testing.T) {
	var b Base
	calls := 0
	b.AddHandler(sample.Numeric, func(s sample.Sample) { calls++ })
	b.AddHandler(sample.Numeric, func(s sample.Sample) { calls++ })
	b.RemoveHandler(sample.Numeric)

	b.Dispatch(sample.NewNumeric(1, 1))
	assert.Equal(t, 0, calls)
}

func TestHasAdminSettings(t *testing.T) {
	var b Base
	assert.False(t, b.HasAdminSettings())

	b.Units = "celsius"
	assert.False(t, b.HasAdminSettings(), "units alone is not an admin setting")

	def := sample.NewNumeric(0, 1)
	b.Default = &def
	assert.True(t, b.HasAdminSettings())
}

func mustNumeric(t *testing.T, s sample.Sample) float64 {
	t.Helper()
	v, err := s.Numeric()
	require.NoError(t, err)
	return v
}

func TestInputSameDefinition(t *testing.T) {
	ib := NewInput(sample.Numeric, "celsius")
	assert.True(t, ib.SameDefinition(sample.Numeric, "celsius"))
	assert.False(t, ib.SameDefinition(sample.Numeric, "fahrenheit"))
	assert.False(t, ib.SameDefinition(sample.Bool, "celsius"))
}

func TestOutputMandatoryDefaultsTrue(t *testing.T) {
	ob := NewOutput(sample.Bool, "")
	assert.True(t, ob.Mandatory)
}

func TestPlaceholderAbsorbsInputSettings(t *testing.T) {
	in := NewInput(sample.Numeric, "celsius")
	def := sample.NewNumeric(0, 10)
	in.Default = &def

	ph := NewPlaceholder()
	ph.MoveSettingsFrom(in)

	assert.Equal(t, sample.Numeric, ph.DataType)
	assert.Same(t, &def, ph.Default)
}

func TestInputAbsorbsPlaceholderSettings(t *testing.T) {
	ph := NewPlaceholder()
	ph.Units = "celsius"

	in := NewInput(sample.Numeric, "")
	in.MoveSettingsFrom(ph)
	assert.Equal(t, "celsius", in.Units)
}
