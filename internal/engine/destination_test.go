package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legatoproject/datahub/internal/sample"
)

func TestSetDestinationPathShapedCreatesSourceLink(t *testing.T) {
	h := newTestHub()
	require.NoError(t, h.CreateOutput("/src", sample.Numeric, ""))
	require.NoError(t, h.CreateObservation("/obs"))
	require.NoError(t, h.ConfigureObservation("/obs", ObservationConfig{BufferMaxCount: 4}))
	require.NoError(t, h.SetSource("/obs", "/src"))
	require.NoError(t, h.CreateObservation("/sink"))

	require.NoError(t, h.SetDestination("/obs", "/sink"))
	require.NoError(t, h.Push("/src", sample.NewNumeric(1, 7)))

	cur, err := h.Get("/sink")
	require.NoError(t, err)
	v, _ := cur.Numeric()
	assert.Equal(t, float64(7), v)
}

func TestSetDestinationLabelInvokesRegisteredHandler(t *testing.T) {
	h := newTestHub()
	require.NoError(t, h.CreateObservation("/obs"))
	require.NoError(t, h.ConfigureObservation("/obs", ObservationConfig{BufferMaxCount: 4}))
	require.NoError(t, h.SetDestination("/obs", "external-feed"))

	var gotPath string
	var gotSample sample.Sample
	h.RegisterDestinationHandler("external-feed", func(path string, s sample.Sample) {
		gotPath = path
		gotSample = s
	})

	require.NoError(t, h.Push("/obs", sample.NewNumeric(1, 3)))

	assert.Equal(t, "obs", gotPath)
	v, _ := gotSample.Numeric()
	assert.Equal(t, float64(3), v)
}

func TestDestinationLabelWithoutRegisteredHandlerIsNoop(t *testing.T) {
	h := newTestHub()
	require.NoError(t, h.CreateObservation("/obs"))
	require.NoError(t, h.ConfigureObservation("/obs", ObservationConfig{BufferMaxCount: 4}))
	require.NoError(t, h.SetDestination("/obs", "nobody-home"))

	assert.NoError(t, h.Push("/obs", sample.NewNumeric(1, 3)))
}

func TestRemoveDestinationHandlerStopsDelivery(t *testing.T) {
	h := newTestHub()
	require.NoError(t, h.CreateObservation("/obs"))
	require.NoError(t, h.ConfigureObservation("/obs", ObservationConfig{BufferMaxCount: 4}))
	require.NoError(t, h.SetDestination("/obs", "feed"))

	calls := 0
	h.RegisterDestinationHandler("feed", func(string, sample.Sample) { calls++ })
	require.NoError(t, h.Push("/obs", sample.NewNumeric(1, 1)))
	assert.Equal(t, 1, calls)

	h.RemoveDestinationHandler("feed")
	require.NoError(t, h.Push("/obs", sample.NewNumeric(2, 2)))
	assert.Equal(t, 1, calls, "removed handler receives no further deliveries")
}
