package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legatoproject/datahub/internal/errors"
)

// fakeBody is a minimal Body implementation for exercising tree
// mechanics without depending on internal/resource.
type fakeBody struct {
	kind         Kind
	hasSettings  bool
	movedFrom    Body
}

func (b *fakeBody) Kind() Kind { return b.kind }
func (b *fakeBody) MoveSettingsFrom(old Body) { b.movedFrom = old }
func (b *fakeBody) HasAdminSettings() bool { return b.hasSettings }

var limits = Limits{MaxSegmentLength: 32, MaxPathLength: 256}

func TestGetCreatesIntermediateNamespaces(t *testing.T) {
	root := NewRoot()
	e, err := root.Get("a/b/c", limits)
	require.NoError(t, err)
	assert.Equal(t, "c", e.Name())
	assert.Equal(t, Namespace, e.Kind())
	assert.True(t, e.IsNew())

	mid, err := root.Find("a/b", false)
	require.NoError(t, err)
	assert.Equal(t, Namespace, mid.Kind())
}

func TestGetRejectsOverLengthPath(t *testing.T) {
	root := NewRoot()
	tight := Limits{MaxSegmentLength: 32, MaxPathLength: 4}
	_, err := root.Get("toolongpath", tight)
	assert.ErrorIs(t, err, errors.ErrBadParameter)
}

func TestValidateSegmentRejectsForbiddenChars(t *testing.T) {
	assert.Error(t, ValidateSegment("a.b", limits))
	assert.Error(t, ValidateSegment("a[0]", limits))
	assert.Error(t, ValidateSegment("", limits))
	assert.NoError(t, ValidateSegment("plain", limits))
}

func TestFindNotFound(t *testing.T) {
	root := NewRoot()
	_, err := root.Find("missing", false)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestRelativePathRoundTrip(t *testing.T) {
	root := NewRoot()
	e, err := root.Get("a/b/c", limits)
	require.NoError(t, err)

	path, err := root.RelativePath(e)
	require.NoError(t, err)
	assert.Equal(t, "a/b/c", path)
}

func TestRelativePathNeverPartiallyCommitsOnError(t *testing.T) {
	root1 := NewRoot()
	root2 := NewRoot()
	e, err := root2.Get("x", limits)
	require.NoError(t, err)

	path, err := root1.RelativePath(e)
	assert.ErrorIs(t, err, errors.ErrBadParameter)
	assert.Equal(t, "", path)
}

func TestPromoteNamespaceToAnyKindAlwaysAllowed(t *testing.T) {
	root := NewRoot()
	e, err := root.Get("in", limits)
	require.NoError(t, err)

	body := &fakeBody{kind: Input}
	require.NoError(t, e.Promote(Input, body))
	assert.Equal(t, Input, e.Kind())
	assert.Same(t, body, e.Body())
}

func TestPromotePlaceholderMovesSettings(t *testing.T) {
	root := NewRoot()
	e, err := root.Get("ph", limits)
	require.NoError(t, err)

	oldBody := &fakeBody{kind: Placeholder, hasSettings: true}
	require.NoError(t, e.Promote(Placeholder, oldBody))

	newBody := &fakeBody{kind: Output}
	require.NoError(t, e.Promote(Output, newBody))
	assert.Same(t, oldBody, newBody.movedFrom)
	assert.Equal(t, Output, e.Kind())
}

func TestPromoteSameNonInputKindIsDuplicate(t *testing.T) {
	root := NewRoot()
	e, err := root.Get("obs", limits)
	require.NoError(t, err)
	require.NoError(t, e.Promote(Observation, &fakeBody{kind: Observation}))

	err = e.Promote(Observation, &fakeBody{kind: Observation})
	assert.ErrorIs(t, err, errors.ErrDuplicate)
}

func TestPromoteMismatchedKindIsDuplicate(t *testing.T) {
	root := NewRoot()
	e, err := root.Get("in", limits)
	require.NoError(t, err)
	require.NoError(t, e.Promote(Input, &fakeBody{kind: Input}))

	err = e.Promote(Output, &fakeBody{kind: Output})
	assert.ErrorIs(t, err, errors.ErrDuplicate)
}

func TestDeleteIODowngradesWhenSettingsSurvive(t *testing.T) {
	root := NewRoot()
	e, err := root.Get("in", limits)
	require.NoError(t, err)
	body := &fakeBody{kind: Input, hasSettings: true}
	require.NoError(t, e.Promote(Input, body))

	e.DeleteIO(&fakeBody{kind: Placeholder})
	assert.Equal(t, Placeholder, e.Kind())
}

func TestDeleteIORemovesWhenNoSettings(t *testing.T) {
	root := NewRoot()
	e, err := root.Get("in", limits)
	require.NoError(t, err)
	body := &fakeBody{kind: Input, hasSettings: false}
	require.NoError(t, e.Promote(Input, body))

	e.DeleteIO(&fakeBody{kind: Placeholder})
	_, findErr := root.Find("in", true)
	assert.ErrorIs(t, findErr, errors.ErrNotFound)
}

func TestDeleteObservationTombstones(t *testing.T) {
	root := NewRoot()
	e, err := root.Get("obs", limits)
	require.NoError(t, err)
	require.NoError(t, e.Promote(Observation, &fakeBody{kind: Observation}))

	e.DeleteObservation()
	assert.True(t, e.Deleted())

	_, visibleErr := root.Find("obs", false)
	assert.ErrorIs(t, visibleErr, errors.ErrNotFound)

	tombstone, err := root.Find("obs", true)
	require.NoError(t, err)
	assert.True(t, tombstone.Deleted())
}

func TestFlushTombstoneRemovesEntry(t *testing.T) {
	root := NewRoot()
	e, err := root.Get("obs", limits)
	require.NoError(t, err)
	require.NoError(t, e.Promote(Observation, &fakeBody{kind: Observation}))
	e.DeleteObservation()

	e.FlushTombstone()
	_, findErr := root.Find("obs", true)
	assert.ErrorIs(t, findErr, errors.ErrNotFound)
}

func TestWalkVisitsDepthFirst(t *testing.T) {
	root := NewRoot()
	_, err := root.Get("a/b", limits)
	require.NoError(t, err)
	_, err = root.Get("a/c", limits)
	require.NoError(t, err)

	var visited []string
	root.Walk(func(e *Entry) bool {
		visited = append(visited, e.Name())
		return true
	})

	assert.Equal(t, []string{"", "a", "b", "c"}, visited)
}

func TestChildrenExcludesTombstonesByDefault(t *testing.T) {
	root := NewRoot()
	e, err := root.Get("obs", limits)
	require.NoError(t, err)
	require.NoError(t, e.Promote(Observation, &fakeBody{kind: Observation}))
	e.DeleteObservation()

	assert.Empty(t, root.Children(false))
	assert.Len(t, root.Children(true), 1)
}
