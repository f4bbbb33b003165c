package ioservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legatoproject/datahub/internal/engine"
	"github.com/legatoproject/datahub/internal/errors"
	"github.com/legatoproject/datahub/internal/sample"
)

func TestRelativePathResolvesUnderNamespace(t *testing.T) {
	hub := engine.New(engine.Options{})
	svc := New(hub, "app1", false)

	require.NoError(t, svc.CreateInput("temp", sample.Numeric, "celsius"))
	require.NoError(t, hub.Push("/app1/temp", sample.NewNumeric(1, 21)))

	v, err := svc.GetNumeric("temp")
	require.NoError(t, err)
	assert.Equal(t, float64(21), v)
}

func TestAbsolutePathBypassesNamespace(t *testing.T) {
	hub := engine.New(engine.Options{})
	svc := New(hub, "app1", false)

	require.NoError(t, svc.CreateInput("/shared/temp", sample.Numeric, ""))
	require.NoError(t, hub.Push("/shared/temp", sample.NewNumeric(1, 5)))

	v, err := svc.GetNumeric("/shared/temp")
	require.NoError(t, err)
	assert.Equal(t, float64(5), v)
}

func TestSetNamespaceRejectedWhenHosted(t *testing.T) {
	hub := engine.New(engine.Options{})
	svc := New(hub, "app1", true)

	err := svc.SetNamespace("other")
	assert.ErrorIs(t, err, errors.ErrNotPermitted)
}

func TestSetNamespaceAllowedWhenNotHosted(t *testing.T) {
	hub := engine.New(engine.Options{})
	svc := New(hub, "app1", false)

	require.NoError(t, svc.SetNamespace("app2"))
	require.NoError(t, svc.CreateInput("x", sample.Bool, ""))

	_, err := hub.Get("/app2/x")
	assert.ErrorIs(t, err, errors.ErrUnavailable)
}

func TestPushAndGetEachNativeType(t *testing.T) {
	hub := engine.New(engine.Options{})
	svc := New(hub, "app1", false)

	require.NoError(t, svc.CreateOutput("b", sample.Bool, ""))
	require.NoError(t, svc.PushBool("b", 1, true))
	bv, err := svc.GetBool("b")
	require.NoError(t, err)
	assert.True(t, bv)

	require.NoError(t, svc.CreateOutput("s", sample.String, ""))
	require.NoError(t, svc.PushString("s", 1, "hello"))
	sv, err := svc.GetString("s")
	require.NoError(t, err)
	assert.Equal(t, "hello", sv)

	require.NoError(t, svc.CreateOutput("j", sample.JSON, ""))
	require.NoError(t, svc.PushJSON("j", 1, `{"a":1}`))
	jv, err := svc.GetJSON("j")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, jv)
}

func TestSetDefaultServesAsFallback(t *testing.T) {
	hub := engine.New(engine.Options{})
	svc := New(hub, "app1", false)

	require.NoError(t, svc.CreateOutput("flag", sample.Bool, ""))
	require.NoError(t, svc.SetBoolDefault("flag", true))

	v, err := hub.Get("/app1/flag")
	require.NoError(t, err)
	bv, err := v.Bool()
	require.NoError(t, err)
	assert.True(t, bv)
}

func TestAddPushHandlerReplaysAndReceivesUpdates(t *testing.T) {
	hub := engine.New(engine.Options{})
	svc := New(hub, "app1", false)

	require.NoError(t, svc.CreateOutput("x", sample.Numeric, ""))
	require.NoError(t, svc.PushNumeric("x", 1, 10))

	var seen []float64
	require.NoError(t, svc.AddPushHandler("x", sample.Numeric, func(s sample.Sample) {
		v, _ := s.Numeric()
		seen = append(seen, v)
	}))
	require.NoError(t, svc.PushNumeric("x", 2, 20))

	assert.Equal(t, []float64{10, 20}, seen)

	require.NoError(t, svc.RemovePushHandler("x", sample.Numeric))
	require.NoError(t, svc.PushNumeric("x", 3, 30))
	assert.Equal(t, []float64{10, 20}, seen)
}

func TestSetJSONExampleMarksChangedWithoutAffectingCurrentValue(t *testing.T) {
	hub := engine.New(engine.Options{})
	svc := New(hub, "app1", false)

	require.NoError(t, svc.CreateOutput("doc", sample.JSON, ""))
	require.NoError(t, svc.PushJSON("doc", 1, `{"live":true}`))

	require.NoError(t, svc.SetJSONExample("doc", `{"shape":"example"}`))

	v, err := svc.GetJSON("doc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"live":true}`, v, "example does not override a live current value")
}

func TestPatchJSONExampleMergesFieldIntoExistingDocument(t *testing.T) {
	hub := engine.New(engine.Options{})
	svc := New(hub, "app1", false)

	require.NoError(t, svc.CreateOutput("doc", sample.JSON, ""))
	require.NoError(t, svc.SetJSONExample("doc", `{"shape":"example","count":1}`))

	require.NoError(t, svc.PatchJSONExample("doc", "count", "2"))

	v, err := svc.GetJSON("doc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"shape":"example","count":2}`, v)
}

func TestPatchJSONExampleCreatesDocumentWhenNoneExists(t *testing.T) {
	hub := engine.New(engine.Options{})
	svc := New(hub, "app1", false)

	require.NoError(t, svc.CreateOutput("doc", sample.JSON, ""))
	require.NoError(t, svc.PatchJSONExample("doc", "flag", "true"))

	v, err := svc.GetJSON("doc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"flag":true}`, v)
}
