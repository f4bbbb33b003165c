package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/legatoproject/datahub/internal/errors"
)

func TestNewStringOverflow(t *testing.T) {
	big := make([]byte, MaxTextLength+1)
	_, err := NewString(1, string(big))
	assert.ErrorIs(t, err, errors.ErrOverflow)
}

func TestNewJSONOverflow(t *testing.T) {
	big := make([]byte, MaxTextLength+1)
	_, err := NewJSON(1, string(big))
	assert.ErrorIs(t, err, errors.ErrOverflow)
}

func TestAccessorsReturnFormatErrorOnVariantMismatch(t *testing.T) {
	s := NewNumeric(1, 3.14)

	_, err := s.Bool()
	assert.ErrorIs(t, err, errors.ErrFormatError)

	_, err = s.String()
	assert.ErrorIs(t, err, errors.ErrFormatError)

	_, err = s.RawJSON()
	assert.ErrorIs(t, err, errors.ErrFormatError)

	v, err := s.Numeric()
	require.NoError(t, err)
	assert.Equal(t, 3.14, v)
}

func TestWithTimestampDoesNotMutateOriginal(t *testing.T) {
	s := NewTrigger(1)
	s2 := s.WithTimestamp(2)

	assert.Equal(t, float64(1), s.Timestamp())
	assert.Equal(t, float64(2), s2.Timestamp())
}

func TestPrintable(t *testing.T) {
	assert.Equal(t, "", NewTrigger(0).Printable())
	assert.Equal(t, "true", NewBool(0, true).Printable())
	assert.Equal(t, "false", NewBool(0, false).Printable())
	assert.Equal(t, "3.5", NewNumeric(0, 3.5).Printable())

	s, err := NewString(0, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", s.Printable())
}

func TestJSONForm(t *testing.T) {
	assert.Equal(t, "null", NewTrigger(0).JSONForm())
	assert.Equal(t, "true", NewBool(0, true).JSONForm())
	assert.Equal(t, "42", NewNumeric(0, 42).JSONForm())

	s, err := NewString(0, `with "quotes"`)
	require.NoError(t, err)
	assert.Equal(t, `"with \"quotes\""`, s.JSONForm())

	j, err := NewJSON(0, `{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, j.JSONForm())
}

func TestEqualIgnoresTimestamp(t *testing.T) {
	a := NewNumeric(1, 5)
	b := NewNumeric(99, 5)
	c := NewNumeric(1, 6)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestEqualDifferentTypesNeverEqual(t *testing.T) {
	assert.False(t, NewNumeric(0, 0).Equal(NewBool(0, false)))
}

func TestParseType(t *testing.T) {
	for s, want := range map[string]Type{
		"trigger": Trigger,
		"bool":    Bool,
		"numeric": Numeric,
		"string":  String,
		"json":    JSON,
	} {
		got, ok := ParseType(s)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	_, ok := ParseType("nonsense")
	assert.False(t, ok)
}
