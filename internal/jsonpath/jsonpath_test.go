package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `{"x":{"y":5},"arr":[10,20,30],"items":[{"a":1},{"a":2}]}`

func TestExtractEmptySpecReturnsWholeDocument(t *testing.T) {
	r, err := Extract(doc, "")
	require.NoError(t, err)
	assert.Equal(t, doc, r.Raw)
}

func TestExtractDottedField(t *testing.T) {
	v, err := ExtractRaw(doc, "x.y")
	require.NoError(t, err)
	assert.Equal(t, "5", v)
}

func TestExtractArrayIndex(t *testing.T) {
	v, err := ExtractRaw(doc, "arr.1")
	require.NoError(t, err)
	assert.Equal(t, "20", v)
}

func TestExtractBracketIndexOnNestedField(t *testing.T) {
	v, err := ExtractRaw(doc, "items[1].a")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestExtractMissingPathIsBadParameter(t *testing.T) {
	_, err := Extract(doc, "nope.nope")
	assert.Error(t, err)
}

func TestValidSpec(t *testing.T) {
	valid := []string{"", "x", "x.y", "[3]", "x[3].y", "arr.1"}
	for _, s := range valid {
		assert.True(t, ValidSpec(s), "expected %q to be valid", s)
	}

	invalid := []string{".", "x.", "[abc]", "x..y", "[3"}
	for _, s := range invalid {
		assert.False(t, ValidSpec(s), "expected %q to be invalid", s)
	}
}

func TestAsBool(t *testing.T) {
	v, ok := AsBool("true")
	assert.True(t, ok)
	assert.True(t, v)

	v, ok = AsBool("false")
	assert.True(t, ok)
	assert.False(t, v)

	v, ok = AsBool("0")
	assert.True(t, ok)
	assert.False(t, v)

	v, ok = AsBool(`""`)
	assert.True(t, ok)
	assert.False(t, v)

	v, ok = AsBool(`"nonempty"`)
	assert.True(t, ok)
	assert.True(t, v)
}

func TestAsNumeric(t *testing.T) {
	v, ok := AsNumeric("42.5")
	assert.True(t, ok)
	assert.Equal(t, 42.5, v)

	v, ok = AsNumeric(`"3.5"`)
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	_, ok = AsNumeric(`"not a number"`)
	assert.False(t, ok)

	v, ok = AsNumeric("true")
	assert.True(t, ok)
	assert.Equal(t, float64(1), v)
}
