// Package jsonpath implements JSON sub-extraction (spec §4.1, §4.4):
// given a JSON document and a path spec such as "x", "x.y", "[3]", or
// "x[3].y", it selects a sub-value and reports it as a typed scalar or
// a re-encoded JSON fragment.
package jsonpath

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/legatoproject/datahub/internal/errors"
)

// toGJSON translates the hub's dot/bracket path grammar into gjson's
// dotted query syntax, where an array index is a plain path segment:
// "x.y" stays as it is, "[3]" becomes "3" and "x[3].y" becomes
// "x.3.y".
func toGJSON(spec string) string {
	spec = strings.NewReplacer("[", ".", "]", "").Replace(spec)
	return strings.TrimPrefix(spec, ".")
}

// Extract selects the sub-value of jsonDoc named by spec and returns
// it as a gjson.Result. Returns BadParameter if spec does not match
// any element in the document.
func Extract(jsonDoc, spec string) (gjson.Result, error) {
	if spec == "" {
		return gjson.Parse(jsonDoc), nil
	}

	result := gjson.Get(jsonDoc, toGJSON(spec))
	if !result.Exists() {
		return gjson.Result{}, errors.ErrBadParameter
	}
	return result, nil
}

// ExtractRaw is a convenience wrapper returning the extracted value's
// raw JSON encoding.
func ExtractRaw(jsonDoc, spec string) (string, error) {
	r, err := Extract(jsonDoc, spec)
	if err != nil {
		return "", err
	}
	return r.Raw, nil
}

// SetRaw returns jsonDoc with the sub-value named by spec replaced by
// rawValue (itself a raw JSON fragment, not a Go value), building the
// intermediate objects/arrays spec names if they don't already exist.
// Used by the JSON example/default machinery to patch a single field
// of a recorded document without the caller resending the whole thing.
func SetRaw(jsonDoc, spec, rawValue string) (string, error) {
	if spec == "" {
		return rawValue, nil
	}
	if jsonDoc == "" {
		jsonDoc = "{}"
	}
	out, err := sjson.SetRaw(jsonDoc, toGJSON(spec), rawValue)
	if err != nil {
		return "", errors.ErrBadParameter
	}
	return out, nil
}

// ValidSpec reports whether spec is syntactically a valid extraction
// path: a sequence of `.name` and `[index]` segments, optionally
// starting with a bare name.
func ValidSpec(spec string) bool {
	if spec == "" {
		return true
	}
	i := 0
	n := len(spec)
	expectSegment := true
	for i < n {
		switch {
		case spec[i] == '[':
			j := strings.IndexByte(spec[i:], ']')
			if j < 0 {
				return false
			}
			idx := spec[i+1 : i+j]
			if _, err := strconv.Atoi(idx); err != nil {
				return false
			}
			i += j + 1
			expectSegment = false
		case spec[i] == '.':
			if expectSegment {
				return false
			}
			i++
			expectSegment = true
		default:
			j := i
			for j < n && spec[j] != '.' && spec[j] != '[' {
				j++
			}
			if j == i {
				return false
			}
			i = j
			expectSegment = false
		}
	}
	return !expectSegment
}

// AsBool coerces a JSON document's top-level value to bool, following
// the same truthiness rules spec'd for numeric/string coercion:
// JSON false/null/0/"" are false, everything else true.
func AsBool(jsonDoc string) (bool, bool) {
	r := gjson.Parse(jsonDoc)
	if !r.Exists() {
		return false, false
	}
	switch r.Type {
	case gjson.False, gjson.Null:
		return false, true
	case gjson.True:
		return true, true
	case gjson.Number:
		return r.Num != 0, true
	case gjson.String:
		return r.Str != "", true
	default:
		return true, true
	}
}

// AsNumeric coerces a JSON document's top-level value to float64.
func AsNumeric(jsonDoc string) (float64, bool) {
	r := gjson.Parse(jsonDoc)
	if !r.Exists() {
		return 0, false
	}
	switch r.Type {
	case gjson.Number:
		return r.Num, true
	case gjson.String:
		v, err := strconv.ParseFloat(r.Str, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	case gjson.True:
		return 1, true
	case gjson.False, gjson.Null:
		return 0, true
	default:
		return 0, false
	}
}
