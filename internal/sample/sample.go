// Package sample implements the immutable, tagged-value DataSample
// model (spec §3, §4.1): a timestamp plus one of trigger, bool,
// numeric, string, or JSON.
package sample

import (
	"fmt"
	"math"
	"strconv"

	"github.com/legatoproject/datahub/internal/errors"
)

// Type identifies which variant of the tagged union a Sample holds.
type Type int

const (
	Trigger Type = iota
	Bool
	Numeric
	String
	JSON
)

func (t Type) String() string {
	switch t {
	case Trigger:
		return "trigger"
	case Bool:
		return "bool"
	case Numeric:
		return "numeric"
	case String:
		return "string"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseType maps a configuration or request string to a Type.
func ParseType(s string) (Type, bool) {
	switch s {
	case "trigger":
		return Trigger, true
	case "bool":
		return Bool, true
	case "numeric":
		return Numeric, true
	case "string":
		return String, true
	case "json":
		return JSON, true
	default:
		return 0, false
	}
}

// MaxTextLength is the maximum encoded length, in bytes, of a String
// or JSON sample's payload (spec §3).
const MaxTextLength = 1023

// Sample is an immutable data point: a timestamp and a tagged value.
// Instances are never mutated after construction; a "changed" sample
// is always a new Sample value. Go's garbage collector replaces the
// donor's manual reference counting — a Sample is simply held by
// whatever current-value slot, buffer entry, or handler-delivery
// closure needs it, and is reclaimed once nothing references it.
type Sample struct {
	ts      float64
	typ     Type
	boolV   bool
	numV    float64
	strV    string // used for both String and JSON variants
}

// NewTrigger creates a trigger sample at the given timestamp.
func NewTrigger(ts float64) Sample { return Sample{ts: ts, typ: Trigger} }

// NewBool creates a bool sample.
func NewBool(ts float64, v bool) Sample { return Sample{ts: ts, typ: Bool, boolV: v} }

// NewNumeric creates a numeric sample.
func NewNumeric(ts float64, v float64) Sample { return Sample{ts: ts, typ: Numeric, numV: v} }

// NewString creates a string sample. Returns Overflow if v exceeds
// MaxTextLength bytes.
func NewString(ts float64, v string) (Sample, error) {
	if len(v) > MaxTextLength {
		return Sample{}, errors.ErrOverflow
	}
	return Sample{ts: ts, typ: String, strV: v}, nil
}

// NewJSON creates a JSON sample from an already-encoded JSON document.
// Returns Overflow if v exceeds MaxTextLength bytes.
func NewJSON(ts float64, v string) (Sample, error) {
	if len(v) > MaxTextLength {
		return Sample{}, errors.ErrOverflow
	}
	return Sample{ts: ts, typ: JSON, strV: v}, nil
}

// Timestamp returns the sample's timestamp in seconds since the Unix
// epoch.
func (s Sample) Timestamp() float64 { return s.ts }

// Type returns the sample's variant tag.
func (s Sample) Type() Type { return s.typ }

// WithTimestamp returns a copy of s with its timestamp replaced. This
// is the sole permitted post-construction mutation (spec §3), used
// by the engine to give a sample pushed with timestamp 0 the hub's
// current time.
func (s Sample) WithTimestamp(ts float64) Sample {
	s2 := s
	s2.ts = ts
	return s2
}

// Bool returns the sample's boolean value. The caller must have
// established the variant via Type(); calling this on a non-Bool
// sample returns FormatError.
func (s Sample) Bool() (bool, error) {
	if s.typ != Bool {
		return false, errors.ErrFormatError
	}
	return s.boolV, nil
}

// Numeric returns the sample's numeric value.
func (s Sample) Numeric() (float64, error) {
	if s.typ != Numeric {
		return 0, errors.ErrFormatError
	}
	return s.numV, nil
}

// String returns the sample's string value.
func (s Sample) String() (string, error) {
	if s.typ != String {
		return "", errors.ErrFormatError
	}
	return s.strV, nil
}

// RawJSON returns the sample's JSON document.
func (s Sample) RawJSON() (string, error) {
	if s.typ != JSON {
		return "", errors.ErrFormatError
	}
	return s.strV, nil
}

// Printable renders the sample per spec §4.1's printable-string
// conversion: trigger -> "", bool -> "true"/"false", numeric -> %lf
// equivalent (locale-independent), string verbatim, JSON verbatim.
func (s Sample) Printable() string {
	switch s.typ {
	case Trigger:
		return ""
	case Bool:
		if s.boolV {
			return "true"
		}
		return "false"
	case Numeric:
		return formatNumeric(s.numV)
	case String, JSON:
		return s.strV
	default:
		return ""
	}
}

// JSONForm renders the sample per spec §4.1's JSON-form conversion:
// trigger -> null, bool -> true/false, numeric -> %lf, string ->
// quoted, JSON -> verbatim (already a valid document).
func (s Sample) JSONForm() string {
	switch s.typ {
	case Trigger:
		return "null"
	case Bool:
		if s.boolV {
			return "true"
		}
		return "false"
	case Numeric:
		return formatNumeric(s.numV)
	case String:
		return strconv.Quote(s.strV)
	case JSON:
		return s.strV
	default:
		return "null"
	}
}

func formatNumeric(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	if math.IsInf(v, 1) {
		return "inf"
	}
	if math.IsInf(v, -1) {
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Equal reports whether two samples carry the same type and value,
// ignoring timestamp. Used by the change-by filter's boolean/string/
// JSON equality check (spec §4.4).
func (s Sample) Equal(o Sample) bool {
	if s.typ != o.typ {
		return false
	}
	switch s.typ {
	case Trigger:
		return true
	case Bool:
		return s.boolV == o.boolV
	case Numeric:
		return s.numV == o.numV
	case String, JSON:
		return s.strV == o.strV
	default:
		return false
	}
}

// GoString supports %#v debugging output in tests.
func (s Sample) GoString() string {
	return fmt.Sprintf("Sample{ts:%v type:%v value:%q}", s.ts, s.typ, s.Printable())
}
