package sample

import (
	"math"
	"strconv"

	"github.com/legatoproject/datahub/internal/errors"
	"github.com/legatoproject/datahub/internal/jsonpath"
)

// Coerce converts s to the target type per the 5x5 coercion matrix
// (spec §4.1), used whenever a sample is pushed into an Input/Output
// whose declared type differs from the incoming sample's type, or
// whenever a push-handler requests delivery in a type other than the
// resource's native type.
//
// Coercion never fails due to allocation in this implementation (Go's
// runtime panics on true OOM rather than returning an error), so the
// only failure mode spec'd for "coercion allocates and fails" does not
// arise; Coerce only returns an error when the source value cannot be
// represented in the target type's own constraints (e.g. a string
// that overflows MaxTextLength).
func Coerce(s Sample, target Type) (Sample, error) {
	if s.typ == target {
		return s, nil
	}

	switch target {
	case Trigger:
		return NewTrigger(s.ts), nil
	case Bool:
		return coerceToBool(s)
	case Numeric:
		return coerceToNumeric(s)
	case String:
		return coerceToString(s)
	case JSON:
		return coerceToJSON(s)
	default:
		return Sample{}, errors.ErrBadParameter
	}
}

func coerceToBool(s Sample) (Sample, error) {
	switch s.typ {
	case Trigger:
		return NewBool(s.ts, false), nil
	case Numeric:
		return NewBool(s.ts, s.numV != 0), nil
	case String:
		return NewBool(s.ts, s.strV != ""), nil
	case JSON:
		v, ok := jsonpath.AsBool(s.strV)
		if !ok {
			return Sample{}, errors.ErrBadParameter
		}
		return NewBool(s.ts, v), nil
	default:
		return Sample{}, errors.ErrBadParameter
	}
}

func coerceToNumeric(s Sample) (Sample, error) {
	switch s.typ {
	case Trigger:
		return NewNumeric(s.ts, math.NaN()), nil
	case Bool:
		if s.boolV {
			return NewNumeric(s.ts, 1), nil
		}
		return NewNumeric(s.ts, 0), nil
	case String:
		v, err := strconv.ParseFloat(s.strV, 64)
		if err != nil {
			return NewNumeric(s.ts, math.NaN()), nil
		}
		return NewNumeric(s.ts, v), nil
	case JSON:
		v, ok := jsonpath.AsNumeric(s.strV)
		if !ok {
			return Sample{}, errors.ErrBadParameter
		}
		return NewNumeric(s.ts, v), nil
	default:
		return Sample{}, errors.ErrBadParameter
	}
}

func coerceToString(s Sample) (Sample, error) {
	v, err := NewString(s.ts, s.Printable())
	if err != nil {
		return Sample{}, err
	}
	return v, nil
}

func coerceToJSON(s Sample) (Sample, error) {
	v, err := NewJSON(s.ts, s.JSONForm())
	if err != nil {
		return Sample{}, err
	}
	return v, nil
}
