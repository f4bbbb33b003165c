// Package hubconfig loads the hub's own runtime configuration (spec
// §6 Config service): the set of observations and static resource
// state that should be installed into the tree, as opposed to
// internal/config's process configuration (bind address, logging,
// etc).
package hubconfig

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/legatoproject/datahub/internal/errors"
)

// ObservationSpec is one entry of the "o" map in the configuration
// schema (spec §6): r=source resource, d=destination label,
// p=JSON-extraction path, st=min-period (seconds throttle), lt/gt=low
// /high limit, b=buffer max count, f=transform kind, s=change-by
// ("swing").
type ObservationSpec struct {
	Source      string  `json:"r" validate:"required"`
	Destination string  `json:"d,omitempty"`
	Path        string  `json:"p,omitempty"`
	MinPeriod   float64 `json:"st,omitempty"`
	LowLimit    *float64 `json:"lt,omitempty"`
	HighLimit   *float64 `json:"gt,omitempty"`
	BufferCount int     `json:"b,omitempty"`
	Transform   string  `json:"f,omitempty"`
	ChangeBy    float64 `json:"s,omitempty"`
}

// StaticSpec is one entry of the "s" map: a default/override value
// (v) with an optional declared type (dt); omitted dt defaults to the
// value's JSON-inferred type.
type StaticSpec struct {
	Value    json.RawMessage `json:"v" validate:"required"`
	DataType string          `json:"dt,omitempty"`
}

// Document is the top-level hub configuration schema (spec §6).
type Document struct {
	Observations map[string]ObservationSpec `json:"o,omitempty"`
	Static       map[string]StaticSpec      `json:"s,omitempty"`
}

var validate = validator.New()

// ParseError reports the byte offset of a malformed configuration
// document (spec §6: "Reports per-file parse errors with byte
// offset").
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("config parse error at byte %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes and validates a hub configuration document.
func Parse(data []byte) (*Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		offset := dec.InputOffset()
		return nil, errors.WrapWithCode(&ParseError{Offset: offset, Err: err}, errors.ErrFormatError, "parse hub config")
	}

	for name, spec := range doc.Observations {
		if err := validate.Struct(spec); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrBadParameter, "observation %q", name)
		}
	}
	for path, spec := range doc.Static {
		if err := validate.Struct(spec); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrBadParameter, "static entry %q", path)
		}
	}

	return &doc, nil
}
