// Package ioservice implements the I/O facade (spec §6): the
// per-client-namespace operations apps use to create Input/Output
// resources, push values, and subscribe via push-handlers.
package ioservice

import (
	"path"
	"strings"

	"github.com/legatoproject/datahub/internal/engine"
	"github.com/legatoproject/datahub/internal/errors"
	"github.com/legatoproject/datahub/internal/jsonpath"
	"github.com/legatoproject/datahub/internal/resource"
	"github.com/legatoproject/datahub/internal/sample"
)

// Service is an I/O facade scoped to a single client namespace.
type Service struct {
	hub       *engine.Hub
	namespace string
	hosted    bool // hosted deployments forbid namespace override
}

// New creates an I/O facade defaulted to namespace (spec §6: "Client
// namespace defaults to client identifier").
func New(hub *engine.Hub, namespace string, hosted bool) *Service {
	return &Service{hub: hub, namespace: namespace, hosted: hosted}
}

// SetNamespace overrides the client's namespace. Only permitted on
// non-hosted deployments (spec §6, §7 NotPermitted).
func (s *Service) SetNamespace(ns string) error {
	if s.hosted {
		return errors.ErrNotPermitted
	}
	s.namespace = ns
	return nil
}

func (s *Service) resolve(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return path.Join("/", s.namespace, p)
}

// CreateInput creates an Input at p (namespace-relative unless
// absolute).
func (s *Service) CreateInput(p string, dataType sample.Type, units string) error {
	return s.hub.CreateInput(s.resolve(p), dataType, units)
}

// CreateOutput creates an Output at p.
func (s *Service) CreateOutput(p string, dataType sample.Type, units string) error {
	return s.hub.CreateOutput(s.resolve(p), dataType, units)
}

// DeleteResource removes the resource at p.
func (s *Service) DeleteResource(p string) error {
	return s.hub.DeleteResource(s.resolve(p))
}

// MarkOptional clears an Output's mandatory flag.
func (s *Service) MarkOptional(p string) error {
	return s.hub.MarkOptional(s.resolve(p))
}

func (s *Service) push(p string, smp sample.Sample) error {
	return s.hub.Push(s.resolve(p), smp)
}

// PushTrigger pushes a trigger sample. ts of 0 means "now" (resolved
// by the engine).
func (s *Service) PushTrigger(p string, ts float64) error {
	return s.push(p, sample.NewTrigger(ts))
}

// PushBool pushes a bool sample.
func (s *Service) PushBool(p string, ts float64, v bool) error {
	return s.push(p, sample.NewBool(ts, v))
}

// PushNumeric pushes a numeric sample.
func (s *Service) PushNumeric(p string, ts float64, v float64) error {
	return s.push(p, sample.NewNumeric(ts, v))
}

// PushString pushes a string sample.
func (s *Service) PushString(p string, ts float64, v string) error {
	smp, err := sample.NewString(ts, v)
	if err != nil {
		return err
	}
	return s.push(p, smp)
}

// PushJSON pushes a JSON sample.
func (s *Service) PushJSON(p string, ts float64, v string) error {
	smp, err := sample.NewJSON(ts, v)
	if err != nil {
		return err
	}
	return s.push(p, smp)
}

// GetTimestamp returns the current value's timestamp at p.
func (s *Service) GetTimestamp(p string) (float64, error) {
	v, err := s.hub.Get(s.resolve(p))
	if err != nil {
		return 0, err
	}
	return v.Timestamp(), nil
}

// GetBool reads the current value at p as bool.
func (s *Service) GetBool(p string) (bool, error) {
	v, err := s.hub.Get(s.resolve(p))
	if err != nil {
		return false, err
	}
	return v.Bool()
}

// GetNumeric reads the current value at p as numeric.
func (s *Service) GetNumeric(p string) (float64, error) {
	v, err := s.hub.Get(s.resolve(p))
	if err != nil {
		return 0, err
	}
	return v.Numeric()
}

// GetString reads the current value at p as string.
func (s *Service) GetString(p string) (string, error) {
	v, err := s.hub.Get(s.resolve(p))
	if err != nil {
		return "", err
	}
	return v.String()
}

// GetJSON reads the current value at p as a JSON document.
func (s *Service) GetJSON(p string) (string, error) {
	v, err := s.hub.Get(s.resolve(p))
	if err != nil {
		return "", err
	}
	return v.RawJSON()
}

// SetBoolDefault installs a default bool value at p.
func (s *Service) SetBoolDefault(p string, v bool) error {
	return s.hub.SetDefault(s.resolve(p), sample.NewBool(0, v))
}

// SetNumericDefault installs a default numeric value at p.
func (s *Service) SetNumericDefault(p string, v float64) error {
	return s.hub.SetDefault(s.resolve(p), sample.NewNumeric(0, v))
}

// SetStringDefault installs a default string value at p.
func (s *Service) SetStringDefault(p string, v string) error {
	smp, err := sample.NewString(0, v)
	if err != nil {
		return err
	}
	return s.hub.SetDefault(s.resolve(p), smp)
}

// SetJSONDefault installs a default JSON value at p.
func (s *Service) SetJSONDefault(p string, v string) error {
	smp, err := sample.NewJSON(0, v)
	if err != nil {
		return err
	}
	return s.hub.SetDefault(s.resolve(p), smp)
}

// SetJSONExample records an example JSON document at p without
// pushing it as a value, used by documentation/introspection tools
// that display a schema shape for JSON resources. Implemented as a
// default assignment followed by a JSON-example-changed mark, since
// the resource tree tracks that flag for snapshot relevance (spec
// §4.7).
func (s *Service) SetJSONExample(p string, v string) error {
	if err := s.SetJSONDefault(p, v); err != nil {
		return err
	}
	e, err := s.hub.EntryAt(s.resolve(p))
	if err != nil {
		return err
	}
	e.MarkJSONExampleChanged()
	return nil
}

// PatchJSONExample applies a single-field update to the example
// document recorded at p (creating it as "{}" if none exists yet)
// rather than requiring the caller to resend the whole document, then
// records the result the same way SetJSONExample does.
func (s *Service) PatchJSONExample(p, spec, rawValue string) error {
	current, err := s.GetJSON(p)
	if err != nil && !errors.Is(err, errors.ErrUnavailable) && !errors.Is(err, errors.ErrNotFound) {
		return err
	}
	patched, err := jsonpath.SetRaw(current, spec, rawValue)
	if err != nil {
		return err
	}
	return s.SetJSONExample(p, patched)
}

// AddPushHandler registers a push-handler for p at dataType.
func (s *Service) AddPushHandler(p string, dataType sample.Type, fn resource.HandlerFunc) error {
	return s.hub.AddPushHandler(s.resolve(p), dataType, fn)
}

// RemovePushHandler unregisters p's push-handler for dataType.
func (s *Service) RemovePushHandler(p string, dataType sample.Type) error {
	return s.hub.RemovePushHandler(s.resolve(p), dataType)
}

// AddUpdateStartEndHandler registers a barrier transition callback.
func (s *Service) AddUpdateStartEndHandler(fn engine.StartEndHandler) {
	s.hub.AddUpdateStartEndHandler(fn)
}
