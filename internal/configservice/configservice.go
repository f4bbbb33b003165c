// Package configservice implements the Config facade (spec §6):
// loading a hub configuration document and installing the observation
// set and static resource state it describes, replacing whatever was
// previously installed by configuration.
package configservice

import (
	"encoding/json"

	"github.com/legatoproject/datahub/internal/engine"
	"github.com/legatoproject/datahub/internal/errors"
	"github.com/legatoproject/datahub/internal/hubconfig"
	"github.com/legatoproject/datahub/internal/resource"
	"github.com/legatoproject/datahub/internal/sample"
)

// Service is the Config facade.
type Service struct {
	hub *engine.Hub
	// installed tracks observation paths previously installed by a
	// prior Load, so a reload can remove ones the new document drops.
	installed map[string]bool
}

// New creates a Config facade over hub.
func New(hub *engine.Hub) *Service {
	return &Service{hub: hub, installed: make(map[string]bool)}
}

// Load parses data as a hub configuration document and installs it,
// replacing the previously config-installed observation set (spec
// §6: "replaces the observation-and-state set previously installed
// via configuration").
func (s *Service) Load(data []byte) error {
	doc, err := hubconfig.Parse(data)
	if err != nil {
		return err
	}

	for path := range s.installed {
		if _, stillPresent := doc.Observations[path]; !stillPresent {
			_ = s.hub.DeleteResource(path)
		}
	}

	installed := make(map[string]bool, len(doc.Observations))
	for path, spec := range doc.Observations {
		if err := s.installObservation(path, spec); err != nil {
			return errors.Wrap(err, "install observation %q", path)
		}
		installed[path] = true
	}
	s.installed = installed

	for path, spec := range doc.Static {
		if err := s.installStatic(path, spec); err != nil {
			return errors.Wrap(err, "install static entry %q", path)
		}
	}

	return nil
}

func (s *Service) installObservation(path string, spec hubconfig.ObservationSpec) error {
	if err := s.hub.CreateObservation(path); err != nil && err != errors.ErrDuplicate {
		return err
	}

	transform, ok := resource.ParseTransform(spec.Transform)
	if !ok {
		return errors.ErrBadParameter
	}

	cfg := engine.ObservationConfig{
		MinPeriod:        spec.MinPeriod,
		ChangeBy:         spec.ChangeBy,
		ExtractionSpec:   spec.Path,
		Transform:        transform,
		BufferMaxCount:   spec.BufferCount,
		DestinationLabel: spec.Destination,
		FromConfig:       true,
	}
	if spec.LowLimit != nil && spec.HighLimit != nil {
		cfg.HasLimits = true
		cfg.LowLimit = *spec.LowLimit
		cfg.HighLimit = *spec.HighLimit
	}

	if err := s.hub.ConfigureObservation(path, cfg); err != nil {
		return err
	}

	if spec.Source != "" {
		if err := s.hub.SetSource(path, spec.Source); err != nil {
			return err
		}
	}
	if spec.Destination != "" {
		if err := s.hub.SetDestination(path, spec.Destination); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) installStatic(path string, spec hubconfig.StaticSpec) error {
	smp, err := decodeStatic(spec)
	if err != nil {
		return err
	}
	if spec.DataType != "" {
		dt, ok := sample.ParseType(spec.DataType)
		if !ok {
			return errors.ErrBadParameter
		}
		if smp, err = sample.Coerce(smp, dt); err != nil {
			return err
		}
	}
	return s.hub.SetDefault(path, smp)
}

func decodeStatic(spec hubconfig.StaticSpec) (sample.Sample, error) {
	var v interface{}
	if err := json.Unmarshal(spec.Value, &v); err != nil {
		return sample.Sample{}, errors.ErrBadParameter
	}

	switch t := v.(type) {
	case bool:
		return sample.NewBool(0, t), nil
	case float64:
		return sample.NewNumeric(0, t), nil
	case string:
		return sample.NewString(0, t)
	case nil:
		return sample.NewTrigger(0), nil
	default:
		return sample.NewJSON(0, string(spec.Value))
	}
}
