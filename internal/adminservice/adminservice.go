// Package adminservice implements the Admin facade (spec §6):
// creating and configuring Observations, routing, and the
// update-barrier protocol.
package adminservice

import (
	"github.com/legatoproject/datahub/internal/engine"
	"github.com/legatoproject/datahub/internal/sample"
)

// Service is the Admin facade, operating on absolute paths (admins
// are not scoped to a single client namespace).
type Service struct {
	hub *engine.Hub
}

// New creates an Admin facade over hub.
func New(hub *engine.Hub) *Service { return &Service{hub: hub} }

// CreateObservation creates an unconfigured observation at path.
func (s *Service) CreateObservation(path string) error {
	return s.hub.CreateObservation(path)
}

// DeleteResource deletes the resource at path (I/O downgrades to
// Placeholder if settings survive; Observation tombstones).
func (s *Service) DeleteResource(path string) error {
	return s.hub.DeleteResource(path)
}

// ConfigureObservation applies filter/transform/buffer/backup
// settings to an existing observation.
func (s *Service) ConfigureObservation(path string, cfg engine.ObservationConfig) error {
	return s.hub.ConfigureObservation(path, cfg)
}

// SetSource installs destPath's source link (cycle-checked).
func (s *Service) SetSource(destPath, srcPath string) error {
	return s.hub.SetSource(destPath, srcPath)
}

// SetDestination sets an observation's external destination label or,
// for a path-shaped label, installs the equivalent source link.
func (s *Service) SetDestination(obsPath, label string) error {
	return s.hub.SetDestination(obsPath, label)
}

// SetDefault installs a default sample on path.
func (s *Service) SetDefault(path string, smp sample.Sample) error {
	return s.hub.SetDefault(path, smp)
}

// SetOverride installs an override sample on path.
func (s *Service) SetOverride(path string, smp sample.Sample) error {
	return s.hub.SetOverride(path, smp)
}

// PushAdmin lets an administrator push directly to any resource,
// including an Input (spec §4.5: "explicit admin pushes" are one of
// the two routes an Input accepts values from).
func (s *Service) PushAdmin(path string, smp sample.Sample) error {
	return s.hub.Push(path, smp)
}

// RegisterDestinationHandler installs the callback invoked for a
// non-path-shaped external destination label.
func (s *Service) RegisterDestinationHandler(name string, fn engine.DestinationHandler) {
	s.hub.RegisterDestinationHandler(name, fn)
}

// StartUpdate opens the update barrier.
func (s *Service) StartUpdate() error { return s.hub.StartUpdate() }

// EndUpdate closes the update barrier and flushes collapsed pushes.
func (s *Service) EndUpdate() error { return s.hub.EndUpdate() }

// AddUpdateStartEndHandler registers a barrier transition callback.
func (s *Service) AddUpdateStartEndHandler(fn engine.StartEndHandler) {
	s.hub.AddUpdateStartEndHandler(fn)
}

// EnableDeletionTracking turns tombstone retention on or off.
func (s *Service) EnableDeletionTracking(enabled bool) {
	s.hub.EnableDeletionTracking(enabled)
}
