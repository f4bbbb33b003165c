// Package queryservice implements the Query facade (spec §6): typed
// current-value reads, buffered-sample reads, statistical queries,
// and tree snapshots.
package queryservice

import (
	"io"

	"github.com/legatoproject/datahub/internal/engine"
	"github.com/legatoproject/datahub/internal/sample"
)

// Service is the Query facade.
type Service struct {
	hub *engine.Hub
}

// New creates a Query facade over hub.
func New(hub *engine.Hub) *Service { return &Service{hub: hub} }

// Get returns the current value at path in whatever type it is
// natively stored; typed callers use the sample's own Bool/Numeric/
// String/RawJSON accessors.
func (s *Service) Get(path string) (sample.Sample, error) {
	return s.hub.Get(path)
}

// BufferedSamples returns an observation's buffered samples, oldest
// first.
func (s *Service) BufferedSamples(path string) ([]sample.Sample, error) {
	return s.hub.BufferedSamples(path)
}

// Stat runs a statistical query (min/max/mean/std_dev) over an
// observation's buffer.
func (s *Service) Stat(path, op string, startTime float64) (float64, error) {
	return s.hub.Stat(path, op, startTime)
}

// Snapshot streams an encoded view of the subtree at rootPath to w.
func (s *Service) Snapshot(rootPath string, since float64, flags engine.SnapshotFlags, format engine.Format, w io.Writer) error {
	return s.hub.Snapshot(rootPath, since, flags, format, w)
}
