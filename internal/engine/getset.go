package engine

import (
	"github.com/legatoproject/datahub/internal/errors"
	"github.com/legatoproject/datahub/internal/resource"
	"github.com/legatoproject/datahub/internal/sample"
	"github.com/legatoproject/datahub/internal/tree"
)

// Get returns the current value at path, or Unavailable if the
// resource exists but has never received a value.
func (h *Hub) Get(path string) (sample.Sample, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, err := h.root.Find(path, false)
	if err != nil {
		return sample.Sample{}, err
	}
	base := baseOf(e.Body())
	if base == nil {
		return sample.Sample{}, errors.ErrNotFound
	}
	cur, ok := base.EffectiveValue()
	if !ok {
		return sample.Sample{}, errors.ErrUnavailable
	}
	return cur, nil
}

// SetDefault installs a default sample on the resource at path. Get
// serves it while the resource has no current value and no override
// (spec §6 set_{type}_default).
func (h *Hub) SetDefault(path string, s sample.Sample) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, err := h.root.Find(path, false)
	if err != nil {
		return err
	}
	base := baseOf(e.Body())
	if base == nil {
		return errors.ErrBadParameter
	}
	v := s
	base.Default = &v
	return nil
}

// SetOverride installs an override sample that takes precedence over
// any pushed current value (spec §6 admin set_override).
func (h *Hub) SetOverride(path string, s sample.Sample) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, err := h.root.Find(path, false)
	if err != nil {
		return err
	}
	base := baseOf(e.Body())
	if base == nil {
		return errors.ErrBadParameter
	}
	v := s
	base.Override = &v
	return nil
}

// AddPushHandler registers a push-handler on path for dataType,
// replaying the current value immediately if one exists (spec §4.3).
func (h *Hub) AddPushHandler(path string, dataType sample.Type, fn resource.HandlerFunc) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, err := h.root.Find(path, false)
	if err != nil {
		return err
	}
	base := baseOf(e.Body())
	if base == nil {
		return errors.ErrBadParameter
	}
	base.AddHandler(dataType, fn)
	return nil
}

// RemovePushHandler unregisters every handler of dataType on path.
func (h *Hub) RemovePushHandler(path string, dataType sample.Type) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, err := h.root.Find(path, false)
	if err != nil {
		return err
	}
	base := baseOf(e.Body())
	if base == nil {
		return errors.ErrBadParameter
	}
	base.RemoveHandler(dataType)
	return nil
}

// ConfigureObservation applies admin settings to an existing
// observation (spec §6 admin configure calls). ConfigureObservation
// overwrites every field with cfg's value, so a zero-value field in
// cfg resets that setting.
type ObservationConfig struct {
	MinPeriod        float64
	ChangeBy         float64
	HasLimits        bool
	LowLimit         float64
	HighLimit        float64
	ExtractionSpec   string
	Transform        resource.Transform
	BufferMaxCount   int
	BackupPeriod     float64
	DestinationLabel string
	FromConfig       bool
}

// ConfigureObservation applies cfg to the observation at path.
func (h *Hub) ConfigureObservation(path string, cfg ObservationConfig) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, err := h.root.Find(path, false)
	if err != nil {
		return err
	}
	ob, ok := e.Body().(*resource.ObservationBody)
	if !ok {
		return errNotObservation
	}

	ob.MinPeriod = cfg.MinPeriod
	ob.ChangeBy = cfg.ChangeBy
	ob.HasLimits = cfg.HasLimits
	ob.LowLimit = cfg.LowLimit
	ob.HighLimit = cfg.HighLimit
	ob.ExtractionSpec = cfg.ExtractionSpec
	ob.Transform = cfg.Transform
	if ob.Buffer.Capacity() != cfg.BufferMaxCount {
		ob.Buffer.Resize(cfg.BufferMaxCount)
	}
	ob.BackupPeriod = cfg.BackupPeriod
	ob.DestinationLabel = cfg.DestinationLabel
	ob.FromConfig = cfg.FromConfig
	return nil
}

// Stat runs a statistical query over an observation's buffer (spec
// §4.4 min/max/mean/std_dev).
func (h *Hub) Stat(path, op string, startTime float64) (float64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, err := h.root.Find(path, false)
	if err != nil {
		return 0, err
	}
	ob, ok := e.Body().(*resource.ObservationBody)
	if !ok {
		return 0, errNotObservation
	}
	return ob.Stat(op, startTime, h.clock()), nil
}

// BufferedSamples returns an observation's buffered samples, oldest
// first.
func (h *Hub) BufferedSamples(path string) ([]sample.Sample, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, err := h.root.Find(path, false)
	if err != nil {
		return nil, err
	}
	ob, ok := e.Body().(*resource.ObservationBody)
	if !ok {
		return nil, errNotObservation
	}
	return ob.Buffer.Snapshot(), nil
}

// MarkOptional clears an Output's Mandatory flag (spec §6
// mark_optional).
func (h *Hub) MarkOptional(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, err := h.root.Find(path, false)
	if err != nil {
		return err
	}
	ob, ok := e.Body().(*resource.OutputBody)
	if !ok {
		return errors.ErrBadParameter
	}
	ob.Mandatory = false
	return nil
}

// EntryAt resolves path for read-only inspection by the query/admin
// facades (e.g. to report a resource's Kind before dispatching a
// typed operation).
func (h *Hub) EntryAt(path string) (*tree.Entry, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.root.Find(path, false)
}
