package resource

import (
	"math"

	"github.com/legatoproject/datahub/internal/sample"
	"github.com/legatoproject/datahub/internal/tree"
)

// Transform identifies the aggregation applied to an accepted sample
// using the current buffer window (spec §4.4).
type Transform int

const (
	TransformNone Transform = iota
	TransformMean
	TransformStdDev
	TransformMin
	TransformMax
)

// ParseTransform maps the configuration-file transform strings (spec
// §6) onto a Transform value.
func ParseTransform(s string) (Transform, bool) {
	switch s {
	case "", "none":
		return TransformNone, true
	case "mean":
		return TransformMean, true
	case "std_dev", "stddev":
		return TransformStdDev, true
	case "min":
		return TransformMin, true
	case "max":
		return TransformMax, true
	default:
		return TransformNone, false
	}
}

// ObservationBody is an admin-created interposer with filters, a
// transform, a circular buffer, and optional disk backup (spec §3).
type ObservationBody struct {
	Base

	DataType sample.Type // last-assigned type, per invariants

	// Filters, evaluated in order (spec §4.4).
	MinPeriod float64 // seconds; 0 disables
	ChangeBy  float64 // 0 disables
	HasLimits bool
	LowLimit  float64
	HighLimit float64
	ExtractionSpec string // "" disables JSON extraction

	Transform Transform

	Buffer *RingBuffer

	BackupPeriod   float64 // seconds; 0 disables
	LastBackup     float64
	LastAccepted   *sample.Sample

	// DestinationLabel is the opaque external destination (spec
	// §4.5); empty means none.
	DestinationLabel string

	// FromConfig marks that this observation's current settings were
	// installed by the config service, so a later config reload knows
	// to replace rather than merge (spec §6).
	FromConfig bool
}

// NewObservation creates an Observation body with a zero-capacity
// buffer and no filters, matching a freshly admin-created observation
// before any configure_* call.
func NewObservation() *ObservationBody {
	return &ObservationBody{Buffer: NewRingBuffer(0)}
}

// Kind implements tree.Body.
func (b *ObservationBody) Kind() tree.Kind { return tree.Observation }

// MoveSettingsFrom implements tree.Body: an Observation promoted from
// a Placeholder inherits source/default/override; an Observation
// replacing another Observation (reconfigure) is handled by direct
// field mutation in the admin service, not via this path.
func (b *ObservationBody) MoveSettingsFrom(old tree.Body) {
	if o, ok := old.(*PlaceholderBody); ok {
		b.moveBaseFrom(&o.Base)
		b.DataType = o.DataType
	}
}

// Accept applies the buffer/transform stage of the push pipeline to a
// sample that has already survived filtering (spec §4.4): it appends
// to the buffer, then computes the transform output over the buffer's
// current window, returning the sample to install as current value.
func (b *ObservationBody) Accept(s sample.Sample) sample.Sample {
	b.Buffer.Push(s)
	if b.Transform == TransformNone {
		v := s
		b.LastAccepted = &v
		return s
	}
	result := applyTransform(b.Transform, b.Buffer.Snapshot())
	out := sample.NewNumeric(s.Timestamp(), result)
	b.LastAccepted = &out
	return out
}

func applyTransform(t Transform, samples []sample.Sample) float64 {
	var values []float64
	for _, s := range samples {
		if v, err := s.Numeric(); err == nil {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return math.NaN()
	}
	switch t {
	case TransformMean:
		return mean(values)
	case TransformStdDev:
		return stdDev(values)
	case TransformMin:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m
	case TransformMax:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m
	default:
		return values[len(values)-1]
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// Stat computes a statistical query (spec §4.4) over the buffer
// contents at or after startTime. startTime values below
// thirtyYearsSeconds are interpreted as relative-from-now; op is one
// of "min", "max", "mean", "std_dev".
const thirtyYearsSeconds = 30 * 365.25 * 24 * 3600

func (b *ObservationBody) Stat(op string, startTime, now float64) float64 {
	threshold := startTime
	if startTime < thirtyYearsSeconds {
		threshold = now - startTime
	}

	var values []float64
	for _, s := range b.Buffer.Snapshot() {
		if s.Timestamp() < threshold {
			continue
		}
		if v, err := s.Numeric(); err == nil {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return math.NaN()
	}
	switch op {
	case "min":
		return applyTransform(TransformMin, toSamples(values))
	case "max":
		return applyTransform(TransformMax, toSamples(values))
	case "mean":
		return mean(values)
	case "std_dev":
		return stdDev(values)
	default:
		return math.NaN()
	}
}

func toSamples(values []float64) []sample.Sample {
	out := make([]sample.Sample, len(values))
	for i, v := range values {
		out[i] = sample.NewNumeric(0, v)
	}
	return out
}
