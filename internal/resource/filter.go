package resource

import (
	"math"

	"github.com/tidwall/gjson"

	"github.com/legatoproject/datahub/internal/jsonpath"
	"github.com/legatoproject/datahub/internal/sample"
)

// FilterResult reports the outcome of running an Observation's
// filters (spec §4.4) over an incoming sample.
type FilterResult struct {
	Accepted bool
	// RejectedRule names the rule that rejected the sample, for
	// metrics (internal/metrics RecordFilterReject) and debugging.
	// Empty when Accepted is true.
	RejectedRule string
	// Sample is the (possibly JSON-extraction-replaced) sample to
	// carry forward into Accept. Equal to the input sample unless the
	// JSON extraction rule replaced it.
	Sample sample.Sample
}

// Filter evaluates the filtering rules in order, rejecting on the
// first rule that fires (spec §4.4). sourceUnits is the units
// declared on the upstream resource this observation routes from, or
// "" if there is none or it is unspecified.
func (b *ObservationBody) Filter(incoming sample.Sample, sourceUnits string) FilterResult {
	if b.MinPeriod > 0 && b.LastAccepted != nil {
		if incoming.Timestamp()-b.LastAccepted.Timestamp() < b.MinPeriod {
			return FilterResult{RejectedRule: "min-period"}
		}
	}

	if b.ChangeBy > 0 && b.LastAccepted != nil && incoming.Type() != sample.Trigger {
		if rejected := changeByRejects(b.ChangeBy, *b.LastAccepted, incoming); rejected {
			return FilterResult{RejectedRule: "change-by"}
		}
	}

	current := incoming
	if b.HasLimits {
		v, ok := limitValue(incoming)
		if ok && (v < b.LowLimit || v > b.HighLimit) {
			return FilterResult{RejectedRule: "limit"}
		}
	}

	if b.ExtractionSpec != "" {
		doc, err := incoming.RawJSON()
		if err != nil {
			return FilterResult{RejectedRule: "json-extraction"}
		}
		extracted, ok := extractSample(doc, b.ExtractionSpec, incoming.Timestamp())
		if !ok {
			return FilterResult{RejectedRule: "json-extraction"}
		}
		current = extracted
	}

	if b.Units != "" && sourceUnits != "" && b.Units != sourceUnits {
		return FilterResult{RejectedRule: "unit"}
	}

	return FilterResult{Accepted: true, Sample: current}
}

func changeByRejects(changeBy float64, last, incoming sample.Sample) bool {
	switch incoming.Type() {
	case sample.Numeric:
		lv, lerr := last.Numeric()
		iv, ierr := incoming.Numeric()
		if lerr != nil || ierr != nil {
			return false
		}
		return math.Abs(iv-lv) < changeBy
	case sample.Bool, sample.String, sample.JSON:
		return last.Equal(incoming)
	default:
		return false
	}
}

func limitValue(s sample.Sample) (float64, bool) {
	switch s.Type() {
	case sample.Numeric:
		v, err := s.Numeric()
		return v, err == nil
	case sample.Bool:
		v, err := s.Bool()
		if err != nil {
			return 0, false
		}
		if v {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func extractSample(jsonDoc, spec string, ts float64) (sample.Sample, bool) {
	r, err := jsonpath.Extract(jsonDoc, spec)
	if err != nil {
		return sample.Sample{}, false
	}
	switch r.Type {
	case gjson.Number:
		return sample.NewNumeric(ts, r.Num), true
	case gjson.True, gjson.False:
		return sample.NewBool(ts, r.Bool()), true
	case gjson.String:
		s, err := sample.NewString(ts, r.Str)
		return s, err == nil
	default:
		s, err := sample.NewJSON(ts, r.Raw)
		return s, err == nil
	}
}
