package analysis

import (
	"encoding/json"
	"maps"
)

const (
	keyOverallScore       = "overallScore"
	keyError              = "error"
	keyPerformanceMetrics = "performanceMetrics"
)

// Record is the structured result of interpreting one AI reply.
// OverallScore is nil when the reply could not be used; Error is then set.
type Record struct {
	OverallScore       *float64
	Error              string
	PerformanceMetrics map[string]int
	// Fields holds every other key the model returned, untouched.
	Fields map[string]any
}

// Failed builds a failure record with the given message.
func Failed(msg string) Record {
	if msg == "" {
		msg = FailureMessage
	}
	return Record{Error: msg}
}

func (r Record) OK() bool {
	return r.OverallScore != nil
}

// Score returns the overall score, or 0 for failure records.
func (r Record) Score() float64 {
	if r.OverallScore == nil {
		return 0
	}
	return *r.OverallScore
}

// MarshalJSON emits the flat object shape:
// {"overallScore": n|null, "error"?: "...", "performanceMetrics"?: {...}, ...}
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+3)
	maps.Copy(out, r.Fields)
	if r.OverallScore != nil {
		out[keyOverallScore] = *r.OverallScore
	} else {
		out[keyOverallScore] = nil
	}
	if r.Error != "" {
		out[keyError] = r.Error
	}
	if r.PerformanceMetrics != nil {
		out[keyPerformanceMetrics] = r.PerformanceMetrics
	}
	return json.Marshal(out)
}
