package models

// ConflictReport is the detection result for one ticket. It is always
// recomputed from the ticket's annotations and never persisted on its own.
type ConflictReport struct {
	HasConflict     bool `json:"has_conflict"`
	IntentConflict  bool `json:"intent_conflict"`
	UrgencyConflict bool `json:"urgency_conflict"`

	// Vote tallies per dimension, keyed by raw category value.
	IntentDistribution  map[string]int `json:"intent_distribution"`
	UrgencyDistribution map[string]int `json:"urgency_distribution"`
}

// Confidence bands derived from the numeric confidence score.
const (
	BandHigh   = "high"
	BandMedium = "medium"
	BandLow    = "low"
)

// Resolution is the resolver's output for one ticket. MajorityIntent and
// MajorityUrgency record the raw vote winners before any keyword override
// or escalation, so every adjustment stays auditable.
type Resolution struct {
	Intent          string  `json:"intent"`
	Urgency         string  `json:"urgency"`
	MajorityIntent  string  `json:"majority_intent"`
	MajorityUrgency string  `json:"majority_urgency"`
	Confidence      float64 `json:"confidence"`
	Band            string  `json:"band"`
	Explanation     string  `json:"explanation"`
}

// Label returns the resolved composite label, or the empty string for the
// sentinel resolution of a ticket with no annotations.
func (r Resolution) Label() string {
	if r.Intent == "" && r.Urgency == "" {
		return ""
	}
	return r.Intent + "|" + r.Urgency
}

// LabelEntry is one annotator's label in the output schema, with the
// composite serialized form.
type LabelEntry struct {
	Annotator string `json:"annotator"`
	Label     string `json:"label"`
}

// OutputRecord is the external representation of an analyzed ticket.
// ConflictReason is nil for tickets whose annotators agree; Resolution is
// nil only when the caller asked for the compact output shape.
type OutputRecord struct {
	ID             string       `json:"id"`
	Text           string       `json:"text"`
	Labels         []LabelEntry `json:"labels"`
	IsConflict     bool         `json:"is_conflict"`
	ConflictReason *string      `json:"conflict_reason"`
	SuggestedLabel string       `json:"suggested_label"`
	Resolution     *Resolution  `json:"resolution,omitempty"`
}
